package canvasrenderer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/swotdoc/fonts"
	"github.com/ByLCY/swotdoc/layout"
)

func analysisDoc(t *testing.T) *layout.Document {
	t.Helper()
	b, err := layout.NewBuilder(layout.DefaultGeometry())
	if err != nil {
		t.Fatalf("创建排版器失败: %v", err)
	}
	return b.Analysis("Société Œuvre", "**FORCES**\n- Équipe expérimentée\n\n**MENACES**\n- Concurrence accrue")
}

func TestRenderProducesPDF(t *testing.T) {
	out, err := NewRenderer().Render(analysisDoc(t))
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("缺少 PDF 文件头: %q", out[:min(len(out), 8)])
	}
}

func TestUnknownFontFallsBack(t *testing.T) {
	r := NewRendererWithOptions(Options{Font: "missing"})
	if _, err := r.Render(analysisDoc(t)); err != nil {
		t.Fatalf("未知字体应回退到内置字体: %v", err)
	}
}

// textWidth 返回 content 在 sizePt 字号下的实际宽度（mm）。
func textWidth(t *testing.T, r *Renderer, content string, sizePt float64) float64 {
	t.Helper()
	family, err := r.family(r.font)
	if err != nil {
		t.Fatalf("加载字体失败: %v", err)
	}
	return family.Face(sizePt, canvas.Black, canvas.FontRegular, canvas.FontNormal).TextWidth(content)
}

// writeFont 将内置字体写入临时文件，模拟配置中的字体路径。
func writeFont(t *testing.T, name string) string {
	t.Helper()
	data, err := fonts.Load(name)
	if err != nil {
		t.Fatalf("读取内置字体失败: %v", err)
	}
	path := filepath.Join(t.TempDir(), name+".ttf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFontFromPath(t *testing.T) {
	r := NewRendererWithOptions(Options{
		Font:  "body",
		Fonts: map[string]string{"body": writeFont(t, fonts.SansBold)},
	})
	if _, err := r.Render(analysisDoc(t)); err != nil {
		t.Fatalf("使用配置字体渲染失败: %v", err)
	}
	bold := textWidth(t, r, "Quelle est la part de marché", 12)
	regular := textWidth(t, NewRenderer(), "Quelle est la part de marché", 12)
	if bold == regular {
		t.Fatalf("配置字体未生效：宽度与默认字体相同 (%g)", bold)
	}
}

func TestMissingFontFileFallsBack(t *testing.T) {
	r := NewRendererWithOptions(Options{
		Font:  "body",
		Fonts: map[string]string{"body": filepath.Join(t.TempDir(), "absent.otf")},
	})
	if _, err := r.Render(analysisDoc(t)); err != nil {
		t.Fatalf("字体文件缺失时应回退到内置字体: %v", err)
	}
	if w := textWidth(t, r, "hello", 12); w <= 0 {
		t.Fatalf("回退字体宽度应为正数，实际 %g", w)
	}
}

// TestEstimateIsConservative 验证字符数 × 2.2 的估算不小于 12pt 实际宽度，
// 即按估算换行的行不会在页面上溢出。
func TestEstimateIsConservative(t *testing.T) {
	r := NewRenderer()
	w := layout.Wrapper{WidthFactor: 2.2}
	for _, s := range []string{
		"Quelle est la part de marché actuelle de l'entreprise?",
		"iiiiiiiiiiiiiiiiiiiiiiiiiiiiiii",
		"1. Comment évaluez-vous votre position concurrentielle?",
	} {
		actual := textWidth(t, r, s, 12)
		if est := w.EstimateWidth(s); est < actual {
			t.Fatalf("估算宽度 %g 小于实际宽度 %g: %q", est, actual, s)
		}
	}
}

func TestRenderRejectsEmpty(t *testing.T) {
	if _, err := NewRenderer().Render(&layout.Document{}); err == nil {
		t.Fatalf("空文档应报错")
	}
}
