package canvasrenderer

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/swotdoc/fonts"
	"github.com/ByLCY/swotdoc/layout"
	"github.com/ByLCY/swotdoc/renderer"
)

// Renderer draws layout documents via github.com/tdewolff/canvas with an
// embedded TrueType/OpenType font, so non-Latin-1 text survives.
type Renderer struct {
	font string

	// font files by configured name, read when first used
	fontPaths map[string]string

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	// Font names the face used for every run: a key of Fonts, or an
	// embedded font ("embed:lmsans-regular"). Empty means fonts.Default.
	Font string
	// Fonts maps names to font file paths. A file that cannot be read or
	// parsed falls back to the embedded default.
	Fonts map[string]string
}

// NewRenderer creates a renderer using the default embedded font.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with configured font files.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		font:      opts.Font,
		fontPaths: map[string]string{},
		families:  map[string]*canvas.FontFamily{},
	}
	for name, path := range opts.Fonts {
		if name != "" && path != "" {
			r.fontPaths[name] = path
		}
	}
	return r
}

// Render renders the document into a PDF byte slice.
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	family, err := r.family(r.font)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, doc.Pages[0].Width, doc.Pages[0].Height, nil)
	r.applyMeta(writer, doc.Meta)
	for i, page := range doc.Pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		// 默认坐标系即左下角为原点，与布局一致
		r.drawPage(ctx, family, page)
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, family *canvas.FontFamily, page layout.Page) {
	faces := map[float64]*canvas.FontFace{}
	for _, run := range page.Runs {
		if run.Content == "" {
			continue
		}
		face, ok := faces[run.FontSize]
		if !ok {
			face = family.Face(run.FontSize, canvas.Black, canvas.FontRegular, canvas.FontNormal)
			faces[run.FontSize] = face
		}
		// run.Y 为基线位置
		ctx.DrawText(run.X, run.Y, canvas.NewTextLine(face, run.Content, canvas.Left))
	}
}

func (r *Renderer) family(name string) (*canvas.FontFamily, error) {
	if name == "" {
		name = "embed:" + fonts.Default
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if fam, ok := r.families[name]; ok {
		return fam, nil
	}
	fam := canvas.NewFontFamily(name)
	if err := r.loadFont(fam, name); err != nil {
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, err
		}
		r.families[name] = fallback
		return fallback, nil
	}
	r.families[name] = fam
	return fam, nil
}

func (r *Renderer) loadFont(family *canvas.FontFamily, name string) error {
	data, err := r.loadFontBytes(name)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, canvas.FontRegular)
}

func (r *Renderer) loadFontBytes(name string) ([]byte, error) {
	if strings.HasPrefix(name, "embed:") {
		return fonts.Load(name)
	}
	path, ok := r.fontPaths[name]
	if !ok {
		return nil, fmt.Errorf("找不到字体资源 %s", name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", name, err)
	}
	return data, nil
}

func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	key := "embed:" + fonts.Default
	if fam, ok := r.families[key]; ok {
		return fam, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(fonts.Default)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载内置字体失败: %w", err)
	}
	r.families[key] = family
	return family, nil
}
