// Package fpdfrenderer writes layout documents with the PDF core fonts via
// codeberg.org/go-pdf/fpdf.
package fpdfrenderer

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/swotdoc/layout"
	"github.com/ByLCY/swotdoc/renderer"
)

// DefaultFont is the core font family used for every run.
const DefaultFont = "Helvetica"

// Epoch is stamped as creation and modification date so identical documents
// produce identical bytes.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the fpdf renderer.
type Options struct {
	Font     string
	Compress bool
	// Date overrides Epoch when non-zero.
	Date time.Time
}

// Renderer draws layout documents page by page. Layout coordinates are
// bottom-origin, fpdf text coordinates are top-origin; Render converts.
type Renderer struct {
	font     string
	compress bool
	date     time.Time
}

// NewRenderer creates a renderer with compression enabled and Helvetica text.
func NewRenderer() *Renderer {
	return NewRendererWithOptions(Options{Compress: true})
}

// NewRendererWithOptions creates a renderer from opts.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{font: opts.Font, compress: opts.Compress, date: opts.Date}
	if r.font == "" {
		r.font = DefaultFont
	}
	if r.date.IsZero() {
		r.date = Epoch
	}
	return r
}

// Render renders doc into a PDF byte slice.
func (r *Renderer) Render(doc *layout.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	first := doc.Pages[0]
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: first.Width, Ht: first.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(r.date)
	pdf.SetModificationDate(r.date)
	applyMeta(pdf, doc.Meta)

	// core fonts are cp1252; runes outside it degrade to '.'
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, page := range doc.Pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: page.Width, Ht: page.Height})
		for _, run := range page.Runs {
			pdf.SetFont(r.font, "", run.FontSize)
			pdf.Text(run.X, page.Height-run.Y, tr(run.Content))
		}
		if pdf.Err() {
			break
		}
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("生成 PDF 失败: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(pdf *fpdf.Fpdf, meta layout.DocumentMeta) {
	pdf.SetTitle(meta.Title, true)
	pdf.SetSubject(meta.Subject, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetCreator(meta.Creator, true)
	if len(meta.Keywords) > 0 {
		pdf.SetKeywords(strings.Join(meta.Keywords, ", "), true)
	}
}
