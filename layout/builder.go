package layout

import (
	"fmt"
	"strings"
)

// 文档类型，出现在标题 "{名称} - {类型}" 中。
const (
	KindQuestions = "Follow-up Questions"
	KindAnalysis  = "SWOT Analysis"
)

// Creator 写入 PDF 文档信息。
const Creator = "swotdoc"

// Builder 将问题列表或分析正文排版为多页 Document。
// Builder 本身无状态，可并发使用；每次构建都有独立的 pageFlow。
type Builder struct {
	geom Geometry
	wrap Wrapper
}

// NewBuilder 校验几何参数并返回 Builder。
func NewBuilder(g Geometry) (*Builder, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Builder{geom: g, wrap: Wrapper{WidthFactor: g.WidthFactor}}, nil
}

// Geometry 返回构建所用的几何参数。
func (b *Builder) Geometry() Geometry { return b.geom }

// Title 返回文档标题。
func Title(businessName, kind string) string {
	return businessName + " - " + kind
}

// Questions 以编号列表模式排版：第 i 项（从 1 开始）渲染为 "{i}. {text}"，
// 换行后逐行放置，整项结束后追加 BlockGap。
func (b *Builder) Questions(businessName string, questions []string) *Document {
	style := b.geom.Questions
	pf := b.start(businessName, KindQuestions)
	for i, q := range questions {
		item := fmt.Sprintf("%d. %s", i+1, q)
		for _, line := range b.wrap.Wrap(item, b.geom.ContentWidth) {
			pf.place(line, style.FontSize, style.LineHeight)
		}
		pf.advance(style.BlockGap)
	}
	return b.finish(pf, businessName, KindQuestions)
}

// Analysis 以段落模式排版：正文按 '\n' 切分为段落。空白段落只下移一个行高，
// 不产生文本行也不追加间距；其余段落去除首尾空白后换行放置，并追加 BlockGap。
func (b *Builder) Analysis(businessName, text string) *Document {
	style := b.geom.Analysis
	pf := b.start(businessName, KindAnalysis)
	for _, paragraph := range strings.Split(text, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			pf.advance(style.LineHeight)
			continue
		}
		for _, line := range b.wrap.Wrap(strings.TrimSpace(paragraph), b.geom.ContentWidth) {
			pf.place(line, style.FontSize, style.LineHeight)
		}
		pf.advance(style.BlockGap)
	}
	return b.finish(pf, businessName, KindAnalysis)
}

func (b *Builder) start(businessName, kind string) *pageFlow {
	pf := newPageFlow(b.geom)
	pf.placeAt(Title(businessName, kind), b.geom.TitleFontSize, b.geom.LeftMargin, b.geom.TitleY)
	pf.moveTo(b.geom.TopMargin - b.geom.TitleGap)
	return pf
}

func (b *Builder) finish(pf *pageFlow, businessName, kind string) *Document {
	return &Document{
		Pages: pf.pages,
		Meta: DocumentMeta{
			Title:    Title(businessName, kind),
			Author:   businessName,
			Subject:  kind,
			Creator:  Creator,
			Keywords: []string{businessName, kind},
		},
	}
}
