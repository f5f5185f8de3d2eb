package layout

import "fmt"

// Geometry 描述页面画布与两种模式的文本度量。长度单位 mm，字号单位 pt，
// 纵向坐标自页面底边向上计算。
type Geometry struct {
	PageWidth     float64 `yaml:"page_width" json:"pageWidth"`
	PageHeight    float64 `yaml:"page_height" json:"pageHeight"`
	LeftMargin    float64 `yaml:"left_margin" json:"leftMargin"`
	TopMargin     float64 `yaml:"top_margin" json:"topMargin"`
	BottomMargin  float64 `yaml:"bottom_margin" json:"bottomMargin"`
	TitleY        float64 `yaml:"title_y" json:"titleY"`
	TitleGap      float64 `yaml:"title_gap" json:"titleGap"`
	TitleFontSize float64 `yaml:"title_font_size" json:"titleFontSize"`
	// ContentWidth 为换行宽度，固定值，不由页边距推算。
	ContentWidth float64 `yaml:"content_width" json:"contentWidth"`
	// WidthFactor 为单个字符的估算宽度。
	WidthFactor float64 `yaml:"width_factor" json:"widthFactor"`

	Questions ModeStyle `yaml:"questions" json:"questions"`
	Analysis  ModeStyle `yaml:"analysis" json:"analysis"`
}

// ModeStyle 为某一模式下正文的字号、行高与块间距。
type ModeStyle struct {
	FontSize   float64 `yaml:"font_size" json:"fontSize"`
	LineHeight float64 `yaml:"line_height" json:"lineHeight"`
	// BlockGap 为每个编号条目或段落之后追加的间距。
	BlockGap float64 `yaml:"block_gap" json:"blockGap"`
}

// DefaultGeometry 返回两类文档共用的 A4 几何参数。
func DefaultGeometry() Geometry {
	return Geometry{
		PageWidth:     210,
		PageHeight:    297,
		LeftMargin:    10,
		TopMargin:     260,
		BottomMargin:  40,
		TitleY:        270,
		TitleGap:      20,
		TitleFontSize: 16,
		ContentWidth:  240,
		WidthFactor:   2.2,
		Questions:     ModeStyle{FontSize: 12, LineHeight: 8, BlockGap: 4},
		Analysis:      ModeStyle{FontSize: 10, LineHeight: 7, BlockGap: 3},
	}
}

// Validate 校验 bottom < top <= page height、驱动排版循环的尺寸均为正数，
// 且行高不小于字号（换算为 mm 后），否则相邻行会重叠。
func (g Geometry) Validate() error {
	if g.PageWidth <= 0 || g.PageHeight <= 0 {
		return fmt.Errorf("layout: page size must be positive, got %gx%g", g.PageWidth, g.PageHeight)
	}
	if !(g.BottomMargin < g.TopMargin) {
		return fmt.Errorf("layout: bottom margin %g must be below top margin %g", g.BottomMargin, g.TopMargin)
	}
	if g.TopMargin > g.PageHeight {
		return fmt.Errorf("layout: top margin %g exceeds page height %g", g.TopMargin, g.PageHeight)
	}
	if g.ContentWidth <= 0 || g.WidthFactor <= 0 {
		return fmt.Errorf("layout: content width and width factor must be positive")
	}
	for name, m := range map[string]ModeStyle{"questions": g.Questions, "analysis": g.Analysis} {
		if m.LineHeight <= 0 || m.FontSize <= 0 {
			return fmt.Errorf("layout: %s line height and font size must be positive", name)
		}
		if m.LineHeight < ToMm(m.FontSize) {
			return fmt.Errorf("layout: %s line height %gmm is below the %gpt font size", name, m.LineHeight, m.FontSize)
		}
		if m.BlockGap < 0 {
			return fmt.Errorf("layout: %s block gap must not be negative", name)
		}
	}
	return nil
}
