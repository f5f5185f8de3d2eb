package layout

import (
	"strings"
	"unicode/utf8"
)

// Wrapper 按字符数估算宽度进行贪心换行，不使用真实字形度量。
type Wrapper struct {
	WidthFactor float64
}

// EstimateWidth 返回 s 的估算宽度：字符数 × WidthFactor。
func (w Wrapper) EstimateWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * w.WidthFactor
}

// Wrap 以空白切分 text，把单词依次拼入当前行，超出 maxWidth 时换行。
// 单词从不拆分：比 maxWidth 更宽的单词独占一行。空输入返回空切片。
func (w Wrapper) Wrap(text string, maxWidth float64) []string {
	words := strings.Fields(text)
	lines := make([]string, 0, len(words)/4+1)
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if w.EstimateWidth(candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
