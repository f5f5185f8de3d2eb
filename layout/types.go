package layout

// Document 是布局结果：按顺序排列的页面以及 PDF 信息字典所需的元数据。
type Document struct {
	Pages []Page       `json:"pages"`
	Meta  DocumentMeta `json:"meta"`
}

// Page 为固定尺寸页面（mm），Runs 按放置顺序排列。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Runs   []Run   `json:"runs"`
}

// Run 是一行已放置的文本。X/Y 为基线起点（mm），以页面左下角为原点；FontSize 单位为 pt。
type Run struct {
	Content  string  `json:"content"`
	FontSize float64 `json:"fontSize"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// DocumentMeta 对应 PDF 文档信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// RunCount 返回所有页面上的文本行总数。
func (d *Document) RunCount() int {
	if d == nil {
		return 0
	}
	n := 0
	for _, p := range d.Pages {
		n += len(p.Runs)
	}
	return n
}
