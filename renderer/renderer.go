package renderer

import "github.com/ByLCY/swotdoc/layout"

// Renderer 将布局结果输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(doc *layout.Document) ([]byte, error)
}

// 可选的渲染器名称。
const (
	NameFPDF   = "fpdf"
	NameCanvas = "canvas"
)
