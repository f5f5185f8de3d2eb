package layout

// pageFlow 维护当前页与纵向游标，负责在游标越过下边距时追加新页。
// 一个 pageFlow 只服务于一次文档构建。
type pageFlow struct {
	geom    Geometry
	pages   []Page
	cursorY float64
}

func newPageFlow(g Geometry) *pageFlow {
	pf := &pageFlow{geom: g}
	pf.newPage()
	return pf
}

func (pf *pageFlow) newPage() *Page {
	pf.pages = append(pf.pages, Page{Width: pf.geom.PageWidth, Height: pf.geom.PageHeight})
	pf.cursorY = pf.geom.TopMargin
	return pf.curr()
}

func (pf *pageFlow) curr() *Page {
	return &pf.pages[len(pf.pages)-1]
}

// placeAt 在当前页直接放置一行，不做分页检查，也不移动游标。标题使用。
func (pf *pageFlow) placeAt(content string, fontSize, x, y float64) {
	p := pf.curr()
	p.Runs = append(p.Runs, Run{Content: content, FontSize: fontSize, X: x, Y: y})
}

// place 先检查后放置：游标低于下边距时换页并回到上边距，再放置该行，
// 然后游标下移 lineHeight。
func (pf *pageFlow) place(line string, fontSize, lineHeight float64) {
	if pf.cursorY < pf.geom.BottomMargin {
		pf.newPage()
	}
	pf.placeAt(line, fontSize, pf.geom.LeftMargin, pf.cursorY)
	pf.cursorY -= lineHeight
}

// advance 仅移动游标。
func (pf *pageFlow) advance(dy float64) {
	pf.cursorY -= dy
}

func (pf *pageFlow) moveTo(y float64) {
	pf.cursorY = y
}
