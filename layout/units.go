package layout

// pt 与 mm 的换算常量。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// ToPt 将毫米换算为 pt。
func ToPt(mm float64) float64 { return mm * MmToPt }

// ToMm 将 pt 换算为毫米。
func ToMm(pt float64) float64 { return pt * PtToMm }
