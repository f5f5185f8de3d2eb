package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10oblique"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// 内置字体名称。
const (
	SansRegular = "lmsans-regular"
	SansBold    = "lmsans-bold"
	SansOblique = "lmsans-oblique"
)

// Default 为渲染器未指定字体时使用的内置字体。
const Default = SansRegular

var builtin = map[string][]byte{
	SansRegular: lmsans10regular.TTF,
	SansBold:    lmsans10bold.TTF,
	SansOblique: lmsans10oblique.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:lmsans-regular" 或直接 "lmsans-regular"。
func Load(name string) ([]byte, error) {
	clean := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "embed:")))
	if clean == "" {
		clean = Default
	}
	data, ok := builtin[clean]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字体", name)
	}
	return data, nil
}

// Names 返回全部内置字体名称。
func Names() []string {
	return []string{SansRegular, SansBold, SansOblique}
}
