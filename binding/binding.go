package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${name} 或 ${name.key} 替换为 data 中的值。
// 路径只沿映射逐级下降；路径不存在时保留原占位符。替换只进行一轮，
// 插入值中的 ${...} 不会再次展开。
func Interpolate(text string, data map[string]any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" {
			return match
		}
		if val, ok := lookup(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Placeholders 按出现顺序返回 text 中引用的路径（去重）。
func Placeholders(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		path := strings.TrimSpace(groups[1])
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, path)
	}
	return out
}

// Root 返回路径的首段，例如 "record.Name" → "record"。
func Root(path string) string {
	root, _, _ := strings.Cut(path, ".")
	return root
}

// lookup 逐段解析路径。记录列名可能包含空格，但不含 '.'。
func lookup(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, key := range strings.Split(path, ".") {
		switch c := current.(type) {
		case map[string]any:
			v, ok := c[key]
			if !ok {
				return nil, false
			}
			current = v
		case map[string]string:
			v, ok := c[key]
			if !ok {
				return nil, false
			}
			current = v
		default:
			return nil, false
		}
	}
	return current, true
}
