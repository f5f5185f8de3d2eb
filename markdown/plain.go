// Package markdown flattens model output written in Markdown into plain
// paragraphs suitable for prose layout.
package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Plain converts src to plain text: emphasis and heading markers are
// dropped, list items keep a "- " or "N. " marker, and top-level blocks are
// separated by one blank line.
func Plain(src string) string {
	source := []byte(src)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	p := &plainWriter{source: source}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if len(p.lines) > 0 {
			p.lines = append(p.lines, "")
		}
		p.block(n, "")
	}
	return strings.Join(p.lines, "\n")
}

type plainWriter struct {
	source []byte
	lines  []string
}

func (p *plainWriter) emit(prefix, body string) {
	for i, l := range strings.Split(body, "\n") {
		l = strings.TrimSpace(l)
		if i == 0 {
			l = prefix + l
		}
		if strings.TrimSpace(l) == "" {
			continue
		}
		p.lines = append(p.lines, l)
	}
}

func (p *plainWriter) block(n ast.Node, prefix string) {
	switch node := n.(type) {
	case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
		p.emit(prefix, p.inline(node))
	case *ast.List:
		idx := node.Start
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "- "
			if node.IsOrdered() {
				marker = strconv.Itoa(idx) + ". "
				idx++
			}
			first := true
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				if first {
					p.block(c, marker)
					first = false
					continue
				}
				p.block(c, "")
			}
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			p.emit("", string(seg.Value(p.source)))
		}
	case *ast.ThematicBreak, *ast.HTMLBlock:
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			p.block(c, prefix)
			prefix = ""
		}
	}
}

func (p *plainWriter) inline(n ast.Node) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(p.source))
			switch {
			case node.HardLineBreak():
				buf.WriteByte('\n')
			case node.SoftLineBreak():
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.URL(p.source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
