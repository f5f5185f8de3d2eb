// Package reply turns raw completion text into structured values: the
// question list and the SWOT sections.
package reply

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	replyLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t]+`},
		{Name: "Newline", Pattern: `\r?\n`},
		{Name: "Heading", Pattern: `#{1,6}[^\n]*`},
		{Name: "Strong", Pattern: `\*\*[^*\n]+\*\*[^\n]*`},
		{Name: "Item", Pattern: `\d+[.)][^\n]*`},
		{Name: "Bullet", Pattern: `[-*•][^\n]*`},
		{Name: "Text", Pattern: `[^\n]+`},
	})

	replyParser = participle.MustBuild[document](
		participle.Lexer(replyLexer),
		participle.Elide("Whitespace"),
	)
)

// document is the line-level AST of a reply.
type document struct {
	Lines []*line `parser:"( @@ | Newline )*"`
}

// line is one non-empty reply line; exactly one field is set.
type line struct {
	Heading string `parser:"  @Heading"`
	Strong  string `parser:"| @Strong"`
	Item    string `parser:"| @Item"`
	Bullet  string `parser:"| @Bullet"`
	Text    string `parser:"| @Text"`
}

func parseLines(text string) ([]*line, error) {
	doc, err := replyParser.ParseString("", text)
	if err != nil {
		return nil, fmt.Errorf("parse reply: %w", err)
	}
	return doc.Lines, nil
}

// strongHeading reports whether a **bold** line stands alone as a heading
// ("**FORCES**" or "**FORCES :**"), returning its inner text.
func strongHeading(s string) (string, bool) {
	s = strings.TrimSpace(s)
	end := strings.Index(s[2:], "**")
	if end < 0 {
		return "", false
	}
	inner := s[2 : 2+end]
	rest := strings.TrimSpace(s[2+end+2:])
	if rest != "" && rest != ":" {
		return "", false
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(inner), ":")), true
}
