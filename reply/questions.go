package reply

import (
	"strings"
	"unicode"
)

// DefaultMaxQuestions caps the parsed question list.
const DefaultMaxQuestions = 90

// ParseQuestions extracts questions from a completion: each line is trimmed,
// blank lines are dropped, leading numerals, '.' and ' ' are stripped, and
// only lines ending in '?' are kept, up to max entries (max <= 0 means
// DefaultMaxQuestions).
//
// The prefix strip also eats digits that belong to the question itself
// ("2024 a-t-il ..." loses "2024 "); callers rely on this behaviour.
func ParseQuestions(text string, max int) []string {
	if max <= 0 {
		max = DefaultMaxQuestions
	}
	out := make([]string, 0, 16)
	for _, raw := range strings.Split(text, "\n") {
		l := strings.TrimSpace(raw)
		if l == "" {
			continue
		}
		l = strings.TrimLeftFunc(l, func(r rune) bool {
			return unicode.IsNumber(r) || r == '.' || r == ' '
		})
		if !strings.HasSuffix(l, "?") {
			continue
		}
		out = append(out, l)
		if len(out) == max {
			break
		}
	}
	return out
}
