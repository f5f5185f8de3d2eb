package reply

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Quadrant identifies one of the four SWOT categories.
type Quadrant int

const (
	QuadrantNone Quadrant = iota
	QuadrantStrengths
	QuadrantWeaknesses
	QuadrantOpportunities
	QuadrantThreats
)

func (q Quadrant) String() string {
	switch q {
	case QuadrantStrengths:
		return "strengths"
	case QuadrantWeaknesses:
		return "weaknesses"
	case QuadrantOpportunities:
		return "opportunities"
	case QuadrantThreats:
		return "threats"
	default:
		return "none"
	}
}

// MarshalText lets quadrants appear by name in JSON.
func (q Quadrant) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

// quadrantKeywords are matched against the upper-cased heading; the keyword
// found earliest in the heading decides.
var quadrantKeywords = []struct {
	word string
	q    Quadrant
}{
	{"FORCE", QuadrantStrengths},
	{"ATOUT", QuadrantStrengths},
	{"STRENGTH", QuadrantStrengths},
	{"FAIBLESSE", QuadrantWeaknesses},
	{"WEAKNESS", QuadrantWeaknesses},
	{"OPPORTUNIT", QuadrantOpportunities},
	{"MENACE", QuadrantThreats},
	{"THREAT", QuadrantThreats},
}

// Classify maps a heading to its SWOT quadrant.
func Classify(heading string) Quadrant {
	h := cases.Upper(language.French).String(heading)
	best, at := QuadrantNone, -1
	for _, kw := range quadrantKeywords {
		if i := strings.Index(h, kw.word); i >= 0 && (at < 0 || i < at) {
			best, at = kw.q, i
		}
	}
	return best
}

// Section is a heading followed by its items.
type Section struct {
	Heading  string   `json:"heading"`
	Quadrant Quadrant `json:"quadrant"`
	Items    []string `json:"items"`
}

// Analysis is the structured form of a SWOT reply. Preamble holds the lines
// before the first heading.
type Analysis struct {
	Preamble []string  `json:"preamble,omitempty"`
	Sections []Section `json:"sections"`
}

// Quadrant returns the first section classified as q, or nil.
func (a *Analysis) Quadrant(q Quadrant) *Section {
	for i := range a.Sections {
		if a.Sections[i].Quadrant == q {
			return &a.Sections[i]
		}
	}
	return nil
}

// Complete reports whether all four quadrants are present.
func (a *Analysis) Complete() bool {
	for _, q := range []Quadrant{QuadrantStrengths, QuadrantWeaknesses, QuadrantOpportunities, QuadrantThreats} {
		if a.Quadrant(q) == nil {
			return false
		}
	}
	return true
}

// ParseAnalysis splits a SWOT reply into sections. Markdown headings and
// stand-alone **bold** lines open a section; numbered and bulleted lines are
// items; other text continues the previous item.
func ParseAnalysis(text string) (*Analysis, error) {
	lines, err := parseLines(text)
	if err != nil {
		return nil, err
	}
	a := &Analysis{}
	var cur *Section
	continued := false
	add := func(s string, continuation bool) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if cur == nil {
			a.Preamble = append(a.Preamble, s)
			return
		}
		if continuation && len(cur.Items) > 0 {
			cur.Items[len(cur.Items)-1] += " " + s
			return
		}
		cur.Items = append(cur.Items, s)
	}
	open := func(heading string) {
		heading = strings.TrimSpace(heading)
		a.Sections = append(a.Sections, Section{Heading: heading, Quadrant: Classify(heading)})
		cur = &a.Sections[len(a.Sections)-1]
		continued = false
	}

	for _, l := range lines {
		switch {
		case l.Heading != "":
			open(strings.Trim(strings.TrimLeft(l.Heading, "#"), " \t\r*"))
		case l.Strong != "":
			if h, ok := strongHeading(l.Strong); ok {
				open(h)
				continue
			}
			add(l.Strong, false)
			continued = true
		case l.Item != "":
			add(stripItemMarker(l.Item), false)
			continued = true
		case l.Bullet != "":
			add(strings.TrimLeft(l.Bullet, "-*• \t"), false)
			continued = true
		default:
			add(l.Text, continued)
		}
	}
	return a, nil
}

func stripItemMarker(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i < len(s) && (s[i] == '.' || s[i] == ')') {
		i++
	}
	return s[i:]
}
