// Package prompt assembles the completion prompts from templates with
// ${...} placeholders.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/swotdoc/binding"
)

//go:embed templates/questions.txt
var questionsTemplate string

//go:embed templates/analysis.txt
var analysisTemplate string

// DefaultDescriptionLimit caps the company description in the questions
// prompt, counted in runes.
const DefaultDescriptionLimit = 1000

// Variables available to the templates.
const (
	VarBusiness = "business"
	VarCompany  = "company"
	VarAnswers  = "answers"
	VarRecord   = "record"
)

// Templates holds the two prompt templates. Empty fields fall back to the
// built-in French templates.
type Templates struct {
	Questions string `yaml:"questions"`
	Analysis  string `yaml:"analysis"`
}

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() Templates {
	return Templates{Questions: questionsTemplate, Analysis: analysisTemplate}
}

// Validate rejects templates referring to unknown variables.
func (t Templates) Validate() error {
	known := map[string]bool{VarBusiness: true, VarCompany: true, VarAnswers: true, VarRecord: true}
	for name, text := range map[string]string{"questions": t.Questions, "analysis": t.Analysis} {
		for _, p := range binding.Placeholders(text) {
			if !known[binding.Root(p)] {
				return fmt.Errorf("prompt: %s template refers to unknown variable ${%s}", name, p)
			}
		}
	}
	return nil
}

// Builder renders prompts for one configuration.
type Builder struct {
	templates        Templates
	descriptionLimit int
}

// NewBuilder returns a Builder; zero values select the defaults.
func NewBuilder(t Templates, descriptionLimit int) *Builder {
	def := DefaultTemplates()
	if strings.TrimSpace(t.Questions) == "" {
		t.Questions = def.Questions
	}
	if strings.TrimSpace(t.Analysis) == "" {
		t.Analysis = def.Analysis
	}
	if descriptionLimit <= 0 {
		descriptionLimit = DefaultDescriptionLimit
	}
	return &Builder{templates: t, descriptionLimit: descriptionLimit}
}

// Questions renders the follow-up questions prompt. The description is cut
// to the configured number of runes.
func (b *Builder) Questions(business, description string, record map[string]string) string {
	return binding.Interpolate(b.templates.Questions, map[string]any{
		VarBusiness: business,
		VarCompany:  Truncate(description, b.descriptionLimit),
		VarRecord:   record,
	})
}

// Analysis renders the SWOT prompt from the company description and the
// questionnaire answers extracted from the PDF.
func (b *Builder) Analysis(business, description, answers string, record map[string]string) string {
	return binding.Interpolate(b.templates.Analysis, map[string]any{
		VarBusiness: business,
		VarCompany:  description,
		VarAnswers:  answers,
		VarRecord:   record,
	})
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
