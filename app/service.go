// Package app wires the collaborators into the five user-facing commands:
// status check, question generation, SWOT generation and the two PDF saves.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/ByLCY/swotdoc/config"
	"github.com/ByLCY/swotdoc/fault"
	"github.com/ByLCY/swotdoc/layout"
	"github.com/ByLCY/swotdoc/llm"
	"github.com/ByLCY/swotdoc/markdown"
	"github.com/ByLCY/swotdoc/ollama"
	"github.com/ByLCY/swotdoc/pdftext"
	"github.com/ByLCY/swotdoc/prompt"
	"github.com/ByLCY/swotdoc/records"
	"github.com/ByLCY/swotdoc/renderer"
	canvasrenderer "github.com/ByLCY/swotdoc/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/swotdoc/renderer/fpdf"
	"github.com/ByLCY/swotdoc/reply"
)

// CompletionService turns prompts into generated text.
type CompletionService interface {
	CheckAvailability(ctx context.Context) (string, error)
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service runs the commands. It holds no per-request state.
type Service struct {
	llm           CompletionService
	builder       *layout.Builder
	render        renderer.Renderer
	prompts       *prompt.Builder
	maxQuestions  int
	stripMarkdown bool
	log           zerolog.Logger
}

// New builds a Service from cfg using completion as the model backend.
func New(cfg *config.Config, completion CompletionService, log zerolog.Logger) (*Service, error) {
	b, err := layout.NewBuilder(cfg.Layout.Geometry)
	if err != nil {
		return nil, err
	}
	return &Service{
		llm:           completion,
		builder:       b,
		render:        NewRenderer(cfg.Layout),
		prompts:       prompt.NewBuilder(cfg.Prompts, cfg.Questions.DescriptionLimit),
		maxQuestions:  cfg.Questions.MaxQuestions,
		stripMarkdown: cfg.Layout.StripMarkdown,
		log:           log,
	}, nil
}

// NewCompletionService picks the provider named in cfg.
func NewCompletionService(cfg config.LLMConfig, log zerolog.Logger) (CompletionService, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		model := cfg.Model
		if model == "" || model == ollama.DefaultModel {
			model = llm.DefaultOpenAIModel
		}
		c, err := llm.NewOpenAI(llm.OpenAIConfig{
			Model:       model,
			BaseURL:     cfg.BaseURL,
			Token:       cfg.APIKey,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderOllama, "":
		return ollama.New(ollama.Config{
			Model:    cfg.Model,
			BaseURL:  cfg.Endpoint,
			Command:  cfg.Command,
			ListArgs: cfg.ListArgs,
			Timeout:  cfg.Timeout,
		}, ollama.WithLogger(log)), nil
	default:
		return nil, fault.Environment(nil, "Unknown completion provider %q", cfg.Provider)
	}
}

// NewRenderer returns the renderer selected by cfg.
func NewRenderer(cfg config.LayoutConfig) renderer.Renderer {
	if cfg.Renderer == renderer.NameCanvas {
		return canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Font: cfg.Font, Fonts: cfg.Fonts})
	}
	font := cfg.Font
	if _, isFile := cfg.Fonts[font]; isFile || strings.HasPrefix(font, "embed:") {
		// font files are canvas-only; fpdf keeps its core font
		font = ""
	}
	return fpdfrenderer.NewRendererWithOptions(fpdfrenderer.Options{Font: font, Compress: true})
}

// CheckOllamaStatus reports whether the completion backend is usable.
func (s *Service) CheckOllamaStatus(ctx context.Context) (string, error) {
	return s.llm.CheckAvailability(ctx)
}

// GenerateFollowupQuestions looks up businessName in the CSV at csvPath and
// asks the model for follow-up questions.
func (s *Service) GenerateFollowupQuestions(ctx context.Context, csvPath, businessName string) ([]string, error) {
	rec, err := records.FindFile(csvPath, businessName)
	if err != nil {
		return nil, err
	}
	return s.questionsFor(ctx, rec, businessName)
}

// QuestionsFromData is GenerateFollowupQuestions over in-memory data; name
// selects CSV or XLSX parsing by extension.
func (s *Service) QuestionsFromData(ctx context.Context, name string, data []byte, businessName string) ([]string, error) {
	rec, err := records.FindData(name, data, businessName)
	if err != nil {
		return nil, err
	}
	return s.questionsFor(ctx, rec, businessName)
}

func (s *Service) questionsFor(ctx context.Context, rec records.Record, businessName string) ([]string, error) {
	log := s.log.With().Str("business", businessName).Str("command", "questions").Logger()
	p := s.prompts.Questions(businessName, rec.Description(), rec.Map())
	log.Debug().Int("fields", len(rec.Fields)).Int("prompt_runes", len([]rune(p))).Msg("prompt assembled")

	resp, err := s.llm.Complete(ctx, p)
	if err != nil {
		return nil, err
	}
	questions := reply.ParseQuestions(resp, s.maxQuestions)
	log.Info().Int("questions", len(questions)).Msg("questions generated")
	return questions, nil
}

// GenerateSwotAnalysis combines the CSV record and the questionnaire PDF
// into a SWOT prompt and returns the model's analysis.
func (s *Service) GenerateSwotAnalysis(ctx context.Context, csvPath, pdfPath, businessName string) (string, error) {
	rec, answers, err := loadInputs(
		func() (records.Record, error) { return records.FindFile(csvPath, businessName) },
		func() (string, error) { return pdftext.ExtractFile(pdfPath) },
	)
	if err != nil {
		return "", err
	}
	return s.analysisFor(ctx, rec, answers, businessName)
}

// AnalysisFromData is GenerateSwotAnalysis over in-memory data.
func (s *Service) AnalysisFromData(ctx context.Context, name string, csvData, pdfData []byte, businessName string) (string, error) {
	rec, answers, err := loadInputs(
		func() (records.Record, error) { return records.FindData(name, csvData, businessName) },
		func() (string, error) { return pdftext.Extract(pdfData) },
	)
	if err != nil {
		return "", err
	}
	return s.analysisFor(ctx, rec, answers, businessName)
}

// loadInputs runs the record lookup and the text extraction concurrently.
// Wait reports whichever failure came first, so when both fail the record
// error is returned instead to keep the message independent of scheduling.
func loadInputs(findRecord func() (records.Record, error), extract func() (string, error)) (records.Record, string, error) {
	var (
		rec     records.Record
		answers string
		recErr  error
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		rec, recErr = findRecord()
		return recErr
	})
	g.Go(func() (err error) {
		answers, err = extract()
		return err
	})
	if err := g.Wait(); err != nil {
		if recErr != nil {
			return records.Record{}, "", recErr
		}
		return records.Record{}, "", err
	}
	return rec, answers, nil
}

func (s *Service) analysisFor(ctx context.Context, rec records.Record, answers, businessName string) (string, error) {
	log := s.log.With().Str("business", businessName).Str("command", "swot").Logger()
	log.Debug().Int("fields", len(rec.Fields)).Int("answer_runes", len([]rune(answers))).Msg("inputs loaded")

	resp, err := s.llm.Complete(ctx, s.prompts.Analysis(businessName, rec.Description(), answers, rec.Map()))
	if err != nil {
		return "", err
	}
	log.Info().Int("bytes", len(resp)).Msg("analysis generated")
	return resp, nil
}

type saveOptions struct {
	plain     *bool
	debugPath string
}

// SaveOption tunes a PDF save.
type SaveOption func(*saveOptions)

// WithPlainText overrides layout.strip_markdown for one save.
func WithPlainText(plain bool) SaveOption {
	return func(o *saveOptions) { o.plain = &plain }
}

// WithDebugJSON also writes the layout as JSON to path.
func WithDebugJSON(path string) SaveOption {
	return func(o *saveOptions) { o.debugPath = path }
}

func collect(opts []SaveOption) saveOptions {
	var o saveOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// QuestionsDocument lays out the numbered questions document.
func (s *Service) QuestionsDocument(questions []string, businessName string) *layout.Document {
	normalized := make([]string, len(questions))
	for i, q := range questions {
		normalized[i] = norm.NFC.String(q)
	}
	return s.builder.Questions(norm.NFC.String(businessName), normalized)
}

// AnalysisDocument lays out the SWOT prose document, flattening Markdown
// when plain is set.
func (s *Service) AnalysisDocument(swotText, businessName string, plain bool) *layout.Document {
	text := norm.NFC.String(swotText)
	if plain {
		text = markdown.Plain(text)
	}
	return s.builder.Analysis(norm.NFC.String(businessName), text)
}

// RenderQuestions returns the questions PDF bytes.
func (s *Service) RenderQuestions(questions []string, businessName string) ([]byte, error) {
	return s.renderDoc(s.QuestionsDocument(questions, businessName))
}

// RenderAnalysis returns the SWOT PDF bytes.
func (s *Service) RenderAnalysis(swotText, businessName string, opts ...SaveOption) ([]byte, error) {
	return s.renderDoc(s.AnalysisDocument(swotText, businessName, s.plain(collect(opts))))
}

// SaveQuestionsToPDF writes the questions document to outputPath,
// overwriting any existing file.
func (s *Service) SaveQuestionsToPDF(questions []string, businessName, outputPath string, opts ...SaveOption) (string, error) {
	doc := s.QuestionsDocument(questions, businessName)
	if err := s.save(doc, outputPath, collect(opts)); err != nil {
		return "", err
	}
	return "Questions saved to: " + outputPath, nil
}

// SaveSwotToPDF writes the SWOT document to outputPath, overwriting any
// existing file.
func (s *Service) SaveSwotToPDF(swotText, businessName, outputPath string, opts ...SaveOption) (string, error) {
	o := collect(opts)
	doc := s.AnalysisDocument(swotText, businessName, s.plain(o))
	if err := s.save(doc, outputPath, o); err != nil {
		return "", err
	}
	return "SWOT analysis saved to: " + outputPath, nil
}

func (s *Service) plain(o saveOptions) bool {
	if o.plain != nil {
		return *o.plain
	}
	return s.stripMarkdown
}

func (s *Service) renderDoc(doc *layout.Document) ([]byte, error) {
	start := time.Now()
	data, err := s.render.Render(doc)
	if err != nil {
		return nil, fault.Output(err, "Failed to save PDF")
	}
	s.log.Debug().
		Str("title", doc.Meta.Title).
		Int("pages", len(doc.Pages)).
		Int("runs", doc.RunCount()).
		Dur("elapsed", time.Since(start)).
		Msg("document rendered")
	return data, nil
}

func (s *Service) save(doc *layout.Document, outputPath string, o saveOptions) error {
	if strings.TrimSpace(outputPath) == "" {
		return fault.Output(nil, "Failed to create file: empty output path")
	}
	if o.debugPath != "" {
		if err := layout.WriteDebugJSON(doc, o.debugPath); err != nil {
			return fault.Output(err, "Failed to write layout debug file")
		}
	}
	data, err := s.renderDoc(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fault.Output(err, "Failed to create file")
	}
	s.log.Info().Str("path", outputPath).Int("bytes", len(data)).Msg("PDF written")
	return nil
}

// DescribeAnalysis renders parsed sections as indented text.
func DescribeAnalysis(a *reply.Analysis) string {
	var b strings.Builder
	for _, l := range a.Preamble {
		fmt.Fprintln(&b, l)
	}
	for _, sec := range a.Sections {
		fmt.Fprintf(&b, "[%s] %s\n", sec.Quadrant, sec.Heading)
		for _, item := range sec.Items {
			fmt.Fprintf(&b, "  - %s\n", item)
		}
	}
	return b.String()
}
