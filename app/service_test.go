package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/swotdoc/config"
	"github.com/ByLCY/swotdoc/fault"
	"github.com/ByLCY/swotdoc/fonts"
	"github.com/ByLCY/swotdoc/ollama"
	"github.com/ByLCY/swotdoc/records"
	"github.com/ByLCY/swotdoc/renderer"
	"github.com/ByLCY/swotdoc/reply"
)

type fakeCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeCompleter) CheckAvailability(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "Ollama is ready with llama3.2:3b model", nil
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

const sampleCSV = "Nom,Secteur,Ville\nBoulangerie Dupont,Alimentation,Lyon\nGarage Martin,Automobile,Paris\n"

func newService(t *testing.T, fc *fakeCompleter) *Service {
	t.Helper()
	svc, err := New(config.Default(), fc, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCheckOllamaStatus(t *testing.T) {
	svc := newService(t, &fakeCompleter{})
	msg, err := svc.CheckOllamaStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ollama is ready with llama3.2:3b model", msg)

	svc = newService(t, &fakeCompleter{err: fault.Environment(nil, "Ollama is not running. Please start Ollama service.")})
	_, err = svc.CheckOllamaStatus(context.Background())
	assert.Equal(t, fault.KindEnvironment, fault.KindOf(err))
}

func TestGenerateFollowupQuestions(t *testing.T) {
	fc := &fakeCompleter{reply: "Voici les questions:\n1. Quel est votre chiffre d'affaires?\n2. Combien d'employés avez-vous?\nMerci.\n"}
	svc := newService(t, fc)
	csvPath := writeFile(t, "data.csv", []byte(sampleCSV))

	questions, err := svc.GenerateFollowupQuestions(context.Background(), csvPath, "Garage Martin")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Quel est votre chiffre d'affaires?",
		"Combien d'employés avez-vous?",
	}, questions)

	require.Len(t, fc.prompts, 1)
	assert.Contains(t, fc.prompts[0], "Garage Martin")
	assert.Contains(t, fc.prompts[0], "Secteur: Automobile")
	assert.NotContains(t, fc.prompts[0], "Boulangerie")
}

func TestGenerateFollowupQuestionsErrors(t *testing.T) {
	fc := &fakeCompleter{reply: "1. Question?"}
	svc := newService(t, fc)
	ctx := context.Background()

	_, err := svc.GenerateFollowupQuestions(ctx, filepath.Join(t.TempDir(), "missing.csv"), "Garage Martin")
	assert.Equal(t, fault.KindInput, fault.KindOf(err))
	assert.Contains(t, fault.Message(err), "Failed to read CSV file")

	csvPath := writeFile(t, "data.csv", []byte(sampleCSV))
	_, err = svc.GenerateFollowupQuestions(ctx, csvPath, "Inconnu")
	assert.Equal(t, fault.KindInput, fault.KindOf(err))
	assert.Equal(t, "Business 'Inconnu' not found in CSV", fault.Message(err))
	assert.Empty(t, fc.prompts, "no completion request for an unknown business")

	fc.err = fault.Network(errors.New("dial tcp: refused"), "Failed to connect to Ollama")
	_, err = svc.GenerateFollowupQuestions(ctx, csvPath, "Garage Martin")
	assert.Equal(t, fault.KindNetwork, fault.KindOf(err))
}

func TestGenerateSwotAnalysis(t *testing.T) {
	fc := &fakeCompleter{reply: "## Forces\n- Emplacement\n## Menaces\n- Concurrence"}
	svc := newService(t, fc)

	// questionnaire answers rendered by the service itself
	answers, err := svc.RenderQuestions([]string{"Do you deliver on Sundays?"}, "Garage Martin")
	require.NoError(t, err)
	pdfPath := writeFile(t, "answers.pdf", answers)
	csvPath := writeFile(t, "data.csv", []byte(sampleCSV))

	got, err := svc.GenerateSwotAnalysis(context.Background(), csvPath, pdfPath, "Garage Martin")
	require.NoError(t, err)
	assert.Equal(t, fc.reply, got)

	require.Len(t, fc.prompts, 1)
	p := fc.prompts[0]
	assert.Contains(t, p, "Ville: Paris")
	assert.Contains(t, p, "Sundays")
	assert.Contains(t, p, "Garage Martin")
}

func TestGenerateSwotAnalysisErrors(t *testing.T) {
	fc := &fakeCompleter{reply: "ok"}
	svc := newService(t, fc)
	ctx := context.Background()
	csvPath := writeFile(t, "data.csv", []byte(sampleCSV))
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := svc.GenerateSwotAnalysis(ctx, csvPath, missing+".pdf", "Garage Martin")
	assert.Contains(t, fault.Message(err), "Failed to read PDF file")

	// both inputs missing: the CSV failure is reported
	_, err = svc.GenerateSwotAnalysis(ctx, missing+".csv", missing+".pdf", "Garage Martin")
	assert.Contains(t, fault.Message(err), "Failed to read CSV file")

	notPDF := writeFile(t, "notes.pdf", []byte("plain text, not a PDF"))
	_, err = svc.GenerateSwotAnalysis(ctx, csvPath, notPDF, "Garage Martin")
	assert.Equal(t, fault.KindInput, fault.KindOf(err))
	assert.Contains(t, fault.Message(err), "Failed to extract text from PDF")

	// unknown business wins over an unreadable PDF
	_, err = svc.GenerateSwotAnalysis(ctx, csvPath, notPDF, "Inconnu")
	assert.Equal(t, "Business 'Inconnu' not found in CSV", fault.Message(err))
	assert.Empty(t, fc.prompts)
}

func TestSaveQuestionsToPDF(t *testing.T) {
	svc := newService(t, &fakeCompleter{})
	out := filepath.Join(t.TempDir(), "questions.pdf")
	debug := filepath.Join(t.TempDir(), "layout.json")

	msg, err := svc.SaveQuestionsToPDF([]string{"Première question?", "Deuxième?"}, "Café Étoile", out, WithDebugJSON(debug))
	require.NoError(t, err)
	assert.Equal(t, "Questions saved to: "+out, msg)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))

	dbg, err := os.ReadFile(debug)
	require.NoError(t, err)
	assert.Contains(t, string(dbg), "Café Étoile - Follow-up Questions")
}

func TestSaveOverwritesExistingFile(t *testing.T) {
	svc := newService(t, &fakeCompleter{})
	out := writeFile(t, "swot.pdf", []byte("stale"))

	msg, err := svc.SaveSwotToPDF("Forces\n\nFaiblesses", "Garage Martin", out)
	require.NoError(t, err)
	assert.Equal(t, "SWOT analysis saved to: "+out, msg)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data))
}

func TestSaveToMissingDirectory(t *testing.T) {
	svc := newService(t, &fakeCompleter{})
	out := filepath.Join(t.TempDir(), "nope", "q.pdf")

	_, err := svc.SaveQuestionsToPDF([]string{"Q?"}, "X", out)
	assert.Equal(t, fault.KindOutput, fault.KindOf(err))
	_, err = svc.SaveSwotToPDF("text", "X", out)
	assert.Equal(t, fault.KindOutput, fault.KindOf(err))
	_, err = svc.SaveSwotToPDF("text", "X", " ")
	assert.Equal(t, fault.KindOutput, fault.KindOf(err))
}

func TestAnalysisDocumentPlainText(t *testing.T) {
	svc := newService(t, &fakeCompleter{})
	src := "## **Forces**\n\n- Bon *emplacement*"

	raw := svc.AnalysisDocument(src, "X", false)
	plain := svc.AnalysisDocument(src, "X", true)

	var rawLines, plainLines []string
	for _, r := range raw.Pages[0].Runs[1:] {
		rawLines = append(rawLines, r.Content)
	}
	for _, r := range plain.Pages[0].Runs[1:] {
		plainLines = append(plainLines, r.Content)
	}
	assert.Equal(t, []string{"## **Forces**", "- Bon *emplacement*"}, rawLines)
	assert.Equal(t, []string{"Forces", "- Bon emplacement"}, plainLines)
}

func TestQuestionsDocumentNormalizesNFC(t *testing.T) {
	svc := newService(t, &fakeCompleter{})
	// "é" as e + combining acute
	doc := svc.QuestionsDocument([]string{"Café?"}, "Café")
	assert.Equal(t, "Caf\u00e9 - Follow-up Questions", doc.Pages[0].Runs[0].Content)
	assert.Equal(t, "1. Caf\u00e9?", doc.Pages[0].Runs[1].Content)
}

func TestNewCompletionService(t *testing.T) {
	cfg := config.Default().LLM
	cs, err := NewCompletionService(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &ollama.Client{}, cs)

	cfg.Provider = config.ProviderOpenAI
	cfg.APIKey = ""
	t.Setenv("OPENAI_API_KEY", "")
	_, err = NewCompletionService(cfg, zerolog.Nop())
	assert.Equal(t, fault.KindEnvironment, fault.KindOf(err))

	cfg.Provider = "bard"
	_, err = NewCompletionService(cfg, zerolog.Nop())
	assert.Equal(t, fault.KindEnvironment, fault.KindOf(err))
}

func TestDescribeAnalysis(t *testing.T) {
	a, err := reply.ParseAnalysis("Intro\n## Forces\n- Emplacement\n")
	require.NoError(t, err)
	assert.Equal(t, "Intro\n[strengths] Forces\n  - Emplacement\n", DescribeAnalysis(a))
}

func TestLoadInputsPrefersRecordError(t *testing.T) {
	extracted := make(chan struct{})
	recErr := fault.Input(nil, "Business 'X' not found in CSV")

	// the extraction fails first; the record failure still wins
	_, _, err := loadInputs(
		func() (records.Record, error) {
			<-extracted
			return records.Record{}, recErr
		},
		func() (string, error) {
			defer close(extracted)
			return "", fault.Input(nil, "Failed to extract text from PDF")
		},
	)
	assert.Equal(t, recErr, err)

	_, _, err = loadInputs(
		func() (records.Record, error) { return records.Record{}, nil },
		func() (string, error) { return "", fault.Input(nil, "Failed to extract text from PDF") },
	)
	assert.Equal(t, "Failed to extract text from PDF", fault.Message(err))

	rec, answers, err := loadInputs(
		func() (records.Record, error) { return records.Record{Fields: []records.Field{{Column: "Nom", Value: "X"}}}, nil },
		func() (string, error) { return "réponses", nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "réponses", answers)
	assert.Equal(t, "Nom: X", rec.Description())
}

func TestCanvasRendererUsesConfiguredFont(t *testing.T) {
	data, err := fonts.Load(fonts.SansOblique)
	require.NoError(t, err)
	fontPath := writeFile(t, "body.ttf", data)

	cfg := config.Default()
	cfg.Layout.Renderer = renderer.NameCanvas
	cfg.Layout.Font = "body"
	cfg.Layout.Fonts = map[string]string{"body": fontPath}
	svc, err := New(cfg, &fakeCompleter{}, zerolog.Nop())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "swot.pdf")
	_, err = svc.SaveSwotToPDF("Forces\n\nMenaces", "Société Œuvre", out)
	require.NoError(t, err)

	// fpdf ignores file fonts and keeps Helvetica
	cfg.Layout.Renderer = renderer.NameFPDF
	svc, err = New(cfg, &fakeCompleter{}, zerolog.Nop())
	require.NoError(t, err)
	_, err = svc.SaveSwotToPDF("Forces", "X", out)
	require.NoError(t, err)
}
