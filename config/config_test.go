package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvModel, EnvOllamaURL, EnvProvider, EnvAPIKey} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "llama3.2:3b", cfg.LLM.Model)
	assert.Equal(t, 180*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Endpoint)
	assert.Equal(t, 90, cfg.Questions.MaxQuestions)
	assert.Equal(t, 1000, cfg.Questions.DescriptionLimit)
	assert.Equal(t, 240.0, cfg.Layout.Geometry.ContentWidth)
	assert.Equal(t, "fpdf", cfg.Layout.Renderer)
}

func TestMissingDefaultPathIsNotAnError(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	_, err := Load(DefaultPath)
	require.NoError(t, err)

	_, err = Load("elsewhere.yaml")
	require.Error(t, err)
}

func TestLoadOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "swotdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  model: mistral:7b
  timeout: 90s
layout:
  renderer: canvas
  geometry:
    analysis:
      line_height: 6
questions:
  max_questions: 50
prompts:
  questions: "Questions pour ${business}: ${company}"
log:
  format: json
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mistral:7b", cfg.LLM.Model)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "canvas", cfg.Layout.Renderer)
	assert.Equal(t, 6.0, cfg.Layout.Geometry.Analysis.LineHeight)
	assert.Equal(t, 10.0, cfg.Layout.Geometry.Analysis.FontSize)
	assert.Equal(t, 260.0, cfg.Layout.Geometry.TopMargin)
	assert.Equal(t, 50, cfg.Questions.MaxQuestions)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLayoutFontsResolveAgainstConfigDir(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fonts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fonts", "body.ttf"), []byte("ttf"), 0o644))
	path := filepath.Join(dir, "swotdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
layout:
  renderer: canvas
  font: body
  fonts:
    body: fonts/body.ttf
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fonts", "body.ttf"), cfg.Layout.Fonts["body"])
	assert.Equal(t, "body", cfg.Layout.Font)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvProvider, "OpenAI")
	t.Setenv(EnvModel, "gpt-4o-mini")
	t.Setenv(EnvOllamaURL, "http://gpu-box:11434")
	t.Setenv(EnvAPIKey, "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "http://gpu-box:11434", cfg.LLM.Endpoint)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestValidateRejects(t *testing.T) {
	clearEnv(t)
	cases := map[string]string{
		"provider":  "llm:\n  provider: claude\n",
		"renderer":  "layout:\n  renderer: svg\n",
		"geometry":  "layout:\n  geometry:\n    bottom_margin: 300\n",
		"prompt":    "prompts:\n  analysis: \"${nope}\"\n",
		"log":       "log:\n  format: xml\n",
		"font file": "layout:\n  fonts:\n    body: missing.ttf\n",
		"font name": "layout:\n  renderer: canvas\n  font: body\n",
		"yaml":      "llm: [unclosed\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
