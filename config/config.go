// Package config loads the YAML configuration and applies environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/swotdoc/layout"
	"github.com/ByLCY/swotdoc/llm"
	"github.com/ByLCY/swotdoc/ollama"
	"github.com/ByLCY/swotdoc/prompt"
	"github.com/ByLCY/swotdoc/renderer"
	"github.com/ByLCY/swotdoc/reply"
)

// DefaultPath is read when no --config flag is given; its absence is not an
// error.
const DefaultPath = "swotdoc.yaml"

// Providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Environment overrides.
const (
	EnvModel     = "SWOTDOC_MODEL"
	EnvOllamaURL = "SWOTDOC_OLLAMA_URL"
	EnvProvider  = "SWOTDOC_PROVIDER"
	EnvAPIKey    = "OPENAI_API_KEY"
)

type Config struct {
	LLM       LLMConfig        `yaml:"llm"`
	Questions QuestionsConfig  `yaml:"questions"`
	Layout    LayoutConfig     `yaml:"layout"`
	Prompts   prompt.Templates `yaml:"prompts"`
	Server    ServerConfig     `yaml:"server"`
	Log       LogConfig        `yaml:"log"`
}

type LLMConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`

	// ollama
	Endpoint string   `yaml:"endpoint"`
	Command  string   `yaml:"command"`
	ListArgs []string `yaml:"list_args"`

	// openai
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	APIKey      string  `yaml:"-"`
}

type QuestionsConfig struct {
	MaxQuestions     int `yaml:"max_questions"`
	DescriptionLimit int `yaml:"description_limit"`
}

type LayoutConfig struct {
	Geometry layout.Geometry `yaml:"geometry"`
	Renderer string          `yaml:"renderer"`
	// Font is a core font for fpdf, or for canvas a key of Fonts or an
	// embedded face ("embed:lmsans-regular").
	Font string `yaml:"font"`
	// Fonts maps names to TrueType/OpenType files used by the canvas
	// renderer. Relative paths are resolved against the config file.
	Fonts         map[string]string `yaml:"fonts"`
	StripMarkdown bool              `yaml:"strip_markdown"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	OutputDir   string `yaml:"output_dir"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    ProviderOllama,
			Model:       ollama.DefaultModel,
			Timeout:     ollama.DefaultTimeout,
			Endpoint:    ollama.DefaultBaseURL,
			Command:     ollama.DefaultCommand,
			ListArgs:    []string{"list"},
			APIKeyEnv:   EnvAPIKey,
			Temperature: llm.DefaultTemperature,
			MaxTokens:   llm.DefaultMaxTokens,
		},
		Questions: QuestionsConfig{
			MaxQuestions:     reply.DefaultMaxQuestions,
			DescriptionLimit: prompt.DefaultDescriptionLimit,
		},
		Layout: LayoutConfig{
			Geometry: layout.DefaultGeometry(),
			Renderer: renderer.NameFPDF,
		},
		Server: ServerConfig{
			Addr:        ":8000",
			OutputDir:   os.TempDir(),
			MaxUploadMB: 32,
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path, or a missing DefaultPath, yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && path == DefaultPath:
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
			cfg.Layout.resolveFonts(filepath.Dir(path))
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *LayoutConfig) resolveFonts(base string) {
	for name, p := range l.Fonts {
		if p != "" && !filepath.IsAbs(p) {
			l.Fonts[name] = filepath.Join(base, p)
		}
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvProvider); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv(EnvModel); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(EnvOllamaURL); v != "" {
		c.LLM.Endpoint = v
	}
	keyEnv := c.LLM.APIKeyEnv
	if keyEnv == "" {
		keyEnv = EnvAPIKey
	}
	c.LLM.APIKey = os.Getenv(keyEnv)
}

// Validate checks the settings that would otherwise fail deep inside a
// command.
func (c *Config) Validate() error {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	switch c.LLM.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("config: unknown llm.provider %q (want %s or %s)", c.LLM.Provider, ProviderOllama, ProviderOpenAI)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("config: llm.timeout must not be negative")
	}
	switch c.Layout.Renderer {
	case renderer.NameFPDF, renderer.NameCanvas:
	default:
		return fmt.Errorf("config: unknown layout.renderer %q", c.Layout.Renderer)
	}
	if err := c.Layout.validateFonts(); err != nil {
		return err
	}
	if err := c.Layout.Geometry.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Questions.MaxQuestions <= 0 {
		return fmt.Errorf("config: questions.max_questions must be positive")
	}
	if err := c.Prompts.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log.format %q", c.Log.Format)
	}
	return nil
}

func (l *LayoutConfig) validateFonts() error {
	for name, p := range l.Fonts {
		if name == "" || strings.HasPrefix(name, "embed:") {
			return fmt.Errorf("config: invalid layout.fonts name %q", name)
		}
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("config: layout.fonts.%s: %w", name, err)
		}
	}
	if l.Renderer != renderer.NameCanvas || l.Font == "" || strings.HasPrefix(l.Font, "embed:") {
		return nil
	}
	if _, ok := l.Fonts[l.Font]; !ok {
		return fmt.Errorf("config: layout.font %q is neither embedded nor listed in layout.fonts", l.Font)
	}
	return nil
}
