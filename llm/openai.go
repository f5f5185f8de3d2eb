// Package llm adapts langchaingo models to the completion interface used by
// the pipelines.
package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/ByLCY/swotdoc/fault"
)

// Defaults for the hosted provider.
const (
	DefaultOpenAIModel = "gpt-4o"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
)

// OpenAIConfig configures the OpenAI-compatible provider.
type OpenAIConfig struct {
	Model       string
	BaseURL     string
	Token       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client completes prompts through a langchaingo model.
type Client struct {
	model       llms.Model
	name        string
	temperature float64
	maxTokens   int
	log         zerolog.Logger
}

// NewOpenAI builds a client for an OpenAI-compatible endpoint. A missing API
// key is reported as an environment failure.
func NewOpenAI(cfg OpenAIConfig, log zerolog.Logger) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.Token),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}
	model, err := openai.New(opts...)
	if err != nil {
		if errors.Is(err, openai.ErrMissingToken) {
			return nil, fault.Environment(nil, "OpenAI API key not set. Please set OPENAI_API_KEY.")
		}
		return nil, fault.Environment(err, "Failed to initialise OpenAI client")
	}
	return &Client{
		model:       model,
		name:        cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		log:         log,
	}, nil
}

// Model returns the model name.
func (c *Client) Model() string { return c.name }

// CheckAvailability reports the configured model; the key was validated at
// construction.
func (c *Client) CheckAvailability(context.Context) (string, error) {
	return "OpenAI is ready with " + c.name + " model", nil
}

// Complete sends prompt as a single user message.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	c.log.Info().Str("model", c.name).Int("prompt_bytes", len(prompt)).Msg("Sending request to OpenAI")
	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		return "", fault.Network(err, "Failed to get completion from OpenAI")
	}
	c.log.Info().Dur("elapsed", time.Since(start)).Int("response_bytes", len(out)).Msg("Got response from OpenAI")
	return out, nil
}
