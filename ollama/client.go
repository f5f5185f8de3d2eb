// Package ollama talks to a local Ollama runtime: the CLI for the model
// listing and the HTTP generate endpoint for completions.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ByLCY/swotdoc/fault"
)

// Defaults for a stock local install.
const (
	DefaultModel   = "llama3.2:3b"
	DefaultBaseURL = "http://localhost:11434"
	DefaultCommand = "ollama"
	DefaultTimeout = 180 * time.Second

	generatePath = "/api/generate"
)

// Config selects the runtime and model.
type Config struct {
	Model    string
	BaseURL  string
	Command  string
	ListArgs []string
	Timeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Command == "" {
		c.Command = DefaultCommand
	}
	if len(c.ListArgs) == 0 {
		c.ListArgs = []string{"list"}
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Client is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its Timeout is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client for cfg; zero fields take the defaults.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{cfg: cfg.withDefaults(), log: zerolog.Nop()}
	c.http = &http.Client{Timeout: c.cfg.Timeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.cfg.Model }

// CheckAvailability runs the model listing and looks for the configured
// model in its output.
func (c *Client) CheckAvailability(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, c.cfg.Command, c.cfg.ListArgs...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			c.log.Debug().Int("exit_code", exitErr.ExitCode()).Msg("model listing failed")
			return "", fault.Environment(nil, "Ollama is not running. Please start Ollama service.")
		}
		return "", fault.Environment(err, "Ollama not found. Please install Ollama first")
	}
	if !strings.Contains(string(out), c.cfg.Model) {
		return "", fault.Environment(nil, "%s model not found. Please run 'ollama pull %s' first.", c.cfg.Model, c.cfg.Model)
	}
	return "Ollama is ready with " + c.cfg.Model + " model", nil
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Complete sends prompt to the generate endpoint with streaming disabled and
// returns the generated text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{Model: c.cfg.Model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fault.Network(err, "Failed to encode Ollama request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return "", fault.Network(err, "Failed to connect to Ollama")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	c.log.Info().Str("model", c.cfg.Model).Int("prompt_bytes", len(prompt)).Msg("Sending request to Ollama")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fault.Network(err, "Failed to connect to Ollama")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fault.Network(nil, "Ollama API error: %s", resp.Status)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fault.Network(err, "Failed to parse Ollama response")
	}
	c.log.Info().Dur("elapsed", time.Since(start)).Int("response_bytes", len(out.Response)).Msg("Got response from Ollama")
	return out.Response, nil
}
