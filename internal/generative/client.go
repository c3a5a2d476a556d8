// Package generative provides the HTTP client for the external
// text-generation API used by the first pipeline stage.
package generative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnconfigured is returned when no API key is set. Callers treat this as
// a skip, not a failure.
var ErrUnconfigured = errors.New("generative client not configured")

// ErrEmptyCompletion is returned when the API answered but produced no text.
var ErrEmptyCompletion = errors.New("generative response contained no text")

// Generator produces free-text completions from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Configured() bool
}

// Client calls an external generative-language API.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// NewClient creates a generative client. A zero timeout defaults to 30s.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = 300
	}
	return &Client{
		baseURL:     opts.BaseURL,
		apiKey:      opts.APIKey,
		model:       opts.Model,
		maxTokens:   maxTokens,
		temperature: opts.Temperature,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Configured reports whether the client has credentials.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.baseURL != ""
}

type generateRequest struct {
	Prompt        string   `json:"prompt"`
	Model         string   `json:"model,omitempty"`
	MaxTokens     int      `json:"max_tokens"`
	Temperature   float64  `json:"temperature"`
	StopSequences []string `json:"stop_sequences,omitempty"`
}

type generateResponse struct {
	Generations []struct {
		Text string `json:"text"`
	} `json:"generations"`
}

// Generate returns the first completion for the prompt, trimmed. An empty
// completion is an error so the orchestrator falls through to the next stage.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrUnconfigured
	}

	body, err := json.Marshal(generateRequest{
		Prompt:        prompt,
		Model:         c.model,
		MaxTokens:     c.maxTokens,
		Temperature:   c.temperature,
		StopSequences: []string{"Visiteur:"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generate request returned %d: %s", resp.StatusCode, snippet)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if len(parsed.Generations) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(parsed.Generations[0].Text)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
