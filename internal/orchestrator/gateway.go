package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/veralis-ai/concierge-engine/internal/cache"
	"github.com/veralis-ai/concierge-engine/internal/conversation"
	"github.com/veralis-ai/concierge-engine/internal/observability"
)

// ErrGatewayUnconfigured is returned when no gateway URL is set.
var ErrGatewayUnconfigured = errors.New("external orchestrator gateway not configured")

// GatewayResult is the remote service's combined chat and qualification
// payload. It is used whole or not at all: remote and local results are
// never mixed within one call.
type GatewayResult struct {
	Response          string                 `json:"response"`
	Confidence        float64                `json:"confidence"`
	Sources           []string               `json:"sources"`
	Suggestions       []string               `json:"suggestions"`
	LeadQualification map[string]interface{} `json:"lead_qualification"`
}

// Gateway calls the remote all-in-one chat and qualification service.
type Gateway struct {
	url           string
	chatTimeout   time.Duration
	healthTimeout time.Duration
	httpClient    *http.Client
	cache         cache.Client
	logger        *observability.Logger
}

// GatewayOptions configures a Gateway.
type GatewayOptions struct {
	URL           string
	ChatTimeout   time.Duration
	HealthTimeout time.Duration
	Cache         cache.Client
	Logger        *observability.Logger
}

// NewGateway creates a gateway client. Zero timeouts default to 30s for
// chat and 5s for health.
func NewGateway(opts GatewayOptions) *Gateway {
	chatTimeout := opts.ChatTimeout
	if chatTimeout == 0 {
		chatTimeout = 30 * time.Second
	}
	healthTimeout := opts.HealthTimeout
	if healthTimeout == 0 {
		healthTimeout = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Gateway{
		url:           opts.URL,
		chatTimeout:   chatTimeout,
		healthTimeout: healthTimeout,
		httpClient:    &http.Client{},
		cache:         opts.Cache,
		logger:        logger,
	}
}

// Configured reports whether a gateway URL is set.
func (g *Gateway) Configured() bool {
	return g.url != ""
}

type gatewayRequest struct {
	Message  string                 `json:"message"`
	Context  conversation.Context   `json:"context"`
	LeadData map[string]interface{} `json:"lead_data"`
}

// Chat sends the turn to the remote service. Any transport failure,
// non-2xx status or malformed body is an error; the caller falls back to
// the local pipeline.
func (g *Gateway) Chat(ctx context.Context, message string, conv conversation.Context, lead map[string]interface{}) (*GatewayResult, error) {
	if !g.Configured() {
		return nil, ErrGatewayUnconfigured
	}

	body, err := json.Marshal(gatewayRequest{Message: message, Context: conv, LeadData: lead})
	if err != nil {
		return nil, fmt.Errorf("marshal gateway request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.chatTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, g.url+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, snippet)
	}

	var result GatewayResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	if result.Response == "" {
		return nil, fmt.Errorf("gateway response missing response text")
	}
	return &result, nil
}

// Healthy probes the remote service. The result is cached briefly so a
// flapping gateway does not add a probe to every single turn.
func (g *Gateway) Healthy(ctx context.Context) bool {
	if !g.Configured() {
		return false
	}

	if g.cache != nil {
		if val, ok, _ := g.cache.Get(ctx, cache.HealthKey); ok {
			return val == "up"
		}
	}

	healthy := g.probe(ctx)

	if g.cache != nil {
		status := "down"
		if healthy {
			status = "up"
		}
		_ = g.cache.Set(ctx, cache.HealthKey, status, 30*time.Second)
	}
	return healthy
}

func (g *Gateway) probe(ctx context.Context) bool {
	callCtx, cancel := context.WithTimeout(ctx, g.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, g.url+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Debug().Err(err).Msg("gateway health probe failed")
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Envelope converts a gateway result into the local response envelope,
// enforcing the three-suggestion cap. The remote turn surfaces as a
// generative response, and generative envelopes carry no sources, so any
// source IDs in the payload are dropped rather than passed through.
func (r *GatewayResult) Envelope() *ResponseEnvelope {
	suggestions := r.Suggestions
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return &ResponseEnvelope{
		Response:    r.Response,
		Confidence:  r.Confidence,
		Sources:     []string{},
		Insights:    r.Insights(),
		Suggestions: suggestions,
		Provenance:  ProvenanceGenerative,
	}
}

// Insights extracts the qualification insights from the remote payload, if
// the service reported any. JSON decoding leaves them as []interface{}.
func (r *GatewayResult) Insights() []string {
	raw, ok := r.LeadQualification["insights"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	return nil
}
