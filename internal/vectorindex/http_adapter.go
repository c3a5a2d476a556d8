package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPAdapter talks to a hosted vector database over its JSON API.
type HTTPAdapter struct {
	baseURL    string
	apiKey     string
	collection string
	httpClient *http.Client
}

// HTTPOptions configures an HTTPAdapter.
type HTTPOptions struct {
	BaseURL    string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewHTTPAdapter creates an adapter. A zero timeout defaults to 10s.
func NewHTTPAdapter(opts HTTPOptions) *HTTPAdapter {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	collection := opts.Collection
	if collection == "" {
		collection = "knowledge"
	}
	return &HTTPAdapter{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		collection: collection,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether the adapter has a target URL.
func (a *HTTPAdapter) Configured() bool {
	return a.baseURL != ""
}

type searchRequest struct {
	Vector      []float64 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []Hit `json:"result"`
}

// Search returns up to limit nearest points for the vector, best first.
func (a *HTTPAdapter) Search(ctx context.Context, vector []float64, limit int) ([]Hit, error) {
	if !a.Configured() {
		return nil, ErrUnconfigured
	}
	if limit <= 0 {
		limit = 3
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", a.baseURL, a.collection)
	var parsed searchResponse
	err := a.doJSON(ctx, http.MethodPost, url, searchRequest{
		Vector:      vector,
		Limit:       limit,
		WithPayload: true,
	}, &parsed)
	if err != nil {
		return nil, err
	}
	return parsed.Result, nil
}

type upsertRequest struct {
	IDs      []string    `json:"ids"`
	Vectors  [][]float64 `json:"vectors"`
	Payloads []Payload   `json:"payloads"`
}

// Upsert writes points into the collection.
func (a *HTTPAdapter) Upsert(ctx context.Context, points []Point) error {
	if !a.Configured() {
		return ErrUnconfigured
	}
	if len(points) == 0 {
		return nil
	}

	req := upsertRequest{
		IDs:      make([]string, len(points)),
		Vectors:  make([][]float64, len(points)),
		Payloads: make([]Payload, len(points)),
	}
	for i, p := range points {
		req.IDs[i] = p.ID
		req.Vectors[i] = p.Vector
		req.Payloads[i] = p.Payload
	}

	url := fmt.Sprintf("%s/collections/%s/points", a.baseURL, a.collection)
	return a.doJSON(ctx, http.MethodPut, url, req, nil)
}

func (a *HTTPAdapter) doJSON(ctx context.Context, method, url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal vector request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build vector request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("api-key", a.apiKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vector request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("vector request returned %d: %s", resp.StatusCode, snippet)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode vector response: %w", err)
	}
	return nil
}
