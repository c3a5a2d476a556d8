package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veralis-ai/concierge-engine/internal/config"
	"github.com/veralis-ai/concierge-engine/internal/observability"
	"github.com/veralis-ai/concierge-engine/pkg/engine"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.DefaultConfig()
	logger := observability.NopLogger()
	eng := engine.New(engine.Options{Config: cfg, Logger: logger})

	srv := httptest.NewServer(NewRouter(eng, logger, cfg))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func TestChatEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, parsed := postJSON(t, srv.URL+"/api/v1/chat", map[string]interface{}{
		"query": "bonjour",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Session-ID"))

	env := parsed["envelope"].(map[string]interface{})
	assert.Equal(t, "basic_intent", env["provenance"])
	assert.Equal(t, 1.0, env["confidence"])
}

func TestChatEndpointRequiresQuery(t *testing.T) {
	srv := testServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/v1/chat", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQualifyEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, parsed := postJSON(t, srv.URL+"/api/v1/leads/qualify", map[string]interface{}{
		"context": []interface{}{
			map[string]interface{}{"role": "user", "text": "je suis directeur, budget 50000 euros, c'est urgent"},
		},
		"lead_data": map[string]interface{}{"email": "x@y.fr"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	q := parsed["qualification"].(map[string]interface{})
	assert.Equal(t, "hot", q["category"])

	lead := parsed["lead_data"].(map[string]interface{})
	assert.Equal(t, "x@y.fr", lead["email"])
	assert.Equal(t, "hot", lead["category"])
}

func TestKnowledgeSearchEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/knowledge/search?q=tarifs&limit=3")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	records := parsed["records"].([]interface{})
	assert.NotEmpty(t, records)
	assert.LessOrEqual(t, len(records), 3)
}

func TestKnowledgeSearchRequiresQuery(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/knowledge/search")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndReady(t *testing.T) {
	srv := testServer(t)

	for _, path := range []string{"/health", "/ready"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := testServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/chat", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://client.example")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://client.example", resp.Header.Get("Access-Control-Allow-Origin"))
}
