package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedSendsExpectedWireFormat(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embed", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": [][]float64{{0.1, 0.2}, {0.3, 0.4}},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "test-key", Model: "embed-multilingual-v3.0"})

	vecs, err := c.Embed(context.Background(), []string{"bonjour", "tarifs"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float64{0.1, 0.2}, vecs[0])

	assert.Equal(t, "embed-multilingual-v3.0", got["model"])
	assert.Len(t, got["texts"], 2)
}

func TestEmbedUnconfigured(t *testing.T) {
	c := NewClient(Options{})

	_, err := c.Embed(context.Background(), []string{"bonjour"})
	assert.ErrorIs(t, err, ErrUnconfigured)
	assert.False(t, c.Configured())
}

func TestEmbedNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k", Model: "m"})
	_, err := c.Embed(context.Background(), []string{"bonjour"})
	assert.Error(t, err)
}

func TestEmbedVectorCountMismatchIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"embeddings": [][]float64{{0.1}}})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k", Model: "m"})
	_, err := c.Embed(context.Background(), []string{"a", "b"})
	assert.Error(t, err)
}

func TestMockEmbedderIsDeterministic(t *testing.T) {
	m := NewMockEmbedder(8)

	a, err := m.Embed(context.Background(), []string{"bonjour"})
	require.NoError(t, err)
	b, err := m.Embed(context.Background(), []string{"bonjour"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a[0], 8)
	assert.Equal(t, 2, m.Calls)
}
