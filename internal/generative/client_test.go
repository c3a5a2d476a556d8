package generative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSendsExpectedWireFormat(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"generations": []map[string]string{{"text": "  Bonjour, nous proposons...  "}},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k", Model: "command-r", MaxTokens: 200, Temperature: 0.7})

	text, err := c.Generate(context.Background(), "Visiteur: quels services ?")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour, nous proposons...", text)

	assert.Equal(t, "Visiteur: quels services ?", got["prompt"])
	assert.Equal(t, float64(200), got["max_tokens"])
	assert.Equal(t, 0.7, got["temperature"])
}

func TestGenerateUnconfigured(t *testing.T) {
	c := NewClient(Options{})
	_, err := c.Generate(context.Background(), "bonjour")
	assert.ErrorIs(t, err, ErrUnconfigured)
}

func TestGenerateEmptyCompletionIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"generations": []map[string]string{{"text": "   "}},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	_, err := c.Generate(context.Background(), "bonjour")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestGenerateNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	_, err := c.Generate(context.Background(), "bonjour")
	assert.Error(t, err)
}

func TestGenerateHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Generate(ctx, "bonjour")
	assert.Error(t, err)
}
