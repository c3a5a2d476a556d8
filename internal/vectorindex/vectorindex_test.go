package vectorindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSearchWireFormat(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/knowledge/points/search", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": []map[string]interface{}{
				{"id": "kb-tarifs", "score": 0.92, "payload": map[string]string{
					"question": "Quels sont vos tarifs ?",
					"answer":   "Nos offres commencent à 490€.",
					"category": "tarifs",
				}},
			},
		})
	}))
	defer srv.Close()

	a := NewHTTPAdapter(HTTPOptions{BaseURL: srv.URL, Collection: "knowledge"})

	hits, err := a.Search(context.Background(), []float64{0.1, 0.2}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "kb-tarifs", hits[0].ID)
	assert.InDelta(t, 0.92, hits[0].Score, 1e-9)
	assert.Equal(t, "tarifs", hits[0].Payload.Category)

	assert.Equal(t, float64(3), got["limit"])
	assert.Equal(t, true, got["with_payload"])
}

func TestHTTPUpsertWireFormat(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/collections/knowledge/points", r.URL.Path)
		assert.Equal(t, http.MethodPut, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := NewHTTPAdapter(HTTPOptions{BaseURL: srv.URL})
	err := a.Upsert(context.Background(), []Point{
		{ID: "p1", Vector: []float64{1, 0}, Payload: Payload{Question: "q", Answer: "a"}},
	})
	require.NoError(t, err)

	assert.Len(t, got["ids"], 1)
	assert.Len(t, got["vectors"], 1)
	assert.Len(t, got["payloads"], 1)
}

func TestHTTPUnconfigured(t *testing.T) {
	a := NewHTTPAdapter(HTTPOptions{})

	_, err := a.Search(context.Background(), []float64{1}, 3)
	assert.ErrorIs(t, err, ErrUnconfigured)
	assert.ErrorIs(t, a.Upsert(context.Background(), []Point{{ID: "x"}}), ErrUnconfigured)
}

func TestMemorySearchRanksByCosine(t *testing.T) {
	m := NewMemoryIndex()
	require.NoError(t, m.Upsert(context.Background(), []Point{
		{ID: "close", Vector: []float64{1, 0.1}},
		{ID: "far", Vector: []float64{-1, 0}},
		{ID: "mid", Vector: []float64{0.5, 0.5}},
	}))

	hits, err := m.Search(context.Background(), []float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "close", hits[0].ID)
	assert.Equal(t, "mid", hits[1].ID)
	assert.GreaterOrEqual(t, hits[0].Score, hits[1].Score)

	for _, h := range hits {
		assert.GreaterOrEqual(t, h.Score, 0.0)
		assert.LessOrEqual(t, h.Score, 1.0)
	}
}

func TestMemorySearchHonorsLimitDefault(t *testing.T) {
	m := NewMemoryIndex()
	for i := 0; i < 5; i++ {
		require.NoError(t, m.Upsert(context.Background(), []Point{
			{ID: string(rune('a' + i)), Vector: []float64{1, float64(i)}},
		}))
	}

	hits, err := m.Search(context.Background(), []float64{1, 0}, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}
