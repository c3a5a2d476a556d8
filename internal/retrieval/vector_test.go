package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veralis-ai/concierge-engine/internal/embedding"
	"github.com/veralis-ai/concierge-engine/internal/knowledge"
	"github.com/veralis-ai/concierge-engine/internal/vectorindex"
)

func syncedIndex(t *testing.T, embedder embedding.Embedder) (*knowledge.Store, *vectorindex.MemoryIndex) {
	t.Helper()
	store := knowledge.NewStore()
	store.AddAll(knowledge.DefaultSeed())

	index := vectorindex.NewMemoryIndex()
	n, err := SyncIndex(context.Background(), store, embedder, index)
	require.NoError(t, err)
	require.Equal(t, store.Count(), n)
	return store, index
}

func TestVectorRetrieveReturnsRankedRecords(t *testing.T) {
	embedder := embedding.NewMockEmbedder(16)
	_, index := syncedIndex(t, embedder)

	r := NewVectorRetriever(embedder, index, 3, nil)
	recs, err := r.Retrieve(context.Background(), "Quels sont vos tarifs ?")
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), 3)

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Relevance, recs[i].Relevance)
	}
	for _, rec := range recs {
		assert.GreaterOrEqual(t, rec.Relevance, 0.0)
		assert.LessOrEqual(t, rec.Relevance, 1.0)
		assert.NotEmpty(t, rec.Record.Answer)
	}
}

func TestVectorRetrieveUnconfiguredEmbedder(t *testing.T) {
	r := NewVectorRetriever(embedding.NewClient(embedding.Options{}), vectorindex.NewMemoryIndex(), 3, nil)

	assert.False(t, r.Available())
	_, err := r.Retrieve(context.Background(), "tarifs")
	assert.ErrorIs(t, err, vectorindex.ErrUnconfigured)
}

func TestVectorRetrieveEmbedFailure(t *testing.T) {
	embedder := embedding.NewMockEmbedder(8)
	embedder.Err = errors.New("embed api down")

	r := NewVectorRetriever(embedder, vectorindex.NewMemoryIndex(), 3, nil)
	_, err := r.Retrieve(context.Background(), "tarifs")
	assert.Error(t, err)
}

func TestVectorRetrieveEmptyIndex(t *testing.T) {
	r := NewVectorRetriever(embedding.NewMockEmbedder(8), vectorindex.NewMemoryIndex(), 3, nil)

	recs, err := r.Retrieve(context.Background(), "tarifs")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestSyncIndexEmptyStore(t *testing.T) {
	n, err := SyncIndex(context.Background(), knowledge.NewStore(), embedding.NewMockEmbedder(8), vectorindex.NewMemoryIndex())
	require.NoError(t, err)
	assert.Zero(t, n)
}
