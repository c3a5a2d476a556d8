package retrieval

import (
	"context"
	"errors"
	"fmt"

	"github.com/veralis-ai/concierge-engine/internal/embedding"
	"github.com/veralis-ai/concierge-engine/internal/knowledge"
	"github.com/veralis-ai/concierge-engine/internal/observability"
	"github.com/veralis-ai/concierge-engine/internal/vectorindex"
)

// VectorRetriever embeds a query and searches the similarity index.
type VectorRetriever struct {
	embedder embedding.Embedder
	index    vectorindex.Index
	topK     int
	logger   *observability.Logger

	// Calls counts Retrieve invocations, used by chain-order tests.
	Calls int
}

// NewVectorRetriever creates a retriever. topK <= 0 defaults to 3.
func NewVectorRetriever(embedder embedding.Embedder, index vectorindex.Index, topK int, logger *observability.Logger) *VectorRetriever {
	if topK <= 0 {
		topK = 3
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &VectorRetriever{embedder: embedder, index: index, topK: topK, logger: logger}
}

// Available reports whether both the embedder and the index are configured.
func (r *VectorRetriever) Available() bool {
	return r.embedder != nil && r.embedder.Configured() &&
		r.index != nil && r.index.Configured()
}

// Retrieve embeds the query and returns the top hits as scored records, best
// first. The index hit score passes through as relevance. An unconfigured
// dependency returns vectorindex.ErrUnconfigured.
func (r *VectorRetriever) Retrieve(ctx context.Context, query string) ([]ScoredRecord, error) {
	r.Calls++

	if !r.Available() {
		return nil, vectorindex.ErrUnconfigured
	}

	vecs, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		if errors.Is(err, embedding.ErrUnconfigured) {
			return nil, vectorindex.ErrUnconfigured
		}
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.index.Search(ctx, vecs[0], r.topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	if len(hits) == 0 {
		r.logger.Debug().Msg("vector retrieval found no hits")
		return nil, nil
	}

	out := make([]ScoredRecord, len(hits))
	for i, hit := range hits {
		score := hit.Score
		if score > 1 {
			score = 1
		}
		if score < 0 {
			score = 0
		}
		out[i] = ScoredRecord{
			Record: knowledge.Record{
				ID:       hit.ID,
				Category: hit.Payload.Category,
				Question: hit.Payload.Question,
				Answer:   hit.Payload.Answer,
			},
			Relevance: score,
		}
	}

	r.logger.Debug().
		Int("hits", len(hits)).
		Float64("top_score", out[0].Relevance).
		Msg("vector retrieval")
	return out, nil
}
