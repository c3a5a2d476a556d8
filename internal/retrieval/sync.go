package retrieval

import (
	"context"
	"fmt"

	"github.com/veralis-ai/concierge-engine/internal/embedding"
	"github.com/veralis-ai/concierge-engine/internal/knowledge"
	"github.com/veralis-ai/concierge-engine/internal/vectorindex"
)

// SyncIndex embeds every knowledge record and upserts it into the vector
// index. Called at startup when both collaborators are configured; a partial
// knowledge base in the index is worse than none, so any failure aborts.
func SyncIndex(ctx context.Context, store *knowledge.Store, embedder embedding.Embedder, index vectorindex.Index) (int, error) {
	records := store.All()
	if len(records) == 0 {
		return 0, nil
	}

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Question + " " + rec.Answer
	}

	vecs, err := embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed knowledge records: %w", err)
	}

	points := make([]vectorindex.Point, len(records))
	for i, rec := range records {
		points[i] = vectorindex.Point{
			ID:     rec.ID,
			Vector: vecs[i],
			Payload: vectorindex.Payload{
				Question: rec.Question,
				Answer:   rec.Answer,
				Category: rec.Category,
			},
		}
	}

	if err := index.Upsert(ctx, points); err != nil {
		return 0, fmt.Errorf("upsert knowledge points: %w", err)
	}
	return len(points), nil
}
