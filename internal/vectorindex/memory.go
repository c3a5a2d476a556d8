package vectorindex

import (
	"context"
	"math"
	"sort"
	"sync"
)

// MemoryIndex is an in-process cosine-similarity index used for development
// and tests.
type MemoryIndex struct {
	mu     sync.RWMutex
	points map[string]Point

	SearchCalls int
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{points: make(map[string]Point)}
}

// Configured always reports true for the memory index.
func (m *MemoryIndex) Configured() bool {
	return true
}

// Upsert stores points, replacing existing IDs.
func (m *MemoryIndex) Upsert(_ context.Context, points []Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range points {
		m.points[p.ID] = p
	}
	return nil
}

// Search returns up to limit nearest points by cosine similarity, best
// first. Scores are clamped to [0,1].
func (m *MemoryIndex) Search(_ context.Context, vector []float64, limit int) ([]Hit, error) {
	m.mu.Lock()
	m.SearchCalls++
	m.mu.Unlock()

	if limit <= 0 {
		limit = 3
	}

	m.mu.RLock()
	hits := make([]Hit, 0, len(m.points))
	for _, p := range m.points {
		score := cosine(vector, p.Vector)
		if score < 0 {
			score = 0
		}
		hits = append(hits, Hit{ID: p.ID, Score: score, Payload: p.Payload})
	}
	m.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Count returns the number of stored points.
func (m *MemoryIndex) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.points)
}

func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
