// Package vectorindex provides access to the externally hosted
// similarity-search service and an in-memory stand-in for development.
package vectorindex

import (
	"context"
	"errors"
)

// ErrUnconfigured is returned when no index URL is set. Callers treat this
// as a skip, not a failure.
var ErrUnconfigured = errors.New("vector index not configured")

// Payload is the stored metadata for one indexed knowledge chunk.
type Payload struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// Point is one entry to upsert into the index.
type Point struct {
	ID      string
	Vector  []float64
	Payload Payload
}

// Hit is one similarity-search result. Score is in [0,1], higher is closer.
type Hit struct {
	ID      string  `json:"id"`
	Score   float64 `json:"score"`
	Payload Payload `json:"payload"`
}

// Index is the similarity-search interface used by the vector retriever.
type Index interface {
	Search(ctx context.Context, vector []float64, limit int) ([]Hit, error)
	Upsert(ctx context.Context, points []Point) error
	Configured() bool
}
