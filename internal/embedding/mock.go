package embedding

import (
	"context"
	"crypto/sha256"
)

// MockEmbedder is a deterministic in-process Embedder for tests and local
// development. Vectors are derived from a hash of the text, so identical
// texts always embed identically.
type MockEmbedder struct {
	Dim   int
	Calls int
	Err   error
}

// NewMockEmbedder creates a mock producing vectors of the given dimension.
func NewMockEmbedder(dim int) *MockEmbedder {
	if dim <= 0 {
		dim = 16
	}
	return &MockEmbedder{Dim: dim}
}

// Configured always reports true for the mock.
func (m *MockEmbedder) Configured() bool {
	return true
}

// Embed returns one deterministic vector per text.
func (m *MockEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = hashVector(text, m.Dim)
	}
	return out, nil
}

func hashVector(text string, dim int) []float64 {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float64, dim)
	for i := 0; i < dim; i++ {
		vec[i] = float64(sum[i%len(sum)])/255.0 - 0.5
	}
	return vec
}
