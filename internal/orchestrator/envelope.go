// Package orchestrator implements the response fallback chain: basic
// intents, generative attempt, vector retrieval, keyword retrieval, apology.
package orchestrator

// Provenance tags identify which pipeline stage produced a response.
const (
	ProvenanceGenerative  = "generative"
	ProvenanceBasicIntent = "basic_intent"
	ProvenanceVector      = "vector"
	ProvenanceKeyword     = "keyword"
	ProvenanceFallback    = "fallback"
)

// ResponseEnvelope is the unified reply produced for one visitor query.
// Sources stays empty for generative, basic_intent and fallback responses;
// Suggestions never exceeds three entries.
type ResponseEnvelope struct {
	Response    string   `json:"response"`
	Confidence  float64  `json:"confidence"`
	Sources     []string `json:"sources"`
	Insights    []string `json:"insights,omitempty"`
	Suggestions []string `json:"suggestions"`
	Provenance  string   `json:"provenance"`
}
