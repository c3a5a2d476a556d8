// Package retrieval implements the keyword and vector retrieval stages of
// the response pipeline.
package retrieval

import (
	"strings"

	"github.com/veralis-ai/concierge-engine/internal/knowledge"
	"github.com/veralis-ai/concierge-engine/internal/observability"
)

// ScoredRecord pairs a knowledge record with a relevance score in [0,1].
type ScoredRecord struct {
	Record    knowledge.Record
	Relevance float64
}

// domainLexicon lists the domain keywords checked before generic
// tokenization. Order matters: extraction keeps the first five matches.
var domainLexicon = []string{
	"tarifs", "tarif", "prix", "coût", "devis", "abonnement",
	"démonstration", "demo", "démo", "essai",
	"services", "offre", "solutions",
	"qualification", "leads", "lead", "scoring", "bant",
	"intégration", "crm", "api",
	"automatisation", "chatbot",
	"délai", "déploiement", "installation",
	"sécurité", "rgpd", "données",
	"contact", "commercial",
}

// stopWords are generic French tokens excluded from fallback tokenization.
var stopWords = map[string]struct{}{
	"les": {}, "des": {}, "une": {}, "est": {}, "pour": {}, "avec": {},
	"vous": {}, "nous": {}, "votre": {}, "notre": {}, "vos": {}, "nos": {},
	"que": {}, "qui": {}, "quoi": {}, "comment": {}, "quel": {}, "quels": {},
	"quelle": {}, "quelles": {}, "sont": {}, "dans": {}, "sur": {},
	"pas": {}, "plus": {}, "mais": {}, "aussi": {}, "ont": {}, "avez": {},
	"être": {}, "avoir": {}, "fait": {}, "faire": {}, "ça": {}, "cela": {},
}

const maxKeywords = 5

// KeywordRetriever extracts domain keywords and searches the knowledge store.
type KeywordRetriever struct {
	store  *knowledge.Store
	logger *observability.Logger

	// Calls counts Retrieve invocations, used by chain-order tests.
	Calls int
}

// NewKeywordRetriever creates a retriever over the given store.
func NewKeywordRetriever(store *knowledge.Store, logger *observability.Logger) *KeywordRetriever {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &KeywordRetriever{store: store, logger: logger}
}

// ExtractKeywords returns up to five keywords for the query. The domain
// lexicon is tried first; when nothing matches, the query is tokenized and
// tokens longer than two runes outside the stop-list are kept.
func ExtractKeywords(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var keywords []string
	for _, kw := range domainLexicon {
		if strings.Contains(q, kw) {
			keywords = append(keywords, kw)
			if len(keywords) >= maxKeywords {
				return keywords
			}
		}
	}
	if len(keywords) > 0 {
		return keywords
	}

	for _, tok := range strings.FieldsFunc(q, func(r rune) bool {
		return !isWordRune(r)
	}) {
		if len([]rune(tok)) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		keywords = append(keywords, tok)
		if len(keywords) >= maxKeywords {
			break
		}
	}
	return keywords
}

func isWordRune(r rune) bool {
	return r == '-' || r == '\'' ||
		(r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127
}

// Retrieve searches the store with the query's keywords. Results keep the
// store's insertion order; Relevance is the hit ratio of the best record,
// applied to every returned record.
func (r *KeywordRetriever) Retrieve(query string, limit int) []ScoredRecord {
	r.Calls++

	keywords := ExtractKeywords(query)
	if len(keywords) == 0 {
		return nil
	}

	records := r.store.Search(keywords, limit)
	if len(records) == 0 {
		r.logger.Debug().Strs("keywords", keywords).Msg("keyword retrieval found no records")
		return nil
	}

	confidence := bestHitRatio(records, keywords)
	out := make([]ScoredRecord, len(records))
	for i, rec := range records {
		out[i] = ScoredRecord{Record: rec, Relevance: confidence}
	}

	r.logger.Debug().
		Strs("keywords", keywords).
		Int("records", len(records)).
		Float64("confidence", confidence).
		Msg("keyword retrieval")
	return out
}

// bestHitRatio returns (keyword hits in the best record) / (keyword count),
// clamped to [0,1].
func bestHitRatio(records []knowledge.Record, keywords []string) float64 {
	best := 0
	for _, rec := range records {
		if hits := rec.HitCount(keywords); hits > best {
			best = hits
		}
	}
	ratio := float64(best) / float64(len(keywords))
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return ratio
}
