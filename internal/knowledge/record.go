// Package knowledge provides the keyword-searchable knowledge base backing
// the retrieval stages of the Concierge Engine.
package knowledge

import (
	"strings"
)

// Record is a stored question/answer pair usable for keyword or vector
// retrieval. Records are created at seed time and read-only while serving.
type Record struct {
	ID          string    `json:"id" yaml:"id"`
	Category    string    `json:"category" yaml:"category"`
	Question    string    `json:"question" yaml:"question"`
	Answer      string    `json:"answer" yaml:"answer"`
	Keywords    []string  `json:"keywords" yaml:"keywords"`
	ContextTags []string  `json:"context_tags,omitempty" yaml:"context_tags"`
	Priority    int       `json:"priority" yaml:"priority"`
	Embedding   []float64 `json:"-" yaml:"-"`
}

// SearchText returns the lowercased text a keyword match runs against:
// question, answer and the keyword list.
func (r Record) SearchText() string {
	parts := make([]string, 0, 2+len(r.Keywords))
	parts = append(parts, r.Question, r.Answer)
	parts = append(parts, r.Keywords...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Matches reports whether every given keyword appears as a substring of the
// record's searchable text. Keywords are compared case-insensitively.
func (r Record) Matches(keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	text := r.SearchText()
	for _, kw := range keywords {
		if !strings.Contains(text, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// HitCount returns how many of the given keywords appear in the record's
// searchable text.
func (r Record) HitCount(keywords []string) int {
	text := r.SearchText()
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			hits++
		}
	}
	return hits
}
