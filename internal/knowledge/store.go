package knowledge

import (
	"sync"

	"github.com/google/uuid"
)

// Store is an in-memory, insertion-ordered knowledge base. Search results
// come back in insertion order, not relevance order.
type Store struct {
	mu      sync.RWMutex
	records []Record
	byID    map[string]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]int)}
}

// Add appends a record, assigning an ID when missing. A record with an
// existing ID replaces the original in place, keeping its position.
func (s *Store) Add(rec Record) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if idx, ok := s.byID[rec.ID]; ok {
		s.records[idx] = rec
		return rec
	}
	s.byID[rec.ID] = len(s.records)
	s.records = append(s.records, rec)
	return rec
}

// AddAll appends records in order.
func (s *Store) AddAll(recs []Record) {
	for _, rec := range recs {
		s.Add(rec)
	}
}

// Get returns a record by ID.
func (s *Store) Get(id string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return Record{}, false
	}
	return s.records[idx], true
}

// All returns a copy of every record in insertion order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Search returns up to limit records whose searchable text contains every
// keyword, in insertion order. limit <= 0 defaults to 3.
func (s *Store) Search(keywords []string, limit int) []Record {
	if limit <= 0 {
		limit = 3
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, rec := range s.records {
		if rec.Matches(keywords) {
			out = append(out, rec)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}
