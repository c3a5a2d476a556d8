package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore() *Store {
	s := NewStore()
	s.AddAll(DefaultSeed())
	return s
}

func TestSearchRequiresAllKeywords(t *testing.T) {
	s := seededStore()

	recs := s.Search([]string{"tarifs", "devis"}, 3)
	require.Len(t, recs, 1)
	assert.Equal(t, "kb-tarifs", recs[0].ID)

	// One keyword missing from every record: no match.
	recs = s.Search([]string{"tarifs", "salesforce"}, 3)
	assert.Empty(t, recs)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	s := seededStore()

	recs := s.Search([]string{"TARIFS"}, 3)
	require.NotEmpty(t, recs)
	assert.Equal(t, "kb-tarifs", recs[0].ID)
}

func TestSearchHonorsLimit(t *testing.T) {
	s := NewStore()
	for i := 0; i < 10; i++ {
		s.Add(Record{Question: "question automatisation", Answer: "réponse"})
	}

	recs := s.Search([]string{"automatisation"}, 3)
	assert.Len(t, recs, 3)

	// limit <= 0 falls back to the default of 3.
	recs = s.Search([]string{"automatisation"}, 0)
	assert.Len(t, recs, 3)
}

func TestSearchPreservesInsertionOrder(t *testing.T) {
	s := NewStore()
	s.Add(Record{ID: "a", Question: "prix abonnement"})
	s.Add(Record{ID: "b", Question: "détail des prix"})
	s.Add(Record{ID: "c", Question: "prix et délais"})

	recs := s.Search([]string{"prix"}, 10)
	require.Len(t, recs, 3)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "b", recs[1].ID)
	assert.Equal(t, "c", recs[2].ID)
}

func TestSearchEmptyKeywordsMatchesNothing(t *testing.T) {
	s := seededStore()
	assert.Empty(t, s.Search(nil, 3))
}

func TestAddAssignsIDAndReplacesByID(t *testing.T) {
	s := NewStore()

	rec := s.Add(Record{Question: "q"})
	assert.NotEmpty(t, rec.ID)

	s.Add(Record{ID: rec.ID, Question: "q2"})
	assert.Equal(t, 1, s.Count())

	got, ok := s.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, "q2", got.Question)
}

func TestHitCount(t *testing.T) {
	rec := Record{Question: "Quels sont vos tarifs ?", Answer: "À partir de 490€", Keywords: []string{"prix"}}

	assert.Equal(t, 2, rec.HitCount([]string{"tarifs", "prix", "délai"}))
	assert.Equal(t, 0, rec.HitCount(nil))
}
