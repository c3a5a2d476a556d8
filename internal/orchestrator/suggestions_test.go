package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionsCappedAtThreeInFlagOrder(t *testing.T) {
	// Nothing qualifying in the text: the first three unmet flags win.
	out := GenerateSuggestions("xyzzy", "")

	require.Len(t, out, 3)
	assert.Equal(t, "Quel est votre rôle dans l'entreprise ?", out[0])
	assert.Equal(t, "Avez-vous un budget défini pour ce projet ?", out[1])
	assert.Equal(t, "Quel est votre calendrier de mise en place ?", out[2])
}

func TestSuggestionsSkipCoveredTopics(t *testing.T) {
	out := GenerateSuggestions("je suis directeur et mon budget est fixé", "")

	assert.NotContains(t, out, "Quel est votre rôle dans l'entreprise ?")
	assert.NotContains(t, out, "Avez-vous un budget défini pour ce projet ?")
	assert.Contains(t, out, "Quel est votre calendrier de mise en place ?")
}

func TestSuggestionsConsiderRecordText(t *testing.T) {
	out := GenerateSuggestions("parlez-moi de tout", "notre offre de services et la démonstration")

	assert.NotContains(t, out, "Souhaitez-vous découvrir nos services en détail ?")
	assert.NotContains(t, out, "Voulez-vous réserver une démonstration ?")
}

func TestSuggestionsCatchAllWhenEverythingCovered(t *testing.T) {
	text := "directeur budget délai entreprise service démo"
	out := GenerateSuggestions(text, "")

	require.Len(t, out, 1)
	assert.Equal(t, allFlagsMetSuggestion, out[0])
}
