package qualify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veralis-ai/concierge-engine/internal/conversation"
)

func userTurns(texts ...string) conversation.Context {
	ctx := make(conversation.Context, len(texts))
	for i, t := range texts {
		ctx[i] = conversation.Turn{Role: conversation.RoleUser, Text: t}
	}
	return ctx
}

func TestBudgetFiftyThousandEuros(t *testing.T) {
	scores := NewScorer().Score(userTurns("Budget 50000 euros"))

	assert.Equal(t, 10, scores.Budget.Score)
	assert.Equal(t, 0.9, scores.Budget.Confidence)

	found := false
	for _, ev := range scores.Budget.Evidence {
		if strings.Contains(ev, "50000") {
			found = true
		}
	}
	assert.True(t, found, "evidence should mention the amount: %v", scores.Budget.Evidence)
}

func TestBudgetBands(t *testing.T) {
	cases := []struct {
		text       string
		score      int
		confidence float64
	}{
		{"nous avons 60k pour ce projet", 10, 0.9},
		{"notre budget de 30000", 7, 0.8},
		{"environ 10k disponibles", 5, 0.7},
		{"budget de 2000 seulement", 2, 0.6},
		{"on a 1m à investir", 10, 0.9},
	}

	s := NewScorer()
	for _, tc := range cases {
		scores := s.Score(userTurns(tc.text))
		assert.Equal(t, tc.score, scores.Budget.Score, tc.text)
		assert.Equal(t, tc.confidence, scores.Budget.Confidence, tc.text)
	}
}

func TestBudgetRangePattern(t *testing.T) {
	scores := NewScorer().Score(userTurns("on envisage 20-50k"))

	assert.GreaterOrEqual(t, scores.Budget.Score, 6)
}

func TestBudgetDefinedPhrase(t *testing.T) {
	scores := NewScorer().Score(userTurns("nous avons un budget défini pour cette année"))

	assert.Equal(t, 6, scores.Budget.Score)
	assert.Equal(t, 0.6, scores.Budget.Confidence)
}

func TestNoBudgetOverridesEarlierAmount(t *testing.T) {
	scores := NewScorer().Score(userTurns(
		"on avait parlé de 60k",
		"finalement pas de budget cette année",
	))

	assert.Equal(t, 1, scores.Budget.Score)
	assert.Equal(t, 0.9, scores.Budget.Confidence)
}

func TestAuthorityRoleFirstMatchWins(t *testing.T) {
	cases := []struct {
		text  string
		score int
	}{
		{"je suis directeur commercial", 10},
		{"je suis le pdg de la société", 10},
		{"notre cto évaluera la solution", 9},
		{"je suis manager d'une équipe de vente", 8},
		{"je suis responsable marketing", 7},
	}

	s := NewScorer()
	for _, tc := range cases {
		scores := s.Score(userTurns(tc.text))
		assert.Equal(t, tc.score, scores.Authority.Score, tc.text)
		assert.GreaterOrEqual(t, scores.Authority.Confidence, 0.8, tc.text)
	}
}

func TestAuthorityDecisionMakerPhrase(t *testing.T) {
	scores := NewScorer().Score(userTurns("j'ai le pouvoir décisionnel sur ce sujet"))

	assert.Equal(t, 9, scores.Authority.Score)
	assert.Equal(t, 0.9, scores.Authority.Confidence)
}

func TestAuthorityEndUser(t *testing.T) {
	scores := NewScorer().Score(userTurns("je serai l'utilisateur principal de l'outil"))

	assert.Equal(t, 3, scores.Authority.Score)
	assert.Equal(t, 0.6, scores.Authority.Confidence)
}

func TestNeedLexiconAccumulatesByMax(t *testing.T) {
	scores := NewScorer().Score(userTurns("nous voulons plus de leads et de productivité"))

	// leads=9 and productivité=7 both match; max wins.
	assert.Equal(t, 9, scores.Need.Score)
	assert.GreaterOrEqual(t, len(scores.Need.Evidence), 2)
}

func TestNeedProblemAndGoalPhrases(t *testing.T) {
	s := NewScorer()

	scores := s.Score(userTurns("nous avons un problème de suivi"))
	assert.Equal(t, 7, scores.Need.Score)

	scores = s.Score(userTurns("notre objectif est clair"))
	assert.Equal(t, 6, scores.Need.Score)
}

func TestTimelineUrgentAndAuthorityAreIndependent(t *testing.T) {
	scores := NewScorer().Score(userTurns("c'est urgent, je suis directeur"))

	assert.Equal(t, 10, scores.Timeline.Score)
	assert.Equal(t, 10, scores.Authority.Score)
}

func TestTimelineNegatedUrgencyDoesNotFire(t *testing.T) {
	scores := NewScorer().Score(userTurns("ce n'est pas urgent du tout"))

	assert.Equal(t, 2, scores.Timeline.Score)
	assert.Equal(t, 0.7, scores.Timeline.Confidence)
}

func TestTimelineHorizons(t *testing.T) {
	s := NewScorer()

	scores := s.Score(userTurns("nous voulons implémenter sous 3 semaines"))
	assert.Equal(t, 8, scores.Timeline.Score)

	scores = s.Score(userTurns("implémentation prévue dans 2 mois"))
	assert.Equal(t, 7, scores.Timeline.Score)

	scores = s.Score(userTurns("on implémentera dans 12 mois au mieux"))
	assert.Equal(t, 3, scores.Timeline.Score)
}

func TestScoresStayInBoundsOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		"    ",
		"((((((((",
		"99999999999999999999 k 00 mois semaine urgent pas urgent directeur",
		strings.Repeat("budget 9999999m urgent directeur leads ", 50),
		"\x00\x01\x02",
	}

	s := NewScorer()
	for _, input := range inputs {
		scores := s.Score(userTurns(input))
		for _, cs := range []CriterionScore{scores.Budget, scores.Authority, scores.Need, scores.Timeline} {
			assert.GreaterOrEqual(t, cs.Score, 0, input)
			assert.LessOrEqual(t, cs.Score, 10, input)
			assert.GreaterOrEqual(t, cs.Confidence, 0.0, input)
			assert.LessOrEqual(t, cs.Confidence, 1.0, input)
		}
	}
}

func TestScoringIsIdempotent(t *testing.T) {
	ctx := userTurns(
		"je suis directeur et c'est urgent",
		"budget 50000 euros pour de l'automatisation",
	)

	s := NewScorer()
	first := s.Score(ctx)
	second := s.Score(ctx)

	require.Equal(t, first, second)
}

func TestEmptyConversationYieldsZeroScores(t *testing.T) {
	scores := NewScorer().Score(nil)

	assert.Zero(t, scores.Budget.Score)
	assert.Zero(t, scores.Authority.Score)
	assert.Zero(t, scores.Need.Score)
	assert.Zero(t, scores.Timeline.Score)
}
