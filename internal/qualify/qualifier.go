package qualify

import (
	"math"
	"time"

	"github.com/veralis-ai/concierge-engine/internal/conversation"
)

// Criterion weights. They sum to 1.0.
const (
	weightBudget    = 0.30
	weightAuthority = 0.25
	weightNeed      = 0.25
	weightTimeline  = 0.20
)

// Lead categories, ordered from best to worst.
const (
	CategoryHot         = "hot"
	CategoryWarm        = "warm"
	CategoryQualified   = "qualified"
	CategoryUnqualified = "unqualified"
)

// Qualification is the outcome of one qualification call. OverallScore is on
// the canonical 0-10 scale with one decimal; ScaleScore converts for
// consumers expecting 0-100.
type Qualification struct {
	BANT            Scores    `json:"bant"`
	OverallScore    float64   `json:"overall_score"`
	Category        string    `json:"category"`
	Confidence      float64   `json:"confidence"`
	Insights        []string  `json:"insights"`
	Recommendations []string  `json:"recommendations"`
	NextActions     []string  `json:"next_actions"`
	QualifiedAt     time.Time `json:"qualified_at"`
}

// Qualifier aggregates BANT scores into a lead qualification.
type Qualifier struct {
	scorer *Scorer
	now    func() time.Time
}

// NewQualifier creates a qualifier with the standard rule tables.
func NewQualifier() *Qualifier {
	return &Qualifier{scorer: NewScorer(), now: time.Now}
}

// Qualify scores the conversation and derives the overall qualification.
// It is deterministic: identical input yields identical output apart from
// the timestamp.
func (q *Qualifier) Qualify(ctx conversation.Context) Qualification {
	scores := q.scorer.Score(ctx)

	overall := round1(
		weightBudget*float64(scores.Budget.Score) +
			weightAuthority*float64(scores.Authority.Score) +
			weightNeed*float64(scores.Need.Score) +
			weightTimeline*float64(scores.Timeline.Score))

	category := Categorize(overall)

	// More exchanged turns justify more confidence, capped below certainty.
	confidence := round2(math.Min(float64(ctx.MessageCount())*0.1, 0.9))

	return Qualification{
		BANT:            scores,
		OverallScore:    overall,
		Category:        category,
		Confidence:      confidence,
		Insights:        insights(scores),
		Recommendations: recommendations[category],
		NextActions:     nextActions[category],
		QualifiedAt:     q.now(),
	}
}

// Categorize maps an overall score to a category. Monotonic: a higher score
// never yields a lower category.
func Categorize(score float64) string {
	switch {
	case score >= 8.0:
		return CategoryHot
	case score >= 6.0:
		return CategoryWarm
	case score >= 4.0:
		return CategoryQualified
	default:
		return CategoryUnqualified
	}
}

// ScaleScore converts the canonical 0-10 score for the configured reporting
// scale (10 or 100).
func ScaleScore(score float64, scale int) float64 {
	if scale == 100 {
		return round1(score * 10)
	}
	return score
}

func insights(s Scores) []string {
	var out []string

	if s.Budget.Score >= 7 {
		out = append(out, "Budget bien défini pour le projet")
	} else if s.Budget.Score > 0 && s.Budget.Score <= 3 {
		out = append(out, "Budget contraint ou non alloué")
	}

	if s.Authority.Score >= 8 {
		out = append(out, "Interlocuteur décisionnaire")
	} else if s.Authority.Score > 0 && s.Authority.Score <= 4 {
		out = append(out, "Utilisateur final, validation hiérarchique nécessaire")
	}

	if s.Need.Score >= 8 {
		out = append(out, "Besoin clairement exprimé et prioritaire")
	} else if s.Need.Score > 0 && s.Need.Score <= 4 {
		out = append(out, "Besoin encore flou, à préciser")
	}

	if s.Timeline.Score >= 8 {
		out = append(out, "Échéance courte, projet actif")
	} else if s.Timeline.Score > 0 && s.Timeline.Score <= 3 {
		out = append(out, "Aucune échéance ferme identifiée")
	}

	return out
}

var recommendations = map[string][]string{
	CategoryHot: {
		"Contacter le lead immédiatement",
		"Préparer une proposition commerciale sur mesure",
		"Planifier une démonstration technique approfondie",
	},
	CategoryWarm: {
		"Planifier un appel de découverte sous 48h",
		"Envoyer une étude de cas pertinente",
		"Qualifier le budget et le circuit de décision",
	},
	CategoryQualified: {
		"Inscrire le lead dans une séquence de nurturing",
		"Partager du contenu éducatif ciblé",
		"Requalifier après le prochain échange",
	},
	CategoryUnqualified: {
		"Placer le lead en nurturing trimestriel",
		"Surveiller les signaux d'évolution du besoin",
		"Proposer la newsletter et les ressources libres",
	},
}

var nextActions = map[string][]string{
	CategoryHot: {
		"Appel commercial dans la journée",
		"Envoi d'un devis personnalisé",
		"Réservation d'un créneau de démonstration",
	},
	CategoryWarm: {
		"Prise de rendez-vous de découverte",
		"Envoi d'un récapitulatif par email",
		"Relance planifiée à J+3",
	},
	CategoryQualified: {
		"Ajout à la séquence email de nurturing",
		"Relance planifiée à J+15",
		"Collecte des informations budgétaires manquantes",
	},
	CategoryUnqualified: {
		"Ajout à la liste de diffusion",
		"Revue trimestrielle du dossier",
		"Aucune action commerciale immédiate",
	},
}

// UpdateLeadData merges the qualification into the caller-owned lead record
// and stamps last_qualified_at. Only keys produced by this qualification are
// written; fields set by earlier qualifications and omitted here survive.
func UpdateLeadData(lead map[string]interface{}, q Qualification, scoreScale int) {
	if lead == nil {
		return
	}

	lead["bant"] = q.BANT
	lead["overall_score"] = ScaleScore(q.OverallScore, scoreScale)
	lead["category"] = q.Category
	lead["confidence"] = q.Confidence
	if len(q.Insights) > 0 {
		lead["insights"] = q.Insights
	}
	if len(q.Recommendations) > 0 {
		lead["recommendations"] = q.Recommendations
	}
	if len(q.NextActions) > 0 {
		lead["next_actions"] = q.NextActions
	}
	lead["last_qualified_at"] = q.QualifiedAt
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
