// Package qualify implements rule-based BANT scoring and lead qualification
// over accumulated conversation text.
package qualify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/veralis-ai/concierge-engine/internal/conversation"
)

// CriterionScore is the outcome for one BANT criterion.
type CriterionScore struct {
	Score      int      `json:"score"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence,omitempty"`
}

// Scores holds the four criterion outcomes of one scoring call.
type Scores struct {
	Budget    CriterionScore `json:"budget"`
	Authority CriterionScore `json:"authority"`
	Need      CriterionScore `json:"need"`
	Timeline  CriterionScore `json:"timeline"`
}

// ruleMatch is one fired rule: a score floor, a confidence floor and the
// supporting evidence. Override marks the single rule allowed to lower a
// previously raised score ("no budget" trumps a speculative number).
type ruleMatch struct {
	score      int
	confidence float64
	evidence   string
	override   bool
}

// rule inspects the flattened conversation text and reports zero or more
// matches. Rules run in a fixed order per criterion and aggregate by
// monotonic max, so later rules can only raise scores.
type rule func(text string) []ruleMatch

// Scorer applies the rule tables. It carries no state between calls; scoring
// is a pure function of the conversation text.
type Scorer struct {
	budget    []rule
	authority []rule
	need      []rule
	timeline  []rule
}

// NewScorer builds a scorer with the standard French rule tables.
func NewScorer() *Scorer {
	return &Scorer{
		budget:    budgetRules(),
		authority: authorityRules(),
		need:      needRules(),
		timeline:  timelineRules(),
	}
}

// Score analyzes the conversation and returns the four criterion scores.
// Missing or empty conversation data yields zero scores, never an error.
func (s *Scorer) Score(ctx conversation.Context) Scores {
	text := ctx.Flatten()
	return Scores{
		Budget:    applyRules(s.budget, text),
		Authority: applyRules(s.authority, text),
		Need:      applyRules(s.need, text),
		Timeline:  applyRules(s.timeline, text),
	}
}

func applyRules(rules []rule, text string) CriterionScore {
	var out CriterionScore
	if strings.TrimSpace(text) == "" {
		return out
	}
	for _, r := range rules {
		for _, m := range r(text) {
			if m.override {
				out.Score = m.score
			} else if m.score > out.Score {
				out.Score = m.score
			}
			if m.confidence > out.Confidence {
				out.Confidence = m.confidence
			}
			if m.evidence != "" {
				out.Evidence = append(out.Evidence, m.evidence)
			}
		}
	}
	out.Score = clampScore(out.Score)
	out.Confidence = clampConfidence(out.Confidence)
	return out
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// --- Budget ---

var (
	// amount with an explicit unit: "50k", "1m", "50000 euros", "3000€"
	amountRe = regexp.MustCompile(`(\d+(?:[ .]\d{3})*)\s*(k€|m€|k\b|m\b|euros?\b|€)`)
	// amount introduced by the word budget, unit optional: "budget de 40000"
	budgetAmountRe = regexp.MustCompile(`budget\s+(?:de\s+|d'|:\s*)?(\d+(?:[ .]\d{3})*)`)
	// range like "20-50k", "10 à 30 euros"
	rangeRe = regexp.MustCompile(`\d+\s*(?:-|–|à)\s*\d+\s*(?:k€|m€|k\b|m\b|euros?\b|€)`)

	budgetDefinedPhrases = []string{"budget défini", "budget alloué", "budget prévu"}
	noBudgetPhrases      = []string{"pas de budget", "budget limité", "budget serré"}
)

func budgetRules() []rule {
	return []rule{
		budgetAmountRule,
		budgetRangeRule,
		phraseRule(budgetDefinedPhrases, 6, 0.6, "Budget évoqué: %q"),
		noBudgetRule,
	}
}

// budgetAmountRule bands every mentioned amount after unit normalization:
// k multiplies by 1 000, m by 1 000 000, a bare euros/€ suffix by 1 000.
func budgetAmountRule(text string) []ruleMatch {
	var matches []ruleMatch

	for _, m := range amountRe.FindAllStringSubmatch(text, -1) {
		amount := parseAmount(m[1])
		switch unit := m[2]; {
		case strings.HasPrefix(unit, "k"):
			amount *= 1_000
		case strings.HasPrefix(unit, "m"):
			amount *= 1_000_000
		default: // euros / €
			amount *= 1_000
		}
		matches = append(matches, bandAmount(amount, strings.TrimSpace(m[0])))
	}

	for _, m := range budgetAmountRe.FindAllStringSubmatch(text, -1) {
		matches = append(matches, bandAmount(parseAmount(m[1]), strings.TrimSpace(m[0])))
	}

	return matches
}

func bandAmount(amount float64, raw string) ruleMatch {
	evidence := fmt.Sprintf("Montant mentionné: %s", raw)
	switch {
	case amount >= 50_000:
		return ruleMatch{score: 10, confidence: 0.9, evidence: evidence}
	case amount >= 20_000:
		return ruleMatch{score: 7, confidence: 0.8, evidence: evidence}
	case amount >= 5_000:
		return ruleMatch{score: 5, confidence: 0.7, evidence: evidence}
	default:
		return ruleMatch{score: 2, confidence: 0.6, evidence: evidence}
	}
}

func parseAmount(raw string) float64 {
	digits := strings.NewReplacer(" ", "", ".", "").Replace(raw)
	v, _ := strconv.ParseFloat(digits, 64)
	return v
}

func budgetRangeRule(text string) []ruleMatch {
	if m := rangeRe.FindString(text); m != "" {
		return []ruleMatch{{score: 6, confidence: 0.7,
			evidence: fmt.Sprintf("Fourchette budgétaire: %s", strings.TrimSpace(m))}}
	}
	return nil
}

// noBudgetRule is the only rule that lowers a previously raised score: an
// explicit "no budget" statement overrides a speculative number mentioned
// earlier in the conversation.
func noBudgetRule(text string) []ruleMatch {
	for _, phrase := range noBudgetPhrases {
		if strings.Contains(text, phrase) {
			return []ruleMatch{{score: 1, confidence: 0.8, override: true,
				evidence: fmt.Sprintf("Budget contraint: %q", phrase)}}
		}
	}
	return nil
}

// --- Authority ---

// decisionRoles maps role keywords to scores. Scan order is fixed and the
// first match wins.
var decisionRoles = []struct {
	keyword string
	score   int
}{
	{"directeur", 10},
	{"pdg", 10},
	{"ceo", 10},
	{"cfo", 9},
	{"cto", 9},
	{"manager", 8},
	{"chef", 8},
	{"responsable", 7},
}

var (
	decisionMakerPhrases = []string{"décideur final", "pouvoir décisionnel"}
	influencerPhrases    = []string{"influenceur", "recommandation", "conseil"}
	endUserPhrases       = []string{"utilisateur", "opérateur", "technicien"}
)

func authorityRules() []rule {
	return []rule{
		roleRule,
		phraseRule(decisionMakerPhrases, 9, 0.9, "Pouvoir de décision: %q"),
		phraseRule(influencerPhrases, 6, 0.7, "Rôle d'influence: %q"),
		phraseRule(endUserPhrases, 3, 0.6, "Rôle utilisateur: %q"),
	}
}

func roleRule(text string) []ruleMatch {
	for _, role := range decisionRoles {
		if strings.Contains(text, role.keyword) {
			return []ruleMatch{{score: role.score, confidence: 0.8,
				evidence: fmt.Sprintf("Rôle mentionné: %q", role.keyword)}}
		}
	}
	return nil
}

// --- Need ---

// needLexicon maps need keywords to scores. Unlike roles, every match
// accumulates via max.
var needLexicon = []struct {
	keyword string
	score   int
}{
	{"leads", 9},
	{"automatisation", 9},
	{"croissance", 8},
	{"ventes", 8},
	{"qualification", 8},
	{"productivité", 7},
	{"efficacité", 7},
	{"optimisation", 7},
}

var (
	problemPhrases = []string{"problème", "difficulté", "défi", "challenge"}
	goalPhrases    = []string{"objectif", "cible", "résultat"}
	goalButRe      = regexp.MustCompile(`\bbut\b`)
)

func needRules() []rule {
	return []rule{
		needLexiconRule,
		needUrgencyRule,
		phraseRule(problemPhrases, 7, 0.7, "Problème exprimé: %q"),
		goalRule,
	}
}

func needLexiconRule(text string) []ruleMatch {
	var matches []ruleMatch
	for _, entry := range needLexicon {
		if strings.Contains(text, entry.keyword) {
			matches = append(matches, ruleMatch{score: entry.score, confidence: 0.8,
				evidence: fmt.Sprintf("Besoin identifié: %q", entry.keyword)})
		}
	}
	return matches
}

func needUrgencyRule(text string) []ruleMatch {
	if !mentionsUrgency(text) {
		return nil
	}
	return []ruleMatch{{score: 9, confidence: 0.9, evidence: "Besoin urgent exprimé"}}
}

// goalRule matches goal vocabulary. "but" needs a word boundary so it does
// not fire inside unrelated words.
func goalRule(text string) []ruleMatch {
	for _, phrase := range goalPhrases {
		if strings.Contains(text, phrase) {
			return []ruleMatch{{score: 6, confidence: 0.6,
				evidence: fmt.Sprintf("Objectif exprimé: %q", phrase)}}
		}
	}
	if goalButRe.MatchString(text) {
		return []ruleMatch{{score: 6, confidence: 0.6, evidence: `Objectif exprimé: "but"`}}
	}
	return nil
}

// --- Timeline ---

var (
	urgentPhrases     = []string{"urgent", "immédiat", "cette semaine", "tout de suite", "dès que possible"}
	noDeadlinePhrases = []string{"pas de délai", "pas pressé", "pas urgent", "aucune urgence"}

	weeksRe  = regexp.MustCompile(`(\d+)\s*semaines?`)
	monthsRe = regexp.MustCompile(`(\d+)\s*mois`)
)

func timelineRules() []rule {
	return []rule{
		timelineUrgentRule,
		timelineHorizonRule,
		phraseRule(noDeadlinePhrases, 2, 0.7, "Pas d'échéance: %q"),
	}
}

func timelineUrgentRule(text string) []ruleMatch {
	if !mentionsUrgency(text) {
		return nil
	}
	return []ruleMatch{{score: 10, confidence: 0.9, evidence: "Échéance urgente exprimée"}}
}

// timelineHorizonRule bands explicit implementation horizons: up to four
// weeks scores 8, up to three months 7, beyond six months 3.
func timelineHorizonRule(text string) []ruleMatch {
	if !strings.Contains(text, "implément") && !strings.Contains(text, "mise en place") &&
		!strings.Contains(text, "déploi") {
		return nil
	}

	var matches []ruleMatch
	for _, m := range weeksRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n <= 4 {
			matches = append(matches, ruleMatch{score: 8, confidence: 0.8,
				evidence: fmt.Sprintf("Horizon: %s", m[0])})
		}
	}
	for _, m := range monthsRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		switch {
		case n <= 3:
			matches = append(matches, ruleMatch{score: 7, confidence: 0.7,
				evidence: fmt.Sprintf("Horizon: %s", m[0])})
		case n > 6:
			matches = append(matches, ruleMatch{score: 3, confidence: 0.6,
				evidence: fmt.Sprintf("Horizon lointain: %s", m[0])})
		}
	}
	return matches
}

// --- shared helpers ---

// mentionsUrgency reports urgency vocabulary that is not negated. "pas
// urgent" and friends must not fire the urgency rules.
func mentionsUrgency(text string) bool {
	for _, neg := range noDeadlinePhrases {
		if strings.Contains(text, neg) {
			return false
		}
	}
	for _, phrase := range urgentPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// phraseRule builds a first-match rule over a phrase list with fixed floors.
func phraseRule(phrases []string, score int, confidence float64, evidenceFmt string) rule {
	return func(text string) []ruleMatch {
		for _, phrase := range phrases {
			if strings.Contains(text, phrase) {
				return []ruleMatch{{score: score, confidence: confidence,
					evidence: fmt.Sprintf(evidenceFmt, phrase)}}
			}
		}
		return nil
	}
}
