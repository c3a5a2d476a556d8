package orchestrator

import "strings"

// qualifyingFlag pairs detection vocabulary with the complementary
// qualifying question asked when the topic has not come up yet. Flags are
// checked in declaration order.
type qualifyingFlag struct {
	keywords []string
	question string
}

var qualifyingFlags = []qualifyingFlag{
	{
		keywords: []string{"directeur", "responsable", "manager", "pdg", "chef", "poste", "rôle", "fonction"},
		question: "Quel est votre rôle dans l'entreprise ?",
	},
	{
		keywords: []string{"budget", "prix", "tarif", "coût", "investissement"},
		question: "Avez-vous un budget défini pour ce projet ?",
	},
	{
		keywords: []string{"délai", "échéance", "calendrier", "urgent", "semaine", "mois", "quand"},
		question: "Quel est votre calendrier de mise en place ?",
	},
	{
		keywords: []string{"entreprise", "société", "équipe", "salariés", "collaborateurs"},
		question: "Pouvez-vous me parler de votre entreprise ?",
	},
	{
		keywords: []string{"service", "offre", "solution", "fonctionnalité"},
		question: "Souhaitez-vous découvrir nos services en détail ?",
	},
	{
		keywords: []string{"démo", "démonstration", "essai"},
		question: "Voulez-vous réserver une démonstration ?",
	},
}

const allFlagsMetSuggestion = "Y a-t-il autre chose à préciser sur votre rôle, " +
	"votre budget ou vos délais ?"

const maxSuggestions = 3

// GenerateSuggestions emits the complementary qualifying question for each
// topic absent from both the query and the best-matching record text,
// deduplicated, in flag-check order, truncated to three. When every topic is
// covered it asks one catch-all question.
func GenerateSuggestions(query, recordText string) []string {
	text := strings.ToLower(query + " " + recordText)

	var out []string
	seen := make(map[string]struct{})
	for _, flag := range qualifyingFlags {
		if containsAny(text, flag.keywords) {
			continue
		}
		if _, dup := seen[flag.question]; dup {
			continue
		}
		seen[flag.question] = struct{}{}
		out = append(out, flag.question)
		if len(out) >= maxSuggestions {
			return out
		}
	}

	if len(out) == 0 {
		return []string{allFlagsMetSuggestion}
	}
	return out
}
