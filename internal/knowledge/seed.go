package knowledge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSeedFile reads knowledge records from a YAML file. The file holds a
// top-level `records` list.
func LoadSeedFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var doc struct {
		Records []Record `yaml:"records"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return doc.Records, nil
}

// DefaultSeed returns the built-in French marketing corpus used when no seed
// file is configured.
func DefaultSeed() []Record {
	return []Record{
		{
			ID:       "kb-services",
			Category: "services",
			Question: "Quels services proposez-vous ?",
			Answer: "Nous proposons des solutions d'automatisation commerciale : " +
				"qualification de leads par IA, chatbot de site web, scoring BANT " +
				"et intégration CRM. Chaque offre est adaptée à votre équipe de vente.",
			Keywords:    []string{"services", "offre", "solutions", "proposez"},
			ContextTags: []string{"presentation"},
			Priority:    10,
		},
		{
			ID:       "kb-tarifs",
			Category: "tarifs",
			Question: "Quels sont vos tarifs ?",
			Answer: "Nos offres commencent à 490€ par mois pour l'essentiel et " +
				"1 490€ par mois pour l'offre complète avec qualification illimitée. " +
				"Un devis personnalisé est établi selon votre volume de leads.",
			Keywords:    []string{"tarifs", "prix", "coût", "abonnement", "devis"},
			ContextTags: []string{"pricing"},
			Priority:    9,
		},
		{
			ID:       "kb-demo",
			Category: "demo",
			Question: "Comment obtenir une démonstration ?",
			Answer: "Vous pouvez réserver une démonstration de 30 minutes avec un " +
				"de nos experts. La démonstration couvre le chatbot, le scoring de " +
				"leads et le tableau de bord.",
			Keywords:    []string{"démonstration", "demo", "essai", "rendez-vous"},
			ContextTags: []string{"sales"},
			Priority:    9,
		},
		{
			ID:       "kb-leads",
			Category: "qualification",
			Question: "Comment qualifiez-vous les leads ?",
			Answer: "Notre moteur analyse chaque conversation selon le cadre BANT : " +
				"budget, autorité, besoin et délai. Chaque lead reçoit un score et " +
				"une catégorie (hot, warm, qualified, unqualified) mis à jour en temps réel.",
			Keywords:    []string{"leads", "qualification", "scoring", "bant"},
			ContextTags: []string{"product"},
			Priority:    8,
		},
		{
			ID:       "kb-integration",
			Category: "integration",
			Question: "Avec quels outils vous intégrez-vous ?",
			Answer: "Nous nous intégrons avec les principaux CRM (Salesforce, HubSpot, " +
				"Pipedrive) via API, ainsi qu'avec votre site web par un simple script.",
			Keywords:    []string{"intégration", "crm", "api", "salesforce", "hubspot"},
			ContextTags: []string{"technical"},
			Priority:    7,
		},
		{
			ID:       "kb-delai",
			Category: "deploiement",
			Question: "Combien de temps prend la mise en place ?",
			Answer: "La mise en place standard prend une à deux semaines : import de " +
				"votre base de connaissances, configuration du scoring et tests. Un " +
				"accompagnement dédié est inclus.",
			Keywords:    []string{"délai", "mise en place", "déploiement", "installation"},
			ContextTags: []string{"onboarding"},
			Priority:    7,
		},
		{
			ID:       "kb-securite",
			Category: "securite",
			Question: "Où sont hébergées mes données ?",
			Answer: "Toutes les données sont hébergées en Union européenne et traitées " +
				"conformément au RGPD. Les conversations sont chiffrées en transit et au repos.",
			Keywords:    []string{"données", "sécurité", "rgpd", "hébergement"},
			ContextTags: []string{"compliance"},
			Priority:    6,
		},
		{
			ID:       "kb-contact",
			Category: "contact",
			Question: "Comment contacter votre équipe commerciale ?",
			Answer: "Vous pouvez joindre notre équipe commerciale via le formulaire de " +
				"contact du site ou par téléphone du lundi au vendredi, de 9h à 18h.",
			Keywords:    []string{"contact", "commercial", "téléphone", "équipe"},
			ContextTags: []string{"sales"},
			Priority:    5,
		},
	}
}
