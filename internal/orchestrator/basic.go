package orchestrator

import (
	"strings"
)

// BasicQueryHandler answers trivial canned intents before any retrieval or
// generation is attempted, so greetings never cost a network call.
type BasicQueryHandler struct {
	// Calls counts Handle invocations, used by chain-order tests.
	Calls int
}

// NewBasicQueryHandler creates the handler.
func NewBasicQueryHandler() *BasicQueryHandler {
	return &BasicQueryHandler{}
}

var greetingWords = []string{"bonjour", "bonsoir", "salut", "coucou", "hello"}

var identityPhrases = []string{
	"qui êtes-vous", "qui êtes vous", "qui es-tu", "qui es tu",
	"vous êtes qui", "tu es qui",
}

var helpPhrases = []string{
	"aide", "help", "comment ça marche", "comment ca marche",
}

var servicesPhrases = []string{
	"vos services", "que proposez", "que faites-vous", "que faites vous",
	"qu'est-ce que vous proposez",
}

const greetingResponse = "Bonjour ! Je suis l'assistant virtuel de Veralis. " +
	"Je peux vous présenter nos solutions d'automatisation commerciale et " +
	"répondre à vos questions. Comment puis-je vous aider ?"

const identityResponse = "Je suis l'assistant virtuel de Veralis. Je réponds " +
	"à vos questions sur nos solutions de qualification de leads et je peux " +
	"vous mettre en relation avec notre équipe commerciale."

const helpResponse = "Vous pouvez me poser des questions sur nos services, " +
	"nos tarifs, nos intégrations ou demander une démonstration. Que " +
	"souhaitez-vous savoir ?"

const servicesResponse = "Nous proposons des solutions d'automatisation " +
	"commerciale : chatbot de qualification, scoring BANT des leads et " +
	"intégration CRM. Souhaitez-vous en savoir plus sur une offre en particulier ?"

// Handle matches the query against the canned intents. A match returns an
// envelope with confidence 1.0 and empty sources.
func (h *BasicQueryHandler) Handle(query string) (*ResponseEnvelope, bool) {
	h.Calls++

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, false
	}

	if isGreeting(q) {
		return basicEnvelope(greetingResponse), true
	}
	if containsAny(q, identityPhrases) {
		return basicEnvelope(identityResponse), true
	}
	if containsAny(q, servicesPhrases) {
		return basicEnvelope(servicesResponse), true
	}
	if containsAny(q, helpPhrases) {
		return basicEnvelope(helpResponse), true
	}

	return nil, false
}

// isGreeting fires only on short queries so "bonjour, quels sont vos
// tarifs ?" still reaches the real pipeline.
func isGreeting(q string) bool {
	stripped := strings.Trim(q, " !?.,")
	if len(strings.Fields(stripped)) > 3 {
		return false
	}
	return containsAny(stripped, greetingWords)
}

func containsAny(q string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(q, p) {
			return true
		}
	}
	return false
}

func basicEnvelope(response string) *ResponseEnvelope {
	return &ResponseEnvelope{
		Response:   response,
		Confidence: 1.0,
		Sources:    []string{},
		Suggestions: []string{
			"Quels sont vos services ?",
			"Quels sont vos tarifs ?",
			"Comment réserver une démonstration ?",
		},
		Provenance: ProvenanceBasicIntent,
	}
}
