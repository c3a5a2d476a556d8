package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/veralis-ai/concierge-engine/internal/conversation"
	"github.com/veralis-ai/concierge-engine/internal/generative"
	"github.com/veralis-ai/concierge-engine/internal/observability"
	"github.com/veralis-ai/concierge-engine/internal/retrieval"
	"github.com/veralis-ai/concierge-engine/internal/vectorindex"
)

// stage is one link of the fallback chain. ok reports that the stage
// produced a usable envelope; a false ok with a non-nil error marks a real
// failure (as opposed to a clean miss or an unconfigured skip).
type stage func(ctx context.Context, query string, conv conversation.Context, lead map[string]interface{}) (*ResponseEnvelope, bool, error)

// Orchestrator runs the ordered fallback chain. Respond never returns an
// error: every internal failure degrades to the next stage and, at worst,
// the apology envelope.
type Orchestrator struct {
	basic     *BasicQueryHandler
	generator generative.Generator
	vector    *retrieval.VectorRetriever
	keyword   *retrieval.KeywordRetriever

	generativeTimeout time.Duration
	retrievalTimeout  time.Duration
	keywordLimit      int
	logger            *observability.Logger
}

// Options configures an Orchestrator.
type Options struct {
	Basic             *BasicQueryHandler
	Generator         generative.Generator
	Vector            *retrieval.VectorRetriever
	Keyword           *retrieval.KeywordRetriever
	GenerativeTimeout time.Duration
	RetrievalTimeout  time.Duration
	KeywordLimit      int
	Logger            *observability.Logger
}

// New creates an orchestrator. Zero timeouts default to 30s for generation
// and 10s for retrieval; a zero keyword limit defaults to 3.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		basic:             opts.Basic,
		generator:         opts.Generator,
		vector:            opts.Vector,
		keyword:           opts.Keyword,
		generativeTimeout: opts.GenerativeTimeout,
		retrievalTimeout:  opts.RetrievalTimeout,
		keywordLimit:      opts.KeywordLimit,
		logger:            opts.Logger,
	}
	if o.basic == nil {
		o.basic = NewBasicQueryHandler()
	}
	if o.generativeTimeout == 0 {
		o.generativeTimeout = 30 * time.Second
	}
	if o.retrievalTimeout == 0 {
		o.retrievalTimeout = 10 * time.Second
	}
	if o.keywordLimit <= 0 {
		o.keywordLimit = 3
	}
	if o.logger == nil {
		o.logger = observability.NopLogger()
	}
	return o
}

// Respond runs the chain and returns the first stage's envelope. The basic
// intent check runs before everything else so trivial turns never reach the
// network; the remaining order is generative, vector, keyword, apology.
func (o *Orchestrator) Respond(ctx context.Context, query string, conv conversation.Context, lead map[string]interface{}) *ResponseEnvelope {
	stages := []struct {
		name string
		fn   stage
	}{
		{"basic_intent", o.basicStage},
		{"generative", o.generativeStage},
		{"vector", o.vectorStage},
		{"keyword", o.keywordStage},
	}

	errored := false
	for _, s := range stages {
		if ctx.Err() != nil {
			// Caller aborted: no partial envelope.
			return fallbackEnvelope(true)
		}

		env, ok, err := s.fn(ctx, query, conv, lead)
		if err != nil {
			errored = true
			o.logger.WithStage(s.name).Warn().Err(err).Msg("stage failed, trying next")
			continue
		}
		if ok {
			o.logger.WithStage(s.name).Debug().Float64("confidence", env.Confidence).Msg("stage answered")
			return env
		}
	}

	return fallbackEnvelope(errored)
}

func (o *Orchestrator) basicStage(_ context.Context, query string, _ conversation.Context, _ map[string]interface{}) (*ResponseEnvelope, bool, error) {
	env, ok := o.basic.Handle(query)
	return env, ok, nil
}

func (o *Orchestrator) generativeStage(ctx context.Context, query string, conv conversation.Context, lead map[string]interface{}) (*ResponseEnvelope, bool, error) {
	if o.generator == nil || !o.generator.Configured() {
		return nil, false, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, o.generativeTimeout)
	defer cancel()

	text, err := o.generator.Generate(callCtx, buildPrompt(query, conv, lead))
	if errors.Is(err, generative.ErrUnconfigured) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return &ResponseEnvelope{
		Response:    text,
		Confidence:  0.9,
		Sources:     []string{},
		Suggestions: GenerateSuggestions(query, ""),
		Provenance:  ProvenanceGenerative,
	}, true, nil
}

func (o *Orchestrator) vectorStage(ctx context.Context, query string, _ conversation.Context, _ map[string]interface{}) (*ResponseEnvelope, bool, error) {
	if o.vector == nil || !o.vector.Available() {
		return nil, false, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, o.retrievalTimeout)
	defer cancel()

	records, err := o.vector.Retrieve(callCtx, query)
	if errors.Is(err, vectorindex.ErrUnconfigured) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}

	return envelopeFromRecords(query, records, ProvenanceVector), true, nil
}

func (o *Orchestrator) keywordStage(_ context.Context, query string, _ conversation.Context, _ map[string]interface{}) (*ResponseEnvelope, bool, error) {
	if o.keyword == nil {
		return nil, false, nil
	}

	records := o.keyword.Retrieve(query, o.keywordLimit)
	if len(records) == 0 {
		return nil, false, nil
	}

	return envelopeFromRecords(query, records, ProvenanceKeyword), true, nil
}

// envelopeFromRecords builds a reply from the top record's stored answer.
// The remaining records contribute their IDs as secondary sources.
func envelopeFromRecords(query string, records []retrieval.ScoredRecord, provenance string) *ResponseEnvelope {
	best := records[0]

	sources := make([]string, len(records))
	for i, rec := range records {
		sources[i] = rec.Record.ID
	}

	return &ResponseEnvelope{
		Response:    best.Record.Answer,
		Confidence:  best.Relevance,
		Sources:     sources,
		Suggestions: GenerateSuggestions(query, best.Record.Question+" "+best.Record.Answer),
		Provenance:  provenance,
	}
}

const fallbackResponse = "Je n'ai pas trouvé d'information précise sur ce " +
	"sujet. Puis-je vous aider autrement, ou préférez-vous être mis en " +
	"relation avec notre équipe ?"

// fallbackEnvelope is the terminal apology: confidence 0.3 after a clean
// miss, 0.1 when any stage failed along the way.
func fallbackEnvelope(errored bool) *ResponseEnvelope {
	confidence := 0.3
	if errored {
		confidence = 0.1
	}
	return &ResponseEnvelope{
		Response:   fallbackResponse,
		Confidence: confidence,
		Sources:    []string{},
		Suggestions: []string{
			"Quel est votre rôle dans l'entreprise ?",
			"Avez-vous un budget défini pour ce projet ?",
			"Quel est votre calendrier de mise en place ?",
		},
		Provenance: ProvenanceFallback,
	}
}

const promptPersona = "Tu es l'assistant commercial de Veralis, une solution " +
	"d'automatisation de la qualification de leads. Réponds en français, de " +
	"façon concise et professionnelle, et termine par une question qualifiante."

// buildPrompt serializes the persona, conversation, lead data and query for
// the generative API.
func buildPrompt(query string, conv conversation.Context, lead map[string]interface{}) string {
	var b strings.Builder
	b.WriteString(promptPersona)
	b.WriteString("\n\n")

	if len(conv) > 0 {
		b.WriteString("Conversation:\n")
		for _, turn := range conv {
			switch turn.Role {
			case conversation.RoleUser:
				fmt.Fprintf(&b, "Visiteur: %s\n", turn.Text)
			case conversation.RoleAssistant:
				fmt.Fprintf(&b, "Assistant: %s\n", turn.Text)
			}
		}
		b.WriteString("\n")
	}

	if category, ok := lead["category"].(string); ok && category != "" {
		fmt.Fprintf(&b, "Catégorie du lead: %s\n\n", category)
	}

	fmt.Fprintf(&b, "Visiteur: %s\nAssistant:", query)
	return b.String()
}
