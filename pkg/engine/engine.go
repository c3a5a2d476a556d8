// Package engine exposes the Concierge Engine's public operations: chat,
// lead qualification, knowledge search and health.
package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/veralis-ai/concierge-engine/internal/cache"
	"github.com/veralis-ai/concierge-engine/internal/config"
	"github.com/veralis-ai/concierge-engine/internal/conversation"
	"github.com/veralis-ai/concierge-engine/internal/embedding"
	"github.com/veralis-ai/concierge-engine/internal/generative"
	"github.com/veralis-ai/concierge-engine/internal/knowledge"
	"github.com/veralis-ai/concierge-engine/internal/observability"
	"github.com/veralis-ai/concierge-engine/internal/orchestrator"
	"github.com/veralis-ai/concierge-engine/internal/qualify"
	"github.com/veralis-ai/concierge-engine/internal/retrieval"
	"github.com/veralis-ai/concierge-engine/internal/vectorindex"
)

// Engine wires the response pipeline, the qualifier and the optional remote
// gateway behind one facade.
type Engine struct {
	cfg       *config.Config
	store     *knowledge.Store
	orch      *orchestrator.Orchestrator
	gateway   *orchestrator.Gateway
	qualifier *qualify.Qualifier
	cache     cache.Client
	logger    *observability.Logger
}

// Options configures an Engine. Nil collaborators are built from the config;
// tests inject mocks here.
type Options struct {
	Config    *config.Config
	Store     *knowledge.Store
	Embedder  embedding.Embedder
	Index     vectorindex.Index
	Generator generative.Generator
	Gateway   *orchestrator.Gateway
	Cache     cache.Client
	Logger    *observability.Logger
}

// New assembles an engine.
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	store := opts.Store
	if store == nil {
		store = knowledge.NewStore()
		store.AddAll(knowledge.DefaultSeed())
	}

	embedder := opts.Embedder
	if embedder == nil {
		embedder = embedding.NewClient(embedding.Options{
			BaseURL: cfg.Embedding.BaseURL,
			APIKey:  cfg.Embedding.APIKey,
			Model:   cfg.Embedding.Model,
			Timeout: cfg.Embedding.Timeout,
		})
	}

	index := opts.Index
	if index == nil {
		index = vectorindex.NewHTTPAdapter(vectorindex.HTTPOptions{
			BaseURL:    cfg.Vector.URL,
			APIKey:     cfg.Vector.APIKey,
			Collection: cfg.Vector.Collection,
			Timeout:    cfg.Vector.Timeout,
		})
	}

	generator := opts.Generator
	if generator == nil {
		generator = generative.NewClient(generative.Options{
			BaseURL:     cfg.Generative.BaseURL,
			APIKey:      cfg.Generative.APIKey,
			Model:       cfg.Generative.Model,
			MaxTokens:   cfg.Generative.MaxTokens,
			Temperature: cfg.Generative.Temperature,
			Timeout:     cfg.Generative.Timeout,
		})
	}

	cacheClient := opts.Cache
	if cacheClient == nil {
		cacheClient = cache.NewMemoryClient(cfg.Cache.MaxEntries)
	}

	gateway := opts.Gateway
	if gateway == nil {
		gateway = orchestrator.NewGateway(orchestrator.GatewayOptions{
			URL:           cfg.Gateway.URL,
			ChatTimeout:   cfg.Gateway.ChatTimeout,
			HealthTimeout: cfg.Gateway.HealthTimeout,
			Cache:         cacheClient,
			Logger:        logger,
		})
	}

	orch := orchestrator.New(orchestrator.Options{
		Generator:         generator,
		Vector:            retrieval.NewVectorRetriever(embedder, index, cfg.Vector.TopK, logger),
		Keyword:           retrieval.NewKeywordRetriever(store, logger),
		GenerativeTimeout: cfg.Generative.Timeout,
		RetrievalTimeout:  cfg.Vector.Timeout,
		KeywordLimit:      cfg.Vector.TopK,
		Logger:            logger,
	})

	return &Engine{
		cfg:       cfg,
		store:     store,
		orch:      orch,
		gateway:   gateway,
		qualifier: qualify.NewQualifier(),
		cache:     cacheClient,
		logger:    logger,
	}
}

// Store returns the underlying knowledge store.
func (e *Engine) Store() *knowledge.Store {
	return e.store
}

// Chat answers one visitor turn. When the remote gateway is configured and
// healthy it handles the whole turn, qualification included; otherwise the
// local pipeline responds. Remote and local results are never mixed.
func (e *Engine) Chat(ctx context.Context, query string, rawContext []interface{}, lead map[string]interface{}) *orchestrator.ResponseEnvelope {
	conv := conversation.Normalize(rawContext)
	log := e.logger.WithContext(ctx)

	if e.gateway.Configured() && e.gateway.Healthy(ctx) {
		result, err := e.gateway.Chat(ctx, query, conv, lead)
		if err == nil {
			if lead != nil {
				for k, v := range result.LeadQualification {
					lead[k] = v
				}
				lead["last_qualified_at"] = time.Now()
			}
			log.Debug().Msg("gateway handled turn")
			return result.Envelope()
		}
		log.Warn().Err(err).Msg("gateway failed, using local pipeline")
	}

	env := e.orch.Respond(ctx, query, conv, lead)

	// The envelope carries the qualification insights for the turn so the
	// widget can show them without a second call.
	full := append(conv, conversation.Turn{Role: conversation.RoleUser, Text: query})
	if insights := e.qualifier.Qualify(full).Insights; len(insights) > 0 {
		env.Insights = insights
	}
	return env
}

// QualifyLead scores the conversation and merges the result into the lead.
func (e *Engine) QualifyLead(_ context.Context, rawContext []interface{}, lead map[string]interface{}) qualify.Qualification {
	conv := conversation.Normalize(rawContext)
	q := e.qualifier.Qualify(conv)
	qualify.UpdateLeadData(lead, q, e.cfg.Qualification.ScoreScale)
	return q
}

// SearchKnowledge returns up to limit records matching the query's
// keywords. A non-positive limit defaults to 3, anything above 20 is capped
// at 20. Results are cached; search is read-only so staleness is bounded by
// the cache TTL.
func (e *Engine) SearchKnowledge(ctx context.Context, query string, limit int) []knowledge.Record {
	if limit <= 0 {
		limit = 3
	}
	if limit > 20 {
		limit = 20
	}

	key := cache.SearchKey(query, limit)
	if cached, ok, _ := e.cache.Get(ctx, key); ok {
		var records []knowledge.Record
		if err := json.Unmarshal([]byte(cached), &records); err == nil {
			return records
		}
	}

	keywords := retrieval.ExtractKeywords(query)
	records := e.store.Search(keywords, limit)

	if data, err := json.Marshal(records); err == nil {
		_ = e.cache.Set(ctx, key, string(data), e.cfg.Cache.TTL)
	}
	return records
}

// HealthStatus is the health() payload.
type HealthStatus struct {
	Healthy    bool            `json:"healthy"`
	Components map[string]bool `json:"components,omitempty"`
}

// Health reports engine health. The local pipeline is always available; the
// gateway component reflects its probe when one is configured.
func (e *Engine) Health(ctx context.Context) HealthStatus {
	components := map[string]bool{
		"knowledge_store": e.store.Count() > 0,
	}
	if e.gateway.Configured() {
		components["gateway"] = e.gateway.Healthy(ctx)
	}
	return HealthStatus{Healthy: true, Components: components}
}
