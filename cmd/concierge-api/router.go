// Package main provides the Concierge API server.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/veralis-ai/concierge-engine/cmd/concierge-api/handlers"
	"github.com/veralis-ai/concierge-engine/cmd/concierge-api/middleware"
	"github.com/veralis-ai/concierge-engine/internal/config"
	"github.com/veralis-ai/concierge-engine/internal/observability"
	"github.com/veralis-ai/concierge-engine/pkg/engine"
)

// NewRouter creates the API router with all routes configured.
func NewRouter(eng *engine.Engine, logger *observability.Logger, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(middleware.Session)
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"healthy":true,"service":"concierge-engine"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		status := eng.Health(req.Context())
		w.Header().Set("Content-Type", "application/json")
		if !status.Healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		w.Write([]byte(`{"status":"ready"}`))
	})

	chatHandler := handlers.NewChatHandler(eng, logger)
	qualifyHandler := handlers.NewQualifyHandler(eng, logger)
	knowledgeHandler := handlers.NewKnowledgeHandler(eng, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)
		r.Post("/leads/qualify", qualifyHandler.Qualify)
		r.Get("/knowledge/search", knowledgeHandler.Search)
	})

	return r
}
