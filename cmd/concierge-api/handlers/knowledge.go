package handlers

import (
	"net/http"
	"strconv"

	"github.com/veralis-ai/concierge-engine/internal/knowledge"
	"github.com/veralis-ai/concierge-engine/internal/observability"
	"github.com/veralis-ai/concierge-engine/pkg/engine"
)

// KnowledgeHandler serves knowledge-search requests.
type KnowledgeHandler struct {
	engine *engine.Engine
	logger *observability.Logger
}

// NewKnowledgeHandler creates a knowledge handler.
func NewKnowledgeHandler(eng *engine.Engine, logger *observability.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{engine: eng, logger: logger}
}

// Search returns knowledge records matching the q parameter, capped by
// limit (default 3).
func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	limit := 3
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records := h.engine.SearchKnowledge(r.Context(), query, limit)
	if records == nil {
		records = []knowledge.Record{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}
