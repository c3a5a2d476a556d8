package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/veralis-ai/concierge-engine/internal/observability"
	"github.com/veralis-ai/concierge-engine/pkg/engine"
)

// QualifyHandler serves the lead-qualification endpoint.
type QualifyHandler struct {
	engine *engine.Engine
	logger *observability.Logger
}

// NewQualifyHandler creates a qualify handler.
func NewQualifyHandler(eng *engine.Engine, logger *observability.Logger) *QualifyHandler {
	return &QualifyHandler{engine: eng, logger: logger}
}

type qualifyRequest struct {
	Context  []interface{}          `json:"context"`
	LeadData map[string]interface{} `json:"lead_data"`
}

// Qualify scores the conversation and returns the qualification plus the
// merged lead data. Missing conversation data yields low scores, never an
// error.
func (h *QualifyHandler) Qualify(w http.ResponseWriter, r *http.Request) {
	var req qualifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.LeadData == nil {
		req.LeadData = make(map[string]interface{})
	}

	q := h.engine.QualifyLead(r.Context(), req.Context, req.LeadData)

	h.logger.WithContext(r.Context()).Info().
		Str("category", q.Category).
		Float64("overall_score", q.OverallScore).
		Msg("lead qualified")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"qualification": q,
		"lead_data":     req.LeadData,
	})
}
