package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/veralis-ai/concierge-engine/internal/observability"
	"github.com/veralis-ai/concierge-engine/pkg/engine"
)

// ChatHandler serves the chat endpoint.
type ChatHandler struct {
	engine *engine.Engine
	logger *observability.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(eng *engine.Engine, logger *observability.Logger) *ChatHandler {
	return &ChatHandler{engine: eng, logger: logger}
}

type chatRequest struct {
	Query    string                 `json:"query"`
	Context  []interface{}          `json:"context"`
	LeadData map[string]interface{} `json:"lead_data"`
}

// Chat answers one visitor turn and returns the response envelope plus the
// (possibly updated) lead data.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.LeadData == nil {
		req.LeadData = make(map[string]interface{})
	}

	env := h.engine.Chat(r.Context(), req.Query, req.Context, req.LeadData)

	h.logger.WithContext(r.Context()).Info().
		Str("provenance", env.Provenance).
		Float64("confidence", env.Confidence).
		Msg("chat turn served")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"envelope":  env,
		"lead_data": req.LeadData,
	})
}
