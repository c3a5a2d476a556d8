package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/veralis-ai/concierge-engine/internal/observability"
)

// SessionHeader carries the chat session identifier between the widget and
// the API.
const SessionHeader = "X-Session-ID"

// Session propagates the session ID into the request context so every log
// line of the turn carries it. A missing header gets a fresh ID, echoed back
// in the response.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		w.Header().Set(SessionHeader, sessionID)
		ctx := observability.ContextWithSessionID(r.Context(), sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
