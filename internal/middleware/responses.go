package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"luxesalon.cz/salon-web/internal/observability"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError rejects a request from middleware. htmx callers get JSON they
// can surface, everyone else plain text.
func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	observability.FromContext(r.Context()).Info("request rejected", zap.Int("status", code), zap.String("reason", msg))
	if IsHTMX(r.Context()) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		rid, _ := RequestID(r.Context())
		_ = json.NewEncoder(w).Encode(errorResponse{Error: msg, RequestID: rid})
		return
	}
	http.Error(w, msg, code)
}
