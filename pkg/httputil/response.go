// Package httputil holds small JSON response helpers shared by handlers.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/portiq/assist-go/internal/logger"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondJSON writes a JSON response with the given status code and payload.
func RespondJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Header already written; nothing left to do but log.
		logger.L.Error("encoding JSON response failed", "error", err)
	}
}

// RespondError writes a JSON error response with the given status code.
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, ErrorResponse{Error: message})
}
