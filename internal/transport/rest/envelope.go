// Package rest implements the HTTP handlers and the uniform response
// envelope every endpoint answers with.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// Fixed user-facing failure reasons. The login reason is deliberately the
// same for an unknown username and a wrong password.
const (
	authRequiredReason = "Authentication required."
	loginFailedReason  = "Incorrect username or password."
	moderationReason   = "Content was rejected by moderation."
)

// Envelope is the uniform response shape of every endpoint.
// Invariant: success implies no error fields; failure implies no data.
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeData writes a success envelope carrying data.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// writeMessage writes a success envelope carrying only a message.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: true, Message: message})
}

// writeError writes a failure envelope. The summary goes into error; the
// optional details list goes into errors.
func writeError(w http.ResponseWriter, status int, summary string, details ...string) {
	writeJSON(w, status, Envelope{Success: false, Error: summary, Errors: details})
}

// handleError maps a service error to the envelope and status the frontend
// contract fixes for it. Infrastructure failures expose the underlying
// message: debuggability over hiding internals.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var modErr *domain.ModerationError
	var valErr *domain.ValidationError

	switch {
	case errors.As(err, &modErr):
		details := []string{moderationReason}
		if len(modErr.Words) > 0 {
			details = append(details, "Please remove the following words: "+strings.Join(modErr.Words, ", "))
		}
		writeError(w, http.StatusBadRequest, moderationReason, details...)
	case errors.As(err, &valErr):
		details := make([]string, 0, len(valErr.Errors))
		for _, fe := range valErr.Errors {
			details = append(details, fe.Field+": "+fe.Message)
		}
		writeError(w, http.StatusBadRequest, "Validation failed.", details...)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "Validation failed.")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Unauthorized.", authRequiredReason)
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found.")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "Already exists.")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "Internal server error.", err.Error())
	}
}

// decodeBody parses a JSON object body. The raw map goes through a schema
// before any handler reads from it.
func decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, domain.NewValidationError("body", "must be a JSON object")
	}
	return body, nil
}
