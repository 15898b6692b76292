package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/quillhub/quillhub-backend/pkg/ctxutil"
)

// generateService defines the minimal interface needed by GenerateHandler.
type generateService interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerateHandler serves the AI generation proxy endpoint.
type GenerateHandler struct {
	service generateService
	log     *slog.Logger
}

// NewGenerateHandler creates a GenerateHandler.
func NewGenerateHandler(svc generateService, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{service: svc, log: logger.With("handler", "generate")}
}

// Generate handles POST /api/generate.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.PrincipalFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.", authRequiredReason)
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result := generateSchema.Validate(body)
	if !result.OK {
		handleError(h.log, w, r, result.Err())
		return
	}

	text, err := h.service.Generate(r.Context(), result.Value.String("prompt"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"text": text})
}
