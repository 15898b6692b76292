package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/quillhub/quillhub-backend/internal/domain"
	"github.com/quillhub/quillhub-backend/internal/validate"
	"github.com/quillhub/quillhub-backend/pkg/ctxutil"
)

// commentEditService is the slice of the comment service CommentHandler
// needs for the top-level comment routes.
type commentEditService interface {
	Update(ctx context.Context, actorID, id int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, actorID, id int64) error
}

// CommentHandler serves the top-level comment REST endpoints. Listing and
// creating comments lives on PostHandler under the post routes.
type CommentHandler struct {
	service commentEditService
	log     *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(svc commentEditService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{service: svc, log: logger.With("handler", "comment")}
}

// Update handles PUT /api/comments/{id}.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := ctxutil.PrincipalFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.", authRequiredReason)
		return
	}

	id, err := validate.ParseID("id", r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result := commentSchema.Validate(body)
	if !result.OK {
		handleError(h.log, w, r, result.Err())
		return
	}

	comment, err := h.service.Update(r.Context(), principal.ID, id, result.Value.String("content"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toCommentResponse(comment))
}

// Delete handles DELETE /api/comments/{id}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := ctxutil.PrincipalFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.", authRequiredReason)
		return
	}

	id, err := validate.ParseID("id", r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), principal.ID, id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Comment deleted.")
}
