package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/quillhub/quillhub-backend/internal/domain"
	"github.com/quillhub/quillhub-backend/internal/validate"
	"github.com/quillhub/quillhub-backend/pkg/ctxutil"
)

// userService defines the minimal interface needed by UserHandler.
type userService interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, actorID, id int64, email, bio *string) (*domain.User, error)
	Delete(ctx context.Context, actorID, id int64) error
	Follow(ctx context.Context, actorID, followeeID int64) error
	Unfollow(ctx context.Context, actorID, followeeID int64) error
	Followers(ctx context.Context, userID int64) ([]domain.User, error)
	Following(ctx context.Context, userID int64) ([]domain.User, error)
}

// UserHandler serves user and follower-graph REST endpoints.
type UserHandler struct {
	service userService
	log     *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc userService, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: svc, log: logger.With("handler", "user")}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toUserResponses(users))
}

// Get handles GET /api/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID("id", r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toUserResponse(user))
}

// Update handles PUT /api/users/{id}. Only the account owner may update.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	result := userUpdateSchema.Validate(body)
	if !result.OK {
		handleError(h.log, w, r, result.Err())
		return
	}

	user, err := h.service.Update(r.Context(), principal.ID, id,
		result.Value.OptString("email"), result.Value.OptString("bio"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toUserResponse(user))
}

// Delete handles DELETE /api/users/{id}. Only the account owner may delete.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	writeMessage(w, http.StatusOK, "Account deleted.")
}

// Follow handles POST /api/users/{id}/follow.
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Follow(r.Context(), principal.ID, id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Followed.")
}

// Unfollow handles DELETE /api/users/{id}/follow.
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Unfollow(r.Context(), principal.ID, id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Unfollowed.")
}

// Followers handles GET /api/users/{id}/followers.
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID("id", r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	users, err := h.service.Followers(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toUserResponses(users))
}

// Following handles GET /api/users/{id}/following.
func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID("id", r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	users, err := h.service.Following(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toUserResponses(users))
}
