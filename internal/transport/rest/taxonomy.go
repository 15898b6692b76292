package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/quillhub/quillhub-backend/internal/domain"
	"github.com/quillhub/quillhub-backend/internal/validate"
	"github.com/quillhub/quillhub-backend/pkg/ctxutil"
)

// taxonomyService defines the taxonomy service interface needed by the
// category and tag handlers.
type taxonomyService interface {
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string, description *string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, name, description *string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	CreateTag(ctx context.Context, name string) (*domain.Tag, error)
	UpdateTag(ctx context.Context, id int64, name string) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
}

// CategoryHandler serves category REST endpoints.
type CategoryHandler struct {
	service taxonomyService
	log     *slog.Logger
}

// NewCategoryHandler creates a CategoryHandler.
func NewCategoryHandler(svc taxonomyService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{service: svc, log: logger.With("handler", "category")}
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toCategoryResponses(categories))
}

// Get handles GET /api/categories/{id}.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID("id", r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	category, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toCategoryResponse(category))
}

// Create handles POST /api/categories. A duplicate name answers 409 with the
// offending name in the message.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.PrincipalFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.", authRequiredReason)
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result := categorySchema.Validate(body)
	if !result.OK {
		handleError(h.log, w, r, result.Err())
		return
	}

	name := result.Value.String("name")
	category, err := h.service.CreateCategory(r.Context(), name, result.Value.OptString("description"))
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, fmt.Sprintf("Category %q already exists.", name))
			return
		}
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toCategoryResponse(category))
}

// Update handles PUT /api/categories/{id}.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.PrincipalFromCtx(r.Context()); !ok {
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

	result := categoryUpdateSchema.Validate(body)
	if !result.OK {
		handleError(h.log, w, r, result.Err())
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), id,
		result.Value.OptString("name"), result.Value.OptString("description"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toCategoryResponse(category))
}

// Delete handles DELETE /api/categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.PrincipalFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.", authRequiredReason)
		return
	}

	id, err := validate.ParseID("id", r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Category deleted.")
}

// TagHandler serves tag REST endpoints.
type TagHandler struct {
	service taxonomyService
	log     *slog.Logger
}

// NewTagHandler creates a TagHandler.
func NewTagHandler(svc taxonomyService, logger *slog.Logger) *TagHandler {
	return &TagHandler{service: svc, log: logger.With("handler", "tag")}
}

// List handles GET /api/tags.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toTagResponses(tags))
}

// Get handles GET /api/tags/{id}.
func (h *TagHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID("id", r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	tag, err := h.service.GetTag(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, tagResponse{ID: tag.ID, Name: tag.Name})
}

// Create handles POST /api/tags.
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.PrincipalFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.", authRequiredReason)
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result := tagSchema.Validate(body)
	if !result.OK {
		handleError(h.log, w, r, result.Err())
		return
	}

	name := result.Value.String("name")
	tag, err := h.service.CreateTag(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, fmt.Sprintf("Tag %q already exists.", name))
			return
		}
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusCreated, tagResponse{ID: tag.ID, Name: tag.Name})
}

// Update handles PUT /api/tags/{id}.
func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.PrincipalFromCtx(r.Context()); !ok {
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

	result := tagSchema.Validate(body)
	if !result.OK {
		handleError(h.log, w, r, result.Err())
		return
	}

	tag, err := h.service.UpdateTag(r.Context(), id, result.Value.String("name"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, tagResponse{ID: tag.ID, Name: tag.Name})
}

// Delete handles DELETE /api/tags/{id}.
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.PrincipalFromCtx(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.", authRequiredReason)
		return
	}

	id, err := validate.ParseID("id", r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.service.DeleteTag(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Tag deleted.")
}
