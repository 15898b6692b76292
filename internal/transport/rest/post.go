package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/quillhub/quillhub-backend/internal/domain"
	"github.com/quillhub/quillhub-backend/internal/service/post"
	"github.com/quillhub/quillhub-backend/internal/validate"
	"github.com/quillhub/quillhub-backend/pkg/ctxutil"
)

// postService defines the minimal interface needed by PostHandler.
type postService interface {
	Get(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	Create(ctx context.Context, authorID int64, input post.CreateInput) (*domain.Post, error)
	Update(ctx context.Context, actorID, id int64, input post.UpdateInput) (*domain.Post, error)
	Delete(ctx context.Context, actorID, id int64) error
	Vote(ctx context.Context, actorID, postID int64, value int) (int, error)
	Unvote(ctx context.Context, actorID, postID int64) (int, error)
}

// commentService is the slice of the comment service PostHandler needs for
// the nested comment routes.
type commentService interface {
	ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error)
	Create(ctx context.Context, authorID, postID int64, content string) (*domain.Comment, error)
}

// PostHandler serves post, vote and nested comment REST endpoints.
type PostHandler struct {
	service  postService
	comments commentService
	log      *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(svc postService, comments commentService, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		service:  svc,
		comments: comments,
		log:      logger.With("handler", "post"),
	}
}

// List handles GET /api/posts with optional authorId, categoryId, tagId,
// published, limit and offset query filters.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := postFilterFromQuery(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	posts, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toPostResponses(posts))
}

// Get handles GET /api/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID("id", r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toPostResponse(p))
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := ctxutil.PrincipalFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.", authRequiredReason)
		return
	}

	body, err := decodeBody(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result := postSchema.Validate(body)
	if !result.OK {
		handleError(h.log, w, r, result.Err())
		return
	}

	tags, err := stringSlice(body, "tags")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	created, err := h.service.Create(r.Context(), principal.ID, post.CreateInput{
		Title:      result.Value.String("title"),
		Content:    result.Value.String("content"),
		CategoryID: result.Value.OptInt("categoryId"),
		Tags:       tags,
		Published:  result.Value.Bool("published"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toPostResponse(created))
}

// Update handles PUT /api/posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	result := postUpdateSchema.Validate(body)
	if !result.OK {
		handleError(h.log, w, r, result.Err())
		return
	}

	input := post.UpdateInput{
		Title:      result.Value.OptString("title"),
		Content:    result.Value.OptString("content"),
		CategoryID: result.Value.OptInt("categoryId"),
		Published:  result.Value.OptBool("published"),
	}
	if _, present := body["tags"]; present {
		tags, err := stringSlice(body, "tags")
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		input.Tags = tags
		input.HasTags = true
	}

	updated, err := h.service.Update(r.Context(), principal.ID, id, input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toPostResponse(updated))
}

// Delete handles DELETE /api/posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	writeMessage(w, http.StatusOK, "Post deleted.")
}

// Vote handles POST /api/posts/{id}/vote.
func (h *PostHandler) Vote(w http.ResponseWriter, r *http.Request) {
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

	result := voteSchema.Validate(body)
	if !result.OK {
		handleError(h.log, w, r, result.Err())
		return
	}

	score, err := h.service.Vote(r.Context(), principal.ID, id, int(result.Value.Int("value")))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int{"votes": score})
}

// Unvote handles DELETE /api/posts/{id}/vote.
func (h *PostHandler) Unvote(w http.ResponseWriter, r *http.Request) {
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

	score, err := h.service.Unvote(r.Context(), principal.ID, id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int{"votes": score})
}

// ListComments handles GET /api/posts/{id}/comments.
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := validate.ParseID("id", r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	comments, err := h.comments.ListByPost(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusOK, toCommentResponses(comments))
}

// CreateComment handles POST /api/posts/{id}/comments.
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
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

	comment, err := h.comments.Create(r.Context(), principal.ID, id, result.Value.String("content"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeData(w, http.StatusCreated, toCommentResponse(comment))
}

// postFilterFromQuery parses the list filters out of the query string.
func postFilterFromQuery(r *http.Request) (domain.PostFilter, error) {
	var filter domain.PostFilter
	q := r.URL.Query()

	if err := queryID(q.Get("authorId"), "authorId", &filter.AuthorID); err != nil {
		return domain.PostFilter{}, err
	}
	if err := queryID(q.Get("categoryId"), "categoryId", &filter.CategoryID); err != nil {
		return domain.PostFilter{}, err
	}
	if err := queryID(q.Get("tagId"), "tagId", &filter.TagID); err != nil {
		return domain.PostFilter{}, err
	}

	if err := queryCount(q.Get("limit"), "limit", &filter.Limit); err != nil {
		return domain.PostFilter{}, err
	}
	if err := queryCount(q.Get("offset"), "offset", &filter.Offset); err != nil {
		return domain.PostFilter{}, err
	}

	if raw := q.Get("published"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.PostFilter{}, domain.NewValidationError("published", "must be a boolean")
		}
		filter.PublishedOnly = b
	}

	return filter, nil
}

func queryID(raw, name string, dst *int64) error {
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return domain.NewValidationError(name, "must be a positive integer")
	}
	*dst = n
	return nil
}

func queryCount(raw, name string, dst *int) error {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return domain.NewValidationError(name, "must be a non-negative integer")
	}
	*dst = n
	return nil
}

// stringSlice reads an optional array-of-strings field out of the raw body.
func stringSlice(body map[string]any, name string) ([]string, error) {
	raw, ok := body[name]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, domain.NewValidationError(name, "must be an array of strings")
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("%s[%d]", name, i), "must be a string")
		}
		out = append(out, s)
	}
	return out, nil
}
