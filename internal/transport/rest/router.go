package rest

import (
	"net/http"

	"github.com/quillhub/quillhub-backend/internal/transport/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Post     *PostHandler
	Comment  *CommentHandler
	Category *CategoryHandler
	Tag      *TagHandler
	Generate *GenerateHandler
	Health   *HealthHandler
}

// NewRouter wires all routes onto a ServeMux. Mutating routes go through
// RequireAuth; reads stay public.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	protected := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(fn)
	}

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.Handle("GET /api/auth/me", protected(h.Auth.Me))

	// Users and the follower graph
	mux.HandleFunc("GET /api/users", h.User.List)
	mux.HandleFunc("GET /api/users/{id}", h.User.Get)
	mux.Handle("PUT /api/users/{id}", protected(h.User.Update))
	mux.Handle("DELETE /api/users/{id}", protected(h.User.Delete))
	mux.Handle("POST /api/users/{id}/follow", protected(h.User.Follow))
	mux.Handle("DELETE /api/users/{id}/follow", protected(h.User.Unfollow))
	mux.HandleFunc("GET /api/users/{id}/followers", h.User.Followers)
	mux.HandleFunc("GET /api/users/{id}/following", h.User.Following)

	// Posts, votes, nested comments
	mux.HandleFunc("GET /api/posts", h.Post.List)
	mux.HandleFunc("GET /api/posts/{id}", h.Post.Get)
	mux.Handle("POST /api/posts", protected(h.Post.Create))
	mux.Handle("PUT /api/posts/{id}", protected(h.Post.Update))
	mux.Handle("DELETE /api/posts/{id}", protected(h.Post.Delete))
	mux.Handle("POST /api/posts/{id}/vote", protected(h.Post.Vote))
	mux.Handle("DELETE /api/posts/{id}/vote", protected(h.Post.Unvote))
	mux.HandleFunc("GET /api/posts/{id}/comments", h.Post.ListComments)
	mux.Handle("POST /api/posts/{id}/comments", protected(h.Post.CreateComment))

	// Top-level comment editing
	mux.Handle("PUT /api/comments/{id}", protected(h.Comment.Update))
	mux.Handle("DELETE /api/comments/{id}", protected(h.Comment.Delete))

	// Categories
	mux.HandleFunc("GET /api/categories", h.Category.List)
	mux.HandleFunc("GET /api/categories/{id}", h.Category.Get)
	mux.Handle("POST /api/categories", protected(h.Category.Create))
	mux.Handle("PUT /api/categories/{id}", protected(h.Category.Update))
	mux.Handle("DELETE /api/categories/{id}", protected(h.Category.Delete))

	// Tags
	mux.HandleFunc("GET /api/tags", h.Tag.List)
	mux.HandleFunc("GET /api/tags/{id}", h.Tag.Get)
	mux.Handle("POST /api/tags", protected(h.Tag.Create))
	mux.Handle("PUT /api/tags/{id}", protected(h.Tag.Update))
	mux.Handle("DELETE /api/tags/{id}", protected(h.Tag.Delete))

	// Generation proxy
	mux.Handle("POST /api/generate", protected(h.Generate.Generate))

	// Health probes
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	return mux
}
