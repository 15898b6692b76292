package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quillhub/quillhub-backend/internal/domain"
	"github.com/quillhub/quillhub-backend/pkg/ctxutil"
)

// authenticator resolves a raw session token to a principal.
type authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (*domain.Principal, error)
}

// Session resolves the session cookie to a principal and stores it in the
// request context. Requests without a cookie, and requests carrying a stale
// or unknown cookie, proceed anonymously; public endpoints stay reachable
// after a session expires.
func Session(auth authenticator, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				next.ServeHTTP(w, r) // Anonymous
				return
			}

			principal, err := auth.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					next.ServeHTTP(w, r) // Anonymous
					return
				}
				writeFailure(w, http.StatusInternalServerError, "Internal server error.")
				return
			}

			ctx := ctxutil.WithPrincipal(r.Context(), *principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with a 401 envelope before the
// handler runs.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.PrincipalFromCtx(r.Context()); !ok {
			writeFailure(w, http.StatusUnauthorized, "Unauthorized.", "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeFailure emits the same failure envelope the handlers use, without
// depending on the rest package.
func writeFailure(w http.ResponseWriter, status int, summary string, details ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{
		"success": false,
		"error":   summary,
	}
	if len(details) > 0 {
		body["errors"] = details
	}
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}
