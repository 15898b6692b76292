package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/quillhub/quillhub-backend/pkg/ctxutil"
)

// RequestID tags every request with an id for log correlation. An incoming
// X-Request-Id is trusted and reused; otherwise a fresh UUID is minted. The
// id lands in the request context and is echoed back in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		ctx := ctxutil.WithRequestID(r.Context(), id)
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
