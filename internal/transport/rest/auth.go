package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/quillhub/quillhub-backend/internal/config"
	"github.com/quillhub/quillhub-backend/internal/domain"
	"github.com/quillhub/quillhub-backend/internal/service/auth"
	"github.com/quillhub/quillhub-backend/pkg/ctxutil"
)

// authService defines the minimal interface needed by AuthHandler.
type authService interface {
	Register(ctx context.Context, input auth.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*auth.LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
}

// AuthHandler serves auth REST endpoints.
type AuthHandler struct {
	service authService
	cfg     config.AuthConfig
	log     *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, cfg config.AuthConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		cfg:     cfg,
		log:     logger.With("handler", "auth"),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result := registerSchema.Validate(body)
	if !result.OK {
		handleError(h.log, w, r, result.Err())
		return
	}

	user, err := h.service.Register(r.Context(), auth.RegisterInput{
		Username: result.Value.String("username"),
		Email:    result.Value.String("email"),
		Password: result.Value.String("password"),
		Bio:      result.Value.OptString("bio"),
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			writeError(w, http.StatusConflict, "Username or email is already taken.")
			return
		}
		handleError(h.log, w, r, err)
		return
	}

	writeData(w, http.StatusCreated, toUserResponse(user))
}

// Login handles POST /api/auth/login. A successful login sets the session
// cookie; every failure answers with the same fixed reason.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result := loginSchema.Validate(body)
	if !result.OK {
		handleError(h.log, w, r, result.Err())
		return
	}

	login, err := h.service.Login(r.Context(), result.Value.String("username"), result.Value.String("password"))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, loginFailedReason, loginFailedReason)
			return
		}
		handleError(h.log, w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(login.Token, int(h.cfg.SessionTTL.Seconds())))
	writeData(w, http.StatusOK, toUserResponse(login.User))
}

// Logout handles POST /api/auth/logout. Idempotent: logging out without a
// session succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(h.cfg.SessionCookie); err == nil {
		token = cookie.Value
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie("", -1))
	writeMessage(w, http.StatusOK, "Logged out.")
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := ctxutil.PrincipalFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.", authRequiredReason)
		return
	}
	writeData(w, http.StatusOK, toPrincipalResponse(principal))
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cfg.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
