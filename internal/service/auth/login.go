package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// LoginResult carries the authenticated user and the raw session token to be
// set as a cookie. The raw token is never persisted.
type LoginResult struct {
	User  *domain.User
	Token string
}

// Login authenticates a user and opens a new session.
// Every credential failure is ErrUnauthorized, nothing more specific.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)

	user, err := s.verifier.Verify(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Login verify credentials: %w", err)
	}

	raw, hash, err := newSessionToken()
	if err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}

	if _, err := s.sessions.Create(ctx, &domain.Session{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(s.cfg.SessionTTL),
	}); err != nil {
		return nil, fmt.Errorf("auth.Login store session: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))

	return &LoginResult{User: user, Token: raw}, nil
}

// Logout closes the session identified by the raw token. Logging out an
// already closed session succeeds.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	if err := s.sessions.DeleteByTokenHash(ctx, HashToken(rawToken)); err != nil {
		return fmt.Errorf("auth.Logout delete session: %w", err)
	}
	return nil
}
