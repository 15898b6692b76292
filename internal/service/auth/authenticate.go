package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// Authenticate resolves a raw session token to the principal it belongs to.
// Unknown and expired tokens both return ErrUnauthorized; expired sessions
// are removed on sight.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Principal, error) {
	if rawToken == "" {
		return nil, domain.ErrUnauthorized
	}

	hash := HashToken(rawToken)

	session, err := s.sessions.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Authenticate get session: %w", err)
	}

	if session.Expired(s.now()) {
		if err := s.sessions.DeleteByTokenHash(ctx, hash); err != nil {
			return nil, fmt.Errorf("auth.Authenticate delete expired session: %w", err)
		}
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Authenticate get user: %w", err)
	}

	principal := domain.PrincipalOf(user)
	return &principal, nil
}
