package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// RegisterInput carries the fields of a registration request. Constraint
// checks happen at the transport layer; the service only normalizes.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Bio      *string
}

// Register creates a new user account.
// Returns ErrAlreadyExists if the username or email is already taken.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("auth.Register hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Bio:          input.Bio,
	})
	if err != nil {
		return nil, fmt.Errorf("auth.Register create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))

	return user, nil
}
