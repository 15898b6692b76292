package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// PasswordVerifier checks credentials against bcrypt hashes stored with the
// user record. It is the default CredentialVerifier implementation.
type PasswordVerifier struct {
	users userRepo
}

// NewPasswordVerifier creates a PasswordVerifier backed by the user repository.
func NewPasswordVerifier(users userRepo) *PasswordVerifier {
	return &PasswordVerifier{users: users}
}

// Verify looks up the user and compares the password. Unknown username and
// wrong password both come back as ErrUnauthorized.
func (v *PasswordVerifier) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := v.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Verify get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
