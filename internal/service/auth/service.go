// Package auth implements registration, login and session management.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/quillhub/quillhub-backend/internal/config"
	"github.com/quillhub/quillhub-backend/internal/domain"
)

// userRepo defines the user repository interface needed by the auth service.
type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// sessionRepo defines the session repository interface needed by the auth service.
type sessionRepo interface {
	Create(ctx context.Context, s *domain.Session) (*domain.Session, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
}

// CredentialVerifier checks a username/password pair and returns the matching
// user. Implementations must return domain.ErrUnauthorized for every failure
// mode so callers cannot distinguish a wrong password from an unknown user.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*domain.User, error)
}

// Service implements auth operations.
type Service struct {
	log      *slog.Logger
	users    userRepo
	sessions sessionRepo
	verifier CredentialVerifier
	cfg      config.AuthConfig
	now      func() time.Time
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	sessions sessionRepo,
	verifier CredentialVerifier,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "auth"),
		users:    users,
		sessions: sessions,
		verifier: verifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// newSessionToken returns a fresh opaque token and its storable hash.
// Only the hash ever touches the database.
func newSessionToken() (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate session token: %w", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, HashToken(raw), nil
}

// HashToken returns the storable hash of a raw session token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
