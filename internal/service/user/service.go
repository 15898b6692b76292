// Package user implements user profiles and the follower graph.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// userRepo defines the user repository interface needed by the user service.
type userRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, email, bio *string) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// followRepo defines the follow repository interface needed by the user service.
type followRepo interface {
	Create(ctx context.Context, followerID, followeeID int64) error
	Delete(ctx context.Context, followerID, followeeID int64) error
	Followers(ctx context.Context, userID int64) ([]domain.User, error)
	Following(ctx context.Context, userID int64) ([]domain.User, error)
}

// moderator screens text before it is persisted.
type moderator interface {
	Check(ctx context.Context, text string) error
}

// Service implements user operations.
type Service struct {
	log     *slog.Logger
	users   userRepo
	follows followRepo
	mod     moderator
}

// NewService creates a new user service instance.
func NewService(logger *slog.Logger, users userRepo, follows followRepo, mod moderator) *Service {
	return &Service{
		log:     logger.With("service", "user"),
		users:   users,
		follows: follows,
		mod:     mod,
	}
}

// Get returns a user by ID.
func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user.Get: %w", err)
	}
	return user, nil
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("user.List: %w", err)
	}
	return users, nil
}

// Update modifies a user's own profile. Bio goes through moderation.
func (s *Service) Update(ctx context.Context, actorID, id int64, email, bio *string) (*domain.User, error) {
	if actorID != id {
		return nil, domain.ErrForbidden
	}

	if bio != nil {
		if err := s.mod.Check(ctx, *bio); err != nil {
			return nil, err
		}
	}

	updated, err := s.users.Update(ctx, id, email, bio)
	if err != nil {
		return nil, fmt.Errorf("user.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a user's own account. Posts, comments, votes, sessions and
// follow edges cascade.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if actorID != id {
		return domain.ErrForbidden
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("user.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "user deleted", slog.Int64("user_id", id))
	return nil
}
