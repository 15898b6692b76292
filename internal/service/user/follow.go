package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// Follow records that the actor follows the given user. Following yourself
// is rejected; following someone twice is a no-op.
func (s *Service) Follow(ctx context.Context, actorID, followeeID int64) error {
	if actorID == followeeID {
		return domain.NewValidationError("user_id", "cannot follow yourself")
	}

	if _, err := s.users.GetByID(ctx, followeeID); err != nil {
		return fmt.Errorf("user.Follow get followee: %w", err)
	}

	if err := s.follows.Create(ctx, actorID, followeeID); err != nil {
		return fmt.Errorf("user.Follow: %w", err)
	}

	s.log.InfoContext(ctx, "follow created",
		slog.Int64("follower_id", actorID),
		slog.Int64("followee_id", followeeID))

	return nil
}

// Unfollow removes a follow edge. Unfollowing someone you do not follow
// succeeds.
func (s *Service) Unfollow(ctx context.Context, actorID, followeeID int64) error {
	if err := s.follows.Delete(ctx, actorID, followeeID); err != nil {
		return fmt.Errorf("user.Unfollow: %w", err)
	}
	return nil
}

// Followers returns the users following the given user.
func (s *Service) Followers(ctx context.Context, userID int64) ([]domain.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("user.Followers get user: %w", err)
	}

	followers, err := s.follows.Followers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user.Followers: %w", err)
	}
	return followers, nil
}

// Following returns the users the given user follows.
func (s *Service) Following(ctx context.Context, userID int64) ([]domain.User, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("user.Following get user: %w", err)
	}

	following, err := s.follows.Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user.Following: %w", err)
	}
	return following, nil
}
