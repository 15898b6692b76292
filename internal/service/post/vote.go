package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// Vote records the actor's vote on a post, replacing any previous vote.
// Returns the post's new score.
func (s *Service) Vote(ctx context.Context, actorID, postID int64, value int) (int, error) {
	if value != domain.VoteUp && value != domain.VoteDown {
		return 0, domain.NewValidationError("value", "must be 1 or -1")
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return 0, fmt.Errorf("post.Vote get post: %w", err)
	}

	if _, err := s.votes.Upsert(ctx, &domain.Vote{
		UserID: actorID,
		PostID: postID,
		Value:  value,
	}); err != nil {
		return 0, fmt.Errorf("post.Vote: %w", err)
	}

	score, err := s.votes.SumByPost(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("post.Vote sum: %w", err)
	}

	s.log.InfoContext(ctx, "vote recorded",
		slog.Int64("post_id", postID),
		slog.Int("value", int(value)))

	return score, nil
}

// Unvote removes the actor's vote on a post and returns the new score.
// Removing an absent vote succeeds.
func (s *Service) Unvote(ctx context.Context, actorID, postID int64) (int, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return 0, fmt.Errorf("post.Unvote get post: %w", err)
	}

	if err := s.votes.Delete(ctx, actorID, postID); err != nil {
		return 0, fmt.Errorf("post.Unvote: %w", err)
	}

	score, err := s.votes.SumByPost(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("post.Unvote sum: %w", err)
	}
	return score, nil
}
