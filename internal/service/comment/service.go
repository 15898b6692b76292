// Package comment implements comment operations on posts.
package comment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// commentRepo defines the comment repository interface needed by the service.
type commentRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error)
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	Update(ctx context.Context, id int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}

// postRepo is the slice of the post repository the comment service needs.
type postRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
}

// moderator screens text before it is persisted.
type moderator interface {
	Check(ctx context.Context, text string) error
}

// Service implements comment operations.
type Service struct {
	log      *slog.Logger
	comments commentRepo
	posts    postRepo
	mod      moderator
}

// NewService creates a new comment service instance.
func NewService(logger *slog.Logger, comments commentRepo, posts postRepo, mod moderator) *Service {
	return &Service{
		log:      logger.With("service", "comment"),
		comments: comments,
		posts:    posts,
		mod:      mod,
	}
}

// ListByPost returns the comments of a post, oldest first. The post must
// exist; a post with no comments yields an empty list.
func (s *Service) ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("comment.ListByPost get post: %w", err)
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("comment.ListByPost: %w", err)
	}
	return comments, nil
}

// Create moderates and stores a new comment on an existing post.
func (s *Service) Create(ctx context.Context, authorID, postID int64, content string) (*domain.Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("comment.Create get post: %w", err)
	}

	if err := s.mod.Check(ctx, content); err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, &domain.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	})
	if err != nil {
		return nil, fmt.Errorf("comment.Create: %w", err)
	}

	s.log.InfoContext(ctx, "comment created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("post_id", postID))

	return comment, nil
}

// Update replaces a comment's content. Only the author may update it.
func (s *Service) Update(ctx context.Context, actorID, id int64, content string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("comment.Update get: %w", err)
	}
	if comment.AuthorID != actorID {
		return nil, domain.ErrForbidden
	}

	if err := s.mod.Check(ctx, content); err != nil {
		return nil, err
	}

	updated, err := s.comments.Update(ctx, id, content)
	if err != nil {
		return nil, fmt.Errorf("comment.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a comment. The comment author and the post author may both
// delete it.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("comment.Delete get: %w", err)
	}

	if comment.AuthorID != actorID {
		post, err := s.posts.GetByID(ctx, comment.PostID)
		if err != nil {
			return fmt.Errorf("comment.Delete get post: %w", err)
		}
		if post.AuthorID != actorID {
			return domain.ErrForbidden
		}
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("comment.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "comment deleted", slog.Int64("comment_id", id))
	return nil
}
