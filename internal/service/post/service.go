// Package post implements blog post operations: CRUD, tagging and voting.
package post

import (
	"context"
	"log/slog"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// postRepo defines the post repository interface needed by the post service.
type postRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	Update(ctx context.Context, id int64, title, content *string, categoryID *int64, published *bool) (*domain.Post, error)
	Delete(ctx context.Context, id int64) error
	SetTags(ctx context.Context, postID int64, tagIDs []int64) error
}

// tagRepo defines the tag repository interface needed by the post service.
type tagRepo interface {
	EnsureByNames(ctx context.Context, names []string) ([]domain.Tag, error)
}

// voteRepo defines the vote repository interface needed by the post service.
type voteRepo interface {
	Upsert(ctx context.Context, v *domain.Vote) (*domain.Vote, error)
	Delete(ctx context.Context, userID, postID int64) error
	SumByPost(ctx context.Context, postID int64) (int, error)
}

// txManager defines the transaction manager interface needed by the post service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// moderator screens text before it is persisted.
type moderator interface {
	Check(ctx context.Context, text string) error
}

// Service implements post operations.
type Service struct {
	log   *slog.Logger
	posts postRepo
	tags  tagRepo
	votes voteRepo
	tx    txManager
	mod   moderator
}

// NewService creates a new post service instance.
func NewService(
	logger *slog.Logger,
	posts postRepo,
	tags tagRepo,
	votes voteRepo,
	tx txManager,
	mod moderator,
) *Service {
	return &Service{
		log:   logger.With("service", "post"),
		posts: posts,
		tags:  tags,
		votes: votes,
		tx:    tx,
		mod:   mod,
	}
}

// clampLimit applies the default and maximum page size.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
