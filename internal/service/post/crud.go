package post

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// CreateInput carries the fields of a post creation request.
type CreateInput struct {
	Title      string
	Content    string
	CategoryID *int64
	Tags       []string
	Published  bool
}

// UpdateInput carries the changed fields of a post update request.
// Nil means "leave as is".
type UpdateInput struct {
	Title      *string
	Content    *string
	CategoryID *int64
	Published  *bool
	Tags       []string
	HasTags    bool
}

// Get returns a single post with tags and score.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("post.Get: %w", err)
	}
	return post, nil
}

// List returns posts matching the filter with the page size clamped.
func (s *Service) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	filter.Limit = clampLimit(filter.Limit)

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("post.List: %w", err)
	}
	return posts, nil
}

// Create moderates the text, then persists the post and its tags in one
// transaction. Rejected content never reaches the database.
func (s *Service) Create(ctx context.Context, authorID int64, input CreateInput) (*domain.Post, error) {
	input.Title = strings.TrimSpace(input.Title)

	if err := s.mod.Check(ctx, input.Title); err != nil {
		return nil, err
	}
	if err := s.mod.Check(ctx, input.Content); err != nil {
		return nil, err
	}

	var created *domain.Post
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		post, err := s.posts.Create(txCtx, &domain.Post{
			AuthorID:   authorID,
			CategoryID: input.CategoryID,
			Title:      input.Title,
			Content:    input.Content,
			Published:  input.Published,
		})
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}

		tags, err := s.bindTags(txCtx, post.ID, input.Tags)
		if err != nil {
			return err
		}
		post.Tags = tags

		created = post
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("post.Create: %w", err)
	}

	s.log.InfoContext(ctx, "post created",
		slog.Int64("post_id", created.ID),
		slog.Int64("author_id", authorID))

	return created, nil
}

// Update modifies a post. Only the author may update it.
func (s *Service) Update(ctx context.Context, actorID, id int64, input UpdateInput) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("post.Update get: %w", err)
	}
	if post.AuthorID != actorID {
		return nil, domain.ErrForbidden
	}

	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		input.Title = &trimmed
		if err := s.mod.Check(ctx, trimmed); err != nil {
			return nil, err
		}
	}
	if input.Content != nil {
		if err := s.mod.Check(ctx, *input.Content); err != nil {
			return nil, err
		}
	}

	var updated *domain.Post
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.posts.Update(txCtx, id, input.Title, input.Content, input.CategoryID, input.Published)
		if err != nil {
			return fmt.Errorf("update post: %w", err)
		}

		if input.HasTags {
			tags, err := s.bindTags(txCtx, id, input.Tags)
			if err != nil {
				return err
			}
			p.Tags = tags
		} else {
			p.Tags = post.Tags
		}

		updated = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("post.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a post. Only the author may delete it.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("post.Delete get: %w", err)
	}
	if post.AuthorID != actorID {
		return domain.ErrForbidden
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("post.Delete: %w", err)
	}

	s.log.InfoContext(ctx, "post deleted", slog.Int64("post_id", id))
	return nil
}

// bindTags normalizes and deduplicates tag names, ensures they exist and
// binds them to the post.
func (s *Service) bindTags(ctx context.Context, postID int64, names []string) ([]domain.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	normalized := make([]string, 0, len(names))
	for _, name := range names {
		n := domain.NormalizeWord(name)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		normalized = append(normalized, n)
	}

	if len(normalized) == 0 {
		if err := s.posts.SetTags(ctx, postID, nil); err != nil {
			return nil, fmt.Errorf("clear tags: %w", err)
		}
		return []domain.Tag{}, nil
	}

	tags, err := s.tags.EnsureByNames(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("ensure tags: %w", err)
	}

	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	if err := s.posts.SetTags(ctx, postID, ids); err != nil {
		return nil, fmt.Errorf("bind tags: %w", err)
	}
	return tags, nil
}
