// Package taxonomy implements category and tag management.
package taxonomy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// categoryRepo defines the category repository interface needed by the service.
type categoryRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Update(ctx context.Context, id int64, name *string, description *string) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

// tagRepo defines the tag repository interface needed by the service.
type tagRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
	List(ctx context.Context) ([]domain.Tag, error)
	Create(ctx context.Context, t *domain.Tag) (*domain.Tag, error)
	Update(ctx context.Context, id int64, name string) (*domain.Tag, error)
	Delete(ctx context.Context, id int64) error
}

// Service implements taxonomy operations.
type Service struct {
	log        *slog.Logger
	categories categoryRepo
	tags       tagRepo
}

// NewService creates a new taxonomy service instance.
func NewService(logger *slog.Logger, categories categoryRepo, tags tagRepo) *Service {
	return &Service{
		log:        logger.With("service", "taxonomy"),
		categories: categories,
		tags:       tags,
	}
}

// GetCategory returns a category by ID.
func (s *Service) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("taxonomy.GetCategory: %w", err)
	}
	return c, nil
}

// ListCategories returns all categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("taxonomy.ListCategories: %w", err)
	}
	return categories, nil
}

// CreateCategory creates a category. A duplicate name maps to ErrAlreadyExists.
func (s *Service) CreateCategory(ctx context.Context, name string, description *string) (*domain.Category, error) {
	created, err := s.categories.Create(ctx, &domain.Category{
		Name:        strings.TrimSpace(name),
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("taxonomy.CreateCategory: %w", err)
	}

	s.log.InfoContext(ctx, "category created",
		slog.Int64("category_id", created.ID),
		slog.String("name", created.Name))

	return created, nil
}

// UpdateCategory modifies name and/or description of a category.
func (s *Service) UpdateCategory(ctx context.Context, id int64, name *string, description *string) (*domain.Category, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		name = &trimmed
	}
	updated, err := s.categories.Update(ctx, id, name, description)
	if err != nil {
		return nil, fmt.Errorf("taxonomy.UpdateCategory: %w", err)
	}
	return updated, nil
}

// DeleteCategory removes a category. Posts keep existing without a category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("taxonomy.DeleteCategory: %w", err)
	}
	s.log.InfoContext(ctx, "category deleted", slog.Int64("category_id", id))
	return nil
}

// GetTag returns a tag by ID.
func (s *Service) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	t, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("taxonomy.GetTag: %w", err)
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func (s *Service) ListTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("taxonomy.ListTags: %w", err)
	}
	return tags, nil
}

// CreateTag creates a tag with a normalized name.
func (s *Service) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	created, err := s.tags.Create(ctx, &domain.Tag{Name: domain.NormalizeWord(name)})
	if err != nil {
		return nil, fmt.Errorf("taxonomy.CreateTag: %w", err)
	}
	return created, nil
}

// UpdateTag renames a tag.
func (s *Service) UpdateTag(ctx context.Context, id int64, name string) (*domain.Tag, error) {
	updated, err := s.tags.Update(ctx, id, domain.NormalizeWord(name))
	if err != nil {
		return nil, fmt.Errorf("taxonomy.UpdateTag: %w", err)
	}
	return updated, nil
}

// DeleteTag removes a tag and its post bindings.
func (s *Service) DeleteTag(ctx context.Context, id int64) error {
	if err := s.tags.Delete(ctx, id); err != nil {
		return fmt.Errorf("taxonomy.DeleteTag: %w", err)
	}
	return nil
}
