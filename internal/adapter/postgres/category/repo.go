// Package category implements the Category repository using PostgreSQL.
package category

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillhub/quillhub-backend/internal/adapter/postgres"
	"github.com/quillhub/quillhub-backend/internal/domain"
)

const table = "categories"

const returning = "id, name, description, created_at, updated_at"

type row struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r row) toDomain() *domain.Category {
	return &domain.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Repo provides category persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new category repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.pool)
}

// GetByID returns a category by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	sql, args, err := postgres.Builder().
		Select("id", "name", "description", "created_at", "updated_at").
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "category", id)
	}

	var c row
	if err := pgxscan.Get(ctx, r.q(ctx), &c, sql, args...); err != nil {
		return nil, postgres.MapError(err, "category", id)
	}
	return c.toDomain(), nil
}

// List returns all categories ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Category, error) {
	sql, args, err := postgres.Builder().
		Select("id", "name", "description", "created_at", "updated_at").
		From(table).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "category", 0)
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "category", 0)
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, cr := range rows {
		categories = append(categories, *cr.toDomain())
	}
	return categories, nil
}

// Create inserts a new category. A duplicate name maps to ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("name", "description").
		Values(c.Name, c.Description).
		Suffix("RETURNING " + returning).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "category", 0)
	}

	var created row
	if err := pgxscan.Get(ctx, r.q(ctx), &created, sql, args...); err != nil {
		return nil, postgres.MapError(err, "category", 0)
	}
	return created.toDomain(), nil
}

// Update modifies name and/or description of the given category.
func (r *Repo) Update(ctx context.Context, id int64, name *string, description *string) (*domain.Category, error) {
	update := postgres.Builder().
		Update(table).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + returning)
	if name != nil {
		update = update.Set("name", *name)
	}
	if description != nil {
		update = update.Set("description", *description)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "category", id)
	}

	var updated row
	if err := pgxscan.Get(ctx, r.q(ctx), &updated, sql, args...); err != nil {
		return nil, postgres.MapError(err, "category", id)
	}
	return updated.toDomain(), nil
}

// Delete removes a category. Posts in the category keep existing with a
// NULL category (ON DELETE SET NULL).
func (r *Repo) Delete(ctx context.Context, id int64) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "category", id)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "category", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "category", id)
	}
	return nil
}
