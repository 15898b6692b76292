// Package tag implements the Tag repository using PostgreSQL.
package tag

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

const table = "tags"

type row struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r row) toDomain() *domain.Tag {
	return &domain.Tag{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}

// Repo provides tag persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tag repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.pool)
}

// GetByID returns a tag by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	sql, args, err := postgres.Builder().
		Select("id", "name", "created_at").From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "tag", id)
	}

	var t row
	if err := pgxscan.Get(ctx, r.q(ctx), &t, sql, args...); err != nil {
		return nil, postgres.MapError(err, "tag", id)
	}
	return t.toDomain(), nil
}

// List returns all tags ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Tag, error) {
	sql, args, err := postgres.Builder().
		Select("id", "name", "created_at").From(table).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "tag", 0)
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "tag", 0)
	}

	tags := make([]domain.Tag, 0, len(rows))
	for _, tr := range rows {
		tags = append(tags, *tr.toDomain())
	}
	return tags, nil
}

// Create inserts a new tag. A duplicate name maps to ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, t *domain.Tag) (*domain.Tag, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("name").
		Values(t.Name).
		Suffix("RETURNING id, name, created_at").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "tag", 0)
	}

	var created row
	if err := pgxscan.Get(ctx, r.q(ctx), &created, sql, args...); err != nil {
		return nil, postgres.MapError(err, "tag", 0)
	}
	return created.toDomain(), nil
}

// Update renames a tag.
func (r *Repo) Update(ctx context.Context, id int64, name string) (*domain.Tag, error) {
	sql, args, err := postgres.Builder().
		Update(table).
		Set("name", name).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, name, created_at").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "tag", id)
	}

	var updated row
	if err := pgxscan.Get(ctx, r.q(ctx), &updated, sql, args...); err != nil {
		return nil, postgres.MapError(err, "tag", id)
	}
	return updated.toDomain(), nil
}

// Delete removes a tag and its post associations (ON DELETE CASCADE).
func (r *Repo) Delete(ctx context.Context, id int64) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "tag", id)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "tag", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "tag", id)
	}
	return nil
}

// EnsureByNames resolves tag names to IDs, creating missing tags.
// Existing tags are reused via ON CONFLICT DO NOTHING + reselect, so two
// concurrent requests tagging the same new name do not conflict.
func (r *Repo) EnsureByNames(ctx context.Context, names []string) ([]domain.Tag, error) {
	if len(names) == 0 {
		return []domain.Tag{}, nil
	}

	insert := postgres.Builder().
		Insert(table).
		Columns("name")
	for _, name := range names {
		insert = insert.Values(name)
	}
	sql, args, err := insert.
		Suffix("ON CONFLICT (name) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "tag", 0)
	}
	if _, err := r.q(ctx).Exec(ctx, sql, args...); err != nil {
		return nil, postgres.MapError(err, "tag", 0)
	}

	sql, args, err = postgres.Builder().
		Select("id", "name", "created_at").From(table).
		Where(squirrel.Eq{"name": names}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "tag", 0)
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "tag", 0)
	}

	tags := make([]domain.Tag, 0, len(rows))
	for _, tr := range rows {
		tags = append(tags, *tr.toDomain())
	}
	return tags, nil
}
