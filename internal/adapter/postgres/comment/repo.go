// Package comment implements the Comment repository using PostgreSQL.
package comment

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

const table = "comments"

const returning = "id, post_id, author_id, content, created_at, updated_at"

type row struct {
	ID        int64     `db:"id"`
	PostID    int64     `db:"post_id"`
	AuthorID  int64     `db:"author_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r row) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        r.ID,
		PostID:    r.PostID,
		AuthorID:  r.AuthorID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Repo provides comment persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new comment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.pool)
}

// GetByID returns a comment by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Comment, error) {
	sql, args, err := postgres.Builder().
		Select("id", "post_id", "author_id", "content", "created_at", "updated_at").
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "comment", id)
	}

	var c row
	if err := pgxscan.Get(ctx, r.q(ctx), &c, sql, args...); err != nil {
		return nil, postgres.MapError(err, "comment", id)
	}
	return c.toDomain(), nil
}

// ListByPost returns all comments of a post, oldest first.
func (r *Repo) ListByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	sql, args, err := postgres.Builder().
		Select("id", "post_id", "author_id", "content", "created_at", "updated_at").
		From(table).
		Where(squirrel.Eq{"post_id": postID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "comment", 0)
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "comment", 0)
	}

	comments := make([]domain.Comment, 0, len(rows))
	for _, cr := range rows {
		comments = append(comments, *cr.toDomain())
	}
	return comments, nil
}

// Create inserts a new comment.
func (r *Repo) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("post_id", "author_id", "content").
		Values(c.PostID, c.AuthorID, c.Content).
		Suffix("RETURNING " + returning).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "comment", 0)
	}

	var created row
	if err := pgxscan.Get(ctx, r.q(ctx), &created, sql, args...); err != nil {
		return nil, postgres.MapError(err, "comment", 0)
	}
	return created.toDomain(), nil
}

// Update replaces the content of a comment.
func (r *Repo) Update(ctx context.Context, id int64, content string) (*domain.Comment, error) {
	sql, args, err := postgres.Builder().
		Update(table).
		Set("content", content).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + returning).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "comment", id)
	}

	var updated row
	if err := pgxscan.Get(ctx, r.q(ctx), &updated, sql, args...); err != nil {
		return nil, postgres.MapError(err, "comment", id)
	}
	return updated.toDomain(), nil
}

// Delete removes a comment.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "comment", id)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "comment", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "comment", id)
	}
	return nil
}
