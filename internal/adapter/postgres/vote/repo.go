// Package vote implements the post-vote repository using PostgreSQL.
package vote

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillhub/quillhub-backend/internal/adapter/postgres"
	"github.com/quillhub/quillhub-backend/internal/domain"
)

const table = "votes"

type row struct {
	UserID    int64     `db:"user_id"`
	PostID    int64     `db:"post_id"`
	Value     int       `db:"value"`
	CreatedAt time.Time `db:"created_at"`
}

func (r row) toDomain() *domain.Vote {
	return &domain.Vote{
		UserID:    r.UserID,
		PostID:    r.PostID,
		Value:     r.Value,
		CreatedAt: r.CreatedAt,
	}
}

// Repo provides vote persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new vote repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.pool)
}

// Upsert records a user's vote on a post, replacing any previous vote by
// the same user.
func (r *Repo) Upsert(ctx context.Context, v *domain.Vote) (*domain.Vote, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("user_id", "post_id", "value").
		Values(v.UserID, v.PostID, v.Value).
		Suffix("ON CONFLICT (user_id, post_id) DO UPDATE SET value = EXCLUDED.value " +
			"RETURNING user_id, post_id, value, created_at").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "vote", v.PostID)
	}

	var saved row
	if err := pgxscan.Get(ctx, r.q(ctx), &saved, sql, args...); err != nil {
		return nil, postgres.MapError(err, "vote", v.PostID)
	}
	return saved.toDomain(), nil
}

// Delete removes a user's vote on a post. Removing an absent vote is not
// an error.
func (r *Repo) Delete(ctx context.Context, userID, postID int64) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"user_id": userID, "post_id": postID}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "vote", postID)
	}

	if _, err := r.q(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "vote", postID)
	}
	return nil
}

// SumByPost returns the current score of a post.
func (r *Repo) SumByPost(ctx context.Context, postID int64) (int, error) {
	sql, args, err := postgres.Builder().
		Select("COALESCE(SUM(value), 0) AS total").
		From(table).
		Where(squirrel.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return 0, postgres.MapError(err, "vote", postID)
	}

	var total int
	if err := pgxscan.Get(ctx, r.q(ctx), &total, sql, args...); err != nil {
		return 0, postgres.MapError(err, "vote", postID)
	}
	return total, nil
}
