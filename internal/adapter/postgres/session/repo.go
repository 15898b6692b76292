// Package session implements the login-session repository using PostgreSQL.
package session

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillhub/quillhub-backend/internal/adapter/postgres"
	"github.com/quillhub/quillhub-backend/internal/domain"
)

const table = "sessions"

type row struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (r row) toDomain() *domain.Session {
	return &domain.Session{
		ID:        r.ID,
		UserID:    r.UserID,
		TokenHash: r.TokenHash,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
	}
}

// Repo provides session persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new session repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.pool)
}

// Create inserts a new session.
func (r *Repo) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("user_id", "token_hash", "expires_at").
		Values(s.UserID, s.TokenHash, s.ExpiresAt).
		Suffix("RETURNING id, user_id, token_hash, expires_at, created_at").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "session", 0)
	}

	var created row
	if err := pgxscan.Get(ctx, r.q(ctx), &created, sql, args...); err != nil {
		return nil, postgres.MapError(err, "session", 0)
	}
	return created.toDomain(), nil
}

// GetByTokenHash returns the session with the given token hash.
func (r *Repo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	sql, args, err := postgres.Builder().
		Select("id", "user_id", "token_hash", "expires_at", "created_at").
		From(table).
		Where(squirrel.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "session", 0)
	}

	var s row
	if err := pgxscan.Get(ctx, r.q(ctx), &s, sql, args...); err != nil {
		return nil, postgres.MapError(err, "session", 0)
	}
	return s.toDomain(), nil
}

// DeleteByTokenHash removes the session with the given token hash.
// Deleting an absent session is not an error: logout is idempotent.
func (r *Repo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"token_hash": tokenHash}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "session", 0)
	}

	if _, err := r.q(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "session", 0)
	}
	return nil
}

// DeleteExpired removes all sessions past their expiry and reports how many
// were removed. Intended for a periodic external cleanup job.
func (r *Repo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, postgres.MapError(err, "session", 0)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "session", 0)
	}
	return int(tag.RowsAffected()), nil
}
