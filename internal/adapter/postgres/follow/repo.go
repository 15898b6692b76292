// Package follow implements the follower-graph repository using PostgreSQL.
package follow

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillhub/quillhub-backend/internal/adapter/postgres"
	"github.com/quillhub/quillhub-backend/internal/domain"
)

const table = "follows"

type userRow struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Email     string    `db:"email"`
	Bio       *string   `db:"bio"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		Bio:       r.Bio,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Repo provides follow-relation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new follow repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.pool)
}

// Create records that follower follows followee. Repeating an existing
// follow is a no-op.
func (r *Repo) Create(ctx context.Context, followerID, followeeID int64) error {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("follower_id", "followee_id").
		Values(followerID, followeeID).
		Suffix("ON CONFLICT (follower_id, followee_id) DO NOTHING").
		ToSql()
	if err != nil {
		return postgres.MapError(err, "follow", followeeID)
	}

	if _, err := r.q(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "follow", followeeID)
	}
	return nil
}

// Delete removes a follow relation. Removing an absent relation is not
// an error.
func (r *Repo) Delete(ctx context.Context, followerID, followeeID int64) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"follower_id": followerID, "followee_id": followeeID}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "follow", followeeID)
	}

	if _, err := r.q(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "follow", followeeID)
	}
	return nil
}

// Followers returns the users following the given user, ordered by username.
func (r *Repo) Followers(ctx context.Context, userID int64) ([]domain.User, error) {
	sql, args, err := postgres.Builder().
		Select("u.id", "u.username", "u.email", "u.bio", "u.created_at", "u.updated_at").
		From("users u").
		Join("follows f ON f.follower_id = u.id").
		Where(squirrel.Eq{"f.followee_id": userID}).
		OrderBy("u.username ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "follow", userID)
	}

	var rows []userRow
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "follow", userID)
	}

	users := make([]domain.User, 0, len(rows))
	for _, ur := range rows {
		users = append(users, ur.toDomain())
	}
	return users, nil
}

// Following returns the users the given user follows, ordered by username.
func (r *Repo) Following(ctx context.Context, userID int64) ([]domain.User, error) {
	sql, args, err := postgres.Builder().
		Select("u.id", "u.username", "u.email", "u.bio", "u.created_at", "u.updated_at").
		From("users u").
		Join("follows f ON f.followee_id = u.id").
		Where(squirrel.Eq{"f.follower_id": userID}).
		OrderBy("u.username ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "follow", userID)
	}

	var rows []userRow
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "follow", userID)
	}

	users := make([]domain.User, 0, len(rows))
	for _, ur := range rows {
		users = append(users, ur.toDomain())
	}
	return users, nil
}
