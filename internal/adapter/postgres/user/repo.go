// Package user implements the User repository using PostgreSQL.
package user

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

const table = "users"

var columns = []string{"id", "username", "email", "password_hash", "bio", "created_at", "updated_at"}

type row struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Bio          *string   `db:"bio"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r row) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Bio:          r.Bio,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.pool)
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	var u row
	if err := pgxscan.Get(ctx, r.q(ctx), &u, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return u.toDomain(), nil
}

// GetByUsername returns a user by username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).From(table).
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "user", 0)
	}

	var u row
	if err := pgxscan.Get(ctx, r.q(ctx), &u, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user", 0)
	}
	return u.toDomain(), nil
}

// List returns all users ordered by username.
func (r *Repo) List(ctx context.Context) ([]domain.User, error) {
	sql, args, err := postgres.Builder().
		Select(columns...).From(table).
		OrderBy("username ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "user", 0)
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user", 0)
	}

	users := make([]domain.User, 0, len(rows))
	for _, ur := range rows {
		users = append(users, *ur.toDomain())
	}
	return users, nil
}

// Create inserts a new user and returns the persisted record.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("username", "email", "password_hash", "bio").
		Values(u.Username, u.Email, u.PasswordHash, u.Bio).
		Suffix("RETURNING " + returning()).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "user", 0)
	}

	var created row
	if err := pgxscan.Get(ctx, r.q(ctx), &created, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user", 0)
	}
	return created.toDomain(), nil
}

// Update modifies email and bio for the given user.
func (r *Repo) Update(ctx context.Context, id int64, email *string, bio *string) (*domain.User, error) {
	update := postgres.Builder().
		Update(table).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + returning())
	if email != nil {
		update = update.Set("email", *email)
	}
	if bio != nil {
		update = update.Set("bio", *bio)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	var updated row
	if err := pgxscan.Get(ctx, r.q(ctx), &updated, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return updated.toDomain(), nil
}

// Delete removes a user. Sessions, posts, comments, votes and follows are
// removed by ON DELETE CASCADE.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "user", id)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "user", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "user", id)
	}
	return nil
}

func returning() string {
	return "id, username, email, password_hash, bio, created_at, updated_at"
}
