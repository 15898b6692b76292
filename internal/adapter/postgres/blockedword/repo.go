// Package blockedword implements the moderation blocklist repository using
// PostgreSQL.
package blockedword

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quillhub/quillhub-backend/internal/adapter/postgres"
)

const table = "blocked_words"

// Repo provides blocklist persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new blocklist repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.pool)
}

// ContainsAny returns the subset of words present in the blocklist.
// The lookup is a single query regardless of input size; words are
// expected to be normalized already.
func (r *Repo) ContainsAny(ctx context.Context, words []string) ([]string, error) {
	if len(words) == 0 {
		return nil, nil
	}

	sql, args, err := postgres.Builder().
		Select("word").
		From(table).
		Where(squirrel.Eq{"word": words}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "blocked_word", 0)
	}

	var found []string
	if err := pgxscan.Select(ctx, r.q(ctx), &found, sql, args...); err != nil {
		return nil, postgres.MapError(err, "blocked_word", 0)
	}
	return found, nil
}

// Add inserts words into the blocklist. Words already present are left
// alone, so repeated classifier verdicts do not fail.
func (r *Repo) Add(ctx context.Context, words []string) error {
	if len(words) == 0 {
		return nil
	}

	insert := postgres.Builder().
		Insert(table).
		Columns("word")
	for _, word := range words {
		insert = insert.Values(word)
	}
	sql, args, err := insert.
		Suffix("ON CONFLICT (word) DO NOTHING").
		ToSql()
	if err != nil {
		return postgres.MapError(err, "blocked_word", 0)
	}

	if _, err := r.q(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "blocked_word", 0)
	}
	return nil
}

// List returns all blocked words in alphabetical order.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	sql, args, err := postgres.Builder().
		Select("word").
		From(table).
		OrderBy("word ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "blocked_word", 0)
	}

	var words []string
	if err := pgxscan.Select(ctx, r.q(ctx), &words, sql, args...); err != nil {
		return nil, postgres.MapError(err, "blocked_word", 0)
	}
	return words, nil
}
