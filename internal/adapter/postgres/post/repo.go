// Package post implements the Post repository using PostgreSQL.
package post

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

const table = "posts"

// voteSum is attached as a correlated subquery so listings and lookups carry
// the current score without a second round trip.
const voteSum = "COALESCE((SELECT SUM(value) FROM votes v WHERE v.post_id = posts.id), 0) AS votes"

var selectColumns = []string{
	"posts.id", "posts.author_id", "posts.category_id", "posts.title",
	"posts.content", "posts.published", "posts.created_at", "posts.updated_at",
	voteSum,
}

type row struct {
	ID         int64     `db:"id"`
	AuthorID   int64     `db:"author_id"`
	CategoryID *int64    `db:"category_id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	Published  bool      `db:"published"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
	Votes      int       `db:"votes"`
}

func (r row) toDomain() *domain.Post {
	return &domain.Post{
		ID:         r.ID,
		AuthorID:   r.AuthorID,
		CategoryID: r.CategoryID,
		Title:      r.Title,
		Content:    r.Content,
		Published:  r.Published,
		Votes:      r.Votes,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type tagRow struct {
	PostID    int64     `db:"post_id"`
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// Repo provides post persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new post repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.pool)
}

// GetByID returns a post with its tags and vote score.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	sql, args, err := postgres.Builder().
		Select(selectColumns...).From(table).
		Where(squirrel.Eq{"posts.id": id}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}

	var p row
	if err := pgxscan.Get(ctx, r.q(ctx), &p, sql, args...); err != nil {
		return nil, postgres.MapError(err, "post", id)
	}

	post := p.toDomain()
	tagsByPost, err := r.tagsForPosts(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	post.Tags = tagsByPost[id]
	if post.Tags == nil {
		post.Tags = []domain.Tag{}
	}
	return post, nil
}

// List returns posts matching the filter, newest first, with tags loaded.
func (r *Repo) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	query := postgres.Builder().
		Select(selectColumns...).From(table).
		OrderBy("posts.created_at DESC")

	if filter.PublishedOnly {
		query = query.Where(squirrel.Eq{"posts.published": true})
	}
	if filter.AuthorID > 0 {
		query = query.Where(squirrel.Eq{"posts.author_id": filter.AuthorID})
	}
	if filter.CategoryID > 0 {
		query = query.Where(squirrel.Eq{"posts.category_id": filter.CategoryID})
	}
	if filter.TagID > 0 {
		query = query.Join("post_tags pt ON pt.post_id = posts.id").
			Where(squirrel.Eq{"pt.tag_id": filter.TagID})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "post", 0)
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "post", 0)
	}

	posts := make([]domain.Post, 0, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, pr := range rows {
		posts = append(posts, *pr.toDomain())
		ids = append(ids, pr.ID)
	}

	tagsByPost, err := r.tagsForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Tags = tagsByPost[posts[i].ID]
		if posts[i].Tags == nil {
			posts[i].Tags = []domain.Tag{}
		}
	}
	return posts, nil
}

// Create inserts a new post. Tag binding is a separate step (SetTags) run
// in the same transaction by the service.
func (r *Repo) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	sql, args, err := postgres.Builder().
		Insert(table).
		Columns("author_id", "category_id", "title", "content", "published").
		Values(p.AuthorID, p.CategoryID, p.Title, p.Content, p.Published).
		Suffix("RETURNING id, author_id, category_id, title, content, published, created_at, updated_at, 0 AS votes").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "post", 0)
	}

	var created row
	if err := pgxscan.Get(ctx, r.q(ctx), &created, sql, args...); err != nil {
		return nil, postgres.MapError(err, "post", 0)
	}

	post := created.toDomain()
	post.Tags = []domain.Tag{}
	return post, nil
}

// Update modifies the provided fields of a post. Nil pointers leave the
// corresponding column untouched.
func (r *Repo) Update(ctx context.Context, id int64, title, content *string, categoryID *int64, published *bool) (*domain.Post, error) {
	update := postgres.Builder().
		Update(table).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, author_id, category_id, title, content, published, created_at, updated_at, " +
			"COALESCE((SELECT SUM(value) FROM votes v WHERE v.post_id = posts.id), 0) AS votes")
	if title != nil {
		update = update.Set("title", *title)
	}
	if content != nil {
		update = update.Set("content", *content)
	}
	if categoryID != nil {
		update = update.Set("category_id", *categoryID)
	}
	if published != nil {
		update = update.Set("published", *published)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}

	var updated row
	if err := pgxscan.Get(ctx, r.q(ctx), &updated, sql, args...); err != nil {
		return nil, postgres.MapError(err, "post", id)
	}
	return updated.toDomain(), nil
}

// Delete removes a post. Comments, votes and tag bindings cascade.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	sql, args, err := postgres.Builder().
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "post", id)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "post", id)
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(pgx.ErrNoRows, "post", id)
	}
	return nil
}

// SetTags replaces the post's tag bindings with the given tag IDs.
func (r *Repo) SetTags(ctx context.Context, postID int64, tagIDs []int64) error {
	del, args, err := postgres.Builder().
		Delete("post_tags").
		Where(squirrel.Eq{"post_id": postID}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "post", postID)
	}
	if _, err := r.q(ctx).Exec(ctx, del, args...); err != nil {
		return postgres.MapError(err, "post", postID)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	insert := postgres.Builder().
		Insert("post_tags").
		Columns("post_id", "tag_id")
	for _, tagID := range tagIDs {
		insert = insert.Values(postID, tagID)
	}
	sql, args, err := insert.
		Suffix("ON CONFLICT (post_id, tag_id) DO NOTHING").
		ToSql()
	if err != nil {
		return postgres.MapError(err, "post", postID)
	}
	if _, err := r.q(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "post", postID)
	}
	return nil
}

// tagsForPosts loads tags for a set of posts in one query.
func (r *Repo) tagsForPosts(ctx context.Context, postIDs []int64) (map[int64][]domain.Tag, error) {
	if len(postIDs) == 0 {
		return map[int64][]domain.Tag{}, nil
	}

	sql, args, err := postgres.Builder().
		Select("pt.post_id", "t.id", "t.name", "t.created_at").
		From("tags t").
		Join("post_tags pt ON pt.tag_id = t.id").
		Where(squirrel.Eq{"pt.post_id": postIDs}).
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "post", 0)
	}

	var rows []tagRow
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "post", 0)
	}

	result := make(map[int64][]domain.Tag, len(postIDs))
	for _, tr := range rows {
		result[tr.PostID] = append(result[tr.PostID], domain.Tag{
			ID:        tr.ID,
			Name:      tr.Name,
			CreatedAt: tr.CreatedAt,
		})
	}
	return result, nil
}
