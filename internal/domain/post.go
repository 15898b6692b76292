package domain

import "time"

// Post is a blog post. Tags are loaded alongside the post by the repository;
// an empty slice means the post has no tags, nil means tags were not loaded.
type Post struct {
	ID         int64
	AuthorID   int64
	CategoryID *int64
	Title      string
	Content    string
	Published  bool
	Tags       []Tag
	Votes      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Comment belongs to exactly one post.
type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostFilter narrows post listings. Zero values mean "no restriction".
// Published=false only ever applies to the post author's own listings.
type PostFilter struct {
	AuthorID      int64
	CategoryID    int64
	TagID         int64
	PublishedOnly bool
	Limit         int
	Offset        int
}
