package rest

import (
	"time"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// Response DTOs. The password hash never appears in any of them.

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       *string   `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

type tagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toTagResponses(tags []domain.Tag) []tagResponse {
	out := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagResponse{ID: t.ID, Name: t.Name})
	}
	return out
}

type postResponse struct {
	ID         int64         `json:"id"`
	AuthorID   int64         `json:"authorId"`
	CategoryID *int64        `json:"categoryId,omitempty"`
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	Published  bool          `json:"published"`
	Tags       []tagResponse `json:"tags"`
	Votes      int           `json:"votes"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:         p.ID,
		AuthorID:   p.AuthorID,
		CategoryID: p.CategoryID,
		Title:      p.Title,
		Content:    p.Content,
		Published:  p.Published,
		Tags:       toTagResponses(p.Tags),
		Votes:      p.Votes,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toPostResponses(posts []domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for i := range posts {
		out = append(out, toPostResponse(&posts[i]))
	}
	return out
}

type commentResponse struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	AuthorID  int64     `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCommentResponses(comments []domain.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentResponse(&comments[i]))
	}
	return out
}

type categoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCategoryResponses(categories []domain.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, toCategoryResponse(&categories[i]))
	}
	return out
}

type principalResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toPrincipalResponse(p domain.Principal) principalResponse {
	return principalResponse{ID: p.ID, Username: p.Username, Email: p.Email}
}
