package post

import (
	"context"
	"sync/atomic"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

type postRepoMock struct {
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Post, error)
	ListFunc    func(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	CreateFunc  func(ctx context.Context, p *domain.Post) (*domain.Post, error)
	UpdateFunc  func(ctx context.Context, id int64, title, content *string, categoryID *int64, published *bool) (*domain.Post, error)
	DeleteFunc  func(ctx context.Context, id int64) error
	SetTagsFunc func(ctx context.Context, postID int64, tagIDs []int64) error
}

func (m *postRepoMock) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *postRepoMock) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	return m.ListFunc(ctx, filter)
}

func (m *postRepoMock) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	return m.CreateFunc(ctx, p)
}

func (m *postRepoMock) Update(ctx context.Context, id int64, title, content *string, categoryID *int64, published *bool) (*domain.Post, error) {
	return m.UpdateFunc(ctx, id, title, content, categoryID, published)
}

func (m *postRepoMock) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

func (m *postRepoMock) SetTags(ctx context.Context, postID int64, tagIDs []int64) error {
	return m.SetTagsFunc(ctx, postID, tagIDs)
}

type tagRepoMock struct {
	EnsureByNamesFunc func(ctx context.Context, names []string) ([]domain.Tag, error)
}

func (m *tagRepoMock) EnsureByNames(ctx context.Context, names []string) ([]domain.Tag, error) {
	return m.EnsureByNamesFunc(ctx, names)
}

type voteRepoMock struct {
	UpsertFunc    func(ctx context.Context, v *domain.Vote) (*domain.Vote, error)
	DeleteFunc    func(ctx context.Context, userID, postID int64) error
	SumByPostFunc func(ctx context.Context, postID int64) (int, error)
}

func (m *voteRepoMock) Upsert(ctx context.Context, v *domain.Vote) (*domain.Vote, error) {
	return m.UpsertFunc(ctx, v)
}

func (m *voteRepoMock) Delete(ctx context.Context, userID, postID int64) error {
	return m.DeleteFunc(ctx, userID, postID)
}

func (m *voteRepoMock) SumByPost(ctx context.Context, postID int64) (int, error) {
	return m.SumByPostFunc(ctx, postID)
}

// txManagerMock runs the callback without a real transaction.
type txManagerMock struct{}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type moderatorMock struct {
	CheckFunc func(ctx context.Context, text string) error

	calls atomic.Int32
}

func (m *moderatorMock) Check(ctx context.Context, text string) error {
	m.calls.Add(1)
	if m.CheckFunc == nil {
		return nil
	}
	return m.CheckFunc(ctx, text)
}
