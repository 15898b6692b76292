package auth

import (
	"context"
	"sync/atomic"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// Hand-written mocks in the moq style: one Func field per method, nil Func
// panics so tests fail loudly on unexpected calls.

type userRepoMock struct {
	GetByIDFunc       func(ctx context.Context, id int64) (*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	CreateFunc        func(ctx context.Context, user *domain.User) (*domain.User, error)
}

func (m *userRepoMock) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.GetByUsernameFunc(ctx, username)
}

func (m *userRepoMock) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return m.CreateFunc(ctx, user)
}

type sessionRepoMock struct {
	CreateFunc            func(ctx context.Context, s *domain.Session) (*domain.Session, error)
	GetByTokenHashFunc    func(ctx context.Context, tokenHash string) (*domain.Session, error)
	DeleteByTokenHashFunc func(ctx context.Context, tokenHash string) error

	deleteCalls atomic.Int32
}

func (m *sessionRepoMock) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	return m.CreateFunc(ctx, s)
}

func (m *sessionRepoMock) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	return m.GetByTokenHashFunc(ctx, tokenHash)
}

func (m *sessionRepoMock) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	m.deleteCalls.Add(1)
	return m.DeleteByTokenHashFunc(ctx, tokenHash)
}

type verifierMock struct {
	VerifyFunc func(ctx context.Context, username, password string) (*domain.User, error)
}

func (m *verifierMock) Verify(ctx context.Context, username, password string) (*domain.User, error) {
	return m.VerifyFunc(ctx, username, password)
}
