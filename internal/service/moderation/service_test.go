package moderation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type blocklistRepoMock struct {
	ContainsAnyFunc func(ctx context.Context, words []string) ([]string, error)
	AddFunc         func(ctx context.Context, words []string) error

	addCalls atomic.Int32
}

func (m *blocklistRepoMock) ContainsAny(ctx context.Context, words []string) ([]string, error) {
	return m.ContainsAnyFunc(ctx, words)
}

func (m *blocklistRepoMock) Add(ctx context.Context, words []string) error {
	m.addCalls.Add(1)
	return m.AddFunc(ctx, words)
}

type classifierMock struct {
	ClassifyFunc func(ctx context.Context, text string) (*domain.Verdict, error)

	calls atomic.Int32
}

func (m *classifierMock) Classify(ctx context.Context, text string) (*domain.Verdict, error) {
	m.calls.Add(1)
	return m.ClassifyFunc(ctx, text)
}

func TestService_Check_EmptyTextPasses(t *testing.T) {
	t.Parallel()

	clf := &classifierMock{}
	svc := NewService(newTestLogger(), &blocklistRepoMock{}, clf)

	for _, text := range []string{"", "   ", "\n\t"} {
		if err := svc.Check(context.Background(), text); err != nil {
			t.Errorf("Check(%q) = %v, want nil", text, err)
		}
	}
	if clf.calls.Load() != 0 {
		t.Errorf("classifier calls = %d, want 0 for blank input", clf.calls.Load())
	}
}

func TestService_Check_LocalHitSkipsClassifier(t *testing.T) {
	t.Parallel()

	blocklist := &blocklistRepoMock{
		ContainsAnyFunc: func(ctx context.Context, words []string) ([]string, error) {
			// Tokens arrive lowercased.
			for _, w := range words {
				if w == "badword" {
					return []string{"badword"}, nil
				}
			}
			return nil, nil
		},
	}
	clf := &classifierMock{
		ClassifyFunc: func(ctx context.Context, text string) (*domain.Verdict, error) {
			return &domain.Verdict{}, nil
		},
	}
	svc := NewService(newTestLogger(), blocklist, clf)

	err := svc.Check(context.Background(), "This has a BADWORD in it")

	var modErr *domain.ModerationError
	if !errors.As(err, &modErr) {
		t.Fatalf("Check() error = %v, want ModerationError", err)
	}
	if len(modErr.Words) != 1 || modErr.Words[0] != "badword" {
		t.Errorf("Words = %v, want [badword]", modErr.Words)
	}
	if !errors.Is(err, domain.ErrModeration) {
		t.Error("ModerationError must unwrap to ErrModeration")
	}
	if clf.calls.Load() != 0 {
		t.Errorf("classifier calls = %d, want 0 on local hit", clf.calls.Load())
	}
}

func TestService_Check_CleanVerdictPasses(t *testing.T) {
	t.Parallel()

	blocklist := &blocklistRepoMock{
		ContainsAnyFunc: func(ctx context.Context, words []string) ([]string, error) {
			return nil, nil
		},
	}
	clf := &classifierMock{
		ClassifyFunc: func(ctx context.Context, text string) (*domain.Verdict, error) {
			return &domain.Verdict{Inappropriate: false, Words: []string{}}, nil
		},
	}
	svc := NewService(newTestLogger(), blocklist, clf)

	if err := svc.Check(context.Background(), "a perfectly fine sentence"); err != nil {
		t.Fatalf("Check() = %v, want nil", err)
	}
	if clf.calls.Load() != 1 {
		t.Errorf("classifier calls = %d, want 1", clf.calls.Load())
	}
}

func TestService_Check_FlaggedVerdictExtendsBlocklist(t *testing.T) {
	t.Parallel()

	var added []string
	blocklist := &blocklistRepoMock{
		ContainsAnyFunc: func(ctx context.Context, words []string) ([]string, error) {
			return nil, nil
		},
		AddFunc: func(ctx context.Context, words []string) error {
			added = words
			return nil
		},
	}
	clf := &classifierMock{
		ClassifyFunc: func(ctx context.Context, text string) (*domain.Verdict, error) {
			return &domain.Verdict{Inappropriate: true, Words: []string{" BadWord ", "worse"}}, nil
		},
	}
	svc := NewService(newTestLogger(), blocklist, clf)

	err := svc.Check(context.Background(), "some novel insult")

	var modErr *domain.ModerationError
	if !errors.As(err, &modErr) {
		t.Fatalf("Check() error = %v, want ModerationError", err)
	}
	if len(modErr.Words) != 2 || modErr.Words[0] != "badword" || modErr.Words[1] != "worse" {
		t.Errorf("Words = %v, want normalized sorted [badword worse]", modErr.Words)
	}
	if len(added) != 2 {
		t.Errorf("blocklist extended with %v, want the normalized words", added)
	}
	if blocklist.addCalls.Load() != 1 {
		t.Errorf("Add calls = %d, want 1", blocklist.addCalls.Load())
	}
}

func TestService_Check_ClassifierFailureIsNotAPass(t *testing.T) {
	t.Parallel()

	blocklist := &blocklistRepoMock{
		ContainsAnyFunc: func(ctx context.Context, words []string) ([]string, error) {
			return nil, nil
		},
	}
	clf := &classifierMock{
		ClassifyFunc: func(ctx context.Context, text string) (*domain.Verdict, error) {
			return nil, errors.New("malformed verdict")
		},
	}
	svc := NewService(newTestLogger(), blocklist, clf)

	err := svc.Check(context.Background(), "anything")
	if err == nil {
		t.Fatal("Check() = nil, want infrastructure error")
	}
	if errors.Is(err, domain.ErrModeration) {
		t.Error("classifier failure must not look like a moderation rejection")
	}
}

func TestService_Check_FlaggedVerdictWithoutWords(t *testing.T) {
	t.Parallel()

	blocklist := &blocklistRepoMock{
		ContainsAnyFunc: func(ctx context.Context, words []string) ([]string, error) {
			return nil, nil
		},
	}
	clf := &classifierMock{
		ClassifyFunc: func(ctx context.Context, text string) (*domain.Verdict, error) {
			return &domain.Verdict{Inappropriate: true, Words: nil}, nil
		},
	}
	svc := NewService(newTestLogger(), blocklist, clf)

	err := svc.Check(context.Background(), "implicitly bad")

	var modErr *domain.ModerationError
	if !errors.As(err, &modErr) {
		t.Fatalf("Check() error = %v, want ModerationError", err)
	}
	if len(modErr.Words) != 0 {
		t.Errorf("Words = %v, want empty", modErr.Words)
	}
	if blocklist.addCalls.Load() != 0 {
		t.Errorf("Add calls = %d, want 0 when verdict names no words", blocklist.addCalls.Load())
	}
}
