// Package moderation screens user-submitted text before it is persisted.
//
// The check is two-staged: a local blocklist lookup first, the external
// classifier only on a miss. Words the classifier flags are fed back into
// the blocklist, so repeat offenders never reach the classifier again.
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// blocklistRepo defines the blocklist repository interface needed by the
// moderation service.
type blocklistRepo interface {
	ContainsAny(ctx context.Context, words []string) ([]string, error)
	Add(ctx context.Context, words []string) error
}

// classifier defines the external classifier interface.
type classifier interface {
	Classify(ctx context.Context, text string) (*domain.Verdict, error)
}

// Service implements content moderation.
type Service struct {
	log       *slog.Logger
	blocklist blocklistRepo
	clf       classifier
}

// NewService creates a new moderation service instance.
func NewService(logger *slog.Logger, blocklist blocklistRepo, clf classifier) *Service {
	return &Service{
		log:       logger.With("service", "moderation"),
		blocklist: blocklist,
		clf:       clf,
	}
}

// Check screens the text. A clean text returns nil. A rejected text returns
// a *domain.ModerationError listing the offending words. Any other error is
// infrastructure failure: the classifier being unreachable or replying with
// something that is not a verdict never passes content through.
func (s *Service) Check(ctx context.Context, text string) error {
	tokens := domain.Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	blocked, err := s.blocklist.ContainsAny(ctx, tokens)
	if err != nil {
		return fmt.Errorf("moderation.Check blocklist lookup: %w", err)
	}
	if len(blocked) > 0 {
		sort.Strings(blocked)
		s.log.InfoContext(ctx, "text rejected by blocklist",
			slog.Int("words", len(blocked)))
		return &domain.ModerationError{Words: blocked}
	}

	verdict, err := s.clf.Classify(ctx, text)
	if err != nil {
		return fmt.Errorf("moderation.Check classify: %w", err)
	}
	if !verdict.Inappropriate {
		return nil
	}

	words := make([]string, 0, len(verdict.Words))
	for _, w := range verdict.Words {
		if normalized := domain.NormalizeWord(w); normalized != "" {
			words = append(words, normalized)
		}
	}
	sort.Strings(words)

	if len(words) > 0 {
		if err := s.blocklist.Add(ctx, words); err != nil {
			return fmt.Errorf("moderation.Check extend blocklist: %w", err)
		}
	}

	s.log.InfoContext(ctx, "text rejected by classifier",
		slog.Int("words", len(words)))

	return &domain.ModerationError{Words: words}
}
