// Package generate proxies text generation requests to the external model,
// gated by content moderation.
package generate

import (
	"context"
	"fmt"
	"log/slog"
)

// generator produces text for a prompt.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// moderator screens text before it leaves the system.
type moderator interface {
	Check(ctx context.Context, text string) error
}

// Service implements the generation proxy.
type Service struct {
	log *slog.Logger
	gen generator
	mod moderator
}

// NewService creates a new generate service instance.
func NewService(logger *slog.Logger, gen generator, mod moderator) *Service {
	return &Service{
		log: logger.With("service", "generate"),
		gen: gen,
		mod: mod,
	}
}

// Generate moderates the prompt and, if clean, returns the model's text.
// A rejected prompt never reaches the model.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	if err := s.mod.Check(ctx, prompt); err != nil {
		return "", err
	}

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate.Generate: %w", err)
	}

	s.log.InfoContext(ctx, "text generated", slog.Int("prompt_len", len(prompt)))
	return text, nil
}
