// Package app assembles configuration, storage, services and transport into
// a running HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/quillhub/quillhub-backend/internal/adapter/postgres"
	blockedwordrepo "github.com/quillhub/quillhub-backend/internal/adapter/postgres/blockedword"
	categoryrepo "github.com/quillhub/quillhub-backend/internal/adapter/postgres/category"
	commentrepo "github.com/quillhub/quillhub-backend/internal/adapter/postgres/comment"
	followrepo "github.com/quillhub/quillhub-backend/internal/adapter/postgres/follow"
	postrepo "github.com/quillhub/quillhub-backend/internal/adapter/postgres/post"
	sessionrepo "github.com/quillhub/quillhub-backend/internal/adapter/postgres/session"
	tagrepo "github.com/quillhub/quillhub-backend/internal/adapter/postgres/tag"
	userrepo "github.com/quillhub/quillhub-backend/internal/adapter/postgres/user"
	voterepo "github.com/quillhub/quillhub-backend/internal/adapter/postgres/vote"
	"github.com/quillhub/quillhub-backend/internal/adapter/provider/genai"
	"github.com/quillhub/quillhub-backend/internal/config"
	"github.com/quillhub/quillhub-backend/internal/service/auth"
	"github.com/quillhub/quillhub-backend/internal/service/comment"
	"github.com/quillhub/quillhub-backend/internal/service/generate"
	"github.com/quillhub/quillhub-backend/internal/service/moderation"
	"github.com/quillhub/quillhub-backend/internal/service/post"
	"github.com/quillhub/quillhub-backend/internal/service/taxonomy"
	"github.com/quillhub/quillhub-backend/internal/service/user"
	"github.com/quillhub/quillhub-backend/internal/transport/middleware"
	"github.com/quillhub/quillhub-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, initializes the
// logger and database, wires services and handlers, and serves HTTP until the
// context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if err := postgres.Migrate(ctx, cfg.Database); err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Repositories
	users := userrepo.New(pool)
	sessions := sessionrepo.New(pool)
	posts := postrepo.New(pool)
	comments := commentrepo.New(pool)
	categories := categoryrepo.New(pool)
	tags := tagrepo.New(pool)
	votes := voterepo.New(pool)
	follows := followrepo.New(pool)
	blockedWords := blockedwordrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	// External provider
	genaiClient := genai.New(cfg.GenAI, logger)

	// Services
	moderationSvc := moderation.NewService(logger, blockedWords, genaiClient)
	authSvc := auth.NewService(logger, users, sessions, auth.NewPasswordVerifier(users), cfg.Auth)
	userSvc := user.NewService(logger, users, follows, moderationSvc)
	postSvc := post.NewService(logger, posts, tags, votes, txManager, moderationSvc)
	commentSvc := comment.NewService(logger, comments, posts, moderationSvc)
	taxonomySvc := taxonomy.NewService(logger, categories, tags)
	generateSvc := generate.NewService(logger, genaiClient, moderationSvc)

	// Transport
	mux := rest.NewRouter(rest.Handlers{
		Auth:     rest.NewAuthHandler(authSvc, cfg.Auth, logger),
		User:     rest.NewUserHandler(userSvc, logger),
		Post:     rest.NewPostHandler(postSvc, commentSvc, logger),
		Comment:  rest.NewCommentHandler(commentSvc, logger),
		Category: rest.NewCategoryHandler(taxonomySvc, logger),
		Tag:      rest.NewTagHandler(taxonomySvc, logger),
		Generate: rest.NewGenerateHandler(generateSvc, logger),
		Health:   rest.NewHealthHandler(pool, BuildVersion()),
	})

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer rateLimiter.Stop()

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(cfg.RateLimit.RequestsPerMinute),
		middleware.Session(authSvc, cfg.Auth.SessionCookie),
	)(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	cleanupCtx, cancelCleanup := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelCleanup()
	if n, err := sessions.DeleteExpired(cleanupCtx, time.Now()); err != nil {
		logger.Warn("session cleanup failed", slog.String("error", err.Error()))
	} else if n > 0 {
		logger.Info("expired sessions removed", slog.Int("count", n))
	}

	return nil
}
