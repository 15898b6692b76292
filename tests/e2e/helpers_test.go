package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

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

const sessionCookieName = "quillhub_session"

type testServer struct {
	URL    string
	Client *http.Client
}

// setupTestServer builds the full stack over in-memory stores: real
// services, handlers, router and middleware chain, no database and no
// external classifier. The blocklist is seeded with "darnword".
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := newMemUsers()
	sessions := newMemSessions()
	tags := newMemTags()
	votes := newMemVotes()
	posts := newMemPosts(tags, votes)
	comments := newMemComments()
	categories := newMemCategories()
	follows := newMemFollows(users)
	blocklist := newMemBlocklist("darnword")

	authCfg := config.AuthConfig{
		SessionTTL:       time.Hour,
		SessionCookie:    sessionCookieName,
		PasswordHashCost: 4, // keep registration fast in tests
	}

	moderationSvc := moderation.NewService(logger, blocklist, cleanClassifier{})
	authSvc := auth.NewService(logger, users, sessions, auth.NewPasswordVerifier(users), authCfg)
	userSvc := user.NewService(logger, users, follows, moderationSvc)
	postSvc := post.NewService(logger, posts, tags, votes, passthroughTx{}, moderationSvc)
	commentSvc := comment.NewService(logger, comments, posts, moderationSvc)
	taxonomySvc := taxonomy.NewService(logger, categories, tags)
	generateSvc := generate.NewService(logger, cleanClassifier{}, moderationSvc)

	mux := rest.NewRouter(rest.Handlers{
		Auth:     rest.NewAuthHandler(authSvc, authCfg, logger),
		User:     rest.NewUserHandler(userSvc, logger),
		Post:     rest.NewPostHandler(postSvc, commentSvc, logger),
		Comment:  rest.NewCommentHandler(commentSvc, logger),
		Category: rest.NewCategoryHandler(taxonomySvc, logger),
		Tag:      rest.NewTagHandler(taxonomySvc, logger),
		Generate: rest.NewGenerateHandler(generateSvc, logger),
		Health:   rest.NewHealthHandler(okPinger{}, "e2e"),
	})

	handler := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Session(authSvc, sessionCookieName),
	)(mux)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testServer{
		URL:    server.URL,
		Client: &http.Client{Jar: jar},
	}
}

// request sends a JSON request through the server's cookie-aware client and
// decodes the envelope.
func (ts *testServer) request(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

// register creates a user account.
func (ts *testServer) register(t *testing.T, username, password string) map[string]any {
	t.Helper()

	status, envelope := ts.request(t, http.MethodPost, "/api/auth/register", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": password,
	})
	require.Equal(t, http.StatusCreated, status, "register failed: %v", envelope)
	return envelope["data"].(map[string]any)
}

// login authenticates; the session cookie lands in the client's jar.
func (ts *testServer) login(t *testing.T, username, password string) {
	t.Helper()

	status, envelope := ts.request(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, "login failed: %v", envelope)
}

// registerAndLogin is the common test preamble.
func (ts *testServer) registerAndLogin(t *testing.T, username string) map[string]any {
	t.Helper()
	u := ts.register(t, username, "correct horse battery")
	ts.login(t, username, "correct horse battery")
	return u
}

type okPinger struct{}

func (okPinger) Ping(_ context.Context) error { return nil }
