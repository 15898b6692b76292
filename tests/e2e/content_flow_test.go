package e2e_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2E_PostLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerAndLogin(t, "alice")

	// Create with tags.
	status, envelope := ts.request(t, http.MethodPost, "/api/posts", map[string]any{
		"title":     "Going concurrent",
		"content":   "Channels and goroutines",
		"tags":      []string{"Go", "concurrency", "go"},
		"published": true,
	})
	require.Equal(t, http.StatusCreated, status, "create failed: %v", envelope)

	created := envelope["data"].(map[string]any)
	postID := int64(created["id"].(float64))

	tags := created["tags"].([]any)
	require.Len(t, tags, 2, "duplicate tag names must collapse")
	assert.Equal(t, "concurrency", tags[0].(map[string]any)["name"])
	assert.Equal(t, "go", tags[1].(map[string]any)["name"])

	// Update the title only; tags stay bound.
	status, envelope = ts.request(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", postID), map[string]any{
		"title": "Going fully concurrent",
	})
	require.Equal(t, http.StatusOK, status)
	updated := envelope["data"].(map[string]any)
	assert.Equal(t, "Going fully concurrent", updated["title"])
	assert.Len(t, updated["tags"].([]any), 2)

	// Vote and check the score.
	status, envelope = ts.request(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/vote", postID), map[string]any{
		"value": 1,
	})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, envelope["data"].(map[string]any)["votes"])

	// Re-voting replaces, never stacks.
	status, envelope = ts.request(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/vote", postID), map[string]any{
		"value": -1,
	})
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, -1, envelope["data"].(map[string]any)["votes"])

	// Unvote back to zero.
	status, envelope = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d/vote", postID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, envelope["data"].(map[string]any)["votes"])

	// Delete.
	status, _ = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = ts.request(t, http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestE2E_Vote_InvalidValue(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerAndLogin(t, "alice")

	status, envelope := ts.request(t, http.MethodPost, "/api/posts", map[string]any{
		"title":   "Votable",
		"content": "Content",
	})
	require.Equal(t, http.StatusCreated, status)
	postID := int64(envelope["data"].(map[string]any)["id"].(float64))

	status, envelope = ts.request(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/vote", postID), map[string]any{
		"value": 5,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, envelope["success"])
}

func TestE2E_CommentFlow(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerAndLogin(t, "alice")

	status, envelope := ts.request(t, http.MethodPost, "/api/posts", map[string]any{
		"title":     "Discussion",
		"content":   "Comment below",
		"published": true,
	})
	require.Equal(t, http.StatusCreated, status)
	postID := int64(envelope["data"].(map[string]any)["id"].(float64))

	status, envelope = ts.request(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", postID), map[string]any{
		"content": "First!",
	})
	require.Equal(t, http.StatusCreated, status)
	commentID := int64(envelope["data"].(map[string]any)["id"].(float64))

	status, envelope = ts.request(t, http.MethodGet, fmt.Sprintf("/api/posts/%d/comments", postID), nil)
	require.Equal(t, http.StatusOK, status)
	comments := envelope["data"].([]any)
	require.Len(t, comments, 1)
	assert.Equal(t, "First!", comments[0].(map[string]any)["content"])

	status, envelope = ts.request(t, http.MethodPut, fmt.Sprintf("/api/comments/%d", commentID), map[string]any{
		"content": "First, edited.",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "First, edited.", envelope["data"].(map[string]any)["content"])

	status, _ = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/comments/%d", commentID), nil)
	require.Equal(t, http.StatusOK, status)

	status, envelope = ts.request(t, http.MethodGet, fmt.Sprintf("/api/posts/%d/comments", postID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, envelope["data"].([]any))
}

func TestE2E_OnlyAuthorMayEdit(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerAndLogin(t, "alice")

	status, envelope := ts.request(t, http.MethodPost, "/api/posts", map[string]any{
		"title":     "Mine",
		"content":   "Hands off",
		"published": true,
	})
	require.Equal(t, http.StatusCreated, status)
	postID := int64(envelope["data"].(map[string]any)["id"].(float64))

	// A different user cannot edit or delete it.
	ts.registerAndLogin(t, "mallory")

	status, _ = ts.request(t, http.MethodPut, fmt.Sprintf("/api/posts/%d", postID), map[string]any{
		"title": "Stolen",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestE2E_FollowGraph(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerAndLogin(t, "alice")
	aliceID := int64(alice["id"].(float64))

	bob := ts.registerAndLogin(t, "bob") // bob is now the logged-in user
	bobID := int64(bob["id"].(float64))

	// Bob follows Alice.
	status, _ := ts.request(t, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", aliceID), nil)
	require.Equal(t, http.StatusOK, status)

	// Following yourself is rejected.
	status, envelope := ts.request(t, http.MethodPost, fmt.Sprintf("/api/users/%d/follow", bobID), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, envelope["success"])

	status, envelope = ts.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d/followers", aliceID), nil)
	require.Equal(t, http.StatusOK, status)
	followers := envelope["data"].([]any)
	require.Len(t, followers, 1)
	assert.Equal(t, "bob", followers[0].(map[string]any)["username"])

	status, envelope = ts.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d/following", bobID), nil)
	require.Equal(t, http.StatusOK, status)
	following := envelope["data"].([]any)
	require.Len(t, following, 1)
	assert.Equal(t, "alice", following[0].(map[string]any)["username"])

	// Unfollow is idempotent.
	status, _ = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d/follow", aliceID), nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d/follow", aliceID), nil)
	require.Equal(t, http.StatusOK, status)
}

func TestE2E_PostList_Filters(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerAndLogin(t, "alice")

	for i, published := range []bool{true, false, true} {
		status, _ := ts.request(t, http.MethodPost, "/api/posts", map[string]any{
			"title":     fmt.Sprintf("Post %d", i),
			"content":   "Content",
			"published": published,
			"tags":      []string{"filter-me"},
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, envelope := ts.request(t, http.MethodGet, "/api/posts?published=true", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, envelope["data"].([]any), 2)

	status, envelope = ts.request(t, http.MethodGet, "/api/posts?limit=1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, envelope["data"].([]any), 1)
}
