package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createPostJSON creates a post through the API and returns its id.
func createPostJSON(t *testing.T, app *fiber.App, token string, payload map[string]any) uint {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/posts", token, payload)
	require.Equal(t, http.StatusCreated, status, "create post: %v", body)
	id, ok := postField(body, "id").(float64)
	require.True(t, ok)
	return uint(id)
}

func TestCreatePost(t *testing.T) {
	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice")
	token := tokenFor(t, s, alice)

	t.Run("requires auth", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/posts", "", map[string]any{
			"title": "x", "content": "y",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("defaults to published and lowercases tags", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
			"title":   "Hello Gophers",
			"content": "first post",
			"tags":    []string{"  Go ", "WEB", "go"},
		})
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "published", postField(body, "status"))
		assert.ElementsMatch(t, []any{"go", "web"}, postField(body, "tags"))
		author, _ := postField(body, "author").(map[string]any)
		assert.Equal(t, "alice", author["username"])
		// Author's email stays private.
		_, exposed := author["email"]
		assert.False(t, exposed)
	})

	t.Run("accepts tags as a comma string", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
			"title":   "Comma tags",
			"content": "body",
			"tags":    "Go, news ,go",
		})
		require.Equal(t, http.StatusCreated, status)
		assert.ElementsMatch(t, []any{"go", "news"}, postField(body, "tags"))
	})

	t.Run("rejects missing title", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
			"content": "no title here",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, false, body["ok"])
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
			"title": "t", "content": "c", "status": "archived",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestDraftVisibility(t *testing.T) {
	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	aliceToken := tokenFor(t, s, alice)
	bobToken := tokenFor(t, s, bob)

	draftID := createPostJSON(t, app, aliceToken, map[string]any{
		"title": "Work in progress", "content": "not ready", "status": "draft",
	})
	path := fmt.Sprintf("/api/posts/%d", draftID)

	t.Run("author can view own draft", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, path, aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "draft", postField(body, "status"))
	})

	t.Run("other user gets forbidden", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, path, bobToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("anonymous gets forbidden", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("draft excluded from feed", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/api/posts", "", nil)
		require.Equal(t, http.StatusOK, status)
		posts, _ := body["posts"].([]any)
		assert.Empty(t, posts)
		assert.Equal(t, float64(0), body["total"])
	})

	t.Run("draft listed under /drafts for the author", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/api/posts/drafts", aliceToken, nil)
		require.Equal(t, http.StatusOK, status)
		posts, _ := body["posts"].([]any)
		require.Len(t, posts, 1)
	})
}

func TestFeedEndpoint(t *testing.T) {
	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	aliceToken := tokenFor(t, s, alice)
	bobToken := tokenFor(t, s, bob)

	createPostJSON(t, app, aliceToken, map[string]any{
		"title": "Gopher habits", "content": "burrows", "tags": []string{"go"},
	})
	createPostJSON(t, app, bobToken, map[string]any{
		"title": "Rustaceans", "content": "crabs", "tags": []string{"rust"},
	})

	t.Run("search matches case-insensitively", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/api/posts?search=GOPHER", "", nil)
		require.Equal(t, http.StatusOK, status)
		posts, _ := body["posts"].([]any)
		require.Len(t, posts, 1)
	})

	t.Run("tag filter", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodGet, "/api/posts?tag=rust", "", nil)
		require.Equal(t, http.StatusOK, status)
		posts, _ := body["posts"].([]any)
		require.Len(t, posts, 1)
		post, _ := posts[0].(map[string]any)
		assert.Equal(t, "Rustaceans", post["title"])
	})

	t.Run("author filter", func(t *testing.T) {
		path := fmt.Sprintf("/api/posts?author_id=%d", alice.ID)
		status, body := doJSON(t, app, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, status)
		posts, _ := body["posts"].([]any)
		require.Len(t, posts, 1)
	})
}

func TestUpdateAndDeletePost(t *testing.T) {
	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	aliceToken := tokenFor(t, s, alice)
	bobToken := tokenFor(t, s, bob)

	postID := createPostJSON(t, app, aliceToken, map[string]any{
		"title": "Original", "content": "body", "tags": []string{"go"},
	})
	path := fmt.Sprintf("/api/posts/%d", postID)

	t.Run("non-author cannot update", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPatch, path, bobToken, map[string]any{
			"title": "Hijacked",
		})
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPatch, path, aliceToken, map[string]any{
			"title": "Renamed",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Renamed", postField(body, "title"))
		assert.Equal(t, "body", postField(body, "content"))
		assert.ElementsMatch(t, []any{"go"}, postField(body, "tags"))
	})

	t.Run("tags replaced when provided", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPatch, path, aliceToken, map[string]any{
			"tags": []string{"News", "go"},
		})
		require.Equal(t, http.StatusOK, status)
		assert.ElementsMatch(t, []any{"news", "go"}, postField(body, "tags"))
	})

	t.Run("non-author cannot delete", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodDelete, path, bobToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("author deletes and post disappears", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodDelete, path, aliceToken, nil)
		require.Equal(t, http.StatusOK, status)

		status, _ = doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestTrendingEndpoint(t *testing.T) {
	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	aliceToken := tokenFor(t, s, alice)
	bobToken := tokenFor(t, s, bob)

	quiet := createPostJSON(t, app, aliceToken, map[string]any{
		"title": "Quiet post", "content": "nothing happening",
	})
	popular := createPostJSON(t, app, aliceToken, map[string]any{
		"title": "Popular post", "content": "everyone likes this",
	})

	likePath := fmt.Sprintf("/api/posts/%d/like", popular)
	status, _ := doJSON(t, app, http.MethodPost, likePath, bobToken, nil)
	require.Equal(t, http.StatusOK, status)
	commentPath := fmt.Sprintf("/api/posts/%d/comments", popular)
	status, _ = doJSON(t, app, http.MethodPost, commentPath, bobToken, map[string]any{"text": "nice"})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, app, http.MethodGet, "/api/posts/trending", "", nil)
	require.Equal(t, http.StatusOK, status)
	posts, _ := body["posts"].([]any)
	require.Len(t, posts, 2)

	first, _ := posts[0].(map[string]any)
	second, _ := posts[1].(map[string]any)
	assert.Equal(t, float64(popular), first["id"])
	assert.Equal(t, float64(quiet), second["id"])
	// Score is derived at read time, never part of the payload.
	_, exposed := first["score"]
	assert.False(t, exposed)
}

func TestGetPostBadID(t *testing.T) {
	_, app, _ := setupTestServer(t)

	status, body := doJSON(t, app, http.MethodGet, "/api/posts/not-a-number", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["ok"])
}
