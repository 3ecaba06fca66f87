package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginFlow(t *testing.T) {
	_, app, _ := setupTestServer(t)

	register := map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret1",
	}

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", register)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["ok"])
	assert.NotEmpty(t, body["token"])
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	// The password hash never leaves the server.
	_, exposed := user["password"]
	assert.False(t, exposed)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		dup := map[string]any{
			"username": "alice2",
			"email":    "alice@example.com",
			"password": "secret1",
		}
		status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", dup)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, false, body["ok"])
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		dup := map[string]any{
			"username": "alice",
			"email":    "other@example.com",
			"password": "secret1",
		}
		status, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", dup)
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("login succeeds with right password", func(t *testing.T) {
		status, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
			"email":    "alice@example.com",
			"password": "secret1",
		})
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("login rejects wrong password", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
			"email":    "alice@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("login rejects unknown email", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{
			"email":    "nobody@example.com",
			"password": "secret1",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("me requires auth", func(t *testing.T) {
		status, _ := doJSON(t, app, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("me returns profile with valid token", func(t *testing.T) {
		token, _ := body["token"].(string)
		status, meBody := doJSON(t, app, http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, status)
		me, _ := meBody["user"].(map[string]any)
		assert.Equal(t, "alice", me["username"])
	})
}

func TestRegisterValidation(t *testing.T) {
	_, app, _ := setupTestServer(t)

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{"missing fields", map[string]any{"username": "bob"}},
		{"short password", map[string]any{"username": "bob", "email": "bob@example.com", "password": "abc"}},
		{"bad email", map[string]any{"username": "bob", "email": "not-an-email", "password": "secret1"}},
		{"bad username", map[string]any{"username": "b!", "email": "bob@example.com", "password": "secret1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", tt.payload)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, false, body["ok"])
		})
	}
}

func TestUpdateMyProfile(t *testing.T) {
	s, app, db := setupTestServer(t)
	alice := createUser(t, db, "alice")
	token := tokenFor(t, s, alice)

	status, body := doJSON(t, app, http.MethodPatch, "/api/auth/me", token, map[string]any{
		"bio":        "gopher at large",
		"avatar_url": "https://example.com/alice.png",
	})
	require.Equal(t, http.StatusOK, status)
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "gopher at large", user["bio"])
	assert.Equal(t, "https://example.com/alice.png", user["avatar_url"])
}
