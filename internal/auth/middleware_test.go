package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velkyr/account-api/internal/user"
)

func newProtectedHandler(t *testing.T, store user.Store) http.Handler {
	t.Helper()
	mw := NewMiddleware(newTestPasetoService(t), store)
	return mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := user.FromContext(r.Context())
		require.True(t, ok, "identity must be in context behind the middleware")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"user_id": identity.ID.String()})
	}))
}

func TestRequireAuthSuccess(t *testing.T) {
	store := user.NewMemoryStore()
	seeded := seedUser(t, store, "a@x.com", "password1")
	handler := newProtectedHandler(t, store)

	token, err := newTestPasetoService(t).CreateToken(seeded.ID, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, seeded.ID.String(), body["user_id"])
}

func TestRequireAuthFailuresAreUniform(t *testing.T) {
	store := user.NewMemoryStore()
	seeded := seedUser(t, store, "a@x.com", "password1")
	handler := newProtectedHandler(t, store)
	tokens := newTestPasetoService(t)

	expired, err := tokens.CreateToken(seeded.ID, -time.Minute)
	require.NoError(t, err)

	// Token whose claim no longer resolves to a live user
	vanished := user.NewMemoryStore()
	ghost := seedUser(t, vanished, "ghost@x.com", "password1")
	ghostToken, err := tokens.CreateToken(ghost.ID, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Token abc"},
		{"bearer without token", "Bearer "},
		{"garbage token", "Bearer not-a-token"},
		{"expired token", "Bearer " + expired},
		{"vanished user", "Bearer " + ghostToken},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			bodies = append(bodies, rec.Body.String())
		})
	}

	// Every failure mode produces the exact same response body
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i], "401 bodies must not leak the failure cause")
	}
}

func TestIdentityFromContext(t *testing.T) {
	u := &user.User{}
	ctx := user.NewContext(context.Background(), u)

	got, ok := IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, u, got)

	_, ok = IdentityFromContext(context.Background())
	assert.False(t, ok)
}
