package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/velkyr/account-api/internal/httputil"
	"github.com/velkyr/account-api/internal/user"
)

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
	store        user.Store
}

func NewMiddleware(tokenService TokenService, store user.Store) *Middleware {
	return &Middleware{tokenService: tokenService, store: store}
}

// RequireAuth validates the bearer token, resolves the claim to a live user
// and puts the identity in the request context. Every failure mode — missing
// header, malformed or expired token, claim pointing at a removed user —
// collapses to the same 401 so callers cannot probe which case they hit.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respondUnauthenticated(w)
			return
		}

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			respondUnauthenticated(w)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			respondUnauthenticated(w)
			return
		}

		identity, err := m.store.GetByID(r.Context(), userID)
		if err != nil {
			respondUnauthenticated(w)
			return
		}

		ctx := user.NewContext(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <t>" header
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

func respondUnauthenticated(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w, "authentication required", httputil.CodeUnauthenticated, http.StatusUnauthorized)
}

// IdentityFromContext extracts the authenticated user from the request context
func IdentityFromContext(ctx context.Context) (*user.User, bool) {
	return user.FromContext(ctx)
}
