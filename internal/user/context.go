package user

import "context"

type contextKey string

const identityContextKey contextKey = "identity"

// NewContext returns a context carrying the authenticated user.
func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, identityContextKey, u)
}

// FromContext extracts the authenticated user from the request context.
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(identityContextKey).(*User)
	return u, ok
}
