package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService defines the interface for token creation and validation.
type TokenService interface {
	CreateToken(userID uuid.UUID, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// Limiter defines the interface for per-IP request rate limiting.
type Limiter interface {
	Check(ctx context.Context, ip, purpose string) (bool, error)
	Record(ctx context.Context, ip, purpose string) error
}
