// Package ratelimit implements a fixed-window per-IP rate limiter on Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	windowDuration = 15 * time.Minute
	windowLimit    = 10
)

// Limiter tracks request counts per IP and purpose in Redis
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

func key(ip, purpose string) string {
	return fmt.Sprintf("ratelimit:%s:%s", purpose, ip)
}

// Check reports whether the IP has exceeded the window limit for the purpose
func (l *Limiter) Check(ctx context.Context, ip, purpose string) (bool, error) {
	count, err := l.client.Get(ctx, key(ip, purpose)).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get rate limit counter: %w", err)
	}

	return count >= windowLimit, nil
}

// Record counts a request against the IP's window for the purpose.
// The window starts with the first request; the TTL is only set when the
// key is created so later requests do not slide it.
func (l *Limiter) Record(ctx context.Context, ip, purpose string) error {
	k := key(ip, purpose)

	pipe := l.client.Pipeline()
	pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, windowDuration)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record request: %w", err)
	}

	return nil
}
