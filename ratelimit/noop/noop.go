package noop

import (
	"context"
)

// RateLimiter is a no-op rate limiter that does nothing.
type RateLimiter struct{}

func (r *RateLimiter) LimitQuery(ctx context.Context, key string) bool {
	return false
}
