package cache

import (
	"context"
	"time"
)

// AttemptLimiter tracks login attempts per client key within a fixed
// window. Hit records one attempt and reports whether the caller is
// still under the limit; Reset clears the counter after a successful
// login so earlier failures do not penalize the next attempt.
type AttemptLimiter interface {
	Hit(ctx context.Context, key string) (allowed bool, err error)
	Reset(ctx context.Context, key string) error
}

// ThrottleConfig holds the window parameters for an attempt limiter
type ThrottleConfig struct {
	MaxAttempts int
	Window      time.Duration
}
