package cache

import (
	"context"
	"sync"
	"time"
)

// InMemoryAttemptLimiter provides an in-memory AttemptLimiter for
// single-instance deployments and testing.
// WARNING: throttle state is not shared across process instances.
type InMemoryAttemptLimiter struct {
	mu          sync.Mutex
	counters    map[string]*attemptWindow
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	lastSweep   time.Time
}

type attemptWindow struct {
	count     int
	expiresAt time.Time
}

// NewInMemoryAttemptLimiter creates a new in-memory attempt limiter
func NewInMemoryAttemptLimiter(throttle ThrottleConfig) *InMemoryAttemptLimiter {
	return &InMemoryAttemptLimiter{
		counters:    make(map[string]*attemptWindow),
		maxAttempts: throttle.MaxAttempts,
		window:      throttle.Window,
		now:         time.Now,
	}
}

// Hit records an attempt and reports whether it is allowed
func (l *InMemoryAttemptLimiter) Hit(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweepLocked(now)

	w, ok := l.counters[key]
	if !ok || now.After(w.expiresAt) {
		l.counters[key] = &attemptWindow{count: 1, expiresAt: now.Add(l.window)}
		return l.maxAttempts >= 1, nil
	}

	w.count++
	return w.count <= l.maxAttempts, nil
}

// sweepLocked drops expired windows so one-off keys do not accumulate.
// Runs at most once per window. Caller must hold mu.
func (l *InMemoryAttemptLimiter) sweepLocked(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key, w := range l.counters {
		if now.After(w.expiresAt) {
			delete(l.counters, key)
		}
	}
}

// Reset clears the attempt counter for key
func (l *InMemoryAttemptLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.counters, key)
	return nil
}

// Ensure InMemoryAttemptLimiter implements AttemptLimiter
var _ AttemptLimiter = (*InMemoryAttemptLimiter)(nil)
