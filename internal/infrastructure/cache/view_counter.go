package cache

import (
	"context"
	"sync"
)

// ViewCounter accumulates page views in a fast store so reads do not
// write to the database. Bump records one view; Drain empties the
// accumulated counts for flushing into durable storage.
type ViewCounter interface {
	Bump(ctx context.Context, key string) error
	Drain(ctx context.Context) (map[string]int64, error)
}

// InMemoryViewCounter implements ViewCounter with a process-local map.
// Counts are lost on restart and are not shared across instances.
type InMemoryViewCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

// NewInMemoryViewCounter creates a new in-memory view counter
func NewInMemoryViewCounter() *InMemoryViewCounter {
	return &InMemoryViewCounter{counts: make(map[string]int64)}
}

// Bump records one view for key
func (c *InMemoryViewCounter) Bump(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	return nil
}

// Drain returns the accumulated counts and resets the counter
func (c *InMemoryViewCounter) Drain(ctx context.Context) (map[string]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	drained := c.counts
	c.counts = make(map[string]int64)
	return drained, nil
}

// Ensure InMemoryViewCounter implements ViewCounter
var _ ViewCounter = (*InMemoryViewCounter)(nil)
