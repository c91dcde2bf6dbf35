package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisViewCounter implements ViewCounter on a Redis hash so view counts
// survive restarts and are shared across instances.
type RedisViewCounter struct {
	client  *redis.Client
	hashKey string
}

// NewRedisViewCounter creates a view counter with an existing Redis client
func NewRedisViewCounter(client *redis.Client) *RedisViewCounter {
	return &RedisViewCounter{
		client:  client,
		hashKey: "notice:views",
	}
}

// Bump records one view for key
func (c *RedisViewCounter) Bump(ctx context.Context, key string) error {
	if err := c.client.HIncrBy(ctx, c.hashKey, key, 1).Err(); err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

// Drain moves the hash aside with RENAME and reads it, so views recorded
// during the drain land in a fresh hash instead of being lost.
func (c *RedisViewCounter) Drain(ctx context.Context) (map[string]int64, error) {
	drainKey := c.hashKey + ":draining"

	if err := c.client.Rename(ctx, c.hashKey, drainKey).Err(); err != nil {
		// No hash means no views since the last drain
		if errors.Is(err, redis.Nil) || err.Error() == "ERR no such key" {
			return map[string]int64{}, nil
		}
		return nil, fmt.Errorf("failed to rotate view counts: %w", err)
	}

	raw, err := c.client.HGetAll(ctx, drainKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read view counts: %w", err)
	}
	if err := c.client.Del(ctx, drainKey).Err(); err != nil {
		return nil, fmt.Errorf("failed to clear drained view counts: %w", err)
	}

	counts := make(map[string]int64, len(raw))
	for key, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		counts[key] = n
	}
	return counts, nil
}

// Ensure RedisViewCounter implements ViewCounter
var _ ViewCounter = (*RedisViewCounter)(nil)
