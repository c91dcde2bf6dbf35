package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisAttemptLimiter implements AttemptLimiter using Redis counters.
// This is suitable for distributed deployments where multiple instances
// need to share throttle state.
type RedisAttemptLimiter struct {
	client      *redis.Client
	keyPrefix   string
	maxAttempts int
	window      time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisAttemptLimiter creates a new Redis-based attempt limiter
func NewRedisAttemptLimiter(cfg RedisConfig, throttle ThrottleConfig) (*RedisAttemptLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisAttemptLimiter{
		client:      client,
		keyPrefix:   "login:attempts:",
		maxAttempts: throttle.MaxAttempts,
		window:      throttle.Window,
	}, nil
}

// NewRedisAttemptLimiterWithClient creates a limiter with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisAttemptLimiterWithClient(client *redis.Client, throttle ThrottleConfig) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{
		client:      client,
		keyPrefix:   "login:attempts:",
		maxAttempts: throttle.MaxAttempts,
		window:      throttle.Window,
	}
}

// Hit increments the counter for key and reports whether the attempt is
// allowed. The TTL is set only on the first hit so the window is fixed,
// not sliding.
func (l *RedisAttemptLimiter) Hit(ctx context.Context, key string) (bool, error) {
	fullKey := l.keyPrefix + key

	count, err := l.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record login attempt: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, fullKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set throttle window: %w", err)
		}
	}

	return count <= int64(l.maxAttempts), nil
}

// Reset clears the attempt counter for key
func (l *RedisAttemptLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisAttemptLimiter) Close() error {
	return l.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (l *RedisAttemptLimiter) GetClient() *redis.Client {
	return l.client
}

// Ensure RedisAttemptLimiter implements AttemptLimiter
var _ AttemptLimiter = (*RedisAttemptLimiter)(nil)
