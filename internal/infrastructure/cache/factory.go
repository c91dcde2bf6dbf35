package cache

import (
	"fmt"

	"github.com/agoramall/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// AttemptLimiterFactory creates attempt limiters based on configuration
type AttemptLimiterFactory struct {
	redisConfig           config.RedisConfig
	throttle              ThrottleConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// AttemptLimiterFactoryOption is a functional option for configuring the factory
type AttemptLimiterFactoryOption func(*AttemptLimiterFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) AttemptLimiterFactoryOption {
	return func(f *AttemptLimiterFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory limiter
// when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) AttemptLimiterFactoryOption {
	return func(f *AttemptLimiterFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewAttemptLimiterFactory creates a new factory
func NewAttemptLimiterFactory(cfg config.RedisConfig, throttle ThrottleConfig, opts ...AttemptLimiterFactoryOption) *AttemptLimiterFactory {
	f := &AttemptLimiterFactory{
		redisConfig:           cfg,
		throttle:              throttle,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisLimiter creates a Redis-based attempt limiter
func (f *AttemptLimiterFactory) CreateRedisLimiter() (AttemptLimiter, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	limiter, err := NewRedisAttemptLimiter(redisCfg, f.throttle)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis attempt limiter: %w", err)
	}

	return limiter, nil
}

// CreateInMemoryLimiter creates an in-memory attempt limiter.
// WARNING: in-memory limiters do not share state across process
// instances, so a distributed deployment can admit more attempts
// than configured.
func (f *AttemptLimiterFactory) CreateInMemoryLimiter() AttemptLimiter {
	return NewInMemoryAttemptLimiter(f.throttle)
}

// CreateLimiter creates an attempt limiter based on whether Redis is
// available. It tries Redis first and falls back to in-memory if Redis
// is not available and fallback is allowed.
func (f *AttemptLimiterFactory) CreateLimiter() (AttemptLimiter, error) {
	limiter, err := f.CreateRedisLimiter()
	if err == nil {
		f.logger.Info("using Redis attempt limiter")
		return limiter, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for login throttling but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory attempt limiter. "+
		"Throttle state will not be shared across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryLimiter(), nil
}
