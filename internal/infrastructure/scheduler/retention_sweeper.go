package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RetentionSweeper periodically purges read notifications past their
// retention period. It runs on a fixed interval rather than the daily
// cron so a restart never leaves expired rows sitting until 2am.
type RetentionSweeper struct {
	sweep    SweepFunc
	interval time.Duration
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// SweepFunc deletes expired rows and returns how many were removed
type SweepFunc func(ctx context.Context) (int64, error)

// NewRetentionSweeper creates a retention sweeper
func NewRetentionSweeper(sweep SweepFunc, interval time.Duration, logger *zap.Logger) *RetentionSweeper {
	return &RetentionSweeper{
		sweep:    sweep,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the sweep loop. The first sweep runs after one interval.
func (s *RetentionSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Retention sweeper started", zap.Duration("interval", s.interval))
	return nil
}

// Stop stops the sweep loop
func (s *RetentionSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Retention sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *RetentionSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *RetentionSweeper) runOnce(ctx context.Context) {
	deleted, err := s.sweep(ctx)
	if err != nil {
		s.logger.Error("Retention sweep failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("Retention sweep completed", zap.Int64("deleted", deleted))
	}
}
