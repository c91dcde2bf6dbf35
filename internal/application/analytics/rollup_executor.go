package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/agoramall/backend/internal/domain/analytics"
	"github.com/agoramall/backend/internal/domain/commerce"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

// RollupExecutor runs the daily analytics rollup job: it aggregates event
// logs and order totals into one DailyAnalytics row per covered day.
// Re-running a period overwrites the same rows, so retries are safe.
type RollupExecutor struct {
	analyticsRepo analytics.Repository
	orderRepo     commerce.OrderRepository
	logger        *zap.Logger
}

// NewRollupExecutor creates a new rollup executor
func NewRollupExecutor(analyticsRepo analytics.Repository, orderRepo commerce.OrderRepository, logger *zap.Logger) *RollupExecutor {
	return &RollupExecutor{
		analyticsRepo: analyticsRepo,
		orderRepo:     orderRepo,
		logger:        logger,
	}
}

// Execute implements scheduler.JobExecutor
func (e *RollupExecutor) Execute(ctx context.Context, job *scheduler.Job) error {
	if job.JobType != scheduler.JobTypeAnalyticsRollup {
		return scheduler.ErrInvalidJobType
	}

	start := job.PeriodStart.Truncate(24 * time.Hour)
	var rolled int
	for day := start; day.Before(job.PeriodEnd); day = day.Add(24 * time.Hour) {
		if err := e.rollupDay(ctx, day); err != nil {
			return fmt.Errorf("failed to roll up %s: %w", day.Format("2006-01-02"), err)
		}
		rolled++
	}

	e.logger.Info("Analytics rollup complete",
		zap.Int("days", rolled),
		zap.Time("period_start", job.PeriodStart),
		zap.Time("period_end", job.PeriodEnd))
	return nil
}

func (e *RollupExecutor) rollupDay(ctx context.Context, day time.Time) error {
	from := day
	to := day.Add(24 * time.Hour)

	byType, err := e.analyticsRepo.CountEventsByType(ctx, from, to)
	if err != nil {
		return err
	}

	visitors, err := e.analyticsRepo.CountVisitors(ctx, from, to)
	if err != nil {
		return err
	}

	totals, err := e.orderRepo.TotalsBetween(ctx, from, to)
	if err != nil {
		return err
	}

	daily := &analytics.DailyAnalytics{
		BaseEntity: shared.NewBaseEntity(),
		Date:       day,
		Visitors:   visitors,
		PageViews:  byType[analytics.EventPageView],
		OrderCount: totals.Orders,
		Revenue:    totals.Revenue,
	}
	return e.analyticsRepo.UpsertDaily(ctx, daily)
}

// Ensure RollupExecutor implements scheduler.JobExecutor
var _ scheduler.JobExecutor = (*RollupExecutor)(nil)
