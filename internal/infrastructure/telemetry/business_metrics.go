// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the mall backend.
// It tracks order activity, community engagement, and support backlog.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderCreatedTotal    *Counter
	orderAmountTotal     *Counter
	orderTransitionTotal *Counter
	chatMessageTotal     *Counter
	reviewCreatedTotal   *Counter
	notificationTotal    *Counter

	// Gauge metrics (point-in-time values)
	openTicketCount    *Gauge
	unreadNotification *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	backlogProvider BacklogMetricsProvider
}

// BacklogMetricsProvider provides backlog data for periodic metrics
// collection. This interface allows the telemetry layer to query the
// database without depending on the domain packages directly.
type BacklogMetricsProvider interface {
	// GetOpenTicketCount returns the number of unresolved support posts
	GetOpenTicketCount(ctx context.Context) (int64, error)

	// GetUnreadNotificationCount returns the number of unread notifications
	GetUnreadNotificationCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	BacklogProvider BacklogMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		backlogProvider: cfg.BacklogProvider,
	}

	// Initialize counter metrics
	var err error

	// Order metrics
	bm.orderCreatedTotal, err = NewCounter(
		cfg.Meter,
		"agora_order_created_total",
		"Total number of orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"agora_order_amount_total",
		"Total order amount in won",
		"{won}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderTransitionTotal, err = NewCounter(
		cfg.Meter,
		"agora_order_status_transition_total",
		"Total number of order status transitions",
		"{transitions}",
	)
	if err != nil {
		return nil, err
	}

	// Community metrics
	bm.chatMessageTotal, err = NewCounter(
		cfg.Meter,
		"agora_chat_message_total",
		"Total number of chat messages sent",
		"{messages}",
	)
	if err != nil {
		return nil, err
	}

	bm.reviewCreatedTotal, err = NewCounter(
		cfg.Meter,
		"agora_review_created_total",
		"Total number of reviews written",
		"{reviews}",
	)
	if err != nil {
		return nil, err
	}

	bm.notificationTotal, err = NewCounter(
		cfg.Meter,
		"agora_notification_sent_total",
		"Total number of notifications delivered",
		"{notifications}",
	)
	if err != nil {
		return nil, err
	}

	// Backlog gauge metrics
	bm.openTicketCount, err = NewGauge(
		cfg.Meter,
		"agora_support_open_tickets",
		"Number of unresolved customer support posts",
		"{posts}",
	)
	if err != nil {
		return nil, err
	}

	bm.unreadNotification, err = NewGauge(
		cfg.Meter,
		"agora_notification_unread_backlog",
		"Number of unread notifications across all users",
		"{notifications}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// RecordOrderCreated records an order creation event.
// This should be called from the application layer at checkout.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, paymentMethod string) {
	bm.orderCreatedTotal.Inc(ctx,
		AttrPaymentMethod.String(paymentMethod),
	)
}

// RecordOrderAmount records the order amount in won.
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, paymentMethod string, amountWon int64) {
	bm.orderAmountTotal.Add(ctx, amountWon,
		AttrPaymentMethod.String(paymentMethod),
	)
}

// RecordOrderWithAmount is a convenience method that records both order count and amount.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, paymentMethod string, amount decimal.Decimal) {
	bm.RecordOrderCreated(ctx, paymentMethod)
	bm.RecordOrderAmount(ctx, paymentMethod, amount.IntPart())
}

// RecordOrderTransition records an order status change.
func (bm *BusinessMetrics) RecordOrderTransition(ctx context.Context, from, to string) {
	bm.orderTransitionTotal.Inc(ctx,
		AttrOrderStatusFrom.String(from),
		AttrOrderStatusTo.String(to),
	)
}

// =============================================================================
// Community Metrics
// =============================================================================

// RecordChatMessage records a sent chat message.
func (bm *BusinessMetrics) RecordChatMessage(ctx context.Context) {
	bm.chatMessageTotal.Inc(ctx)
}

// RecordReviewCreated records a written review with its star rating.
func (bm *BusinessMetrics) RecordReviewCreated(ctx context.Context, rating int) {
	bm.reviewCreatedTotal.Inc(ctx,
		AttrReviewRating.String(strconv.Itoa(rating)),
	)
}

// RecordNotificationSent records a delivered notification.
func (bm *BusinessMetrics) RecordNotificationSent(ctx context.Context, notificationType string) {
	bm.notificationTotal.Inc(ctx,
		AttrNotificationType.String(notificationType),
	)
}

// =============================================================================
// Backlog Metrics
// =============================================================================

// RecordOpenTicketCount records the current unresolved support post count.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordOpenTicketCount(ctx context.Context, count int64) {
	bm.openTicketCount.Record(ctx, count)
}

// RecordUnreadNotificationCount records the unread notification backlog.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordUnreadNotificationCount(ctx context.Context, count int64) {
	bm.unreadNotification.Record(ctx, count)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects backlog metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectBacklogMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectBacklogMetrics(ctx)
		}
	}
}

// collectBacklogMetrics collects the backlog gauge metrics.
func (bm *BusinessMetrics) collectBacklogMetrics(ctx context.Context) {
	if bm.backlogProvider == nil {
		bm.logger.Debug("No backlog provider configured, skipping backlog metrics collection")
		return
	}

	openTickets, err := bm.backlogProvider.GetOpenTicketCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get open ticket count", zap.Error(err))
	} else {
		bm.RecordOpenTicketCount(ctx, openTickets)
	}

	unread, err := bm.backlogProvider.GetUnreadNotificationCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get unread notification count", zap.Error(err))
	} else {
		bm.RecordUnreadNotificationCount(ctx, unread)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
