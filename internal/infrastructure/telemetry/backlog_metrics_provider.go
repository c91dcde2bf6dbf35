// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormBacklogMetricsProvider implements BacklogMetricsProvider using GORM.
// It queries the cs_posts and notifications tables for aggregated counts.
type GormBacklogMetricsProvider struct {
	db *gorm.DB
}

// NewGormBacklogMetricsProvider creates a new GormBacklogMetricsProvider.
func NewGormBacklogMetricsProvider(db *gorm.DB) *GormBacklogMetricsProvider {
	return &GormBacklogMetricsProvider{db: db}
}

// GetOpenTicketCount returns the number of unresolved support posts.
func (p *GormBacklogMetricsProvider) GetOpenTicketCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("cs_posts").
		Where("status IN ?", []string{"pending", "in_progress"}).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetUnreadNotificationCount returns the number of unread notifications.
func (p *GormBacklogMetricsProvider) GetUnreadNotificationCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("notifications").
		Where("is_read = ?", false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormBacklogMetricsProvider implements BacklogMetricsProvider
var _ BacklogMetricsProvider = (*GormBacklogMetricsProvider)(nil)
