package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/agoramall/backend/internal/domain/analytics"
	"github.com/agoramall/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAnalyticsRepository implements analytics.Repository using GORM
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormAnalyticsRepository creates a new GormAnalyticsRepository
func NewGormAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

// SaveEvent stores one ingested event
func (r *GormAnalyticsRepository) SaveEvent(ctx context.Context, event *analytics.EventLog) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// FindEvents returns events matching the filter (staff view)
func (r *GormAnalyticsRepository) FindEvents(ctx context.Context, filter shared.Filter) ([]analytics.EventLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&analytics.EventLog{})
	if eventType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", eventType)
	}
	if from, ok := filter.Filters["from"]; ok {
		query = query.Where("created_at >= ?", from)
	}
	if to, ok := filter.Filters["to"]; ok {
		query = query.Where("created_at < ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []analytics.EventLog
	query = applySort(query, filter, EventLogSortFields)
	query = applyPagination(query, filter)
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// CountEventsByType counts events per type in a time range
func (r *GormAnalyticsRepository) CountEventsByType(ctx context.Context, from, to time.Time) (map[analytics.EventType]int64, error) {
	var rows []struct {
		Type  analytics.EventType
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&analytics.EventLog{}).
		Select("type, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[analytics.EventType]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

// CountVisitors counts distinct signed-in users with events in a time range
func (r *GormAnalyticsRepository) CountVisitors(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&analytics.EventLog{}).
		Where("user_id IS NOT NULL AND created_at >= ? AND created_at < ?", from, to).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

// UpsertDaily writes or replaces the rollup row for a date
func (r *GormAnalyticsRepository) UpsertDaily(ctx context.Context, daily *analytics.DailyAnalytics) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"visitors", "page_views", "order_count", "revenue", "updated_at",
			}),
		}).
		Create(daily).Error
}

// FindDailyRange returns rollup rows for a date range, oldest first
func (r *GormAnalyticsRepository) FindDailyRange(ctx context.Context, from, to time.Time) ([]analytics.DailyAnalytics, error) {
	var dailies []analytics.DailyAnalytics
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&dailies).Error; err != nil {
		return nil, err
	}
	return dailies, nil
}

// SaveSummary stores a dashboard snapshot
func (r *GormAnalyticsRepository) SaveSummary(ctx context.Context, summary *analytics.DashboardSummary) error {
	return r.db.WithContext(ctx).Create(summary).Error
}

// LatestSummary returns the most recent dashboard snapshot
func (r *GormAnalyticsRepository) LatestSummary(ctx context.Context) (*analytics.DashboardSummary, error) {
	var summary analytics.DashboardSummary
	if err := r.db.WithContext(ctx).
		Order("generated_at DESC").
		First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &summary, nil
}

// Ensure GormAnalyticsRepository implements Repository
var _ analytics.Repository = (*GormAnalyticsRepository)(nil)
