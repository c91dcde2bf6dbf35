package analytics

import (
	"context"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
)

// Repository defines the interface for analytics persistence
type Repository interface {
	// SaveEvent stores one ingested event
	SaveEvent(ctx context.Context, event *EventLog) error

	// FindEvents returns events matching the filter (staff view). The
	// filter supports "type", "from" and "to" keys.
	FindEvents(ctx context.Context, filter shared.Filter) ([]EventLog, int64, error)

	// CountEventsByType counts events per type in a time range
	CountEventsByType(ctx context.Context, from, to time.Time) (map[EventType]int64, error)

	// CountVisitors counts distinct signed-in users with events in a time
	// range. Anonymous events carry no user and are not counted.
	CountVisitors(ctx context.Context, from, to time.Time) (int64, error)

	// UpsertDaily writes or replaces the rollup row for a date
	UpsertDaily(ctx context.Context, daily *DailyAnalytics) error

	// FindDailyRange returns rollup rows for a date range, oldest first
	FindDailyRange(ctx context.Context, from, to time.Time) ([]DailyAnalytics, error)

	// SaveSummary stores a dashboard snapshot
	SaveSummary(ctx context.Context, summary *DashboardSummary) error

	// LatestSummary returns the most recent dashboard snapshot
	LatestSummary(ctx context.Context) (*DashboardSummary, error)
}
