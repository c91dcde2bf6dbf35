package analytics

import (
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType categorizes a tracked client event
type EventType string

const (
	EventPageView EventType = "PAGE_VIEW"
	EventClick    EventType = "CLICK"
	EventSearch   EventType = "SEARCH"
	EventPurchase EventType = "PURCHASE"
	EventError    EventType = "ERROR"
	EventOther    EventType = "OTHER"
)

// IsValid checks if the event type is a known value
func (t EventType) IsValid() bool {
	switch t {
	case EventPageView, EventClick, EventSearch, EventPurchase, EventError, EventOther:
		return true
	}
	return false
}

// EventLog is a single ingested client event. Ingestion is fire-and-forget;
// unknown types are coerced to OTHER rather than rejected.
type EventLog struct {
	shared.BaseEntity
	Type     EventType      `gorm:"not null;size:20;index"`
	UserID   *uuid.UUID     `gorm:"type:uuid;index"` // nil for anonymous events
	Path     string         `gorm:"size:500"`
	Metadata map[string]any `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the database table name
func (EventLog) TableName() string {
	return "event_logs"
}

// NewEventLog creates an event record, coercing unknown types to OTHER
func NewEventLog(eventType EventType, userID *uuid.UUID, path string, metadata map[string]any) *EventLog {
	if !eventType.IsValid() {
		eventType = EventOther
	}
	return &EventLog{
		BaseEntity: shared.NewBaseEntity(),
		Type:       eventType,
		UserID:     userID,
		Path:       path,
		Metadata:   metadata,
	}
}

// DailyAnalytics is a per-day rollup of event and order activity.
// One row per date.
type DailyAnalytics struct {
	shared.BaseEntity
	Date       time.Time       `gorm:"type:date;uniqueIndex;not null"`
	Visitors   int64           `gorm:"not null;default:0"`
	PageViews  int64           `gorm:"not null;default:0"`
	OrderCount int64           `gorm:"not null;default:0"`
	Revenue    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
}

// TableName returns the database table name
func (DailyAnalytics) TableName() string {
	return "daily_analytics"
}

// DashboardSummary is a staff-facing snapshot of headline totals
type DashboardSummary struct {
	shared.BaseEntity
	TotalUsers    int64           `gorm:"not null;default:0"`
	TotalOrders   int64           `gorm:"not null;default:0"`
	TotalRevenue  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	OpenCSPosts  int64           `gorm:"not null;default:0"`
	GeneratedAt  time.Time       `gorm:"not null"`
	Detail       map[string]any  `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the database table name
func (DashboardSummary) TableName() string {
	return "dashboard_summaries"
}
