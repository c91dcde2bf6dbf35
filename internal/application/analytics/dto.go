package analytics

import (
	"time"

	"github.com/agoramall/backend/internal/domain/analytics"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor identifies the caller of an analytics operation
type Actor struct {
	UserID uuid.UUID
	Staff  bool
}

// IngestEventInput is the input for ingesting a client event
type IngestEventInput struct {
	Type     string
	UserID   *uuid.UUID
	Path     string
	Metadata map[string]any
}

// QueryEventsInput is the input for the staff event-log query
type QueryEventsInput struct {
	Actor  Actor
	Type   string
	From   *time.Time
	To     *time.Time
	Filter shared.Filter
}

// DailyRangeInput is the input for the daily rollup range query
type DailyRangeInput struct {
	Actor Actor
	From  time.Time
	To    time.Time
}

// EventInfo is the event log DTO
type EventInfo struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	UserID    *uuid.UUID     `json:"user_id,omitempty"`
	Path      string         `json:"path"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// DailyInfo is the per-day rollup DTO
type DailyInfo struct {
	Date       string          `json:"date"`
	Visitors   int64           `json:"visitors"`
	PageViews  int64           `json:"page_views"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// SummaryInfo is the dashboard snapshot DTO
type SummaryInfo struct {
	TotalUsers   int64           `json:"total_users"`
	TotalOrders  int64           `json:"total_orders"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	OpenCSPosts  int64           `json:"open_cs_posts"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Detail       map[string]any  `json:"detail,omitempty"`
}

// NewEventInfo creates an EventInfo from an event log
func NewEventInfo(event *analytics.EventLog) *EventInfo {
	return &EventInfo{
		ID:        event.ID,
		Type:      string(event.Type),
		UserID:    event.UserID,
		Path:      event.Path,
		Metadata:  event.Metadata,
		CreatedAt: event.CreatedAt,
	}
}

// NewDailyInfo creates a DailyInfo from a rollup row
func NewDailyInfo(daily *analytics.DailyAnalytics) *DailyInfo {
	return &DailyInfo{
		Date:       daily.Date.Format("2006-01-02"),
		Visitors:   daily.Visitors,
		PageViews:  daily.PageViews,
		OrderCount: daily.OrderCount,
		Revenue:    daily.Revenue,
	}
}

// NewSummaryInfo creates a SummaryInfo from a dashboard snapshot
func NewSummaryInfo(summary *analytics.DashboardSummary) *SummaryInfo {
	return &SummaryInfo{
		TotalUsers:   summary.TotalUsers,
		TotalOrders:  summary.TotalOrders,
		TotalRevenue: summary.TotalRevenue,
		OpenCSPosts:  summary.OpenCSPosts,
		GeneratedAt:  summary.GeneratedAt,
		Detail:       summary.Detail,
	}
}
