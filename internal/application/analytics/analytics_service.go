package analytics

import (
	"context"
	"time"

	"github.com/agoramall/backend/internal/domain/analytics"
	"github.com/agoramall/backend/internal/domain/commerce"
	"github.com/agoramall/backend/internal/domain/identity"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/support"
	"go.uber.org/zap"
)

// AnalyticsService handles event ingestion, rollup queries and the staff
// dashboard
type AnalyticsService struct {
	analyticsRepo analytics.Repository
	userRepo      identity.UserRepository
	orderRepo     commerce.OrderRepository
	postRepo      support.PostRepository
	logger        *zap.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	analyticsRepo analytics.Repository,
	userRepo identity.UserRepository,
	orderRepo commerce.OrderRepository,
	postRepo support.PostRepository,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		userRepo:      userRepo,
		orderRepo:     orderRepo,
		postRepo:      postRepo,
		logger:        logger,
	}
}

// Ingest records a client event. Ingestion never fails the caller: unknown
// types are coerced and storage errors are only logged.
func (s *AnalyticsService) Ingest(ctx context.Context, input IngestEventInput) {
	event := analytics.NewEventLog(analytics.EventType(input.Type), input.UserID, input.Path, input.Metadata)

	if err := s.analyticsRepo.SaveEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to store analytics event",
			zap.String("type", string(event.Type)),
			zap.String("path", event.Path),
			zap.Error(err))
	}
}

// QueryEvents returns event logs for staff
func (s *AnalyticsService) QueryEvents(ctx context.Context, input QueryEventsInput) (*shared.Paginated[EventInfo], error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}

	filter := input.Filter
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	if input.Type != "" {
		filter.Filters["type"] = input.Type
	}
	if input.From != nil {
		filter.Filters["from"] = *input.From
	}
	if input.To != nil {
		filter.Filters["to"] = *input.To
	}

	events, total, err := s.analyticsRepo.FindEvents(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to query events", zap.Error(err))
		return nil, err
	}

	infos := make([]EventInfo, len(events))
	for i := range events {
		infos[i] = *NewEventInfo(&events[i])
	}
	result := shared.NewPaginated(infos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// DailyRange returns daily rollup rows for staff, oldest first
func (s *AnalyticsService) DailyRange(ctx context.Context, input DailyRangeInput) ([]DailyInfo, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}

	rows, err := s.analyticsRepo.FindDailyRange(ctx, input.From, input.To)
	if err != nil {
		s.logger.Error("Failed to load daily analytics", zap.Error(err))
		return nil, err
	}

	infos := make([]DailyInfo, len(rows))
	for i := range rows {
		infos[i] = *NewDailyInfo(&rows[i])
	}
	return infos, nil
}

// GetDashboard returns the latest dashboard snapshot for staff
func (s *AnalyticsService) GetDashboard(ctx context.Context, actor Actor) (*SummaryInfo, error) {
	if !actor.Staff {
		return nil, shared.ErrForbidden
	}

	summary, err := s.analyticsRepo.LatestSummary(ctx)
	if err != nil {
		return nil, err
	}
	return NewSummaryInfo(summary), nil
}

// RebuildDashboard recomputes and stores a dashboard snapshot
func (s *AnalyticsService) RebuildDashboard(ctx context.Context, actor Actor) (*SummaryInfo, error) {
	if !actor.Staff {
		return nil, shared.ErrForbidden
	}

	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, err
	}

	totals, err := s.orderRepo.TotalsBetween(ctx, time.Time{}, time.Now())
	if err != nil {
		s.logger.Error("Failed to total orders", zap.Error(err))
		return nil, err
	}

	openPosts, err := s.countOpenPosts(ctx)
	if err != nil {
		s.logger.Error("Failed to count open CS posts", zap.Error(err))
		return nil, err
	}

	summary := &analytics.DashboardSummary{
		BaseEntity:   shared.NewBaseEntity(),
		TotalUsers:   totalUsers,
		TotalOrders:  totals.Orders,
		TotalRevenue: totals.Revenue,
		OpenCSPosts:  openPosts,
		GeneratedAt:  time.Now(),
	}
	if err := s.analyticsRepo.SaveSummary(ctx, summary); err != nil {
		s.logger.Error("Failed to save dashboard summary", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Dashboard rebuilt",
		zap.Int64("total_users", totalUsers),
		zap.Int64("total_orders", totals.Orders),
		zap.Int64("open_cs_posts", openPosts))

	return NewSummaryInfo(summary), nil
}

// countOpenPosts sums pending and in-progress CS posts
func (s *AnalyticsService) countOpenPosts(ctx context.Context) (int64, error) {
	var open int64
	for _, status := range []support.PostStatus{support.PostStatusPending, support.PostStatusInProgress} {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(status)
		count, err := s.postRepo.Count(ctx, filter)
		if err != nil {
			return 0, err
		}
		open += count
	}
	return open, nil
}
