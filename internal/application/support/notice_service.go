package support

import (
	"context"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/support"
	"github.com/agoramall/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NoticeService handles announcement reading and staff publishing. Reads
// bump a cached view counter which FlushViewCounts periodically folds into
// the stored totals.
type NoticeService struct {
	noticeRepo support.NoticeRepository
	views      cache.ViewCounter
	logger     *zap.Logger
}

// NewNoticeService creates a new notice service
func NewNoticeService(noticeRepo support.NoticeRepository, views cache.ViewCounter, logger *zap.Logger) *NoticeService {
	return &NoticeService{
		noticeRepo: noticeRepo,
		views:      views,
		logger:     logger,
	}
}

// List returns notices, important ones first
func (s *NoticeService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[NoticeInfo], error) {
	notices, err := s.noticeRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list notices", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list notices")
	}
	total, err := s.noticeRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count notices", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list notices")
	}

	items := make([]NoticeInfo, 0, len(notices))
	for i := range notices {
		items = append(items, NewNoticeInfo(&notices[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Get returns a notice and records the view
func (s *NoticeService) Get(ctx context.Context, noticeID uuid.UUID) (*NoticeInfo, error) {
	notice, err := s.noticeRepo.FindByID(ctx, noticeID)
	if err != nil {
		return nil, err
	}
	if s.views != nil {
		if err := s.views.Bump(ctx, noticeID.String()); err != nil {
			s.logger.Warn("Failed to record notice view",
				zap.String("notice_id", noticeID.String()), zap.Error(err))
		}
	}
	info := NewNoticeInfo(notice)
	return &info, nil
}

// Create publishes a notice (staff only)
func (s *NoticeService) Create(ctx context.Context, input CreateNoticeInput) (*NoticeInfo, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	notice, err := support.NewNotice(input.Title, input.Content, input.Important)
	if err != nil {
		return nil, err
	}
	if err := s.noticeRepo.Save(ctx, notice); err != nil {
		s.logger.Error("Failed to save notice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save notice")
	}

	s.logger.Info("Notice published",
		zap.String("notice_id", notice.ID.String()),
		zap.Bool("important", notice.IsImportant))

	info := NewNoticeInfo(notice)
	return &info, nil
}

// Update edits a notice (staff only)
func (s *NoticeService) Update(ctx context.Context, input UpdateNoticeInput) (*NoticeInfo, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	notice, err := s.noticeRepo.FindByID(ctx, input.NoticeID)
	if err != nil {
		return nil, err
	}
	if err := notice.Update(input.Title, input.Content, input.Important); err != nil {
		return nil, err
	}
	if err := s.noticeRepo.Save(ctx, notice); err != nil {
		s.logger.Error("Failed to save notice", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save notice")
	}
	info := NewNoticeInfo(notice)
	return &info, nil
}

// Delete removes a notice (staff only)
func (s *NoticeService) Delete(ctx context.Context, noticeID uuid.UUID, actor Actor) error {
	if !actor.Staff {
		return shared.ErrForbidden
	}
	if err := s.noticeRepo.Delete(ctx, noticeID); err != nil {
		s.logger.Error("Failed to delete notice", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete notice")
	}
	return nil
}

// FlushViewCounts drains the cached view counter into the stored totals.
// It returns how many notices were updated and is wired to the periodic
// sweeper.
func (s *NoticeService) FlushViewCounts(ctx context.Context) (int64, error) {
	if s.views == nil {
		return 0, nil
	}
	counts, err := s.views.Drain(ctx)
	if err != nil {
		return 0, err
	}

	var flushed int64
	for key, delta := range counts {
		id, err := uuid.Parse(key)
		if err != nil {
			continue
		}
		if err := s.noticeRepo.IncrementViewCount(ctx, id, delta); err != nil {
			s.logger.Warn("Failed to flush view count",
				zap.String("notice_id", key), zap.Error(err))
			continue
		}
		flushed++
	}
	return flushed, nil
}
