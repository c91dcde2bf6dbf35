package support

import (
	"context"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/support"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FAQService handles FAQ reading and staff curation
type FAQService struct {
	faqRepo support.FAQRepository
	logger  *zap.Logger
}

// NewFAQService creates a new FAQ service
func NewFAQService(faqRepo support.FAQRepository, logger *zap.Logger) *FAQService {
	return &FAQService{faqRepo: faqRepo, logger: logger}
}

// ListPublished returns published FAQs, optionally narrowed to a category
func (s *FAQService) ListPublished(ctx context.Context, category string) ([]FAQInfo, error) {
	faqs, err := s.faqRepo.FindPublished(ctx, category)
	if err != nil {
		s.logger.Error("Failed to list FAQs", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list FAQs")
	}
	items := make([]FAQInfo, 0, len(faqs))
	for i := range faqs {
		items = append(items, NewFAQInfo(&faqs[i]))
	}
	return items, nil
}

// ListAll returns every FAQ including unpublished drafts (staff only)
func (s *FAQService) ListAll(ctx context.Context, actor Actor, filter shared.Filter) (*shared.Paginated[FAQInfo], error) {
	if !actor.Staff {
		return nil, shared.ErrForbidden
	}
	faqs, err := s.faqRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list FAQs", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list FAQs")
	}
	total, err := s.faqRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count FAQs", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list FAQs")
	}

	items := make([]FAQInfo, 0, len(faqs))
	for i := range faqs {
		items = append(items, NewFAQInfo(&faqs[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Create publishes a new FAQ entry (staff only)
func (s *FAQService) Create(ctx context.Context, input CreateFAQInput) (*FAQInfo, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	faq, err := support.NewFAQ(input.Category, input.Question, input.Answer, input.SortOrder)
	if err != nil {
		return nil, err
	}
	if err := s.faqRepo.Save(ctx, faq); err != nil {
		s.logger.Error("Failed to save FAQ", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save FAQ")
	}
	info := NewFAQInfo(faq)
	return &info, nil
}

// Update edits an FAQ entry (staff only)
func (s *FAQService) Update(ctx context.Context, input UpdateFAQInput) (*FAQInfo, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	faq, err := s.faqRepo.FindByID(ctx, input.FAQID)
	if err != nil {
		return nil, err
	}
	if err := faq.Update(input.Category, input.Question, input.Answer, input.SortOrder, input.Published); err != nil {
		return nil, err
	}
	if err := s.faqRepo.Save(ctx, faq); err != nil {
		s.logger.Error("Failed to save FAQ", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save FAQ")
	}
	info := NewFAQInfo(faq)
	return &info, nil
}

// Delete removes an FAQ entry (staff only)
func (s *FAQService) Delete(ctx context.Context, faqID uuid.UUID, actor Actor) error {
	if !actor.Staff {
		return shared.ErrForbidden
	}
	if err := s.faqRepo.Delete(ctx, faqID); err != nil {
		s.logger.Error("Failed to delete FAQ", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete FAQ")
	}
	return nil
}
