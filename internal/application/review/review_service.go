package review

import (
	"context"

	"github.com/agoramall/backend/internal/domain/moderation"
	"github.com/agoramall/backend/internal/domain/review"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReviewService handles review writing, curation and reporting
type ReviewService struct {
	reviewRepo review.Repository
	profanity  *moderation.Filter
	logger     *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(reviewRepo review.Repository, profanity *moderation.Filter, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		profanity:  profanity,
		logger:     logger,
	}
}

// Create writes a review. Content passes through the profanity mask.
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (*ReviewInfo, error) {
	r, err := review.NewReview(input.OwnerID, input.TargetID, input.Rating, s.profanity.Mask(input.Content), input.ImageURL)
	if err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		s.logger.Error("Failed to save review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save review")
	}

	s.logger.Info("Review created",
		zap.String("review_id", r.ID.String()),
		zap.String("target_id", r.TargetID.String()),
		zap.Int("rating", r.Rating))

	info := NewReviewInfo(r)
	return &info, nil
}

// Get returns a single review
func (s *ReviewService) Get(ctx context.Context, reviewID uuid.UUID) (*ReviewInfo, error) {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	info := NewReviewInfo(r)
	return &info, nil
}

// Update edits a review. Only the author or staff may edit.
func (s *ReviewService) Update(ctx context.Context, input UpdateReviewInput) (*ReviewInfo, error) {
	r, err := s.loadEditable(ctx, input.ReviewID, input.Actor)
	if err != nil {
		return nil, err
	}
	if err := r.Update(input.Rating, s.profanity.Mask(input.Content), input.ImageURL); err != nil {
		return nil, err
	}
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		s.logger.Error("Failed to save review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save review")
	}
	info := NewReviewInfo(r)
	return &info, nil
}

// Delete removes a review. Only the author or staff may delete.
func (s *ReviewService) Delete(ctx context.Context, reviewID uuid.UUID, actor Actor) error {
	if _, err := s.loadEditable(ctx, reviewID, actor); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		s.logger.Error("Failed to delete review", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete review")
	}
	s.logger.Info("Review deleted", zap.String("review_id", reviewID.String()))
	return nil
}

// ListByTarget returns reviews of a target with the target's mean rating.
// Best reviews come first in the page ordering.
func (s *ReviewService) ListByTarget(ctx context.Context, input ListByTargetInput) (*TargetReviews, error) {
	reviews, total, err := s.reviewRepo.FindByTarget(ctx, input.TargetID, input.Filter)
	if err != nil {
		s.logger.Error("Failed to list reviews", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list reviews")
	}

	avg, err := s.reviewRepo.AverageRating(ctx, input.TargetID)
	if err != nil {
		s.logger.Warn("Failed to compute average rating",
			zap.String("target_id", input.TargetID.String()), zap.Error(err))
	}

	items := make([]ReviewInfo, 0, len(reviews))
	for i := range reviews {
		items = append(items, NewReviewInfo(&reviews[i]))
	}
	return &TargetReviews{
		Reviews:       shared.NewPaginated(items, total, input.Filter.Page, input.Filter.PageSize),
		AverageRating: avg,
	}, nil
}

// ListMine returns the requesting user's own reviews
func (s *ReviewService) ListMine(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (*shared.Paginated[ReviewInfo], error) {
	reviews, err := s.reviewRepo.FindAllForOwner(ctx, ownerID, filter)
	if err != nil {
		s.logger.Error("Failed to list reviews", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list reviews")
	}
	total, err := s.reviewRepo.CountForOwner(ctx, ownerID, filter)
	if err != nil {
		s.logger.Error("Failed to count reviews", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list reviews")
	}

	items := make([]ReviewInfo, 0, len(reviews))
	for i := range reviews {
		items = append(items, NewReviewInfo(&reviews[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Report files a report against a review. A reporter may report a review
// only once.
func (s *ReviewService) Report(ctx context.Context, input ReportReviewInput) error {
	r, err := s.reviewRepo.FindByID(ctx, input.ReviewID)
	if err != nil {
		return err
	}
	if _, err := r.AddReport(input.ReporterID, input.Reason); err != nil {
		return err
	}
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		s.logger.Error("Failed to save review report", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to report review")
	}

	s.logger.Info("Review reported",
		zap.String("review_id", r.ID.String()),
		zap.String("reporter_id", input.ReporterID.String()))
	return nil
}

// MarkBest toggles the curated best-review flag (staff only)
func (s *ReviewService) MarkBest(ctx context.Context, input MarkBestInput) (*ReviewInfo, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	r, err := s.reviewRepo.FindByID(ctx, input.ReviewID)
	if err != nil {
		return nil, err
	}
	r.MarkBest(input.Best)
	if err := s.reviewRepo.Save(ctx, r); err != nil {
		s.logger.Error("Failed to save review", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update review")
	}
	info := NewReviewInfo(r)
	return &info, nil
}

// ListReported returns the moderation queue of reported reviews (staff only)
func (s *ReviewService) ListReported(ctx context.Context, input ListReportedInput) (*shared.Paginated[ReviewInfo], error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	reviews, total, err := s.reviewRepo.FindReported(ctx, input.Filter)
	if err != nil {
		s.logger.Error("Failed to list reported reviews", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list reported reviews")
	}

	items := make([]ReviewInfo, 0, len(reviews))
	for i := range reviews {
		items = append(items, NewReviewInfo(&reviews[i]))
	}
	result := shared.NewPaginated(items, total, input.Filter.Page, input.Filter.PageSize)
	return &result, nil
}

// loadEditable loads a review and enforces the author/staff edit rule
func (s *ReviewService) loadEditable(ctx context.Context, reviewID uuid.UUID, actor Actor) (*review.Review, error) {
	r, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !actor.Staff && !r.IsOwnedBy(actor.UserID) {
		return nil, shared.ErrForbidden
	}
	return r, nil
}
