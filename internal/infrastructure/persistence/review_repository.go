package persistence

import (
	"context"
	"errors"

	"github.com/agoramall/backend/internal/domain/review"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReviewRepository implements review.Repository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Save persists a review and its report rows
func (r *GormReviewRepository) Save(ctx context.Context, rev *review.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Reports").Save(rev).Error; err != nil {
			return err
		}
		for i := range rev.Reports {
			rev.Reports[i].ReviewID = rev.ID
			if err := tx.Save(&rev.Reports[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a review with its reports loaded
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var rev review.Review
	if err := r.db.WithContext(ctx).
		Preload("Reports").
		First(&rev, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rev, nil
}

// FindAll returns reviews matching the filter
func (r *GormReviewRepository) FindAll(ctx context.Context, filter shared.Filter) ([]review.Review, error) {
	var reviews []review.Review
	query := r.applyFilter(r.db.WithContext(ctx).Model(&review.Review{}), filter)
	query = applySort(query, filter, ReviewSortFields)
	query = applyPagination(query, filter)
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindAllForOwner returns reviews written by the user
func (r *GormReviewRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]review.Review, error) {
	var reviews []review.Review
	query := r.applyFilter(r.db.WithContext(ctx).Model(&review.Review{}), filter).
		Where("owner_id = ?", ownerID)
	query = applySort(query, filter, ReviewSortFields)
	query = applyPagination(query, filter)
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Count returns the number of reviews matching the filter
func (r *GormReviewRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&review.Review{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForOwner returns the number of reviews written by the user
func (r *GormReviewRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&review.Review{}), filter).
		Where("owner_id = ?", ownerID)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a review and its reports
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&review.Report{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&review.Review{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindByTarget returns reviews for a target, best reviews first
func (r *GormReviewRepository) FindByTarget(ctx context.Context, targetID uuid.UUID, filter shared.Filter) ([]review.Review, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("target_id = ?", targetID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []review.Review
	query = query.Order("is_best DESC, created_at DESC")
	query = applyPagination(query, filter)
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// FindReported returns reviews carrying at least one report (staff view)
func (r *GormReviewRepository) FindReported(ctx context.Context, filter shared.Filter) ([]review.Review, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("reported = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []review.Review
	query = query.Order("created_at DESC")
	query = applyPagination(query, filter)
	if err := query.Preload("Reports").Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// AverageRating computes the mean rating for a target
func (r *GormReviewRepository) AverageRating(ctx context.Context, targetID uuid.UUID) (float64, error) {
	var avg *float64
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("target_id = ?", targetID).
		Select("AVG(rating)").
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

// applyFilter applies filter options to the query
func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("content ILIKE ?", "%"+filter.Search+"%")
	}
	if rating, ok := filter.Filters["rating"]; ok {
		query = query.Where("rating = ?", rating)
	}
	if isBest, ok := filter.Filters["is_best"]; ok {
		query = query.Where("is_best = ?", isBest)
	}
	return query
}

// Ensure GormReviewRepository implements Repository
var _ review.Repository = (*GormReviewRepository)(nil)
