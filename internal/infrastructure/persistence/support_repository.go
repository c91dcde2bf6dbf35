package persistence

import (
	"context"
	"errors"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/support"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCSPostRepository implements support.PostRepository using GORM
type GormCSPostRepository struct {
	db *gorm.DB
}

// NewGormCSPostRepository creates a new GormCSPostRepository
func NewGormCSPostRepository(db *gorm.DB) *GormCSPostRepository {
	return &GormCSPostRepository{db: db}
}

// Save persists a post and its staff replies
func (r *GormCSPostRepository) Save(ctx context.Context, post *support.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Replies").Save(post).Error; err != nil {
			return err
		}
		for i := range post.Replies {
			post.Replies[i].PostID = post.ID
			if err := tx.Save(&post.Replies[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a post with replies loaded
func (r *GormCSPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.Post, error) {
	var post support.Post
	if err := r.db.WithContext(ctx).
		Preload("Replies").
		First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// FindAll returns posts matching the filter (staff view)
func (r *GormCSPostRepository) FindAll(ctx context.Context, filter shared.Filter) ([]support.Post, error) {
	var posts []support.Post
	query := r.applyFilter(r.db.WithContext(ctx).Model(&support.Post{}), filter)
	query = applySort(query, filter, CSPostSortFields)
	query = applyPagination(query, filter)
	if err := query.Preload("Replies").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindAllForOwner returns posts opened by the user
func (r *GormCSPostRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]support.Post, error) {
	var posts []support.Post
	query := r.applyFilter(r.db.WithContext(ctx).Model(&support.Post{}), filter).
		Where("owner_id = ?", ownerID)
	query = applySort(query, filter, CSPostSortFields)
	query = applyPagination(query, filter)
	if err := query.Preload("Replies").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Count returns the number of posts matching the filter
func (r *GormCSPostRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&support.Post{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForOwner returns the number of posts opened by the user
func (r *GormCSPostRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&support.Post{}), filter).
		Where("owner_id = ?", ownerID)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a post and its replies
func (r *GormCSPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&support.Reply{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&support.Post{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies filter options to the query
func (r *GormCSPostRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if postType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", postType)
	}
	return query
}

// Ensure GormCSPostRepository implements PostRepository
var _ support.PostRepository = (*GormCSPostRepository)(nil)

// GormFAQRepository implements support.FAQRepository using GORM
type GormFAQRepository struct {
	db *gorm.DB
}

// NewGormFAQRepository creates a new GormFAQRepository
func NewGormFAQRepository(db *gorm.DB) *GormFAQRepository {
	return &GormFAQRepository{db: db}
}

// Save persists an FAQ
func (r *GormFAQRepository) Save(ctx context.Context, faq *support.FAQ) error {
	return r.db.WithContext(ctx).Save(faq).Error
}

// FindByID finds an FAQ by ID
func (r *GormFAQRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.FAQ, error) {
	var faq support.FAQ
	if err := r.db.WithContext(ctx).First(&faq, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &faq, nil
}

// FindAll returns FAQs matching the filter (staff view, drafts included)
func (r *GormFAQRepository) FindAll(ctx context.Context, filter shared.Filter) ([]support.FAQ, error) {
	var faqs []support.FAQ
	query := r.db.WithContext(ctx).Model(&support.FAQ{})
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}
	query = applySort(query, filter, FAQSortFields)
	query = applyPagination(query, filter)
	if err := query.Find(&faqs).Error; err != nil {
		return nil, err
	}
	return faqs, nil
}

// Count returns the number of FAQs matching the filter
func (r *GormFAQRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&support.FAQ{})
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes an FAQ
func (r *GormFAQRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&support.FAQ{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindPublished returns published FAQs ordered by category and sort order
func (r *GormFAQRepository) FindPublished(ctx context.Context, category string) ([]support.FAQ, error) {
	query := r.db.WithContext(ctx).
		Model(&support.FAQ{}).
		Where("published = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var faqs []support.FAQ
	if err := query.Order("category ASC, sort_order ASC").Find(&faqs).Error; err != nil {
		return nil, err
	}
	return faqs, nil
}

// Ensure GormFAQRepository implements FAQRepository
var _ support.FAQRepository = (*GormFAQRepository)(nil)

// GormNoticeRepository implements support.NoticeRepository using GORM
type GormNoticeRepository struct {
	db *gorm.DB
}

// NewGormNoticeRepository creates a new GormNoticeRepository
func NewGormNoticeRepository(db *gorm.DB) *GormNoticeRepository {
	return &GormNoticeRepository{db: db}
}

// Save persists a notice
func (r *GormNoticeRepository) Save(ctx context.Context, notice *support.Notice) error {
	return r.db.WithContext(ctx).Save(notice).Error
}

// FindByID finds a notice by ID
func (r *GormNoticeRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.Notice, error) {
	var notice support.Notice
	if err := r.db.WithContext(ctx).First(&notice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &notice, nil
}

// FindAll returns notices, important notices pinned first
func (r *GormNoticeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]support.Notice, error) {
	var notices []support.Notice
	query := r.db.WithContext(ctx).Model(&support.Notice{})
	if filter.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Search+"%")
	}
	query = query.Order("is_important DESC, created_at DESC")
	query = applyPagination(query, filter)
	if err := query.Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

// Count returns the number of notices matching the filter
func (r *GormNoticeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&support.Notice{})
	if filter.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Search+"%")
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a notice
func (r *GormNoticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&support.Notice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IncrementViewCount bumps the view counter without touching other fields
func (r *GormNoticeRepository) IncrementViewCount(ctx context.Context, id uuid.UUID, delta int64) error {
	result := r.db.WithContext(ctx).
		Model(&support.Notice{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormNoticeRepository implements NoticeRepository
var _ support.NoticeRepository = (*GormNoticeRepository)(nil)
