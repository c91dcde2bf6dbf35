package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/agoramall/backend/internal/domain/engagement"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLikeRepository implements engagement.LikeRepository using GORM
type GormLikeRepository struct {
	db *gorm.DB
}

// NewGormLikeRepository creates a new GormLikeRepository
func NewGormLikeRepository(db *gorm.DB) *GormLikeRepository {
	return &GormLikeRepository{db: db}
}

// Create stores a like; duplicates surface as ErrAlreadyExists
func (r *GormLikeRepository) Create(ctx context.Context, like *engagement.Like) error {
	err := r.db.WithContext(ctx).Create(like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a user's like on a target
func (r *GormLikeRepository) Delete(ctx context.Context, userID uuid.UUID, targetType engagement.TargetType, targetID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&engagement.Like{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Exists reports whether the user already likes the target
func (r *GormLikeRepository) Exists(ctx context.Context, userID uuid.UUID, targetType engagement.TargetType, targetID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&engagement.Like{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForTarget counts likes on a target
func (r *GormLikeRepository) CountForTarget(ctx context.Context, targetType engagement.TargetType, targetID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&engagement.Like{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// isUniqueViolation detects unique constraint errors the driver does not
// translate to gorm.ErrDuplicatedKey
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// Ensure GormLikeRepository implements LikeRepository
var _ engagement.LikeRepository = (*GormLikeRepository)(nil)

// GormPresetMessageRepository implements engagement.PresetMessageRepository using GORM
type GormPresetMessageRepository struct {
	db *gorm.DB
}

// NewGormPresetMessageRepository creates a new GormPresetMessageRepository
func NewGormPresetMessageRepository(db *gorm.DB) *GormPresetMessageRepository {
	return &GormPresetMessageRepository{db: db}
}

// Save persists a canned reply
func (r *GormPresetMessageRepository) Save(ctx context.Context, preset *engagement.PresetMessage) error {
	return r.db.WithContext(ctx).Save(preset).Error
}

// FindByID finds a canned reply by ID
func (r *GormPresetMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.PresetMessage, error) {
	var preset engagement.PresetMessage
	if err := r.db.WithContext(ctx).First(&preset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &preset, nil
}

// FindAll returns canned replies matching the filter
func (r *GormPresetMessageRepository) FindAll(ctx context.Context, filter shared.Filter) ([]engagement.PresetMessage, error) {
	var presets []engagement.PresetMessage
	query := r.db.WithContext(ctx).Model(&engagement.PresetMessage{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}
	query = applySort(query, filter, PresetMessageSortFields)
	query = applyPagination(query, filter)
	if err := query.Find(&presets).Error; err != nil {
		return nil, err
	}
	return presets, nil
}

// Count returns the number of canned replies matching the filter
func (r *GormPresetMessageRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&engagement.PresetMessage{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR content ILIKE ?", pattern, pattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a canned reply
func (r *GormPresetMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&engagement.PresetMessage{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByCategory returns canned replies in a category
func (r *GormPresetMessageRepository) FindByCategory(ctx context.Context, category string) ([]engagement.PresetMessage, error) {
	var presets []engagement.PresetMessage
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("title ASC").
		Find(&presets).Error; err != nil {
		return nil, err
	}
	return presets, nil
}

// Ensure GormPresetMessageRepository implements PresetMessageRepository
var _ engagement.PresetMessageRepository = (*GormPresetMessageRepository)(nil)
