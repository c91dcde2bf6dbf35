package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/agoramall/backend/internal/domain/notification"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save persists a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// FindAll returns notifications matching the filter (staff view)
func (r *GormNotificationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification
	query := r.applyFilter(r.db.WithContext(ctx).Model(&notification.Notification{}), filter)
	query = applySort(query, filter, NotificationSortFields)
	query = applyPagination(query, filter)
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindAllForOwner returns a user's notifications, newest first
func (r *GormNotificationRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	var notifications []notification.Notification
	query := r.applyFilter(r.db.WithContext(ctx).Model(&notification.Notification{}), filter).
		Where("owner_id = ?", ownerID)
	query = applySort(query, filter, NotificationSortFields)
	query = applyPagination(query, filter)
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// Count returns the number of notifications matching the filter
func (r *GormNotificationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&notification.Notification{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForOwner returns the number of a user's notifications
func (r *GormNotificationRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&notification.Notification{}), filter).
		Where("owner_id = ?", ownerID)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a notification
func (r *GormNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&notification.Notification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of a user as read and
// returns how many rows changed
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("owner_id = ? AND is_read = ?", ownerID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountUnread counts a user's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("owner_id = ? AND is_read = ?", ownerID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteReadBefore removes read notifications older than the cutoff
func (r *GormNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("is_read = ? AND read_at < ?", true, cutoff).
		Delete(&notification.Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SaveSetting upserts a user's notification settings
func (r *GormNotificationRepository) SaveSetting(ctx context.Context, setting *notification.Setting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"order_enabled", "chat_enabled", "cs_enabled", "system_enabled", "updated_at",
			}),
		}).
		Create(setting).Error
}

// FindSetting returns a user's settings, or the default when none exist
func (r *GormNotificationRepository) FindSetting(ctx context.Context, userID uuid.UUID) (*notification.Setting, error) {
	var setting notification.Setting
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notification.DefaultSetting(userID), nil
		}
		return nil, err
	}
	return &setting, nil
}

// applyFilter applies filter options to the query
func (r *GormNotificationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if notificationType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", notificationType)
	}
	if isRead, ok := filter.Filters["is_read"]; ok {
		query = query.Where("is_read = ?", isRead)
	}
	return query
}

// Ensure GormNotificationRepository implements Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
