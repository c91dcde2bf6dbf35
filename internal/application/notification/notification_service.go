package notification

import (
	"context"
	"errors"
	"time"

	"github.com/agoramall/backend/internal/domain/identity"
	"github.com/agoramall/backend/internal/domain/notification"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const broadcastPageSize = 500

// UserPusher delivers notifications to connected websocket clients. The
// hub in the interfaces layer implements it; a nil pusher disables push.
type UserPusher interface {
	PushToUser(userID uuid.UUID, event string, payload any)
}

// PushEventNotification is the websocket event name for a new notification
const PushEventNotification = "notification.created"

// NotificationService handles delivery, listing and settings
type NotificationService struct {
	notifRepo notification.Repository
	userRepo  identity.UserRepository
	pusher    UserPusher
	logger    *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notifRepo notification.Repository,
	userRepo identity.UserRepository,
	pusher UserPusher,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		pusher:    pusher,
		logger:    logger,
	}
}

// Notify delivers one notification, honoring the recipient's per-type
// toggles. A muted type is skipped without error.
func (s *NotificationService) Notify(ctx context.Context, input NotifyInput) error {
	notifType := notification.Type(input.Type)

	setting, err := s.notifRepo.FindSetting(ctx, input.RecipientID)
	if err != nil {
		s.logger.Warn("Failed to load notification settings, assuming defaults",
			zap.String("user_id", input.RecipientID.String()), zap.Error(err))
		setting = notification.DefaultSetting(input.RecipientID)
	}
	if !setting.Allows(notifType) {
		return nil
	}

	n, err := notification.New(input.RecipientID, notifType, input.Title, input.Message, input.Link)
	if err != nil {
		return err
	}
	if err := s.notifRepo.Save(ctx, n); err != nil {
		s.logger.Error("Failed to save notification", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to deliver notification")
	}

	if s.pusher != nil {
		s.pusher.PushToUser(n.OwnerID, PushEventNotification, NewNotificationInfo(n))
	}
	return nil
}

// NotifyUser is a convenience wrapper for system notifications. The work
// reminder job uses it.
func (s *NotificationService) NotifyUser(ctx context.Context, recipientID uuid.UUID, title, message, link string) error {
	return s.Notify(ctx, NotifyInput{
		RecipientID: recipientID,
		Type:        string(notification.TypeSystem),
		Title:       title,
		Message:     message,
		Link:        link,
	})
}

// List returns a user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, input ListInput) (*shared.Paginated[NotificationInfo], error) {
	filter := input.Filter
	if input.UnreadOnly {
		if filter.Filters == nil {
			filter.Filters = make(map[string]interface{})
		}
		filter.Filters["is_read"] = false
	}

	notifications, err := s.notifRepo.FindAllForOwner(ctx, input.UserID, filter)
	if err != nil {
		s.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list notifications")
	}
	total, err := s.notifRepo.CountForOwner(ctx, input.UserID, filter)
	if err != nil {
		s.logger.Error("Failed to count notifications", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list notifications")
	}

	items := make([]NotificationInfo, 0, len(notifications))
	for i := range notifications {
		items = append(items, NewNotificationInfo(&notifications[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// CountUnread counts a user's unread notifications
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count unread notifications", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to count notifications")
	}
	return count, nil
}

// MarkRead marks one notification read (owner only)
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	n, err := s.notifRepo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if !n.IsOwnedBy(userID) {
		return shared.ErrNotFound
	}
	if !n.MarkRead() {
		return nil
	}
	if err := s.notifRepo.Save(ctx, n); err != nil {
		s.logger.Error("Failed to save notification", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to mark notification read")
	}
	return nil
}

// MarkAllRead marks every unread notification of the user read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	changed, err := s.notifRepo.MarkAllRead(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to mark notifications read", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to mark notifications read")
	}
	return changed, nil
}

// Delete removes one notification (owner only)
func (s *NotificationService) Delete(ctx context.Context, notificationID, userID uuid.UUID) error {
	n, err := s.notifRepo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if !n.IsOwnedBy(userID) {
		return shared.ErrNotFound
	}
	if err := s.notifRepo.Delete(ctx, notificationID); err != nil {
		s.logger.Error("Failed to delete notification", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete notification")
	}
	return nil
}

// Broadcast sends a system notification to every user (staff only). Users
// who muted system notifications are skipped.
func (s *NotificationService) Broadcast(ctx context.Context, input BroadcastInput) (*BroadcastResult, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}

	result := &BroadcastResult{}
	filter := shared.DefaultFilter()
	filter.PageSize = broadcastPageSize

	for page := 1; ; page++ {
		filter.Page = page
		users, _, err := s.userRepo.FindAll(ctx, filter)
		if err != nil {
			s.logger.Error("Failed to page users for broadcast", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to broadcast")
		}
		if len(users) == 0 {
			break
		}

		for _, user := range users {
			err := s.Notify(ctx, NotifyInput{
				RecipientID: user.ID,
				Type:        string(notification.TypeSystem),
				Title:       input.Title,
				Message:     input.Message,
				Link:        input.Link,
			})
			if err != nil {
				var domainErr *shared.DomainError
				if errors.As(err, &domainErr) {
					s.logger.Warn("Failed to deliver broadcast notification",
						zap.String("user_id", user.ID.String()), zap.Error(err))
				}
				result.Skipped++
				continue
			}
			result.Delivered++
		}

		if len(users) < broadcastPageSize {
			break
		}
	}

	s.logger.Info("Broadcast sent",
		zap.Int64("delivered", result.Delivered),
		zap.Int64("skipped", result.Skipped))
	return result, nil
}

// GetSetting returns the user's notification toggles, defaults when unset
func (s *NotificationService) GetSetting(ctx context.Context, userID uuid.UUID) (*SettingInfo, error) {
	setting, err := s.notifRepo.FindSetting(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load notification settings", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load settings")
	}
	info := NewSettingInfo(setting)
	return &info, nil
}

// UpdateSetting replaces the user's notification toggles
func (s *NotificationService) UpdateSetting(ctx context.Context, input UpdateSettingInput) (*SettingInfo, error) {
	setting, err := s.notifRepo.FindSetting(ctx, input.UserID)
	if err != nil {
		setting = notification.DefaultSetting(input.UserID)
	}
	setting.OrderEnabled = input.OrderEnabled
	setting.ChatEnabled = input.ChatEnabled
	setting.CSEnabled = input.CSEnabled
	setting.SystemEnabled = input.SystemEnabled

	if err := s.notifRepo.SaveSetting(ctx, setting); err != nil {
		s.logger.Error("Failed to save notification settings", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save settings")
	}
	info := NewSettingInfo(setting)
	return &info, nil
}

// SweepExpired removes read notifications older than the retention period.
// The retention sweeper calls it periodically.
func (s *NotificationService) SweepExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-notification.RetentionPeriod)
	removed, err := s.notifRepo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("Expired notifications removed", zap.Int64("count", removed))
	}
	return removed, nil
}
