package notification

import (
	"time"

	"github.com/agoramall/backend/internal/domain/notification"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Actor identifies the requesting user and whether they hold a staff role
type Actor struct {
	UserID uuid.UUID
	Staff  bool
}

// NotifyInput contains input for delivering one notification
type NotifyInput struct {
	RecipientID uuid.UUID
	Type        string
	Title       string
	Message     string
	Link        string
}

// BroadcastInput contains input for a staff announcement to all users
type BroadcastInput struct {
	Actor   Actor
	Title   string
	Message string
	Link    string
}

// BroadcastResult reports how many users received a broadcast
type BroadcastResult struct {
	Delivered int64 `json:"delivered"`
	Skipped   int64 `json:"skipped"`
}

// ListInput contains input for listing a user's notifications
type ListInput struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Filter     shared.Filter
}

// UpdateSettingInput contains input for the per-type notification toggles
type UpdateSettingInput struct {
	UserID        uuid.UUID
	OrderEnabled  bool
	ChatEnabled   bool
	CSEnabled     bool
	SystemEnabled bool
}

// NotificationInfo is the notification representation returned by services
type NotificationInfo struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      string     `json:"link,omitempty"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// SettingInfo is the notification setting representation
type SettingInfo struct {
	OrderEnabled  bool `json:"order_enabled"`
	ChatEnabled   bool `json:"chat_enabled"`
	CSEnabled     bool `json:"cs_enabled"`
	SystemEnabled bool `json:"system_enabled"`
}

// NewNotificationInfo maps a notification to its service representation
func NewNotificationInfo(n *notification.Notification) NotificationInfo {
	return NotificationInfo{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// NewSettingInfo maps a setting to its service representation
func NewSettingInfo(s *notification.Setting) SettingInfo {
	return SettingInfo{
		OrderEnabled:  s.OrderEnabled,
		ChatEnabled:   s.ChatEnabled,
		CSEnabled:     s.CSEnabled,
		SystemEnabled: s.SystemEnabled,
	}
}
