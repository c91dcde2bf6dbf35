package notification

import (
	"strings"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Type categorizes a notification by its source
type Type string

const (
	TypeOrder  Type = "order"
	TypeChat   Type = "chat"
	TypeCS     Type = "cs"
	TypeSystem Type = "system"
)

// IsValid checks if the notification type is a known value
func (t Type) IsValid() bool {
	switch t {
	case TypeOrder, TypeChat, TypeCS, TypeSystem:
		return true
	}
	return false
}

// RetentionPeriod is how long read notifications are kept before the daily
// sweep removes them.
const RetentionPeriod = 30 * 24 * time.Hour

// Notification is a message addressed to a single user
type Notification struct {
	shared.OwnedAggregateRoot
	Type    Type   `gorm:"not null;size:20;index"`
	Title   string `gorm:"not null;size:200"`
	Message string `gorm:"not null;size:1000"`
	Link    string `gorm:"size:500"` // optional deep link into the front-end
	IsRead  bool   `gorm:"not null;default:false;index"`
	ReadAt  *time.Time
}

// TableName returns the database table name
func (Notification) TableName() string {
	return "notifications"
}

// New creates a notification for a user
func New(recipientID uuid.UUID, notifType Type, title, message, link string) (*Notification, error) {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if recipientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "recipient is required")
	}
	if !notifType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown notification type")
	}
	if title == "" || message == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "title and message are required")
	}
	return &Notification{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(recipientID),
		Type:               notifType,
		Title:              title,
		Message:            message,
		Link:               link,
	}, nil
}

// MarkRead marks the notification read. Re-reading is a no-op.
func (n *Notification) MarkRead() bool {
	if n.IsRead {
		return false
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	n.UpdatedAt = now
	return true
}

// Setting holds a user's per-type notification toggles
type Setting struct {
	shared.BaseEntity
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	OrderEnabled  bool      `gorm:"not null;default:true"`
	ChatEnabled   bool      `gorm:"not null;default:true"`
	CSEnabled     bool      `gorm:"not null;default:true"`
	SystemEnabled bool      `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Setting) TableName() string {
	return "notification_settings"
}

// DefaultSetting returns the all-enabled default for a user
func DefaultSetting(userID uuid.UUID) *Setting {
	return &Setting{
		BaseEntity:    shared.NewBaseEntity(),
		UserID:        userID,
		OrderEnabled:  true,
		ChatEnabled:   true,
		CSEnabled:     true,
		SystemEnabled: true,
	}
}

// Allows reports whether the user accepts notifications of the given type
func (s *Setting) Allows(notifType Type) bool {
	switch notifType {
	case TypeOrder:
		return s.OrderEnabled
	case TypeChat:
		return s.ChatEnabled
	case TypeCS:
		return s.CSEnabled
	case TypeSystem:
		return s.SystemEnabled
	}
	return false
}
