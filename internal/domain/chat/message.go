package chat

import (
	"strings"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MessageType distinguishes message payloads
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeFile   MessageType = "file"
	MessageTypeSystem MessageType = "system"
)

// IsValid checks if the message type is a known value
func (t MessageType) IsValid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile, MessageTypeSystem:
		return true
	}
	return false
}

// EditWindow is how long after creation a sender may edit or delete a
// message. Requests outside the window are rejected.
const EditWindow = 5 * time.Minute

// MessageRead records that a user has read a message
type MessageRead struct {
	shared.BaseEntity
	MessageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_message_reader"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_message_reader"`
	ReadAt    time.Time `gorm:"not null"`
}

// TableName returns the database table name
func (MessageRead) TableName() string {
	return "chat_message_reads"
}

// Message is a chat message inside a room
type Message struct {
	shared.BaseAggregateRoot
	RoomID   uuid.UUID     `gorm:"type:uuid;not null;index"`
	SenderID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Type     MessageType   `gorm:"not null;size:10"`
	Content  string        `gorm:"size:2000"`
	FileURL  string        `gorm:"size:500"`
	Edited   bool          `gorm:"not null;default:false"`
	EditedAt *time.Time
	Deleted  bool `gorm:"not null;default:false"`
	DeletedAt *time.Time
	ReadBy    []MessageRead `gorm:"foreignKey:MessageID"`
}

// TableName returns the database table name
func (Message) TableName() string {
	return "chat_messages"
}

// NewTextMessage creates a text message
func NewTextMessage(roomID, senderID uuid.UUID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "message content is required")
	}
	return newMessage(roomID, senderID, MessageTypeText, content, "")
}

// NewFileMessage creates an image or file message pointing at stored content
func NewFileMessage(roomID, senderID uuid.UUID, msgType MessageType, fileURL string) (*Message, error) {
	if msgType != MessageTypeImage && msgType != MessageTypeFile {
		return nil, shared.NewDomainError("INVALID_INPUT", "file messages must be image or file type")
	}
	if strings.TrimSpace(fileURL) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "file URL is required")
	}
	return newMessage(roomID, senderID, msgType, "", fileURL)
}

// NewSystemMessage creates a system message (joins, leaves)
func NewSystemMessage(roomID uuid.UUID, content string) (*Message, error) {
	return newMessage(roomID, uuid.Nil, MessageTypeSystem, content, "")
}

func newMessage(roomID, senderID uuid.UUID, msgType MessageType, content, fileURL string) (*Message, error) {
	if roomID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "room ID is required")
	}
	if msgType != MessageTypeSystem && senderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "sender is required")
	}
	return &Message{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RoomID:            roomID,
		SenderID:          senderID,
		Type:              msgType,
		Content:           content,
		FileURL:           fileURL,
	}, nil
}

// canModify enforces the sender-only, in-window modification rule
func (m *Message) canModify(userID uuid.UUID, now time.Time) error {
	if m.Deleted {
		return shared.ErrNotFound
	}
	if m.SenderID != userID {
		return shared.ErrForbidden
	}
	if now.Sub(m.CreatedAt) > EditWindow {
		return shared.ErrEditWindowExpired
	}
	return nil
}

// Edit replaces the content of a text message. Only the sender may edit and
// only within EditWindow of creation.
func (m *Message) Edit(userID uuid.UUID, content string, now time.Time) error {
	if err := m.canModify(userID, now); err != nil {
		return err
	}
	if m.Type != MessageTypeText {
		return shared.NewDomainError("INVALID_STATE", "only text messages can be edited")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return shared.NewDomainError("INVALID_INPUT", "message content is required")
	}
	m.Content = content
	m.Edited = true
	m.EditedAt = &now
	m.UpdatedAt = now
	return nil
}

// Delete soft-deletes a message under the same sender/window rule
func (m *Message) Delete(userID uuid.UUID, now time.Time) error {
	if err := m.canModify(userID, now); err != nil {
		return err
	}
	m.Deleted = true
	m.DeletedAt = &now
	m.Content = ""
	m.FileURL = ""
	m.UpdatedAt = now
	return nil
}

// MarkReadBy records that a user has read the message. Duplicate reads are
// no-ops.
func (m *Message) MarkReadBy(userID uuid.UUID) bool {
	for _, r := range m.ReadBy {
		if r.UserID == userID {
			return false
		}
	}
	m.ReadBy = append(m.ReadBy, MessageRead{
		BaseEntity: shared.NewBaseEntity(),
		MessageID:  m.ID,
		UserID:     userID,
		ReadAt:     time.Now(),
	})
	return true
}
