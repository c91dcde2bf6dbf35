package chat

import (
	"time"

	"github.com/agoramall/backend/internal/domain/chat"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreateDirectRoomInput contains input for opening a direct room
type CreateDirectRoomInput struct {
	CreatorID uuid.UUID
	OtherID   uuid.UUID
}

// CreateGroupRoomInput contains input for creating a group room
type CreateGroupRoomInput struct {
	CreatorID uuid.UUID
	Name      string
}

// ListRoomsInput contains input for listing a user's rooms
type ListRoomsInput struct {
	UserID uuid.UUID
	Filter shared.Filter
}

// SendMessageInput contains input for sending a message
type SendMessageInput struct {
	RoomID   uuid.UUID
	SenderID uuid.UUID
	Type     string // text, image or file
	Content  string
	FileURL  string
}

// EditMessageInput contains input for editing a text message
type EditMessageInput struct {
	MessageID uuid.UUID
	UserID    uuid.UUID
	Content   string
}

// ListMessagesInput contains input for listing messages in a room
type ListMessagesInput struct {
	RoomID uuid.UUID
	UserID uuid.UUID
	Filter shared.Filter
}

// UploadURLInput contains input for issuing a presigned attachment upload
type UploadURLInput struct {
	RoomID      uuid.UUID
	UserID      uuid.UUID
	FileName    string
	ContentType string
}

// UploadURLResult contains the presigned upload target
type UploadURLResult struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// RoomInfo is the room representation returned by services
type RoomInfo struct {
	ID           uuid.UUID   `json:"id"`
	Type         string      `json:"type"`
	Name         string      `json:"name,omitempty"`
	CreatedBy    uuid.UUID   `json:"created_by"`
	Participants []uuid.UUID `json:"participants"`
	LastMessage  string      `json:"last_message,omitempty"`
	LastActivity *time.Time  `json:"last_activity,omitempty"`
	UnreadCount  int64       `json:"unread_count"`
	CreatedAt    time.Time   `json:"created_at"`
}

// MessageInfo is the message representation returned by services
type MessageInfo struct {
	ID        uuid.UUID  `json:"id"`
	RoomID    uuid.UUID  `json:"room_id"`
	SenderID  uuid.UUID  `json:"sender_id"`
	Type      string     `json:"type"`
	Content   string     `json:"content,omitempty"`
	FileURL   string     `json:"file_url,omitempty"`
	Edited    bool       `json:"edited"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	Deleted   bool       `json:"deleted"`
	ReadBy    []uuid.UUID `json:"read_by"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewRoomInfo maps a room aggregate to its service representation
func NewRoomInfo(room *chat.Room) RoomInfo {
	participants := make([]uuid.UUID, 0, len(room.Participants))
	for _, p := range room.Participants {
		participants = append(participants, p.UserID)
	}
	return RoomInfo{
		ID:           room.ID,
		Type:         string(room.Type),
		Name:         room.Name,
		CreatedBy:    room.CreatedBy,
		Participants: participants,
		LastMessage:  room.LastMessage,
		LastActivity: room.LastActivity,
		CreatedAt:    room.CreatedAt,
	}
}

// NewMessageInfo maps a message aggregate to its service representation
func NewMessageInfo(message *chat.Message) MessageInfo {
	readBy := make([]uuid.UUID, 0, len(message.ReadBy))
	for _, r := range message.ReadBy {
		readBy = append(readBy, r.UserID)
	}
	return MessageInfo{
		ID:        message.ID,
		RoomID:    message.RoomID,
		SenderID:  message.SenderID,
		Type:      string(message.Type),
		Content:   message.Content,
		FileURL:   message.FileURL,
		Edited:    message.Edited,
		EditedAt:  message.EditedAt,
		Deleted:   message.Deleted,
		ReadBy:    readBy,
		CreatedAt: message.CreatedAt,
	}
}
