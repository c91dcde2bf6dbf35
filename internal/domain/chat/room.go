package chat

import (
	"strings"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RoomType distinguishes one-to-one rooms from group rooms
type RoomType string

const (
	RoomTypeDirect RoomType = "DIRECT"
	RoomTypeGroup  RoomType = "GROUP"
)

// IsValid checks if the room type is a known value
func (t RoomType) IsValid() bool {
	return t == RoomTypeDirect || t == RoomTypeGroup
}

// Participant is the membership record linking a user to a room.
// (room, user) pairs are unique.
type Participant struct {
	shared.BaseEntity
	RoomID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_user"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_user"`
	JoinedAt time.Time `gorm:"not null"`
}

// TableName returns the database table name
func (Participant) TableName() string {
	return "chat_room_participants"
}

// Room is the chat room aggregate root
type Room struct {
	shared.BaseAggregateRoot
	Type         RoomType      `gorm:"not null;size:10"`
	Name         string        `gorm:"size:100"`
	CreatedBy    uuid.UUID     `gorm:"type:uuid;not null;index"`
	Participants []Participant `gorm:"foreignKey:RoomID"`
	LastMessage  string        `gorm:"size:300"` // preview for room lists
	LastActivity *time.Time
}

// TableName returns the database table name
func (Room) TableName() string {
	return "chat_rooms"
}

// NewDirectRoom creates a one-to-one room between two users
func NewDirectRoom(creatorID, otherID uuid.UUID) (*Room, error) {
	if creatorID == uuid.Nil || otherID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "both participants are required")
	}
	if creatorID == otherID {
		return nil, shared.NewDomainError("INVALID_INPUT", "cannot open a direct room with yourself")
	}
	room := &Room{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              RoomTypeDirect,
		CreatedBy:         creatorID,
	}
	now := time.Now()
	room.Participants = []Participant{
		{BaseEntity: shared.NewBaseEntity(), RoomID: room.ID, UserID: creatorID, JoinedAt: now},
		{BaseEntity: shared.NewBaseEntity(), RoomID: room.ID, UserID: otherID, JoinedAt: now},
	}
	return room, nil
}

// NewGroupRoom creates a named group room with the creator as first member
func NewGroupRoom(creatorID uuid.UUID, name string) (*Room, error) {
	name = strings.TrimSpace(name)
	if creatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "creator is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "group room name is required")
	}
	room := &Room{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              RoomTypeGroup,
		Name:              name,
		CreatedBy:         creatorID,
	}
	room.Participants = []Participant{
		{BaseEntity: shared.NewBaseEntity(), RoomID: room.ID, UserID: creatorID, JoinedAt: time.Now()},
	}
	return room, nil
}

// HasParticipant reports whether the user is a member of the room
func (r *Room) HasParticipant(userID uuid.UUID) bool {
	for _, p := range r.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// Join adds a user to a group room. Direct rooms are fixed at creation.
func (r *Room) Join(userID uuid.UUID) error {
	if r.Type == RoomTypeDirect {
		return shared.NewDomainError("INVALID_STATE", "direct rooms cannot gain participants")
	}
	if r.HasParticipant(userID) {
		return shared.ErrAlreadyExists
	}
	r.Participants = append(r.Participants, Participant{
		BaseEntity: shared.NewBaseEntity(),
		RoomID:     r.ID,
		UserID:     userID,
		JoinedAt:   time.Now(),
	})
	r.UpdatedAt = time.Now()
	return nil
}

// Leave removes a user from a group room
func (r *Room) Leave(userID uuid.UUID) error {
	if r.Type == RoomTypeDirect {
		return shared.NewDomainError("INVALID_STATE", "direct rooms cannot lose participants")
	}
	for i, p := range r.Participants {
		if p.UserID == userID {
			r.Participants = append(r.Participants[:i], r.Participants[i+1:]...)
			r.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RecordActivity updates the room preview after a message is sent
func (r *Room) RecordActivity(preview string) {
	const maxPreview = 100
	if runes := []rune(preview); len(runes) > maxPreview {
		preview = string(runes[:maxPreview])
	}
	now := time.Now()
	r.LastMessage = preview
	r.LastActivity = &now
	r.UpdatedAt = now
}
