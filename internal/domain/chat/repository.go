package chat

import (
	"context"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RoomRepository defines the interface for chat room persistence
type RoomRepository interface {
	// Save persists a room and its participant rows
	Save(ctx context.Context, room *Room) error

	// FindByID finds a room with participants loaded
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// FindDirectRoom finds an existing direct room between two users
	FindDirectRoom(ctx context.Context, userA, userB uuid.UUID) (*Room, error)

	// FindRoomsForUser returns rooms the user participates in, most
	// recently active first
	FindRoomsForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Room, int64, error)

	// Delete removes a room and its memberships
	Delete(ctx context.Context, id uuid.UUID) error
}

// MessageRepository defines the interface for chat message persistence
type MessageRepository interface {
	// Save persists a message and its read receipts
	Save(ctx context.Context, message *Message) error

	// FindByID finds a message by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)

	// FindByRoom returns messages in a room, newest first
	FindByRoom(ctx context.Context, roomID uuid.UUID, filter shared.Filter) ([]Message, int64, error)

	// CountUnread counts messages in the room the user has not read
	CountUnread(ctx context.Context, roomID, userID uuid.UUID) (int64, error)
}
