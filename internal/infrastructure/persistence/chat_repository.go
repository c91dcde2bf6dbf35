package persistence

import (
	"context"
	"errors"

	"github.com/agoramall/backend/internal/domain/chat"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormChatRoomRepository implements chat.RoomRepository using GORM
type GormChatRoomRepository struct {
	db *gorm.DB
}

// NewGormChatRoomRepository creates a new GormChatRoomRepository
func NewGormChatRoomRepository(db *gorm.DB) *GormChatRoomRepository {
	return &GormChatRoomRepository{db: db}
}

// Save persists a room and its participant rows
func (r *GormChatRoomRepository) Save(ctx context.Context, room *chat.Room) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Participants").Save(room).Error; err != nil {
			return err
		}

		currentIDs := make([]uuid.UUID, len(room.Participants))
		for i, p := range room.Participants {
			currentIDs[i] = p.ID
		}
		if len(currentIDs) > 0 {
			if err := tx.Where("room_id = ? AND id NOT IN ?", room.ID, currentIDs).
				Delete(&chat.Participant{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("room_id = ?", room.ID).
				Delete(&chat.Participant{}).Error; err != nil {
				return err
			}
		}

		for i := range room.Participants {
			room.Participants[i].RoomID = room.ID
			if err := tx.Save(&room.Participants[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a room with participants loaded
func (r *GormChatRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.Room, error) {
	var room chat.Room
	if err := r.db.WithContext(ctx).
		Preload("Participants").
		First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// FindDirectRoom finds an existing direct room between two users
func (r *GormChatRoomRepository) FindDirectRoom(ctx context.Context, userA, userB uuid.UUID) (*chat.Room, error) {
	var room chat.Room
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("type = ?", chat.RoomTypeDirect).
		Where("id IN (?)", r.db.
			Table("chat_room_participants").
			Select("room_id").
			Where("user_id IN ?", []uuid.UUID{userA, userB}).
			Group("room_id").
			Having("COUNT(DISTINCT user_id) = 2")).
		First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// FindRoomsForUser returns rooms the user participates in, most recently
// active first
func (r *GormChatRoomRepository) FindRoomsForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]chat.Room, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&chat.Room{}).
		Joins("JOIN chat_room_participants ON chat_room_participants.room_id = chat_rooms.id").
		Where("chat_room_participants.user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rooms []chat.Room
	query = query.Order("chat_rooms.last_activity DESC")
	query = applyPagination(query, filter)
	if err := query.Preload("Participants").Find(&rooms).Error; err != nil {
		return nil, 0, err
	}
	return rooms, total, nil
}

// Delete removes a room and its memberships
func (r *GormChatRoomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&chat.Participant{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&chat.Room{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormChatRoomRepository implements RoomRepository
var _ chat.RoomRepository = (*GormChatRoomRepository)(nil)

// GormChatMessageRepository implements chat.MessageRepository using GORM
type GormChatMessageRepository struct {
	db *gorm.DB
}

// NewGormChatMessageRepository creates a new GormChatMessageRepository
func NewGormChatMessageRepository(db *gorm.DB) *GormChatMessageRepository {
	return &GormChatMessageRepository{db: db}
}

// Save persists a message and its read receipts
func (r *GormChatMessageRepository) Save(ctx context.Context, message *chat.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("ReadBy").Save(message).Error; err != nil {
			return err
		}
		for i := range message.ReadBy {
			message.ReadBy[i].MessageID = message.ID
			if err := tx.Save(&message.ReadBy[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds a message by ID
func (r *GormChatMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.Message, error) {
	var message chat.Message
	if err := r.db.WithContext(ctx).
		Preload("ReadBy").
		First(&message, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &message, nil
}

// FindByRoom returns messages in a room, newest first
func (r *GormChatMessageRepository) FindByRoom(ctx context.Context, roomID uuid.UUID, filter shared.Filter) ([]chat.Message, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("room_id = ?", roomID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []chat.Message
	query = query.Order("created_at DESC")
	query = applyPagination(query, filter)
	if err := query.Preload("ReadBy").Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// CountUnread counts messages in the room the user has not read
func (r *GormChatMessageRepository) CountUnread(ctx context.Context, roomID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("room_id = ?", roomID).
		Where("sender_id <> ?", userID).
		Where("deleted = ?", false).
		Where("id NOT IN (?)", r.db.
			Table("chat_message_reads").
			Select("message_id").
			Where("user_id = ?", userID)).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormChatMessageRepository implements MessageRepository
var _ chat.MessageRepository = (*GormChatMessageRepository)(nil)
