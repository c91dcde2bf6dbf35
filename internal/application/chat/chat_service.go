package chat

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/agoramall/backend/internal/domain/chat"
	"github.com/agoramall/backend/internal/domain/moderation"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoomPusher fans chat events out to connected websocket clients. The hub
// in the interfaces layer implements it; a nil pusher disables push.
type RoomPusher interface {
	PushToRoom(roomID uuid.UUID, event string, payload any)
}

// Push event names sent through the websocket hub
const (
	PushEventMessageCreated = "message.created"
	PushEventMessageEdited  = "message.edited"
	PushEventMessageDeleted = "message.deleted"
	PushEventMessageRead    = "message.read"
)

// ChatServiceConfig contains configuration for the chat service
type ChatServiceConfig struct {
	UploadURLLifetime time.Duration
}

// DefaultChatServiceConfig returns default configuration
func DefaultChatServiceConfig() ChatServiceConfig {
	return ChatServiceConfig{UploadURLLifetime: 10 * time.Minute}
}

// ChatService handles room and message operations
type ChatService struct {
	roomRepo    chat.RoomRepository
	messageRepo chat.MessageRepository
	profanity   *moderation.Filter
	objects     storage.ObjectStorage
	pusher      RoomPusher
	config      ChatServiceConfig
	logger      *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	roomRepo chat.RoomRepository,
	messageRepo chat.MessageRepository,
	profanity *moderation.Filter,
	objects storage.ObjectStorage,
	pusher RoomPusher,
	config ChatServiceConfig,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		profanity:   profanity,
		objects:     objects,
		pusher:      pusher,
		config:      config,
		logger:      logger,
	}
}

// CreateDirectRoom opens a one-to-one room, reusing an existing one for the
// same user pair.
func (s *ChatService) CreateDirectRoom(ctx context.Context, input CreateDirectRoomInput) (*RoomInfo, error) {
	if input.CreatorID == input.OtherID {
		return nil, shared.NewDomainError("INVALID_INPUT", "cannot open a direct room with yourself")
	}

	existing, err := s.roomRepo.FindDirectRoom(ctx, input.CreatorID, input.OtherID)
	if err == nil {
		info := NewRoomInfo(existing)
		return &info, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to look up direct room", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to open room")
	}

	room, err := chat.NewDirectRoom(input.CreatorID, input.OtherID)
	if err != nil {
		return nil, err
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		s.logger.Error("Failed to save room", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to open room")
	}

	s.logger.Info("Direct room opened",
		zap.String("room_id", room.ID.String()),
		zap.String("creator_id", input.CreatorID.String()))

	info := NewRoomInfo(room)
	return &info, nil
}

// CreateGroupRoom creates a named group room
func (s *ChatService) CreateGroupRoom(ctx context.Context, input CreateGroupRoomInput) (*RoomInfo, error) {
	room, err := chat.NewGroupRoom(input.CreatorID, input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		s.logger.Error("Failed to save room", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create room")
	}

	s.logger.Info("Group room created",
		zap.String("room_id", room.ID.String()),
		zap.String("name", room.Name))

	info := NewRoomInfo(room)
	return &info, nil
}

// ListRooms returns the rooms the user participates in, most recently
// active first, with unread counts.
func (s *ChatService) ListRooms(ctx context.Context, input ListRoomsInput) (*shared.Paginated[RoomInfo], error) {
	rooms, total, err := s.roomRepo.FindRoomsForUser(ctx, input.UserID, input.Filter)
	if err != nil {
		s.logger.Error("Failed to list rooms", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list rooms")
	}

	items := make([]RoomInfo, 0, len(rooms))
	for i := range rooms {
		info := NewRoomInfo(&rooms[i])
		unread, err := s.messageRepo.CountUnread(ctx, rooms[i].ID, input.UserID)
		if err != nil {
			s.logger.Warn("Failed to count unread messages",
				zap.String("room_id", rooms[i].ID.String()), zap.Error(err))
		} else {
			info.UnreadCount = unread
		}
		items = append(items, info)
	}
	result := shared.NewPaginated(items, total, input.Filter.Page, input.Filter.PageSize)
	return &result, nil
}

// GetRoom returns a room the user participates in
func (s *ChatService) GetRoom(ctx context.Context, roomID, userID uuid.UUID) (*RoomInfo, error) {
	room, err := s.loadMemberRoom(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	info := NewRoomInfo(room)
	return &info, nil
}

// JoinRoom adds the user to a group room
func (s *ChatService) JoinRoom(ctx context.Context, roomID, userID uuid.UUID) error {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return err
	}
	if err := room.Join(userID); err != nil {
		return err
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		s.logger.Error("Failed to save room", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to join room")
	}
	s.logger.Info("User joined room",
		zap.String("room_id", roomID.String()),
		zap.String("user_id", userID.String()))
	return nil
}

// LeaveRoom removes the user from a group room
func (s *ChatService) LeaveRoom(ctx context.Context, roomID, userID uuid.UUID) error {
	room, err := s.loadMemberRoom(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if err := room.Leave(userID); err != nil {
		return err
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		s.logger.Error("Failed to save room", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to leave room")
	}
	s.logger.Info("User left room",
		zap.String("room_id", roomID.String()),
		zap.String("user_id", userID.String()))
	return nil
}

// SendMessage stores a message and fans it out to the room. Text content is
// run through the profanity mask before it is persisted.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*MessageInfo, error) {
	room, err := s.loadMemberRoom(ctx, input.RoomID, input.SenderID)
	if err != nil {
		return nil, err
	}

	var message *chat.Message
	switch chat.MessageType(input.Type) {
	case chat.MessageTypeText:
		message, err = chat.NewTextMessage(input.RoomID, input.SenderID, s.profanity.Mask(input.Content))
	case chat.MessageTypeImage, chat.MessageTypeFile:
		message, err = chat.NewFileMessage(input.RoomID, input.SenderID, chat.MessageType(input.Type), input.FileURL)
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown message type: %s", input.Type))
	}
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.Save(ctx, message); err != nil {
		s.logger.Error("Failed to save message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to send message")
	}

	preview := message.Content
	if preview == "" {
		preview = string(message.Type)
	}
	room.RecordActivity(preview)
	if err := s.roomRepo.Save(ctx, room); err != nil {
		s.logger.Warn("Failed to update room activity", zap.Error(err))
	}

	info := NewMessageInfo(message)
	s.push(room.ID, PushEventMessageCreated, info)
	return &info, nil
}

// ListMessages returns messages in a room, newest first (participant only)
func (s *ChatService) ListMessages(ctx context.Context, input ListMessagesInput) (*shared.Paginated[MessageInfo], error) {
	if _, err := s.loadMemberRoom(ctx, input.RoomID, input.UserID); err != nil {
		return nil, err
	}
	messages, total, err := s.messageRepo.FindByRoom(ctx, input.RoomID, input.Filter)
	if err != nil {
		s.logger.Error("Failed to list messages", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list messages")
	}

	items := make([]MessageInfo, 0, len(messages))
	for i := range messages {
		items = append(items, NewMessageInfo(&messages[i]))
	}
	result := shared.NewPaginated(items, total, input.Filter.Page, input.Filter.PageSize)
	return &result, nil
}

// EditMessage edits a text message under the sender/window rule
func (s *ChatService) EditMessage(ctx context.Context, input EditMessageInput) (*MessageInfo, error) {
	message, err := s.messageRepo.FindByID(ctx, input.MessageID)
	if err != nil {
		return nil, err
	}
	if err := message.Edit(input.UserID, s.profanity.Mask(input.Content), time.Now()); err != nil {
		return nil, err
	}
	if err := s.messageRepo.Save(ctx, message); err != nil {
		s.logger.Error("Failed to save message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to edit message")
	}

	info := NewMessageInfo(message)
	s.push(message.RoomID, PushEventMessageEdited, info)
	return &info, nil
}

// DeleteMessage soft-deletes a message under the sender/window rule
func (s *ChatService) DeleteMessage(ctx context.Context, messageID, userID uuid.UUID) error {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if err := message.Delete(userID, time.Now()); err != nil {
		return err
	}
	if err := s.messageRepo.Save(ctx, message); err != nil {
		s.logger.Error("Failed to save message", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete message")
	}

	s.push(message.RoomID, PushEventMessageDeleted, map[string]any{
		"message_id": message.ID,
		"room_id":    message.RoomID,
	})
	return nil
}

// MarkRead records a read receipt for the user
func (s *ChatService) MarkRead(ctx context.Context, messageID, userID uuid.UUID) error {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return err
	}
	if _, err := s.loadMemberRoom(ctx, message.RoomID, userID); err != nil {
		return err
	}
	if !message.MarkReadBy(userID) {
		return nil
	}
	if err := s.messageRepo.Save(ctx, message); err != nil {
		s.logger.Error("Failed to save read receipt", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to mark message read")
	}

	s.push(message.RoomID, PushEventMessageRead, map[string]any{
		"message_id": message.ID,
		"user_id":    userID,
	})
	return nil
}

// IssueUploadURL returns a presigned PUT URL for a chat attachment
func (s *ChatService) IssueUploadURL(ctx context.Context, input UploadURLInput) (*UploadURLResult, error) {
	if s.objects == nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Object storage is not configured")
	}
	if _, err := s.loadMemberRoom(ctx, input.RoomID, input.UserID); err != nil {
		return nil, err
	}

	ext := path.Ext(input.FileName)
	key := fmt.Sprintf("chat/%s/%s%s", input.RoomID, uuid.NewString(), ext)

	url, expiresAt, err := s.objects.GenerateUploadURL(ctx, key, input.ContentType, s.config.UploadURLLifetime)
	if err != nil {
		s.logger.Error("Failed to presign upload URL", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to issue upload URL")
	}

	return &UploadURLResult{UploadURL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}

// loadMemberRoom loads a room and hides it from non-participants
func (s *ChatService) loadMemberRoom(ctx context.Context, roomID, userID uuid.UUID) (*chat.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(userID) {
		return nil, shared.ErrForbidden
	}
	return room, nil
}

func (s *ChatService) push(roomID uuid.UUID, event string, payload any) {
	if s.pusher == nil {
		return
	}
	s.pusher.PushToRoom(roomID, event, payload)
}
