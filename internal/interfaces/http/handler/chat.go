package handler

import (
	"github.com/agoramall/backend/internal/application/chat"
	"github.com/agoramall/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ChatHandler handles chat room and message HTTP requests
type ChatHandler struct {
	BaseHandler
	chatService *chat.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *chat.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// CreateRoomRequest creates either a direct or a group room
type CreateRoomRequest struct {
	Type    string `json:"type" binding:"required,oneof=direct group"`
	OtherID string `json:"other_id" binding:"omitempty,uuid"`
	Name    string `json:"name"`
}

// SendMessageRequest is the message send request body
type SendMessageRequest struct {
	Type    string `json:"type" binding:"required,oneof=text image file"`
	Content string `json:"content"`
	FileURL string `json:"file_url"`
}

// EditMessageRequest is the message edit request body
type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// UploadURLRequest asks for a presigned attachment upload target
type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// CreateRoom godoc
// @Summary      Open a chat room
// @Description  Direct rooms are deduplicated per user pair
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRoomRequest true "Room data"
// @Success      201 {object} dto.Response{data=chat.RoomInfo}
// @Failure      400 {object} dto.Response
// @Router       /chat/rooms [post]
func (h *ChatHandler) CreateRoom(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	var room *chat.RoomInfo
	switch req.Type {
	case "direct":
		otherID, parseErr := uuid.Parse(req.OtherID)
		if parseErr != nil {
			h.BadRequest(c, "Invalid other_id")
			return
		}
		room, err = h.chatService.CreateDirectRoom(c.Request.Context(), chat.CreateDirectRoomInput{
			CreatorID: userID,
			OtherID:   otherID,
		})
	default:
		room, err = h.chatService.CreateGroupRoom(c.Request.Context(), chat.CreateGroupRoomInput{
			CreatorID: userID,
			Name:      req.Name,
		})
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, room)
}

// ListRooms godoc
// @Summary      List own chat rooms
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]chat.RoomInfo}
// @Router       /chat/rooms [get]
func (h *ChatHandler) ListRooms(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.chatService.ListRooms(c.Request.Context(), chat.ListRoomsInput{
		UserID: userID,
		Filter: req.ToFilter(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetRoom godoc
// @Summary      Get a chat room
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Room ID"
// @Success      200 {object} dto.Response{data=chat.RoomInfo}
// @Failure      403 {object} dto.Response
// @Router       /chat/rooms/{id} [get]
func (h *ChatHandler) GetRoom(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	roomID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid room ID")
		return
	}

	room, err := h.chatService.GetRoom(c.Request.Context(), roomID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, room)
}

// JoinRoom godoc
// @Summary      Join a group room
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Room ID"
// @Success      204
// @Failure      422 {object} dto.Response
// @Router       /chat/rooms/{id}/join [post]
func (h *ChatHandler) JoinRoom(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	roomID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid room ID")
		return
	}

	if err := h.chatService.JoinRoom(c.Request.Context(), roomID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// LeaveRoom godoc
// @Summary      Leave a room
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Room ID"
// @Success      204
// @Failure      403 {object} dto.Response
// @Router       /chat/rooms/{id}/leave [post]
func (h *ChatHandler) LeaveRoom(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	roomID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid room ID")
		return
	}

	if err := h.chatService.LeaveRoom(c.Request.Context(), roomID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// SendMessage godoc
// @Summary      Send a message
// @Description  Text content is profanity-masked before storage
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Room ID"
// @Param        request body SendMessageRequest true "Message data"
// @Success      201 {object} dto.Response{data=chat.MessageInfo}
// @Failure      403 {object} dto.Response
// @Router       /chat/rooms/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	roomID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid room ID")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), chat.SendMessageInput{
		RoomID:   roomID,
		SenderID: userID,
		Type:     req.Type,
		Content:  req.Content,
		FileURL:  req.FileURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, message)
}

// ListMessages godoc
// @Summary      List messages in a room
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Room ID"
// @Success      200 {object} dto.Response{data=[]chat.MessageInfo}
// @Failure      403 {object} dto.Response
// @Router       /chat/rooms/{id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	roomID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid room ID")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.chatService.ListMessages(c.Request.Context(), chat.ListMessagesInput{
		RoomID: roomID,
		UserID: userID,
		Filter: req.ToFilter(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// EditMessage godoc
// @Summary      Edit a text message
// @Description  Sender-only, within five minutes of creation
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Message ID"
// @Param        request body EditMessageRequest true "New content"
// @Success      200 {object} dto.Response{data=chat.MessageInfo}
// @Failure      403 {object} dto.Response
// @Router       /chat/messages/{id} [patch]
func (h *ChatHandler) EditMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	messageID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid message ID")
		return
	}

	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	message, err := h.chatService.EditMessage(c.Request.Context(), chat.EditMessageInput{
		MessageID: messageID,
		UserID:    userID,
		Content:   req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, message)
}

// DeleteMessage godoc
// @Summary      Delete a message
// @Description  Sender-only, within five minutes of creation
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Message ID"
// @Success      204
// @Failure      403 {object} dto.Response
// @Router       /chat/messages/{id} [delete]
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	messageID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid message ID")
		return
	}

	if err := h.chatService.DeleteMessage(c.Request.Context(), messageID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// MarkRead godoc
// @Summary      Mark a message as read
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Message ID"
// @Success      204
// @Failure      403 {object} dto.Response
// @Router       /chat/messages/{id}/read [post]
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	messageID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid message ID")
		return
	}

	if err := h.chatService.MarkRead(c.Request.Context(), messageID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// IssueUploadURL godoc
// @Summary      Issue a presigned attachment upload URL
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Room ID"
// @Param        request body UploadURLRequest true "File metadata"
// @Success      200 {object} dto.Response{data=chat.UploadURLResult}
// @Failure      403 {object} dto.Response
// @Router       /chat/rooms/{id}/uploads [post]
func (h *ChatHandler) IssueUploadURL(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	roomID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid room ID")
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.chatService.IssueUploadURL(c.Request.Context(), chat.UploadURLInput{
		RoomID:      roomID,
		UserID:      userID,
		FileName:    req.FileName,
		ContentType: req.ContentType,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
