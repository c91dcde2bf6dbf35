package ws

import (
	"net/http"

	"github.com/agoramall/backend/internal/application/chat"
	"github.com/agoramall/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gobwas/ws"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler upgrades HTTP requests into hub connections
type Handler struct {
	hub         *Hub
	chatService *chat.ChatService
	logger      *zap.Logger
}

// NewHandler creates a new websocket handler
func NewHandler(hub *Hub, chatService *chat.ChatService, logger *zap.Logger) *Handler {
	return &Handler{hub: hub, chatService: chatService, logger: logger}
}

// ChatRoom upgrades GET /ws/chat/:roomID into a room connection. Only room
// participants may connect.
func (h *Handler) ChatRoom(c *gin.Context) {
	userID := middleware.GetUserUUID(c)
	if userID == uuid.Nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	roomID, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	if _, err := h.chatService.GetRoom(c.Request.Context(), roomID, userID); err != nil {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	conn, _, _, err := ws.UpgradeHTTP(c.Request, c.Writer)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.addRoomClient(roomID, userID, conn)
	if client == nil {
		return
	}
	go client.serve()
}

// Notifications upgrades GET /ws/notifications into a per-user connection
func (h *Handler) Notifications(c *gin.Context) {
	userID := middleware.GetUserUUID(c)
	if userID == uuid.Nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, _, _, err := ws.UpgradeHTTP(c.Request, c.Writer)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.addUserClient(userID, conn)
	if client == nil {
		return
	}
	go client.serve()
}
