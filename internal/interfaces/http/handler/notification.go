package handler

import (
	"github.com/agoramall/backend/internal/application/notification"
	"github.com/agoramall/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	BaseHandler
	notificationService *notification.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotificationsRequest is the notification list query
type ListNotificationsRequest struct {
	dto.ListRequest
	UnreadOnly bool `form:"unread_only"`
}

// BroadcastRequest is the staff announcement request body
type BroadcastRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
	Link    string `json:"link" binding:"omitempty"`
}

// UpdateSettingRequest is the per-type notification toggle request body
type UpdateSettingRequest struct {
	OrderEnabled  bool `json:"order_enabled"`
	ChatEnabled   bool `json:"chat_enabled"`
	CSEnabled     bool `json:"cs_enabled"`
	SystemEnabled bool `json:"system_enabled"`
}

// ListNotifications godoc
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        unread_only query bool false "Only unread notifications"
// @Success      200 {object} dto.Response{data=[]notification.NotificationInfo}
// @Router       /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.notificationService.List(c.Request.Context(), notification.ListInput{
		UserID:     userID,
		UnreadOnly: req.UnreadOnly,
		Filter:     req.ToFilter(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// CountUnread godoc
// @Summary      Count the caller's unread notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.notificationService.CountUnread(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"unread": count})
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), id, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// MarkAllRead godoc
// @Summary      Mark all of the caller's notifications as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response
// @Router       /notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	updated, err := h.notificationService.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"updated": updated})
}

// DeleteNotification godoc
// @Summary      Delete a notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), id, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Broadcast godoc
// @Summary      Send an announcement to all users (staff)
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BroadcastRequest true "Announcement"
// @Success      200 {object} dto.Response{data=notification.BroadcastResult}
// @Failure      403 {object} dto.Response
// @Router       /notifications/broadcast [post]
func (h *NotificationHandler) Broadcast(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.notificationService.Broadcast(c.Request.Context(), notification.BroadcastInput{
		Actor:   notification.Actor{UserID: userID, Staff: isStaff(c)},
		Title:   req.Title,
		Message: req.Message,
		Link:    req.Link,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetSetting godoc
// @Summary      Get the caller's notification settings
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=notification.SettingInfo}
// @Router       /notifications/settings [get]
func (h *NotificationHandler) GetSetting(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	setting, err := h.notificationService.GetSetting(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, setting)
}

// UpdateSetting godoc
// @Summary      Update the caller's notification settings
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateSettingRequest true "Settings"
// @Success      200 {object} dto.Response{data=notification.SettingInfo}
// @Router       /notifications/settings [put]
func (h *NotificationHandler) UpdateSetting(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	setting, err := h.notificationService.UpdateSetting(c.Request.Context(), notification.UpdateSettingInput{
		UserID:        userID,
		OrderEnabled:  req.OrderEnabled,
		ChatEnabled:   req.ChatEnabled,
		CSEnabled:     req.CSEnabled,
		SystemEnabled: req.SystemEnabled,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, setting)
}
