package handler

import (
	"github.com/agoramall/backend/internal/application/engagement"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EngagementHandler handles like and preset-message HTTP requests
type EngagementHandler struct {
	BaseHandler
	engagementService *engagement.EngagementService
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(engagementService *engagement.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagementService: engagementService}
}

// LikeRequest identifies the like target
type LikeRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   string `json:"target_id" binding:"required,uuid"`
}

// PresetRequest is the canned reply create/update request body
type PresetRequest struct {
	Category string `json:"category" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// ToggleLike godoc
// @Summary      Like or unlike a target
// @Description  A second toggle on the same target removes the like
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body LikeRequest true "Like target"
// @Success      200 {object} dto.Response{data=engagement.LikeStatus}
// @Failure      400 {object} dto.Response
// @Router       /likes/toggle [post]
func (h *EngagementHandler) ToggleLike(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		h.BadRequest(c, "Invalid target_id")
		return
	}

	status, err := h.engagementService.ToggleLike(c.Request.Context(), engagement.ToggleLikeInput{
		UserID:     userID,
		TargetType: req.TargetType,
		TargetID:   targetID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// GetLikeStatus godoc
// @Summary      Get the like state of a target
// @Tags         engagement
// @Produce      json
// @Security     BearerAuth
// @Param        targetType path string true "Target type"
// @Param        targetID path string true "Target ID"
// @Success      200 {object} dto.Response{data=engagement.LikeStatus}
// @Router       /likes/{targetType}/{targetID} [get]
func (h *EngagementHandler) GetLikeStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	targetID, err := parseIDParam(c, "targetID")
	if err != nil {
		h.BadRequest(c, "Invalid target ID")
		return
	}

	status, err := h.engagementService.GetLikeStatus(c.Request.Context(), engagement.ToggleLikeInput{
		UserID:     userID,
		TargetType: c.Param("targetType"),
		TargetID:   targetID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// ListPresets godoc
// @Summary      List canned replies (staff)
// @Tags         engagement
// @Produce      json
// @Security     BearerAuth
// @Param        category query string false "Category filter"
// @Success      200 {object} dto.Response{data=[]engagement.PresetInfo}
// @Failure      403 {object} dto.Response
// @Router       /presets [get]
func (h *EngagementHandler) ListPresets(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	presets, err := h.engagementService.ListPresets(c.Request.Context(), actor, c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, presets)
}

// CreatePreset godoc
// @Summary      Create a canned reply (staff)
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PresetRequest true "Preset data"
// @Success      201 {object} dto.Response{data=engagement.PresetInfo}
// @Failure      403 {object} dto.Response
// @Router       /presets [post]
func (h *EngagementHandler) CreatePreset(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	preset, err := h.engagementService.CreatePreset(c.Request.Context(), engagement.CreatePresetInput{
		Actor:    actor,
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, preset)
}

// UpdatePreset godoc
// @Summary      Edit a canned reply (staff)
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Preset ID"
// @Param        request body PresetRequest true "Preset data"
// @Success      200 {object} dto.Response{data=engagement.PresetInfo}
// @Failure      403 {object} dto.Response
// @Router       /presets/{id} [put]
func (h *EngagementHandler) UpdatePreset(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid preset ID")
		return
	}

	var req PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	preset, err := h.engagementService.UpdatePreset(c.Request.Context(), engagement.UpdatePresetInput{
		PresetID: id,
		Actor:    actor,
		Category: req.Category,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, preset)
}

// DeletePreset godoc
// @Summary      Delete a canned reply (staff)
// @Tags         engagement
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Preset ID"
// @Success      204
// @Failure      403 {object} dto.Response
// @Router       /presets/{id} [delete]
func (h *EngagementHandler) DeletePreset(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid preset ID")
		return
	}

	if err := h.engagementService.DeletePreset(c.Request.Context(), id, actor); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *EngagementHandler) actor(c *gin.Context) (engagement.Actor, bool) {
	userID, err := getUserID(c)
	if err != nil {
		return engagement.Actor{}, false
	}
	return engagement.Actor{UserID: userID, Staff: isStaff(c)}, true
}
