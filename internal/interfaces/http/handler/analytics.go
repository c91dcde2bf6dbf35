package handler

import (
	"net/http"
	"time"

	"github.com/agoramall/backend/internal/application/analytics"
	"github.com/agoramall/backend/internal/interfaces/http/dto"
	"github.com/agoramall/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalyticsHandler handles event ingest and analytics HTTP requests
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *analytics.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *analytics.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// IngestEventRequest is the client event request body
type IngestEventRequest struct {
	Type     string         `json:"type" binding:"required"`
	Path     string         `json:"path" binding:"omitempty"`
	Metadata map[string]any `json:"metadata" binding:"omitempty"`
}

// QueryEventsRequest is the staff event-log query
type QueryEventsRequest struct {
	dto.ListRequest
	Type string     `form:"type"`
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// DailyRangeRequest is the daily rollup range query
type DailyRangeRequest struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// IngestEvent godoc
// @Summary      Record a client event
// @Description  Fire and forget, always returns 202 when the body parses
// @Tags         analytics
// @Accept       json
// @Produce      json
// @Param        request body IngestEventRequest true "Event data"
// @Success      202 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /analytics/events [post]
func (h *AnalyticsHandler) IngestEvent(c *gin.Context) {
	var req IngestEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	var userID *uuid.UUID
	if id := middleware.GetUserUUID(c); id != uuid.Nil {
		userID = &id
	}

	h.analyticsService.Ingest(c.Request.Context(), analytics.IngestEventInput{
		Type:     req.Type,
		UserID:   userID,
		Path:     req.Path,
		Metadata: req.Metadata,
	})

	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(nil))
}

// QueryEvents godoc
// @Summary      Query the event log (staff)
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        type query string false "Event type"
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to query string false "End date (YYYY-MM-DD)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]analytics.EventInfo}
// @Failure      403 {object} dto.Response
// @Router       /analytics/events [get]
func (h *AnalyticsHandler) QueryEvents(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req QueryEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.analyticsService.QueryEvents(c.Request.Context(), analytics.QueryEventsInput{
		Actor:  actor,
		Type:   req.Type,
		From:   req.From,
		To:     req.To,
		Filter: req.ToFilter(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// DailyRange godoc
// @Summary      Get per-day rollups for a date range (staff)
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        from query string true "Start date (YYYY-MM-DD)"
// @Param        to query string true "End date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]analytics.DailyInfo}
// @Failure      403 {object} dto.Response
// @Router       /analytics/daily [get]
func (h *AnalyticsHandler) DailyRange(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req DailyRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	rows, err := h.analyticsService.DailyRange(c.Request.Context(), analytics.DailyRangeInput{
		Actor: actor,
		From:  req.From,
		To:    req.To,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}

// GetDashboard godoc
// @Summary      Get the latest dashboard summary (staff)
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=analytics.SummaryInfo}
// @Failure      403 {object} dto.Response
// @Router       /analytics/dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.analyticsService.GetDashboard(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// RebuildDashboard godoc
// @Summary      Recompute the dashboard summary (staff)
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=analytics.SummaryInfo}
// @Failure      403 {object} dto.Response
// @Router       /analytics/dashboard/rebuild [post]
func (h *AnalyticsHandler) RebuildDashboard(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	summary, err := h.analyticsService.RebuildDashboard(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

func (h *AnalyticsHandler) actor(c *gin.Context) (analytics.Actor, bool) {
	userID, err := getUserID(c)
	if err != nil {
		return analytics.Actor{}, false
	}
	return analytics.Actor{UserID: userID, Staff: isStaff(c)}, true
}
