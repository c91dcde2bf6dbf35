package handler

import (
	"context"
	"time"

	"github.com/agoramall/backend/internal/application/workflow"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkflowHandler handles work assignment HTTP requests
type WorkflowHandler struct {
	BaseHandler
	workService *workflow.WorkService
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(workService *workflow.WorkService) *WorkflowHandler {
	return &WorkflowHandler{workService: workService}
}

// CreateWorkRequest is the work assignment request body
type CreateWorkRequest struct {
	AssigneeID  string     `json:"assignee_id" binding:"required,uuid"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"omitempty"`
	DueDate     *time.Time `json:"due_date" binding:"omitempty"`
}

// ChangeWorkStatusRequest is the work status transition request body
type ChangeWorkStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=requested accepted in_progress done cancelled"`
}

// RecordProgressRequest is the progress entry request body
type RecordProgressRequest struct {
	Step    string `json:"step" binding:"required"`
	Percent int    `json:"percent" binding:"min=0,max=100"`
	Note    string `json:"note" binding:"omitempty"`
}

// CreateWork godoc
// @Summary      Assign a work item
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateWorkRequest true "Work data"
// @Success      201 {object} dto.Response{data=workflow.WorkInfo}
// @Failure      400 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Router       /works [post]
func (h *WorkflowHandler) CreateWork(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	assigneeID, err := uuid.Parse(req.AssigneeID)
	if err != nil {
		h.BadRequest(c, "Invalid assignee_id")
		return
	}

	work, err := h.workService.Create(c.Request.Context(), workflow.CreateWorkInput{
		Actor:       actor,
		AssigneeID:  assigneeID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, work)
}

// GetWork godoc
// @Summary      Get a work item
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work ID"
// @Success      200 {object} dto.Response{data=workflow.WorkInfo}
// @Failure      404 {object} dto.Response
// @Router       /works/{id} [get]
func (h *WorkflowHandler) GetWork(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid work ID")
		return
	}

	work, err := h.workService.Get(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, work)
}

// ListRequested godoc
// @Summary      List work items the caller requested
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]workflow.WorkInfo}
// @Router       /works/requested [get]
func (h *WorkflowHandler) ListRequested(c *gin.Context) {
	h.list(c, h.workService.ListRequested)
}

// ListAssigned godoc
// @Summary      List work items assigned to the caller
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]workflow.WorkInfo}
// @Router       /works/assigned [get]
func (h *WorkflowHandler) ListAssigned(c *gin.Context) {
	h.list(c, h.workService.ListAssigned)
}

// ListAllWorks godoc
// @Summary      List all work items (staff)
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]workflow.WorkInfo}
// @Failure      403 {object} dto.Response
// @Router       /works/all [get]
func (h *WorkflowHandler) ListAllWorks(c *gin.Context) {
	h.list(c, h.workService.ListAll)
}

// ChangeWorkStatus godoc
// @Summary      Transition a work item
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work ID"
// @Param        request body ChangeWorkStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=workflow.WorkInfo}
// @Failure      422 {object} dto.Response
// @Router       /works/{id}/status [put]
func (h *WorkflowHandler) ChangeWorkStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid work ID")
		return
	}

	var req ChangeWorkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	work, err := h.workService.ChangeStatus(c.Request.Context(), workflow.ChangeStatusInput{
		WorkID: id,
		Actor:  actor,
		Status: req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, work)
}

// RecordProgress godoc
// @Summary      Append a progress entry to a work item
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work ID"
// @Param        request body RecordProgressRequest true "Progress data"
// @Success      200 {object} dto.Response{data=workflow.WorkInfo}
// @Failure      403 {object} dto.Response
// @Router       /works/{id}/progress [post]
func (h *WorkflowHandler) RecordProgress(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid work ID")
		return
	}

	var req RecordProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	work, err := h.workService.RecordProgress(c.Request.Context(), workflow.RecordProgressInput{
		WorkID:  id,
		Actor:   actor,
		Step:    req.Step,
		Percent: req.Percent,
		Note:    req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, work)
}

// ListProgress godoc
// @Summary      List the progress entries of a work item
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work ID"
// @Success      200 {object} dto.Response{data=[]workflow.ProgressInfo}
// @Failure      404 {object} dto.Response
// @Router       /works/{id}/progress [get]
func (h *WorkflowHandler) ListProgress(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid work ID")
		return
	}

	entries, err := h.workService.ListProgress(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// DeleteWork godoc
// @Summary      Delete a work item
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work ID"
// @Success      204
// @Failure      403 {object} dto.Response
// @Router       /works/{id} [delete]
func (h *WorkflowHandler) DeleteWork(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid work ID")
		return
	}

	if err := h.workService.Delete(c.Request.Context(), id, actor); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

type workLister func(ctx context.Context, input workflow.ListWorksInput) (*shared.Paginated[workflow.WorkInfo], error)

func (h *WorkflowHandler) list(c *gin.Context, fn workLister) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := fn(c.Request.Context(), workflow.ListWorksInput{
		Actor:  actor,
		Filter: req.ToFilter(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

func (h *WorkflowHandler) actor(c *gin.Context) (workflow.Actor, bool) {
	userID, err := getUserID(c)
	if err != nil {
		return workflow.Actor{}, false
	}
	return workflow.Actor{UserID: userID, Staff: isStaff(c)}, true
}
