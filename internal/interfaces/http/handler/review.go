package handler

import (
	"github.com/agoramall/backend/internal/application/review"
	"github.com/agoramall/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReviewHandler handles review HTTP requests
type ReviewHandler struct {
	BaseHandler
	reviewService *review.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *review.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReviewRequest is the review creation request body
type CreateReviewRequest struct {
	TargetID string `json:"target_id" binding:"required,uuid"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
}

// UpdateReviewRequest is the review edit request body
type UpdateReviewRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"image_url"`
}

// ReportReviewRequest carries the report reason
type ReportReviewRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MarkBestRequest toggles the staff best flag
type MarkBestRequest struct {
	Best bool `json:"best"`
}

// ListReviewsRequest adds review filters to the common list parameters
type ListReviewsRequest struct {
	dto.ListRequest
	Rating int `form:"rating" binding:"omitempty,min=1,max=5"`
}

func (h *ReviewHandler) actor(c *gin.Context) (review.Actor, bool) {
	userID, err := getUserID(c)
	if err != nil {
		return review.Actor{}, false
	}
	return review.Actor{UserID: userID, Staff: isStaff(c)}, true
}

// CreateReview godoc
// @Summary      Write a review
// @Description  Content is profanity-masked before storage
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateReviewRequest true "Review data"
// @Success      201 {object} dto.Response{data=review.ReviewInfo}
// @Failure      400 {object} dto.Response
// @Router       /reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		h.BadRequest(c, "Invalid target_id")
		return
	}

	created, err := h.reviewService.Create(c.Request.Context(), review.CreateReviewInput{
		OwnerID:  userID,
		TargetID: targetID,
		Rating:   req.Rating,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, created)
}

// GetReview godoc
// @Summary      Get a review
// @Tags         reviews
// @Produce      json
// @Param        id path string true "Review ID"
// @Success      200 {object} dto.Response{data=review.ReviewInfo}
// @Failure      404 {object} dto.Response
// @Router       /reviews/{id} [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	info, err := h.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ListByTarget godoc
// @Summary      List reviews of a target
// @Description  Best reviews sort first; includes the average rating
// @Tags         reviews
// @Produce      json
// @Param        targetID path string true "Target ID"
// @Param        rating query int false "Rating filter"
// @Success      200 {object} dto.Response{data=review.TargetReviews}
// @Router       /reviews/target/{targetID} [get]
func (h *ReviewHandler) ListByTarget(c *gin.Context) {
	targetID, err := parseIDParam(c, "targetID")
	if err != nil {
		h.BadRequest(c, "Invalid target ID")
		return
	}

	var req ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := req.ToFilter()
	if req.Rating > 0 {
		filter.Filters["rating"] = req.Rating
	}

	result, err := h.reviewService.ListByTarget(c.Request.Context(), review.ListByTargetInput{
		TargetID: targetID,
		Filter:   filter,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListMine godoc
// @Summary      List own reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]review.ReviewInfo}
// @Router       /reviews/mine [get]
func (h *ReviewHandler) ListMine(c *gin.Context) {
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

	result, err := h.reviewService.ListMine(c.Request.Context(), userID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateReview godoc
// @Summary      Edit a review
// @Description  Authors edit their own reviews; staff any
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Review ID"
// @Param        request body UpdateReviewRequest true "Review data"
// @Success      200 {object} dto.Response{data=review.ReviewInfo}
// @Failure      403 {object} dto.Response
// @Router       /reviews/{id} [patch]
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.reviewService.Update(c.Request.Context(), review.UpdateReviewInput{
		ReviewID: id,
		Actor:    actor,
		Rating:   req.Rating,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// DeleteReview godoc
// @Summary      Delete a review
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Review ID"
// @Success      204
// @Failure      403 {object} dto.Response
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), id, actor); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ReportReview godoc
// @Summary      Report a review
// @Description  Duplicate reports by the same user return 409
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Review ID"
// @Param        request body ReportReviewRequest true "Report reason"
// @Success      204
// @Failure      409 {object} dto.Response
// @Router       /reviews/{id}/report [post]
func (h *ReviewHandler) ReportReview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	var req ReportReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.reviewService.Report(c.Request.Context(), review.ReportReviewInput{
		ReviewID:   id,
		ReporterID: userID,
		Reason:     req.Reason,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// MarkBest godoc
// @Summary      Toggle the best flag on a review (staff)
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Review ID"
// @Param        request body MarkBestRequest true "Best flag"
// @Success      200 {object} dto.Response{data=review.ReviewInfo}
// @Failure      403 {object} dto.Response
// @Router       /reviews/{id}/best [put]
func (h *ReviewHandler) MarkBest(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid review ID")
		return
	}

	var req MarkBestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	info, err := h.reviewService.MarkBest(c.Request.Context(), review.MarkBestInput{
		ReviewID: id,
		Actor:    actor,
		Best:     req.Best,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, info)
}

// ListReported godoc
// @Summary      List reported reviews (staff)
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]review.ReviewInfo}
// @Failure      403 {object} dto.Response
// @Router       /reviews/reported [get]
func (h *ReviewHandler) ListReported(c *gin.Context) {
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

	result, err := h.reviewService.ListReported(c.Request.Context(), review.ListReportedInput{
		Actor:  actor,
		Filter: req.ToFilter(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
