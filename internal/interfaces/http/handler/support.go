package handler

import (
	"github.com/agoramall/backend/internal/application/support"
	"github.com/agoramall/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SupportHandler handles CS post, FAQ and notice HTTP requests
type SupportHandler struct {
	BaseHandler
	csService     *support.CSService
	faqService    *support.FAQService
	noticeService *support.NoticeService
}

// NewSupportHandler creates a new support handler
func NewSupportHandler(csService *support.CSService, faqService *support.FAQService, noticeService *support.NoticeService) *SupportHandler {
	return &SupportHandler{
		csService:     csService,
		faqService:    faqService,
		noticeService: noticeService,
	}
}

// CreatePostRequest is the CS post creation request body
type CreatePostRequest struct {
	Type    string `json:"type" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// UpdatePostRequest is the CS post edit request body
type UpdatePostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// AddReplyRequest is the staff answer request body
type AddReplyRequest struct {
	Content  string `json:"content" binding:"required"`
	Resolves bool   `json:"resolves"`
}

// ListPostsRequest adds post filters to the common list parameters
type ListPostsRequest struct {
	dto.ListRequest
	Status string `form:"status"`
	Type   string `form:"type"`
}

// FAQRequest is the FAQ create/update request body
type FAQRequest struct {
	Category  string `json:"category" binding:"required"`
	Question  string `json:"question" binding:"required"`
	Answer    string `json:"answer" binding:"required"`
	SortOrder int    `json:"sort_order"`
	Published bool   `json:"published"`
}

// NoticeRequest is the notice create/update request body
type NoticeRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Important bool   `json:"important"`
}

func (h *SupportHandler) actor(c *gin.Context) (support.Actor, bool) {
	userID, err := getUserID(c)
	if err != nil {
		return support.Actor{}, false
	}
	return support.Actor{UserID: userID, Staff: isStaff(c)}, true
}

// CreatePost godoc
// @Summary      Open a CS post
// @Description  Title and content are profanity-masked before storage
// @Tags         support
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePostRequest true "Post data"
// @Success      201 {object} dto.Response{data=support.PostInfo}
// @Failure      400 {object} dto.Response
// @Router       /support/posts [post]
func (h *SupportHandler) CreatePost(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.csService.CreatePost(c.Request.Context(), support.CreatePostInput{
		OwnerID: userID,
		Type:    req.Type,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, post)
}

// GetPost godoc
// @Summary      Get a CS post
// @Description  Foreign posts are hidden from non-staff as 404
// @Tags         support
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200 {object} dto.Response{data=support.PostInfo}
// @Failure      404 {object} dto.Response
// @Router       /support/posts/{id} [get]
func (h *SupportHandler) GetPost(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	post, err := h.csService.GetPost(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, post)
}

// ListPosts godoc
// @Summary      List CS posts
// @Description  Owners see their own posts; staff see all
// @Tags         support
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Status filter"
// @Param        type query string false "Type filter"
// @Success      200 {object} dto.Response{data=[]support.PostInfo}
// @Router       /support/posts [get]
func (h *SupportHandler) ListPosts(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	filter := req.ToFilter()
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}
	if req.Type != "" {
		filter.Filters["type"] = req.Type
	}

	result, err := h.csService.ListPosts(c.Request.Context(), support.ListPostsInput{
		Actor:  actor,
		Filter: filter,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdatePost godoc
// @Summary      Edit a pending CS post
// @Tags         support
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body UpdatePostRequest true "Post data"
// @Success      200 {object} dto.Response{data=support.PostInfo}
// @Failure      422 {object} dto.Response
// @Router       /support/posts/{id} [patch]
func (h *SupportHandler) UpdatePost(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.csService.UpdatePost(c.Request.Context(), support.UpdatePostInput{
		PostID:  id,
		Actor:   actor,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, post)
}

// AddReply godoc
// @Summary      Answer a CS post (staff)
// @Description  The first reply moves the post to in progress; a resolving reply completes it
// @Tags         support
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body AddReplyRequest true "Answer data"
// @Success      201 {object} dto.Response{data=support.PostInfo}
// @Failure      403 {object} dto.Response
// @Router       /support/posts/{id}/replies [post]
func (h *SupportHandler) AddReply(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	var req AddReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	post, err := h.csService.AddReply(c.Request.Context(), support.AddReplyInput{
		PostID:   id,
		Actor:    actor,
		Content:  req.Content,
		Resolves: req.Resolves,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, post)
}

// ClosePost godoc
// @Summary      Close a CS post
// @Tags         support
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      204
// @Failure      422 {object} dto.Response
// @Router       /support/posts/{id}/close [post]
func (h *SupportHandler) ClosePost(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	if err := h.csService.ClosePost(c.Request.Context(), id, actor); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DeletePost godoc
// @Summary      Delete a CS post
// @Tags         support
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Router       /support/posts/{id} [delete]
func (h *SupportHandler) DeletePost(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	if err := h.csService.DeletePost(c.Request.Context(), id, actor); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListFAQs godoc
// @Summary      List published FAQs
// @Tags         support
// @Produce      json
// @Param        category query string false "Category filter"
// @Success      200 {object} dto.Response{data=[]support.FAQInfo}
// @Router       /support/faqs [get]
func (h *SupportHandler) ListFAQs(c *gin.Context) {
	faqs, err := h.faqService.ListPublished(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, faqs)
}

// ListAllFAQs godoc
// @Summary      List all FAQs including drafts (staff)
// @Tags         support
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]support.FAQInfo}
// @Failure      403 {object} dto.Response
// @Router       /support/faqs/all [get]
func (h *SupportHandler) ListAllFAQs(c *gin.Context) {
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

	result, err := h.faqService.ListAll(c.Request.Context(), actor, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// CreateFAQ godoc
// @Summary      Create an FAQ entry (staff)
// @Tags         support
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body FAQRequest true "FAQ data"
// @Success      201 {object} dto.Response{data=support.FAQInfo}
// @Failure      403 {object} dto.Response
// @Router       /support/faqs [post]
func (h *SupportHandler) CreateFAQ(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	faq, err := h.faqService.Create(c.Request.Context(), support.CreateFAQInput{
		Actor:     actor,
		Category:  req.Category,
		Question:  req.Question,
		Answer:    req.Answer,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, faq)
}

// UpdateFAQ godoc
// @Summary      Update an FAQ entry (staff)
// @Tags         support
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "FAQ ID"
// @Param        request body FAQRequest true "FAQ data"
// @Success      200 {object} dto.Response{data=support.FAQInfo}
// @Failure      403 {object} dto.Response
// @Router       /support/faqs/{id} [put]
func (h *SupportHandler) UpdateFAQ(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid FAQ ID")
		return
	}

	var req FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	faq, err := h.faqService.Update(c.Request.Context(), support.UpdateFAQInput{
		FAQID:     id,
		Actor:     actor,
		Category:  req.Category,
		Question:  req.Question,
		Answer:    req.Answer,
		SortOrder: req.SortOrder,
		Published: req.Published,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, faq)
}

// DeleteFAQ godoc
// @Summary      Delete an FAQ entry (staff)
// @Tags         support
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "FAQ ID"
// @Success      204
// @Failure      403 {object} dto.Response
// @Router       /support/faqs/{id} [delete]
func (h *SupportHandler) DeleteFAQ(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid FAQ ID")
		return
	}

	if err := h.faqService.Delete(c.Request.Context(), id, actor); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListNotices godoc
// @Summary      List notices
// @Tags         support
// @Produce      json
// @Success      200 {object} dto.Response{data=[]support.NoticeInfo}
// @Router       /support/notices [get]
func (h *SupportHandler) ListNotices(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.noticeService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetNotice godoc
// @Summary      Read a notice
// @Description  Reading bumps the view counter asynchronously
// @Tags         support
// @Produce      json
// @Param        id path string true "Notice ID"
// @Success      200 {object} dto.Response{data=support.NoticeInfo}
// @Failure      404 {object} dto.Response
// @Router       /support/notices/{id} [get]
func (h *SupportHandler) GetNotice(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid notice ID")
		return
	}

	notice, err := h.noticeService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, notice)
}

// CreateNotice godoc
// @Summary      Publish a notice (staff)
// @Tags         support
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body NoticeRequest true "Notice data"
// @Success      201 {object} dto.Response{data=support.NoticeInfo}
// @Failure      403 {object} dto.Response
// @Router       /support/notices [post]
func (h *SupportHandler) CreateNotice(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	notice, err := h.noticeService.Create(c.Request.Context(), support.CreateNoticeInput{
		Actor:     actor,
		Title:     req.Title,
		Content:   req.Content,
		Important: req.Important,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, notice)
}

// UpdateNotice godoc
// @Summary      Edit a notice (staff)
// @Tags         support
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notice ID"
// @Param        request body NoticeRequest true "Notice data"
// @Success      200 {object} dto.Response{data=support.NoticeInfo}
// @Failure      403 {object} dto.Response
// @Router       /support/notices/{id} [put]
func (h *SupportHandler) UpdateNotice(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid notice ID")
		return
	}

	var req NoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	notice, err := h.noticeService.Update(c.Request.Context(), support.UpdateNoticeInput{
		NoticeID:  id,
		Actor:     actor,
		Title:     req.Title,
		Content:   req.Content,
		Important: req.Important,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, notice)
}

// DeleteNotice godoc
// @Summary      Delete a notice (staff)
// @Tags         support
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notice ID"
// @Success      204
// @Failure      403 {object} dto.Response
// @Router       /support/notices/{id} [delete]
func (h *SupportHandler) DeleteNotice(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid notice ID")
		return
	}

	if err := h.noticeService.Delete(c.Request.Context(), id, actor); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
