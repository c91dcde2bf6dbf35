package handler

import (
	"github.com/agoramall/backend/internal/application/identity"
	"github.com/agoramall/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// UserHandler handles profile and staff user-management requests
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest is the profile update request body
type UpdateProfileRequest struct {
	Nickname *string `json:"nickname"`
}

// ChangePasswordRequest is the password change request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangeRoleRequest is the staff role change request body
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin manager user"`
}

// ChangeGradeRequest is the staff grade change request body
type ChangeGradeRequest struct {
	Grade string `json:"grade" binding:"required,oneof=BRONZE SILVER GOLD PLATINUM"`
}

// GetProfile godoc
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=identity.UserInfo}
// @Failure      401 {object} dto.Response
// @Router       /users/me [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} dto.Response{data=identity.UserInfo}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /users/me [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), identity.UpdateProfileInput{
		UserID:   userID,
		Nickname: req.Nickname,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ChangePassword godoc
// @Summary      Change own password
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ChangePasswordRequest true "Old and new password"
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Router       /users/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), identity.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate godoc
// @Summary      Deactivate own account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      204
// @Failure      401 {object} dto.Response
// @Router       /users/me [delete]
func (h *UserHandler) Deactivate(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListUsers godoc
// @Summary      List users (staff)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Search over email and nickname"
// @Success      200 {object} dto.Response{data=[]identity.UserInfo}
// @Failure      403 {object} dto.Response
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.userService.ListUsers(c.Request.Context(), identity.ListUsersInput{
		Filter: req.ToFilter(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetUser godoc
// @Summary      Get a user (staff)
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identity.UserInfo}
// @Failure      404 {object} dto.Response
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ChangeRole godoc
// @Summary      Change a user's role (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body ChangeRoleRequest true "New role"
// @Success      204
// @Failure      403 {object} dto.Response
// @Router       /users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ChangeRole(c.Request.Context(), identity.ChangeRoleInput{
		UserID: id,
		Role:   req.Role,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ChangeGrade godoc
// @Summary      Change a user's grade (staff)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Param        request body ChangeGradeRequest true "New grade"
// @Success      204
// @Failure      403 {object} dto.Response
// @Router       /users/{id}/grade [put]
func (h *UserHandler) ChangeGrade(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req ChangeGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.ChangeGrade(c.Request.Context(), identity.ChangeGradeInput{
		UserID: id,
		Grade:  req.Grade,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
