package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/agoramall/backend/internal/application/identity"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

// RefreshCookieName is the HttpOnly cookie carrying the refresh token
const RefreshCookieName = "refresh_token"

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	cookieCfg   config.CookieConfig
	oauthCfg    config.OAuthConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, cookieCfg config.CookieConfig, oauthCfg config.OAuthConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieCfg:   cookieCfg,
		oauthCfg:    oauthCfg,
	}
}

// RegisterRequest is the registration request body
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	Nickname        string `json:"nickname"`
}

// VerifyEmailRequest carries the signed verification code
type VerifyEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

// LoginRequest is the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued access token. The refresh token travels
// in the HttpOnly cookie only.
type TokenResponse struct {
	AccessToken          string    `json:"access_token"`
	AccessTokenExpiresAt time.Time `json:"access_token_expires_at"`
	CSRFToken            string    `json:"csrf_token"`
	TokenType            string    `json:"token_type"`
}

// LoginResponse is the login response body
type LoginResponse struct {
	Token TokenResponse     `json:"token"`
	User  identity.UserInfo `json:"user"`
}

// Register godoc
// @Summary      Register a new account
// @Description  Create a pending account; returns the email verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identity.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Nickname:        req.Nickname,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// VerifyEmail godoc
// @Summary      Verify email address
// @Description  Activate a pending account with the signed verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body VerifyEmailRequest true "Verification code"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      410 {object} dto.Response
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.VerifyEmail(c.Request.Context(), identity.VerifyEmailInput{Code: req.Code})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Login godoc
// @Summary      User login
// @Description  Authenticate with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=LoginResponse}
// @Failure      401 {object} dto.Response
// @Failure      429 {object} dto.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshTokenExpiresAt)

	h.Success(c, LoginResponse{
		Token: TokenResponse{
			AccessToken:          result.AccessToken,
			AccessTokenExpiresAt: result.AccessTokenExpiresAt,
			CSRFToken:            result.CSRFToken,
			TokenType:            result.TokenType,
		},
		User: result.User,
	})
}

// Refresh godoc
// @Summary      Refresh the token pair
// @Description  Exchange the refresh cookie plus CSRF header for new tokens
// @Tags         auth
// @Produce      json
// @Param        X-CSRF-Token header string true "CSRF token issued at login"
// @Success      200 {object} dto.Response{data=TokenResponse}
// @Failure      401 {object} dto.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshCookieName)
	if err != nil || refreshToken == "" {
		h.Unauthorized(c, "Missing refresh cookie")
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), identity.RefreshInput{
		RefreshToken: refreshToken,
		CSRFToken:    c.GetHeader("X-CSRF-Token"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshTokenExpiresAt)

	h.Success(c, TokenResponse{
		AccessToken:          result.AccessToken,
		AccessTokenExpiresAt: result.AccessTokenExpiresAt,
		CSRFToken:            result.CSRFToken,
		TokenType:            result.TokenType,
	})
}

// Logout godoc
// @Summary      Logout
// @Description  Blacklist the current tokens and clear the refresh cookie
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      204
// @Failure      401 {object} dto.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	refreshToken, _ := c.Cookie(RefreshCookieName)
	if err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		UserID:       userID,
		RefreshToken: refreshToken,
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearRefreshCookie(c)
	h.NoContent(c)
}

// OAuthCallback godoc
// @Summary      Social login callback
// @Description  Exchange a provider authorization code and redirect to the front-end with the tokens in the query string
// @Tags         auth
// @Param        provider path string true "OAuth provider"
// @Param        code query string true "Authorization code"
// @Success      302
// @Router       /auth/oauth/{provider}/callback [get]
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		h.oauthFailureRedirect(c, "Missing authorization code")
		return
	}

	result, err := h.authService.OAuthCallback(c.Request.Context(), identity.OAuthCallbackInput{
		Provider: c.Param("provider"),
		Code:     code,
	})
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			h.oauthFailureRedirect(c, domainErr.Message)
			return
		}
		h.oauthFailureRedirect(c, "Social login failed")
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, result.RefreshTokenExpiresAt)
	h.oauthSuccessRedirect(c, result)
}

// oauthSuccessRedirect sends the browser back to the front-end with the
// access and CSRF tokens in the query string. The refresh token travels in
// the HttpOnly cookie only.
func (h *AuthHandler) oauthSuccessRedirect(c *gin.Context, result *identity.OAuthCallbackResult) {
	params := url.Values{}
	params.Set("access_token", result.AccessToken)
	params.Set("csrf_token", result.CSRFToken)
	c.Redirect(http.StatusFound, h.oauthCfg.SuccessRedirectURL+"?"+params.Encode())
}

func (h *AuthHandler) oauthFailureRedirect(c *gin.Context, message string) {
	params := url.Values{}
	params.Set("error", message)
	c.Redirect(http.StatusFound, h.oauthCfg.FailureRedirectURL+"?"+params.Encode())
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, expiresAt time.Time) {
	c.SetSameSite(sameSiteMode(h.cookieCfg.SameSite))
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetCookie(RefreshCookieName, token, maxAge, h.cookieCfg.Path, h.cookieCfg.Domain, h.cookieCfg.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(sameSiteMode(h.cookieCfg.SameSite))
	c.SetCookie(RefreshCookieName, "", -1, h.cookieCfg.Path, h.cookieCfg.Domain, h.cookieCfg.Secure, true)
}

func sameSiteMode(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
