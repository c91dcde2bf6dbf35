package identity

import (
	"time"

	"github.com/agoramall/backend/internal/domain/identity"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RegisterInput contains input for user registration
type RegisterInput struct {
	Email           string
	Password        string
	PasswordConfirm string
	Nickname        string // empty requests a generated nickname
}

// RegisterResult contains the result of a registration. The verification
// code is returned to the caller because email delivery is out of scope.
type RegisterResult struct {
	User             UserInfo
	VerificationCode string
}

// VerifyEmailInput contains input for email verification
type VerifyEmailInput struct {
	Code string
}

// LoginInput contains input for login
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResult contains tokens and user info returned on login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	CSRFToken             string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// RefreshInput contains input for token refresh
type RefreshInput struct {
	RefreshToken string
	CSRFToken    string
}

// RefreshResult contains the new token pair
type RefreshResult struct {
	AccessToken           string
	RefreshToken          string
	CSRFToken             string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains input for logout
type LogoutInput struct {
	UserID       uuid.UUID
	RefreshToken string
}

// OAuthCallbackInput contains input for the social login callback
type OAuthCallbackInput struct {
	Provider string
	Code     string
}

// OAuthCallbackResult contains tokens issued after a social login and
// whether the local account was created during the callback.
type OAuthCallbackResult struct {
	LoginResult
	Created bool
}

// UpdateProfileInput contains input for profile updates
type UpdateProfileInput struct {
	UserID   uuid.UUID
	Nickname *string
}

// ChangePasswordInput contains input for a password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// ChangeRoleInput contains input for a staff role change
type ChangeRoleInput struct {
	UserID uuid.UUID
	Role   string
}

// ChangeGradeInput contains input for a staff grade change
type ChangeGradeInput struct {
	UserID uuid.UUID
	Grade  string
}

// ListUsersInput contains input for the staff user listing
type ListUsersInput struct {
	Filter shared.Filter
}

// UserInfo is the user representation returned by services
type UserInfo struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Nickname      string     `json:"nickname"`
	Role          string     `json:"role"`
	Grade         string     `json:"grade"`
	Status        string     `json:"status"`
	EmailVerified bool       `json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewUserInfo maps a user aggregate to its service representation
func NewUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:            user.ID,
		Email:         user.Email,
		Nickname:      user.Nickname,
		Role:          user.Role.String(),
		Grade:         string(user.Grade),
		Status:        user.Status.String(),
		EmailVerified: user.EmailVerified,
		LastLoginAt:   user.LastLoginAt,
		CreatedAt:     user.CreatedAt,
	}
}
