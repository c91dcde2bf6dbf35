package identity

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/agoramall/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the lifecycle state of a user account
type UserStatus string

const (
	UserStatusPending     UserStatus = "pending"     // registered, email not yet verified
	UserStatusActive      UserStatus = "active"      // verified and usable
	UserStatusLocked      UserStatus = "locked"      // temporarily locked after failed logins
	UserStatusDeactivated UserStatus = "deactivated" // deleted by owner or staff
)

// IsValid checks if the status is a known value
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusLocked, UserStatusDeactivated:
		return true
	}
	return false
}

func (s UserStatus) String() string {
	return string(s)
}

// UserGrade represents the membership grade of a user
type UserGrade string

const (
	GradeBronze   UserGrade = "BRONZE"
	GradeSilver   UserGrade = "SILVER"
	GradeGold     UserGrade = "GOLD"
	GradePlatinum UserGrade = "PLATINUM"
)

// IsValid checks if the grade is a known value
func (g UserGrade) IsValid() bool {
	switch g {
	case GradeBronze, GradeSilver, GradeGold, GradePlatinum:
		return true
	}
	return false
}

const (
	bcryptCost = 12

	// MaxNicknameLength is the maximum number of characters (runes) in a nickname
	MaxNicknameLength = 10

	// MinPasswordLength is the minimum password length
	MinPasswordLength = 12
	// MaxPasswordLength guards against bcrypt's 72-byte input limit
	MaxPasswordLength = 72
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	nicknameRegex = regexp.MustCompile(`^[\p{L}\p{N}_#]+$`)
)

// User is the central identity aggregate
type User struct {
	shared.BaseAggregateRoot
	Email        string `gorm:"uniqueIndex;not null;size:254"`
	Nickname     string `gorm:"uniqueIndex;not null;size:40"`
	PasswordHash string `gorm:"not null;size:100"`
	Role         Role   `gorm:"not null;default:'user';size:20"`
	Grade        UserGrade
	Status       UserStatus `gorm:"not null;default:'pending';index"`
	EmailVerified        bool
	EmailVerifiedAt      *time.Time
	FailedLoginAttempts  int
	LockedUntil          *time.Time
	LastLoginAt          *time.Time
	PasswordChangedAt    *time.Time
	DeactivatedAt        *time.Time
}

// TableName returns the database table name
func (User) TableName() string {
	return "users"
}

// NewUser creates a pending user awaiting email verification
func NewUser(email, nickname, password string) (*User, error) {
	return newUser(email, nickname, password, false)
}

// newUser backs the public constructors. Generated nicknames carry a #NNNN
// suffix and skip the length cap applied to user-chosen names.
func newUser(email, nickname, password string, generatedNickname bool) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	nickname = strings.TrimSpace(nickname)

	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if generatedNickname {
		if nickname == "" || !nicknameRegex.MatchString(nickname) {
			return nil, shared.NewDomainError("INVALID_INPUT", "nickname contains invalid characters")
		}
	} else if err := ValidateNickname(nickname); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Nickname:          nickname,
		PasswordHash:      hash,
		Role:              RoleUser,
		Grade:             GradeBronze,
		Status:            UserStatusPending,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))
	return user, nil
}

// NewActiveUser creates an already-verified user (OAuth sign-in, seeding)
func NewActiveUser(email, nickname, password string) (*User, error) {
	user, err := NewUser(email, nickname, password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user.Status = UserStatusActive
	user.EmailVerified = true
	user.EmailVerifiedAt = &now
	return user, nil
}

// VerifyEmail activates a pending account. Verification happens exactly once;
// a second attempt returns ErrAlreadyVerified.
func (u *User) VerifyEmail() error {
	if u.EmailVerified {
		return shared.ErrAlreadyVerified
	}
	if u.Status == UserStatusDeactivated {
		return shared.ErrInvalidState
	}
	now := time.Now()
	u.EmailVerified = true
	u.EmailVerifiedAt = &now
	u.Status = UserStatusActive
	u.UpdatedAt = now
	u.AddDomainEvent(NewUserVerifiedEvent(u))
	return nil
}

// CheckPassword compares a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword validates and replaces the password hash
func (u *User) ChangePassword(newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	now := time.Now()
	u.PasswordHash = hash
	u.PasswordChangedAt = &now
	u.UpdatedAt = now
	return nil
}

// ChangeNickname validates and replaces the nickname. Uniqueness and
// profanity checks happen in the application layer.
func (u *User) ChangeNickname(nickname string) error {
	nickname = strings.TrimSpace(nickname)
	if err := ValidateNickname(nickname); err != nil {
		return err
	}
	u.Nickname = nickname
	u.UpdatedAt = time.Now()
	return nil
}

// RecordLoginSuccess resets failure counters and stamps the login time
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	u.LastLoginAt = &now
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
	}
	u.UpdatedAt = now
}

// RecordLoginFailure increments the failure counter and locks the account
// once maxAttempts is reached. Returns true when the account became locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedLoginAttempts++
	u.UpdatedAt = time.Now()
	if u.FailedLoginAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		u.Status = UserStatusLocked
		u.LockedUntil = &until
		u.AddDomainEvent(NewUserLockedEvent(u))
		return true
	}
	return false
}

// IsLocked reports whether the account is currently locked. An expired lock
// no longer counts as locked.
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

// CanLogin reports whether the account may authenticate right now
func (u *User) CanLogin() bool {
	if u.IsLocked() {
		return false
	}
	return u.Status == UserStatusActive
}

// Deactivate soft-deletes the account
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.ErrInvalidState
	}
	now := time.Now()
	u.Status = UserStatusDeactivated
	u.DeactivatedAt = &now
	u.UpdatedAt = now
	u.AddDomainEvent(NewUserDeactivatedEvent(u))
	return nil
}

// ChangeRole assigns a new role
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown role: %s", role))
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	return nil
}

// ChangeGrade assigns a new membership grade
func (u *User) ChangeGrade(grade UserGrade) error {
	if !grade.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown grade: %s", grade))
	}
	u.Grade = grade
	u.UpdatedAt = time.Now()
	return nil
}

// IsStaff reports whether the user holds a staff role
func (u *User) IsStaff() bool {
	return u.Role.IsStaff()
}

// Can reports whether the user's role grants the capability
func (u *User) Can(capability Capability) bool {
	return u.Role.Can(capability)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// ValidateEmail checks email format
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_INPUT", "email is required")
	}
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_INPUT", "invalid email format")
	}
	return nil
}

// ValidateNickname checks nickname length and characters. Korean, latin,
// digits, underscore and the # used by generated nicknames are allowed.
func ValidateNickname(nickname string) error {
	if nickname == "" {
		return shared.NewDomainError("INVALID_INPUT", "nickname is required")
	}
	if utf8.RuneCountInString(nickname) > MaxNicknameLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("nickname cannot exceed %d characters", MaxNicknameLength))
	}
	if !nicknameRegex.MatchString(nickname) {
		return shared.NewDomainError("INVALID_INPUT", "nickname contains invalid characters")
	}
	return nil
}

// ValidatePassword enforces the password policy: minimum length with at
// least one uppercase, one lowercase, one digit and one special character.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordLength {
		return shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("password cannot exceed %d characters", MaxPasswordLength))
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return shared.NewDomainError("INVALID_INPUT",
			"password must contain uppercase, lowercase, digit and special characters")
	}
	return nil
}
