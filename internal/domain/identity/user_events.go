package identity

import (
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserRegistered  = "user.registered"
	EventTypeUserVerified    = "user.verified"
	EventTypeUserLocked      = "user.locked"
	EventTypeUserDeactivated = "user.deactivated"
)

// UserRegisteredEvent is published when a user registers
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		Email:           user.Email,
		Nickname:        user.Nickname,
	}
}

// UserVerifiedEvent is published when a user completes email verification
type UserVerifiedEvent struct {
	shared.BaseDomainEvent
	Email      string    `json:"email"`
	VerifiedAt time.Time `json:"verified_at"`
}

// NewUserVerifiedEvent creates a new UserVerifiedEvent
func NewUserVerifiedEvent(user *User) *UserVerifiedEvent {
	verifiedAt := time.Now()
	if user.EmailVerifiedAt != nil {
		verifiedAt = *user.EmailVerifiedAt
	}
	return &UserVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserVerified, AggregateTypeUser, user.ID),
		Email:           user.Email,
		VerifiedAt:      verifiedAt,
	}
}

// UserLockedEvent is published when failed logins lock an account
type UserLockedEvent struct {
	shared.BaseDomainEvent
	Email       string     `json:"email"`
	LockedUntil *time.Time `json:"locked_until"`
}

// NewUserLockedEvent creates a new UserLockedEvent
func NewUserLockedEvent(user *User) *UserLockedEvent {
	return &UserLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserLocked, AggregateTypeUser, user.ID),
		Email:           user.Email,
		LockedUntil:     user.LockedUntil,
	}
}

// UserDeactivatedEvent is published when a user is deactivated
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(user *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserDeactivated, AggregateTypeUser, user.ID),
		Email:           user.Email,
	}
}
