package identity

import (
	"context"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// Delete deletes a user by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email (lowercased)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByNickname finds a user by nickname
	FindByNickname(ctx context.Context, nickname string) (*User, error)

	// FindAll returns users matching the filter with the total count
	FindAll(ctx context.Context, filter shared.Filter) ([]*User, int64, error)

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ExistsByNickname checks if a nickname is already taken
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)

	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}
