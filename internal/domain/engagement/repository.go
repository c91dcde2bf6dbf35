package engagement

import (
	"context"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LikeRepository defines the interface for like persistence
type LikeRepository interface {
	// Create stores a like; duplicates surface as ErrAlreadyExists
	Create(ctx context.Context, like *Like) error

	// Delete removes a user's like on a target
	Delete(ctx context.Context, userID uuid.UUID, targetType TargetType, targetID uuid.UUID) error

	// Exists reports whether the user already likes the target
	Exists(ctx context.Context, userID uuid.UUID, targetType TargetType, targetID uuid.UUID) (bool, error)

	// CountForTarget counts likes on a target
	CountForTarget(ctx context.Context, targetType TargetType, targetID uuid.UUID) (int64, error)
}

// PresetMessageRepository defines the interface for canned reply persistence
type PresetMessageRepository interface {
	shared.Repository[PresetMessage]

	// FindByCategory returns canned replies in a category
	FindByCategory(ctx context.Context, category string) ([]PresetMessage, error)
}
