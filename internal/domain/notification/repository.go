package notification

import (
	"context"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for notification persistence
type Repository interface {
	shared.OwnedRepository[Notification]

	// MarkAllRead marks every unread notification of a user as read and
	// returns how many rows changed
	MarkAllRead(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// CountUnread counts a user's unread notifications
	CountUnread(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// DeleteReadBefore removes read notifications older than the cutoff.
	// The retention sweep calls this daily; re-running it is naturally
	// idempotent.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// SaveSetting upserts a user's notification settings
	SaveSetting(ctx context.Context, setting *Setting) error

	// FindSetting returns a user's settings, or the default when none exist
	FindSetting(ctx context.Context, userID uuid.UUID) (*Setting, error)
}
