package workflow

import (
	"context"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for work persistence
type Repository interface {
	shared.OwnedRepository[Work]

	// FindForAssignee returns works assigned to the user
	FindForAssignee(ctx context.Context, assigneeID uuid.UUID, filter shared.Filter) ([]Work, int64, error)

	// FindProgress returns the progress history for one work, oldest first
	FindProgress(ctx context.Context, workID uuid.UUID) ([]ProgressEntry, error)
}
