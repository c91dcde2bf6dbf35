package review

import (
	"context"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for review persistence
type Repository interface {
	shared.OwnedRepository[Review]

	// FindByTarget returns reviews for a target, best reviews first
	FindByTarget(ctx context.Context, targetID uuid.UUID, filter shared.Filter) ([]Review, int64, error)

	// FindReported returns reviews carrying at least one report (staff view)
	FindReported(ctx context.Context, filter shared.Filter) ([]Review, int64, error)

	// AverageRating computes the mean rating for a target
	AverageRating(ctx context.Context, targetID uuid.UUID) (float64, error)
}
