package support

import (
	"context"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PostRepository defines the interface for CS post persistence
type PostRepository interface {
	shared.OwnedRepository[Post]
}

// FAQRepository defines the interface for FAQ persistence
type FAQRepository interface {
	shared.Repository[FAQ]

	// FindPublished returns published FAQs ordered by category and sort order
	FindPublished(ctx context.Context, category string) ([]FAQ, error)
}

// NoticeRepository defines the interface for notice persistence
type NoticeRepository interface {
	shared.Repository[Notice]

	// IncrementViewCount bumps the view counter without touching other fields
	IncrementViewCount(ctx context.Context, id uuid.UUID, delta int64) error
}
