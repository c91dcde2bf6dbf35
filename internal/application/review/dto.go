package review

import (
	"time"

	"github.com/agoramall/backend/internal/domain/review"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Actor identifies the requesting user and whether they hold a staff role
type Actor struct {
	UserID uuid.UUID
	Staff  bool
}

// CreateReviewInput contains input for writing a review
type CreateReviewInput struct {
	OwnerID  uuid.UUID
	TargetID uuid.UUID
	Rating   int
	Content  string
	ImageURL string
}

// UpdateReviewInput contains input for editing a review
type UpdateReviewInput struct {
	ReviewID uuid.UUID
	Actor    Actor
	Rating   int
	Content  string
	ImageURL string
}

// ReportReviewInput contains input for reporting a review
type ReportReviewInput struct {
	ReviewID   uuid.UUID
	ReporterID uuid.UUID
	Reason     string
}

// MarkBestInput contains input for toggling the best-review flag
type MarkBestInput struct {
	ReviewID uuid.UUID
	Actor    Actor
	Best     bool
}

// ListByTargetInput contains input for listing reviews of a target
type ListByTargetInput struct {
	TargetID uuid.UUID
	Filter   shared.Filter
}

// ListReportedInput contains input for the staff reported-review queue
type ListReportedInput struct {
	Actor  Actor
	Filter shared.Filter
}

// ReviewInfo is the review representation returned by services
type ReviewInfo struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	TargetID    uuid.UUID `json:"target_id"`
	Rating      int       `json:"rating"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsBest      bool      `json:"is_best"`
	Reported    bool      `json:"reported"`
	ReportCount int       `json:"report_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TargetReviews couples a review page with the target's mean rating
type TargetReviews struct {
	Reviews       shared.Paginated[ReviewInfo] `json:"reviews"`
	AverageRating float64                      `json:"average_rating"`
}

// NewReviewInfo maps a review aggregate to its service representation
func NewReviewInfo(r *review.Review) ReviewInfo {
	return ReviewInfo{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		TargetID:    r.TargetID,
		Rating:      r.Rating,
		Content:     r.Content,
		ImageURL:    r.ImageURL,
		IsBest:      r.IsBest,
		Reported:    r.Reported,
		ReportCount: len(r.Reports),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
