package review

import (
	"strings"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Review is a customer review for a completed work or product
type Review struct {
	shared.OwnedAggregateRoot
	TargetID uuid.UUID `gorm:"type:uuid;not null;index"` // work or product reviewed
	Rating   int       `gorm:"not null"`
	Content  string    `gorm:"size:2000;not null"`
	ImageURL string    `gorm:"size:500"`
	IsBest   bool      `gorm:"not null;default:false;index"` // staff curation flag
	Reported bool      `gorm:"not null;default:false;index"`
	Reports  []Report  `gorm:"foreignKey:ReviewID"`
}

// TableName returns the database table name
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a validated review
func NewReview(ownerID, targetID uuid.UUID, rating int, content, imageURL string) (*Review, error) {
	content = strings.TrimSpace(content)
	if ownerID == uuid.Nil || targetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "owner and target are required")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_INPUT", "rating must be between 1 and 5")
	}
	if content == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "review content is required")
	}
	return &Review{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		TargetID:           targetID,
		Rating:             rating,
		Content:            content,
		ImageURL:           imageURL,
	}, nil
}

// Update replaces the mutable fields of the review
func (r *Review) Update(rating int, content, imageURL string) error {
	content = strings.TrimSpace(content)
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_INPUT", "rating must be between 1 and 5")
	}
	if content == "" {
		return shared.NewDomainError("INVALID_INPUT", "review content is required")
	}
	r.Rating = rating
	r.Content = content
	r.ImageURL = imageURL
	r.UpdatedAt = time.Now()
	return nil
}

// MarkBest toggles the staff best-review flag
func (r *Review) MarkBest(best bool) {
	r.IsBest = best
	r.UpdatedAt = time.Now()
}

// AddReport files a report against the review. A reporter may report a
// review only once.
func (r *Review) AddReport(reporterID uuid.UUID, reason string) (*Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "report reason is required")
	}
	if reporterID == r.OwnerID {
		return nil, shared.NewDomainError("INVALID_INPUT", "cannot report your own review")
	}
	for _, rep := range r.Reports {
		if rep.ReporterID == reporterID {
			return nil, shared.ErrAlreadyExists
		}
	}
	report := &Report{
		BaseEntity: shared.NewBaseEntity(),
		ReviewID:   r.ID,
		ReporterID: reporterID,
		Reason:     reason,
	}
	r.Reports = append(r.Reports, *report)
	r.Reported = true
	r.UpdatedAt = time.Now()
	return report, nil
}

// Report is a user report filed against a review.
// (review, reporter) pairs are unique.
type Report struct {
	shared.BaseEntity
	ReviewID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_reporter"`
	ReporterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_reporter"`
	Reason     string    `gorm:"size:300;not null"`
}

// TableName returns the database table name
func (Report) TableName() string {
	return "review_reports"
}
