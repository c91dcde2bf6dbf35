package engagement

import (
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TargetType names the kinds of resources a user can like
type TargetType string

const (
	TargetReview TargetType = "review"
	TargetNotice TargetType = "notice"
	TargetWork   TargetType = "work"
)

// IsValid checks if the target type is a known value
func (t TargetType) IsValid() bool {
	switch t {
	case TargetReview, TargetNotice, TargetWork:
		return true
	}
	return false
}

// Like records one user liking one target.
// (user, target type, target id) triples are unique.
type Like struct {
	shared.BaseEntity
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_target"`
	TargetType TargetType `gorm:"not null;size:20;uniqueIndex:idx_user_target"`
	TargetID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_target;index"`
}

// TableName returns the database table name
func (Like) TableName() string {
	return "likes"
}

// NewLike creates a like record
func NewLike(userID uuid.UUID, targetType TargetType, targetID uuid.UUID) (*Like, error) {
	if userID == uuid.Nil || targetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "user and target are required")
	}
	if !targetType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown like target type")
	}
	return &Like{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
	}, nil
}
