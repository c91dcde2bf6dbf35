package engagement

import (
	"github.com/agoramall/backend/internal/domain/engagement"
	"github.com/google/uuid"
)

// Actor identifies the requesting user and whether they hold a staff role
type Actor struct {
	UserID uuid.UUID
	Staff  bool
}

// ToggleLikeInput contains input for liking or unliking a target
type ToggleLikeInput struct {
	UserID     uuid.UUID
	TargetType string
	TargetID   uuid.UUID
}

// LikeStatus reports the like state of a target after a toggle or query
type LikeStatus struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// CreatePresetInput contains input for creating a canned reply
type CreatePresetInput struct {
	Actor    Actor
	Category string
	Title    string
	Content  string
}

// UpdatePresetInput contains input for editing a canned reply
type UpdatePresetInput struct {
	PresetID uuid.UUID
	Actor    Actor
	Category string
	Title    string
	Content  string
}

// PresetInfo is the canned reply representation returned by services
type PresetInfo struct {
	ID       uuid.UUID `json:"id"`
	Category string    `json:"category"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
}

// NewPresetInfo maps a canned reply to its service representation
func NewPresetInfo(p *engagement.PresetMessage) PresetInfo {
	return PresetInfo{
		ID:       p.ID,
		Category: p.Category,
		Title:    p.Title,
		Content:  p.Content,
	}
}
