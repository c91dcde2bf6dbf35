package engagement

import (
	"strings"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
)

// PresetMessage is a staff-managed canned reply used in chat and CS answers
type PresetMessage struct {
	shared.BaseAggregateRoot
	Category string `gorm:"not null;size:50;index"`
	Title    string `gorm:"not null;size:100"`
	Content  string `gorm:"not null;size:2000"`
}

// TableName returns the database table name
func (PresetMessage) TableName() string {
	return "preset_messages"
}

// NewPresetMessage creates a canned reply
func NewPresetMessage(category, title, content string) (*PresetMessage, error) {
	category = strings.TrimSpace(category)
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if category == "" || title == "" || content == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "category, title and content are required")
	}
	return &PresetMessage{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Category:          category,
		Title:             title,
		Content:           content,
	}, nil
}

// Update replaces the canned reply content
func (p *PresetMessage) Update(category, title, content string) error {
	category = strings.TrimSpace(category)
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if category == "" || title == "" || content == "" {
		return shared.NewDomainError("INVALID_INPUT", "category, title and content are required")
	}
	p.Category = category
	p.Title = title
	p.Content = content
	p.UpdatedAt = time.Now()
	return nil
}
