package support

import (
	"strings"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
)

// Notice is a staff announcement shown to all users. Important notices are
// pinned to the top of listings.
type Notice struct {
	shared.BaseAggregateRoot
	Title       string `gorm:"not null;size:200"`
	Content     string `gorm:"not null;size:10000"`
	IsImportant bool   `gorm:"not null;default:false;index"`
	ViewCount   int64  `gorm:"not null;default:0"`
}

// TableName returns the database table name
func (Notice) TableName() string {
	return "notices"
}

// NewNotice creates a notice
func NewNotice(title, content string, important bool) (*Notice, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "title and content are required")
	}
	return &Notice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Content:           content,
		IsImportant:       important,
	}, nil
}

// Update replaces the notice content
func (n *Notice) Update(title, content string, important bool) error {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return shared.NewDomainError("INVALID_INPUT", "title and content are required")
	}
	n.Title = title
	n.Content = content
	n.IsImportant = important
	n.UpdatedAt = time.Now()
	return nil
}
