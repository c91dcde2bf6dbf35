package support

import (
	"strings"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PostType categorizes a customer-support post
type PostType string

const (
	PostTypeInquiry    PostType = "inquiry"
	PostTypeReport     PostType = "report"
	PostTypeSuggestion PostType = "suggestion"
	PostTypeOther      PostType = "other"
)

// IsValid checks if the post type is a known value
func (t PostType) IsValid() bool {
	switch t {
	case PostTypeInquiry, PostTypeReport, PostTypeSuggestion, PostTypeOther:
		return true
	}
	return false
}

// PostStatus tracks the handling state of a post
type PostStatus string

const (
	PostStatusPending    PostStatus = "pending"
	PostStatusInProgress PostStatus = "in_progress"
	PostStatusCompleted  PostStatus = "completed"
	PostStatusClosed     PostStatus = "closed"
)

// IsValid checks if the post status is a known value
func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusPending, PostStatusInProgress, PostStatusCompleted, PostStatusClosed:
		return true
	}
	return false
}

// Post is a customer-support ticket. Non-staff users see only their own
// posts; staff see all.
type Post struct {
	shared.OwnedAggregateRoot
	Type    PostType   `gorm:"not null;size:20;index"`
	Status  PostStatus `gorm:"not null;default:'pending';size:20;index"`
	Title   string     `gorm:"not null;size:200"`
	Content string     `gorm:"not null;size:5000"`
	Replies []Reply    `gorm:"foreignKey:PostID"`
}

// TableName returns the database table name
func (Post) TableName() string {
	return "cs_posts"
}

// NewPost creates a pending support post
func NewPost(ownerID uuid.UUID, postType PostType, title, content string) (*Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "owner is required")
	}
	if !postType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown post type")
	}
	if title == "" || content == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "title and content are required")
	}
	return &Post{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Type:               postType,
		Status:             PostStatusPending,
		Title:              title,
		Content:            content,
	}, nil
}

// Update edits the post. Only pending posts may be edited by their owner.
func (p *Post) Update(title, content string) error {
	if p.Status != PostStatusPending {
		return shared.NewDomainError("INVALID_STATE", "only pending posts can be edited")
	}
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return shared.NewDomainError("INVALID_INPUT", "title and content are required")
	}
	p.Title = title
	p.Content = content
	p.UpdatedAt = time.Now()
	return nil
}

// AddReply appends a staff reply. The first reply moves a pending post to
// in_progress; a resolving reply marks it completed.
func (p *Post) AddReply(staffID uuid.UUID, content string, resolves bool) (*Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "reply content is required")
	}
	if p.Status == PostStatusClosed {
		return nil, shared.NewDomainError("INVALID_STATE", "closed posts cannot receive replies")
	}
	reply := &Reply{
		BaseEntity: shared.NewBaseEntity(),
		PostID:     p.ID,
		StaffID:    staffID,
		Content:    content,
	}
	p.Replies = append(p.Replies, *reply)
	if resolves {
		p.Status = PostStatusCompleted
	} else if p.Status == PostStatusPending {
		p.Status = PostStatusInProgress
	}
	p.UpdatedAt = time.Now()
	p.AddDomainEvent(NewReplyAddedEvent(p, resolves))
	return reply, nil
}

// Close closes the post to further replies
func (p *Post) Close() error {
	if p.Status == PostStatusClosed {
		return shared.ErrInvalidState
	}
	p.Status = PostStatusClosed
	p.UpdatedAt = time.Now()
	return nil
}

// Reply is a staff answer attached to a support post
type Reply struct {
	shared.BaseEntity
	PostID  uuid.UUID `gorm:"type:uuid;not null;index"`
	StaffID uuid.UUID `gorm:"type:uuid;not null"`
	Content string    `gorm:"not null;size:5000"`
}

// TableName returns the database table name
func (Reply) TableName() string {
	return "cs_replies"
}
