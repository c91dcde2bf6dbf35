package support

import (
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/support"
	"github.com/google/uuid"
)

// Actor identifies the requesting user and whether they hold a staff role
type Actor struct {
	UserID uuid.UUID
	Staff  bool
}

// CreatePostInput contains input for opening a support post
type CreatePostInput struct {
	OwnerID uuid.UUID
	Type    string
	Title   string
	Content string
}

// UpdatePostInput contains input for editing a pending support post
type UpdatePostInput struct {
	PostID  uuid.UUID
	Actor   Actor
	Title   string
	Content string
}

// AddReplyInput contains input for a staff answer
type AddReplyInput struct {
	PostID   uuid.UUID
	Actor    Actor
	Content  string
	Resolves bool
}

// ListPostsInput contains input for listing support posts
type ListPostsInput struct {
	Actor  Actor
	Filter shared.Filter
}

// PostInfo is the support post representation returned by services
type PostInfo struct {
	ID        uuid.UUID   `json:"id"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	Type      string      `json:"type"`
	Status    string      `json:"status"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Replies   []ReplyInfo `json:"replies"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ReplyInfo is a staff answer attached to a post
type ReplyInfo struct {
	ID        uuid.UUID `json:"id"`
	StaffID   uuid.UUID `json:"staff_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPostInfo maps a post aggregate to its service representation
func NewPostInfo(p *support.Post) PostInfo {
	replies := make([]ReplyInfo, 0, len(p.Replies))
	for _, r := range p.Replies {
		replies = append(replies, ReplyInfo{
			ID:        r.ID,
			StaffID:   r.StaffID,
			Content:   r.Content,
			CreatedAt: r.CreatedAt,
		})
	}
	return PostInfo{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Type:      string(p.Type),
		Status:    string(p.Status),
		Title:     p.Title,
		Content:   p.Content,
		Replies:   replies,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// CreateFAQInput contains input for creating an FAQ entry
type CreateFAQInput struct {
	Actor     Actor
	Category  string
	Question  string
	Answer    string
	SortOrder int
}

// UpdateFAQInput contains input for editing an FAQ entry
type UpdateFAQInput struct {
	FAQID     uuid.UUID
	Actor     Actor
	Category  string
	Question  string
	Answer    string
	SortOrder int
	Published bool
}

// FAQInfo is the FAQ representation returned by services
type FAQInfo struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	SortOrder int       `json:"sort_order"`
	Published bool      `json:"published"`
}

// NewFAQInfo maps an FAQ aggregate to its service representation
func NewFAQInfo(f *support.FAQ) FAQInfo {
	return FAQInfo{
		ID:        f.ID,
		Category:  f.Category,
		Question:  f.Question,
		Answer:    f.Answer,
		SortOrder: f.SortOrder,
		Published: f.Published,
	}
}

// CreateNoticeInput contains input for publishing a notice
type CreateNoticeInput struct {
	Actor     Actor
	Title     string
	Content   string
	Important bool
}

// UpdateNoticeInput contains input for editing a notice
type UpdateNoticeInput struct {
	NoticeID  uuid.UUID
	Actor     Actor
	Title     string
	Content   string
	Important bool
}

// NoticeInfo is the notice representation returned by services
type NoticeInfo struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	IsImportant bool      `json:"is_important"`
	ViewCount   int64     `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewNoticeInfo maps a notice aggregate to its service representation
func NewNoticeInfo(n *support.Notice) NoticeInfo {
	return NoticeInfo{
		ID:          n.ID,
		Title:       n.Title,
		Content:     n.Content,
		IsImportant: n.IsImportant,
		ViewCount:   n.ViewCount,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}
