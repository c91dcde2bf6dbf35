package support

import (
	"github.com/agoramall/backend/internal/domain/shared"
)

// Aggregate type constant for Post
const AggregateTypePost = "CSPost"

// Support domain event types
const (
	EventTypeReplyAdded = "support.reply_added"
)

// ReplyAddedEvent is published when staff answer a support post. The
// notification handler listens for it to inform the post's owner.
type ReplyAddedEvent struct {
	shared.BaseDomainEvent
	OwnerID   string `json:"owner_id"`
	PostTitle string `json:"post_title"`
	Resolves  bool   `json:"resolves"`
}

// NewReplyAddedEvent creates a new ReplyAddedEvent
func NewReplyAddedEvent(post *Post, resolves bool) *ReplyAddedEvent {
	return &ReplyAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReplyAdded, AggregateTypePost, post.ID),
		OwnerID:         post.OwnerID.String(),
		PostTitle:       post.Title,
		Resolves:        resolves,
	}
}
