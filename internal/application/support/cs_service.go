package support

import (
	"context"

	"github.com/agoramall/backend/internal/domain/moderation"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/support"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CSService handles customer-support posts and staff replies
type CSService struct {
	postRepo  support.PostRepository
	profanity *moderation.Filter
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewCSService creates a new customer-support service
func NewCSService(
	postRepo support.PostRepository,
	profanity *moderation.Filter,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *CSService {
	return &CSService{
		postRepo:  postRepo,
		profanity: profanity,
		publisher: publisher,
		logger:    logger,
	}
}

// CreatePost opens a support post. Free text passes through the
// profanity mask.
func (s *CSService) CreatePost(ctx context.Context, input CreatePostInput) (*PostInfo, error) {
	post, err := support.NewPost(
		input.OwnerID,
		support.PostType(input.Type),
		s.profanity.Mask(input.Title),
		s.profanity.Mask(input.Content),
	)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Save(ctx, post); err != nil {
		s.logger.Error("Failed to save support post", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create post")
	}

	s.logger.Info("Support post created",
		zap.String("post_id", post.ID.String()),
		zap.String("type", string(post.Type)))

	info := NewPostInfo(post)
	return &info, nil
}

// GetPost returns a post. Non-staff users see only their own posts; a
// foreign post reads as missing.
func (s *CSService) GetPost(ctx context.Context, postID uuid.UUID, actor Actor) (*PostInfo, error) {
	post, err := s.loadVisible(ctx, postID, actor)
	if err != nil {
		return nil, err
	}
	info := NewPostInfo(post)
	return &info, nil
}

// ListPosts returns support posts. Staff see every post, other users only
// their own.
func (s *CSService) ListPosts(ctx context.Context, input ListPostsInput) (*shared.Paginated[PostInfo], error) {
	var (
		posts []support.Post
		total int64
		err   error
	)
	if input.Actor.Staff {
		posts, err = s.postRepo.FindAll(ctx, input.Filter)
		if err == nil {
			total, err = s.postRepo.Count(ctx, input.Filter)
		}
	} else {
		posts, err = s.postRepo.FindAllForOwner(ctx, input.Actor.UserID, input.Filter)
		if err == nil {
			total, err = s.postRepo.CountForOwner(ctx, input.Actor.UserID, input.Filter)
		}
	}
	if err != nil {
		s.logger.Error("Failed to list support posts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list posts")
	}

	items := make([]PostInfo, 0, len(posts))
	for i := range posts {
		items = append(items, NewPostInfo(&posts[i]))
	}
	result := shared.NewPaginated(items, total, input.Filter.Page, input.Filter.PageSize)
	return &result, nil
}

// UpdatePost edits a pending post (owner only)
func (s *CSService) UpdatePost(ctx context.Context, input UpdatePostInput) (*PostInfo, error) {
	post, err := s.loadVisible(ctx, input.PostID, input.Actor)
	if err != nil {
		return nil, err
	}
	if err := post.Update(s.profanity.Mask(input.Title), s.profanity.Mask(input.Content)); err != nil {
		return nil, err
	}
	if err := s.postRepo.Save(ctx, post); err != nil {
		s.logger.Error("Failed to save support post", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update post")
	}
	info := NewPostInfo(post)
	return &info, nil
}

// AddReply records a staff answer and notifies the post owner through the
// published domain event (staff only).
func (s *CSService) AddReply(ctx context.Context, input AddReplyInput) (*PostInfo, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	post, err := s.postRepo.FindByID(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	if _, err := post.AddReply(input.Actor.UserID, input.Content, input.Resolves); err != nil {
		return nil, err
	}
	if err := s.postRepo.Save(ctx, post); err != nil {
		s.logger.Error("Failed to save support post", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save reply")
	}

	s.publishEvents(ctx, post)

	s.logger.Info("Support reply added",
		zap.String("post_id", post.ID.String()),
		zap.String("status", string(post.Status)),
		zap.Bool("resolves", input.Resolves))

	info := NewPostInfo(post)
	return &info, nil
}

// ClosePost closes a post to further replies (owner or staff)
func (s *CSService) ClosePost(ctx context.Context, postID uuid.UUID, actor Actor) error {
	post, err := s.loadVisible(ctx, postID, actor)
	if err != nil {
		return err
	}
	if err := post.Close(); err != nil {
		return err
	}
	if err := s.postRepo.Save(ctx, post); err != nil {
		s.logger.Error("Failed to save support post", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to close post")
	}
	return nil
}

// DeletePost removes a post (owner or staff)
func (s *CSService) DeletePost(ctx context.Context, postID uuid.UUID, actor Actor) error {
	if _, err := s.loadVisible(ctx, postID, actor); err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		s.logger.Error("Failed to delete support post", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete post")
	}
	s.logger.Info("Support post deleted", zap.String("post_id", postID.String()))
	return nil
}

// loadVisible loads a post and hides foreign posts from non-staff users
func (s *CSService) loadVisible(ctx context.Context, postID uuid.UUID, actor Actor) (*support.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !actor.Staff && !post.IsOwnedBy(actor.UserID) {
		return nil, shared.ErrNotFound
	}
	return post, nil
}

func (s *CSService) publishEvents(ctx context.Context, post *support.Post) {
	if s.publisher == nil {
		return
	}
	for _, event := range post.GetDomainEvents() {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	post.ClearDomainEvents()
}
