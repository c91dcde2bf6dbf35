package support

import (
	"context"
	"testing"

	"github.com/agoramall/backend/internal/domain/moderation"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/support"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPostRepository is a mock implementation of support.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Post), args.Error(1)
}

func (m *MockPostRepository) FindAll(ctx context.Context, filter shared.Filter) ([]support.Post, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]support.Post), args.Error(1)
}

func (m *MockPostRepository) Save(ctx context.Context, entity *support.Post) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]support.Post, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]support.Post), args.Error(1)
}

func (m *MockPostRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	callArgs := make([]interface{}, 0, len(events)+1)
	callArgs = append(callArgs, ctx)
	for _, event := range events {
		callArgs = append(callArgs, event)
	}
	args := m.Called(callArgs...)
	return args.Error(0)
}

func newTestCSService(repo *MockPostRepository, publisher shared.EventPublisher) *CSService {
	return NewCSService(repo, moderation.NewDefaultFilter(), publisher, zap.NewNop())
}

func TestCSService_CreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a pending post with masked content", func(t *testing.T) {
		repo := new(MockPostRepository)
		service := newTestCSService(repo, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*support.Post")).Return(nil)

		info, err := service.CreatePost(ctx, CreatePostInput{
			OwnerID: uuid.New(),
			Type:    "inquiry",
			Title:   "환불 문의",
			Content: "이 바보 같은 상품 환불해 주세요",
		})

		require.NoError(t, err)
		assert.Equal(t, "pending", info.Status)
		assert.Equal(t, "이 ** 같은 상품 환불해 주세요", info.Content)
	})

	t.Run("Rejects an unknown post type", func(t *testing.T) {
		repo := new(MockPostRepository)
		service := newTestCSService(repo, nil)

		_, err := service.CreatePost(ctx, CreatePostInput{
			OwnerID: uuid.New(),
			Type:    "spam",
			Title:   "제목",
			Content: "내용",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestCSService_GetPost(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	post, err := support.NewPost(owner, support.PostTypeInquiry, "배송 문의", "상품이 아직 안 왔어요")
	require.NoError(t, err)

	t.Run("Owner sees own post", func(t *testing.T) {
		repo := new(MockPostRepository)
		service := newTestCSService(repo, nil)
		repo.On("FindByID", ctx, post.ID).Return(post, nil)

		info, err := service.GetPost(ctx, post.ID, Actor{UserID: owner})

		require.NoError(t, err)
		assert.Equal(t, post.ID, info.ID)
	})

	t.Run("Foreign post reads as missing for non-staff", func(t *testing.T) {
		repo := new(MockPostRepository)
		service := newTestCSService(repo, nil)
		repo.On("FindByID", ctx, post.ID).Return(post, nil)

		_, err := service.GetPost(ctx, post.ID, Actor{UserID: uuid.New()})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("Staff sees any post", func(t *testing.T) {
		repo := new(MockPostRepository)
		service := newTestCSService(repo, nil)
		repo.On("FindByID", ctx, post.ID).Return(post, nil)

		_, err := service.GetPost(ctx, post.ID, Actor{UserID: uuid.New(), Staff: true})

		require.NoError(t, err)
	})
}

func TestCSService_AddReply(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	staff := uuid.New()

	t.Run("Staff reply moves the post and publishes the event", func(t *testing.T) {
		repo := new(MockPostRepository)
		publisher := new(MockEventPublisher)
		service := newTestCSService(repo, publisher)

		post, err := support.NewPost(owner, support.PostTypeInquiry, "배송 문의", "상품이 아직 안 왔어요")
		require.NoError(t, err)
		repo.On("FindByID", ctx, post.ID).Return(post, nil)
		repo.On("Save", ctx, post).Return(nil)
		publisher.On("Publish", ctx, mock.AnythingOfType("*support.ReplyAddedEvent")).Return(nil)

		info, err := service.AddReply(ctx, AddReplyInput{
			PostID:  post.ID,
			Actor:   Actor{UserID: staff, Staff: true},
			Content: "확인 중입니다",
		})

		require.NoError(t, err)
		assert.Equal(t, "in_progress", info.Status)
		require.Len(t, info.Replies, 1)
		publisher.AssertExpectations(t)
		assert.Empty(t, post.GetDomainEvents())
	})

	t.Run("Resolving reply completes the post", func(t *testing.T) {
		repo := new(MockPostRepository)
		service := newTestCSService(repo, nil)

		post, err := support.NewPost(owner, support.PostTypeInquiry, "환불 문의", "환불 부탁드립니다")
		require.NoError(t, err)
		repo.On("FindByID", ctx, post.ID).Return(post, nil)
		repo.On("Save", ctx, post).Return(nil)

		info, err := service.AddReply(ctx, AddReplyInput{
			PostID:   post.ID,
			Actor:    Actor{UserID: staff, Staff: true},
			Content:  "환불 처리 완료했습니다",
			Resolves: true,
		})

		require.NoError(t, err)
		assert.Equal(t, "completed", info.Status)
	})

	t.Run("Requires a staff role", func(t *testing.T) {
		repo := new(MockPostRepository)
		service := newTestCSService(repo, nil)

		_, err := service.AddReply(ctx, AddReplyInput{
			PostID:  uuid.New(),
			Actor:   Actor{UserID: owner},
			Content: "셀프 답변",
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestCSService_UpdatePost(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("Handled posts are frozen", func(t *testing.T) {
		repo := new(MockPostRepository)
		service := newTestCSService(repo, nil)

		post, err := support.NewPost(owner, support.PostTypeInquiry, "배송 문의", "상품이 아직 안 왔어요")
		require.NoError(t, err)
		_, err = post.AddReply(uuid.New(), "확인 중입니다", false)
		require.NoError(t, err)
		repo.On("FindByID", ctx, post.ID).Return(post, nil)

		_, err = service.UpdatePost(ctx, UpdatePostInput{
			PostID:  post.ID,
			Actor:   Actor{UserID: owner},
			Title:   "수정된 제목",
			Content: "수정된 내용",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestCSService_ListPosts(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	filter := shared.DefaultFilter()

	post, err := support.NewPost(owner, support.PostTypeInquiry, "배송 문의", "상품이 아직 안 왔어요")
	require.NoError(t, err)

	t.Run("Non-staff list is owner scoped", func(t *testing.T) {
		repo := new(MockPostRepository)
		service := newTestCSService(repo, nil)
		repo.On("FindAllForOwner", ctx, owner, filter).Return([]support.Post{*post}, nil)
		repo.On("CountForOwner", ctx, owner, filter).Return(int64(1), nil)

		result, err := service.ListPosts(ctx, ListPostsInput{Actor: Actor{UserID: owner}, Filter: filter})

		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
		repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("Staff list covers every owner", func(t *testing.T) {
		repo := new(MockPostRepository)
		service := newTestCSService(repo, nil)
		repo.On("FindAll", ctx, filter).Return([]support.Post{*post}, nil)
		repo.On("Count", ctx, filter).Return(int64(1), nil)

		result, err := service.ListPosts(ctx, ListPostsInput{Actor: Actor{UserID: uuid.New(), Staff: true}, Filter: filter})

		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
	})
}
