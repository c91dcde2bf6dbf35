package support

import (
	"context"
	"testing"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/support"
	"github.com/agoramall/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockNoticeRepository is a mock implementation of support.NoticeRepository
type MockNoticeRepository struct {
	mock.Mock
}

func (m *MockNoticeRepository) FindByID(ctx context.Context, id uuid.UUID) (*support.Notice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*support.Notice), args.Error(1)
}

func (m *MockNoticeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]support.Notice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]support.Notice), args.Error(1)
}

func (m *MockNoticeRepository) Save(ctx context.Context, entity *support.Notice) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockNoticeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNoticeRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNoticeRepository) IncrementViewCount(ctx context.Context, id uuid.UUID, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func TestNoticeService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Each read bumps the cached view counter", func(t *testing.T) {
		repo := new(MockNoticeRepository)
		views := cache.NewInMemoryViewCounter()
		service := NewNoticeService(repo, views, zap.NewNop())

		notice, err := support.NewNotice("점검 안내", "금일 02시부터 서버 점검이 있습니다", true)
		require.NoError(t, err)
		repo.On("FindByID", ctx, notice.ID).Return(notice, nil)

		for i := 0; i < 3; i++ {
			_, err := service.Get(ctx, notice.ID)
			require.NoError(t, err)
		}

		counts, err := views.Drain(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), counts[notice.ID.String()])
	})
}

func TestNoticeService_FlushViewCounts(t *testing.T) {
	ctx := context.Background()

	repo := new(MockNoticeRepository)
	views := cache.NewInMemoryViewCounter()
	service := NewNoticeService(repo, views, zap.NewNop())

	notice, err := support.NewNotice("이벤트 안내", "가을맞이 할인 이벤트", false)
	require.NoError(t, err)
	repo.On("FindByID", ctx, notice.ID).Return(notice, nil)
	repo.On("IncrementViewCount", ctx, notice.ID, int64(2)).Return(nil)

	for i := 0; i < 2; i++ {
		_, err := service.Get(ctx, notice.ID)
		require.NoError(t, err)
	}

	flushed, err := service.FlushViewCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), flushed)
	repo.AssertExpectations(t)

	t.Run("second flush is empty", func(t *testing.T) {
		flushed, err := service.FlushViewCounts(ctx)
		require.NoError(t, err)
		assert.Zero(t, flushed)
	})
}

func TestNoticeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Requires a staff role", func(t *testing.T) {
		repo := new(MockNoticeRepository)
		service := NewNoticeService(repo, nil, zap.NewNop())

		_, err := service.Create(ctx, CreateNoticeInput{
			Actor:   Actor{UserID: uuid.New()},
			Title:   "일반 사용자 공지",
			Content: "올라가면 안 됩니다",
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Staff publishes a notice", func(t *testing.T) {
		repo := new(MockNoticeRepository)
		service := NewNoticeService(repo, nil, zap.NewNop())
		repo.On("Save", ctx, mock.AnythingOfType("*support.Notice")).Return(nil)

		info, err := service.Create(ctx, CreateNoticeInput{
			Actor:     Actor{UserID: uuid.New(), Staff: true},
			Title:     "점검 안내",
			Content:   "금일 02시부터 서버 점검이 있습니다",
			Important: true,
		})

		require.NoError(t, err)
		assert.True(t, info.IsImportant)
	})
}
