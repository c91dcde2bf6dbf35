package engagement

import (
	"context"
	"testing"

	"github.com/agoramall/backend/internal/domain/engagement"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockLikeRepository is a mock implementation of engagement.LikeRepository
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Create(ctx context.Context, like *engagement.Like) error {
	args := m.Called(ctx, like)
	return args.Error(0)
}

func (m *MockLikeRepository) Delete(ctx context.Context, userID uuid.UUID, targetType engagement.TargetType, targetID uuid.UUID) error {
	args := m.Called(ctx, userID, targetType, targetID)
	return args.Error(0)
}

func (m *MockLikeRepository) Exists(ctx context.Context, userID uuid.UUID, targetType engagement.TargetType, targetID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, targetType, targetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeRepository) CountForTarget(ctx context.Context, targetType engagement.TargetType, targetID uuid.UUID) (int64, error) {
	args := m.Called(ctx, targetType, targetID)
	return args.Get(0).(int64), args.Error(1)
}

// MockPresetMessageRepository is a mock implementation of
// engagement.PresetMessageRepository
type MockPresetMessageRepository struct {
	mock.Mock
}

func (m *MockPresetMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.PresetMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*engagement.PresetMessage), args.Error(1)
}

func (m *MockPresetMessageRepository) FindAll(ctx context.Context, filter shared.Filter) ([]engagement.PresetMessage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engagement.PresetMessage), args.Error(1)
}

func (m *MockPresetMessageRepository) Save(ctx context.Context, entity *engagement.PresetMessage) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockPresetMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPresetMessageRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPresetMessageRepository) FindByCategory(ctx context.Context, category string) ([]engagement.PresetMessage, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]engagement.PresetMessage), args.Error(1)
}

func newTestEngagementService(likeRepo *MockLikeRepository, presetRepo *MockPresetMessageRepository) *EngagementService {
	return NewEngagementService(likeRepo, presetRepo, zap.NewNop())
}

func TestEngagementService_ToggleLike(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()
	target := uuid.New()

	t.Run("First toggle likes the target", func(t *testing.T) {
		likeRepo := new(MockLikeRepository)
		service := newTestEngagementService(likeRepo, nil)

		likeRepo.On("Create", ctx, mock.AnythingOfType("*engagement.Like")).Return(nil)
		likeRepo.On("CountForTarget", ctx, engagement.TargetReview, target).Return(int64(1), nil)

		status, err := service.ToggleLike(ctx, ToggleLikeInput{
			UserID:     user,
			TargetType: "review",
			TargetID:   target,
		})

		require.NoError(t, err)
		assert.True(t, status.Liked)
		assert.Equal(t, int64(1), status.Count)
	})

	t.Run("Second toggle removes the like", func(t *testing.T) {
		likeRepo := new(MockLikeRepository)
		service := newTestEngagementService(likeRepo, nil)

		likeRepo.On("Create", ctx, mock.AnythingOfType("*engagement.Like")).Return(shared.ErrAlreadyExists)
		likeRepo.On("Delete", ctx, user, engagement.TargetReview, target).Return(nil)
		likeRepo.On("CountForTarget", ctx, engagement.TargetReview, target).Return(int64(0), nil)

		status, err := service.ToggleLike(ctx, ToggleLikeInput{
			UserID:     user,
			TargetType: "review",
			TargetID:   target,
		})

		require.NoError(t, err)
		assert.False(t, status.Liked)
		assert.Zero(t, status.Count)
		likeRepo.AssertExpectations(t)
	})

	t.Run("Rejects an unknown target type", func(t *testing.T) {
		likeRepo := new(MockLikeRepository)
		service := newTestEngagementService(likeRepo, nil)

		_, err := service.ToggleLike(ctx, ToggleLikeInput{
			UserID:     user,
			TargetType: "comment",
			TargetID:   target,
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestEngagementService_Presets(t *testing.T) {
	ctx := context.Background()
	staff := Actor{UserID: uuid.New(), Staff: true}

	t.Run("Staff manages canned replies", func(t *testing.T) {
		presetRepo := new(MockPresetMessageRepository)
		service := newTestEngagementService(nil, presetRepo)
		presetRepo.On("Save", ctx, mock.AnythingOfType("*engagement.PresetMessage")).Return(nil)

		info, err := service.CreatePreset(ctx, CreatePresetInput{
			Actor:    staff,
			Category: "배송",
			Title:    "배송 지연 안내",
			Content:  "주문량 증가로 배송이 1-2일 지연되고 있습니다",
		})

		require.NoError(t, err)
		assert.Equal(t, "배송", info.Category)
	})

	t.Run("Non-staff cannot manage canned replies", func(t *testing.T) {
		presetRepo := new(MockPresetMessageRepository)
		service := newTestEngagementService(nil, presetRepo)

		_, err := service.CreatePreset(ctx, CreatePresetInput{
			Actor:    Actor{UserID: uuid.New()},
			Category: "배송",
			Title:    "제목",
			Content:  "내용",
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		presetRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Category filter narrows the listing", func(t *testing.T) {
		presetRepo := new(MockPresetMessageRepository)
		service := newTestEngagementService(nil, presetRepo)

		preset, err := engagement.NewPresetMessage("환불", "환불 절차 안내", "환불은 영업일 기준 3일 내 처리됩니다")
		require.NoError(t, err)
		presetRepo.On("FindByCategory", ctx, "환불").Return([]engagement.PresetMessage{*preset}, nil)

		items, err := service.ListPresets(ctx, staff, "환불")

		require.NoError(t, err)
		require.Len(t, items, 1)
		presetRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})
}
