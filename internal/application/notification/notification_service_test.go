package notification

import (
	"context"
	"testing"
	"time"

	"github.com/agoramall/backend/internal/domain/commerce"
	"github.com/agoramall/backend/internal/domain/identity"
	"github.com/agoramall/backend/internal/domain/notification"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/support"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockNotificationRepository is a mock implementation of
// notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, entity *notification.Notification) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) SaveSetting(ctx context.Context, setting *notification.Setting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindSetting(ctx context.Context, userID uuid.UUID) (*notification.Setting, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Setting), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByNickname(ctx context.Context, nickname string) (*identity.User, error) {
	args := m.Called(ctx, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	args := m.Called(ctx, nickname)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// recordingUserPusher captures websocket pushes per user
type recordingUserPusher struct {
	users []uuid.UUID
}

func (p *recordingUserPusher) PushToUser(userID uuid.UUID, event string, payload any) {
	p.users = append(p.users, userID)
}

func newTestNotificationService(repo *MockNotificationRepository, userRepo *MockUserRepository, pusher UserPusher) *NotificationService {
	return NewNotificationService(repo, userRepo, pusher, zap.NewNop())
}

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()
	recipient := uuid.New()

	t.Run("Delivers and pushes when the type is enabled", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		pusher := &recordingUserPusher{}
		service := newTestNotificationService(repo, nil, pusher)

		repo.On("FindSetting", ctx, recipient).Return(notification.DefaultSetting(recipient), nil)
		repo.On("Save", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)

		err := service.Notify(ctx, NotifyInput{
			RecipientID: recipient,
			Type:        "order",
			Title:       "주문 상태 변경 알림",
			Message:     "주문이 처리 중입니다",
		})

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{recipient}, pusher.users)
	})

	t.Run("Muted type is skipped silently", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		pusher := &recordingUserPusher{}
		service := newTestNotificationService(repo, nil, pusher)

		setting := notification.DefaultSetting(recipient)
		setting.ChatEnabled = false
		repo.On("FindSetting", ctx, recipient).Return(setting, nil)

		err := service.Notify(ctx, NotifyInput{
			RecipientID: recipient,
			Type:        "chat",
			Title:       "새 메시지",
			Message:     "채팅방에 새 메시지가 있습니다",
		})

		require.NoError(t, err)
		assert.Empty(t, pusher.users)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("Owner marks a notification read once", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := newTestNotificationService(repo, nil, nil)

		n, err := notification.New(owner, notification.TypeOrder, "주문 알림", "주문이 완료되었습니다", "")
		require.NoError(t, err)
		repo.On("FindByID", ctx, n.ID).Return(n, nil)
		repo.On("Save", ctx, n).Return(nil)

		require.NoError(t, service.MarkRead(ctx, n.ID, owner))
		require.NoError(t, service.MarkRead(ctx, n.ID, owner))

		repo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("Foreign notification reads as missing", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := newTestNotificationService(repo, nil, nil)

		n, err := notification.New(owner, notification.TypeOrder, "주문 알림", "주문이 완료되었습니다", "")
		require.NoError(t, err)
		repo.On("FindByID", ctx, n.ID).Return(n, nil)

		err = service.MarkRead(ctx, n.ID, uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestNotificationService_Broadcast(t *testing.T) {
	ctx := context.Background()

	t.Run("Reaches every user, honoring mutes", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		service := newTestNotificationService(repo, userRepo, nil)

		userA, err := identity.NewActiveUser("a@example.com", "사용자가", "Str0ngPassw0rd!")
		require.NoError(t, err)
		userB, err := identity.NewActiveUser("b@example.com", "사용자나", "Str0ngPassw0rd!")
		require.NoError(t, err)

		userRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
			Return([]*identity.User{userA, userB}, int64(2), nil)

		repo.On("FindSetting", ctx, userA.ID).Return(notification.DefaultSetting(userA.ID), nil)
		muted := notification.DefaultSetting(userB.ID)
		muted.SystemEnabled = false
		repo.On("FindSetting", ctx, userB.ID).Return(muted, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)

		result, err := service.Broadcast(ctx, BroadcastInput{
			Actor:   Actor{UserID: uuid.New(), Staff: true},
			Title:   "점검 안내",
			Message: "금일 02시부터 서버 점검이 있습니다",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(2), result.Delivered, "muted users count as delivered no-ops")
		repo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("Requires a staff role", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		service := newTestNotificationService(repo, userRepo, nil)

		_, err := service.Broadcast(ctx, BroadcastInput{
			Actor: Actor{UserID: uuid.New()},
			Title: "공지", Message: "내용",
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestNotificationService_SweepExpired(t *testing.T) {
	ctx := context.Background()
	repo := new(MockNotificationRepository)
	service := newTestNotificationService(repo, nil, nil)

	repo.On("DeleteReadBefore", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		expected := time.Now().Add(-notification.RetentionPeriod)
		return cutoff.Sub(expected).Abs() < time.Minute
	})).Return(int64(7), nil)

	removed, err := service.SweepExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(7), removed)
}

func TestOrderStatusHandler_Handle(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	repo := new(MockNotificationRepository)
	service := newTestNotificationService(repo, nil, nil)
	handler := NewOrderStatusHandler(service, zap.NewNop())

	assert.Equal(t, []string{commerce.EventTypeOrderStatusChanged}, handler.EventTypes())

	order, err := commerce.NewOrder(owner, "ORD-2026-00042", commerce.PaymentMethodCard,
		commerce.ShippingInfo{Name: "김주문", Phone: "010-1234-5678", Address: "서울시 마포구 1"})
	require.NoError(t, err)
	_, err = order.AddItem("유기농 사과", decimal.NewFromInt(12000), 2)
	require.NoError(t, err)
	order.ClearDomainEvents()
	require.NoError(t, order.MarkProcessing(owner))

	var captured *notification.Notification
	repo.On("FindSetting", ctx, owner).Return(notification.DefaultSetting(owner), nil)
	repo.On("Save", ctx, mock.AnythingOfType("*notification.Notification")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*notification.Notification)
		}).Return(nil)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	require.NoError(t, handler.Handle(ctx, events[0]))

	require.NotNil(t, captured)
	assert.Equal(t, owner, captured.OwnerID)
	assert.Equal(t, notification.TypeOrder, captured.Type)
	assert.Contains(t, captured.Message, "ORD-2026-00042")
}

func TestCSReplyHandler_Handle(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	repo := new(MockNotificationRepository)
	service := newTestNotificationService(repo, nil, nil)
	handler := NewCSReplyHandler(service, zap.NewNop())

	post, err := support.NewPost(owner, support.PostTypeInquiry, "배송 문의", "상품이 아직 안 왔어요")
	require.NoError(t, err)
	_, err = post.AddReply(uuid.New(), "오늘 출고되었습니다", true)
	require.NoError(t, err)

	var captured *notification.Notification
	repo.On("FindSetting", ctx, owner).Return(notification.DefaultSetting(owner), nil)
	repo.On("Save", ctx, mock.AnythingOfType("*notification.Notification")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*notification.Notification)
		}).Return(nil)

	events := post.GetDomainEvents()
	require.Len(t, events, 1)
	require.NoError(t, handler.Handle(ctx, events[0]))

	require.NotNil(t, captured)
	assert.Equal(t, notification.TypeCS, captured.Type)
	assert.Contains(t, captured.Message, "배송 문의")
	assert.Contains(t, captured.Message, "완료")
}
