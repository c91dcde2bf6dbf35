package commerce

import (
	"context"
	"testing"
	"time"

	"github.com/agoramall/backend/internal/domain/commerce"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOrderRepository is a mock implementation of commerce.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]commerce.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]commerce.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *commerce.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]commerce.Order, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]commerce.Order), args.Error(1)
}

func (m *MockOrderRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*commerce.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Order), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) FindStatusLogs(ctx context.Context, orderID uuid.UUID) ([]commerce.OrderStatusLog, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]commerce.OrderStatusLog), args.Error(1)
}

func (m *MockOrderRepository) FindStatusLogsForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]commerce.OrderStatusLog, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	return args.Get(0).([]commerce.OrderStatusLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindAllStatusLogs(ctx context.Context, filter shared.Filter) ([]commerce.OrderStatusLog, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]commerce.OrderStatusLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) SavePayment(ctx context.Context, payment *commerce.OrderPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockOrderRepository) FindPayments(ctx context.Context, orderID uuid.UUID) ([]commerce.OrderPayment, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]commerce.OrderPayment), args.Error(1)
}

func (m *MockOrderRepository) TotalsBetween(ctx context.Context, from, to time.Time) (commerce.SalesTotals, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(commerce.SalesTotals), args.Error(1)
}

func newTestOrder(t *testing.T, ownerID uuid.UUID) *commerce.Order {
	t.Helper()
	order, err := commerce.NewOrder(ownerID, "ORD-2026-00042", commerce.PaymentMethodCard,
		commerce.ShippingInfo{Name: "김주문", Phone: "010-1234-5678", Address: "서울시 마포구 1"})
	require.NoError(t, err)
	_, err = order.AddItem("유기농 사과", decimal.NewFromInt(12000), 2)
	require.NoError(t, err)
	order.ClearDomainEvents()
	order.ClearPendingStatusLogs()
	return order
}

func TestOrderService_Checkout(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("computes totals server-side", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("GenerateOrderNumber", ctx).Return("ORD-2026-00001", nil)
		repo.On("Save", ctx, mock.AnythingOfType("*commerce.Order")).Return(nil)

		svc := NewOrderService(repo, nil, zap.NewNop())
		result, err := svc.Checkout(ctx, CheckoutInput{
			OwnerID:       ownerID,
			PaymentMethod: string(commerce.PaymentMethodCard),
			Shipping:      ShippingInput{Name: "김주문", Phone: "010-1234-5678", Address: "서울시 마포구 1"},
			Items: []CheckoutItemInput{
				{ProductName: "유기농 사과", UnitPrice: decimal.NewFromInt(12000), Quantity: 2},
				{ProductName: "국산 꿀", UnitPrice: decimal.NewFromInt(35000), Quantity: 1},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "ORD-2026-00001", result.OrderNumber)
		assert.True(t, decimal.NewFromInt(59000).Equal(result.TotalAmount))
		assert.Equal(t, "PENDING", result.Status)
		assert.Len(t, result.Items, 2)
		repo.AssertExpectations(t)
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		svc := NewOrderService(new(MockOrderRepository), nil, zap.NewNop())
		_, err := svc.Checkout(ctx, CheckoutInput{OwnerID: ownerID})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})
}

func TestOrderService_GetOrder_OwnershipHiding(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	order := newTestOrder(t, ownerID)

	repo := new(MockOrderRepository)
	repo.On("FindByID", ctx, order.ID).Return(order, nil)

	svc := NewOrderService(repo, nil, zap.NewNop())

	// owner sees the order
	result, err := svc.GetOrder(ctx, order.ID, Actor{UserID: ownerID})
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, result.OrderNumber)

	// another user gets not found, not forbidden
	_, err = svc.GetOrder(ctx, order.ID, Actor{UserID: uuid.New()})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// staff see any order
	_, err = svc.GetOrder(ctx, order.ID, Actor{UserID: uuid.New(), Staff: true})
	assert.NoError(t, err)
}

func TestOrderService_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	staff := Actor{UserID: uuid.New(), Staff: true}

	t.Run("each transition records exactly one audit entry", func(t *testing.T) {
		order := newTestOrder(t, ownerID)

		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, order.ID).Return(order, nil)
		repo.On("Save", ctx, order).Return(nil).Run(func(args mock.Arguments) {
			saved := args.Get(1).(*commerce.Order)
			assert.Len(t, saved.PendingStatusLogs(), 1)
			saved.ClearPendingStatusLogs()
		})

		svc := NewOrderService(repo, nil, zap.NewNop())

		result, err := svc.MarkProcessing(ctx, order.ID, staff)
		require.NoError(t, err)
		assert.Equal(t, "PROCESSING", result.Status)
		assert.Equal(t, "PAID", result.PaymentStatus)

		result, err = svc.Complete(ctx, order.ID, staff)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", result.Status)
	})

	t.Run("shipping update writes no audit entry", func(t *testing.T) {
		order := newTestOrder(t, ownerID)

		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, order.ID).Return(order, nil)
		repo.On("Save", ctx, order).Return(nil)

		svc := NewOrderService(repo, nil, zap.NewNop())
		_, err := svc.UpdateShipping(ctx, UpdateShippingInput{
			OrderID:  order.ID,
			Actor:    Actor{UserID: ownerID},
			Shipping: ShippingInput{Name: "김주문", Phone: "010-1234-5678", Address: "부산시 해운대구 2"},
		})

		require.NoError(t, err)
		assert.Empty(t, order.PendingStatusLogs())
	})

	t.Run("invalid transition is rejected", func(t *testing.T) {
		order := newTestOrder(t, ownerID)

		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, order.ID).Return(order, nil)

		svc := NewOrderService(repo, nil, zap.NewNop())
		_, err := svc.Complete(ctx, order.ID, staff)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("refund requires staff", func(t *testing.T) {
		svc := NewOrderService(new(MockOrderRepository), nil, zap.NewNop())
		_, err := svc.Refund(ctx, RefundOrderInput{
			OrderID: uuid.New(),
			Actor:   Actor{UserID: ownerID},
			Reason:  "단순 변심",
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("owner can cancel a pending order", func(t *testing.T) {
		order := newTestOrder(t, ownerID)

		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, order.ID).Return(order, nil)
		repo.On("Save", ctx, order).Return(nil)

		svc := NewOrderService(repo, nil, zap.NewNop())
		result, err := svc.Cancel(ctx, CancelOrderInput{
			OrderID: order.ID,
			Actor:   Actor{UserID: ownerID},
			Reason:  "배송 지연",
		})

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", result.Status)
		assert.Equal(t, "배송 지연", result.CancelReason)
		assert.NotNil(t, result.CancelledAt)
	})
}

func TestOrderService_ListOrders(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	order := newTestOrder(t, ownerID)
	filter := shared.DefaultFilter()

	t.Run("non-staff listing is owner-scoped", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindAllForOwner", ctx, ownerID, filter).Return([]commerce.Order{*order}, nil)
		repo.On("CountForOwner", ctx, ownerID, filter).Return(int64(1), nil)

		svc := NewOrderService(repo, nil, zap.NewNop())
		result, err := svc.ListOrders(ctx, ListOrdersInput{Actor: Actor{UserID: ownerID}, Filter: filter})

		require.NoError(t, err)
		assert.Len(t, result.Items, 1)
		repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("staff listing sees all", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindAll", ctx, filter).Return([]commerce.Order{*order}, nil)
		repo.On("Count", ctx, filter).Return(int64(1), nil)

		svc := NewOrderService(repo, nil, zap.NewNop())
		result, err := svc.ListOrders(ctx, ListOrdersInput{Actor: Actor{UserID: uuid.New(), Staff: true}, Filter: filter})

		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
	})
}

func TestOrderService_RecordPayment(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	order := newTestOrder(t, ownerID)

	repo := new(MockOrderRepository)
	repo.On("FindByID", ctx, order.ID).Return(order, nil)
	repo.On("SavePayment", ctx, mock.AnythingOfType("*commerce.OrderPayment")).Return(nil)
	repo.On("Save", ctx, order).Return(nil)

	svc := NewOrderService(repo, nil, zap.NewNop())
	payment, err := svc.RecordPayment(ctx, RecordPaymentInput{
		OrderID:       order.ID,
		Actor:         Actor{UserID: ownerID},
		TransactionID: "tx-20260831-0001",
		Amount:        order.TotalAmount,
		Method:        string(commerce.PaymentMethodCard),
	})

	require.NoError(t, err)
	assert.Equal(t, "tx-20260831-0001", payment.TransactionID)
	assert.Equal(t, commerce.OrderStatusProcessing, order.Status)
	assert.Equal(t, commerce.PaymentStatusPaid, order.PaymentStatus)
}
