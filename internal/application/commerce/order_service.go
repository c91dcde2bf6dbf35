package commerce

import (
	"context"

	"github.com/agoramall/backend/internal/domain/commerce"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService handles order lifecycle operations
type OrderService struct {
	orderRepo commerce.OrderRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo commerce.OrderRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Checkout places a new order. Line totals and the order total are computed
// server-side with decimal arithmetic.
func (s *OrderService) Checkout(ctx context.Context, input CheckoutInput) (*OrderInfo, error) {
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "order needs at least one item")
	}

	orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx)
	if err != nil {
		s.logger.Error("Failed to generate order number", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to place order")
	}

	order, err := commerce.NewOrder(
		input.OwnerID,
		orderNumber,
		commerce.PaymentMethod(input.PaymentMethod),
		commerce.ShippingInfo{
			Name:    input.Shipping.Name,
			Phone:   input.Shipping.Phone,
			Address: input.Shipping.Address,
			Memo:    input.Shipping.Memo,
		},
	)
	if err != nil {
		return nil, err
	}

	for _, item := range input.Items {
		if _, err := order.AddItem(item.ProductName, item.UnitPrice, item.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to place order")
	}
	s.publishEvents(ctx, order)

	s.logger.Info("Order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("owner_id", order.OwnerID.String()),
		zap.String("total", order.TotalAmount.String()))

	info := NewOrderInfo(order)
	return &info, nil
}

// GetOrder returns an order visible to the actor. Non-owned orders are
// reported as not found to non-staff callers.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderInfo, error) {
	order, err := s.loadVisible(ctx, orderID, actor)
	if err != nil {
		return nil, err
	}
	info := NewOrderInfo(order)
	return &info, nil
}

// ListOrders returns the actor's orders, or every order for staff
func (s *OrderService) ListOrders(ctx context.Context, input ListOrdersInput) (*shared.Paginated[OrderInfo], error) {
	var (
		orders []commerce.Order
		total  int64
		err    error
	)
	if input.Actor.Staff {
		orders, err = s.orderRepo.FindAll(ctx, input.Filter)
		if err == nil {
			total, err = s.orderRepo.Count(ctx, input.Filter)
		}
	} else {
		orders, err = s.orderRepo.FindAllForOwner(ctx, input.Actor.UserID, input.Filter)
		if err == nil {
			total, err = s.orderRepo.CountForOwner(ctx, input.Actor.UserID, input.Filter)
		}
	}
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list orders")
	}

	items := make([]OrderInfo, 0, len(orders))
	for i := range orders {
		items = append(items, NewOrderInfo(&orders[i]))
	}
	result := shared.NewPaginated(items, total, input.Filter.Page, input.Filter.PageSize)
	return &result, nil
}

// UpdateShipping changes the delivery fields of a pending order. Changing
// shipping never writes a status log row.
func (s *OrderService) UpdateShipping(ctx context.Context, input UpdateShippingInput) (*OrderInfo, error) {
	order, err := s.loadVisible(ctx, input.OrderID, input.Actor)
	if err != nil {
		return nil, err
	}

	err = order.UpdateShipping(commerce.ShippingInfo{
		Name:    input.Shipping.Name,
		Phone:   input.Shipping.Phone,
		Address: input.Shipping.Address,
		Memo:    input.Shipping.Memo,
	})
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update order")
	}

	info := NewOrderInfo(order)
	return &info, nil
}

// MarkProcessing moves an order into preparation (staff operation)
func (s *OrderService) MarkProcessing(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderInfo, error) {
	if !actor.Staff {
		return nil, shared.ErrForbidden
	}
	return s.applyTransition(ctx, orderID, actor, func(order *commerce.Order) error {
		return order.MarkProcessing(actor.UserID)
	})
}

// Complete marks an order delivered and settled (staff operation)
func (s *OrderService) Complete(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderInfo, error) {
	if !actor.Staff {
		return nil, shared.ErrForbidden
	}
	return s.applyTransition(ctx, orderID, actor, func(order *commerce.Order) error {
		return order.Complete(actor.UserID)
	})
}

// Cancel cancels a pending or processing order. Owners may cancel their own
// orders; staff may cancel any.
func (s *OrderService) Cancel(ctx context.Context, input CancelOrderInput) (*OrderInfo, error) {
	return s.applyTransition(ctx, input.OrderID, input.Actor, func(order *commerce.Order) error {
		return order.Cancel(input.Actor.UserID, input.Reason)
	})
}

// Refund refunds a completed order. Refunds are a staff-only operation.
func (s *OrderService) Refund(ctx context.Context, input RefundOrderInput) (*OrderInfo, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	return s.applyTransition(ctx, input.OrderID, input.Actor, func(order *commerce.Order) error {
		return order.Refund(input.Actor.UserID, input.Reason)
	})
}

// Delete removes an order with its items and audit trail
func (s *OrderService) Delete(ctx context.Context, orderID uuid.UUID, actor Actor) error {
	if _, err := s.loadVisible(ctx, orderID, actor); err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		s.logger.Error("Failed to delete order", zap.Error(err))
		return err
	}
	s.logger.Info("Order deleted", zap.String("order_id", orderID.String()))
	return nil
}

// ListStatusLogs returns the audit trail of one order, oldest first
func (s *OrderService) ListStatusLogs(ctx context.Context, orderID uuid.UUID, actor Actor) ([]StatusLogInfo, error) {
	if _, err := s.loadVisible(ctx, orderID, actor); err != nil {
		return nil, err
	}
	logs, err := s.orderRepo.FindStatusLogs(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to list status logs", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list status logs")
	}
	return mapStatusLogs(logs), nil
}

// ListOwnStatusLogs returns audit rows across all of the actor's orders
func (s *OrderService) ListOwnStatusLogs(ctx context.Context, input ListStatusLogsInput) (*shared.Paginated[StatusLogInfo], error) {
	logs, total, err := s.orderRepo.FindStatusLogsForOwner(ctx, input.Actor.UserID, input.Filter)
	if err != nil {
		s.logger.Error("Failed to list status logs", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list status logs")
	}
	result := shared.NewPaginated(mapStatusLogs(logs), total, input.Filter.Page, input.Filter.PageSize)
	return &result, nil
}

// ListAllStatusLogs returns audit rows across every order (staff view)
func (s *OrderService) ListAllStatusLogs(ctx context.Context, input ListStatusLogsInput) (*shared.Paginated[StatusLogInfo], error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}
	logs, total, err := s.orderRepo.FindAllStatusLogs(ctx, input.Filter)
	if err != nil {
		s.logger.Error("Failed to list status logs", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list status logs")
	}
	result := shared.NewPaginated(mapStatusLogs(logs), total, input.Filter.Page, input.Filter.PageSize)
	return &result, nil
}

// RecordPayment stores a settled payment and moves a pending order into
// processing.
func (s *OrderService) RecordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentInfo, error) {
	order, err := s.loadVisible(ctx, input.OrderID, input.Actor)
	if err != nil {
		return nil, err
	}

	payment, err := commerce.NewOrderPayment(
		order.ID, input.TransactionID, input.Amount, commerce.PaymentMethod(input.Method))
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.SavePayment(ctx, payment); err != nil {
		s.logger.Error("Failed to save payment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record payment")
	}

	if order.IsPending() {
		if err := order.MarkProcessing(input.Actor.UserID); err != nil {
			return nil, err
		}
		if err := s.orderRepo.Save(ctx, order); err != nil {
			s.logger.Error("Failed to save order after payment", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record payment")
		}
		s.publishEvents(ctx, order)
	}

	s.logger.Info("Payment recorded",
		zap.String("order_number", order.OrderNumber),
		zap.String("transaction_id", payment.TransactionID),
		zap.String("amount", payment.Amount.String()))

	info := NewPaymentInfo(*payment)
	return &info, nil
}

// ListPayments returns payments recorded against an order
func (s *OrderService) ListPayments(ctx context.Context, orderID uuid.UUID, actor Actor) ([]PaymentInfo, error) {
	if _, err := s.loadVisible(ctx, orderID, actor); err != nil {
		return nil, err
	}
	payments, err := s.orderRepo.FindPayments(ctx, orderID)
	if err != nil {
		s.logger.Error("Failed to list payments", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list payments")
	}
	infos := make([]PaymentInfo, 0, len(payments))
	for _, payment := range payments {
		infos = append(infos, NewPaymentInfo(payment))
	}
	return infos, nil
}

// applyTransition loads the order, applies a status mutation and persists
// the order together with the recorded audit entry.
func (s *OrderService) applyTransition(
	ctx context.Context,
	orderID uuid.UUID,
	actor Actor,
	mutate func(*commerce.Order) error,
) (*OrderInfo, error) {
	order, err := s.loadVisible(ctx, orderID, actor)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if err := mutate(order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update order")
	}
	s.publishEvents(ctx, order)

	s.logger.Info("Order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("previous", previous.String()),
		zap.String("status", order.Status.String()),
		zap.String("changed_by", actor.UserID.String()))

	info := NewOrderInfo(order)
	return &info, nil
}

// loadVisible loads an order and hides non-owned orders from non-staff
// callers behind a not-found error.
func (s *OrderService) loadVisible(ctx context.Context, orderID uuid.UUID, actor Actor) (*commerce.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actor.Staff && !order.IsOwnedBy(actor.UserID) {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *commerce.Order) {
	if s.publisher == nil {
		return
	}
	for _, event := range order.GetDomainEvents() {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	order.ClearDomainEvents()
}

func mapStatusLogs(logs []commerce.OrderStatusLog) []StatusLogInfo {
	infos := make([]StatusLogInfo, 0, len(logs))
	for _, log := range logs {
		infos = append(infos, NewStatusLogInfo(log))
	}
	return infos
}
