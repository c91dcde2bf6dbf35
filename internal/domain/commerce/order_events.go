package commerce

import (
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for Order
const AggregateTypeOrder = "Order"

// Order domain event types
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// OrderCreatedEvent is published when an order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	OwnerID     string          `json:"owner_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		OwnerID:         order.OwnerID.String(),
		TotalAmount:     order.TotalAmount,
	}
}

// OrderStatusChangedEvent is published on every status transition. The
// notification handler listens for it to inform the order's owner.
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string      `json:"order_number"`
	OwnerID        string      `json:"owner_id"`
	PreviousStatus OrderStatus `json:"previous_status"`
	NewStatus      OrderStatus `json:"new_status"`
	Reason         string      `json:"reason,omitempty"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, previous, next OrderStatus, reason string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		OwnerID:         order.OwnerID.String(),
		PreviousStatus:  previous,
		NewStatus:       next,
		Reason:          reason,
	}
}
