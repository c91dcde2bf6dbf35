package commerce

import (
	"fmt"
	"strings"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"    // created at checkout, awaiting payment confirmation
	OrderStatusProcessing OrderStatus = "PROCESSING" // paid, being prepared/shipped
	OrderStatusCompleted  OrderStatus = "COMPLETED"  // delivered and settled
	OrderStatusCancelled  OrderStatus = "CANCELLED"  // terminal, from PENDING or PROCESSING
	OrderStatusRefunded   OrderStatus = "REFUNDED"   // terminal, from COMPLETED, staff only
)

// IsValid checks if the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted,
		OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// DisplayName returns the Korean label shown to users
func (s OrderStatus) DisplayName() string {
	switch s {
	case OrderStatusPending:
		return "결제대기"
	case OrderStatusProcessing:
		return "처리중"
	case OrderStatusCompleted:
		return "완료"
	case OrderStatusCancelled:
		return "취소됨"
	case OrderStatusRefunded:
		return "환불됨"
	default:
		return string(s)
	}
}

// CanTransitionTo checks if a transition to the target status is allowed.
// The graph is PENDING -> PROCESSING -> COMPLETED with CANCELLED and
// REFUNDED as guarded terminal exits.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusCompleted || target == OrderStatusCancelled
	case OrderStatusCompleted:
		return target == OrderStatusRefunded
	case OrderStatusCancelled, OrderStatusRefunded:
		return false
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// PaymentMethod represents how the order is paid
type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodVirtual  PaymentMethod = "VIRTUAL_ACCOUNT"
	PaymentMethodPoint    PaymentMethod = "POINT"
)

// IsValid checks if the payment method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodTransfer, PaymentMethodVirtual, PaymentMethodPoint:
		return true
	}
	return false
}

// PaymentStatus represents the settlement state of the payment
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// IsValid checks if the payment status is a known value
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// OrderItem is an immutable line item owned by exactly one order
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"not null;size:200"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Quantity    int             `gorm:"not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the database table name
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a validated order line item
func NewOrderItem(productName string, unitPrice decimal.Decimal, quantity int) (*OrderItem, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "product name is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unit price cannot be negative")
	}
	return &OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// ShippingInfo holds the delivery destination fields of an order
type ShippingInfo struct {
	Name    string `gorm:"column:shipping_name;size:100"`
	Phone   string `gorm:"column:shipping_phone;size:20"`
	Address string `gorm:"column:shipping_address;size:300"`
	Memo    string `gorm:"column:shipping_memo;size:300"`
}

// Validate checks the required shipping fields
func (s ShippingInfo) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return shared.NewDomainError("INVALID_INPUT", "shipping name is required")
	}
	if strings.TrimSpace(s.Phone) == "" {
		return shared.NewDomainError("INVALID_INPUT", "shipping phone is required")
	}
	if strings.TrimSpace(s.Address) == "" {
		return shared.NewDomainError("INVALID_INPUT", "shipping address is required")
	}
	return nil
}

// Order is the purchase aggregate root
type Order struct {
	shared.OwnedAggregateRoot
	OrderNumber   string      `gorm:"uniqueIndex;not null;size:50"`
	Status        OrderStatus `gorm:"not null;default:'PENDING';index"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaymentMethod PaymentMethod   `gorm:"size:30"`
	PaymentStatus PaymentStatus   `gorm:"not null;default:'UNPAID';size:20;index"`
	Shipping      ShippingInfo    `gorm:"embedded"`
	CancelledAt   *time.Time
	CancelReason  string `gorm:"size:300"`
	RefundedAt    *time.Time
	RefundReason  string `gorm:"size:300"`

	// pendingStatusLogs holds audit entries recorded by status transitions
	// since the last save. The repository persists them in the same
	// transaction as the order row; this is the single trigger point for
	// status auditing.
	pendingStatusLogs []*OrderStatusLog `gorm:"-"`
}

// TableName returns the database table name
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order at checkout
func NewOrder(ownerID uuid.UUID, orderNumber string, method PaymentMethod, shipping ShippingInfo) (*Order, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "owner ID is required")
	}
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "order number is required")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown payment method: %s", method))
	}
	if err := shipping.Validate(); err != nil {
		return nil, err
	}

	order := &Order{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		OrderNumber:        orderNumber,
		Status:             OrderStatusPending,
		Items:              make([]OrderItem, 0),
		TotalAmount:        decimal.Zero,
		PaymentMethod:      method,
		PaymentStatus:      PaymentStatusUnpaid,
		Shipping:           shipping,
	}
	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// AddItem appends a line item. Items are only mutable while the order is
// still pending.
func (o *Order) AddItem(productName string, unitPrice decimal.Decimal, quantity int) (*OrderItem, error) {
	if o.Status != OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "items can only be added to a pending order")
	}
	item, err := NewOrderItem(productName, unitPrice, quantity)
	if err != nil {
		return nil, err
	}
	item.OrderID = o.ID
	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	return item, nil
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	o.TotalAmount = total
	o.UpdatedAt = time.Now()
}

// transition validates and applies a status change, recording exactly one
// status log entry and one domain event per change.
func (o *Order) transition(target OrderStatus, changedBy uuid.UUID, reason, memo string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("unknown order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("cannot change order status from %s to %s", o.Status, target))
	}

	previous := o.Status
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now

	o.pendingStatusLogs = append(o.pendingStatusLogs,
		NewOrderStatusLog(o.ID, previous, target, changedBy, reason, memo))
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous, target, reason))
	return nil
}

// MarkProcessing moves a paid order into preparation
func (o *Order) MarkProcessing(changedBy uuid.UUID) error {
	if err := o.transition(OrderStatusProcessing, changedBy, "", ""); err != nil {
		return err
	}
	o.PaymentStatus = PaymentStatusPaid
	return nil
}

// Complete marks the order as delivered and settled
func (o *Order) Complete(changedBy uuid.UUID) error {
	return o.transition(OrderStatusCompleted, changedBy, "", "")
}

// Cancel cancels a pending or processing order
func (o *Order) Cancel(changedBy uuid.UUID, reason string) error {
	if err := o.transition(OrderStatusCancelled, changedBy, reason, ""); err != nil {
		return err
	}
	now := time.Now()
	o.CancelledAt = &now
	o.CancelReason = reason
	return nil
}

// Refund refunds a completed order. The caller enforces that only staff
// reach this operation.
func (o *Order) Refund(changedBy uuid.UUID, reason string) error {
	if err := o.transition(OrderStatusRefunded, changedBy, reason, ""); err != nil {
		return err
	}
	now := time.Now()
	o.RefundedAt = &now
	o.RefundReason = reason
	o.PaymentStatus = PaymentStatusRefunded
	return nil
}

// UpdateShipping replaces the shipping fields. Only pending orders may be
// edited; changing shipping never produces a status log entry.
func (o *Order) UpdateShipping(shipping ShippingInfo) error {
	if o.Status != OrderStatusPending {
		return shared.NewDomainError("INVALID_STATE", "shipping can only be changed on a pending order")
	}
	if err := shipping.Validate(); err != nil {
		return err
	}
	o.Shipping = shipping
	o.UpdatedAt = time.Now()
	return nil
}

// PendingStatusLogs returns audit entries recorded since the last save
func (o *Order) PendingStatusLogs() []*OrderStatusLog {
	return o.pendingStatusLogs
}

// ClearPendingStatusLogs clears recorded audit entries after persistence
func (o *Order) ClearPendingStatusLogs() {
	o.pendingStatusLogs = nil
}

// IsPending returns true if the order is awaiting payment
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsCompleted returns true if the order is completed
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// IsTerminal returns true if the order reached a terminal status
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}
