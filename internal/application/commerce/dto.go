package commerce

import (
	"time"

	"github.com/agoramall/backend/internal/domain/commerce"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutItemInput is one line item requested at checkout. Prices are
// resolved server-side by the caller before reaching the service.
type CheckoutItemInput struct {
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// CheckoutInput contains input for placing an order
type CheckoutInput struct {
	OwnerID       uuid.UUID
	PaymentMethod string
	Shipping      ShippingInput
	Items         []CheckoutItemInput
}

// ShippingInput contains the delivery destination fields
type ShippingInput struct {
	Name    string
	Phone   string
	Address string
	Memo    string
}

// Actor identifies who is performing an operation and whether they hold a
// staff role. Owner checks against it decide between 403 and 404.
type Actor struct {
	UserID uuid.UUID
	Staff  bool
}

// UpdateShippingInput contains input for changing a pending order's shipping
type UpdateShippingInput struct {
	OrderID  uuid.UUID
	Actor    Actor
	Shipping ShippingInput
}

// CancelOrderInput contains input for cancelling an order
type CancelOrderInput struct {
	OrderID uuid.UUID
	Actor   Actor
	Reason  string
}

// RefundOrderInput contains input for refunding a completed order
type RefundOrderInput struct {
	OrderID uuid.UUID
	Actor   Actor
	Reason  string
}

// RecordPaymentInput contains input for recording a settled payment
type RecordPaymentInput struct {
	OrderID       uuid.UUID
	Actor         Actor
	TransactionID string
	Amount        decimal.Decimal
	Method        string
}

// ListOrdersInput contains input for the order listing
type ListOrdersInput struct {
	Actor  Actor
	Filter shared.Filter
}

// ListStatusLogsInput contains input for the status log listings
type ListStatusLogsInput struct {
	Actor  Actor
	Filter shared.Filter
}

// OrderItemInfo is the line item representation returned by services
type OrderItemInfo struct {
	ID          uuid.UUID       `json:"id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ShippingInfo is the delivery destination representation
type ShippingInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Memo    string `json:"memo,omitempty"`
}

// OrderInfo is the order representation returned by services
type OrderInfo struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	Status        string          `json:"status"`
	StatusDisplay string          `json:"status_display"`
	Items         []OrderItemInfo `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentStatus string          `json:"payment_status"`
	Shipping      ShippingInfo    `json:"shipping"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	RefundedAt    *time.Time      `json:"refunded_at,omitempty"`
	RefundReason  string          `json:"refund_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StatusLogInfo is the audit entry representation
type StatusLogInfo struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"order_id"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ChangedBy      uuid.UUID `json:"changed_by"`
	Reason         string    `json:"reason,omitempty"`
	Memo           string    `json:"memo,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// PaymentInfo is the payment record representation
type PaymentInfo struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"order_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	PaidAt        time.Time       `json:"paid_at"`
}

// NewOrderInfo maps an order aggregate to its service representation
func NewOrderInfo(order *commerce.Order) OrderInfo {
	items := make([]OrderItemInfo, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemInfo{
			ID:          item.ID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}
	return OrderInfo{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		OwnerID:       order.OwnerID,
		Status:        order.Status.String(),
		StatusDisplay: order.Status.DisplayName(),
		Items:         items,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: string(order.PaymentStatus),
		Shipping: ShippingInfo{
			Name:    order.Shipping.Name,
			Phone:   order.Shipping.Phone,
			Address: order.Shipping.Address,
			Memo:    order.Shipping.Memo,
		},
		CancelledAt:  order.CancelledAt,
		CancelReason: order.CancelReason,
		RefundedAt:   order.RefundedAt,
		RefundReason: order.RefundReason,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

// NewStatusLogInfo maps a status log row to its service representation
func NewStatusLogInfo(log commerce.OrderStatusLog) StatusLogInfo {
	return StatusLogInfo{
		ID:             log.ID,
		OrderID:        log.OrderID,
		PreviousStatus: log.PreviousStatus.String(),
		NewStatus:      log.NewStatus.String(),
		ChangedBy:      log.ChangedBy,
		Reason:         log.Reason,
		Memo:           log.Memo,
		CreatedAt:      log.CreatedAt,
	}
}

// NewPaymentInfo maps a payment record to its service representation
func NewPaymentInfo(payment commerce.OrderPayment) PaymentInfo {
	return PaymentInfo{
		ID:            payment.ID,
		OrderID:       payment.OrderID,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
		Method:        string(payment.Method),
		PaidAt:        payment.PaidAt,
	}
}
