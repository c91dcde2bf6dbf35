package commerce

import (
	"strings"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPayment records a settled payment against an order
type OrderPayment struct {
	shared.BaseEntity
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransactionID string          `gorm:"uniqueIndex;not null;size:100"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Method        PaymentMethod   `gorm:"not null;size:30"`
	PaidAt        time.Time       `gorm:"not null"`
}

// TableName returns the database table name
func (OrderPayment) TableName() string {
	return "order_payments"
}

// NewOrderPayment creates a payment record for an order
func NewOrderPayment(orderID uuid.UUID, transactionID string, amount decimal.Decimal, method PaymentMethod) (*OrderPayment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "order ID is required")
	}
	if strings.TrimSpace(transactionID) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "transaction ID is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown payment method")
	}
	return &OrderPayment{
		BaseEntity:    shared.NewBaseEntity(),
		OrderID:       orderID,
		TransactionID: transactionID,
		Amount:        amount,
		Method:        method,
		PaidAt:        time.Now(),
	}, nil
}
