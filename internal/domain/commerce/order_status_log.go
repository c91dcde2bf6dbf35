package commerce

import (
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderStatusLog is an append-only audit record of a single status
// transition. Rows are written by the order repository in the same
// transaction as the order itself and are never updated afterwards.
type OrderStatusLog struct {
	shared.BaseEntity
	OrderID        uuid.UUID   `gorm:"type:uuid;not null;index"`
	PreviousStatus OrderStatus `gorm:"not null;size:20"`
	NewStatus      OrderStatus `gorm:"not null;size:20"`
	ChangedBy      uuid.UUID   `gorm:"type:uuid;not null"`
	Reason         string      `gorm:"size:300"`
	Memo           string      `gorm:"size:300"`
}

// TableName returns the database table name
func (OrderStatusLog) TableName() string {
	return "order_status_logs"
}

// NewOrderStatusLog creates an audit entry for a status transition
func NewOrderStatusLog(orderID uuid.UUID, previous, next OrderStatus, changedBy uuid.UUID, reason, memo string) *OrderStatusLog {
	return &OrderStatusLog{
		BaseEntity:     shared.NewBaseEntity(),
		OrderID:        orderID,
		PreviousStatus: previous,
		NewStatus:      next,
		ChangedBy:      changedBy,
		Reason:         reason,
		Memo:           memo,
	}
}
