package commerce

import (
	"context"
	"time"

	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesTotals is an order count plus revenue over a time range. Cancelled
// and refunded orders do not count toward revenue.
type SalesTotals struct {
	Orders  int64
	Revenue decimal.Decimal
}

// OrderRepository defines the interface for order persistence.
// Save must persist the order, its items and any pending status logs in a
// single transaction so an audit entry can never be lost between writes.
type OrderRepository interface {
	shared.OwnedRepository[Order]

	// FindByOrderNumber finds an order by its human-readable number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// GenerateOrderNumber generates a unique order number (ORD-YYYY-NNNNN)
	GenerateOrderNumber(ctx context.Context) (string, error)

	// FindStatusLogs returns the audit trail for one order, oldest first
	FindStatusLogs(ctx context.Context, orderID uuid.UUID) ([]OrderStatusLog, error)

	// FindStatusLogsForOwner returns audit rows for all orders owned by the
	// user, newest first
	FindStatusLogsForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]OrderStatusLog, int64, error)

	// FindAllStatusLogs returns audit rows across all orders (staff view)
	FindAllStatusLogs(ctx context.Context, filter shared.Filter) ([]OrderStatusLog, int64, error)

	// TotalsBetween aggregates order count and revenue for orders placed
	// in the time range
	TotalsBetween(ctx context.Context, from, to time.Time) (SalesTotals, error)

	// SavePayment records a settled payment
	SavePayment(ctx context.Context, payment *OrderPayment) error

	// FindPayments returns payments recorded against an order
	FindPayments(ctx context.Context, orderID uuid.UUID) ([]OrderPayment, error)
}
