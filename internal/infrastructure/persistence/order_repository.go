package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agoramall/backend/internal/domain/commerce"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save persists the order, its items and any pending status logs in a
// single transaction. The audit rows recorded by the aggregate are written
// here and nowhere else, then cleared so a retry cannot duplicate them.
func (r *GormOrderRepository) Save(ctx context.Context, order *commerce.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}

		// Delete items removed from the aggregate
		currentItemIDs := make([]uuid.UUID, len(order.Items))
		for i, item := range order.Items {
			currentItemIDs[i] = item.ID
		}
		if len(currentItemIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
				Delete(&commerce.OrderItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&commerce.OrderItem{}).Error; err != nil {
				return err
			}
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}

		logs := order.PendingStatusLogs()
		for _, log := range logs {
			log.OrderID = order.ID
			if err := tx.Create(log).Error; err != nil {
				return err
			}
		}
		order.ClearPendingStatusLogs()

		return nil
	})
}

// FindByID finds an order with its items loaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*commerce.Order, error) {
	var order commerce.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds an order by its human-readable number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*commerce.Order, error) {
	var order commerce.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll returns orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]commerce.Order, error) {
	var orders []commerce.Order
	query := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.Order{}), filter)
	query = applySort(query, filter, OrderSortFields)
	query = applyPagination(query, filter)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAllForOwner returns orders owned by the user
func (r *GormOrderRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]commerce.Order, error) {
	var orders []commerce.Order
	query := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.Order{}), filter).
		Where("owner_id = ?", ownerID)
	query = applySort(query, filter, OrderSortFields)
	query = applyPagination(query, filter)
	if err := query.Preload("Items").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count returns the number of orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.Order{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountForOwner returns the number of orders owned by the user
func (r *GormOrderRepository) CountForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&commerce.Order{}), filter).
		Where("owner_id = ?", ownerID)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes an order with its items and audit rows
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&commerce.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&commerce.OrderStatusLog{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&commerce.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// GenerateOrderNumber generates a unique order number.
// Format: ORD-YYYY-NNNNN (e.g., ORD-2026-00001)
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("ORD-%d-", year)

	var lastOrder commerce.Order
	err := r.db.WithContext(ctx).
		Model(&commerce.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&lastOrder).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastOrder.OrderNumber != "" {
		parts := strings.Split(lastOrder.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// FindStatusLogs returns the audit trail for one order, oldest first
func (r *GormOrderRepository) FindStatusLogs(ctx context.Context, orderID uuid.UUID) ([]commerce.OrderStatusLog, error) {
	var logs []commerce.OrderStatusLog
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// FindStatusLogsForOwner returns audit rows for all orders owned by the
// user, newest first
func (r *GormOrderRepository) FindStatusLogsForOwner(ctx context.Context, ownerID uuid.UUID, filter shared.Filter) ([]commerce.OrderStatusLog, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&commerce.OrderStatusLog{}).
		Joins("JOIN orders ON orders.id = order_status_logs.order_id").
		Where("orders.owner_id = ?", ownerID)
	return r.findStatusLogsPage(query, filter)
}

// FindAllStatusLogs returns audit rows across all orders (staff view)
func (r *GormOrderRepository) FindAllStatusLogs(ctx context.Context, filter shared.Filter) ([]commerce.OrderStatusLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&commerce.OrderStatusLog{})
	if status, ok := filter.Filters["new_status"]; ok {
		query = query.Where("new_status = ?", status)
	}
	return r.findStatusLogsPage(query, filter)
}

func (r *GormOrderRepository) findStatusLogsPage(query *gorm.DB, filter shared.Filter) ([]commerce.OrderStatusLog, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []commerce.OrderStatusLog
	query = query.Order("order_status_logs.created_at DESC")
	query = applyPagination(query, filter)
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// TotalsBetween aggregates order count and revenue for orders placed in
// the time range
func (r *GormOrderRepository) TotalsBetween(ctx context.Context, from, to time.Time) (commerce.SalesTotals, error) {
	var row struct {
		Orders  int64
		Revenue decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&commerce.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total_amount) FILTER (WHERE status NOT IN ?), 0) AS revenue",
			[]commerce.OrderStatus{commerce.OrderStatusCancelled, commerce.OrderStatusRefunded}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&row).Error
	if err != nil {
		return commerce.SalesTotals{}, err
	}
	return commerce.SalesTotals{Orders: row.Orders, Revenue: row.Revenue}, nil
}

// SavePayment records a settled payment
func (r *GormOrderRepository) SavePayment(ctx context.Context, payment *commerce.OrderPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// FindPayments returns payments recorded against an order
func (r *GormOrderRepository) FindPayments(ctx context.Context, orderID uuid.UUID) ([]commerce.OrderPayment, error) {
	var payments []commerce.OrderPayment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("paid_at ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR shipping_name ILIKE ? OR shipping_phone ILIKE ?",
			pattern, pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if paymentStatus, ok := filter.Filters["payment_status"]; ok {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if method, ok := filter.Filters["payment_method"]; ok {
		query = query.Where("payment_method = ?", method)
	}
	if from, ok := filter.Filters["from"]; ok {
		query = query.Where("created_at >= ?", from)
	}
	if to, ok := filter.Filters["to"]; ok {
		query = query.Where("created_at < ?", to)
	}
	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ commerce.OrderRepository = (*GormOrderRepository)(nil)
