package commerce

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/agoramall/backend/internal/domain/commerce"
	"github.com/agoramall/backend/internal/domain/identity"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/infrastructure/printing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// exportPageSize bounds how many orders one CSV export page fetches
const exportPageSize = 500

var csvHeader = []string{
	"order_number", "status", "buyer_email", "total_amount",
	"payment_method", "payment_status", "shipping_name", "shipping_phone",
	"created_at",
}

// ExportService produces CSV and PDF views of orders for staff
type ExportService struct {
	orderRepo commerce.OrderRepository
	userRepo  identity.UserRepository
	printer   *printing.OrderSheetPrinter
	logger    *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(
	orderRepo commerce.OrderRepository,
	userRepo identity.UserRepository,
	printer *printing.OrderSheetPrinter,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		printer:   printer,
		logger:    logger,
	}
}

// ExportCSVInput contains input for the CSV export
type ExportCSVInput struct {
	Actor  Actor
	Filter shared.Filter
}

// ExportCSV writes all orders matching the filter as CSV (staff operation)
func (s *ExportService) ExportCSV(ctx context.Context, input ExportCSVInput) ([]byte, error) {
	if !input.Actor.Staff {
		return nil, shared.ErrForbidden
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	emailCache := make(map[uuid.UUID]string)
	filter := input.Filter
	filter.PageSize = exportPageSize
	for page := 1; ; page++ {
		filter.Page = page
		orders, err := s.orderRepo.FindAll(ctx, filter)
		if err != nil {
			s.logger.Error("Failed to fetch orders for export", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to export orders")
		}
		if len(orders) == 0 {
			break
		}
		for i := range orders {
			if err := w.Write(s.csvRow(ctx, &orders[i], emailCache)); err != nil {
				return nil, fmt.Errorf("failed to write csv row: %w", err)
			}
		}
		if len(orders) < exportPageSize {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	s.logger.Info("Orders exported to CSV", zap.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

// ExportOrderSheet renders one order as a PDF order sheet (staff operation)
func (s *ExportService) ExportOrderSheet(ctx context.Context, orderID uuid.UUID, actor Actor) ([]byte, error) {
	if !actor.Staff {
		return nil, shared.ErrForbidden
	}
	if s.printer == nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "PDF rendering is not configured")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	nickname := ""
	if buyer, err := s.userRepo.FindByID(ctx, order.OwnerID); err == nil {
		nickname = buyer.Nickname
	}

	result, err := s.printer.Print(ctx, printing.NewOrderSheetData(order, nickname))
	if err != nil {
		s.logger.Error("Failed to render order sheet",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to render order sheet")
	}

	s.logger.Info("Order sheet rendered",
		zap.String("order_number", order.OrderNumber),
		zap.Int("pages", result.PageCount),
		zap.Duration("render_duration", result.RenderDuration))

	return result.PDFData, nil
}

func (s *ExportService) csvRow(ctx context.Context, order *commerce.Order, emailCache map[uuid.UUID]string) []string {
	email, ok := emailCache[order.OwnerID]
	if !ok {
		if buyer, err := s.userRepo.FindByID(ctx, order.OwnerID); err == nil {
			email = buyer.Email
		}
		emailCache[order.OwnerID] = email
	}
	return []string{
		order.OrderNumber,
		order.Status.String(),
		email,
		order.TotalAmount.StringFixed(2),
		string(order.PaymentMethod),
		string(order.PaymentStatus),
		order.Shipping.Name,
		order.Shipping.Phone,
		order.CreatedAt.Format(time.RFC3339),
	}
}
