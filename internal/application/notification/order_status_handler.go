package notification

import (
	"context"
	"fmt"

	"github.com/agoramall/backend/internal/domain/commerce"
	"github.com/agoramall/backend/internal/domain/notification"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStatusHandler turns order status transitions into notifications for
// the order's owner.
type OrderStatusHandler struct {
	notifService *NotificationService
	logger       *zap.Logger
}

// NewOrderStatusHandler creates a new handler for order status events
func NewOrderStatusHandler(notifService *NotificationService, logger *zap.Logger) *OrderStatusHandler {
	return &OrderStatusHandler{
		notifService: notifService,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderStatusHandler) EventTypes() []string {
	return []string{commerce.EventTypeOrderStatusChanged}
}

// Handle processes an OrderStatusChangedEvent
func (h *OrderStatusHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	statusEvent, ok := event.(*commerce.OrderStatusChangedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", commerce.EventTypeOrderStatusChanged),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			commerce.EventTypeOrderStatusChanged, event.EventType())
	}

	ownerID, err := uuid.Parse(statusEvent.OwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner id on order event: %w", err)
	}

	message := statusMessage(statusEvent)
	return h.notifService.Notify(ctx, NotifyInput{
		RecipientID: ownerID,
		Type:        string(notification.TypeOrder),
		Title:       "주문 상태 변경 알림",
		Message:     message,
		Link:        fmt.Sprintf("/orders/%s", statusEvent.AggregateID()),
	})
}

func statusMessage(event *commerce.OrderStatusChangedEvent) string {
	switch event.NewStatus {
	case commerce.OrderStatusProcessing:
		return fmt.Sprintf("주문 %s의 결제가 확인되어 처리 중입니다", event.OrderNumber)
	case commerce.OrderStatusCompleted:
		return fmt.Sprintf("주문 %s이 완료되었습니다", event.OrderNumber)
	case commerce.OrderStatusCancelled:
		if event.Reason != "" {
			return fmt.Sprintf("주문 %s이 취소되었습니다: %s", event.OrderNumber, event.Reason)
		}
		return fmt.Sprintf("주문 %s이 취소되었습니다", event.OrderNumber)
	case commerce.OrderStatusRefunded:
		return fmt.Sprintf("주문 %s의 환불이 완료되었습니다", event.OrderNumber)
	}
	return fmt.Sprintf("주문 %s의 상태가 %s(으)로 변경되었습니다",
		event.OrderNumber, event.NewStatus.DisplayName())
}
