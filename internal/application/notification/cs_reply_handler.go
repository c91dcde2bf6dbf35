package notification

import (
	"context"
	"fmt"

	"github.com/agoramall/backend/internal/domain/notification"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/domain/support"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CSReplyHandler notifies a support post's owner when staff answer it
type CSReplyHandler struct {
	notifService *NotificationService
	logger       *zap.Logger
}

// NewCSReplyHandler creates a new handler for support reply events
func NewCSReplyHandler(notifService *NotificationService, logger *zap.Logger) *CSReplyHandler {
	return &CSReplyHandler{
		notifService: notifService,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CSReplyHandler) EventTypes() []string {
	return []string{support.EventTypeReplyAdded}
}

// Handle processes a ReplyAddedEvent
func (h *CSReplyHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	replyEvent, ok := event.(*support.ReplyAddedEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", support.EventTypeReplyAdded),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			support.EventTypeReplyAdded, event.EventType())
	}

	ownerID, err := uuid.Parse(replyEvent.OwnerID)
	if err != nil {
		return fmt.Errorf("invalid owner id on support event: %w", err)
	}

	message := fmt.Sprintf("'%s' 문의에 답변이 등록되었습니다", replyEvent.PostTitle)
	if replyEvent.Resolves {
		message = fmt.Sprintf("'%s' 문의가 답변 완료 처리되었습니다", replyEvent.PostTitle)
	}

	return h.notifService.Notify(ctx, NotifyInput{
		RecipientID: ownerID,
		Type:        string(notification.TypeCS),
		Title:       "문의 답변 알림",
		Message:     message,
		Link:        fmt.Sprintf("/support/posts/%s", replyEvent.AggregateID()),
	})
}
