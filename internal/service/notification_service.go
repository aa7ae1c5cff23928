package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
)

// NotificationService logs domain events as notification stubs. Real-time
// push is out of scope; this is where a delivery channel would hook in.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleEvent("TicketCreated"))
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleEvent("TicketStatusChanged"))
	n.dispatcher.Subscribe(events.EventTicketAcknowledged, n.handleEvent("TicketAcknowledged"))
	n.dispatcher.Subscribe(events.EventTicketAttachmentLinked, n.handleEvent("TicketAttachmentLinked"))
}

func (n *NotificationService) handleEvent(name string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		n.logger.Info(name,
			zap.String("ticket_id", event.TicketID),
			zap.String("actor_id", event.ActorID),
			zap.Any("payload", event.Payload))
		return nil
	}
}
