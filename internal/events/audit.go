package events

import (
	"context"

	"go.uber.org/zap"
)

// RegisterAuditSubscriber logs every ticket lifecycle event.
func RegisterAuditSubscriber(dispatcher Dispatcher, logger *zap.Logger) {
	handler := func(_ context.Context, event Event) error {
		logger.Info("ticket event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("ticket_id", event.TicketID.String()),
			zap.Time("timestamp", event.Timestamp),
		)
		return nil
	}

	for _, eventType := range []EventType{EventTicketCreated, EventTicketUpdated, EventTicketDeleted} {
		dispatcher.Subscribe(eventType, handler)
	}
}
