package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// ActivityLogHandler writes an audit line for every domain event. It is a
// wildcard subscriber, so it records the full lifecycle of every aggregate.
type ActivityLogHandler struct {
	logger *zap.Logger
}

// NewActivityLogHandler creates a new activity log handler
func NewActivityLogHandler(logger *zap.Logger) *ActivityLogHandler {
	return &ActivityLogHandler{logger: logger}
}

// Handle records the event
func (h *ActivityLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.logger.Info("Domain event",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// EventTypes returns an empty slice: the handler subscribes to all events
func (h *ActivityLogHandler) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*ActivityLogHandler)(nil)
