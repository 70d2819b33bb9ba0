package shared

import "context"

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in.
	// An empty slice means the handler receives all events.
	EventTypes() []string
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber subscribes handlers to domain events
type EventSubscriber interface {
	// Subscribe registers a handler for specific event types.
	// If no event types are provided, the handler receives all events.
	Subscribe(handler EventHandler, eventTypes ...string)
	// Unsubscribe removes a handler from the subscription list
	Unsubscribe(handler EventHandler)
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
}

// PublishEvents drains the pending events of the given aggregates to the
// publisher. A nil publisher discards them; events are cleared either way so
// an aggregate never re-announces a change.
func PublishEvents(ctx context.Context, publisher EventPublisher, aggregates ...AggregateRoot) error {
	for _, aggregate := range aggregates {
		events := aggregate.GetDomainEvents()
		aggregate.ClearDomainEvents()
		if publisher == nil || len(events) == 0 {
			continue
		}
		if err := publisher.Publish(ctx, events...); err != nil {
			return err
		}
	}
	return nil
}
