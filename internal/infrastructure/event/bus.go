// Package event provides an in-memory publish/subscribe bus for domain
// events. Dispatch is synchronous within the publishing request; handler
// failures are logged and never fail the operation that raised the event.
package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// InMemoryEventBus implements shared.EventBus with in-memory pub/sub
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		wildcard: make([]shared.EventHandler, 0),
		logger:   logger,
	}
}

// Publish dispatches events to all registered handlers synchronously
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.handlersFor(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.logger.Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler. With no explicit event types the handler's
// own EventTypes() decide; an empty list subscribes it to every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
		return
	}
	for _, eventType := range eventTypes {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
	}
}

// Unsubscribe removes a handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.wildcard = removeHandler(b.wildcard, handler)
	for eventType, handlers := range b.handlers {
		b.handlers[eventType] = removeHandler(handlers, handler)
		if len(b.handlers[eventType]) == 0 {
			delete(b.handlers, eventType)
		}
	}
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	typed := b.handlers[eventType]
	result := make([]shared.EventHandler, 0, len(typed)+len(b.wildcard))
	result = append(result, typed...)
	result = append(result, b.wildcard...)
	return result
}

// dispatch runs a handler, containing panics so one bad handler cannot take
// down the publishing request.
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, event)
}

func removeHandler(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	result := make([]shared.EventHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != target {
			result = append(result, h)
		}
	}
	return result
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
