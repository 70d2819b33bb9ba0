package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/lead"
	"github.com/propertyspotter/backend/internal/domain/shared"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler blew up")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func submittedEvent(t *testing.T) shared.DomainEvent {
	t.Helper()
	l, err := lead.NewLead(uuid.New(), "Jane", "Doe", "jane@example.com", "+27821234567", "")
	require.NoError(t, err)
	events := l.GetDomainEvents()
	require.NotEmpty(t, events)
	return events[0]
}

func TestInMemoryEventBus_TypedSubscription(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	matching := &recordingHandler{types: []string{lead.EventTypeLeadSubmitted}}
	other := &recordingHandler{types: []string{lead.EventTypeLeadAccepted}}
	bus.Subscribe(matching)
	bus.Subscribe(other)

	require.NoError(t, bus.Publish(context.Background(), submittedEvent(t)))

	assert.Len(t, matching.received, 1)
	assert.Equal(t, lead.EventTypeLeadSubmitted, matching.received[0].EventType())
	assert.Empty(t, other.received)
}

func TestInMemoryEventBus_WildcardSubscription(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	wildcard := &recordingHandler{}
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), submittedEvent(t)))

	assert.Len(t, wildcard.received, 1)
}

func TestInMemoryEventBus_HandlerFailureIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := &recordingHandler{err: errors.New("boom")}
	panicking := &recordingHandler{panics: true}
	healthy := &recordingHandler{}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), submittedEvent(t)))

	assert.Len(t, healthy.received, 1)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &recordingHandler{types: []string{lead.EventTypeLeadSubmitted}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), submittedEvent(t)))

	assert.Empty(t, handler.received)
}

func TestActivityLogHandler_ReceivesAllEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewActivityLogHandler(zap.NewNop()))

	assert.NoError(t, bus.Publish(context.Background(), submittedEvent(t)))
}
