package contact

import "github.com/propertyspotter/backend/internal/domain/shared"

// MessageReceivedEvent is raised when a contact-form message is stored.
type MessageReceivedEvent struct {
	shared.BaseDomainEvent
	Email   string `json:"email"`
	Subject string `json:"subject"`
}

func NewMessageReceivedEvent(m *Message) *MessageReceivedEvent {
	return &MessageReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("contact.message_received", "ContactMessage", m.ID),
		Email:           m.Email,
		Subject:         m.Subject,
	}
}
