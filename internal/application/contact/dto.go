package contact

import (
	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/identity"
)

// SubmitMessageInput contains the input from the public contact form
type SubmitMessageInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
}

// MessageInput contains the input for single-message admin operations
type MessageInput struct {
	Actor     identity.Actor
	MessageID uuid.UUID
}

// ListMessagesInput contains the input for the admin inbox
type ListMessagesInput struct {
	Actor      identity.Actor
	Unresolved bool
	Search     string
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}
