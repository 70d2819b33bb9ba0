// Package contact contains the public contact-form message aggregate.
// Messages are stored first; email forwarding is best effort.
package contact

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Message is a submission from the public contact form.
type Message struct {
	shared.BaseAggregateRoot
	Name        string
	Email       string
	Phone       string
	Subject     string
	Body        string
	ForwardedAt *time.Time
	ResolvedAt  *time.Time
	ResolvedBy  *uuid.UUID
}

// NewMessage validates and creates a contact-form message.
func NewMessage(name, email, phone, subject, body string) (*Message, error) {
	name = strings.TrimSpace(name)
	body = strings.TrimSpace(body)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT", "name is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "invalid email format")
	}
	if body == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT", "message body is required")
	}
	if len(body) > 5000 {
		return nil, shared.NewDomainError("INVALID_CONTACT", "message cannot exceed 5000 characters")
	}

	m := &Message{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Phone:             strings.TrimSpace(phone),
		Subject:           strings.TrimSpace(subject),
		Body:              body,
	}
	m.AddDomainEvent(NewMessageReceivedEvent(m))
	return m, nil
}

// MarkForwarded records that the message was emailed to the support inbox.
// Forwarding is best effort, so an unforwarded message is not an error.
func (m *Message) MarkForwarded() {
	now := time.Now()
	m.ForwardedAt = &now
	m.Touch()
}

// Resolve records that an admin has dealt with the message.
func (m *Message) Resolve(adminID uuid.UUID) error {
	if m.ResolvedAt != nil {
		return shared.NewDomainError("INVALID_CONTACT_STATUS", "message is already resolved")
	}
	now := time.Now()
	m.ResolvedAt = &now
	m.ResolvedBy = &adminID
	m.Touch()
	return nil
}
