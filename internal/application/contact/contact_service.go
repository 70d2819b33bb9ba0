// Package contact provides the application service for the public contact
// form. Messages are stored first; forwarding to the support inbox is best
// effort.
package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/contact"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/notification"
)

// Service handles contact-form use cases
type Service struct {
	messages contact.Repository
	email    notification.EmailSender
	inbox    string
	events   shared.EventPublisher
	logger   *zap.Logger
}

// SetEventPublisher sets the publisher that receives lifecycle events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// publish drains the aggregates' pending events onto the bus, best effort
func (s *Service) publish(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if err := shared.PublishEvents(ctx, s.events, aggregates...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

// NewService creates a new contact service. inbox is the support address
// submissions are forwarded to; leave it empty to disable forwarding.
func NewService(messages contact.Repository, email notification.EmailSender, inbox string, logger *zap.Logger) *Service {
	return &Service{
		messages: messages,
		email:    email,
		inbox:    inbox,
		logger:   logger,
	}
}

// Submit stores a contact-form message and forwards it to the support inbox
func (s *Service) Submit(ctx context.Context, input SubmitMessageInput) (*contact.Message, error) {
	m, err := contact.NewMessage(input.Name, input.Email, input.Phone, input.Subject, input.Body)
	if err != nil {
		return nil, err
	}

	if err := s.messages.Save(ctx, m); err != nil {
		s.logger.Error("Failed to save contact message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to submit message")
	}

	s.publish(ctx, m)
	s.logger.Info("Contact message received",
		zap.String("message_id", m.ID.String()),
		zap.String("email", m.Email))

	// The message is already stored. A failed forward only loses the email.
	if s.inbox != "" {
		if err := s.forward(ctx, m); err != nil {
			s.logger.Warn("Failed to forward contact message",
				zap.Error(err),
				zap.String("message_id", m.ID.String()))
		} else {
			m.MarkForwarded()
			if err := s.messages.Save(ctx, m); err != nil {
				s.logger.Warn("Failed to record forwarding", zap.Error(err), zap.String("message_id", m.ID.String()))
			}
		}
	}
	return m, nil
}

// Get returns a single message. Admin only.
func (s *Service) Get(ctx context.Context, input MessageInput) (*contact.Message, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can read contact messages")
	}
	return s.findMessage(ctx, input.MessageID)
}

// List returns the contact inbox, optionally restricted to unresolved
// messages. Admin only.
func (s *Service) List(ctx context.Context, input ListMessagesInput) (*shared.Paginated[contact.Message], error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can read contact messages")
	}

	filter := shared.DefaultFilter()
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.OrderBy != "" {
		filter.OrderBy = input.OrderBy
	}
	if input.OrderDir != "" {
		filter.OrderDir = input.OrderDir
	}
	filter.Search = input.Search

	if input.Unresolved {
		return s.messages.FindUnresolved(ctx, filter)
	}
	return s.messages.FindAll(ctx, filter)
}

// Resolve marks a message as dealt with. Admin only.
func (s *Service) Resolve(ctx context.Context, input MessageInput) (*contact.Message, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can resolve contact messages")
	}

	m, err := s.findMessage(ctx, input.MessageID)
	if err != nil {
		return nil, err
	}
	if err := m.Resolve(input.Actor.ID); err != nil {
		return nil, err
	}
	if err := s.messages.Save(ctx, m); err != nil {
		s.logger.Error("Failed to save contact message", zap.Error(err), zap.String("message_id", m.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve message")
	}

	s.logger.Info("Contact message resolved",
		zap.String("message_id", m.ID.String()),
		zap.String("resolved_by", input.Actor.ID.String()))
	return m, nil
}

// Delete removes a message from the inbox. Admin only.
func (s *Service) Delete(ctx context.Context, input MessageInput) error {
	if !input.Actor.IsAdmin() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can delete contact messages")
	}

	m, err := s.findMessage(ctx, input.MessageID)
	if err != nil {
		return err
	}
	if err := s.messages.Delete(ctx, m.ID); err != nil {
		s.logger.Error("Failed to delete contact message", zap.Error(err), zap.String("message_id", m.ID.String()))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete message")
	}
	return nil
}

func (s *Service) forward(ctx context.Context, m *contact.Message) error {
	subject := m.Subject
	if subject == "" {
		subject = "New contact form message"
	}
	body := fmt.Sprintf("From: %s <%s>\nPhone: %s\n\n%s", m.Name, m.Email, m.Phone, m.Body)
	return s.email.Send(ctx, s.inbox, subject, body)
}

func (s *Service) findMessage(ctx context.Context, id uuid.UUID) (*contact.Message, error) {
	m, err := s.messages.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Message not found")
		}
		s.logger.Error("Failed to find contact message", zap.Error(err), zap.String("message_id", id.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find message")
	}
	return m, nil
}
