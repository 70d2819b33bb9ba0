// Package update provides the application service for WhatsApp lead
// updates: agent-authored progress messages, provider delivery callbacks
// and the spotter's update feed.
package update

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/lead"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/domain/update"
	"github.com/propertyspotter/backend/internal/infrastructure/notification"
)

// Service handles lead update use cases
type Service struct {
	updates  update.Repository
	leads    lead.Repository
	users    identity.UserRepository
	whatsapp notification.WhatsAppSender
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

// NewService creates a new update service
func NewService(
	updates update.Repository,
	leads lead.Repository,
	users identity.UserRepository,
	whatsapp notification.WhatsAppSender,
	logger *zap.Logger,
) *Service {
	return &Service{
		updates:  updates,
		leads:    leads,
		users:    users,
		whatsapp: whatsapp,
		logger:   logger,
	}
}

// Create sends a progress message about a lead to its spotter. The update is
// stored before dispatch so a provider outage never loses the message.
func (s *Service) Create(ctx context.Context, input CreateUpdateInput) (*update.Update, error) {
	l, err := s.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if !s.canPost(l, input.Actor) {
		return nil, shared.NewDomainError("FORBIDDEN", "You are not working this lead")
	}

	spotter, err := s.users.FindByID(ctx, l.SpotterID)
	if err != nil {
		s.logger.Error("Failed to find spotter", zap.Error(err), zap.String("spotter_id", l.SpotterID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find recipient")
	}
	if spotter.Phone == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Spotter has no WhatsApp number on file")
	}

	authorID := input.Actor.ID
	u, err := update.NewUpdate(l.ID, l.SpotterID, &authorID, input.Body)
	if err != nil {
		return nil, err
	}
	if err := s.updates.Save(ctx, u); err != nil {
		s.logger.Error("Failed to save update", zap.Error(err), zap.String("lead_id", l.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create update")
	}

	s.publish(ctx, u)
	s.dispatch(ctx, u, spotter.Phone)
	return u, nil
}

// HandleStatusCallback applies a provider delivery callback. Unknown SIDs
// and stale statuses are ignored so webhook retries stay idempotent.
func (s *Service) HandleStatusCallback(ctx context.Context, input StatusCallbackInput) error {
	u, err := s.updates.FindByProviderSID(ctx, input.ProviderSID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Status callback for unknown message", zap.String("provider_sid", input.ProviderSID))
			return nil
		}
		s.logger.Error("Failed to find update", zap.Error(err), zap.String("provider_sid", input.ProviderSID))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to process callback")
	}

	switch input.Status {
	case "queued", "accepted", "sending":
		return nil
	case "sent":
		err = u.MarkSent(input.ProviderSID)
	case "delivered":
		err = u.MarkDelivered()
	case "read":
		err = u.MarkRead()
	case "failed", "undelivered":
		err = u.MarkFailed(input.ErrorMessage)
	default:
		s.logger.Warn("Unknown delivery status",
			zap.String("status", input.Status),
			zap.String("provider_sid", input.ProviderSID))
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.updates.Save(ctx, u); err != nil {
		s.logger.Error("Failed to save update", zap.Error(err), zap.String("update_id", u.ID.String()))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to process callback")
	}

	s.logger.Info("Delivery status updated",
		zap.String("update_id", u.ID.String()),
		zap.String("delivery", string(u.Delivery)))
	return nil
}

// ListByLead returns the update history of a lead
func (s *Service) ListByLead(ctx context.Context, input ListByLeadInput) ([]update.Update, error) {
	l, err := s.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if !s.canView(l, input.Actor) {
		return nil, shared.NewDomainError("NOT_FOUND", "Lead not found")
	}
	return s.updates.FindByLead(ctx, l.ID)
}

// ListByRecipient returns a spotter's update feed
func (s *Service) ListByRecipient(ctx context.Context, input ListByRecipientInput) (*shared.Paginated[update.Update], error) {
	recipientID := input.Actor.ID
	if input.RecipientID != nil {
		recipientID = *input.RecipientID
	}
	if recipientID != input.Actor.ID && !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only list your own updates")
	}

	filter := shared.DefaultFilter()
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	return s.updates.FindByRecipient(ctx, recipientID, filter)
}

// RetryPending re-dispatches updates stuck in the pending state. Admin only.
// Returns the number of updates handed to the provider.
func (s *Service) RetryPending(ctx context.Context, input RetryPendingInput) (int, error) {
	if !input.Actor.IsAdmin() {
		return 0, shared.NewDomainError("FORBIDDEN", "Only administrators can retry deliveries")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}

	pending, err := s.updates.FindPending(ctx, limit)
	if err != nil {
		s.logger.Error("Failed to list pending updates", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list pending updates")
	}

	sent := 0
	for i := range pending {
		u := &pending[i]
		recipient, err := s.users.FindByID(ctx, u.RecipientID)
		if err != nil || recipient.Phone == "" {
			s.logger.Warn("Skipping update without reachable recipient",
				zap.String("update_id", u.ID.String()))
			continue
		}
		if s.dispatch(ctx, u, recipient.Phone) {
			sent++
		}
	}

	s.logger.Info("Pending updates retried",
		zap.Int("attempted", len(pending)),
		zap.Int("sent", sent))
	return sent, nil
}

// dispatch hands the message to the provider and records the outcome.
// Returns true when the provider accepted the message.
func (s *Service) dispatch(ctx context.Context, u *update.Update, phone string) bool {
	sid, err := s.whatsapp.Send(ctx, phone, u.Body)
	if err != nil {
		s.logger.Warn("WhatsApp dispatch failed", zap.Error(err), zap.String("update_id", u.ID.String()))
		_ = u.MarkFailed(err.Error())
	} else {
		_ = u.MarkSent(sid)
	}
	if saveErr := s.updates.Save(ctx, u); saveErr != nil {
		s.logger.Error("Failed to record delivery state", zap.Error(saveErr), zap.String("update_id", u.ID.String()))
	}
	return err == nil
}

func (s *Service) findLead(ctx context.Context, id uuid.UUID) (*lead.Lead, error) {
	l, err := s.leads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Lead not found")
		}
		s.logger.Error("Failed to find lead", zap.Error(err), zap.String("lead_id", id.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find lead")
	}
	return l, nil
}

// canPost allows the assigned agent, the lead's agency staff and admins to
// author updates.
func (s *Service) canPost(l *lead.Lead, actor identity.Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	if l.AgentID != nil && *l.AgentID == actor.ID {
		return true
	}
	return l.AgencyID != nil && actor.ManagesAgency(*l.AgencyID)
}

func (s *Service) canView(l *lead.Lead, actor identity.Actor) bool {
	if actor.IsAdmin() || l.IsParticipant(actor.ID) {
		return true
	}
	return l.AgencyID != nil && actor.BelongsToAgency(*l.AgencyID)
}
