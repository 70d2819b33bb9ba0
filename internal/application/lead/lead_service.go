// Package lead orchestrates the lead lifecycle: submission by spotters,
// routing and assignment to agencies, acceptance into a property record and
// closure into a commission. Every status change pushes a WhatsApp update to
// the spotter, best effort.
package lead

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/commission"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/lead"
	"github.com/propertyspotter/backend/internal/domain/property"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/domain/update"
	"github.com/propertyspotter/backend/internal/infrastructure/notification"
)

// LeadDetail bundles a lead with its notes and images
type LeadDetail struct {
	Lead   *lead.Lead
	Notes  []lead.Note
	Images []lead.Image
}

// Service handles the lead lifecycle
type Service struct {
	leads             lead.Repository
	notes             lead.NoteRepository
	images            lead.ImageRepository
	users             identity.UserRepository
	agencies          identity.AgencyRepository
	properties        property.Repository
	commissions       commission.Repository
	updates           update.Repository
	whatsapp          notification.WhatsAppSender
	defaultSpotterPct decimal.Decimal
	events            shared.EventPublisher
	logger            *zap.Logger
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

// NewService creates a new lead service. defaultSpotterPercentage is applied
// when a lead is accepted without explicit terms.
func NewService(
	leads lead.Repository,
	notes lead.NoteRepository,
	images lead.ImageRepository,
	users identity.UserRepository,
	agencies identity.AgencyRepository,
	properties property.Repository,
	commissions commission.Repository,
	updates update.Repository,
	whatsapp notification.WhatsAppSender,
	defaultSpotterPercentage float64,
	logger *zap.Logger,
) *Service {
	return &Service{
		leads:             leads,
		notes:             notes,
		images:            images,
		users:             users,
		agencies:          agencies,
		properties:        properties,
		commissions:       commissions,
		updates:           updates,
		whatsapp:          whatsapp,
		defaultSpotterPct: decimal.NewFromFloat(defaultSpotterPercentage),
		logger:            logger,
	}
}

// Submit creates a new lead owned by the submitting spotter
func (s *Service) Submit(ctx context.Context, input SubmitLeadInput) (*lead.Lead, error) {
	if input.Actor.Role != identity.RoleSpotter && !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only spotters can submit leads")
	}

	l, err := lead.NewLead(input.Actor.ID, input.FirstName, input.LastName, input.Email, input.Phone, input.Notes)
	if err != nil {
		return nil, err
	}
	if input.RequestedAgentID != nil {
		if err := l.RequestAgent(*input.RequestedAgentID); err != nil {
			return nil, err
		}
	}

	if err := s.leads.Save(ctx, l); err != nil {
		s.logger.Error("Failed to save lead", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to submit lead")
	}

	for _, url := range input.ImageURLs {
		img, err := lead.NewImage(l.ID, url, "")
		if err != nil {
			s.logger.Warn("Skipping invalid lead image", zap.String("lead_id", l.ID.String()), zap.Error(err))
			continue
		}
		if err := s.images.Save(ctx, img); err != nil {
			s.logger.Error("Failed to save lead image", zap.String("lead_id", l.ID.String()), zap.Error(err))
		}
	}

	s.publish(ctx, l)
	s.logger.Info("Lead submitted",
		zap.String("lead_id", l.ID.String()),
		zap.String("spotter_id", input.Actor.ID.String()))

	return l, nil
}

// RouteToAgency routes a new lead to an agency (Admin only)
func (s *Service) RouteToAgency(ctx context.Context, input RouteLeadInput) (*lead.Lead, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only admins can route leads")
	}

	l, err := s.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}

	agency, err := s.agencies.FindByID(ctx, input.AgencyID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Agency not found")
	}
	if !agency.Active {
		return nil, shared.NewDomainError("INVALID_STATE", "Agency is not active")
	}

	if err := l.RouteToAgency(agency.ID); err != nil {
		return nil, err
	}
	if err := s.leads.Save(ctx, l); err != nil {
		s.logger.Error("Failed to save routed lead", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to route lead")
	}

	s.publish(ctx, l)
	s.logger.Info("Lead routed",
		zap.String("lead_id", l.ID.String()),
		zap.String("agency_id", agency.ID.String()))

	s.notifySpotter(ctx, l, fmt.Sprintf("Your lead for %s has been routed to %s.", l.ContactName(), agency.Name))

	return l, nil
}

// Assign assigns a routed lead to an agent within its agency
func (s *Service) Assign(ctx context.Context, input AssignLeadInput) (*lead.Lead, error) {
	l, err := s.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if l.AgencyID == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Lead must be routed to an agency before assignment")
	}
	if !input.Actor.ManagesAgency(*l.AgencyID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Only the lead's agency admin can assign it")
	}

	agent, err := s.users.FindByID(ctx, input.AgentID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Agent not found")
	}
	if !agent.Role.CanWorkLeads() {
		return nil, shared.NewDomainError("INVALID_STATE", "User cannot be assigned leads")
	}
	if agent.AgencyID == nil || *agent.AgencyID != *l.AgencyID {
		return nil, shared.NewDomainError("FORBIDDEN", "Agent does not belong to the lead's agency")
	}

	if err := l.Assign(agent.ID); err != nil {
		return nil, err
	}
	if err := s.leads.Save(ctx, l); err != nil {
		s.logger.Error("Failed to save assigned lead", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to assign lead")
	}

	s.publish(ctx, l)
	s.logger.Info("Lead assigned",
		zap.String("lead_id", l.ID.String()),
		zap.String("agent_id", agent.ID.String()))

	s.notifySpotter(ctx, l, fmt.Sprintf("Your lead for %s has been assigned to agent %s.", l.ContactName(), agent.FullName()))

	return l, nil
}

// Accept accepts an assigned lead, fixing the commission terms and creating
// exactly one linked property owned by the assigned agent
func (s *Service) Accept(ctx context.Context, input AcceptLeadInput) (*lead.Lead, error) {
	l, err := s.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAssignedAgent(l, input.Actor); err != nil {
		return nil, err
	}
	// Admins pass the agent gate unconditionally, so the lead may still be
	// unassigned here.
	if l.Status != lead.StatusAssigned || l.AgentID == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Only assigned leads can be accepted")
	}

	spotterPct := s.defaultSpotterPct
	if input.SpotterPercentage != nil {
		spotterPct = *input.SpotterPercentage
	}

	prop, err := property.NewProperty(*l.AgentID, input.PropertyAddress, input.PropertyCity, input.PropertyType)
	if err != nil {
		return nil, err
	}
	prop.LinkLead(l.ID)

	if err := l.Accept(prop.ID, input.AgreedCommission, spotterPct); err != nil {
		return nil, err
	}

	if err := s.properties.Save(ctx, prop); err != nil {
		s.logger.Error("Failed to save property for accepted lead", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to accept lead")
	}
	if err := s.leads.Save(ctx, l); err != nil {
		s.logger.Error("Failed to save accepted lead", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to accept lead")
	}

	s.publish(ctx, l, prop)
	s.logger.Info("Lead accepted",
		zap.String("lead_id", l.ID.String()),
		zap.String("property_id", prop.ID.String()),
		zap.String("agreed_commission", input.AgreedCommission.String()),
		zap.String("spotter_percentage", spotterPct.String()))

	s.notifySpotter(ctx, l, fmt.Sprintf("Good news! Your lead for %s has been accepted. Agreed commission: R%s, your share: %s%%.",
		l.ContactName(), input.AgreedCommission.StringFixed(2), spotterPct.String()))

	return l, nil
}

// Reject rejects an assigned lead
func (s *Service) Reject(ctx context.Context, input RejectLeadInput) (*lead.Lead, error) {
	l, err := s.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAssignedAgent(l, input.Actor); err != nil {
		return nil, err
	}

	if err := l.Reject(input.Reason); err != nil {
		return nil, err
	}
	if err := s.leads.Save(ctx, l); err != nil {
		s.logger.Error("Failed to save rejected lead", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to reject lead")
	}

	s.publish(ctx, l)
	s.logger.Info("Lead rejected", zap.String("lead_id", l.ID.String()))

	s.notifySpotter(ctx, l, fmt.Sprintf("Your lead for %s was not taken further by the agency.", l.ContactName()))

	return l, nil
}

// StartWork moves an accepted lead into active work
func (s *Service) StartWork(ctx context.Context, input StartWorkInput) (*lead.Lead, error) {
	l, err := s.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAssignedAgent(l, input.Actor); err != nil {
		return nil, err
	}

	if err := l.StartWork(); err != nil {
		return nil, err
	}
	if err := s.leads.Save(ctx, l); err != nil {
		s.logger.Error("Failed to save lead", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to start work on lead")
	}

	s.publish(ctx, l)
	s.notifySpotter(ctx, l, fmt.Sprintf("Work has started on your lead for %s.", l.ContactName()))

	return l, nil
}

// Complete closes the lead: the linked property is marked sold and a pending
// commission record is cut from the agreed terms
func (s *Service) Complete(ctx context.Context, input CompleteLeadInput) (*lead.Lead, error) {
	l, err := s.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if err := s.requireAssignedAgent(l, input.Actor); err != nil {
		return nil, err
	}
	if l.PropertyID == nil || l.AgreedCommission == nil || l.SpotterPercentage == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Lead has no agreed commission terms")
	}

	prop, err := s.properties.FindByID(ctx, *l.PropertyID)
	if err != nil {
		s.logger.Error("Linked property missing for lead",
			zap.String("lead_id", l.ID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to complete lead")
	}
	if err := prop.MarkSold(input.SalePrice); err != nil {
		return nil, err
	}

	if err := l.Close(); err != nil {
		return nil, err
	}

	comm, err := commission.NewCommission(l.ID, l.SpotterID, *l.AgreedCommission, *l.SpotterPercentage)
	if err != nil {
		return nil, err
	}
	if l.AgencyID != nil {
		comm.AttachToAgency(*l.AgencyID)
	}
	if l.AgentID != nil {
		comm.AttachToAgent(*l.AgentID)
	}

	if err := s.properties.Save(ctx, prop); err != nil {
		s.logger.Error("Failed to save sold property", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to complete lead")
	}
	if err := s.leads.Save(ctx, l); err != nil {
		s.logger.Error("Failed to save closed lead", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to complete lead")
	}
	if err := s.commissions.Save(ctx, comm); err != nil {
		s.logger.Error("Failed to save commission", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to complete lead")
	}

	s.publish(ctx, l, prop, comm)
	s.logger.Info("Lead completed",
		zap.String("lead_id", l.ID.String()),
		zap.String("commission_id", comm.ID.String()),
		zap.String("spotter_amount", comm.SpotterAmount.String()))

	s.notifySpotter(ctx, l, fmt.Sprintf("Your lead for %s has closed! Your commission of R%s is pending approval.",
		l.ContactName(), comm.SpotterAmount.StringFixed(2)))

	return l, nil
}

// AddNote attaches a note to a lead. Participants, the agency's admins and
// platform admins may comment.
func (s *Service) AddNote(ctx context.Context, input AddNoteInput) (*lead.Note, error) {
	l, err := s.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if !s.canView(l, input.Actor) {
		return nil, shared.NewDomainError("FORBIDDEN", "Not allowed to comment on this lead")
	}

	note, err := lead.NewNote(l.ID, input.Actor.ID, input.Content)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Save(ctx, note); err != nil {
		s.logger.Error("Failed to save lead note", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add note")
	}
	return note, nil
}

// AddImage attaches an image to a lead. Only the owning spotter and admins
// may add images.
func (s *Service) AddImage(ctx context.Context, input AddImageInput) (*lead.Image, error) {
	l, err := s.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if l.SpotterID != input.Actor.ID && !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only the submitting spotter can add images")
	}

	img, err := lead.NewImage(l.ID, input.URL, input.Description)
	if err != nil {
		return nil, err
	}
	if err := s.images.Save(ctx, img); err != nil {
		s.logger.Error("Failed to save lead image", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add image")
	}
	return img, nil
}

// Get returns a lead with its notes and images. Participants, the agency's
// members and admins may view it; everyone else gets NOT_FOUND rather than
// confirmation the lead exists.
func (s *Service) Get(ctx context.Context, input GetLeadInput) (*LeadDetail, error) {
	l, err := s.findLead(ctx, input.LeadID)
	if err != nil {
		return nil, err
	}
	if !s.canView(l, input.Actor) {
		return nil, shared.NewDomainError("NOT_FOUND", "Lead not found")
	}

	notes, err := s.notes.FindByLead(ctx, l.ID)
	if err != nil {
		s.logger.Error("Failed to load lead notes", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load lead")
	}
	images, err := s.images.FindByLead(ctx, l.ID)
	if err != nil {
		s.logger.Error("Failed to load lead images", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load lead")
	}

	return &LeadDetail{Lead: l, Notes: notes, Images: images}, nil
}

// ListBySpotter returns a spotter's leads. Spotters see their own; admins may
// query any spotter.
func (s *Service) ListBySpotter(ctx context.Context, input ListLeadsInput) ([]lead.Lead, int64, error) {
	spotterID := input.Actor.ID
	if input.SpotterID != nil {
		spotterID = *input.SpotterID
	}
	if spotterID != input.Actor.ID && !input.Actor.IsAdmin() {
		return nil, 0, shared.NewDomainError("FORBIDDEN", "Cannot view another spotter's leads")
	}

	filter := s.filterFrom(input)
	leads, err := s.leads.FindBySpotter(ctx, spotterID, filter)
	if err != nil {
		s.logger.Error("Failed to list spotter leads", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list leads")
	}
	total, err := s.leads.CountBySpotter(ctx, spotterID, filter)
	if err != nil {
		s.logger.Error("Failed to count spotter leads", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list leads")
	}
	return leads, total, nil
}

// ListByAgency returns an agency's leads for its members and admins
func (s *Service) ListByAgency(ctx context.Context, input ListLeadsInput) ([]lead.Lead, error) {
	if input.AgencyID == nil {
		input.AgencyID = input.Actor.AgencyID
	}
	if input.AgencyID == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Agency ID is required")
	}
	if !input.Actor.IsAdmin() && !input.Actor.BelongsToAgency(*input.AgencyID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Cannot view another agency's leads")
	}

	leads, err := s.leads.FindByAgency(ctx, *input.AgencyID, s.filterFrom(input))
	if err != nil {
		s.logger.Error("Failed to list agency leads", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list leads")
	}
	return leads, nil
}

// ListUnrouted returns the pool of new leads awaiting routing (Admin only)
func (s *Service) ListUnrouted(ctx context.Context, input ListLeadsInput) ([]lead.Lead, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only admins can view the unrouted pool")
	}
	leads, err := s.leads.FindUnrouted(ctx, s.filterFrom(input))
	if err != nil {
		s.logger.Error("Failed to list unrouted leads", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list leads")
	}
	return leads, nil
}

// ListAll returns every lead (Admin only)
func (s *Service) ListAll(ctx context.Context, input ListLeadsInput) ([]lead.Lead, int64, error) {
	if !input.Actor.IsAdmin() {
		return nil, 0, shared.NewDomainError("FORBIDDEN", "Only admins can list all leads")
	}
	filter := s.filterFrom(input)
	leads, err := s.leads.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list leads", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list leads")
	}
	total, err := s.leads.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count leads", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list leads")
	}
	return leads, total, nil
}

func (s *Service) findLead(ctx context.Context, id uuid.UUID) (*lead.Lead, error) {
	l, err := s.leads.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Lead not found")
		}
		s.logger.Error("Failed to load lead", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load lead")
	}
	return l, nil
}

// requireAssignedAgent gates the accept/reject/start/complete transitions to
// the assigned agent or an admin.
func (s *Service) requireAssignedAgent(l *lead.Lead, actor identity.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	if l.AgentID == nil || *l.AgentID != actor.ID {
		return shared.NewDomainError("FORBIDDEN", "Only the assigned agent can act on this lead")
	}
	return nil
}

// canView reports whether the actor may see the lead: its participants, the
// routed agency's members, and admins.
func (s *Service) canView(l *lead.Lead, actor identity.Actor) bool {
	if actor.IsAdmin() || l.IsParticipant(actor.ID) {
		return true
	}
	return l.AgencyID != nil && actor.BelongsToAgency(*l.AgencyID)
}

func (s *Service) filterFrom(input ListLeadsInput) shared.Filter {
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
	if input.Status != "" {
		filter.Filters["status"] = input.Status
	}
	if input.Assigned != nil {
		filter.Filters["assigned"] = *input.Assigned
	}
	return filter
}

// notifySpotter composes a lead update for the spotter and pushes it over
// WhatsApp. Delivery is best effort: every failure is logged and swallowed
// so the triggering operation still succeeds.
func (s *Service) notifySpotter(ctx context.Context, l *lead.Lead, body string) {
	u, err := update.NewUpdate(l.ID, l.SpotterID, nil, body)
	if err != nil {
		s.logger.Warn("Failed to compose lead update", zap.String("lead_id", l.ID.String()), zap.Error(err))
		return
	}
	if err := s.updates.Save(ctx, u); err != nil {
		s.logger.Error("Failed to save lead update", zap.String("lead_id", l.ID.String()), zap.Error(err))
		return
	}
	s.publish(ctx, u)

	spotter, err := s.users.FindByID(ctx, l.SpotterID)
	if err != nil {
		s.logger.Warn("Spotter not found for lead update", zap.String("lead_id", l.ID.String()), zap.Error(err))
		return
	}
	if spotter.Phone == "" {
		s.logger.Info("Spotter has no phone number, skipping WhatsApp delivery",
			zap.String("spotter_id", spotter.ID.String()))
		return
	}

	sid, err := s.whatsapp.Send(ctx, spotter.Phone, body)
	if err != nil {
		s.logger.Warn("WhatsApp delivery failed",
			zap.String("update_id", u.ID.String()), zap.Error(err))
		_ = u.MarkFailed(err.Error())
	} else {
		_ = u.MarkSent(sid)
	}
	if err := s.updates.Save(ctx, u); err != nil {
		s.logger.Error("Failed to save update delivery state",
			zap.String("update_id", u.ID.String()), zap.Error(err))
	}
}
