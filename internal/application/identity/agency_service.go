package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/notification"
)

// InvitationTTL is how long an agency invitation stays valid
const InvitationTTL = 7 * 24 * time.Hour

// AgencyService handles agency management and agent invitations
type AgencyService struct {
	agencies    identity.AgencyRepository
	users       identity.UserRepository
	invitations identity.InvitationTokenRepository
	email       notification.EmailSender
	baseURL     string
	events      shared.EventPublisher
	logger      *zap.Logger
}

// SetEventPublisher sets the publisher that receives lifecycle events
func (s *AgencyService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

func (s *AgencyService) publish(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if err := shared.PublishEvents(ctx, s.events, aggregates...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

// NewAgencyService creates a new agency service
func NewAgencyService(
	agencies identity.AgencyRepository,
	users identity.UserRepository,
	invitations identity.InvitationTokenRepository,
	email notification.EmailSender,
	baseURL string,
	logger *zap.Logger,
) *AgencyService {
	return &AgencyService{
		agencies:    agencies,
		users:       users,
		invitations: invitations,
		email:       email,
		baseURL:     baseURL,
		logger:      logger,
	}
}

// CreateAgency registers a new agency
func (s *AgencyService) CreateAgency(ctx context.Context, input CreateAgencyInput) (*AgencyInfo, error) {
	exists, err := s.agencies.ExistsByName(ctx, input.Name)
	if err != nil {
		s.logger.Error("Failed to check agency name", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create agency")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An agency with this name already exists")
	}
	exists, err = s.agencies.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check agency email", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create agency")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An agency with this email already exists")
	}

	agency, err := identity.NewAgency(input.Name, input.Email)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" || input.Address != "" {
		if err := agency.Update(input.Name, input.Phone, input.Address); err != nil {
			return nil, err
		}
	}

	if err := s.agencies.Save(ctx, agency); err != nil {
		s.logger.Error("Failed to save agency", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create agency")
	}

	s.publish(ctx, agency)
	s.logger.Info("Agency created",
		zap.String("agency_id", agency.ID.String()),
		zap.String("name", agency.Name))

	return &AgencyInfo{ID: agency.ID, Name: agency.Name, Email: agency.Email, Active: agency.Active}, nil
}

// UpdateAgency updates an agency's contact details
func (s *AgencyService) UpdateAgency(ctx context.Context, input UpdateAgencyInput) (*AgencyInfo, error) {
	agency, err := s.agencies.FindByID(ctx, input.AgencyID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Agency not found")
	}

	if err := agency.Update(input.Name, input.Phone, input.Address); err != nil {
		return nil, err
	}

	if err := s.agencies.Save(ctx, agency); err != nil {
		s.logger.Error("Failed to save agency update", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update agency")
	}

	return &AgencyInfo{ID: agency.ID, Name: agency.Name, Email: agency.Email, Active: agency.Active}, nil
}

// GetAgency returns a single agency by ID
func (s *AgencyService) GetAgency(ctx context.Context, id uuid.UUID) (*identity.Agency, error) {
	agency, err := s.agencies.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Agency not found")
		}
		s.logger.Error("Failed to load agency", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load agency")
	}
	return agency, nil
}

// ListAgencies returns a page of agencies
func (s *AgencyService) ListAgencies(ctx context.Context, filter shared.Filter) ([]identity.Agency, int64, error) {
	agencies, err := s.agencies.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list agencies", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list agencies")
	}
	total, err := s.agencies.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count agencies", zap.Error(err))
		return nil, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to list agencies")
	}
	return agencies, total, nil
}

// InviteAgent issues an invitation token for an email address to join an
// agency and mails it out (best effort)
func (s *AgencyService) InviteAgent(ctx context.Context, input InviteAgentInput) (*InviteAgentResult, error) {
	agency, err := s.agencies.FindByID(ctx, input.AgencyID)
	if err != nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Agency not found")
	}
	if !agency.Active {
		return nil, shared.NewDomainError("INVALID_STATE", "Agency is not active")
	}

	taken, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to invite agent")
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	pending, err := s.invitations.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check pending invitations", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to invite agent")
	}
	if pending {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An invitation for this email is already pending")
	}

	token, err := identity.NewInvitationToken(input.Email, input.FirstName, input.LastName, input.Phone, agency.ID, InvitationTTL)
	if err != nil {
		return nil, err
	}
	if err := s.invitations.Save(ctx, token); err != nil {
		s.logger.Error("Failed to save invitation token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to invite agent")
	}

	s.sendInvitationEmail(ctx, agency, token)

	s.logger.Info("Agent invited",
		zap.String("agency_id", agency.ID.String()),
		zap.String("email", token.Email),
		zap.String("invited_by", input.InvitedBy.String()))

	return &InviteAgentResult{Token: token.Token, Email: token.Email, ExpiresAt: token.ExpiresAt}, nil
}

// AcceptInvitation consumes an invitation token and creates an active agent
// account bound to the inviting agency
func (s *AgencyService) AcceptInvitation(ctx context.Context, input AcceptInvitationInput) (*AcceptInvitationResult, error) {
	token, err := s.invitations.FindByToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invitation not found")
		}
		s.logger.Error("Failed to load invitation token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to accept invitation")
	}

	if err := token.Consume(); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(token.Email, input.Username, input.Password, identity.RoleAgent)
	if err != nil {
		return nil, err
	}
	if err := user.SetName(token.FirstName, token.LastName); err != nil {
		return nil, err
	}
	if err := user.SetPhone(token.Phone); err != nil {
		return nil, err
	}
	if err := user.AttachToAgency(token.AgencyID); err != nil {
		return nil, err
	}
	// The invitation arrived at this address, so the email is verified.
	if err := user.Activate(); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save invited agent", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to accept invitation")
	}
	if err := s.invitations.Save(ctx, token); err != nil {
		s.logger.Error("Failed to mark invitation used", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to accept invitation")
	}

	s.publish(ctx, user)
	s.logger.Info("Invitation accepted",
		zap.String("user_id", user.ID.String()),
		zap.String("agency_id", token.AgencyID.String()))

	return &AcceptInvitationResult{UserID: user.ID, AgencyID: token.AgencyID, Email: user.Email}, nil
}

func (s *AgencyService) sendInvitationEmail(ctx context.Context, agency *identity.Agency, token *identity.InvitationToken) {
	link := fmt.Sprintf("%s/accept-invitation?token=%s", s.baseURL, token.Token)
	body := fmt.Sprintf(
		"Hi %s,\n\n%s has invited you to join PropertySpotter as an agent. Open the link below to create your account:\n\n%s\n\nThe invitation expires in 7 days.\n",
		token.FirstName, agency.Name, link)

	if err := s.email.Send(ctx, token.Email, "You have been invited to PropertySpotter", body); err != nil {
		s.logger.Warn("Failed to send invitation email",
			zap.String("email", token.Email), zap.Error(err))
	}
}
