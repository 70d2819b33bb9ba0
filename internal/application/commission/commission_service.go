// Package commission provides the application service for commission
// approval and payout. Commissions are created by lead completion; this
// service only moves them through their lifecycle.
package commission

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/commission"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Service handles commission use cases
type Service struct {
	commissions commission.Repository
	events      shared.EventPublisher
	logger      *zap.Logger
}

// SetEventPublisher sets the publisher that receives lifecycle events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

func (s *Service) publish(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if err := shared.PublishEvents(ctx, s.events, aggregates...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

// NewService creates a new commission service
func NewService(commissions commission.Repository, logger *zap.Logger) *Service {
	return &Service{
		commissions: commissions,
		logger:      logger,
	}
}

// Get returns a single commission. Spotters see their own, agents see those
// on leads they closed, agency managers see their agency's, admins see
// everything.
func (s *Service) Get(ctx context.Context, input GetCommissionInput) (*commission.Commission, error) {
	c, err := s.findCommission(ctx, input.CommissionID)
	if err != nil {
		return nil, err
	}
	if !s.canView(c, input.Actor) {
		return nil, shared.NewDomainError("NOT_FOUND", "Commission not found")
	}
	return c, nil
}

// Approve marks a pending commission ready for payout. Admin only.
func (s *Service) Approve(ctx context.Context, input ApproveCommissionInput) (*commission.Commission, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can approve commissions")
	}

	c, err := s.findCommission(ctx, input.CommissionID)
	if err != nil {
		return nil, err
	}
	if err := c.Approve(input.Actor.ID); err != nil {
		return nil, err
	}
	if err := s.commissions.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save commission", zap.Error(err), zap.String("commission_id", c.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update commission")
	}

	s.publish(ctx, c)
	s.logger.Info("Commission approved",
		zap.String("commission_id", c.ID.String()),
		zap.String("approved_by", input.Actor.ID.String()))
	return c, nil
}

// MarkPaid records the payout of an approved commission. Admin only.
func (s *Service) MarkPaid(ctx context.Context, input MarkPaidInput) (*commission.Commission, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can record payouts")
	}
	if input.PaymentReference == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payment reference is required")
	}

	c, err := s.findCommission(ctx, input.CommissionID)
	if err != nil {
		return nil, err
	}
	if err := c.MarkPaid(input.PaymentReference); err != nil {
		return nil, err
	}
	if err := s.commissions.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save commission", zap.Error(err), zap.String("commission_id", c.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update commission")
	}

	s.publish(ctx, c)
	s.logger.Info("Commission paid",
		zap.String("commission_id", c.ID.String()),
		zap.String("payment_reference", input.PaymentReference))
	return c, nil
}

// Cancel withdraws an unsettled commission. Admin only.
func (s *Service) Cancel(ctx context.Context, input CancelCommissionInput) (*commission.Commission, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can cancel commissions")
	}

	c, err := s.findCommission(ctx, input.CommissionID)
	if err != nil {
		return nil, err
	}
	if err := c.Cancel(input.Reason); err != nil {
		return nil, err
	}
	if err := s.commissions.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save commission", zap.Error(err), zap.String("commission_id", c.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update commission")
	}

	s.publish(ctx, c)
	s.logger.Info("Commission cancelled",
		zap.String("commission_id", c.ID.String()),
		zap.String("reason", input.Reason))
	return c, nil
}

// ListBySpotter returns a spotter's commissions
func (s *Service) ListBySpotter(ctx context.Context, input ListCommissionsInput) (*shared.Paginated[commission.Commission], error) {
	spotterID := input.Actor.ID
	if input.SpotterID != nil {
		spotterID = *input.SpotterID
	}
	if spotterID != input.Actor.ID && !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only list your own commissions")
	}
	return s.commissions.FindBySpotter(ctx, spotterID, s.filterFrom(input))
}

// ListByAgency returns the commissions earned through an agency's leads
func (s *Service) ListByAgency(ctx context.Context, input ListCommissionsInput) (*shared.Paginated[commission.Commission], error) {
	if input.AgencyID == nil {
		input.AgencyID = input.Actor.AgencyID
	}
	if input.AgencyID == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "No agency specified")
	}
	if !input.Actor.IsAdmin() && !input.Actor.ManagesAgency(*input.AgencyID) {
		return nil, shared.NewDomainError("FORBIDDEN", "You do not manage this agency")
	}
	return s.commissions.FindByAgency(ctx, *input.AgencyID, s.filterFrom(input))
}

// ListByAgent returns the commissions earned on an agent's closed leads
func (s *Service) ListByAgent(ctx context.Context, input ListCommissionsInput) (*shared.Paginated[commission.Commission], error) {
	agentID := input.Actor.ID
	if input.AgentID != nil {
		agentID = *input.AgentID
	}
	if agentID != input.Actor.ID && !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only list your own commissions")
	}
	return s.commissions.FindByAgent(ctx, agentID, s.filterFrom(input))
}

// ListByStatus returns all commissions in a given status. Admin only.
func (s *Service) ListByStatus(ctx context.Context, input ListCommissionsInput) (*shared.Paginated[commission.Commission], error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can list commissions by status")
	}
	status := commission.Status(input.Status)
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown commission status: "+input.Status)
	}
	return s.commissions.FindByStatus(ctx, status, s.filterFrom(input))
}

// ListAll returns every commission on the platform. Admin only.
func (s *Service) ListAll(ctx context.Context, input ListCommissionsInput) (*shared.Paginated[commission.Commission], error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can list all commissions")
	}
	return s.commissions.FindAll(ctx, s.filterFrom(input))
}

// Earnings summarises a spotter's commission totals by status
func (s *Service) Earnings(ctx context.Context, input EarningsInput) (*EarningsResult, error) {
	spotterID := input.Actor.ID
	if input.SpotterID != nil {
		spotterID = *input.SpotterID
	}
	if spotterID != input.Actor.ID && !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only view your own earnings")
	}

	result := &EarningsResult{SpotterID: spotterID}
	for _, entry := range []struct {
		status commission.Status
		target *decimal.Decimal
	}{
		{commission.StatusPending, &result.Pending},
		{commission.StatusApproved, &result.Approved},
		{commission.StatusPaid, &result.Paid},
	} {
		sum, err := s.commissions.SumSpotterEarnings(ctx, spotterID, entry.status)
		if err != nil {
			s.logger.Error("Failed to sum spotter earnings", zap.Error(err),
				zap.String("spotter_id", spotterID.String()),
				zap.String("status", string(entry.status)))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to calculate earnings")
		}
		*entry.target = sum
	}
	return result, nil
}

func (s *Service) findCommission(ctx context.Context, id uuid.UUID) (*commission.Commission, error) {
	c, err := s.commissions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Commission not found")
		}
		s.logger.Error("Failed to find commission", zap.Error(err), zap.String("commission_id", id.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find commission")
	}
	return c, nil
}

func (s *Service) canView(c *commission.Commission, actor identity.Actor) bool {
	if actor.IsAdmin() || c.SpotterID == actor.ID {
		return true
	}
	if actor.Role == identity.RoleAgent {
		return c.AgentID != nil && *c.AgentID == actor.ID
	}
	return c.AgencyID != nil && actor.ManagesAgency(*c.AgencyID)
}

func (s *Service) filterFrom(input ListCommissionsInput) shared.Filter {
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
	if input.Status != "" {
		filter.Filters["status"] = input.Status
	}
	return filter
}
