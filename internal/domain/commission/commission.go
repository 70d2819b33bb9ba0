// Package commission contains the commission aggregate. A commission record
// is derived from an accepted lead and splits the agreed total between the
// spotter and the platform.
package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Status tracks a commission through approval and payout.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether the status is one of the known states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// Commission is the aggregate root for a single lead's commission split.
type Commission struct {
	shared.BaseAggregateRoot
	LeadID            uuid.UUID
	SpotterID         uuid.UUID
	AgencyID          *uuid.UUID
	AgentID           *uuid.UUID
	TotalAmount       decimal.Decimal
	SpotterPercentage decimal.Decimal
	SpotterAmount     decimal.Decimal
	PlatformAmount    decimal.Decimal
	Status            Status
	ApprovedAt        *time.Time
	ApprovedBy        *uuid.UUID
	PaidAt            *time.Time
	PaymentReference  string
	CancelReason      string
}

// NewCommission derives a pending commission from the agreed lead terms.
// The spotter amount is total × percentage / 100; the platform keeps the rest.
func NewCommission(leadID, spotterID uuid.UUID, total, spotterPercentage decimal.Decimal) (*Commission, error) {
	if leadID == uuid.Nil || spotterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "commission requires a lead and a spotter")
	}
	if total.IsNegative() || total.IsZero() {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "commission total must be positive")
	}
	if spotterPercentage.IsNegative() || spotterPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "spotter percentage must be between 0 and 100")
	}

	spotterAmount := total.Mul(spotterPercentage).Div(decimal.NewFromInt(100))
	c := &Commission{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		LeadID:            leadID,
		SpotterID:         spotterID,
		TotalAmount:       total,
		SpotterPercentage: spotterPercentage,
		SpotterAmount:     spotterAmount,
		PlatformAmount:    total.Sub(spotterAmount),
		Status:            StatusPending,
	}
	c.AddDomainEvent(NewCommissionCreatedEvent(c))
	return c, nil
}

// AttachToAgency records the agency whose agent closed the lead.
func (c *Commission) AttachToAgency(agencyID uuid.UUID) {
	c.AgencyID = &agencyID
	c.Touch()
}

// AttachToAgent records the agent who closed the lead.
func (c *Commission) AttachToAgent(agentID uuid.UUID) {
	c.AgentID = &agentID
	c.Touch()
}

// Approve marks a pending commission ready for payout.
func (c *Commission) Approve(approverID uuid.UUID) error {
	if c.Status != StatusPending {
		return shared.NewDomainError("INVALID_COMMISSION_STATUS", "only pending commissions can be approved")
	}
	now := time.Now()
	c.Status = StatusApproved
	c.ApprovedAt = &now
	c.ApprovedBy = &approverID
	c.Touch()
	c.AddDomainEvent(NewCommissionApprovedEvent(c))
	return nil
}

// MarkPaid records the payout of an approved commission.
func (c *Commission) MarkPaid(paymentReference string) error {
	if c.Status != StatusApproved {
		return shared.NewDomainError("INVALID_COMMISSION_STATUS", "only approved commissions can be paid")
	}
	now := time.Now()
	c.Status = StatusPaid
	c.PaidAt = &now
	c.PaymentReference = paymentReference
	c.Touch()
	c.AddDomainEvent(NewCommissionPaidEvent(c))
	return nil
}

// Cancel withdraws a commission that has not been paid out.
func (c *Commission) Cancel(reason string) error {
	if c.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_COMMISSION_STATUS", "commission is already settled")
	}
	c.Status = StatusCancelled
	c.CancelReason = reason
	c.Touch()
	return nil
}
