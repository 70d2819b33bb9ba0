package commission

import "github.com/propertyspotter/backend/internal/domain/shared"

// CommissionCreatedEvent is raised when a commission split is derived from
// an accepted lead.
type CommissionCreatedEvent struct {
	shared.BaseDomainEvent
	LeadID        string `json:"lead_id"`
	SpotterAmount string `json:"spotter_amount"`
}

func NewCommissionCreatedEvent(c *Commission) *CommissionCreatedEvent {
	return &CommissionCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("commission.created", "Commission", c.ID),
		LeadID:          c.LeadID.String(),
		SpotterAmount:   c.SpotterAmount.String(),
	}
}

// CommissionApprovedEvent is raised when an admin approves a payout.
type CommissionApprovedEvent struct {
	shared.BaseDomainEvent
	SpotterID string `json:"spotter_id"`
}

func NewCommissionApprovedEvent(c *Commission) *CommissionApprovedEvent {
	return &CommissionApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("commission.approved", "Commission", c.ID),
		SpotterID:       c.SpotterID.String(),
	}
}

// CommissionPaidEvent is raised when a payout is recorded.
type CommissionPaidEvent struct {
	shared.BaseDomainEvent
	SpotterID        string `json:"spotter_id"`
	SpotterAmount    string `json:"spotter_amount"`
	PaymentReference string `json:"payment_reference"`
}

func NewCommissionPaidEvent(c *Commission) *CommissionPaidEvent {
	return &CommissionPaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("commission.paid", "Commission", c.ID),
		SpotterID:        c.SpotterID.String(),
		SpotterAmount:    c.SpotterAmount.String(),
		PaymentReference: c.PaymentReference,
	}
}
