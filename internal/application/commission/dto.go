package commission

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/identity"
)

// GetCommissionInput contains the input for fetching a single commission
type GetCommissionInput struct {
	Actor        identity.Actor
	CommissionID uuid.UUID
}

// ApproveCommissionInput contains the input for approving a commission
type ApproveCommissionInput struct {
	Actor        identity.Actor
	CommissionID uuid.UUID
}

// MarkPaidInput contains the input for recording a commission payout
type MarkPaidInput struct {
	Actor            identity.Actor
	CommissionID     uuid.UUID
	PaymentReference string
}

// CancelCommissionInput contains the input for cancelling a commission
type CancelCommissionInput struct {
	Actor        identity.Actor
	CommissionID uuid.UUID
	Reason       string
}

// ListCommissionsInput contains the input for commission listings
type ListCommissionsInput struct {
	Actor     identity.Actor
	SpotterID *uuid.UUID // ListBySpotter target; defaults to the actor
	AgencyID  *uuid.UUID // ListByAgency target; defaults to the actor's agency
	AgentID   *uuid.UUID // ListByAgent target; defaults to the actor
	Status    string
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
}

// EarningsInput contains the input for a spotter's earnings summary
type EarningsInput struct {
	Actor     identity.Actor
	SpotterID *uuid.UUID // Defaults to the actor
}

// EarningsResult summarises a spotter's commission earnings by status
type EarningsResult struct {
	SpotterID uuid.UUID       `json:"spotter_id"`
	Pending   decimal.Decimal `json:"pending"`
	Approved  decimal.Decimal `json:"approved"`
	Paid      decimal.Decimal `json:"paid"`
}
