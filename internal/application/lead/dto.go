package lead

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/property"
)

// SubmitLeadInput contains the input for lead submission
type SubmitLeadInput struct {
	Actor            identity.Actor
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Notes            string
	RequestedAgentID *uuid.UUID
	ImageURLs        []string
}

// RouteLeadInput contains the input for routing a lead to an agency
type RouteLeadInput struct {
	Actor    identity.Actor
	LeadID   uuid.UUID
	AgencyID uuid.UUID
}

// AssignLeadInput contains the input for assigning a lead to an agent
type AssignLeadInput struct {
	Actor   identity.Actor
	LeadID  uuid.UUID
	AgentID uuid.UUID
}

// AcceptLeadInput contains the input for accepting an assigned lead. The
// property fields seed the property record created by acceptance.
type AcceptLeadInput struct {
	Actor             identity.Actor
	LeadID            uuid.UUID
	AgreedCommission  decimal.Decimal
	SpotterPercentage *decimal.Decimal // Defaults to the configured platform split
	PropertyAddress   string
	PropertyCity      string
	PropertyType      property.Type
}

// RejectLeadInput contains the input for rejecting an assigned lead
type RejectLeadInput struct {
	Actor  identity.Actor
	LeadID uuid.UUID
	Reason string
}

// StartWorkInput contains the input for moving an accepted lead into work
type StartWorkInput struct {
	Actor  identity.Actor
	LeadID uuid.UUID
}

// CompleteLeadInput contains the input for closing a lead. The sale price is
// recorded on the linked property.
type CompleteLeadInput struct {
	Actor     identity.Actor
	LeadID    uuid.UUID
	SalePrice decimal.Decimal
}

// AddNoteInput contains the input for attaching a note to a lead
type AddNoteInput struct {
	Actor   identity.Actor
	LeadID  uuid.UUID
	Content string
}

// AddImageInput contains the input for attaching an image to a lead
type AddImageInput struct {
	Actor       identity.Actor
	LeadID      uuid.UUID
	URL         string
	Description string
}

// GetLeadInput contains the input for fetching a single lead
type GetLeadInput struct {
	Actor  identity.Actor
	LeadID uuid.UUID
}

// ListLeadsInput contains the input for lead listings
type ListLeadsInput struct {
	Actor     identity.Actor
	SpotterID *uuid.UUID // ListBySpotter target; defaults to the actor
	AgencyID  *uuid.UUID // ListByAgency target; defaults to the actor's agency
	Status    string
	Assigned  *bool
	Search    string
	Page      int
	PageSize  int
	OrderBy   string
	OrderDir  string
}
