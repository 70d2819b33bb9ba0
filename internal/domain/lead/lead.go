package lead

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Status represents the lifecycle state of a lead
type Status string

const (
	StatusNew        Status = "new"
	StatusAssigned   Status = "assigned"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// AllStatuses lists every valid lead status
func AllStatuses() []Status {
	return []Status{StatusNew, StatusAssigned, StatusAccepted, StatusRejected, StatusInProgress, StatusClosed}
}

// IsValid reports whether the status is one of the known statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusAssigned, StatusAccepted, StatusRejected, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// IsTerminal reports whether the lead can no longer move
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusClosed
}

// Lead is a prospective property referral submitted by a spotter. It moves
// new -> assigned -> accepted/rejected -> in_progress -> closed, with each
// transition gated by the caller's role at the application layer.
type Lead struct {
	shared.BaseAggregateRoot
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	NotesText        string
	Status           Status
	SpotterID        uuid.UUID
	AgencyID         *uuid.UUID
	AgentID          *uuid.UUID
	RequestedAgentID *uuid.UUID
	PropertyID       *uuid.UUID
	// AgreedCommission is the total commission negotiated when the lead is
	// accepted. SpotterPercentage is the share of that commission owed to
	// the spotter, in percent.
	AgreedCommission  *decimal.Decimal
	SpotterPercentage *decimal.Decimal
	AssignedAt        *time.Time
	ClosedAt          *time.Time
}

// NewLead creates a new lead in status "new" owned by the submitting spotter
func NewLead(spotterID uuid.UUID, firstName, lastName, email, phone, notes string) (*Lead, error) {
	if spotterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SPOTTER_ID", "Spotter ID cannot be empty")
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Lead first and last name are required")
	}
	if len(firstName) > 100 || len(lastName) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Lead name cannot exceed 100 characters")
	}
	if err := validateContact(email, phone); err != nil {
		return nil, err
	}

	lead := &Lead{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Phone:             strings.TrimSpace(phone),
		NotesText:         notes,
		Status:            StatusNew,
		SpotterID:         spotterID,
	}

	lead.AddDomainEvent(NewLeadSubmittedEvent(lead))

	return lead, nil
}

// RequestAgent records the spotter's preferred agent, if any
func (l *Lead) RequestAgent(agentID uuid.UUID) error {
	if agentID == uuid.Nil {
		return shared.NewDomainError("INVALID_AGENT_ID", "Agent ID cannot be empty")
	}
	l.RequestedAgentID = &agentID
	l.Touch()
	return nil
}

// RouteToAgency routes a new lead to an agency; it stays "new" until an
// agent inside the agency is assigned.
func (l *Lead) RouteToAgency(agencyID uuid.UUID) error {
	if agencyID == uuid.Nil {
		return shared.NewDomainError("INVALID_AGENCY_ID", "Agency ID cannot be empty")
	}
	if l.Status != StatusNew {
		return shared.NewDomainError("INVALID_STATE", "Only new leads can be routed to an agency")
	}
	l.AgencyID = &agencyID
	l.Touch()
	l.AddDomainEvent(NewLeadRoutedEvent(l, agencyID))
	return nil
}

// Assign assigns the lead to an agent within its routed agency
func (l *Lead) Assign(agentID uuid.UUID) error {
	if agentID == uuid.Nil {
		return shared.NewDomainError("INVALID_AGENT_ID", "Agent ID cannot be empty")
	}
	if l.AgencyID == nil {
		return shared.NewDomainError("INVALID_STATE", "Lead must be routed to an agency before assignment")
	}
	if l.Status != StatusNew && l.Status != StatusAssigned {
		return shared.NewDomainError("INVALID_STATE", "Lead cannot be assigned in its current state")
	}

	now := time.Now()
	l.AgentID = &agentID
	l.Status = StatusAssigned
	l.AssignedAt = &now
	l.Touch()

	l.AddDomainEvent(NewLeadAssignedEvent(l, agentID))

	return nil
}

// Accept accepts an assigned lead, fixing the agreed commission and linking
// the property record created for it. A lead can be accepted exactly once.
func (l *Lead) Accept(propertyID uuid.UUID, agreedCommission, spotterPercentage decimal.Decimal) error {
	if l.Status != StatusAssigned {
		return shared.NewDomainError("INVALID_STATE", "Only assigned leads can be accepted")
	}
	if propertyID == uuid.Nil {
		return shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID cannot be empty")
	}
	if agreedCommission.IsNegative() {
		return shared.NewDomainError("INVALID_COMMISSION", "Agreed commission cannot be negative")
	}
	if spotterPercentage.IsNegative() || spotterPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_COMMISSION", "Spotter percentage must be between 0 and 100")
	}

	l.Status = StatusAccepted
	l.PropertyID = &propertyID
	l.AgreedCommission = &agreedCommission
	l.SpotterPercentage = &spotterPercentage
	l.Touch()

	l.AddDomainEvent(NewLeadAcceptedEvent(l))

	return nil
}

// Reject rejects an assigned lead; rejected leads are terminal
func (l *Lead) Reject(reason string) error {
	if l.Status != StatusAssigned {
		return shared.NewDomainError("INVALID_STATE", "Only assigned leads can be rejected")
	}
	l.Status = StatusRejected
	if reason != "" {
		l.NotesText = appendNote(l.NotesText, reason)
	}
	l.Touch()

	l.AddDomainEvent(NewLeadRejectedEvent(l, reason))

	return nil
}

// StartWork moves an accepted lead into active work
func (l *Lead) StartWork() error {
	if l.Status != StatusAccepted {
		return shared.NewDomainError("INVALID_STATE", "Only accepted leads can be started")
	}
	l.Status = StatusInProgress
	l.Touch()
	l.AddDomainEvent(NewLeadStatusChangedEvent(l, StatusAccepted, StatusInProgress))
	return nil
}

// Close completes the lead; the linked property is sold and a commission
// record is cut by the application layer.
func (l *Lead) Close() error {
	if l.Status != StatusAccepted && l.Status != StatusInProgress {
		return shared.NewDomainError("INVALID_STATE", "Only accepted or in-progress leads can be closed")
	}
	prev := l.Status
	now := time.Now()
	l.Status = StatusClosed
	l.ClosedAt = &now
	l.Touch()

	l.AddDomainEvent(NewLeadStatusChangedEvent(l, prev, StatusClosed))

	return nil
}

// SpotterShare computes the spotter's commission amount from the agreed
// commission and spotter percentage. Zero when either is unset.
func (l *Lead) SpotterShare() decimal.Decimal {
	if l.AgreedCommission == nil || l.SpotterPercentage == nil {
		return decimal.Zero
	}
	return l.AgreedCommission.Mul(*l.SpotterPercentage).Div(decimal.NewFromInt(100))
}

// ContactName returns the lead's full contact name
func (l *Lead) ContactName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// IsParticipant reports whether the given user takes part in this lead
func (l *Lead) IsParticipant(userID uuid.UUID) bool {
	if l.SpotterID == userID {
		return true
	}
	if l.AgentID != nil && *l.AgentID == userID {
		return true
	}
	return false
}

func validateContact(email, phone string) error {
	if strings.TrimSpace(email) == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Lead email is required")
	}
	if !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Lead email is not valid")
	}
	if strings.TrimSpace(phone) == "" {
		return shared.NewDomainError("INVALID_PHONE", "Lead phone is required")
	}
	if len(phone) > 15 {
		return shared.NewDomainError("INVALID_PHONE", "Lead phone cannot exceed 15 characters")
	}
	return nil
}

func appendNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}
