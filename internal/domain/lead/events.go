package lead

import (
	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// AggregateTypeLead is the aggregate type for lead events
const AggregateTypeLead = "Lead"

// Event type constants
const (
	EventTypeLeadSubmitted     = "LeadSubmitted"
	EventTypeLeadRouted        = "LeadRouted"
	EventTypeLeadAssigned      = "LeadAssigned"
	EventTypeLeadAccepted      = "LeadAccepted"
	EventTypeLeadRejected      = "LeadRejected"
	EventTypeLeadStatusChanged = "LeadStatusChanged"
)

// LeadSubmittedEvent is published when a spotter submits a new lead
type LeadSubmittedEvent struct {
	shared.BaseDomainEvent
	LeadID    uuid.UUID `json:"lead_id"`
	SpotterID uuid.UUID `json:"spotter_id"`
}

// NewLeadSubmittedEvent creates a new LeadSubmittedEvent
func NewLeadSubmittedEvent(l *Lead) *LeadSubmittedEvent {
	return &LeadSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadSubmitted, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		SpotterID:       l.SpotterID,
	}
}

// LeadRoutedEvent is published when a lead is routed to an agency
type LeadRoutedEvent struct {
	shared.BaseDomainEvent
	LeadID   uuid.UUID `json:"lead_id"`
	AgencyID uuid.UUID `json:"agency_id"`
}

// NewLeadRoutedEvent creates a new LeadRoutedEvent
func NewLeadRoutedEvent(l *Lead, agencyID uuid.UUID) *LeadRoutedEvent {
	return &LeadRoutedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadRouted, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		AgencyID:        agencyID,
	}
}

// LeadAssignedEvent is published when a lead is assigned to an agent
type LeadAssignedEvent struct {
	shared.BaseDomainEvent
	LeadID    uuid.UUID `json:"lead_id"`
	SpotterID uuid.UUID `json:"spotter_id"`
	AgentID   uuid.UUID `json:"agent_id"`
}

// NewLeadAssignedEvent creates a new LeadAssignedEvent
func NewLeadAssignedEvent(l *Lead, agentID uuid.UUID) *LeadAssignedEvent {
	return &LeadAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadAssigned, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		SpotterID:       l.SpotterID,
		AgentID:         agentID,
	}
}

// LeadAcceptedEvent is published when an agent accepts a lead
type LeadAcceptedEvent struct {
	shared.BaseDomainEvent
	LeadID     uuid.UUID  `json:"lead_id"`
	SpotterID  uuid.UUID  `json:"spotter_id"`
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
}

// NewLeadAcceptedEvent creates a new LeadAcceptedEvent
func NewLeadAcceptedEvent(l *Lead) *LeadAcceptedEvent {
	return &LeadAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadAccepted, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		SpotterID:       l.SpotterID,
		PropertyID:      l.PropertyID,
	}
}

// LeadRejectedEvent is published when an agent rejects a lead
type LeadRejectedEvent struct {
	shared.BaseDomainEvent
	LeadID    uuid.UUID `json:"lead_id"`
	SpotterID uuid.UUID `json:"spotter_id"`
	Reason    string    `json:"reason,omitempty"`
}

// NewLeadRejectedEvent creates a new LeadRejectedEvent
func NewLeadRejectedEvent(l *Lead, reason string) *LeadRejectedEvent {
	return &LeadRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadRejected, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		SpotterID:       l.SpotterID,
		Reason:          reason,
	}
}

// LeadStatusChangedEvent is published for the remaining status moves
type LeadStatusChangedEvent struct {
	shared.BaseDomainEvent
	LeadID    uuid.UUID `json:"lead_id"`
	SpotterID uuid.UUID `json:"spotter_id"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
}

// NewLeadStatusChangedEvent creates a new LeadStatusChangedEvent
func NewLeadStatusChangedEvent(l *Lead, oldStatus, newStatus Status) *LeadStatusChangedEvent {
	return &LeadStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadStatusChanged, AggregateTypeLead, l.ID),
		LeadID:          l.ID,
		SpotterID:       l.SpotterID,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
