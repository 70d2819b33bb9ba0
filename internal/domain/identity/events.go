package identity

import (
	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeUser   = "User"
	AggregateTypeAgency = "Agency"
)

// Event type constants
const (
	EventTypeUserRegistered = "UserRegistered"
	EventTypeUserActivated  = "UserActivated"
	EventTypeAgencyCreated  = "AgencyCreated"
)

// UserRegisteredEvent is published when a new account is registered
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		UserID:          user.ID,
		Email:           user.Email,
		Role:            user.Role,
	}
}

// UserActivatedEvent is published when a user verifies their email
type UserActivatedEvent struct {
	shared.BaseDomainEvent
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// NewUserActivatedEvent creates a new UserActivatedEvent
func NewUserActivatedEvent(user *User) *UserActivatedEvent {
	return &UserActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserActivated, AggregateTypeUser, user.ID),
		UserID:          user.ID,
		Email:           user.Email,
	}
}

// AgencyCreatedEvent is published when an agency is registered
type AgencyCreatedEvent struct {
	shared.BaseDomainEvent
	AgencyID uuid.UUID `json:"agency_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
}

// NewAgencyCreatedEvent creates a new AgencyCreatedEvent
func NewAgencyCreatedEvent(agency *Agency) *AgencyCreatedEvent {
	return &AgencyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgencyCreated, AggregateTypeAgency, agency.ID),
		AgencyID:        agency.ID,
		Name:            agency.Name,
		Email:           agency.Email,
	}
}
