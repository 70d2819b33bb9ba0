package update

import (
	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/identity"
)

// CreateUpdateInput contains the input for sending a lead update
type CreateUpdateInput struct {
	Actor  identity.Actor
	LeadID uuid.UUID
	Body   string
}

// StatusCallbackInput contains the input from a provider status webhook
type StatusCallbackInput struct {
	ProviderSID  string
	Status       string
	ErrorMessage string
}

// ListByLeadInput contains the input for a lead's update history
type ListByLeadInput struct {
	Actor  identity.Actor
	LeadID uuid.UUID
}

// ListByRecipientInput contains the input for a spotter's update feed
type ListByRecipientInput struct {
	Actor       identity.Actor
	RecipientID *uuid.UUID // Defaults to the actor
	Page        int
	PageSize    int
}

// RetryPendingInput contains the input for re-dispatching stuck updates
type RetryPendingInput struct {
	Actor identity.Actor
	Limit int
}
