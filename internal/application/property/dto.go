package property

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/identity"
)

// GetPropertyInput contains the input for fetching a single property
type GetPropertyInput struct {
	Actor      identity.Actor
	PropertyID uuid.UUID
}

// UpdateDetailsInput contains the input for editing a property's details
type UpdateDetailsInput struct {
	Actor       identity.Actor
	PropertyID  uuid.UUID
	Suburb      string
	Province    string
	PostalCode  string
	Description string
	Bedrooms    int
	Bathrooms   int
	ErfSize     int
}

// SetPriceInput contains the input for setting the asking price
type SetPriceInput struct {
	Actor      identity.Actor
	PropertyID uuid.UUID
	Price      decimal.Decimal
}

// ChangeStatusInput contains the input for the market status transitions
type ChangeStatusInput struct {
	Actor      identity.Actor
	PropertyID uuid.UUID
}

// ListPropertiesInput contains the input for property listings
type ListPropertiesInput struct {
	Actor    identity.Actor
	AgentID  *uuid.UUID // ListByAgent target; defaults to the actor
	Status   string
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}
