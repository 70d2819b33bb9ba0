// Package property contains the property aggregate and its repository
// contract. A property is created when an agent accepts a lead and carries
// the address, pricing and sale status of the underlying real estate.
package property

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Type classifies the kind of real estate a property represents.
type Type string

const (
	TypeResidential Type = "residential"
	TypeCommercial  Type = "commercial"
	TypeLand        Type = "land"
	TypeIndustrial  Type = "industrial"
)

// IsValid reports whether the type is one of the known kinds.
func (t Type) IsValid() bool {
	switch t {
	case TypeResidential, TypeCommercial, TypeLand, TypeIndustrial:
		return true
	}
	return false
}

// Status tracks where the property sits in its sale lifecycle.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusSold      Status = "sold"
	StatusOffMarket Status = "off_market"
)

// IsValid reports whether the status is one of the known states.
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusPending, StatusSold, StatusOffMarket:
		return true
	}
	return false
}

// Property is the aggregate root for a piece of real estate spotted through
// a lead and worked by an agent.
type Property struct {
	shared.BaseAggregateRoot
	Address      string
	Suburb       string
	City         string
	Province     string
	PostalCode   string
	PropertyType Type
	Status       Status
	Price        *decimal.Decimal
	Bedrooms     int
	Bathrooms    int
	ErfSize      int
	Description  string
	AgentID      uuid.UUID
	LeadID       *uuid.UUID
}

// NewProperty creates an available property owned by the given agent.
func NewProperty(agentID uuid.UUID, address, city string, propertyType Type) (*Property, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "property requires an owning agent")
	}
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "property address is required")
	}
	if !propertyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "unknown property type: "+string(propertyType))
	}

	p := &Property{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Address:           address,
		City:              strings.TrimSpace(city),
		PropertyType:      propertyType,
		Status:            StatusAvailable,
		AgentID:           agentID,
	}
	p.AddDomainEvent(NewPropertyCreatedEvent(p))
	return p, nil
}

// LinkLead records the lead this property originated from.
func (p *Property) LinkLead(leadID uuid.UUID) {
	p.LeadID = &leadID
	p.Touch()
}

// SetPrice sets the asking price. A nil price means not yet listed.
func (p *Property) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "price cannot be negative")
	}
	p.Price = &price
	p.Touch()
	return nil
}

// UpdateDetails replaces the descriptive fields of the property.
func (p *Property) UpdateDetails(suburb, province, postalCode, description string, bedrooms, bathrooms, erfSize int) error {
	if bedrooms < 0 || bathrooms < 0 || erfSize < 0 {
		return shared.NewDomainError("INVALID_PROPERTY", "room counts and erf size cannot be negative")
	}
	p.Suburb = strings.TrimSpace(suburb)
	p.Province = strings.TrimSpace(province)
	p.PostalCode = strings.TrimSpace(postalCode)
	p.Description = strings.TrimSpace(description)
	p.Bedrooms = bedrooms
	p.Bathrooms = bathrooms
	p.ErfSize = erfSize
	p.Touch()
	return nil
}

// MarkPending moves an available property into a pending sale.
func (p *Property) MarkPending() error {
	if p.Status != StatusAvailable {
		return shared.NewDomainError("INVALID_PROPERTY_STATUS", "only available properties can go pending")
	}
	p.Status = StatusPending
	p.Touch()
	return nil
}

// MarkSold finalises the sale. Only available or pending properties can sell.
func (p *Property) MarkSold(salePrice decimal.Decimal) error {
	if p.Status != StatusAvailable && p.Status != StatusPending {
		return shared.NewDomainError("INVALID_PROPERTY_STATUS", "property is not for sale")
	}
	if salePrice.IsNegative() || salePrice.IsZero() {
		return shared.NewDomainError("INVALID_PRICE", "sale price must be positive")
	}
	p.Status = StatusSold
	p.Price = &salePrice
	p.Touch()
	p.AddDomainEvent(NewPropertySoldEvent(p))
	return nil
}

// TakeOffMarket withdraws the property from sale.
func (p *Property) TakeOffMarket() error {
	if p.Status == StatusSold {
		return shared.NewDomainError("INVALID_PROPERTY_STATUS", "a sold property cannot be taken off market")
	}
	p.Status = StatusOffMarket
	p.Touch()
	return nil
}

// Relist returns an off-market or pending property to available.
func (p *Property) Relist() error {
	if p.Status == StatusSold {
		return shared.NewDomainError("INVALID_PROPERTY_STATUS", "a sold property cannot be relisted")
	}
	p.Status = StatusAvailable
	p.Touch()
	return nil
}
