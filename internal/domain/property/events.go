package property

import "github.com/propertyspotter/backend/internal/domain/shared"

// PropertyCreatedEvent is raised when a property is first recorded.
type PropertyCreatedEvent struct {
	shared.BaseDomainEvent
	Address string `json:"address"`
	City    string `json:"city"`
}

func NewPropertyCreatedEvent(p *Property) *PropertyCreatedEvent {
	return &PropertyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("property.created", "Property", p.ID),
		Address:         p.Address,
		City:            p.City,
	}
}

// PropertySoldEvent is raised when a property sale is finalised.
type PropertySoldEvent struct {
	shared.BaseDomainEvent
	SalePrice string `json:"sale_price"`
}

func NewPropertySoldEvent(p *Property) *PropertySoldEvent {
	price := ""
	if p.Price != nil {
		price = p.Price.String()
	}
	return &PropertySoldEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("property.sold", "Property", p.ID),
		SalePrice:       price,
	}
}
