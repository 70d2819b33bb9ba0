package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/property"
)

// PropertyModel is the persistence model for the Property aggregate.
type PropertyModel struct {
	AggregateModel
	Address      string           `gorm:"type:varchar(255);not null"`
	Suburb       string           `gorm:"type:varchar(100);index"`
	City         string           `gorm:"type:varchar(100);not null;index"`
	Province     string           `gorm:"type:varchar(50);index"`
	PostalCode   string           `gorm:"type:varchar(10)"`
	PropertyType property.Type    `gorm:"type:varchar(20);not null;index"`
	Status       property.Status  `gorm:"type:varchar(20);not null;index"`
	Price        *decimal.Decimal `gorm:"type:decimal(20,2)"`
	Bedrooms     int              `gorm:"not null;default:0"`
	Bathrooms    int              `gorm:"not null;default:0"`
	ErfSize      int              `gorm:"not null;default:0"`
	Description  string           `gorm:"type:text"`
	AgentID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	LeadID       *uuid.UUID       `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property aggregate.
func (m *PropertyModel) ToDomain() *property.Property {
	return &property.Property{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Address:           m.Address,
		Suburb:            m.Suburb,
		City:              m.City,
		Province:          m.Province,
		PostalCode:        m.PostalCode,
		PropertyType:      m.PropertyType,
		Status:            m.Status,
		Price:             m.Price,
		Bedrooms:          m.Bedrooms,
		Bathrooms:         m.Bathrooms,
		ErfSize:           m.ErfSize,
		Description:       m.Description,
		AgentID:           m.AgentID,
		LeadID:            m.LeadID,
	}
}

// FromDomain populates the persistence model from a domain Property aggregate.
func (m *PropertyModel) FromDomain(p *property.Property) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Address = p.Address
	m.Suburb = p.Suburb
	m.City = p.City
	m.Province = p.Province
	m.PostalCode = p.PostalCode
	m.PropertyType = p.PropertyType
	m.Status = p.Status
	m.Price = p.Price
	m.Bedrooms = p.Bedrooms
	m.Bathrooms = p.Bathrooms
	m.ErfSize = p.ErfSize
	m.Description = p.Description
	m.AgentID = p.AgentID
	m.LeadID = p.LeadID
}

// PropertyModelFromDomain creates a new persistence model from a domain Property.
func PropertyModelFromDomain(p *property.Property) *PropertyModel {
	m := &PropertyModel{}
	m.FromDomain(p)
	return m
}
