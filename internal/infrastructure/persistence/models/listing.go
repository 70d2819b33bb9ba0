package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/listing"
)

// ListingModel is the persistence model for the Listing aggregate.
// Images are persisted separately in ListingImageModel and loaded on demand.
type ListingModel struct {
	AggregateModel
	Title        string           `gorm:"type:varchar(200);not null"`
	Description  string           `gorm:"type:text"`
	Suburb       string           `gorm:"type:varchar(100);index"`
	City         string           `gorm:"type:varchar(100);not null;index"`
	Province     listing.Province `gorm:"type:varchar(50);not null;index"`
	Price        *decimal.Decimal `gorm:"type:decimal(20,2)"`
	Bedrooms     int              `gorm:"not null;default:0"`
	Bathrooms    int              `gorm:"not null;default:0"`
	Status       listing.Status   `gorm:"type:varchar(20);not null;index"`
	ViewCount    int64            `gorm:"not null;default:0"`
	AgentID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	AgencyID     *uuid.UUID       `gorm:"type:uuid;index"`
	PropertyID   *uuid.UUID       `gorm:"type:uuid;index"`
	ExternalLink string           `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ListingModel) TableName() string {
	return "listings"
}

// ToDomain converts the persistence model to a domain Listing aggregate.
func (m *ListingModel) ToDomain() *listing.Listing {
	return &listing.Listing{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Suburb:            m.Suburb,
		City:              m.City,
		Province:          m.Province,
		Price:             m.Price,
		Bedrooms:          m.Bedrooms,
		Bathrooms:         m.Bathrooms,
		Status:            m.Status,
		ViewCount:         m.ViewCount,
		AgentID:           m.AgentID,
		AgencyID:          m.AgencyID,
		PropertyID:        m.PropertyID,
		ExternalLink:      m.ExternalLink,
	}
}

// FromDomain populates the persistence model from a domain Listing aggregate.
func (m *ListingModel) FromDomain(l *listing.Listing) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.Title = l.Title
	m.Description = l.Description
	m.Suburb = l.Suburb
	m.City = l.City
	m.Province = l.Province
	m.Price = l.Price
	m.Bedrooms = l.Bedrooms
	m.Bathrooms = l.Bathrooms
	m.Status = l.Status
	m.ViewCount = l.ViewCount
	m.AgentID = l.AgentID
	m.AgencyID = l.AgencyID
	m.PropertyID = l.PropertyID
	m.ExternalLink = l.ExternalLink
}

// ListingModelFromDomain creates a new persistence model from a domain Listing.
func ListingModelFromDomain(l *listing.Listing) *ListingModel {
	m := &ListingModel{}
	m.FromDomain(l)
	return m
}

// ListingImageModel is the persistence model for listing images.
type ListingImageModel struct {
	BaseModel
	ListingID uuid.UUID `gorm:"type:uuid;not null;index"`
	URL       string    `gorm:"type:varchar(500);not null"`
	Caption   string    `gorm:"type:varchar(255)"`
	IsPrimary bool      `gorm:"not null;default:false"`
	SortOrder int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ListingImageModel) TableName() string {
	return "listing_images"
}

// ToDomain converts the persistence model to a domain listing Image.
func (m *ListingImageModel) ToDomain() *listing.Image {
	return &listing.Image{
		BaseEntity: m.BaseModel.ToDomain(),
		ListingID:  m.ListingID,
		URL:        m.URL,
		Caption:    m.Caption,
		IsPrimary:  m.IsPrimary,
		SortOrder:  m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain listing Image.
func (m *ListingImageModel) FromDomain(i *listing.Image) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.ListingID = i.ListingID
	m.URL = i.URL
	m.Caption = i.Caption
	m.IsPrimary = i.IsPrimary
	m.SortOrder = i.SortOrder
}
