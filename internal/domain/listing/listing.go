// Package listing contains the public property listing aggregate. Listings
// are the marketing surface of the platform: agents publish them, visitors
// browse them, and view counts feed back into agency reporting.
package listing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Province enumerates the South African provinces a listing can be placed in.
type Province string

const (
	ProvinceEasternCape  Province = "Eastern Cape"
	ProvinceFreeState    Province = "Free State"
	ProvinceGauteng      Province = "Gauteng"
	ProvinceKwaZuluNatal Province = "KwaZulu-Natal"
	ProvinceLimpopo      Province = "Limpopo"
	ProvinceMpumalanga   Province = "Mpumalanga"
	ProvinceNorthernCape Province = "Northern Cape"
	ProvinceNorthWest    Province = "North West"
	ProvinceWesternCape  Province = "Western Cape"
)

// Provinces lists every valid province, in display order.
func Provinces() []Province {
	return []Province{
		ProvinceEasternCape, ProvinceFreeState, ProvinceGauteng,
		ProvinceKwaZuluNatal, ProvinceLimpopo, ProvinceMpumalanga,
		ProvinceNorthernCape, ProvinceNorthWest, ProvinceWesternCape,
	}
}

// IsValid reports whether the province is a known South African province.
func (p Province) IsValid() bool {
	for _, known := range Provinces() {
		if p == known {
			return true
		}
	}
	return false
}

// Status tracks the publication state of a listing.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// IsValid reports whether the status is a known publication state.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Listing is the aggregate root for a publicly browsable property advert.
type Listing struct {
	shared.BaseAggregateRoot
	Title        string
	Description  string
	Suburb       string
	City         string
	Province     Province
	Price        *decimal.Decimal
	Bedrooms     int
	Bathrooms    int
	Status       Status
	ViewCount    int64
	AgentID      uuid.UUID
	AgencyID     *uuid.UUID
	PropertyID   *uuid.UUID
	ExternalLink string
	Images       []Image
}

// NewListing creates a draft listing owned by the given agent.
func NewListing(agentID uuid.UUID, title, city string, province Province) (*Listing, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LISTING", "listing requires an owning agent")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_LISTING", "listing title is required")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_LISTING", "listing title cannot exceed 200 characters")
	}
	if !province.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROVINCE", "unknown province: "+string(province))
	}

	l := &Listing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		City:              strings.TrimSpace(city),
		Province:          province,
		Status:            StatusDraft,
		AgentID:           agentID,
	}
	return l, nil
}

// Update replaces the descriptive fields of the listing.
func (l *Listing) Update(title, description, suburb, city string, province Province, bedrooms, bathrooms int) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_LISTING", "listing title is required")
	}
	if !province.IsValid() {
		return shared.NewDomainError("INVALID_PROVINCE", "unknown province: "+string(province))
	}
	if bedrooms < 0 || bathrooms < 0 {
		return shared.NewDomainError("INVALID_LISTING", "room counts cannot be negative")
	}
	l.Title = title
	l.Description = strings.TrimSpace(description)
	l.Suburb = strings.TrimSpace(suburb)
	l.City = strings.TrimSpace(city)
	l.Province = province
	l.Bedrooms = bedrooms
	l.Bathrooms = bathrooms
	l.Touch()
	return nil
}

// SetPrice sets the advertised price.
func (l *Listing) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "price cannot be negative")
	}
	l.Price = &price
	l.Touch()
	return nil
}

// SetExternalLink records an outbound link to the agency's own listing page.
func (l *Listing) SetExternalLink(link string) error {
	link = strings.TrimSpace(link)
	if len(link) > 500 {
		return shared.NewDomainError("INVALID_LISTING", "external link cannot exceed 500 characters")
	}
	l.ExternalLink = link
	l.Touch()
	return nil
}

// LinkProperty associates the advert with a spotted property.
func (l *Listing) LinkProperty(propertyID uuid.UUID) {
	l.PropertyID = &propertyID
	l.Touch()
}

// AttachToAgency records the agency the publishing agent belongs to.
func (l *Listing) AttachToAgency(agencyID uuid.UUID) {
	l.AgencyID = &agencyID
	l.Touch()
}

// Publish makes a draft or archived listing publicly visible.
func (l *Listing) Publish() error {
	if l.Status == StatusPublished {
		return shared.NewDomainError("INVALID_LISTING_STATUS", "listing is already published")
	}
	l.Status = StatusPublished
	l.Touch()
	l.AddDomainEvent(NewListingPublishedEvent(l))
	return nil
}

// Archive takes a listing off the public site without deleting it.
func (l *Listing) Archive() error {
	if l.Status == StatusArchived {
		return shared.NewDomainError("INVALID_LISTING_STATUS", "listing is already archived")
	}
	l.Status = StatusArchived
	l.Touch()
	return nil
}

// RecordView increments the view counter. Counts are advisory and written
// back on read, so no event is raised.
func (l *Listing) RecordView() {
	l.ViewCount++
}

// IsPublic reports whether the listing should appear in public queries.
func (l *Listing) IsPublic() bool {
	return l.Status == StatusPublished
}
