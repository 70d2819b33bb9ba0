package listing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/listing"
)

// CreateListingInput contains the input for creating a draft listing
type CreateListingInput struct {
	Actor        identity.Actor
	Title        string
	Description  string
	Suburb       string
	City         string
	Province     listing.Province
	Bedrooms     int
	Bathrooms    int
	Price        *decimal.Decimal
	ExternalLink string
	PropertyID   *uuid.UUID
}

// UpdateListingInput contains the input for editing a listing
type UpdateListingInput struct {
	Actor        identity.Actor
	ListingID    uuid.UUID
	Title        string
	Description  string
	Suburb       string
	City         string
	Province     listing.Province
	Bedrooms     int
	Bathrooms    int
	Price        *decimal.Decimal
	ExternalLink string
}

// ChangeListingInput contains the input for single-listing operations
type ChangeListingInput struct {
	Actor     identity.Actor
	ListingID uuid.UUID
}

// AddImageInput contains the input for attaching an image to a listing
type AddImageInput struct {
	Actor     identity.Actor
	ListingID uuid.UUID
	URL       string
	Caption   string
	SortOrder int
	Primary   bool
}

// ImageInput contains the input for operations on a single listing image
type ImageInput struct {
	Actor     identity.Actor
	ListingID uuid.UUID
	ImageID   uuid.UUID
}

// ListListingsInput contains the input for authenticated listing queries
type ListListingsInput struct {
	Actor    identity.Actor
	AgentID  *uuid.UUID // ListByAgent target; defaults to the actor
	Status   string
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// PublicListInput contains the input for the public listing catalogue. No
// actor: these queries serve anonymous visitors.
type PublicListInput struct {
	City     string
	Province string
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}
