package listing

import "github.com/propertyspotter/backend/internal/domain/shared"

// ListingPublishedEvent is raised when a listing goes live on the public site.
type ListingPublishedEvent struct {
	shared.BaseDomainEvent
	Title    string `json:"title"`
	City     string `json:"city"`
	Province string `json:"province"`
}

func NewListingPublishedEvent(l *Listing) *ListingPublishedEvent {
	return &ListingPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("listing.published", "Listing", l.ID),
		Title:           l.Title,
		City:            l.City,
		Province:        string(l.Province),
	}
}
