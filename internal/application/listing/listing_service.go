// Package listing provides the application service for the public property
// catalogue. Agents manage their own adverts; anonymous visitors browse
// published ones.
package listing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/listing"
	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Service handles listing use cases
type Service struct {
	listings listing.Repository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// SetEventPublisher sets the publisher that receives lifecycle events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

func (s *Service) publish(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if err := shared.PublishEvents(ctx, s.events, aggregates...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

// NewService creates a new listing service
func NewService(listings listing.Repository, logger *zap.Logger) *Service {
	return &Service{
		listings: listings,
		logger:   logger,
	}
}

// Create creates a draft listing owned by the acting agent
func (s *Service) Create(ctx context.Context, input CreateListingInput) (*listing.Listing, error) {
	if !input.Actor.Role.CanWorkLeads() && !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only agents can create listings")
	}

	l, err := listing.NewListing(input.Actor.ID, input.Title, input.City, input.Province)
	if err != nil {
		return nil, err
	}
	if err := l.Update(input.Title, input.Description, input.Suburb, input.City,
		input.Province, input.Bedrooms, input.Bathrooms); err != nil {
		return nil, err
	}
	if input.Price != nil {
		if err := l.SetPrice(*input.Price); err != nil {
			return nil, err
		}
	}
	if input.ExternalLink != "" {
		if err := l.SetExternalLink(input.ExternalLink); err != nil {
			return nil, err
		}
	}
	if input.PropertyID != nil {
		l.LinkProperty(*input.PropertyID)
	}
	if input.Actor.AgencyID != nil {
		l.AttachToAgency(*input.Actor.AgencyID)
	}

	if err := s.listings.Save(ctx, l); err != nil {
		s.logger.Error("Failed to save listing", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create listing")
	}

	s.logger.Info("Listing created",
		zap.String("listing_id", l.ID.String()),
		zap.String("agent_id", input.Actor.ID.String()))
	return l, nil
}

// Update edits a listing's descriptive fields
func (s *Service) Update(ctx context.Context, input UpdateListingInput) (*listing.Listing, error) {
	l, err := s.ownedListing(ctx, input.ListingID, input.Actor)
	if err != nil {
		return nil, err
	}

	if err := l.Update(input.Title, input.Description, input.Suburb, input.City,
		input.Province, input.Bedrooms, input.Bathrooms); err != nil {
		return nil, err
	}
	if input.Price != nil {
		if err := l.SetPrice(*input.Price); err != nil {
			return nil, err
		}
	}
	if err := l.SetExternalLink(input.ExternalLink); err != nil {
		return nil, err
	}

	if err := s.listings.Save(ctx, l); err != nil {
		s.logger.Error("Failed to save listing", zap.Error(err), zap.String("listing_id", l.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update listing")
	}
	return l, nil
}

// Publish makes a listing publicly visible
func (s *Service) Publish(ctx context.Context, input ChangeListingInput) (*listing.Listing, error) {
	return s.transition(ctx, input, func(l *listing.Listing) error { return l.Publish() })
}

// Archive takes a listing off the public site
func (s *Service) Archive(ctx context.Context, input ChangeListingInput) (*listing.Listing, error) {
	return s.transition(ctx, input, func(l *listing.Listing) error { return l.Archive() })
}

// Delete removes a listing and its images
func (s *Service) Delete(ctx context.Context, input ChangeListingInput) error {
	l, err := s.ownedListing(ctx, input.ListingID, input.Actor)
	if err != nil {
		return err
	}

	if err := s.listings.Delete(ctx, l.ID); err != nil {
		s.logger.Error("Failed to delete listing", zap.Error(err), zap.String("listing_id", l.ID.String()))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete listing")
	}

	s.logger.Info("Listing deleted", zap.String("listing_id", l.ID.String()))
	return nil
}

// AddImage attaches an image to a listing. The first image, or one flagged
// primary, becomes the cover photo.
func (s *Service) AddImage(ctx context.Context, input AddImageInput) (*listing.Image, error) {
	l, err := s.ownedListing(ctx, input.ListingID, input.Actor)
	if err != nil {
		return nil, err
	}

	img, err := listing.NewImage(l.ID, input.URL, input.Caption, input.SortOrder)
	if err != nil {
		return nil, err
	}
	if input.Primary || len(l.Images) == 0 {
		img.IsPrimary = true
	}

	if err := s.listings.SaveImage(ctx, img); err != nil {
		s.logger.Error("Failed to save listing image", zap.Error(err), zap.String("listing_id", l.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save image")
	}

	if img.IsPrimary {
		l.Images = append(l.Images, *img)
		if err := s.demoteOthers(ctx, l, img.ID); err != nil {
			return nil, err
		}
	}
	return img, nil
}

// SetPrimaryImage flags an image as the listing's cover photo
func (s *Service) SetPrimaryImage(ctx context.Context, input ImageInput) error {
	l, err := s.ownedListing(ctx, input.ListingID, input.Actor)
	if err != nil {
		return err
	}
	return s.demoteOthers(ctx, l, input.ImageID)
}

// RemoveImage deletes an image from a listing
func (s *Service) RemoveImage(ctx context.Context, input ImageInput) error {
	l, err := s.ownedListing(ctx, input.ListingID, input.Actor)
	if err != nil {
		return err
	}

	if err := s.listings.DeleteImage(ctx, input.ImageID); err != nil {
		s.logger.Error("Failed to delete listing image", zap.Error(err), zap.String("listing_id", l.ID.String()))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete image")
	}
	return nil
}

// Get returns a listing for its owner or an administrator
func (s *Service) Get(ctx context.Context, input ChangeListingInput) (*listing.Listing, error) {
	return s.ownedListing(ctx, input.ListingID, input.Actor)
}

// ListByAgent returns the listings owned by an agent
func (s *Service) ListByAgent(ctx context.Context, input ListListingsInput) (*shared.Paginated[listing.Listing], error) {
	agentID := input.Actor.ID
	if input.AgentID != nil {
		agentID = *input.AgentID
	}
	if agentID != input.Actor.ID && !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only list your own listings")
	}

	filter := shared.DefaultFilter()
	applyPaging(&filter, input.Page, input.PageSize, input.OrderBy, input.OrderDir)
	filter.Search = input.Search
	if input.Status != "" {
		filter.Filters["status"] = input.Status
	}
	return s.listings.FindByAgent(ctx, agentID, filter)
}

// ListAll returns every listing on the platform. Admin only.
func (s *Service) ListAll(ctx context.Context, input ListListingsInput) (*shared.Paginated[listing.Listing], error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can list all listings")
	}

	filter := shared.DefaultFilter()
	applyPaging(&filter, input.Page, input.PageSize, input.OrderBy, input.OrderDir)
	filter.Search = input.Search
	if input.Status != "" {
		filter.Filters["status"] = input.Status
	}
	return s.listings.FindAll(ctx, filter)
}

// PublicList returns published listings for anonymous visitors
func (s *Service) PublicList(ctx context.Context, input PublicListInput) (*shared.Paginated[listing.Listing], error) {
	filter := shared.DefaultFilter()
	applyPaging(&filter, input.Page, input.PageSize, input.OrderBy, input.OrderDir)
	filter.Search = input.Search
	if input.City != "" {
		filter.Filters["city"] = input.City
	}
	if input.Province != "" {
		filter.Filters["province"] = input.Province
	}
	return s.listings.FindPublished(ctx, filter)
}

// PublicGet returns a published listing and records the view. Unpublished
// listings are reported as missing to keep drafts private.
func (s *Service) PublicGet(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, err := s.findListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if !l.IsPublic() {
		return nil, shared.NewDomainError("NOT_FOUND", "Listing not found")
	}

	// View counts are advisory. A failed increment never hides the listing.
	if err := s.listings.IncrementViewCount(ctx, l.ID); err != nil {
		s.logger.Warn("Failed to record listing view", zap.Error(err), zap.String("listing_id", l.ID.String()))
	} else {
		l.RecordView()
	}
	return l, nil
}

func (s *Service) transition(ctx context.Context, input ChangeListingInput, change func(*listing.Listing) error) (*listing.Listing, error) {
	l, err := s.ownedListing(ctx, input.ListingID, input.Actor)
	if err != nil {
		return nil, err
	}

	if err := change(l); err != nil {
		return nil, err
	}

	if err := s.listings.Save(ctx, l); err != nil {
		s.logger.Error("Failed to save listing", zap.Error(err), zap.String("listing_id", l.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update listing")
	}

	s.publish(ctx, l)
	s.logger.Info("Listing status changed",
		zap.String("listing_id", l.ID.String()),
		zap.String("status", string(l.Status)))
	return l, nil
}

// demoteOthers promotes imageID on the aggregate and persists every image
// whose primary flag changed.
func (s *Service) demoteOthers(ctx context.Context, l *listing.Listing, imageID uuid.UUID) error {
	demoted, err := l.PromoteToPrimary(imageID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("NOT_FOUND", "Image not found")
		}
		return err
	}

	changed := append(demoted, imageID)
	for _, id := range changed {
		for i := range l.Images {
			if l.Images[i].ID != id {
				continue
			}
			if err := s.listings.SaveImage(ctx, &l.Images[i]); err != nil {
				s.logger.Error("Failed to save listing image", zap.Error(err), zap.String("image_id", id.String()))
				return shared.NewDomainError("INTERNAL_ERROR", "Failed to update images")
			}
		}
	}
	return nil
}

func (s *Service) findListing(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, err := s.listings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Listing not found")
		}
		s.logger.Error("Failed to find listing", zap.Error(err), zap.String("listing_id", id.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find listing")
	}
	return l, nil
}

func (s *Service) ownedListing(ctx context.Context, id uuid.UUID, actor identity.Actor) (*listing.Listing, error) {
	l, err := s.findListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || l.AgentID == actor.ID {
		return l, nil
	}
	if l.AgencyID != nil && actor.ManagesAgency(*l.AgencyID) {
		return l, nil
	}
	return nil, shared.NewDomainError("FORBIDDEN", "You do not manage this listing")
}

func applyPaging(filter *shared.Filter, page, pageSize int, orderBy, orderDir string) {
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
}
