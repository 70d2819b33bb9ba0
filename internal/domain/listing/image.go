package listing

import (
	"strings"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Image is a photograph attached to a listing. At most one image per listing
// is flagged primary; promoting a new primary demotes the previous one.
type Image struct {
	shared.BaseEntity
	ListingID uuid.UUID
	URL       string
	Caption   string
	IsPrimary bool
	SortOrder int
}

// NewImage creates an image for the given listing.
func NewImage(listingID uuid.UUID, url, caption string, sortOrder int) (*Image, error) {
	if listingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_IMAGE", "image requires a listing")
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "image URL is required")
	}
	if len(url) > 500 {
		return nil, shared.NewDomainError("INVALID_IMAGE", "image URL cannot exceed 500 characters")
	}

	return &Image{
		BaseEntity: shared.NewBaseEntity(),
		ListingID:  listingID,
		URL:        url,
		Caption:    strings.TrimSpace(caption),
		SortOrder:  sortOrder,
	}, nil
}

// PromoteToPrimary flags this image as the listing's cover photo and returns
// the IDs of previously primary images that must be demoted.
func (l *Listing) PromoteToPrimary(imageID uuid.UUID) ([]uuid.UUID, error) {
	found := false
	var demoted []uuid.UUID
	for i := range l.Images {
		img := &l.Images[i]
		switch {
		case img.ID == imageID:
			found = true
			img.IsPrimary = true
			img.Touch()
		case img.IsPrimary:
			img.IsPrimary = false
			img.Touch()
			demoted = append(demoted, img.ID)
		}
	}
	if !found {
		return nil, shared.ErrNotFound
	}
	l.Touch()
	return demoted, nil
}

// PrimaryImage returns the cover photo, or nil when none is flagged.
func (l *Listing) PrimaryImage() *Image {
	for i := range l.Images {
		if l.Images[i].IsPrimary {
			return &l.Images[i]
		}
	}
	return nil
}
