package listing

import (
	"context"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Repository is the persistence contract for listings and their images.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (*shared.Paginated[Listing], error)
	FindPublished(ctx context.Context, filter shared.Filter) (*shared.Paginated[Listing], error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Listing], error)
	Save(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)

	SaveImage(ctx context.Context, image *Image) error
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}
