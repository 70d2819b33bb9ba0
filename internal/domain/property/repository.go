package property

import (
	"context"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Repository is the persistence contract for properties.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (*shared.Paginated[Property], error)
	FindByLead(ctx context.Context, leadID uuid.UUID) (*Property, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Property], error)
	Save(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
