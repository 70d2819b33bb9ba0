package commission

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Repository is the persistence contract for commissions.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Commission, error)
	FindByLead(ctx context.Context, leadID uuid.UUID) (*Commission, error)
	FindBySpotter(ctx context.Context, spotterID uuid.UUID, filter shared.Filter) (*shared.Paginated[Commission], error)
	FindByAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[Commission], error)
	FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (*shared.Paginated[Commission], error)
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) (*shared.Paginated[Commission], error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Commission], error)
	Save(ctx context.Context, commission *Commission) error
	Count(ctx context.Context) (int64, error)
	SumSpotterEarnings(ctx context.Context, spotterID uuid.UUID, status Status) (decimal.Decimal, error)
}
