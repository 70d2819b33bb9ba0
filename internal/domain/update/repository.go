package update

import (
	"context"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Repository is the persistence contract for lead updates.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Update, error)
	FindByProviderSID(ctx context.Context, sid string) (*Update, error)
	FindByLead(ctx context.Context, leadID uuid.UUID) ([]Update, error)
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) (*shared.Paginated[Update], error)
	FindPending(ctx context.Context, limit int) ([]Update, error)
	Save(ctx context.Context, update *Update) error
	Count(ctx context.Context) (int64, error)
}
