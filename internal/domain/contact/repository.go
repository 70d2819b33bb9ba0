package contact

import (
	"context"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Repository is the persistence contract for contact-form messages.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Message], error)
	FindUnresolved(ctx context.Context, filter shared.Filter) (*shared.Paginated[Message], error)
	Save(ctx context.Context, message *Message) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}
