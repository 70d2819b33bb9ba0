package lead

import (
	"context"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Repository defines the interface for lead persistence
type Repository interface {
	// FindByID finds a lead by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Lead, error)

	// FindBySpotter finds leads submitted by a spotter
	FindBySpotter(ctx context.Context, spotterID uuid.UUID, filter shared.Filter) ([]Lead, error)

	// FindByAgency finds leads routed to an agency
	FindByAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]Lead, error)

	// FindByAgent finds leads assigned to an agent
	FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) ([]Lead, error)

	// FindUnrouted finds new leads not yet routed to any agency
	FindUnrouted(ctx context.Context, filter shared.Filter) ([]Lead, error)

	// FindAll finds all leads matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Lead, error)

	// Save creates or updates a lead
	Save(ctx context.Context, l *Lead) error

	// Delete deletes a lead
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts leads matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountBySpotter counts a spotter's leads matching the filter
	CountBySpotter(ctx context.Context, spotterID uuid.UUID, filter shared.Filter) (int64, error)
}

// NoteRepository defines the interface for lead note persistence
type NoteRepository interface {
	FindByLead(ctx context.Context, leadID uuid.UUID) ([]Note, error)
	Save(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageRepository defines the interface for lead image persistence
type ImageRepository interface {
	FindByLead(ctx context.Context, leadID uuid.UUID) ([]Image, error)
	Save(ctx context.Context, image *Image) error
	Delete(ctx context.Context, id uuid.UUID) error
}
