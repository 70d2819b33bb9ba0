// Package property provides the application service for properties created
// through lead acceptance. Properties are never created directly; they come
// into existence when an agent accepts a lead.
package property

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/property"
	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Service handles property use cases
type Service struct {
	properties property.Repository
	logger     *zap.Logger
}

// NewService creates a new property service
func NewService(properties property.Repository, logger *zap.Logger) *Service {
	return &Service{
		properties: properties,
		logger:     logger,
	}
}

// Get returns a single property. Agents see their own portfolio, admins see
// everything.
func (s *Service) Get(ctx context.Context, input GetPropertyInput) (*property.Property, error) {
	p, err := s.findProperty(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}
	if !s.canManage(p, input.Actor) {
		return nil, shared.NewDomainError("NOT_FOUND", "Property not found")
	}
	return p, nil
}

// ListByAgent returns the properties owned by an agent
func (s *Service) ListByAgent(ctx context.Context, input ListPropertiesInput) (*shared.Paginated[property.Property], error) {
	agentID := input.Actor.ID
	if input.AgentID != nil {
		agentID = *input.AgentID
	}
	if agentID != input.Actor.ID && !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "You can only list your own properties")
	}
	return s.properties.FindByAgent(ctx, agentID, s.filterFrom(input))
}

// ListAll returns all properties across the platform. Admin only.
func (s *Service) ListAll(ctx context.Context, input ListPropertiesInput) (*shared.Paginated[property.Property], error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can list all properties")
	}
	return s.properties.FindAll(ctx, s.filterFrom(input))
}

// UpdateDetails edits the descriptive fields of a property
func (s *Service) UpdateDetails(ctx context.Context, input UpdateDetailsInput) (*property.Property, error) {
	p, err := s.ownedProperty(ctx, input.PropertyID, input.Actor)
	if err != nil {
		return nil, err
	}

	if err := p.UpdateDetails(input.Suburb, input.Province, input.PostalCode, input.Description,
		input.Bedrooms, input.Bathrooms, input.ErfSize); err != nil {
		return nil, err
	}

	if err := s.properties.Save(ctx, p); err != nil {
		s.logger.Error("Failed to save property", zap.Error(err), zap.String("property_id", p.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update property")
	}
	return p, nil
}

// SetPrice sets the asking price of a property
func (s *Service) SetPrice(ctx context.Context, input SetPriceInput) (*property.Property, error) {
	p, err := s.ownedProperty(ctx, input.PropertyID, input.Actor)
	if err != nil {
		return nil, err
	}

	if err := p.SetPrice(input.Price); err != nil {
		return nil, err
	}

	if err := s.properties.Save(ctx, p); err != nil {
		s.logger.Error("Failed to save property", zap.Error(err), zap.String("property_id", p.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update property")
	}
	return p, nil
}

// MarkPending moves a property into a pending sale
func (s *Service) MarkPending(ctx context.Context, input ChangeStatusInput) (*property.Property, error) {
	return s.transition(ctx, input, func(p *property.Property) error { return p.MarkPending() })
}

// TakeOffMarket withdraws a property from sale
func (s *Service) TakeOffMarket(ctx context.Context, input ChangeStatusInput) (*property.Property, error) {
	return s.transition(ctx, input, func(p *property.Property) error { return p.TakeOffMarket() })
}

// Relist returns a withdrawn or pending property to the market
func (s *Service) Relist(ctx context.Context, input ChangeStatusInput) (*property.Property, error) {
	return s.transition(ctx, input, func(p *property.Property) error { return p.Relist() })
}

func (s *Service) transition(ctx context.Context, input ChangeStatusInput, change func(*property.Property) error) (*property.Property, error) {
	p, err := s.ownedProperty(ctx, input.PropertyID, input.Actor)
	if err != nil {
		return nil, err
	}

	if err := change(p); err != nil {
		return nil, err
	}

	if err := s.properties.Save(ctx, p); err != nil {
		s.logger.Error("Failed to save property", zap.Error(err), zap.String("property_id", p.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update property")
	}

	s.logger.Info("Property status changed",
		zap.String("property_id", p.ID.String()),
		zap.String("status", string(p.Status)))
	return p, nil
}

func (s *Service) findProperty(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Property not found")
		}
		s.logger.Error("Failed to find property", zap.Error(err), zap.String("property_id", id.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find property")
	}
	return p, nil
}

func (s *Service) ownedProperty(ctx context.Context, id uuid.UUID, actor identity.Actor) (*property.Property, error) {
	p, err := s.findProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canManage(p, actor) {
		return nil, shared.NewDomainError("FORBIDDEN", "You do not manage this property")
	}
	return p, nil
}

func (s *Service) canManage(p *property.Property, actor identity.Actor) bool {
	return actor.IsAdmin() || p.AgentID == actor.ID
}

func (s *Service) filterFrom(input ListPropertiesInput) shared.Filter {
	filter := shared.DefaultFilter()
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	if input.OrderBy != "" {
		filter.OrderBy = input.OrderBy
	}
	if input.OrderDir != "" {
		filter.OrderDir = input.OrderDir
	}
	filter.Search = input.Search
	if input.Status != "" {
		filter.Filters["status"] = input.Status
	}
	return filter
}
