package property

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/property"
	"github.com/propertyspotter/backend/internal/domain/shared"
)

// MockPropertyRepository is a mock implementation of property.Repository
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (*shared.Paginated[property.Property], error) {
	args := m.Called(ctx, agentID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[property.Property]), args.Error(1)
}

func (m *MockPropertyRepository) FindByLead(ctx context.Context, leadID uuid.UUID) (*property.Property, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[property.Property], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[property.Property]), args.Error(1)
}

func (m *MockPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func createService() (*Service, *MockPropertyRepository) {
	repo := new(MockPropertyRepository)
	return NewService(repo, zap.NewNop()), repo
}

func ownedProperty(t *testing.T, agentID uuid.UUID) *property.Property {
	t.Helper()
	p, err := property.NewProperty(agentID, "12 Main Road", "Cape Town", property.TypeResidential)
	require.NoError(t, err)
	return p
}

func TestService_SetPrice_Success(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()

	agentID := uuid.New()
	p := ownedProperty(t, agentID)

	repo.On("FindByID", ctx, p.ID).Return(p, nil)
	repo.On("Save", ctx, p).Return(nil)

	result, err := service.SetPrice(ctx, SetPriceInput{
		Actor:      identity.Actor{ID: agentID, Role: identity.RoleAgent},
		PropertyID: p.ID,
		Price:      decimal.NewFromInt(2500000),
	})

	require.NoError(t, err)
	require.NotNil(t, result.Price)
	assert.True(t, result.Price.Equal(decimal.NewFromInt(2500000)))
	repo.AssertExpectations(t)
}

func TestService_SetPrice_NotOwner(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()

	p := ownedProperty(t, uuid.New())
	repo.On("FindByID", ctx, p.ID).Return(p, nil)

	_, err := service.SetPrice(ctx, SetPriceInput{
		Actor:      identity.Actor{ID: uuid.New(), Role: identity.RoleAgent},
		PropertyID: p.ID,
		Price:      decimal.NewFromInt(2500000),
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_UpdateDetails_Success(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()

	agentID := uuid.New()
	p := ownedProperty(t, agentID)

	repo.On("FindByID", ctx, p.ID).Return(p, nil)
	repo.On("Save", ctx, p).Return(nil)

	result, err := service.UpdateDetails(ctx, UpdateDetailsInput{
		Actor:       identity.Actor{ID: agentID, Role: identity.RoleAgent},
		PropertyID:  p.ID,
		Suburb:      "Claremont",
		Province:    "Western Cape",
		PostalCode:  "7708",
		Description: "Sunny three-bedroom home",
		Bedrooms:    3,
		Bathrooms:   2,
		ErfSize:     450,
	})

	require.NoError(t, err)
	assert.Equal(t, "Claremont", result.Suburb)
	assert.Equal(t, 3, result.Bedrooms)
}

func TestService_TakeOffMarketAndRelist(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()

	agentID := uuid.New()
	p := ownedProperty(t, agentID)
	actor := identity.Actor{ID: agentID, Role: identity.RoleAgent}

	repo.On("FindByID", ctx, p.ID).Return(p, nil)
	repo.On("Save", ctx, p).Return(nil)

	result, err := service.TakeOffMarket(ctx, ChangeStatusInput{Actor: actor, PropertyID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, property.StatusOffMarket, result.Status)

	result, err = service.Relist(ctx, ChangeStatusInput{Actor: actor, PropertyID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, property.StatusAvailable, result.Status)
}

func TestService_Relist_SoldProperty(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()

	agentID := uuid.New()
	p := ownedProperty(t, agentID)
	require.NoError(t, p.MarkSold(decimal.NewFromInt(1800000)))

	repo.On("FindByID", ctx, p.ID).Return(p, nil)

	_, err := service.Relist(ctx, ChangeStatusInput{
		Actor:      identity.Actor{ID: agentID, Role: identity.RoleAgent},
		PropertyID: p.ID,
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_PROPERTY_STATUS", domainErr.Code)
}

func TestService_ListByAgent_OtherAgentForbidden(t *testing.T) {
	service, _ := createService()
	other := uuid.New()

	_, err := service.ListByAgent(context.Background(), ListPropertiesInput{
		Actor:   identity.Actor{ID: uuid.New(), Role: identity.RoleAgent},
		AgentID: &other,
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestService_ListAll_AdminOnly(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()

	page := shared.NewPaginated([]property.Property{}, 0, 1, 20)
	repo.On("FindAll", ctx, mock.Anything).Return(&page, nil)

	_, err := service.ListAll(ctx, ListPropertiesInput{
		Actor: identity.Actor{ID: uuid.New(), Role: identity.RoleAgent},
	})
	require.Error(t, err)

	result, err := service.ListAll(ctx, ListPropertiesInput{
		Actor: identity.Actor{ID: uuid.New(), Role: identity.RoleAdmin},
	})
	require.NoError(t, err)
	assert.NotNil(t, result)
}
