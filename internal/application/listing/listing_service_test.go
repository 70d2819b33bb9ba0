package listing

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
	"github.com/propertyspotter/backend/internal/domain/listing"
	"github.com/propertyspotter/backend/internal/domain/shared"
)

// MockListingRepository is a mock implementation of listing.Repository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (*shared.Paginated[listing.Listing], error) {
	args := m.Called(ctx, agentID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[listing.Listing]), args.Error(1)
}

func (m *MockListingRepository) FindPublished(ctx context.Context, filter shared.Filter) (*shared.Paginated[listing.Listing], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[listing.Listing]), args.Error(1)
}

func (m *MockListingRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[listing.Listing], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[listing.Listing]), args.Error(1)
}

func (m *MockListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockListingRepository) SaveImage(ctx context.Context, image *listing.Image) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockListingRepository) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	args := m.Called(ctx, imageID)
	return args.Error(0)
}

func (m *MockListingRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func createService() (*Service, *MockListingRepository) {
	repo := new(MockListingRepository)
	return NewService(repo, zap.NewNop()), repo
}

func agentActor() identity.Actor {
	return identity.Actor{ID: uuid.New(), Role: identity.RoleAgent}
}

func draftListing(t *testing.T, agentID uuid.UUID) *listing.Listing {
	t.Helper()
	l, err := listing.NewListing(agentID, "Family home in Claremont", "Cape Town", listing.ProvinceWesternCape)
	require.NoError(t, err)
	return l
}

func TestService_Create_Success(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	agencyID := uuid.New()
	actor := identity.Actor{ID: uuid.New(), Role: identity.RoleAgent, AgencyID: &agencyID}
	price := decimal.NewFromInt(3200000)

	repo.On("Save", ctx, mock.Anything).Return(nil)

	l, err := service.Create(ctx, CreateListingInput{
		Actor:       actor,
		Title:       "Family home in Claremont",
		Description: "Spacious garden, close to schools",
		Suburb:      "Claremont",
		City:        "Cape Town",
		Province:    listing.ProvinceWesternCape,
		Bedrooms:    3,
		Bathrooms:   2,
		Price:       &price,
	})

	require.NoError(t, err)
	assert.Equal(t, listing.StatusDraft, l.Status)
	assert.Equal(t, actor.ID, l.AgentID)
	require.NotNil(t, l.AgencyID)
	assert.Equal(t, agencyID, *l.AgencyID)
	require.NotNil(t, l.Price)
	assert.True(t, l.Price.Equal(price))
	repo.AssertExpectations(t)
}

func TestService_Create_SpotterForbidden(t *testing.T) {
	service, _ := createService()

	_, err := service.Create(context.Background(), CreateListingInput{
		Actor:    identity.Actor{ID: uuid.New(), Role: identity.RoleSpotter},
		Title:    "Family home in Claremont",
		City:     "Cape Town",
		Province: listing.ProvinceWesternCape,
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestService_Publish_Success(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	actor := agentActor()
	l := draftListing(t, actor.ID)

	repo.On("FindByID", ctx, l.ID).Return(l, nil)
	repo.On("Save", ctx, l).Return(nil)

	result, err := service.Publish(ctx, ChangeListingInput{Actor: actor, ListingID: l.ID})

	require.NoError(t, err)
	assert.Equal(t, listing.StatusPublished, result.Status)
	assert.True(t, result.IsPublic())
}

func TestService_Publish_NotOwner(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	l := draftListing(t, uuid.New())

	repo.On("FindByID", ctx, l.ID).Return(l, nil)

	_, err := service.Publish(ctx, ChangeListingInput{Actor: agentActor(), ListingID: l.ID})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestService_Publish_AgencyAdminOfSameAgency(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	agencyID := uuid.New()

	l := draftListing(t, uuid.New())
	l.AttachToAgency(agencyID)

	repo.On("FindByID", ctx, l.ID).Return(l, nil)
	repo.On("Save", ctx, l).Return(nil)

	result, err := service.Publish(ctx, ChangeListingInput{
		Actor:     identity.Actor{ID: uuid.New(), Role: identity.RoleAgencyAdmin, AgencyID: &agencyID},
		ListingID: l.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, listing.StatusPublished, result.Status)
}

func TestService_AddImage_FirstBecomesPrimary(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	actor := agentActor()
	l := draftListing(t, actor.ID)

	repo.On("FindByID", ctx, l.ID).Return(l, nil)
	repo.On("SaveImage", ctx, mock.Anything).Return(nil)

	img, err := service.AddImage(ctx, AddImageInput{
		Actor:     actor,
		ListingID: l.ID,
		URL:       "https://cdn.example.com/house.jpg",
		Caption:   "Street view",
	})

	require.NoError(t, err)
	assert.True(t, img.IsPrimary)
}

func TestService_SetPrimaryImage_DemotesPrevious(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	actor := agentActor()
	l := draftListing(t, actor.ID)

	first, err := listing.NewImage(l.ID, "https://cdn.example.com/1.jpg", "", 0)
	require.NoError(t, err)
	first.IsPrimary = true
	second, err := listing.NewImage(l.ID, "https://cdn.example.com/2.jpg", "", 1)
	require.NoError(t, err)
	l.Images = []listing.Image{*first, *second}

	repo.On("FindByID", ctx, l.ID).Return(l, nil)
	repo.On("SaveImage", ctx, mock.Anything).Return(nil)

	err = service.SetPrimaryImage(ctx, ImageInput{
		Actor:     actor,
		ListingID: l.ID,
		ImageID:   second.ID,
	})

	require.NoError(t, err)
	primary := l.PrimaryImage()
	require.NotNil(t, primary)
	assert.Equal(t, second.ID, primary.ID)
	repo.AssertNumberOfCalls(t, "SaveImage", 2)
}

func TestService_PublicGet_DraftHidden(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	l := draftListing(t, uuid.New())

	repo.On("FindByID", ctx, l.ID).Return(l, nil)

	_, err := service.PublicGet(ctx, l.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	repo.AssertNotCalled(t, "IncrementViewCount", mock.Anything, mock.Anything)
}

func TestService_PublicGet_RecordsView(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	l := draftListing(t, uuid.New())
	require.NoError(t, l.Publish())

	repo.On("FindByID", ctx, l.ID).Return(l, nil)
	repo.On("IncrementViewCount", ctx, l.ID).Return(nil)

	result, err := service.PublicGet(ctx, l.ID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ViewCount)
	repo.AssertExpectations(t)
}

func TestService_PublicList_UsesPublishedQuery(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()

	page := shared.NewPaginated([]listing.Listing{}, 0, 1, 20)
	repo.On("FindPublished", ctx, mock.Anything).Return(&page, nil)

	_, err := service.PublicList(ctx, PublicListInput{City: "Cape Town"})

	require.NoError(t, err)
	filter := repo.Calls[0].Arguments.Get(1).(shared.Filter)
	assert.Equal(t, "Cape Town", filter.Filters["city"])
}
