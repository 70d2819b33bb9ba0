package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/notification"
)

// MockInvitationTokenRepository is a mock implementation of
// identity.InvitationTokenRepository
type MockInvitationTokenRepository struct {
	mock.Mock
}

func (m *MockInvitationTokenRepository) FindByToken(ctx context.Context, token string) (*identity.InvitationToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.InvitationToken), args.Error(1)
}

func (m *MockInvitationTokenRepository) FindByEmail(ctx context.Context, email string) (*identity.InvitationToken, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.InvitationToken), args.Error(1)
}

func (m *MockInvitationTokenRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvitationTokenRepository) Save(ctx context.Context, token *identity.InvitationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockInvitationTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func createAgencyService(agencies *MockAgencyRepository, users *MockUserRepository, invitations *MockInvitationTokenRepository) *AgencyService {
	return NewAgencyService(agencies, users, invitations, notification.NoopEmailSender{}, "http://localhost:8080", zap.NewNop())
}

func TestAgencyService_CreateAgency_Success(t *testing.T) {
	ctx := context.Background()
	agencies := new(MockAgencyRepository)

	agencies.On("ExistsByName", ctx, "Cape Homes").Return(false, nil)
	agencies.On("ExistsByEmail", ctx, "info@capehomes.co.za").Return(false, nil)
	agencies.On("Save", ctx, mock.Anything).Return(nil)

	service := createAgencyService(agencies, new(MockUserRepository), new(MockInvitationTokenRepository))

	result, err := service.CreateAgency(ctx, CreateAgencyInput{
		Name:  "Cape Homes",
		Email: "info@capehomes.co.za",
		Phone: "+27215551234",
	})

	require.NoError(t, err)
	assert.Equal(t, "Cape Homes", result.Name)
	assert.True(t, result.Active)
	agencies.AssertExpectations(t)
}

func TestAgencyService_CreateAgency_DuplicateName(t *testing.T) {
	ctx := context.Background()
	agencies := new(MockAgencyRepository)
	agencies.On("ExistsByName", ctx, "Cape Homes").Return(true, nil)

	service := createAgencyService(agencies, new(MockUserRepository), new(MockInvitationTokenRepository))

	result, err := service.CreateAgency(ctx, CreateAgencyInput{
		Name:  "Cape Homes",
		Email: "info@capehomes.co.za",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestAgencyService_InviteAgent_Success(t *testing.T) {
	ctx := context.Background()
	agencies := new(MockAgencyRepository)
	users := new(MockUserRepository)
	invitations := new(MockInvitationTokenRepository)

	agency, err := identity.NewAgency("Cape Homes", "info@capehomes.co.za")
	require.NoError(t, err)

	agencies.On("FindByID", ctx, agency.ID).Return(agency, nil)
	users.On("ExistsByEmail", ctx, "agent@example.com").Return(false, nil)
	invitations.On("ExistsByEmail", ctx, "agent@example.com").Return(false, nil)
	invitations.On("Save", ctx, mock.Anything).Return(nil)

	service := createAgencyService(agencies, users, invitations)

	result, err := service.InviteAgent(ctx, InviteAgentInput{
		AgencyID:  agency.ID,
		Email:     "agent@example.com",
		FirstName: "Sipho",
		LastName:  "Dlamini",
		InvitedBy: uuid.New(),
	})

	require.NoError(t, err)
	assert.Len(t, result.Token, 64)
	assert.Equal(t, "agent@example.com", result.Email)
	assert.WithinDuration(t, time.Now().Add(InvitationTTL), result.ExpiresAt, time.Minute)
	invitations.AssertExpectations(t)
}

func TestAgencyService_InviteAgent_EmailTaken(t *testing.T) {
	ctx := context.Background()
	agencies := new(MockAgencyRepository)
	users := new(MockUserRepository)

	agency, err := identity.NewAgency("Cape Homes", "info@capehomes.co.za")
	require.NoError(t, err)

	agencies.On("FindByID", ctx, agency.ID).Return(agency, nil)
	users.On("ExistsByEmail", ctx, "agent@example.com").Return(true, nil)

	service := createAgencyService(agencies, users, new(MockInvitationTokenRepository))

	result, err := service.InviteAgent(ctx, InviteAgentInput{
		AgencyID: agency.ID,
		Email:    "agent@example.com",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestAgencyService_AcceptInvitation_Success(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	invitations := new(MockInvitationTokenRepository)

	agencyID := uuid.New()
	token, err := identity.NewInvitationToken("agent@example.com", "Sipho", "Dlamini", "+27821234567", agencyID, InvitationTTL)
	require.NoError(t, err)

	invitations.On("FindByToken", ctx, token.Token).Return(token, nil)
	invitations.On("Save", ctx, token).Return(nil)
	users.On("Save", ctx, mock.Anything).Return(nil)

	service := createAgencyService(new(MockAgencyRepository), users, invitations)

	result, err := service.AcceptInvitation(ctx, AcceptInvitationInput{
		Token:    token.Token,
		Username: "sipho",
		Password: "Password123",
	})

	require.NoError(t, err)
	assert.Equal(t, agencyID, result.AgencyID)
	assert.True(t, token.Used)

	// The created agent must be active and bound to the agency.
	created := users.Calls[0].Arguments.Get(1).(*identity.User)
	assert.Equal(t, identity.RoleAgent, created.Role)
	assert.True(t, created.Active)
	require.NotNil(t, created.AgencyID)
	assert.Equal(t, agencyID, *created.AgencyID)
}

func TestAgencyService_AcceptInvitation_Expired(t *testing.T) {
	ctx := context.Background()
	invitations := new(MockInvitationTokenRepository)

	token, err := identity.NewInvitationToken("agent@example.com", "", "", "", uuid.New(), -time.Minute)
	require.NoError(t, err)
	invitations.On("FindByToken", ctx, token.Token).Return(token, nil)

	service := createAgencyService(new(MockAgencyRepository), new(MockUserRepository), invitations)

	result, err := service.AcceptInvitation(ctx, AcceptInvitationInput{
		Token:    token.Token,
		Username: "sipho",
		Password: "Password123",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrTokenExpired)
}
