package commission

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

	"github.com/propertyspotter/backend/internal/domain/commission"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/shared"
)

// MockCommissionRepository is a mock implementation of commission.Repository
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*commission.Commission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Commission), args.Error(1)
}

func (m *MockCommissionRepository) FindByLead(ctx context.Context, leadID uuid.UUID) (*commission.Commission, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.Commission), args.Error(1)
}

func (m *MockCommissionRepository) FindBySpotter(ctx context.Context, spotterID uuid.UUID, filter shared.Filter) (*shared.Paginated[commission.Commission], error) {
	args := m.Called(ctx, spotterID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[commission.Commission]), args.Error(1)
}

func (m *MockCommissionRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[commission.Commission], error) {
	args := m.Called(ctx, agencyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[commission.Commission]), args.Error(1)
}

func (m *MockCommissionRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (*shared.Paginated[commission.Commission], error) {
	args := m.Called(ctx, agentID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[commission.Commission]), args.Error(1)
}

func (m *MockCommissionRepository) FindByStatus(ctx context.Context, status commission.Status, filter shared.Filter) (*shared.Paginated[commission.Commission], error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[commission.Commission]), args.Error(1)
}

func (m *MockCommissionRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[commission.Commission], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[commission.Commission]), args.Error(1)
}

func (m *MockCommissionRepository) Save(ctx context.Context, c *commission.Commission) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommissionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommissionRepository) SumSpotterEarnings(ctx context.Context, spotterID uuid.UUID, status commission.Status) (decimal.Decimal, error) {
	args := m.Called(ctx, spotterID, status)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func createService() (*Service, *MockCommissionRepository) {
	repo := new(MockCommissionRepository)
	return NewService(repo, zap.NewNop()), repo
}

func pendingCommission(t *testing.T) *commission.Commission {
	t.Helper()
	c, err := commission.NewCommission(uuid.New(), uuid.New(),
		decimal.NewFromInt(100000), decimal.NewFromInt(20))
	require.NoError(t, err)
	return c
}

func TestService_Approve_Success(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	admin := identity.Actor{ID: uuid.New(), Role: identity.RoleAdmin}
	c := pendingCommission(t)

	repo.On("FindByID", ctx, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil)

	result, err := service.Approve(ctx, ApproveCommissionInput{Actor: admin, CommissionID: c.ID})

	require.NoError(t, err)
	assert.Equal(t, commission.StatusApproved, result.Status)
	require.NotNil(t, result.ApprovedBy)
	assert.Equal(t, admin.ID, *result.ApprovedBy)
	assert.NotNil(t, result.ApprovedAt)
	repo.AssertExpectations(t)
}

func TestService_Approve_NonAdmin(t *testing.T) {
	service, repo := createService()

	_, err := service.Approve(context.Background(), ApproveCommissionInput{
		Actor:        identity.Actor{ID: uuid.New(), Role: identity.RoleSpotter},
		CommissionID: uuid.New(),
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestService_MarkPaid_Success(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	admin := identity.Actor{ID: uuid.New(), Role: identity.RoleAdmin}

	c := pendingCommission(t)
	require.NoError(t, c.Approve(admin.ID))

	repo.On("FindByID", ctx, c.ID).Return(c, nil)
	repo.On("Save", ctx, c).Return(nil)

	result, err := service.MarkPaid(ctx, MarkPaidInput{
		Actor:            admin,
		CommissionID:     c.ID,
		PaymentReference: "EFT-2024-00042",
	})

	require.NoError(t, err)
	assert.Equal(t, commission.StatusPaid, result.Status)
	assert.Equal(t, "EFT-2024-00042", result.PaymentReference)
	assert.NotNil(t, result.PaidAt)
}

func TestService_MarkPaid_RequiresReference(t *testing.T) {
	service, _ := createService()

	_, err := service.MarkPaid(context.Background(), MarkPaidInput{
		Actor:        identity.Actor{ID: uuid.New(), Role: identity.RoleAdmin},
		CommissionID: uuid.New(),
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestService_MarkPaid_PendingCommission(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	c := pendingCommission(t)

	repo.On("FindByID", ctx, c.ID).Return(c, nil)

	_, err := service.MarkPaid(ctx, MarkPaidInput{
		Actor:            identity.Actor{ID: uuid.New(), Role: identity.RoleAdmin},
		CommissionID:     c.ID,
		PaymentReference: "EFT-2024-00042",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_COMMISSION_STATUS", domainErr.Code)
}

func TestService_Get_SpotterSeesOwn(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	c := pendingCommission(t)

	repo.On("FindByID", ctx, c.ID).Return(c, nil)

	result, err := service.Get(ctx, GetCommissionInput{
		Actor:        identity.Actor{ID: c.SpotterID, Role: identity.RoleSpotter},
		CommissionID: c.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, c.ID, result.ID)
}

func TestService_Get_OtherSpotterHidden(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	c := pendingCommission(t)

	repo.On("FindByID", ctx, c.ID).Return(c, nil)

	_, err := service.Get(ctx, GetCommissionInput{
		Actor:        identity.Actor{ID: uuid.New(), Role: identity.RoleSpotter},
		CommissionID: c.ID,
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestService_Get_AgentSeesOwnClosedLead(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	agencyID := uuid.New()
	agentID := uuid.New()
	c := pendingCommission(t)
	c.AttachToAgency(agencyID)
	c.AttachToAgent(agentID)

	repo.On("FindByID", ctx, c.ID).Return(c, nil)

	result, err := service.Get(ctx, GetCommissionInput{
		Actor:        identity.Actor{ID: agentID, Role: identity.RoleAgent, AgencyID: &agencyID},
		CommissionID: c.ID,
	})

	require.NoError(t, err)
	require.NotNil(t, result.AgentID)
	assert.Equal(t, agentID, *result.AgentID)
}

func TestService_Get_OtherAgentInSameAgencyHidden(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	agencyID := uuid.New()
	c := pendingCommission(t)
	c.AttachToAgency(agencyID)
	c.AttachToAgent(uuid.New())

	repo.On("FindByID", ctx, c.ID).Return(c, nil)

	_, err := service.Get(ctx, GetCommissionInput{
		Actor:        identity.Actor{ID: uuid.New(), Role: identity.RoleAgent, AgencyID: &agencyID},
		CommissionID: c.ID,
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestService_ListByAgent_DefaultsToActor(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	agent := identity.Actor{ID: uuid.New(), Role: identity.RoleAgent}

	repo.On("FindByAgent", ctx, agent.ID, mock.Anything).
		Return(&shared.Paginated[commission.Commission]{}, nil)

	_, err := service.ListByAgent(ctx, ListCommissionsInput{Actor: agent})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_ListByAgent_OtherAgentForbidden(t *testing.T) {
	service, repo := createService()
	otherID := uuid.New()

	_, err := service.ListByAgent(context.Background(), ListCommissionsInput{
		Actor:   identity.Actor{ID: uuid.New(), Role: identity.RoleAgent},
		AgentID: &otherID,
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
	repo.AssertNotCalled(t, "FindByAgent", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Earnings_SumsEachStatus(t *testing.T) {
	ctx := context.Background()
	service, repo := createService()
	spotterID := uuid.New()

	repo.On("SumSpotterEarnings", ctx, spotterID, commission.StatusPending).Return(decimal.NewFromInt(15000), nil)
	repo.On("SumSpotterEarnings", ctx, spotterID, commission.StatusApproved).Return(decimal.NewFromInt(5000), nil)
	repo.On("SumSpotterEarnings", ctx, spotterID, commission.StatusPaid).Return(decimal.NewFromInt(42000), nil)

	result, err := service.Earnings(ctx, EarningsInput{
		Actor: identity.Actor{ID: spotterID, Role: identity.RoleSpotter},
	})

	require.NoError(t, err)
	assert.True(t, result.Pending.Equal(decimal.NewFromInt(15000)))
	assert.True(t, result.Approved.Equal(decimal.NewFromInt(5000)))
	assert.True(t, result.Paid.Equal(decimal.NewFromInt(42000)))
	repo.AssertExpectations(t)
}

func TestService_Earnings_OtherSpotterForbidden(t *testing.T) {
	service, _ := createService()
	other := uuid.New()

	_, err := service.Earnings(context.Background(), EarningsInput{
		Actor:     identity.Actor{ID: uuid.New(), Role: identity.RoleSpotter},
		SpotterID: &other,
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}
