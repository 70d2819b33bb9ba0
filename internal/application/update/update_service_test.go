package update

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/lead"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/domain/update"
)

// MockUpdateRepository is a mock implementation of update.Repository
type MockUpdateRepository struct {
	mock.Mock
}

func (m *MockUpdateRepository) FindByID(ctx context.Context, id uuid.UUID) (*update.Update, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*update.Update), args.Error(1)
}

func (m *MockUpdateRepository) FindByProviderSID(ctx context.Context, sid string) (*update.Update, error) {
	args := m.Called(ctx, sid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*update.Update), args.Error(1)
}

func (m *MockUpdateRepository) FindByLead(ctx context.Context, leadID uuid.UUID) ([]update.Update, error) {
	args := m.Called(ctx, leadID)
	return args.Get(0).([]update.Update), args.Error(1)
}

func (m *MockUpdateRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) (*shared.Paginated[update.Update], error) {
	args := m.Called(ctx, recipientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[update.Update]), args.Error(1)
}

func (m *MockUpdateRepository) FindPending(ctx context.Context, limit int) ([]update.Update, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]update.Update), args.Error(1)
}

func (m *MockUpdateRepository) Save(ctx context.Context, u *update.Update) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUpdateRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockLeadRepository is a mock implementation of lead.Repository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*lead.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindBySpotter(ctx context.Context, spotterID uuid.UUID, filter shared.Filter) ([]lead.Lead, error) {
	args := m.Called(ctx, spotterID, filter)
	return args.Get(0).([]lead.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]lead.Lead, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]lead.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) ([]lead.Lead, error) {
	args := m.Called(ctx, agentID, filter)
	return args.Get(0).([]lead.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindUnrouted(ctx context.Context, filter shared.Filter) ([]lead.Lead, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]lead.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]lead.Lead, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]lead.Lead), args.Error(1)
}

func (m *MockLeadRepository) Save(ctx context.Context, l *lead.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLeadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) CountBySpotter(ctx context.Context, spotterID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, spotterID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, agencyID, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role identity.Role, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, role, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// stubWhatsApp answers every send with a fixed SID
type stubWhatsApp struct {
	sent []string
	err  error
}

func (s *stubWhatsApp) Send(_ context.Context, _ string, body string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, body)
	return "SM0123456789", nil
}

type updateFixture struct {
	updates  *MockUpdateRepository
	leads    *MockLeadRepository
	users    *MockUserRepository
	whatsapp *stubWhatsApp
	service  *Service
}

func newUpdateFixture() *updateFixture {
	f := &updateFixture{
		updates:  new(MockUpdateRepository),
		leads:    new(MockLeadRepository),
		users:    new(MockUserRepository),
		whatsapp: &stubWhatsApp{},
	}
	f.service = NewService(f.updates, f.leads, f.users, f.whatsapp, zap.NewNop())
	return f
}

func assignedLead(t *testing.T, agencyID, agentID uuid.UUID) *lead.Lead {
	t.Helper()
	l, err := lead.NewLead(uuid.New(), "Jane", "Doe", "jane@example.com", "+27821234567", "")
	require.NoError(t, err)
	require.NoError(t, l.RouteToAgency(agencyID))
	require.NoError(t, l.Assign(agentID))
	return l
}

func spotterWithPhone(t *testing.T, id uuid.UUID, phone string) *identity.User {
	t.Helper()
	u, err := identity.NewUser("spotter@example.com", "spotter", "Password123", identity.RoleSpotter)
	require.NoError(t, err)
	u.ID = id
	u.Phone = phone
	return u
}

func TestService_Create_SendsToSpotter(t *testing.T) {
	ctx := context.Background()
	f := newUpdateFixture()

	agencyID := uuid.New()
	agentID := uuid.New()
	l := assignedLead(t, agencyID, agentID)

	f.leads.On("FindByID", ctx, l.ID).Return(l, nil)
	f.users.On("FindByID", ctx, l.SpotterID).Return(spotterWithPhone(t, l.SpotterID, "+27829998888"), nil)
	f.updates.On("Save", ctx, mock.Anything).Return(nil)

	u, err := f.service.Create(ctx, CreateUpdateInput{
		Actor:  identity.Actor{ID: agentID, Role: identity.RoleAgent, AgencyID: &agencyID},
		LeadID: l.ID,
		Body:   "We viewed the property this morning.",
	})

	require.NoError(t, err)
	assert.Equal(t, update.DeliverySent, u.Delivery)
	assert.Equal(t, "SM0123456789", u.ProviderSID)
	assert.Equal(t, l.SpotterID, u.RecipientID)
	assert.False(t, u.SystemIssued)
	assert.Len(t, f.whatsapp.sent, 1)
	f.updates.AssertNumberOfCalls(t, "Save", 2)
}

func TestService_Create_ProviderFailureRecorded(t *testing.T) {
	ctx := context.Background()
	f := newUpdateFixture()
	f.whatsapp.err = errors.New("twilio unreachable")

	agencyID := uuid.New()
	agentID := uuid.New()
	l := assignedLead(t, agencyID, agentID)

	f.leads.On("FindByID", ctx, l.ID).Return(l, nil)
	f.users.On("FindByID", ctx, l.SpotterID).Return(spotterWithPhone(t, l.SpotterID, "+27829998888"), nil)
	f.updates.On("Save", ctx, mock.Anything).Return(nil)

	u, err := f.service.Create(ctx, CreateUpdateInput{
		Actor:  identity.Actor{ID: agentID, Role: identity.RoleAgent, AgencyID: &agencyID},
		LeadID: l.ID,
		Body:   "We viewed the property this morning.",
	})

	require.NoError(t, err)
	assert.Equal(t, update.DeliveryFailed, u.Delivery)
	assert.Equal(t, "twilio unreachable", u.FailureNote)
}

func TestService_Create_SpotterWithoutPhone(t *testing.T) {
	ctx := context.Background()
	f := newUpdateFixture()

	agencyID := uuid.New()
	agentID := uuid.New()
	l := assignedLead(t, agencyID, agentID)

	f.leads.On("FindByID", ctx, l.ID).Return(l, nil)
	f.users.On("FindByID", ctx, l.SpotterID).Return(spotterWithPhone(t, l.SpotterID, ""), nil)

	_, err := f.service.Create(ctx, CreateUpdateInput{
		Actor:  identity.Actor{ID: agentID, Role: identity.RoleAgent, AgencyID: &agencyID},
		LeadID: l.ID,
		Body:   "We viewed the property this morning.",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	f.updates.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Create_OtherAgentForbidden(t *testing.T) {
	ctx := context.Background()
	f := newUpdateFixture()

	agencyID := uuid.New()
	l := assignedLead(t, agencyID, uuid.New())

	f.leads.On("FindByID", ctx, l.ID).Return(l, nil)

	otherAgency := uuid.New()
	_, err := f.service.Create(ctx, CreateUpdateInput{
		Actor:  identity.Actor{ID: uuid.New(), Role: identity.RoleAgent, AgencyID: &otherAgency},
		LeadID: l.ID,
		Body:   "Hello",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestService_HandleStatusCallback_Delivered(t *testing.T) {
	ctx := context.Background()
	f := newUpdateFixture()

	u, err := update.NewUpdate(uuid.New(), uuid.New(), nil, "Lead accepted.")
	require.NoError(t, err)
	require.NoError(t, u.MarkSent("SM42"))

	f.updates.On("FindByProviderSID", ctx, "SM42").Return(u, nil)
	f.updates.On("Save", ctx, u).Return(nil)

	err = f.service.HandleStatusCallback(ctx, StatusCallbackInput{
		ProviderSID: "SM42",
		Status:      "delivered",
	})

	require.NoError(t, err)
	assert.Equal(t, update.DeliveryDelivered, u.Delivery)
	assert.NotNil(t, u.DeliveredAt)
}

func TestService_HandleStatusCallback_StaleStatusIgnored(t *testing.T) {
	ctx := context.Background()
	f := newUpdateFixture()

	u, err := update.NewUpdate(uuid.New(), uuid.New(), nil, "Lead accepted.")
	require.NoError(t, err)
	require.NoError(t, u.MarkSent("SM42"))
	require.NoError(t, u.MarkRead())

	f.updates.On("FindByProviderSID", ctx, "SM42").Return(u, nil)
	f.updates.On("Save", ctx, u).Return(nil)

	err = f.service.HandleStatusCallback(ctx, StatusCallbackInput{
		ProviderSID: "SM42",
		Status:      "delivered",
	})

	require.NoError(t, err)
	assert.Equal(t, update.DeliveryRead, u.Delivery)
}

func TestService_HandleStatusCallback_UnknownSID(t *testing.T) {
	ctx := context.Background()
	f := newUpdateFixture()

	f.updates.On("FindByProviderSID", ctx, "SM99").Return(nil, shared.ErrNotFound)

	err := f.service.HandleStatusCallback(ctx, StatusCallbackInput{
		ProviderSID: "SM99",
		Status:      "delivered",
	})

	require.NoError(t, err)
	f.updates.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_ListByRecipient_OtherSpotterForbidden(t *testing.T) {
	f := newUpdateFixture()
	other := uuid.New()

	_, err := f.service.ListByRecipient(context.Background(), ListByRecipientInput{
		Actor:       identity.Actor{ID: uuid.New(), Role: identity.RoleSpotter},
		RecipientID: &other,
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestService_RetryPending_DispatchesEach(t *testing.T) {
	ctx := context.Background()
	f := newUpdateFixture()

	recipient := uuid.New()
	first, err := update.NewUpdate(uuid.New(), recipient, nil, "First update.")
	require.NoError(t, err)
	second, err := update.NewUpdate(uuid.New(), recipient, nil, "Second update.")
	require.NoError(t, err)

	f.updates.On("FindPending", ctx, 50).Return([]update.Update{*first, *second}, nil)
	f.users.On("FindByID", ctx, recipient).Return(spotterWithPhone(t, recipient, "+27829998888"), nil)
	f.updates.On("Save", ctx, mock.Anything).Return(nil)

	sent, err := f.service.RetryPending(ctx, RetryPendingInput{
		Actor: identity.Actor{ID: uuid.New(), Role: identity.RoleAdmin},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Len(t, f.whatsapp.sent, 2)
}
