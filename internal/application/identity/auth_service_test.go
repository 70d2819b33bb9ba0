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
	"github.com/propertyspotter/backend/internal/infrastructure/auth"
	"github.com/propertyspotter/backend/internal/infrastructure/config"
	"github.com/propertyspotter/backend/internal/infrastructure/notification"
)

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

// MockAgencyRepository is a mock implementation of identity.AgencyRepository
type MockAgencyRepository struct {
	mock.Mock
}

func (m *MockAgencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Agency, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Agency), args.Error(1)
}

func (m *MockAgencyRepository) FindByName(ctx context.Context, name string) (*identity.Agency, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Agency), args.Error(1)
}

func (m *MockAgencyRepository) FindByEmail(ctx context.Context, email string) (*identity.Agency, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Agency), args.Error(1)
}

func (m *MockAgencyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Agency, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Agency), args.Error(1)
}

func (m *MockAgencyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockAgencyRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAgencyRepository) Save(ctx context.Context, agency *identity.Agency) error {
	args := m.Called(ctx, agency)
	return args.Error(0)
}

func (m *MockAgencyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAgencyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockVerificationTokenRepository is a mock implementation of
// identity.VerificationTokenRepository
type MockVerificationTokenRepository struct {
	mock.Mock
}

func (m *MockVerificationTokenRepository) FindByToken(ctx context.Context, token string) (*identity.VerificationToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.VerificationToken), args.Error(1)
}

func (m *MockVerificationTokenRepository) Save(ctx context.Context, token *identity.VerificationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockVerificationTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// MockAdminLoginAttemptRepository is a mock implementation of
// identity.AdminLoginAttemptRepository
type MockAdminLoginAttemptRepository struct {
	mock.Mock
}

func (m *MockAdminLoginAttemptRepository) Save(ctx context.Context, attempt *identity.AdminLoginAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockAdminLoginAttemptRepository) CountRecentFailures(ctx context.Context, email, ipAddress string, since time.Time) (int64, error) {
	args := m.Called(ctx, email, ipAddress, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdminLoginAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// stubVerifier returns a fixed captcha verdict
type stubVerifier struct {
	ok  bool
	err error
}

func (v stubVerifier) Verify(context.Context, string, string) (bool, error) {
	return v.ok, v.err
}

func createActiveUser(t *testing.T, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser("spotter@example.com", "spotter", "Password123", role)
	require.NoError(t, err)
	require.NoError(t, user.Activate())
	return user
}

type authServiceDeps struct {
	users     *MockUserRepository
	agencies  *MockAgencyRepository
	tokens    *MockVerificationTokenRepository
	attempts  *MockAdminLoginAttemptRepository
	blacklist *auth.InMemoryTokenBlacklist
	jwt       *auth.JWTService
	captcha   stubVerifier
}

func createAuthService(deps authServiceDeps) *AuthService {
	if deps.jwt == nil {
		deps.jwt = auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-32-characters-long",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 7 * 24 * time.Hour,
			Issuer:                 "test-issuer",
		})
	}
	if deps.blacklist == nil {
		deps.blacklist = auth.NewInMemoryTokenBlacklist()
	}
	return NewAuthService(
		deps.users,
		deps.agencies,
		deps.tokens,
		deps.attempts,
		deps.jwt,
		deps.blacklist,
		deps.captcha,
		notification.NoopEmailSender{},
		"http://localhost:8080",
		zap.NewNop(),
	)
}

func TestAuthService_Register_Success(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	tokens := new(MockVerificationTokenRepository)

	users.On("ExistsByEmail", ctx, "new@example.com").Return(false, nil)
	users.On("Save", ctx, mock.Anything).Return(nil)
	tokens.On("Save", ctx, mock.Anything).Return(nil)

	service := createAuthService(authServiceDeps{
		users:    users,
		agencies: new(MockAgencyRepository),
		tokens:   tokens,
		attempts: new(MockAdminLoginAttemptRepository),
	})

	result, err := service.Register(ctx, RegisterInput{
		Email:           "new@example.com",
		Username:        "newspotter",
		Password:        "Password123",
		ConfirmPassword: "Password123",
		FirstName:       "Thandi",
		LastName:        "Nkosi",
		Role:            identity.RoleSpotter,
	})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", result.Email)
	assert.NotEqual(t, uuid.Nil, result.UserID)

	// The saved user must be inactive until the email is verified.
	savedUser := users.Calls[1].Arguments.Get(1).(*identity.User)
	assert.False(t, savedUser.Active)
	assert.Equal(t, identity.RoleSpotter, savedUser.Role)

	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestAuthService_Register_PasswordMismatch(t *testing.T) {
	service := createAuthService(authServiceDeps{
		users:    new(MockUserRepository),
		agencies: new(MockAgencyRepository),
		tokens:   new(MockVerificationTokenRepository),
		attempts: new(MockAdminLoginAttemptRepository),
	})

	result, err := service.Register(context.Background(), RegisterInput{
		Email:           "new@example.com",
		Username:        "newspotter",
		Password:        "Password123",
		ConfirmPassword: "Different123",
		Role:            identity.RoleSpotter,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "PASSWORD_MISMATCH", domainErr.Code)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	users.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

	service := createAuthService(authServiceDeps{
		users:    users,
		agencies: new(MockAgencyRepository),
		tokens:   new(MockVerificationTokenRepository),
		attempts: new(MockAdminLoginAttemptRepository),
	})

	result, err := service.Register(ctx, RegisterInput{
		Email:           "taken@example.com",
		Username:        "someone",
		Password:        "Password123",
		ConfirmPassword: "Password123",
		Role:            identity.RoleSpotter,
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestAuthService_VerifyEmail_Success(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	tokens := new(MockVerificationTokenRepository)

	user, err := identity.NewUser("pending@example.com", "pending", "Password123", identity.RoleSpotter)
	require.NoError(t, err)
	token, err := identity.NewVerificationToken(user.ID)
	require.NoError(t, err)

	tokens.On("FindByToken", ctx, token.Token).Return(token, nil)
	tokens.On("Save", ctx, token).Return(nil)
	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	service := createAuthService(authServiceDeps{
		users:    users,
		agencies: new(MockAgencyRepository),
		tokens:   tokens,
		attempts: new(MockAdminLoginAttemptRepository),
	})

	err = service.VerifyEmail(ctx, VerifyEmailInput{Token: token.Token})

	require.NoError(t, err)
	assert.True(t, user.Active)
	assert.True(t, token.Used)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestAuthService_VerifyEmail_UsedToken(t *testing.T) {
	ctx := context.Background()
	tokens := new(MockVerificationTokenRepository)

	token, err := identity.NewVerificationToken(uuid.New())
	require.NoError(t, err)
	require.NoError(t, token.Consume())

	tokens.On("FindByToken", ctx, token.Token).Return(token, nil)

	service := createAuthService(authServiceDeps{
		users:    new(MockUserRepository),
		agencies: new(MockAgencyRepository),
		tokens:   tokens,
		attempts: new(MockAdminLoginAttemptRepository),
	})

	err = service.VerifyEmail(ctx, VerifyEmailInput{Token: token.Token})

	assert.ErrorIs(t, err, shared.ErrTokenUsed)
}

func TestAuthService_Login_Success(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)

	user := createActiveUser(t, identity.RoleSpotter)
	users.On("FindByEmail", ctx, "spotter@example.com").Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	service := createAuthService(authServiceDeps{
		users:    users,
		agencies: new(MockAgencyRepository),
		tokens:   new(MockVerificationTokenRepository),
		attempts: new(MockAdminLoginAttemptRepository),
	})

	result, err := service.Login(ctx, LoginInput{
		Email:    "spotter@example.com",
		Password: "Password123",
		IP:       "127.0.0.1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Nil(t, result.Agency)
	assert.NotNil(t, user.LastLoginAt)
	users.AssertExpectations(t)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)

	user, err := identity.NewUser("spotter@example.com", "spotter", "Password123", identity.RoleSpotter)
	require.NoError(t, err)
	users.On("FindByEmail", ctx, "spotter@example.com").Return(user, nil)

	service := createAuthService(authServiceDeps{
		users:    users,
		agencies: new(MockAgencyRepository),
		tokens:   new(MockVerificationTokenRepository),
		attempts: new(MockAdminLoginAttemptRepository),
	})

	result, err := service.Login(ctx, LoginInput{
		Email:    "spotter@example.com",
		Password: "Password123",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ACCOUNT_INACTIVE", domainErr.Code)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)

	user := createActiveUser(t, identity.RoleSpotter)
	users.On("FindByEmail", ctx, "spotter@example.com").Return(user, nil)

	service := createAuthService(authServiceDeps{
		users:    users,
		agencies: new(MockAgencyRepository),
		tokens:   new(MockVerificationTokenRepository),
		attempts: new(MockAdminLoginAttemptRepository),
	})

	result, err := service.Login(ctx, LoginInput{
		Email:    "spotter@example.com",
		Password: "wrongpassword",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAuthService_AdminLogin_CaptchaFailed(t *testing.T) {
	ctx := context.Background()
	attempts := new(MockAdminLoginAttemptRepository)
	attempts.On("Save", ctx, mock.Anything).Return(nil)

	service := createAuthService(authServiceDeps{
		users:    new(MockUserRepository),
		agencies: new(MockAgencyRepository),
		tokens:   new(MockVerificationTokenRepository),
		attempts: attempts,
		captcha:  stubVerifier{ok: false},
	})

	result, err := service.AdminLogin(ctx, AdminLoginInput{
		Email:        "admin@example.com",
		Password:     "Password123",
		CaptchaToken: "bad-token",
		IP:           "203.0.113.7",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)

	// The failed attempt must be recorded against email and IP.
	attempt := attempts.Calls[0].Arguments.Get(1).(*identity.AdminLoginAttempt)
	assert.Equal(t, "admin@example.com", attempt.Email)
	assert.Equal(t, "203.0.113.7", attempt.IPAddress)
	assert.False(t, attempt.Success)
	attempts.AssertExpectations(t)
}

func TestAuthService_AdminLogin_NonAdminRejected(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	attempts := new(MockAdminLoginAttemptRepository)

	user := createActiveUser(t, identity.RoleSpotter)
	users.On("FindByEmail", ctx, "spotter@example.com").Return(user, nil)
	attempts.On("Save", ctx, mock.Anything).Return(nil)

	service := createAuthService(authServiceDeps{
		users:    users,
		agencies: new(MockAgencyRepository),
		tokens:   new(MockVerificationTokenRepository),
		attempts: attempts,
		captcha:  stubVerifier{ok: true},
	})

	result, err := service.AdminLogin(ctx, AdminLoginInput{
		Email:        "spotter@example.com",
		Password:     "Password123",
		CaptchaToken: "ok-token",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestAuthService_AdminLogin_Success(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	attempts := new(MockAdminLoginAttemptRepository)

	admin, err := identity.NewUser("admin@example.com", "admin", "Password123", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, admin.Activate())

	users.On("FindByEmail", ctx, "admin@example.com").Return(admin, nil)
	users.On("Save", ctx, admin).Return(nil)
	attempts.On("Save", ctx, mock.Anything).Return(nil)

	service := createAuthService(authServiceDeps{
		users:    users,
		agencies: new(MockAgencyRepository),
		tokens:   new(MockVerificationTokenRepository),
		attempts: attempts,
		captcha:  stubVerifier{ok: true},
	})

	result, err := service.AdminLogin(ctx, AdminLoginInput{
		Email:        "admin@example.com",
		Password:     "Password123",
		CaptchaToken: "ok-token",
		IP:           "127.0.0.1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)

	attempt := attempts.Calls[0].Arguments.Get(1).(*identity.AdminLoginAttempt)
	assert.True(t, attempt.Success)
	attempts.AssertExpectations(t)
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)

	user := createActiveUser(t, identity.RoleSpotter)
	users.On("FindByEmail", ctx, "spotter@example.com").Return(user, nil)
	users.On("FindByID", ctx, user.ID).Return(user, nil)
	users.On("Save", ctx, user).Return(nil)

	service := createAuthService(authServiceDeps{
		users:    users,
		agencies: new(MockAgencyRepository),
		tokens:   new(MockVerificationTokenRepository),
		attempts: new(MockAdminLoginAttemptRepository),
	})

	loginResult, err := service.Login(ctx, LoginInput{
		Email:    "spotter@example.com",
		Password: "Password123",
	})
	require.NoError(t, err)

	refreshResult, err := service.RefreshToken(ctx, RefreshTokenInput{
		RefreshToken: loginResult.RefreshToken,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, refreshResult.AccessToken)
	assert.Equal(t, "Bearer", refreshResult.TokenType)
}

func TestAuthService_RefreshToken_InvalidToken(t *testing.T) {
	service := createAuthService(authServiceDeps{
		users:    new(MockUserRepository),
		agencies: new(MockAgencyRepository),
		tokens:   new(MockVerificationTokenRepository),
		attempts: new(MockAdminLoginAttemptRepository),
	})

	result, err := service.RefreshToken(context.Background(), RefreshTokenInput{
		RefreshToken: "not-a-token",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
}

func TestAuthService_Logout_BlacklistsToken(t *testing.T) {
	ctx := context.Background()
	blacklist := auth.NewInMemoryTokenBlacklist()

	service := createAuthService(authServiceDeps{
		users:     new(MockUserRepository),
		agencies:  new(MockAgencyRepository),
		tokens:    new(MockVerificationTokenRepository),
		attempts:  new(MockAdminLoginAttemptRepository),
		blacklist: blacklist,
	})

	err := service.Logout(ctx, LogoutInput{
		UserID:   uuid.New(),
		TokenJTI: "jti-123",
		TokenTTL: time.Minute,
	})

	require.NoError(t, err)
	revoked, err := blacklist.IsBlacklisted(ctx, "jti-123")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)

	user := createActiveUser(t, identity.RoleSpotter)
	users.On("FindByID", ctx, user.ID).Return(user, nil)

	service := createAuthService(authServiceDeps{
		users:    users,
		agencies: new(MockAgencyRepository),
		tokens:   new(MockVerificationTokenRepository),
		attempts: new(MockAdminLoginAttemptRepository),
	})

	err := service.ChangePassword(ctx, ChangePasswordInput{
		UserID:      user.ID,
		OldPassword: "wrongpassword",
		NewPassword: "NewPassword456",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
}

func TestAuthService_PurgeStaleLoginAttempts(t *testing.T) {
	ctx := context.Background()
	attempts := new(MockAdminLoginAttemptRepository)

	cutoff := time.Now().AddDate(0, 0, -30)
	attempts.On("DeleteOlderThan", ctx, cutoff).Return(int64(7), nil)

	service := createAuthService(authServiceDeps{
		users:    new(MockUserRepository),
		agencies: new(MockAgencyRepository),
		tokens:   new(MockVerificationTokenRepository),
		attempts: attempts,
	})

	deleted, err := service.PurgeStaleLoginAttempts(ctx, cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	attempts.AssertExpectations(t)
}
