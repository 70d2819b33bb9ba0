package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/auth"
	"github.com/propertyspotter/backend/internal/infrastructure/captcha"
	"github.com/propertyspotter/backend/internal/infrastructure/notification"
)

// AuthService handles registration, email verification, login, token refresh
// and logout.
type AuthService struct {
	users              identity.UserRepository
	agencies           identity.AgencyRepository
	verificationTokens identity.VerificationTokenRepository
	attempts           identity.AdminLoginAttemptRepository
	jwtService         *auth.JWTService
	blacklist          auth.TokenBlacklist
	captcha            captcha.Verifier
	email              notification.EmailSender
	baseURL            string
	events             shared.EventPublisher
	logger             *zap.Logger
}

// SetEventPublisher sets the publisher that receives lifecycle events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

func (s *AuthService) publish(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if err := shared.PublishEvents(ctx, s.events, aggregates...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	agencies identity.AgencyRepository,
	verificationTokens identity.VerificationTokenRepository,
	attempts identity.AdminLoginAttemptRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	captchaVerifier captcha.Verifier,
	email notification.EmailSender,
	baseURL string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:              users,
		agencies:           agencies,
		verificationTokens: verificationTokens,
		attempts:           attempts,
		jwtService:         jwtService,
		blacklist:          blacklist,
		captcha:            captchaVerifier,
		email:              email,
		baseURL:            baseURL,
		logger:             logger,
	}
}

// Register creates an inactive account and emails a verification link.
// The email send is best effort; registration succeeds regardless.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	s.logger.Info("Registration attempt", zap.String("email", input.Email))

	if input.Password != input.ConfirmPassword {
		return nil, shared.NewDomainError("PASSWORD_MISMATCH", "Passwords do not match")
	}
	if input.Role == identity.RoleAdmin {
		return nil, shared.NewDomainError("FORBIDDEN", "Admin accounts cannot self-register")
	}

	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register user")
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Username, input.Password, input.Role)
	if err != nil {
		return nil, err
	}
	if err := user.SetName(input.FirstName, input.LastName); err != nil {
		return nil, err
	}
	if err := user.SetPhone(input.Phone); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register user")
	}

	token, err := identity.NewVerificationToken(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue verification token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register user")
	}
	if err := s.verificationTokens.Save(ctx, token); err != nil {
		s.logger.Error("Failed to save verification token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register user")
	}

	s.sendVerificationEmail(ctx, user, token)

	s.publish(ctx, user)
	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	return &RegisterResult{UserID: user.ID, Email: user.Email}, nil
}

// VerifyEmail consumes a verification token and activates the account
func (s *AuthService) VerifyEmail(ctx context.Context, input VerifyEmailInput) error {
	token, err := s.verificationTokens.FindByToken(ctx, input.Token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("TOKEN_INVALID", "Verification token not found")
		}
		s.logger.Error("Failed to load verification token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email")
	}

	if err := token.Consume(); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		s.logger.Error("Verification token references missing user",
			zap.String("user_id", token.UserID.String()), zap.Error(err))
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if !user.Active {
		if err := user.Activate(); err != nil {
			return err
		}
		if err := s.users.Save(ctx, user); err != nil {
			s.logger.Error("Failed to activate user", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email")
		}
	}

	if err := s.verificationTokens.Save(ctx, token); err != nil {
		s.logger.Error("Failed to mark verification token used", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to verify email")
	}

	s.publish(ctx, user)
	s.logger.Info("Email verified", zap.String("user_id", user.ID.String()))

	return nil
}

// Login authenticates a user by email and password and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("email", input.Email))

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.Active {
		s.logger.Warn("Login attempt for inactive account", zap.String("email", input.Email))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active. Please verify your email address")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	return s.issueTokens(ctx, user)
}

// AdminLogin authenticates an admin behind a Turnstile captcha challenge.
// Every attempt, successful or not, is recorded against email and IP.
func (s *AuthService) AdminLogin(ctx context.Context, input AdminLoginInput) (*LoginResult, error) {
	s.logger.Info("Admin login attempt", zap.String("email", input.Email), zap.String("ip", input.IP))

	ok, err := s.captcha.Verify(ctx, input.CaptchaToken, input.IP)
	if err != nil {
		s.logger.Error("Captcha verification failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Captcha verification unavailable")
	}
	if !ok {
		s.recordAdminAttempt(ctx, input.Email, input.IP, false)
		s.logger.Warn("Captcha challenge failed", zap.String("email", input.Email), zap.String("ip", input.IP))
		return nil, shared.NewDomainError("FORBIDDEN", "Captcha challenge failed")
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		s.recordAdminAttempt(ctx, input.Email, input.IP, false)
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	if user.Role != identity.RoleAdmin {
		s.recordAdminAttempt(ctx, input.Email, input.IP, false)
		s.logger.Warn("Admin login attempt by non-admin", zap.String("email", input.Email))
		return nil, shared.NewDomainError("FORBIDDEN", "Admin access required")
	}
	if !user.Active {
		s.recordAdminAttempt(ctx, input.Email, input.IP, false)
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}
	if !user.VerifyPassword(input.Password) {
		s.recordAdminAttempt(ctx, input.Email, input.IP, false)
		s.logger.Warn("Invalid admin password attempt", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	s.recordAdminAttempt(ctx, input.Email, input.IP, true)

	return result, nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	if revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID); err != nil {
		s.logger.Error("Failed to check token blacklist", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh token")
	} else if revoked {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
	}
	if claims.IssuedAt != nil {
		invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			s.logger.Error("Failed to check user token invalidation", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh token")
		}
		if invalidated {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
		}
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.Active {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		AgencyID: user.AgencyID,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh token")
	}

	s.logger.Info("Token refreshed", zap.String("user_id", user.ID.String()))

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout blacklists the caller's token JTI for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
		s.logger.Error("Failed to blacklist token on logout",
			zap.String("user_id", input.UserID.String()), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}

	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))

	return nil
}

// ChangePassword changes a user's password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	s.logger.Info("User password changed", zap.String("user_id", input.UserID.String()))

	return nil
}

// PurgeStaleLoginAttempts deletes admin login attempts recorded before the
// cutoff and returns the number removed.
func (s *AuthService) PurgeStaleLoginAttempts(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := s.attempts.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to purge admin login attempts", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to purge login attempts")
	}

	s.logger.Info("Purged stale admin login attempts", zap.Int64("deleted", deleted))

	return deleted, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *identity.User) (*LoginResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		AgencyID: user.AgencyID,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	// Non-fatal; the login itself has succeeded.
	user.RecordLogin()
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login timestamp", zap.Error(err))
	}

	var agencyInfo *AgencyInfo
	if user.AgencyID != nil {
		agency, err := s.agencies.FindByID(ctx, *user.AgencyID)
		if err != nil {
			s.logger.Warn("Failed to load agency for login payload",
				zap.String("agency_id", user.AgencyID.String()), zap.Error(err))
		} else {
			agencyInfo = &AgencyInfo{
				ID:     agency.ID,
				Name:   agency.Name,
				Email:  agency.Email,
				Active: agency.Active,
			}
		}
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  userInfoFrom(user),
		Agency:                agencyInfo,
	}, nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, user *identity.User, token *identity.VerificationToken) {
	link := fmt.Sprintf("%s/api/v1/auth/verify-email?token=%s", s.baseURL, token.Token)
	body := fmt.Sprintf(
		"Hi %s,\n\nWelcome to PropertySpotter. Please confirm your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours.\n",
		user.FullName(), link)

	if err := s.email.Send(ctx, user.Email, "Verify your PropertySpotter account", body); err != nil {
		s.logger.Warn("Failed to send verification email",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}

func (s *AuthService) recordAdminAttempt(ctx context.Context, email, ip string, success bool) {
	attempt := identity.NewAdminLoginAttempt(email, ip, success)
	if err := s.attempts.Save(ctx, attempt); err != nil {
		s.logger.Error("Failed to record admin login attempt", zap.Error(err))
	}
}

func userInfoFrom(user *identity.User) UserInfo {
	return UserInfo{
		ID:              user.ID,
		Email:           user.Email,
		Username:        user.Username,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Phone:           user.Phone,
		Role:            user.Role,
		AgencyID:        user.AgencyID,
		Active:          user.Active,
		ProfileComplete: user.ProfileComplete,
		ProfileImageURL: user.ProfileImageURL,
	}
}
