package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/auth"
)

// UserService handles profile and account administration operations
type UserService struct {
	users      identity.UserRepository
	blacklist  auth.TokenBlacklist
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	users identity.UserRepository,
	blacklist auth.TokenBlacklist,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:      users,
		blacklist:  blacklist,
		jwtService: jwtService,
		logger:     logger,
	}
}

// GetUser returns a single user by ID
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	info := userInfoFrom(user)
	return &info, nil
}

// UpdateProfile updates the caller's own profile fields
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.SetName(input.FirstName, input.LastName); err != nil {
		return nil, err
	}
	if err := user.SetPhone(input.Phone); err != nil {
		return nil, err
	}
	if input.ProfileImageURL != "" {
		if err := user.SetProfileImageURL(input.ProfileImageURL); err != nil {
			return nil, err
		}
	}

	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save profile update", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	s.logger.Info("Profile updated", zap.String("user_id", user.ID.String()))

	info := userInfoFrom(user)
	return &info, nil
}

// SetBankingDetails updates the caller's payout account and recomputes the
// profile-complete flag
func (s *UserService) SetBankingDetails(ctx context.Context, input BankingDetailsInput) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	user.SetBankingDetails(identity.BankingDetails{
		BankName:      input.BankName,
		BranchCode:    input.BranchCode,
		AccountNumber: input.AccountNumber,
		AccountName:   input.AccountName,
		AccountType:   input.AccountType,
	})

	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save banking details", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update banking details")
	}

	s.logger.Info("Banking details updated",
		zap.String("user_id", user.ID.String()),
		zap.Bool("profile_complete", user.ProfileComplete))

	info := userInfoFrom(user)
	return &info, nil
}

// ListUsers returns a page of users, optionally filtered by role or agency
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) (*ListUsersResult, error) {
	filter := shared.DefaultFilter()
	if input.Page > 0 {
		filter.Page = input.Page
	}
	if input.PageSize > 0 {
		filter.PageSize = input.PageSize
	}
	filter.Search = input.Search
	if input.Role != "" {
		filter.Filters["role"] = string(input.Role)
	}
	if input.AgencyID != nil {
		filter.Filters["agency_id"] = *input.AgencyID
	}

	users, err := s.users.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	infos := make([]UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, userInfoFrom(&users[i]))
	}
	return &ListUsersResult{Users: infos, Total: total}, nil
}

// ApproveUser records an admin's approval of an account
func (s *UserService) ApproveUser(ctx context.Context, input ApproveUserInput) error {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.Approve(input.ApprovedBy); err != nil {
		return err
	}

	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user approval", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to approve user")
	}

	s.logger.Info("User approved",
		zap.String("user_id", input.UserID.String()),
		zap.String("approved_by", input.ApprovedBy.String()))

	return nil
}

// DeactivateUser disables an account and revokes all of its live tokens
func (s *UserService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.Deactivate(); err != nil {
		return err
	}

	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user deactivation", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to deactivate user")
	}

	// Outstanding tokens stay valid until their natural expiry unless
	// revoked here; use the refresh lifetime as the upper bound.
	ttl := s.jwtService.GetRefreshTokenExpiration()
	if err := s.blacklist.AddUserTokensToBlacklist(ctx, id.String(), ttl); err != nil {
		s.logger.Error("Failed to revoke tokens for deactivated user",
			zap.String("user_id", id.String()), zap.Error(err))
	}

	s.logger.Info("User deactivated", zap.String("user_id", id.String()))

	return nil
}
