package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/identity"
)

// RegisterInput contains the input for user registration
type RegisterInput struct {
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Phone           string
	Role            identity.Role
}

// RegisterResult contains the result of a successful registration
type RegisterResult struct {
	UserID uuid.UUID
	Email  string
}

// VerifyEmailInput contains the input for email verification
type VerifyEmailInput struct {
	Token string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
	Agency                *AgencyInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID              uuid.UUID
	Email           string
	Username        string
	FirstName       string
	LastName        string
	Phone           string
	Role            identity.Role
	AgencyID        *uuid.UUID
	Active          bool
	ProfileComplete bool
	ProfileImageURL string
}

// AgencyInfo contains basic agency information returned with agency users
type AgencyInfo struct {
	ID     uuid.UUID
	Name   string
	Email  string
	Active bool
}

// AdminLoginInput contains the input for the Turnstile-gated admin login
type AdminLoginInput struct {
	Email        string
	Password     string
	CaptchaToken string
	IP           string
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TokenTTL time.Duration // Remaining lifetime of the access token
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UpdateProfileInput contains the input for profile updates
type UpdateProfileInput struct {
	UserID          uuid.UUID
	FirstName       string
	LastName        string
	Phone           string
	ProfileImageURL string
}

// BankingDetailsInput contains the input for payout account updates
type BankingDetailsInput struct {
	UserID        uuid.UUID
	BankName      string
	BranchCode    string
	AccountNumber string
	AccountName   string
	AccountType   string
}

// ListUsersInput contains the input for user listing
type ListUsersInput struct {
	Role     identity.Role // Optional role filter
	AgencyID *uuid.UUID    // Optional agency filter
	Page     int
	PageSize int
	Search   string
}

// ListUsersResult contains a page of users plus the total count
type ListUsersResult struct {
	Users []UserInfo
	Total int64
}

// ApproveUserInput contains the input for admin approval of an account
type ApproveUserInput struct {
	UserID     uuid.UUID
	ApprovedBy uuid.UUID
}

// CreateAgencyInput contains the input for agency creation
type CreateAgencyInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// UpdateAgencyInput contains the input for agency updates
type UpdateAgencyInput struct {
	AgencyID uuid.UUID
	Name     string
	Phone    string
	Address  string
}

// InviteAgentInput contains the input for inviting an agent into an agency
type InviteAgentInput struct {
	AgencyID  uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Phone     string
	InvitedBy uuid.UUID
}

// InviteAgentResult contains the issued invitation token
type InviteAgentResult struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}

// AcceptInvitationInput contains the input for accepting an agency invitation
type AcceptInvitationInput struct {
	Token    string
	Username string
	Password string
}

// AcceptInvitationResult contains the agent account created from an invitation
type AcceptInvitationResult struct {
	UserID   uuid.UUID
	AgencyID uuid.UUID
	Email    string
}
