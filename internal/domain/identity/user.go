package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// BankingDetails holds the payout account information for a spotter or agent
type BankingDetails struct {
	BankName      string
	BranchCode    string
	AccountNumber string
	AccountName   string
	AccountType   string
}

// IsComplete reports whether all payout fields are filled in
func (b BankingDetails) IsComplete() bool {
	return b.BankName != "" && b.BranchCode != "" && b.AccountNumber != "" &&
		b.AccountName != "" && b.AccountType != ""
}

// User represents a platform account: spotter, agent, agency admin or admin.
// New accounts are inactive until their email address is verified.
type User struct {
	shared.BaseAggregateRoot
	Email           string
	Username        string
	FirstName       string
	LastName        string
	Phone           string
	Role            Role
	AgencyID        *uuid.UUID
	PasswordHash    string
	Active          bool
	ProfileComplete bool
	ProfileImageURL string
	Banking         BankingDetails
	LastLoginAt     *time.Time
	ApprovedAt      *time.Time
	ApprovedBy      *uuid.UUID
}

// NewUser creates a new unverified user with the given role
func NewUser(email, username, password string, role Role) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Username:          strings.TrimSpace(username),
		Role:              role,
		PasswordHash:      passwordHash,
		Active:            false,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// SetName sets the user's first and last name
func (u *User) SetName(firstName, lastName string) error {
	if len(firstName) > 100 || len(lastName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Touch()
	u.recomputeProfileComplete()
	return nil
}

// SetPhone sets the user's phone number in E.164 form
func (u *User) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone != "" && len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 20 characters")
	}
	u.Phone = phone
	u.Touch()
	u.recomputeProfileComplete()
	return nil
}

// SetProfileImageURL sets the stored URL of the user's profile image
func (u *User) SetProfileImageURL(url string) error {
	if len(url) > 255 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Profile image URL cannot exceed 255 characters")
	}
	u.ProfileImageURL = url
	u.Touch()
	return nil
}

// SetBankingDetails updates the payout account fields
func (u *User) SetBankingDetails(details BankingDetails) {
	u.Banking = details
	u.Touch()
	u.recomputeProfileComplete()
}

// AttachToAgency binds an agency-role user to an agency
func (u *User) AttachToAgency(agencyID uuid.UUID) error {
	if agencyID == uuid.Nil {
		return shared.NewDomainError("INVALID_AGENCY_ID", "Agency ID cannot be empty")
	}
	if !u.Role.IsAgencyRole() {
		return shared.NewDomainError("INVALID_ROLE", "Only agency roles can belong to an agency")
	}
	u.AgencyID = &agencyID
	u.Touch()
	return nil
}

// Activate marks the account verified and usable
func (u *User) Activate() error {
	if u.Active {
		return shared.NewDomainError("INVALID_STATE", "User is already active")
	}
	u.Active = true
	u.Touch()
	u.AddDomainEvent(NewUserActivatedEvent(u))
	return nil
}

// Deactivate disables the account
func (u *User) Deactivate() error {
	if !u.Active {
		return shared.NewDomainError("INVALID_STATE", "User is already inactive")
	}
	u.Active = false
	u.Touch()
	return nil
}

// Approve records an admin's approval of the account
func (u *User) Approve(approvedBy uuid.UUID) error {
	if u.ApprovedAt != nil {
		return shared.NewDomainError("INVALID_STATE", "User is already approved")
	}
	now := time.Now()
	u.ApprovedAt = &now
	u.ApprovedBy = &approvedBy
	u.Touch()
	return nil
}

// VerifyPassword verifies the provided password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword changes the password after verifying the current one
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(next)
}

// SetPassword sets a new password without checking the old one (admin reset)
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// RecordLogin stamps a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.Touch()
}

// FullName returns the user's display name
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// recomputeProfileComplete keeps the profile_complete flag in sync with the
// fields a spotter needs before a commission can be paid out.
func (u *User) recomputeProfileComplete() {
	u.ProfileComplete = u.FirstName != "" && u.LastName != "" && u.Phone != "" && u.Banking.IsComplete()
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	return nil
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) > 150 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 150 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates input beyond 72 bytes
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
