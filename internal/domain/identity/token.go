package identity

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// VerificationTokenTTL is how long an email verification token stays valid
const VerificationTokenTTL = 24 * time.Hour

// VerificationToken is a single-use token sent to a new user's email address
type VerificationToken struct {
	shared.BaseEntity
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
}

// NewVerificationToken issues a verification token for the given user
func NewVerificationToken(userID uuid.UUID) (*VerificationToken, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	return &VerificationToken{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Token:      uuid.NewString(),
		ExpiresAt:  time.Now().Add(VerificationTokenTTL),
	}, nil
}

// IsExpired reports whether the token has lapsed
func (t *VerificationToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Consume marks the token used; expired or already-used tokens fail
func (t *VerificationToken) Consume() error {
	if t.Used {
		return shared.ErrTokenUsed
	}
	if t.IsExpired() {
		return shared.ErrTokenExpired
	}
	t.Used = true
	t.Touch()
	return nil
}

// InvitationToken invites an agent by email to join an agency
type InvitationToken struct {
	shared.BaseEntity
	Email     string
	FirstName string
	LastName  string
	Phone     string
	AgencyID  uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
}

// NewInvitationToken issues an invitation for the given email and agency
func NewInvitationToken(email, firstName, lastName, phone string, agencyID uuid.UUID, ttl time.Duration) (*InvitationToken, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if agencyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AGENCY_ID", "Agency ID cannot be empty")
	}
	token, err := randomToken(32)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_GENERATION_ERROR", "Failed to generate invitation token")
	}
	return &InvitationToken{
		BaseEntity: shared.NewBaseEntity(),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
		Phone:      strings.TrimSpace(phone),
		AgencyID:   agencyID,
		Token:      token,
		ExpiresAt:  time.Now().Add(ttl),
	}, nil
}

// IsExpired reports whether the invitation has lapsed
func (t *InvitationToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Consume marks the invitation used
func (t *InvitationToken) Consume() error {
	if t.Used {
		return shared.ErrTokenUsed
	}
	if t.IsExpired() {
		return shared.ErrTokenExpired
	}
	t.Used = true
	t.Touch()
	return nil
}

// AdminLoginAttempt records an attempt to log into the admin surface,
// successful or not, keyed by email and source IP.
type AdminLoginAttempt struct {
	shared.BaseEntity
	Email     string
	IPAddress string
	Success   bool
}

// NewAdminLoginAttempt records a single admin login attempt
func NewAdminLoginAttempt(email, ipAddress string, success bool) *AdminLoginAttempt {
	return &AdminLoginAttempt{
		BaseEntity: shared.NewBaseEntity(),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		IPAddress:  ipAddress,
		Success:    success,
	}
}

// randomToken returns a hex-encoded random token of 2n characters
func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
