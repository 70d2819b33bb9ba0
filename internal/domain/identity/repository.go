package identity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByAgency finds users belonging to an agency
	FindByAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]User, error)

	// FindByRole finds users with the given role
	FindByRole(ctx context.Context, role Role, filter shared.Filter) ([]User, error)

	// FindAll finds all users matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// ExistsByEmail checks whether a user with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts users matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// AgencyRepository defines the interface for agency persistence
type AgencyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Agency, error)
	FindByName(ctx context.Context, name string) (*Agency, error)
	FindByEmail(ctx context.Context, email string) (*Agency, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Agency, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, agency *Agency) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// VerificationTokenRepository defines the interface for verification token persistence
type VerificationTokenRepository interface {
	FindByToken(ctx context.Context, token string) (*VerificationToken, error)
	Save(ctx context.Context, token *VerificationToken) error
	DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error)
}

// InvitationTokenRepository defines the interface for invitation token persistence
type InvitationTokenRepository interface {
	FindByToken(ctx context.Context, token string) (*InvitationToken, error)
	FindByEmail(ctx context.Context, email string) (*InvitationToken, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, token *InvitationToken) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminLoginAttemptRepository defines the interface for admin login attempt persistence
type AdminLoginAttemptRepository interface {
	Save(ctx context.Context, attempt *AdminLoginAttempt) error
	CountRecentFailures(ctx context.Context, email, ipAddress string, since time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
