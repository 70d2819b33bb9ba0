package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Agency represents a real-estate agency that receives and works leads.
// It is the aggregate root for agency membership and licensing.
type Agency struct {
	shared.BaseAggregateRoot
	Name              string
	Email             string
	Phone             string
	Address           string
	Active            bool
	LicenseValidUntil *time.Time
	MasterUserID      *uuid.UUID
}

// NewAgency creates a new active agency
func NewAgency(name, email string) (*Agency, error) {
	if err := validateAgencyName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	agency := &Agency{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Active:            true,
	}

	agency.AddDomainEvent(NewAgencyCreatedEvent(agency))

	return agency, nil
}

// Update updates the agency's contact details
func (a *Agency) Update(name, phone, address string) error {
	if err := validateAgencyName(name); err != nil {
		return err
	}
	if phone != "" && len(phone) > 20 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 20 characters")
	}

	a.Name = strings.TrimSpace(name)
	a.Phone = strings.TrimSpace(phone)
	a.Address = address
	a.Touch()

	return nil
}

// SetLicenseValidUntil records when the agency's license expires
func (a *Agency) SetLicenseValidUntil(until *time.Time) {
	a.LicenseValidUntil = until
	a.Touch()
}

// SetMasterUser links the agency's master agent account
func (a *Agency) SetMasterUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER_ID", "Master user ID cannot be empty")
	}
	a.MasterUserID = &userID
	a.Touch()
	return nil
}

// Deactivate marks the agency inactive; its agents can no longer receive leads
func (a *Agency) Deactivate() error {
	if !a.Active {
		return shared.NewDomainError("INVALID_STATE", "Agency is already inactive")
	}
	a.Active = false
	a.Touch()
	return nil
}

// Activate re-enables an inactive agency
func (a *Agency) Activate() error {
	if a.Active {
		return shared.NewDomainError("INVALID_STATE", "Agency is already active")
	}
	a.Active = true
	a.Touch()
	return nil
}

// LicenseExpired reports whether the agency license has lapsed
func (a *Agency) LicenseExpired() bool {
	return a.LicenseValidUntil != nil && a.LicenseValidUntil.Before(time.Now())
}

func validateAgencyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Agency name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Agency name cannot exceed 100 characters")
	}
	return nil
}
