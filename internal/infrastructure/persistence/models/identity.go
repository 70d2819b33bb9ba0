package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Email              string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Username           string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	FirstName          string        `gorm:"type:varchar(100)"`
	LastName           string        `gorm:"type:varchar(100)"`
	Phone              string        `gorm:"type:varchar(20)"`
	Role               identity.Role `gorm:"type:varchar(30);not null;index"`
	AgencyID           *uuid.UUID    `gorm:"type:uuid;index"`
	PasswordHash       string        `gorm:"type:varchar(255);not null"`
	Active             bool          `gorm:"not null;default:false;index"`
	ProfileComplete    bool          `gorm:"not null;default:false"`
	ProfileImageURL    string        `gorm:"type:varchar(500)"`
	BankName           string        `gorm:"type:varchar(100)"`
	BankBranchCode     string        `gorm:"type:varchar(20)"`
	BankAccountNumber  string        `gorm:"type:varchar(30)"`
	BankAccountName    string        `gorm:"type:varchar(100)"`
	BankAccountType    string        `gorm:"type:varchar(30)"`
	LastLoginAt        *time.Time    `gorm:"index"`
	ApprovedAt         *time.Time
	ApprovedBy         *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		Username:          m.Username,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Phone:             m.Phone,
		Role:              m.Role,
		AgencyID:          m.AgencyID,
		PasswordHash:      m.PasswordHash,
		Active:            m.Active,
		ProfileComplete:   m.ProfileComplete,
		ProfileImageURL:   m.ProfileImageURL,
		Banking: identity.BankingDetails{
			BankName:      m.BankName,
			BranchCode:    m.BankBranchCode,
			AccountNumber: m.BankAccountNumber,
			AccountName:   m.BankAccountName,
			AccountType:   m.BankAccountType,
		},
		LastLoginAt: m.LastLoginAt,
		ApprovedAt:  m.ApprovedAt,
		ApprovedBy:  m.ApprovedBy,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.Username = u.Username
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Phone = u.Phone
	m.Role = u.Role
	m.AgencyID = u.AgencyID
	m.PasswordHash = u.PasswordHash
	m.Active = u.Active
	m.ProfileComplete = u.ProfileComplete
	m.ProfileImageURL = u.ProfileImageURL
	m.BankName = u.Banking.BankName
	m.BankBranchCode = u.Banking.BranchCode
	m.BankAccountNumber = u.Banking.AccountNumber
	m.BankAccountName = u.Banking.AccountName
	m.BankAccountType = u.Banking.AccountType
	m.LastLoginAt = u.LastLoginAt
	m.ApprovedAt = u.ApprovedAt
	m.ApprovedBy = u.ApprovedBy
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// AgencyModel is the persistence model for the Agency domain entity.
type AgencyModel struct {
	AggregateModel
	Name              string     `gorm:"type:varchar(200);not null;index"`
	Email             string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone             string     `gorm:"type:varchar(20)"`
	Address           string     `gorm:"type:text"`
	Active            bool       `gorm:"not null;default:true;index"`
	LicenseValidUntil *time.Time `gorm:"index"`
	MasterUserID      *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (AgencyModel) TableName() string {
	return "agencies"
}

// ToDomain converts the persistence model to a domain Agency entity.
func (m *AgencyModel) ToDomain() *identity.Agency {
	return &identity.Agency{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		Active:            m.Active,
		LicenseValidUntil: m.LicenseValidUntil,
		MasterUserID:      m.MasterUserID,
	}
}

// FromDomain populates the persistence model from a domain Agency entity.
func (m *AgencyModel) FromDomain(a *identity.Agency) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Name = a.Name
	m.Email = a.Email
	m.Phone = a.Phone
	m.Address = a.Address
	m.Active = a.Active
	m.LicenseValidUntil = a.LicenseValidUntil
	m.MasterUserID = a.MasterUserID
}

// AgencyModelFromDomain creates a new persistence model from a domain Agency entity.
func AgencyModelFromDomain(a *identity.Agency) *AgencyModel {
	m := &AgencyModel{}
	m.FromDomain(a)
	return m
}

// VerificationTokenModel is the persistence model for email verification tokens.
type VerificationTokenModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Used      bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (VerificationTokenModel) TableName() string {
	return "verification_tokens"
}

// ToDomain converts the persistence model to a domain VerificationToken.
func (m *VerificationTokenModel) ToDomain() *identity.VerificationToken {
	return &identity.VerificationToken{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Token:      m.Token,
		ExpiresAt:  m.ExpiresAt,
		Used:       m.Used,
	}
}

// FromDomain populates the persistence model from a domain VerificationToken.
func (m *VerificationTokenModel) FromDomain(t *identity.VerificationToken) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.UserID = t.UserID
	m.Token = t.Token
	m.ExpiresAt = t.ExpiresAt
	m.Used = t.Used
}

// InvitationTokenModel is the persistence model for agency invitations.
type InvitationTokenModel struct {
	BaseModel
	Email     string    `gorm:"type:varchar(200);not null;index"`
	FirstName string    `gorm:"type:varchar(100)"`
	LastName  string    `gorm:"type:varchar(100)"`
	Phone     string    `gorm:"type:varchar(20)"`
	AgencyID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null;index"`
	Used      bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (InvitationTokenModel) TableName() string {
	return "invitation_tokens"
}

// ToDomain converts the persistence model to a domain InvitationToken.
func (m *InvitationTokenModel) ToDomain() *identity.InvitationToken {
	return &identity.InvitationToken{
		BaseEntity: m.BaseModel.ToDomain(),
		Email:      m.Email,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Phone:      m.Phone,
		AgencyID:   m.AgencyID,
		Token:      m.Token,
		ExpiresAt:  m.ExpiresAt,
		Used:       m.Used,
	}
}

// FromDomain populates the persistence model from a domain InvitationToken.
func (m *InvitationTokenModel) FromDomain(t *identity.InvitationToken) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Email = t.Email
	m.FirstName = t.FirstName
	m.LastName = t.LastName
	m.Phone = t.Phone
	m.AgencyID = t.AgencyID
	m.Token = t.Token
	m.ExpiresAt = t.ExpiresAt
	m.Used = t.Used
}

// AdminLoginAttemptModel records admin login attempts for rate limiting and
// auditing.
type AdminLoginAttemptModel struct {
	BaseModel
	Email     string `gorm:"type:varchar(200);not null;index"`
	IPAddress string `gorm:"type:varchar(45);not null;index"`
	Success   bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AdminLoginAttemptModel) TableName() string {
	return "admin_login_attempts"
}

// ToDomain converts the persistence model to a domain AdminLoginAttempt.
func (m *AdminLoginAttemptModel) ToDomain() *identity.AdminLoginAttempt {
	return &identity.AdminLoginAttempt{
		BaseEntity: m.BaseModel.ToDomain(),
		Email:      m.Email,
		IPAddress:  m.IPAddress,
		Success:    m.Success,
	}
}

// FromDomain populates the persistence model from a domain AdminLoginAttempt.
func (m *AdminLoginAttemptModel) FromDomain(a *identity.AdminLoginAttempt) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Email = a.Email
	m.IPAddress = a.IPAddress
	m.Success = a.Success
}
