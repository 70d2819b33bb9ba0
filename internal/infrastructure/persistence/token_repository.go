package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/persistence/models"
)

// GormVerificationTokenRepository implements identity.VerificationTokenRepository using GORM
type GormVerificationTokenRepository struct {
	db *gorm.DB
}

// NewGormVerificationTokenRepository creates a new GormVerificationTokenRepository
func NewGormVerificationTokenRepository(db *gorm.DB) *GormVerificationTokenRepository {
	return &GormVerificationTokenRepository{db: db}
}

// FindByToken finds a verification token by its token string
func (r *GormVerificationTokenRepository) FindByToken(ctx context.Context, token string) (*identity.VerificationToken, error) {
	var model models.VerificationTokenModel
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a verification token
func (r *GormVerificationTokenRepository) Save(ctx context.Context, token *identity.VerificationToken) error {
	model := &models.VerificationTokenModel{}
	model.FromDomain(token)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteExpired removes tokens that expired before the given time
func (r *GormVerificationTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&models.VerificationTokenModel{}, "expires_at < ?", olderThan)
	return result.RowsAffected, result.Error
}

// GormInvitationTokenRepository implements identity.InvitationTokenRepository using GORM
type GormInvitationTokenRepository struct {
	db *gorm.DB
}

// NewGormInvitationTokenRepository creates a new GormInvitationTokenRepository
func NewGormInvitationTokenRepository(db *gorm.DB) *GormInvitationTokenRepository {
	return &GormInvitationTokenRepository{db: db}
}

// FindByToken finds an invitation by its token string
func (r *GormInvitationTokenRepository) FindByToken(ctx context.Context, token string) (*identity.InvitationToken, error) {
	var model models.InvitationTokenModel
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds the most recent invitation for an email address
func (r *GormInvitationTokenRepository) FindByEmail(ctx context.Context, email string) (*identity.InvitationToken, error) {
	var model models.InvitationTokenModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByEmail checks whether an unused, unexpired invitation exists for the email
func (r *GormInvitationTokenRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvitationTokenModel{}).
		Where("email = ? AND used = ? AND expires_at > ?",
			strings.ToLower(strings.TrimSpace(email)), false, time.Now()).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an invitation
func (r *GormInvitationTokenRepository) Save(ctx context.Context, token *identity.InvitationToken) error {
	model := &models.InvitationTokenModel{}
	model.FromDomain(token)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an invitation
func (r *GormInvitationTokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InvitationTokenModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormAdminLoginAttemptRepository implements identity.AdminLoginAttemptRepository using GORM
type GormAdminLoginAttemptRepository struct {
	db *gorm.DB
}

// NewGormAdminLoginAttemptRepository creates a new GormAdminLoginAttemptRepository
func NewGormAdminLoginAttemptRepository(db *gorm.DB) *GormAdminLoginAttemptRepository {
	return &GormAdminLoginAttemptRepository{db: db}
}

// Save records a login attempt
func (r *GormAdminLoginAttemptRepository) Save(ctx context.Context, attempt *identity.AdminLoginAttempt) error {
	model := &models.AdminLoginAttemptModel{}
	model.FromDomain(attempt)
	return r.db.WithContext(ctx).Save(model).Error
}

// CountRecentFailures counts failed attempts for the email or IP since the given time
func (r *GormAdminLoginAttemptRepository) CountRecentFailures(ctx context.Context, email, ipAddress string, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AdminLoginAttemptModel{}).
		Where("(email = ? OR ip_address = ?) AND success = ? AND created_at > ?",
			strings.ToLower(strings.TrimSpace(email)), ipAddress, false, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteOlderThan prunes attempts recorded before the cutoff
func (r *GormAdminLoginAttemptRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&models.AdminLoginAttemptModel{}, "created_at < ?", cutoff)
	return result.RowsAffected, result.Error
}

var (
	_ identity.VerificationTokenRepository = (*GormVerificationTokenRepository)(nil)
	_ identity.InvitationTokenRepository   = (*GormInvitationTokenRepository)(nil)
	_ identity.AdminLoginAttemptRepository = (*GormAdminLoginAttemptRepository)(nil)
)
