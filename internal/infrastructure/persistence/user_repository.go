package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/persistence/models"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by its ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAgency finds users belonging to an agency
func (r *GormUserRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	var userModels []models.UserModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.UserModel{}).Where("agency_id = ?", agencyID),
		filter,
	)

	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(userModels), nil
}

// FindByRole finds users with the given role
func (r *GormUserRepository) FindByRole(ctx context.Context, role identity.Role, filter shared.Filter) ([]identity.User, error) {
	var userModels []models.UserModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.UserModel{}).Where("role = ?", role),
		filter,
	)

	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(userModels), nil
}

// FindAll finds all users matching the filter
func (r *GormUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	var userModels []models.UserModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)

	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(userModels), nil
}

// ExistsByEmail checks if a user with the given email exists
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts users matching the filter
func (r *GormUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.UserModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormUserRepository) toDomainSlice(userModels []models.UserModel) []identity.User {
	users := make([]identity.User, len(userModels))
	for i, model := range userModels {
		users[i] = *model.ToDomain()
	}
	return users
}

// applyFilter applies filter options to the query
func (r *GormUserRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, UserSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormUserRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR username ILIKE ?)",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "role":
			query = query.Where("role = ?", value)
		case "active":
			query = query.Where("active = ?", value)
		case "agency_id":
			query = query.Where("agency_id = ?", value)
		case "profile_complete":
			query = query.Where("profile_complete = ?", value)
		}
	}

	return query
}

// Ensure GormUserRepository implements UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
