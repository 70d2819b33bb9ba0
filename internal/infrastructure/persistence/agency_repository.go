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

// GormAgencyRepository implements identity.AgencyRepository using GORM
type GormAgencyRepository struct {
	db *gorm.DB
}

// NewGormAgencyRepository creates a new GormAgencyRepository
func NewGormAgencyRepository(db *gorm.DB) *GormAgencyRepository {
	return &GormAgencyRepository{db: db}
}

// FindByID finds an agency by its ID
func (r *GormAgencyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Agency, error) {
	var model models.AgencyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds an agency by its name
func (r *GormAgencyRepository) FindByName(ctx context.Context, name string) (*identity.Agency, error) {
	var model models.AgencyModel
	if err := r.db.WithContext(ctx).
		Where("name = ?", strings.TrimSpace(name)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmail finds an agency by email
func (r *GormAgencyRepository) FindByEmail(ctx context.Context, email string) (*identity.Agency, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var model models.AgencyModel
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

// FindAll finds all agencies matching the filter
func (r *GormAgencyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Agency, error) {
	var agencyModels []models.AgencyModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AgencyModel{}), filter)

	if err := query.Find(&agencyModels).Error; err != nil {
		return nil, err
	}

	agencies := make([]identity.Agency, len(agencyModels))
	for i, model := range agencyModels {
		agencies[i] = *model.ToDomain()
	}
	return agencies, nil
}

// ExistsByName checks if an agency with the given name exists
func (r *GormAgencyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AgencyModel{}).
		Where("name = ?", strings.TrimSpace(name)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByEmail checks if an agency with the given email exists
func (r *GormAgencyRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AgencyModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an agency
func (r *GormAgencyRepository) Save(ctx context.Context, agency *identity.Agency) error {
	model := models.AgencyModelFromDomain(agency)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an agency
func (r *GormAgencyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AgencyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts agencies matching the filter
func (r *GormAgencyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.AgencyModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormAgencyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, AgencySortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormAgencyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(name ILIKE ? OR email ILIKE ?)", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	return query
}

// Ensure GormAgencyRepository implements AgencyRepository
var _ identity.AgencyRepository = (*GormAgencyRepository)(nil)
