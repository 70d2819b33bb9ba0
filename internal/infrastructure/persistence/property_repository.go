package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propertyspotter/backend/internal/domain/property"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/persistence/models"
)

// normalizePaging clamps filter paging to sane values so that offset and
// total-page arithmetic never divide by zero.
func normalizePaging(filter *shared.Filter) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
}

// GormPropertyRepository implements property.Repository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID finds a property by its ID
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	var model models.PropertyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAgent finds properties owned by an agent
func (r *GormPropertyRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (*shared.Paginated[property.Property], error) {
	return r.paginate(ctx, filter, "agent_id = ?", agentID)
}

// FindByLead finds the property created from a lead
func (r *GormPropertyRepository) FindByLead(ctx context.Context, leadID uuid.UUID) (*property.Property, error) {
	var model models.PropertyModel
	if err := r.db.WithContext(ctx).Where("lead_id = ?", leadID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all properties matching the filter
func (r *GormPropertyRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[property.Property], error) {
	return r.paginate(ctx, filter, "")
}

// Save creates or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	model := models.PropertyModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a property
func (r *GormPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PropertyModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts all properties
func (r *GormPropertyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PropertyModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPropertyRepository) paginate(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) (*shared.Paginated[property.Property], error) {
	normalizePaging(&filter)

	base := r.db.WithContext(ctx).Model(&models.PropertyModel{})
	if cond != "" {
		base = base.Where(cond, args...)
	}

	var total int64
	if err := r.applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var propertyModels []models.PropertyModel
	if err := r.applyFilter(base, filter).Find(&propertyModels).Error; err != nil {
		return nil, err
	}

	properties := make([]property.Property, len(propertyModels))
	for i, model := range propertyModels {
		properties[i] = *model.ToDomain()
	}

	page := shared.NewPaginated(properties, total, filter.Page, filter.PageSize)
	return &page, nil
}

// applyFilter applies filter options to the query
func (r *GormPropertyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, PropertySortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	offset := (filter.Page - 1) * filter.PageSize
	return query.Offset(offset).Limit(filter.PageSize)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPropertyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(address ILIKE ? OR suburb ILIKE ? OR city ILIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "property_type":
			query = query.Where("property_type = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		case "province":
			query = query.Where("province = ?", value)
		}
	}

	return query
}

// Ensure GormPropertyRepository implements property.Repository
var _ property.Repository = (*GormPropertyRepository)(nil)
