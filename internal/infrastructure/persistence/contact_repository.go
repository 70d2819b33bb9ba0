package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propertyspotter/backend/internal/domain/contact"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/persistence/models"
)

// GormContactRepository implements contact.Repository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact message by its ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*contact.Message, error) {
	var model models.ContactMessageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all contact messages matching the filter
func (r *GormContactRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[contact.Message], error) {
	return r.paginate(ctx, filter, "")
}

// FindUnresolved finds contact messages not yet resolved by an admin
func (r *GormContactRepository) FindUnresolved(ctx context.Context, filter shared.Filter) (*shared.Paginated[contact.Message], error) {
	return r.paginate(ctx, filter, "resolved_at IS NULL")
}

// Save creates or updates a contact message
func (r *GormContactRepository) Save(ctx context.Context, message *contact.Message) error {
	model := models.ContactMessageModelFromDomain(message)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a contact message
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContactMessageModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts all contact messages
func (r *GormContactRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ContactMessageModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormContactRepository) paginate(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) (*shared.Paginated[contact.Message], error) {
	normalizePaging(&filter)

	base := r.db.WithContext(ctx).Model(&models.ContactMessageModel{})
	if cond != "" {
		base = base.Where(cond, args...)
	}

	var total int64
	if err := r.applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var messageModels []models.ContactMessageModel
	if err := r.applyFilter(base, filter).Find(&messageModels).Error; err != nil {
		return nil, err
	}

	messages := make([]contact.Message, len(messageModels))
	for i, model := range messageModels {
		messages[i] = *model.ToDomain()
	}

	page := shared.NewPaginated(messages, total, filter.Page, filter.PageSize)
	return &page, nil
}

// applyFilter applies filter options to the query
func (r *GormContactRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, ContactMessageSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	offset := (filter.Page - 1) * filter.PageSize
	return query.Offset(offset).Limit(filter.PageSize)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormContactRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(name ILIKE ? OR email ILIKE ? OR subject ILIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "resolved":
			if value == true {
				query = query.Where("resolved_at IS NOT NULL")
			} else {
				query = query.Where("resolved_at IS NULL")
			}
		}
	}

	return query
}

// Ensure GormContactRepository implements contact.Repository
var _ contact.Repository = (*GormContactRepository)(nil)
