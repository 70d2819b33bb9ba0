package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propertyspotter/backend/internal/domain/listing"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/persistence/models"
)

// GormListingRepository implements listing.Repository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID finds a listing by its ID, with its images attached
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var model models.ListingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	l := model.ToDomain()

	var imageModels []models.ListingImageModel
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", id).
		Order("sort_order ASC, created_at ASC").
		Find(&imageModels).Error; err != nil {
		return nil, err
	}
	images := make([]listing.Image, len(imageModels))
	for i, im := range imageModels {
		images[i] = *im.ToDomain()
	}
	l.Images = images

	return l, nil
}

// FindByAgent finds listings owned by an agent
func (r *GormListingRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (*shared.Paginated[listing.Listing], error) {
	return r.paginate(ctx, filter, "agent_id = ?", agentID)
}

// FindPublished finds publicly visible listings
func (r *GormListingRepository) FindPublished(ctx context.Context, filter shared.Filter) (*shared.Paginated[listing.Listing], error) {
	return r.paginate(ctx, filter, "status = ?", listing.StatusPublished)
}

// FindAll finds all listings matching the filter
func (r *GormListingRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[listing.Listing], error) {
	return r.paginate(ctx, filter, "")
}

// Save creates or updates a listing
func (r *GormListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	model := models.ListingModelFromDomain(l)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a listing and its images
func (r *GormListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ListingImageModel{}, "listing_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ListingModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts all listings
func (r *GormListingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ListingModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveImage creates or updates a listing image
func (r *GormListingRepository) SaveImage(ctx context.Context, image *listing.Image) error {
	model := &models.ListingImageModel{}
	model.FromDomain(image)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteImage deletes a listing image
func (r *GormListingRepository) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ListingImageModel{}, "id = ?", imageID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IncrementViewCount bumps the view counter without loading the aggregate
func (r *GormListingRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ListingModel{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *GormListingRepository) paginate(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) (*shared.Paginated[listing.Listing], error) {
	normalizePaging(&filter)

	base := r.db.WithContext(ctx).Model(&models.ListingModel{})
	if cond != "" {
		base = base.Where(cond, args...)
	}

	var total int64
	if err := r.applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var listingModels []models.ListingModel
	if err := r.applyFilter(base, filter).Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]listing.Listing, len(listingModels))
	for i, model := range listingModels {
		listings[i] = *model.ToDomain()
	}

	page := shared.NewPaginated(listings, total, filter.Page, filter.PageSize)
	return &page, nil
}

// applyFilter applies filter options to the query
func (r *GormListingRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, ListingSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	offset := (filter.Page - 1) * filter.PageSize
	return query.Offset(offset).Limit(filter.PageSize)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormListingRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(title ILIKE ? OR suburb ILIKE ? OR city ILIKE ?)",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "province":
			query = query.Where("province = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		case "agency_id":
			query = query.Where("agency_id = ?", value)
		case "min_bedrooms":
			query = query.Where("bedrooms >= ?", value)
		case "max_price":
			query = query.Where("price <= ?", value)
		case "min_price":
			query = query.Where("price >= ?", value)
		}
	}

	return query
}

// Ensure GormListingRepository implements listing.Repository
var _ listing.Repository = (*GormListingRepository)(nil)
