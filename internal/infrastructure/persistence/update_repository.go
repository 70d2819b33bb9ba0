package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/domain/update"
	"github.com/propertyspotter/backend/internal/infrastructure/persistence/models"
)

// GormUpdateRepository implements update.Repository using GORM
type GormUpdateRepository struct {
	db *gorm.DB
}

// NewGormUpdateRepository creates a new GormUpdateRepository
func NewGormUpdateRepository(db *gorm.DB) *GormUpdateRepository {
	return &GormUpdateRepository{db: db}
}

// FindByID finds an update by its ID
func (r *GormUpdateRepository) FindByID(ctx context.Context, id uuid.UUID) (*update.Update, error) {
	var model models.LeadUpdateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProviderSID finds the update matching a provider message SID.
// Provider status callbacks are correlated through this lookup.
func (r *GormUpdateRepository) FindByProviderSID(ctx context.Context, sid string) (*update.Update, error) {
	if sid == "" {
		return nil, shared.ErrNotFound
	}
	var model models.LeadUpdateModel
	if err := r.db.WithContext(ctx).Where("provider_sid = ?", sid).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLead finds all updates on a lead, oldest first
func (r *GormUpdateRepository) FindByLead(ctx context.Context, leadID uuid.UUID) ([]update.Update, error) {
	var updateModels []models.LeadUpdateModel
	if err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at ASC").
		Find(&updateModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(updateModels), nil
}

// FindByRecipient finds updates addressed to a user
func (r *GormUpdateRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) (*shared.Paginated[update.Update], error) {
	normalizePaging(&filter)

	base := r.db.WithContext(ctx).Model(&models.LeadUpdateModel{}).
		Where("recipient_id = ?", recipientID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	sortField := ValidateSortField(filter.OrderBy, UpdateSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	offset := (filter.Page - 1) * filter.PageSize

	var updateModels []models.LeadUpdateModel
	if err := base.Order(fmt.Sprintf("%s %s", sortField, sortOrder)).
		Offset(offset).Limit(filter.PageSize).
		Find(&updateModels).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(r.toDomainSlice(updateModels), total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindPending finds updates awaiting dispatch, oldest first
func (r *GormUpdateRepository) FindPending(ctx context.Context, limit int) ([]update.Update, error) {
	if limit <= 0 {
		limit = 50
	}
	var updateModels []models.LeadUpdateModel
	if err := r.db.WithContext(ctx).
		Where("delivery = ?", update.DeliveryPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&updateModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(updateModels), nil
}

// Save creates or updates an update
func (r *GormUpdateRepository) Save(ctx context.Context, u *update.Update) error {
	model := models.LeadUpdateModelFromDomain(u)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts all updates
func (r *GormUpdateRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LeadUpdateModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormUpdateRepository) toDomainSlice(updateModels []models.LeadUpdateModel) []update.Update {
	updates := make([]update.Update, len(updateModels))
	for i, model := range updateModels {
		updates[i] = *model.ToDomain()
	}
	return updates
}

// Ensure GormUpdateRepository implements update.Repository
var _ update.Repository = (*GormUpdateRepository)(nil)
