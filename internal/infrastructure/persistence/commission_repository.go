package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propertyspotter/backend/internal/domain/commission"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/persistence/models"
)

// GormCommissionRepository implements commission.Repository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindByID finds a commission by its ID
func (r *GormCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*commission.Commission, error) {
	var model models.CommissionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLead finds the commission derived from a lead
func (r *GormCommissionRepository) FindByLead(ctx context.Context, leadID uuid.UUID) (*commission.Commission, error) {
	var model models.CommissionModel
	if err := r.db.WithContext(ctx).Where("lead_id = ?", leadID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySpotter finds commissions owed to a spotter
func (r *GormCommissionRepository) FindBySpotter(ctx context.Context, spotterID uuid.UUID, filter shared.Filter) (*shared.Paginated[commission.Commission], error) {
	return r.paginate(ctx, filter, "spotter_id = ?", spotterID)
}

// FindByAgency finds commissions owed by an agency
func (r *GormCommissionRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) (*shared.Paginated[commission.Commission], error) {
	return r.paginate(ctx, filter, "agency_id = ?", agencyID)
}

// FindByAgent finds commissions earned on an agent's closed leads
func (r *GormCommissionRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) (*shared.Paginated[commission.Commission], error) {
	return r.paginate(ctx, filter, "agent_id = ?", agentID)
}

// FindByStatus finds commissions in the given status
func (r *GormCommissionRepository) FindByStatus(ctx context.Context, status commission.Status, filter shared.Filter) (*shared.Paginated[commission.Commission], error) {
	return r.paginate(ctx, filter, "status = ?", status)
}

// FindAll finds all commissions matching the filter
func (r *GormCommissionRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[commission.Commission], error) {
	return r.paginate(ctx, filter, "")
}

// Save creates or updates a commission
func (r *GormCommissionRepository) Save(ctx context.Context, c *commission.Commission) error {
	model := models.CommissionModelFromDomain(c)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts all commissions
func (r *GormCommissionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CommissionModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumSpotterEarnings sums spotter amounts for a spotter in the given status
func (r *GormCommissionRepository) SumSpotterEarnings(ctx context.Context, spotterID uuid.UUID, status commission.Status) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&models.CommissionModel{}).
		Select("COALESCE(SUM(spotter_amount), 0)").
		Where("spotter_id = ? AND status = ?", spotterID, status).
		Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *GormCommissionRepository) paginate(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) (*shared.Paginated[commission.Commission], error) {
	normalizePaging(&filter)

	base := r.db.WithContext(ctx).Model(&models.CommissionModel{})
	if cond != "" {
		base = base.Where(cond, args...)
	}

	var total int64
	if err := r.applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var commissionModels []models.CommissionModel
	if err := r.applyFilter(base, filter).Find(&commissionModels).Error; err != nil {
		return nil, err
	}

	commissions := make([]commission.Commission, len(commissionModels))
	for i, model := range commissionModels {
		commissions[i] = *model.ToDomain()
	}

	page := shared.NewPaginated(commissions, total, filter.Page, filter.PageSize)
	return &page, nil
}

// applyFilter applies filter options to the query
func (r *GormCommissionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, CommissionSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	offset := (filter.Page - 1) * filter.PageSize
	return query.Offset(offset).Limit(filter.PageSize)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCommissionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "spotter_id":
			query = query.Where("spotter_id = ?", value)
		case "agency_id":
			query = query.Where("agency_id = ?", value)
		}
	}

	return query
}

// Ensure GormCommissionRepository implements commission.Repository
var _ commission.Repository = (*GormCommissionRepository)(nil)
