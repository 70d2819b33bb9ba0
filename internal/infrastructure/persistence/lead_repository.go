package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propertyspotter/backend/internal/domain/lead"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/persistence/models"
)

// GormLeadRepository implements lead.Repository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByID finds a lead by its ID
func (r *GormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*lead.Lead, error) {
	var model models.LeadModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySpotter finds leads submitted by a spotter
func (r *GormLeadRepository) FindBySpotter(ctx context.Context, spotterID uuid.UUID, filter shared.Filter) ([]lead.Lead, error) {
	return r.findWhere(ctx, filter, "spotter_id = ?", spotterID)
}

// FindByAgency finds leads routed to an agency
func (r *GormLeadRepository) FindByAgency(ctx context.Context, agencyID uuid.UUID, filter shared.Filter) ([]lead.Lead, error) {
	return r.findWhere(ctx, filter, "agency_id = ?", agencyID)
}

// FindByAgent finds leads assigned to an agent
func (r *GormLeadRepository) FindByAgent(ctx context.Context, agentID uuid.UUID, filter shared.Filter) ([]lead.Lead, error) {
	return r.findWhere(ctx, filter, "agent_id = ?", agentID)
}

// FindUnrouted finds new leads that have not been routed to any agency
func (r *GormLeadRepository) FindUnrouted(ctx context.Context, filter shared.Filter) ([]lead.Lead, error) {
	return r.findWhere(ctx, filter, "status = ? AND agency_id IS NULL", lead.StatusNew)
}

// FindAll finds all leads matching the filter
func (r *GormLeadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]lead.Lead, error) {
	var leadModels []models.LeadModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.LeadModel{}), filter)

	if err := query.Find(&leadModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(leadModels), nil
}

// Save creates or updates a lead
func (r *GormLeadRepository) Save(ctx context.Context, l *lead.Lead) error {
	model := models.LeadModelFromDomain(l)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a lead
func (r *GormLeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LeadModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts leads matching the filter
func (r *GormLeadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.LeadModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySpotter counts a spotter's leads matching the filter
func (r *GormLeadRepository) CountBySpotter(ctx context.Context, spotterID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.LeadModel{}).Where("spotter_id = ?", spotterID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLeadRepository) findWhere(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) ([]lead.Lead, error) {
	var leadModels []models.LeadModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.LeadModel{}).Where(cond, args...),
		filter,
	)

	if err := query.Find(&leadModels).Error; err != nil {
		return nil, err
	}
	return r.toDomainSlice(leadModels), nil
}

func (r *GormLeadRepository) toDomainSlice(leadModels []models.LeadModel) []lead.Lead {
	leads := make([]lead.Lead, len(leadModels))
	for i, model := range leadModels {
		leads[i] = *model.ToDomain()
	}
	return leads
}

// applyFilter applies filter options to the query
func (r *GormLeadRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, LeadSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormLeadRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "agency_id":
			query = query.Where("agency_id = ?", value)
		case "agent_id":
			query = query.Where("agent_id = ?", value)
		case "spotter_id":
			query = query.Where("spotter_id = ?", value)
		}
	}

	return query
}

// GormLeadNoteRepository implements lead.NoteRepository using GORM
type GormLeadNoteRepository struct {
	db *gorm.DB
}

// NewGormLeadNoteRepository creates a new GormLeadNoteRepository
func NewGormLeadNoteRepository(db *gorm.DB) *GormLeadNoteRepository {
	return &GormLeadNoteRepository{db: db}
}

// FindByLead finds all notes on a lead, oldest first
func (r *GormLeadNoteRepository) FindByLead(ctx context.Context, leadID uuid.UUID) ([]lead.Note, error) {
	var noteModels []models.LeadNoteModel
	if err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at ASC").
		Find(&noteModels).Error; err != nil {
		return nil, err
	}

	notes := make([]lead.Note, len(noteModels))
	for i, model := range noteModels {
		notes[i] = *model.ToDomain()
	}
	return notes, nil
}

// Save creates or updates a note
func (r *GormLeadNoteRepository) Save(ctx context.Context, note *lead.Note) error {
	model := &models.LeadNoteModel{}
	model.FromDomain(note)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a note
func (r *GormLeadNoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LeadNoteModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormLeadImageRepository implements lead.ImageRepository using GORM
type GormLeadImageRepository struct {
	db *gorm.DB
}

// NewGormLeadImageRepository creates a new GormLeadImageRepository
func NewGormLeadImageRepository(db *gorm.DB) *GormLeadImageRepository {
	return &GormLeadImageRepository{db: db}
}

// FindByLead finds all images on a lead
func (r *GormLeadImageRepository) FindByLead(ctx context.Context, leadID uuid.UUID) ([]lead.Image, error) {
	var imageModels []models.LeadImageModel
	if err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at ASC").
		Find(&imageModels).Error; err != nil {
		return nil, err
	}

	images := make([]lead.Image, len(imageModels))
	for i, model := range imageModels {
		images[i] = *model.ToDomain()
	}
	return images, nil
}

// Save creates or updates an image
func (r *GormLeadImageRepository) Save(ctx context.Context, image *lead.Image) error {
	model := &models.LeadImageModel{}
	model.FromDomain(image)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an image
func (r *GormLeadImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LeadImageModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var (
	_ lead.Repository      = (*GormLeadRepository)(nil)
	_ lead.NoteRepository  = (*GormLeadNoteRepository)(nil)
	_ lead.ImageRepository = (*GormLeadImageRepository)(nil)
)
