package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propertyspotter/backend/internal/domain/blog"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/persistence/models"
)

// GormBlogPostRepository implements blog.PostRepository using GORM
type GormBlogPostRepository struct {
	db *gorm.DB
}

// NewGormBlogPostRepository creates a new GormBlogPostRepository
func NewGormBlogPostRepository(db *gorm.DB) *GormBlogPostRepository {
	return &GormBlogPostRepository{db: db}
}

// FindByID finds a post by its ID
func (r *GormBlogPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	var model models.BlogPostModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a post by its URL slug
func (r *GormBlogPostRepository) FindBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	var model models.BlogPostModel
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// SlugExists checks whether a post with the given slug exists
func (r *GormBlogPostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BlogPostModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindPublished finds published posts, newest first by publish date
func (r *GormBlogPostRepository) FindPublished(ctx context.Context, filter shared.Filter) (*shared.Paginated[blog.Post], error) {
	if filter.OrderBy == "" {
		filter.OrderBy = "published_at"
	}
	return r.paginate(ctx, filter, "status = ?", blog.StatusPublished)
}

// FindAll finds all posts matching the filter
func (r *GormBlogPostRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[blog.Post], error) {
	return r.paginate(ctx, filter, "")
}

// Save creates or updates a post
func (r *GormBlogPostRepository) Save(ctx context.Context, post *blog.Post) error {
	model := models.BlogPostModelFromDomain(post)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a post and its comments
func (r *GormBlogPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.BlogCommentModel{}, "post_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.BlogPostModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// IncrementViewCount bumps the view counter without loading the aggregate
func (r *GormBlogPostRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.BlogPostModel{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *GormBlogPostRepository) paginate(ctx context.Context, filter shared.Filter, cond string, args ...interface{}) (*shared.Paginated[blog.Post], error) {
	normalizePaging(&filter)

	base := r.db.WithContext(ctx).Model(&models.BlogPostModel{})
	if cond != "" {
		base = base.Where(cond, args...)
	}

	var total int64
	if err := r.applyFilterWithoutPagination(base.Session(&gorm.Session{}), filter).Count(&total).Error; err != nil {
		return nil, err
	}

	var postModels []models.BlogPostModel
	if err := r.applyFilter(base, filter).Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]blog.Post, len(postModels))
	for i, model := range postModels {
		posts[i] = *model.ToDomain()
	}

	page := shared.NewPaginated(posts, total, filter.Page, filter.PageSize)
	return &page, nil
}

// applyFilter applies filter options to the query
func (r *GormBlogPostRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, PostSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	offset := (filter.Page - 1) * filter.PageSize
	return query.Offset(offset).Limit(filter.PageSize)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBlogPostRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(title ILIKE ? OR summary ILIKE ?)", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "author_id":
			query = query.Where("author_id = ?", value)
		case "tag":
			if tag, ok := value.(string); ok && tag != "" {
				// Tags are stored comma-separated; match whole entries only.
				query = query.Where("',' || tags || ',' LIKE ?", "%,"+tag+",%")
			}
		}
	}

	return query
}

// GormBlogCommentRepository implements blog.CommentRepository using GORM
type GormBlogCommentRepository struct {
	db *gorm.DB
}

// NewGormBlogCommentRepository creates a new GormBlogCommentRepository
func NewGormBlogCommentRepository(db *gorm.DB) *GormBlogCommentRepository {
	return &GormBlogCommentRepository{db: db}
}

// FindByID finds a comment by its ID
func (r *GormBlogCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Comment, error) {
	var model models.BlogCommentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPost finds comments on a post in the given moderation status
func (r *GormBlogCommentRepository) FindByPost(ctx context.Context, postID uuid.UUID, status blog.CommentStatus) ([]blog.Comment, error) {
	var commentModels []models.BlogCommentModel
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND status = ?", postID, status).
		Order("created_at ASC").
		Find(&commentModels).Error; err != nil {
		return nil, err
	}

	comments := make([]blog.Comment, len(commentModels))
	for i, model := range commentModels {
		comments[i] = *model.ToDomain()
	}
	return comments, nil
}

// FindPending finds comments awaiting moderation
func (r *GormBlogCommentRepository) FindPending(ctx context.Context, filter shared.Filter) (*shared.Paginated[blog.Comment], error) {
	normalizePaging(&filter)

	base := r.db.WithContext(ctx).Model(&models.BlogCommentModel{}).
		Where("status = ?", blog.CommentPending)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var commentModels []models.BlogCommentModel
	offset := (filter.Page - 1) * filter.PageSize
	if err := base.Order("created_at ASC").Offset(offset).Limit(filter.PageSize).
		Find(&commentModels).Error; err != nil {
		return nil, err
	}

	comments := make([]blog.Comment, len(commentModels))
	for i, model := range commentModels {
		comments[i] = *model.ToDomain()
	}

	page := shared.NewPaginated(comments, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a comment
func (r *GormBlogCommentRepository) Save(ctx context.Context, comment *blog.Comment) error {
	model := &models.BlogCommentModel{}
	model.FromDomain(comment)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a comment
func (r *GormBlogCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BlogCommentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormSubscriberRepository implements blog.SubscriberRepository using GORM
type GormSubscriberRepository struct {
	db *gorm.DB
}

// NewGormSubscriberRepository creates a new GormSubscriberRepository
func NewGormSubscriberRepository(db *gorm.DB) *GormSubscriberRepository {
	return &GormSubscriberRepository{db: db}
}

// FindByEmail finds a subscriber by email
func (r *GormSubscriberRepository) FindByEmail(ctx context.Context, email string) (*blog.Subscriber, error) {
	var model models.NewsletterSubscriberModel
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

// FindActive finds all subscribers that have not unsubscribed
func (r *GormSubscriberRepository) FindActive(ctx context.Context) ([]blog.Subscriber, error) {
	var subscriberModels []models.NewsletterSubscriberModel
	if err := r.db.WithContext(ctx).
		Where("unsubscribed_at IS NULL").
		Order("created_at ASC").
		Find(&subscriberModels).Error; err != nil {
		return nil, err
	}

	subscribers := make([]blog.Subscriber, len(subscriberModels))
	for i, model := range subscriberModels {
		subscribers[i] = *model.ToDomain()
	}
	return subscribers, nil
}

// Save creates or updates a subscriber
func (r *GormSubscriberRepository) Save(ctx context.Context, subscriber *blog.Subscriber) error {
	model := &models.NewsletterSubscriberModel{}
	model.FromDomain(subscriber)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts all subscribers
func (r *GormSubscriberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.NewsletterSubscriberModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var (
	_ blog.PostRepository       = (*GormBlogPostRepository)(nil)
	_ blog.CommentRepository    = (*GormBlogCommentRepository)(nil)
	_ blog.SubscriberRepository = (*GormSubscriberRepository)(nil)
)
