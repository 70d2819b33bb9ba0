// Package blog provides the application service for articles, reader
// comments and newsletter subscriptions. Admins author posts in Markdown;
// publishing renders them to sanitised HTML.
package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/blog"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/infrastructure/markdown"
)

// Service handles blog use cases
type Service struct {
	posts       blog.PostRepository
	comments    blog.CommentRepository
	subscribers blog.SubscriberRepository
	renderer    *markdown.Renderer
	events      shared.EventPublisher
	logger      *zap.Logger
}

// SetEventPublisher sets the publisher that receives lifecycle events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

func (s *Service) publish(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if err := shared.PublishEvents(ctx, s.events, aggregates...); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

// NewService creates a new blog service
func NewService(
	posts blog.PostRepository,
	comments blog.CommentRepository,
	subscribers blog.SubscriberRepository,
	renderer *markdown.Renderer,
	logger *zap.Logger,
) *Service {
	return &Service{
		posts:       posts,
		comments:    comments,
		subscribers: subscribers,
		renderer:    renderer,
		logger:      logger,
	}
}

// CreatePost authors a draft post. Slug collisions get a numeric suffix.
func (s *Service) CreatePost(ctx context.Context, input CreatePostInput) (*blog.Post, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can author posts")
	}

	p, err := blog.NewPost(input.Actor.ID, input.Title, input.ContentMD)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateContent(input.Title, input.Summary, input.ContentMD); err != nil {
		return nil, err
	}
	if err := p.SetCoverImage(input.CoverImageURL); err != nil {
		return nil, err
	}
	p.SetTags(input.Tags)

	slug, err := s.uniqueSlug(ctx, p.Slug)
	if err != nil {
		return nil, err
	}
	if err := p.SetSlug(slug); err != nil {
		return nil, err
	}

	if err := s.posts.Save(ctx, p); err != nil {
		s.logger.Error("Failed to save post", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create post")
	}

	s.logger.Info("Post created",
		zap.String("post_id", p.ID.String()),
		zap.String("slug", p.Slug))
	return p, nil
}

// UpdatePost edits a post's content. A published post keeps its slug; the
// rendered HTML is cleared and rebuilt on the next publish.
func (s *Service) UpdatePost(ctx context.Context, input UpdatePostInput) (*blog.Post, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can edit posts")
	}

	p, err := s.findPost(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	wasPublished := p.Status == blog.StatusPublished

	if err := p.UpdateContent(input.Title, input.Summary, input.ContentMD); err != nil {
		return nil, err
	}
	if err := p.SetCoverImage(input.CoverImageURL); err != nil {
		return nil, err
	}
	p.SetTags(input.Tags)

	// A live post must stay renderable, so rebuild the HTML in place.
	if wasPublished {
		html, err := s.renderer.Render(p.ContentMD)
		if err != nil {
			s.logger.Error("Failed to render post", zap.Error(err), zap.String("post_id", p.ID.String()))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to render post")
		}
		p.SetRenderedHTML(html)
	}

	if err := s.posts.Save(ctx, p); err != nil {
		s.logger.Error("Failed to save post", zap.Error(err), zap.String("post_id", p.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update post")
	}
	return p, nil
}

// PublishPost renders the Markdown body and makes the post public
func (s *Service) PublishPost(ctx context.Context, input ChangePostInput) (*blog.Post, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can publish posts")
	}

	p, err := s.findPost(ctx, input.PostID)
	if err != nil {
		return nil, err
	}

	html, err := s.renderer.Render(p.ContentMD)
	if err != nil {
		s.logger.Error("Failed to render post", zap.Error(err), zap.String("post_id", p.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to render post")
	}
	p.SetRenderedHTML(html)

	if err := p.Publish(); err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, p); err != nil {
		s.logger.Error("Failed to save post", zap.Error(err), zap.String("post_id", p.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to publish post")
	}

	s.publish(ctx, p)
	s.logger.Info("Post published",
		zap.String("post_id", p.ID.String()),
		zap.String("slug", p.Slug))
	return p, nil
}

// ArchivePost takes a post off the public site
func (s *Service) ArchivePost(ctx context.Context, input ChangePostInput) (*blog.Post, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can archive posts")
	}

	p, err := s.findPost(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	if err := p.Archive(); err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, p); err != nil {
		s.logger.Error("Failed to save post", zap.Error(err), zap.String("post_id", p.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to archive post")
	}
	return p, nil
}

// DeletePost removes a post and its comments
func (s *Service) DeletePost(ctx context.Context, input ChangePostInput) error {
	if !input.Actor.IsAdmin() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can delete posts")
	}

	p, err := s.findPost(ctx, input.PostID)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, p.ID); err != nil {
		s.logger.Error("Failed to delete post", zap.Error(err), zap.String("post_id", p.ID.String()))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete post")
	}

	s.logger.Info("Post deleted", zap.String("post_id", p.ID.String()))
	return nil
}

// GetPost returns any post by ID for administrators
func (s *Service) GetPost(ctx context.Context, input ChangePostInput) (*blog.Post, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can view drafts")
	}
	return s.findPost(ctx, input.PostID)
}

// ListAll returns every post regardless of status. Admin only.
func (s *Service) ListAll(ctx context.Context, input ListPostsInput) (*shared.Paginated[blog.Post], error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can list all posts")
	}

	filter := shared.DefaultFilter()
	applyPaging(&filter, input.Page, input.PageSize, input.OrderBy, input.OrderDir)
	filter.Search = input.Search
	if input.Status != "" {
		filter.Filters["status"] = input.Status
	}
	if input.Tag != "" {
		filter.Filters["tag"] = input.Tag
	}
	return s.posts.FindAll(ctx, filter)
}

// PublicList returns published posts for anonymous readers
func (s *Service) PublicList(ctx context.Context, input PublicListInput) (*shared.Paginated[blog.Post], error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "published_at"
	applyPaging(&filter, input.Page, input.PageSize, "", "")
	filter.Search = input.Search
	if input.Tag != "" {
		filter.Filters["tag"] = input.Tag
	}
	return s.posts.FindPublished(ctx, filter)
}

// PublicGetBySlug returns a published post and records the view
func (s *Service) PublicGetBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	p, err := s.posts.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Post not found")
		}
		s.logger.Error("Failed to find post", zap.Error(err), zap.String("slug", slug))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find post")
	}
	if !p.IsPublic() {
		return nil, shared.NewDomainError("NOT_FOUND", "Post not found")
	}

	if err := s.posts.IncrementViewCount(ctx, p.ID); err != nil {
		s.logger.Warn("Failed to record post view", zap.Error(err), zap.String("post_id", p.ID.String()))
	} else {
		p.RecordView()
	}
	return p, nil
}

// SubmitComment queues a reader comment for moderation. Comments are only
// accepted on published posts.
func (s *Service) SubmitComment(ctx context.Context, input SubmitCommentInput) (*blog.Comment, error) {
	p, err := s.posts.FindBySlug(ctx, input.PostSlug)
	if err != nil || !p.IsPublic() {
		return nil, shared.NewDomainError("NOT_FOUND", "Post not found")
	}

	c, err := blog.NewComment(p.ID, input.AuthorName, input.AuthorEmail, input.Content)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save comment", zap.Error(err), zap.String("post_id", p.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to submit comment")
	}

	s.logger.Info("Comment submitted",
		zap.String("comment_id", c.ID.String()),
		zap.String("post_id", p.ID.String()))
	return c, nil
}

// ApproveComment makes a pending comment publicly visible. Admin only.
func (s *Service) ApproveComment(ctx context.Context, input ModerateCommentInput) (*blog.Comment, error) {
	return s.moderate(ctx, input, func(c *blog.Comment) error { return c.Approve() })
}

// RejectComment hides a pending comment. Admin only.
func (s *Service) RejectComment(ctx context.Context, input ModerateCommentInput) (*blog.Comment, error) {
	return s.moderate(ctx, input, func(c *blog.Comment) error { return c.Reject() })
}

// ListPendingComments returns the moderation queue. Admin only.
func (s *Service) ListPendingComments(ctx context.Context, input ListPendingCommentsInput) (*shared.Paginated[blog.Comment], error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can moderate comments")
	}

	filter := shared.DefaultFilter()
	applyPaging(&filter, input.Page, input.PageSize, "", "")
	filter.OrderDir = "asc"
	return s.comments.FindPending(ctx, filter)
}

// PublicComments returns the approved comments on a published post
func (s *Service) PublicComments(ctx context.Context, slug string) ([]blog.Comment, error) {
	p, err := s.posts.FindBySlug(ctx, slug)
	if err != nil || !p.IsPublic() {
		return nil, shared.NewDomainError("NOT_FOUND", "Post not found")
	}
	return s.comments.FindByPost(ctx, p.ID, blog.CommentApproved)
}

// Subscribe adds an email to the newsletter, reactivating a previous
// subscription if one exists.
func (s *Service) Subscribe(ctx context.Context, input SubscribeInput) (*blog.Subscriber, error) {
	existing, err := s.subscribers.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to look up subscriber", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to subscribe")
	}

	if existing != nil {
		if existing.Active() {
			return existing, nil
		}
		existing.Resubscribe()
		if err := s.subscribers.Save(ctx, existing); err != nil {
			s.logger.Error("Failed to save subscriber", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to subscribe")
		}
		return existing, nil
	}

	sub, err := blog.NewSubscriber(input.Email)
	if err != nil {
		return nil, err
	}
	if err := s.subscribers.Save(ctx, sub); err != nil {
		s.logger.Error("Failed to save subscriber", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to subscribe")
	}

	s.logger.Info("Newsletter subscription added", zap.String("subscriber_id", sub.ID.String()))
	return sub, nil
}

// Unsubscribe deactivates a newsletter subscription. Unknown emails succeed
// silently so the endpoint does not leak which addresses are subscribed.
func (s *Service) Unsubscribe(ctx context.Context, input UnsubscribeInput) error {
	sub, err := s.subscribers.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		s.logger.Error("Failed to look up subscriber", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unsubscribe")
	}

	sub.Unsubscribe()
	if err := s.subscribers.Save(ctx, sub); err != nil {
		s.logger.Error("Failed to save subscriber", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unsubscribe")
	}
	return nil
}

func (s *Service) moderate(ctx context.Context, input ModerateCommentInput, change func(*blog.Comment) error) (*blog.Comment, error) {
	if !input.Actor.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can moderate comments")
	}

	c, err := s.comments.FindByID(ctx, input.CommentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Comment not found")
		}
		s.logger.Error("Failed to find comment", zap.Error(err), zap.String("comment_id", input.CommentID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find comment")
	}

	if err := change(c); err != nil {
		return nil, err
	}
	if err := s.comments.Save(ctx, c); err != nil {
		s.logger.Error("Failed to save comment", zap.Error(err), zap.String("comment_id", c.ID.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update comment")
	}
	return c, nil
}

// uniqueSlug appends -2, -3, ... until the slug is free.
func (s *Service) uniqueSlug(ctx context.Context, slug string) (string, error) {
	candidate := slug
	for i := 2; ; i++ {
		exists, err := s.posts.SlugExists(ctx, candidate)
		if err != nil {
			s.logger.Error("Failed to check slug", zap.Error(err), zap.String("slug", candidate))
			return "", shared.NewDomainError("INTERNAL_ERROR", "Failed to derive slug")
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", slug, i)
	}
}

func (s *Service) findPost(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Post not found")
		}
		s.logger.Error("Failed to find post", zap.Error(err), zap.String("post_id", id.String()))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find post")
	}
	return p, nil
}

func applyPaging(filter *shared.Filter, page, pageSize int, orderBy, orderDir string) {
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
}
