package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	blogapp "github.com/propertyspotter/backend/internal/application/blog"
	"github.com/propertyspotter/backend/internal/domain/blog"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/interfaces/http/dto"
)

// BlogHandler handles blog HTTP requests, both the admin authoring surface
// and the public article feed
type BlogHandler struct {
	BaseHandler
	blogService *blogapp.Service
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(blogService *blogapp.Service) *BlogHandler {
	return &BlogHandler{blogService: blogService}
}

// CreatePostRequest is the payload for authoring a draft post
type CreatePostRequest struct {
	Title         string   `json:"title" binding:"required,max=255"`
	Summary       string   `json:"summary" binding:"omitempty,max=500"`
	ContentMD     string   `json:"content_md" binding:"required"`
	CoverImageURL string   `json:"cover_image_url" binding:"omitempty,url"`
	Tags          []string `json:"tags" binding:"omitempty,max=10,dive,max=50"`
}

// UpdatePostRequest is the payload for editing a post
type UpdatePostRequest struct {
	Title         string   `json:"title" binding:"required,max=255"`
	Summary       string   `json:"summary" binding:"omitempty,max=500"`
	ContentMD     string   `json:"content_md" binding:"required"`
	CoverImageURL string   `json:"cover_image_url" binding:"omitempty,url"`
	Tags          []string `json:"tags" binding:"omitempty,max=10,dive,max=50"`
}

// ListPostsRequest holds the query parameters for the admin post listing
type ListPostsRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=draft published archived"`
	Tag    string `form:"tag" binding:"omitempty,max=50"`
}

// PublicPostsRequest holds the query parameters for the public article feed
type PublicPostsRequest struct {
	dto.ListRequest
	Tag string `form:"tag" binding:"omitempty,max=50"`
}

// SubmitCommentRequest is the payload for a reader comment
type SubmitCommentRequest struct {
	AuthorName  string `json:"author_name" binding:"required,max=100"`
	AuthorEmail string `json:"author_email" binding:"required,email"`
	Content     string `json:"content" binding:"required,max=2000"`
}

// SubscribeRequest is the payload for a newsletter subscription
type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PostResponse is the wire representation of a blog post
type PostResponse struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Slug           string      `json:"slug"`
	Summary        string      `json:"summary,omitempty"`
	ContentMD      string      `json:"content_md,omitempty"`
	ContentHTML    string      `json:"content_html,omitempty"`
	CoverImageURL  string      `json:"cover_image_url,omitempty"`
	Tags           []string    `json:"tags,omitempty"`
	Status         blog.Status `json:"status"`
	ReadingMinutes int         `json:"reading_minutes"`
	ViewCount      int64       `json:"view_count"`
	AuthorID       uuid.UUID   `json:"author_id"`
	PublishedAt    *time.Time  `json:"published_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// PostSummaryResponse is the compact post shape used by listings. The
// markdown and rendered bodies are omitted to keep feed payloads small.
type PostSummaryResponse struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Slug           string      `json:"slug"`
	Summary        string      `json:"summary,omitempty"`
	CoverImageURL  string      `json:"cover_image_url,omitempty"`
	Tags           []string    `json:"tags,omitempty"`
	Status         blog.Status `json:"status"`
	ReadingMinutes int         `json:"reading_minutes"`
	ViewCount      int64       `json:"view_count"`
	PublishedAt    *time.Time  `json:"published_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// CommentResponse is the wire representation of a blog comment
type CommentResponse struct {
	ID         uuid.UUID          `json:"id"`
	PostID     uuid.UUID          `json:"post_id"`
	AuthorName string             `json:"author_name"`
	Content    string             `json:"content"`
	Status     blog.CommentStatus `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
}

func toPostResponse(p *blog.Post) PostResponse {
	return PostResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Summary:        p.Summary,
		ContentMD:      p.ContentMD,
		ContentHTML:    p.ContentHTML,
		CoverImageURL:  p.CoverImageURL,
		Tags:           p.Tags,
		Status:         p.Status,
		ReadingMinutes: p.ReadingMinutes,
		ViewCount:      p.ViewCount,
		AuthorID:       p.AuthorID,
		PublishedAt:    p.PublishedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toPostSummaries(posts []blog.Post) []PostSummaryResponse {
	out := make([]PostSummaryResponse, len(posts))
	for i, p := range posts {
		out[i] = PostSummaryResponse{
			ID:             p.ID,
			Title:          p.Title,
			Slug:           p.Slug,
			Summary:        p.Summary,
			CoverImageURL:  p.CoverImageURL,
			Tags:           p.Tags,
			Status:         p.Status,
			ReadingMinutes: p.ReadingMinutes,
			ViewCount:      p.ViewCount,
			PublishedAt:    p.PublishedAt,
			CreatedAt:      p.CreatedAt,
		}
	}
	return out
}

func toCommentResponse(cm *blog.Comment) CommentResponse {
	return CommentResponse{
		ID:         cm.ID,
		PostID:     cm.PostID,
		AuthorName: cm.AuthorName,
		Content:    cm.Content,
		Status:     cm.Status,
		CreatedAt:  cm.CreatedAt,
	}
}

// CreatePost authors a new draft post (Admin only)
func (h *BlogHandler) CreatePost(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	post, err := h.blogService.CreatePost(c.Request.Context(), blogapp.CreatePostInput{
		Actor:         actor,
		Title:         req.Title,
		Summary:       req.Summary,
		ContentMD:     req.ContentMD,
		CoverImageURL: req.CoverImageURL,
		Tags:          req.Tags,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toPostResponse(post))
}

// UpdatePost edits a post (Admin only)
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	actor, postID, ok := h.actorAndPostID(c)
	if !ok {
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	post, err := h.blogService.UpdatePost(c.Request.Context(), blogapp.UpdatePostInput{
		Actor:         actor,
		PostID:        postID,
		Title:         req.Title,
		Summary:       req.Summary,
		ContentMD:     req.ContentMD,
		CoverImageURL: req.CoverImageURL,
		Tags:          req.Tags,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPostResponse(post))
}

// PublishPost publishes a draft post (Admin only)
func (h *BlogHandler) PublishPost(c *gin.Context) {
	h.changePost(c, h.blogService.PublishPost)
}

// ArchivePost archives a published post (Admin only)
func (h *BlogHandler) ArchivePost(c *gin.Context) {
	h.changePost(c, h.blogService.ArchivePost)
}

// DeletePost removes a post and its comments (Admin only)
func (h *BlogHandler) DeletePost(c *gin.Context) {
	actor, postID, ok := h.actorAndPostID(c)
	if !ok {
		return
	}

	if err := h.blogService.DeletePost(c.Request.Context(), blogapp.ChangePostInput{
		Actor:  actor,
		PostID: postID,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetPost returns a single post in any status (Admin only)
func (h *BlogHandler) GetPost(c *gin.Context) {
	actor, postID, ok := h.actorAndPostID(c)
	if !ok {
		return
	}

	post, err := h.blogService.GetPost(c.Request.Context(), blogapp.ChangePostInput{
		Actor:  actor,
		PostID: postID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPostResponse(post))
}

// ListPosts returns every post in any status (Admin only)
func (h *BlogHandler) ListPosts(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	page, err := h.blogService.ListAll(c.Request.Context(), blogapp.ListPostsInput{
		Actor:    actor,
		Status:   req.Status,
		Tag:      req.Tag,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toPostSummaries(page.Items), page.Total, req.Page, req.PageSize)
}

// PublicList returns the public feed of published posts
func (h *BlogHandler) PublicList(c *gin.Context) {
	var req PublicPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	page, err := h.blogService.PublicList(c.Request.Context(), blogapp.PublicListInput{
		Tag:      req.Tag,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toPostSummaries(page.Items), page.Total, req.Page, req.PageSize)
}

// PublicGetBySlug returns a published post by slug and counts the view
func (h *BlogHandler) PublicGetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Missing post slug")
		return
	}

	post, err := h.blogService.PublicGetBySlug(c.Request.Context(), slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPostResponse(post))
}

// SubmitComment accepts a reader comment into the moderation queue
func (h *BlogHandler) SubmitComment(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Missing post slug")
		return
	}

	var req SubmitCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	comment, err := h.blogService.SubmitComment(c.Request.Context(), blogapp.SubmitCommentInput{
		PostSlug:    slug,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Content:     req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toCommentResponse(comment))
}

// PublicComments returns a post's approved comments
func (h *BlogHandler) PublicComments(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Missing post slug")
		return
	}

	comments, err := h.blogService.PublicComments(c.Request.Context(), slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = toCommentResponse(&comments[i])
	}
	h.Success(c, out)
}

// ApproveComment approves a pending comment (Admin only)
func (h *BlogHandler) ApproveComment(c *gin.Context) {
	h.moderateComment(c, h.blogService.ApproveComment)
}

// RejectComment rejects a pending comment (Admin only)
func (h *BlogHandler) RejectComment(c *gin.Context) {
	h.moderateComment(c, h.blogService.RejectComment)
}

// ListPendingComments returns the moderation queue (Admin only)
func (h *BlogHandler) ListPendingComments(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	page, err := h.blogService.ListPendingComments(c.Request.Context(), blogapp.ListPendingCommentsInput{
		Actor:    actor,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]CommentResponse, len(page.Items))
	for i := range page.Items {
		out[i] = toCommentResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, out, page.Total, req.Page, req.PageSize)
}

// Subscribe adds an email to the newsletter
func (h *BlogHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if _, err := h.blogService.Subscribe(c.Request.Context(), blogapp.SubscribeInput{Email: req.Email}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Subscribed"})
}

// Unsubscribe removes an email from the newsletter
func (h *BlogHandler) Unsubscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.blogService.Unsubscribe(c.Request.Context(), blogapp.UnsubscribeInput{Email: req.Email}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Unsubscribed"})
}

func (h *BlogHandler) changePost(c *gin.Context, transition func(ctx context.Context, input blogapp.ChangePostInput) (*blog.Post, error)) {
	actor, postID, ok := h.actorAndPostID(c)
	if !ok {
		return
	}

	post, err := transition(c.Request.Context(), blogapp.ChangePostInput{
		Actor:  actor,
		PostID: postID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPostResponse(post))
}

func (h *BlogHandler) moderateComment(c *gin.Context, moderate func(ctx context.Context, input blogapp.ModerateCommentInput) (*blog.Comment, error)) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid comment ID")
		return
	}
	commentID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid comment ID")
		return
	}

	comment, err := moderate(c.Request.Context(), blogapp.ModerateCommentInput{
		Actor:     actor,
		CommentID: commentID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCommentResponse(comment))
}

func (h *BlogHandler) actorAndPostID(c *gin.Context) (actor identity.Actor, postID uuid.UUID, ok bool) {
	actor, found := getActor(c)
	if !found {
		h.Unauthorized(c, "Authentication required")
		return actor, uuid.Nil, false
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid post ID")
		return actor, uuid.Nil, false
	}
	postID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return actor, uuid.Nil, false
	}
	return actor, postID, true
}
