package blog

import (
	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/identity"
)

// CreatePostInput contains the input for authoring a draft post
type CreatePostInput struct {
	Actor         identity.Actor
	Title         string
	Summary       string
	ContentMD     string
	CoverImageURL string
	Tags          []string
}

// UpdatePostInput contains the input for editing a post
type UpdatePostInput struct {
	Actor         identity.Actor
	PostID        uuid.UUID
	Title         string
	Summary       string
	ContentMD     string
	CoverImageURL string
	Tags          []string
}

// ChangePostInput contains the input for single-post admin operations
type ChangePostInput struct {
	Actor  identity.Actor
	PostID uuid.UUID
}

// ListPostsInput contains the input for post listings
type ListPostsInput struct {
	Actor    identity.Actor
	Status   string
	Tag      string
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// PublicListInput contains the input for the public article feed
type PublicListInput struct {
	Tag      string
	Search   string
	Page     int
	PageSize int
}

// SubmitCommentInput contains the input for a reader comment
type SubmitCommentInput struct {
	PostSlug    string
	AuthorName  string
	AuthorEmail string
	Content     string
}

// ModerateCommentInput contains the input for comment moderation
type ModerateCommentInput struct {
	Actor     identity.Actor
	CommentID uuid.UUID
}

// ListPendingCommentsInput contains the input for the moderation queue
type ListPendingCommentsInput struct {
	Actor    identity.Actor
	Page     int
	PageSize int
}

// SubscribeInput contains the input for a newsletter subscription
type SubscribeInput struct {
	Email string
}

// UnsubscribeInput contains the input for leaving the newsletter
type UnsubscribeInput struct {
	Email string
}
