package blog

import (
	"context"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// PostRepository is the persistence contract for blog posts.
type PostRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	FindBySlug(ctx context.Context, slug string) (*Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	FindPublished(ctx context.Context, filter shared.Filter) (*shared.Paginated[Post], error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Post], error)
	Save(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

// CommentRepository is the persistence contract for post comments.
type CommentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	FindByPost(ctx context.Context, postID uuid.UUID, status CommentStatus) ([]Comment, error)
	FindPending(ctx context.Context, filter shared.Filter) (*shared.Paginated[Comment], error)
	Save(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubscriberRepository is the persistence contract for newsletter
// subscriptions.
type SubscriberRepository interface {
	FindByEmail(ctx context.Context, email string) (*Subscriber, error)
	FindActive(ctx context.Context) ([]Subscriber, error)
	Save(ctx context.Context, subscriber *Subscriber) error
	Count(ctx context.Context) (int64, error)
}
