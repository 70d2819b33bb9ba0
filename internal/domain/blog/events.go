package blog

import "github.com/propertyspotter/backend/internal/domain/shared"

// PostPublishedEvent is raised when a post goes live. Subscribers are
// notified off the back of it.
type PostPublishedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

func NewPostPublishedEvent(p *Post) *PostPublishedEvent {
	return &PostPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("blog.post_published", "Post", p.ID),
		Title:           p.Title,
		Slug:            p.Slug,
	}
}
