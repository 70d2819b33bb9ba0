// Package blog contains the blog post aggregate and its supporting
// entities. Posts are authored in Markdown by admins, rendered to sanitised
// HTML on publish, and carry slugs, reading-time estimates and moderated
// comments.
package blog

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Status tracks the publication state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// IsValid reports whether the status is a known publication state.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Post is the aggregate root for a blog article.
type Post struct {
	shared.BaseAggregateRoot
	Title          string
	Slug           string
	Summary        string
	ContentMD      string
	ContentHTML    string
	CoverImageURL  string
	Tags           []string
	Status         Status
	ReadingMinutes int
	ViewCount      int64
	AuthorID       uuid.UUID
	PublishedAt    *time.Time
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title: lowercase, non-alphanumerics
// collapsed to single hyphens. Uniqueness suffixes are the caller's concern.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 120 {
		slug = strings.Trim(slug[:120], "-")
	}
	return slug
}

// ReadingMinutesFor estimates reading time at 225 words per minute, with a
// floor of one minute for any non-empty content.
func ReadingMinutesFor(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	minutes := words / 225
	if minutes < 1 {
		return 1
	}
	return minutes
}

// NewPost creates a draft post. The slug is derived from the title; callers
// that find a collision append a numeric suffix via SetSlug.
func NewPost(authorID uuid.UUID, title, contentMD string) (*Post, error) {
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_POST", "post requires an author")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_POST", "post title is required")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_POST", "post title cannot exceed 200 characters")
	}
	slug := Slugify(title)
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_POST", "post title must contain alphanumeric characters")
	}

	p := &Post{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Slug:              slug,
		ContentMD:         contentMD,
		Status:            StatusDraft,
		ReadingMinutes:    ReadingMinutesFor(contentMD),
		AuthorID:          authorID,
	}
	return p, nil
}

// SetSlug overrides the derived slug, used to resolve collisions.
func (p *Post) SetSlug(slug string) error {
	slug = strings.Trim(strings.TrimSpace(slug), "-")
	if slug == "" {
		return shared.NewDomainError("INVALID_POST", "slug cannot be empty")
	}
	p.Slug = slug
	p.Touch()
	return nil
}

// UpdateContent replaces the post body and recomputes the reading estimate.
// Rendered HTML is cleared so the caller re-renders before publishing.
func (p *Post) UpdateContent(title, summary, contentMD string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_POST", "post title is required")
	}
	p.Title = title
	p.Summary = strings.TrimSpace(summary)
	p.ContentMD = contentMD
	p.ContentHTML = ""
	p.ReadingMinutes = ReadingMinutesFor(contentMD)
	p.Touch()
	return nil
}

// SetRenderedHTML stores the sanitised HTML rendering of the Markdown body.
func (p *Post) SetRenderedHTML(html string) {
	p.ContentHTML = html
	p.Touch()
}

// SetCoverImage records the cover image URL.
func (p *Post) SetCoverImage(url string) error {
	url = strings.TrimSpace(url)
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_POST", "cover image URL cannot exceed 500 characters")
	}
	p.CoverImageURL = url
	p.Touch()
	return nil
}

// SetTags replaces the post's tags, dropping blanks and duplicates.
func (p *Post) SetTags(tags []string) {
	seen := make(map[string]bool, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		cleaned = append(cleaned, tag)
	}
	p.Tags = cleaned
	p.Touch()
}

// Publish makes the post publicly visible. The HTML rendering must already
// be in place.
func (p *Post) Publish() error {
	if p.Status == StatusPublished {
		return shared.NewDomainError("INVALID_POST_STATUS", "post is already published")
	}
	if p.ContentHTML == "" {
		return shared.NewDomainError("INVALID_POST", "post must be rendered before publishing")
	}
	now := time.Now()
	p.Status = StatusPublished
	if p.PublishedAt == nil {
		p.PublishedAt = &now
	}
	p.Touch()
	p.AddDomainEvent(NewPostPublishedEvent(p))
	return nil
}

// Archive takes the post off the public site.
func (p *Post) Archive() error {
	if p.Status == StatusArchived {
		return shared.NewDomainError("INVALID_POST_STATUS", "post is already archived")
	}
	p.Status = StatusArchived
	p.Touch()
	return nil
}

// RecordView increments the view counter.
func (p *Post) RecordView() {
	p.ViewCount++
}

// IsPublic reports whether the post should appear in public queries.
func (p *Post) IsPublic() bool {
	return p.Status == StatusPublished
}
