package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/blog"
)

// BlogPostModel is the persistence model for the blog Post aggregate.
// Tags are stored as a comma-separated list; posts carry few, short tags.
type BlogPostModel struct {
	AggregateModel
	Title          string      `gorm:"type:varchar(200);not null"`
	Slug           string      `gorm:"type:varchar(120);not null;uniqueIndex"`
	Summary        string      `gorm:"type:text"`
	ContentMD      string      `gorm:"type:text;not null"`
	ContentHTML    string      `gorm:"type:text"`
	CoverImageURL  string      `gorm:"type:varchar(500)"`
	Tags           string      `gorm:"type:varchar(500)"`
	Status         blog.Status `gorm:"type:varchar(20);not null;index"`
	ReadingMinutes int         `gorm:"not null;default:1"`
	ViewCount      int64       `gorm:"not null;default:0"`
	AuthorID       uuid.UUID   `gorm:"type:uuid;not null;index"`
	PublishedAt    *time.Time  `gorm:"index"`
}

// TableName returns the table name for GORM
func (BlogPostModel) TableName() string {
	return "blog_posts"
}

// ToDomain converts the persistence model to a domain Post aggregate.
func (m *BlogPostModel) ToDomain() *blog.Post {
	var tags []string
	if m.Tags != "" {
		tags = strings.Split(m.Tags, ",")
	}
	return &blog.Post{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Slug:              m.Slug,
		Summary:           m.Summary,
		ContentMD:         m.ContentMD,
		ContentHTML:       m.ContentHTML,
		CoverImageURL:     m.CoverImageURL,
		Tags:              tags,
		Status:            m.Status,
		ReadingMinutes:    m.ReadingMinutes,
		ViewCount:         m.ViewCount,
		AuthorID:          m.AuthorID,
		PublishedAt:       m.PublishedAt,
	}
}

// FromDomain populates the persistence model from a domain Post aggregate.
func (m *BlogPostModel) FromDomain(p *blog.Post) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Title = p.Title
	m.Slug = p.Slug
	m.Summary = p.Summary
	m.ContentMD = p.ContentMD
	m.ContentHTML = p.ContentHTML
	m.CoverImageURL = p.CoverImageURL
	m.Tags = strings.Join(p.Tags, ",")
	m.Status = p.Status
	m.ReadingMinutes = p.ReadingMinutes
	m.ViewCount = p.ViewCount
	m.AuthorID = p.AuthorID
	m.PublishedAt = p.PublishedAt
}

// BlogPostModelFromDomain creates a new persistence model from a domain Post.
func BlogPostModelFromDomain(p *blog.Post) *BlogPostModel {
	m := &BlogPostModel{}
	m.FromDomain(p)
	return m
}

// BlogCommentModel is the persistence model for blog comments.
type BlogCommentModel struct {
	BaseModel
	PostID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	AuthorName  string             `gorm:"type:varchar(100);not null"`
	AuthorEmail string             `gorm:"type:varchar(200);not null"`
	Content     string             `gorm:"type:text;not null"`
	Status      blog.CommentStatus `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (BlogCommentModel) TableName() string {
	return "blog_comments"
}

// ToDomain converts the persistence model to a domain Comment.
func (m *BlogCommentModel) ToDomain() *blog.Comment {
	return &blog.Comment{
		BaseEntity:  m.BaseModel.ToDomain(),
		PostID:      m.PostID,
		AuthorName:  m.AuthorName,
		AuthorEmail: m.AuthorEmail,
		Content:     m.Content,
		Status:      m.Status,
	}
}

// FromDomain populates the persistence model from a domain Comment.
func (m *BlogCommentModel) FromDomain(c *blog.Comment) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.PostID = c.PostID
	m.AuthorName = c.AuthorName
	m.AuthorEmail = c.AuthorEmail
	m.Content = c.Content
	m.Status = c.Status
}

// NewsletterSubscriberModel is the persistence model for newsletter subscribers.
type NewsletterSubscriberModel struct {
	BaseModel
	Email          string `gorm:"type:varchar(200);not null;uniqueIndex"`
	UnsubscribedAt *time.Time
}

// TableName returns the table name for GORM
func (NewsletterSubscriberModel) TableName() string {
	return "newsletter_subscribers"
}

// ToDomain converts the persistence model to a domain Subscriber.
func (m *NewsletterSubscriberModel) ToDomain() *blog.Subscriber {
	return &blog.Subscriber{
		BaseEntity:     m.BaseModel.ToDomain(),
		Email:          m.Email,
		UnsubscribedAt: m.UnsubscribedAt,
	}
}

// FromDomain populates the persistence model from a domain Subscriber.
func (m *NewsletterSubscriberModel) FromDomain(s *blog.Subscriber) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Email = s.Email
	m.UnsubscribedAt = s.UnsubscribedAt
}
