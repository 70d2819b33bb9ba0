package blog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// CommentStatus tracks moderation of a reader comment.
type CommentStatus string

const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
	CommentRejected CommentStatus = "rejected"
)

// Comment is a reader comment on a post. Comments start pending and only
// appear publicly once approved by a moderator.
type Comment struct {
	shared.BaseEntity
	PostID      uuid.UUID
	AuthorName  string
	AuthorEmail string
	Content     string
	Status      CommentStatus
}

// NewComment creates a pending comment awaiting moderation.
func NewComment(postID uuid.UUID, authorName, authorEmail, content string) (*Comment, error) {
	if postID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMMENT", "comment requires a post")
	}
	authorName = strings.TrimSpace(authorName)
	content = strings.TrimSpace(content)
	if authorName == "" {
		return nil, shared.NewDomainError("INVALID_COMMENT", "comment author name is required")
	}
	if content == "" {
		return nil, shared.NewDomainError("INVALID_COMMENT", "comment content is required")
	}
	if len(content) > 2000 {
		return nil, shared.NewDomainError("INVALID_COMMENT", "comment cannot exceed 2000 characters")
	}

	return &Comment{
		BaseEntity:  shared.NewBaseEntity(),
		PostID:      postID,
		AuthorName:  authorName,
		AuthorEmail: strings.ToLower(strings.TrimSpace(authorEmail)),
		Content:     content,
		Status:      CommentPending,
	}, nil
}

// Approve makes a pending comment publicly visible.
func (c *Comment) Approve() error {
	if c.Status != CommentPending {
		return shared.NewDomainError("INVALID_COMMENT_STATUS", "only pending comments can be approved")
	}
	c.Status = CommentApproved
	c.Touch()
	return nil
}

// Reject hides a pending comment.
func (c *Comment) Reject() error {
	if c.Status != CommentPending {
		return shared.NewDomainError("INVALID_COMMENT_STATUS", "only pending comments can be rejected")
	}
	c.Status = CommentRejected
	c.Touch()
	return nil
}
