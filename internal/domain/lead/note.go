package lead

import (
	"strings"

	"github.com/google/uuid"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

// Note is a timestamped remark attached to a lead by one of its participants
type Note struct {
	shared.BaseEntity
	LeadID    uuid.UUID
	AuthorID  uuid.UUID
	Content   string
}

// NewNote creates a note on the given lead
func NewNote(leadID, authorID uuid.UUID, content string) (*Note, error) {
	if leadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEAD_ID", "Lead ID cannot be empty")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR_ID", "Author ID cannot be empty")
	}
	if strings.TrimSpace(content) == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Note content cannot be empty")
	}
	return &Note{
		BaseEntity: shared.NewBaseEntity(),
		LeadID:     leadID,
		AuthorID:   authorID,
		Content:    content,
	}, nil
}

// Image is a photo attached to a lead by the spotter
type Image struct {
	shared.BaseEntity
	LeadID      uuid.UUID
	URL         string
	Description string
}

// NewImage attaches an image URL to a lead
func NewImage(leadID uuid.UUID, url, description string) (*Image, error) {
	if leadID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEAD_ID", "Lead ID cannot be empty")
	}
	if strings.TrimSpace(url) == "" {
		return nil, shared.NewDomainError("INVALID_URL", "Image URL cannot be empty")
	}
	if len(url) > 500 {
		return nil, shared.NewDomainError("INVALID_URL", "Image URL cannot exceed 500 characters")
	}
	return &Image{
		BaseEntity:  shared.NewBaseEntity(),
		LeadID:      leadID,
		URL:         url,
		Description: description,
	}, nil
}
