package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contactapp "github.com/propertyspotter/backend/internal/application/contact"
	"github.com/propertyspotter/backend/internal/domain/contact"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/interfaces/http/dto"
)

// ContactHandler handles the public contact form and the admin inbox
type ContactHandler struct {
	BaseHandler
	contactService *contactapp.Service
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *contactapp.Service) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// SubmitContactRequest is the payload for the public contact form
type SubmitContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=20"`
	Subject string `json:"subject" binding:"omitempty,max=255"`
	Body    string `json:"body" binding:"required,max=5000"`
}

// ListContactsRequest holds the query parameters for the admin inbox
type ListContactsRequest struct {
	dto.ListRequest
	Unresolved bool `form:"unresolved"`
}

// ContactMessageResponse is the wire representation of a contact message
type ContactMessageResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Subject     string     `json:"subject,omitempty"`
	Body        string     `json:"body"`
	ForwardedAt *time.Time `json:"forwarded_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy  *uuid.UUID `json:"resolved_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toContactMessageResponse(m *contact.Message) ContactMessageResponse {
	return ContactMessageResponse{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Subject:     m.Subject,
		Body:        m.Body,
		ForwardedAt: m.ForwardedAt,
		ResolvedAt:  m.ResolvedAt,
		ResolvedBy:  m.ResolvedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// Submit accepts a message from the public contact form
func (h *ContactHandler) Submit(c *gin.Context) {
	var req SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	m, err := h.contactService.Submit(c.Request.Context(), contactapp.SubmitMessageInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"id": m.ID, "message": "Thanks for reaching out. We'll get back to you."})
}

// GetByID returns a single message (Admin only)
func (h *ContactHandler) GetByID(c *gin.Context) {
	actor, messageID, ok := h.actorAndMessageID(c)
	if !ok {
		return
	}

	m, err := h.contactService.Get(c.Request.Context(), contactapp.MessageInput{
		Actor:     actor,
		MessageID: messageID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toContactMessageResponse(m))
}

// List returns the inbox, optionally only unresolved messages (Admin only)
func (h *ContactHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListContactsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	page, err := h.contactService.List(c.Request.Context(), contactapp.ListMessagesInput{
		Actor:      actor,
		Unresolved: req.Unresolved,
		Search:     req.Search,
		Page:       req.Page,
		PageSize:   req.PageSize,
		OrderBy:    req.OrderBy,
		OrderDir:   req.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]ContactMessageResponse, len(page.Items))
	for i := range page.Items {
		out[i] = toContactMessageResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, out, page.Total, req.Page, req.PageSize)
}

// Resolve marks a message handled (Admin only)
func (h *ContactHandler) Resolve(c *gin.Context) {
	actor, messageID, ok := h.actorAndMessageID(c)
	if !ok {
		return
	}

	m, err := h.contactService.Resolve(c.Request.Context(), contactapp.MessageInput{
		Actor:     actor,
		MessageID: messageID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toContactMessageResponse(m))
}

// Delete removes a message from the inbox (Admin only)
func (h *ContactHandler) Delete(c *gin.Context) {
	actor, messageID, ok := h.actorAndMessageID(c)
	if !ok {
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), contactapp.MessageInput{
		Actor:     actor,
		MessageID: messageID,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ContactHandler) actorAndMessageID(c *gin.Context) (actor identity.Actor, messageID uuid.UUID, ok bool) {
	actor, found := getActor(c)
	if !found {
		h.Unauthorized(c, "Authentication required")
		return actor, uuid.Nil, false
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid message ID")
		return actor, uuid.Nil, false
	}
	messageID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid message ID")
		return actor, uuid.Nil, false
	}
	return actor, messageID, true
}
