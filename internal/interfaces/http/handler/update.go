package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	updateapp "github.com/propertyspotter/backend/internal/application/update"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/update"
	"github.com/propertyspotter/backend/internal/interfaces/http/dto"
)

// UpdateHandler handles lead update HTTP requests plus the delivery
// status webhook from the WhatsApp provider
type UpdateHandler struct {
	BaseHandler
	updateService *updateapp.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(updateService *updateapp.Service) *UpdateHandler {
	return &UpdateHandler{updateService: updateService}
}

// CreateUpdateRequest is the payload for sending a lead update
type CreateUpdateRequest struct {
	Body string `json:"body" binding:"required,max=1600"`
}

// ListUpdatesRequest holds the query parameters for the update feed
type ListUpdatesRequest struct {
	dto.ListRequest
	RecipientID string `form:"recipient_id" binding:"omitempty,uuid"`
}

// UpdateResponse is the wire representation of a lead update
type UpdateResponse struct {
	ID           uuid.UUID             `json:"id"`
	LeadID       uuid.UUID             `json:"lead_id"`
	RecipientID  uuid.UUID             `json:"recipient_id"`
	AuthorID     *uuid.UUID            `json:"author_id,omitempty"`
	Body         string                `json:"body"`
	Channel      string                `json:"channel"`
	Delivery     update.DeliveryStatus `json:"delivery"`
	FailureNote  string                `json:"failure_note,omitempty"`
	DeliveredAt  *time.Time            `json:"delivered_at,omitempty"`
	ReadAt       *time.Time            `json:"read_at,omitempty"`
	SystemIssued bool                  `json:"system_issued"`
	CreatedAt    time.Time             `json:"created_at"`
}

func toUpdateResponse(u *update.Update) UpdateResponse {
	return UpdateResponse{
		ID:           u.ID,
		LeadID:       u.LeadID,
		RecipientID:  u.RecipientID,
		AuthorID:     u.AuthorID,
		Body:         u.Body,
		Channel:      u.Channel,
		Delivery:     u.Delivery,
		FailureNote:  u.FailureNote,
		DeliveredAt:  u.DeliveredAt,
		ReadAt:       u.ReadAt,
		SystemIssued: u.SystemIssued,
		CreatedAt:    u.CreatedAt,
	}
}

func toUpdateResponses(updates []update.Update) []UpdateResponse {
	out := make([]UpdateResponse, len(updates))
	for i := range updates {
		out[i] = toUpdateResponse(&updates[i])
	}
	return out
}

// Create sends a progress update to a lead's spotter
func (h *UpdateHandler) Create(c *gin.Context) {
	actor, leadID, ok := h.actorAndLeadID(c)
	if !ok {
		return
	}

	var req CreateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	u, err := h.updateService.Create(c.Request.Context(), updateapp.CreateUpdateInput{
		Actor:  actor,
		LeadID: leadID,
		Body:   req.Body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toUpdateResponse(u))
}

// ListByLead returns a lead's update history
func (h *UpdateHandler) ListByLead(c *gin.Context) {
	actor, leadID, ok := h.actorAndLeadID(c)
	if !ok {
		return
	}

	updates, err := h.updateService.ListByLead(c.Request.Context(), updateapp.ListByLeadInput{
		Actor:  actor,
		LeadID: leadID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUpdateResponses(updates))
}

// ListMine returns the authenticated spotter's update feed
func (h *UpdateHandler) ListMine(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListUpdatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	input := updateapp.ListByRecipientInput{
		Actor:    actor,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.RecipientID != "" {
		id, err := uuid.Parse(req.RecipientID)
		if err != nil {
			h.BadRequest(c, "Invalid recipient ID")
			return
		}
		input.RecipientID = &id
	}

	page, err := h.updateService.ListByRecipient(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toUpdateResponses(page.Items), page.Total, req.Page, req.PageSize)
}

// RetryPending re-dispatches updates stuck in pending (Admin only)
func (h *UpdateHandler) RetryPending(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	retried, err := h.updateService.RetryPending(c.Request.Context(), updateapp.RetryPendingInput{
		Actor: actor,
		Limit: 50,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"retried": retried})
}

// TwilioStatusCallback receives delivery receipts from Twilio. It always
// responds 204: Twilio retries on non-2xx, and a receipt for an unknown
// message is not worth a retry storm.
func (h *UpdateHandler) TwilioStatusCallback(c *gin.Context) {
	input := updateapp.StatusCallbackInput{
		ProviderSID:  c.PostForm("MessageSid"),
		Status:       c.PostForm("MessageStatus"),
		ErrorMessage: c.PostForm("ErrorMessage"),
	}
	if input.ProviderSID == "" {
		c.Status(http.StatusNoContent)
		return
	}

	_ = h.updateService.HandleStatusCallback(c.Request.Context(), input)
	c.Status(http.StatusNoContent)
}

func (h *UpdateHandler) actorAndLeadID(c *gin.Context) (actor identity.Actor, leadID uuid.UUID, ok bool) {
	actor, found := getActor(c)
	if !found {
		h.Unauthorized(c, "Authentication required")
		return actor, uuid.Nil, false
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid lead ID")
		return actor, uuid.Nil, false
	}
	leadID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid lead ID")
		return actor, uuid.Nil, false
	}
	return actor, leadID, true
}
