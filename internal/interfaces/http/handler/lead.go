package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	leadapp "github.com/propertyspotter/backend/internal/application/lead"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/lead"
	"github.com/propertyspotter/backend/internal/domain/property"
	"github.com/propertyspotter/backend/internal/interfaces/http/dto"
)

// LeadHandler handles lead lifecycle HTTP requests
type LeadHandler struct {
	BaseHandler
	leadService *leadapp.Service
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(leadService *leadapp.Service) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// SubmitLeadRequest is the payload for spotter lead submission
type SubmitLeadRequest struct {
	FirstName        string   `json:"first_name" binding:"required,max=100"`
	LastName         string   `json:"last_name" binding:"required,max=100"`
	Email            string   `json:"email" binding:"omitempty,email"`
	Phone            string   `json:"phone" binding:"required,max=20"`
	Notes            string   `json:"notes" binding:"max=2000"`
	RequestedAgentID *string  `json:"requested_agent_id" binding:"omitempty,uuid"`
	ImageURLs        []string `json:"image_urls" binding:"omitempty,dive,url"`
}

// RouteLeadRequest is the payload for routing a lead to an agency
type RouteLeadRequest struct {
	AgencyID string `json:"agency_id" binding:"required,uuid"`
}

// AssignLeadRequest is the payload for assigning a lead to an agent
type AssignLeadRequest struct {
	AgentID string `json:"agent_id" binding:"required,uuid"`
}

// AcceptLeadRequest is the payload for accepting an assigned lead
type AcceptLeadRequest struct {
	AgreedCommission  decimal.Decimal  `json:"agreed_commission" binding:"required"`
	SpotterPercentage *decimal.Decimal `json:"spotter_percentage"`
	PropertyAddress   string           `json:"property_address" binding:"required,max=255"`
	PropertyCity      string           `json:"property_city" binding:"required,max=100"`
	PropertyType      string           `json:"property_type" binding:"required,oneof=residential commercial land industrial"`
}

// RejectLeadRequest is the payload for rejecting an assigned lead
type RejectLeadRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// CompleteLeadRequest is the payload for closing a lead with a sale
type CompleteLeadRequest struct {
	SalePrice decimal.Decimal `json:"sale_price" binding:"required"`
}

// AddLeadNoteRequest is the payload for attaching a note to a lead
type AddLeadNoteRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// AddLeadImageRequest is the payload for attaching an image to a lead
type AddLeadImageRequest struct {
	URL         string `json:"url" binding:"required,url"`
	Description string `json:"description" binding:"max=255"`
}

// ListLeadsRequest holds the query parameters for lead listings
type ListLeadsRequest struct {
	dto.ListRequest
	Status   string `form:"status" binding:"omitempty,oneof=new assigned accepted rejected in_progress closed"`
	AgencyID string `form:"agency_id" binding:"omitempty,uuid"`
}

// LeadResponse is the wire representation of a lead
type LeadResponse struct {
	ID                uuid.UUID        `json:"id"`
	FirstName         string           `json:"first_name"`
	LastName          string           `json:"last_name"`
	Email             string           `json:"email,omitempty"`
	Phone             string           `json:"phone"`
	Notes             string           `json:"notes,omitempty"`
	Status            lead.Status      `json:"status"`
	SpotterID         uuid.UUID        `json:"spotter_id"`
	AgencyID          *uuid.UUID       `json:"agency_id,omitempty"`
	AgentID           *uuid.UUID       `json:"agent_id,omitempty"`
	RequestedAgentID  *uuid.UUID       `json:"requested_agent_id,omitempty"`
	PropertyID        *uuid.UUID       `json:"property_id,omitempty"`
	AgreedCommission  *decimal.Decimal `json:"agreed_commission,omitempty"`
	SpotterPercentage *decimal.Decimal `json:"spotter_percentage,omitempty"`
	AssignedAt        *time.Time       `json:"assigned_at,omitempty"`
	ClosedAt          *time.Time       `json:"closed_at,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// LeadNoteResponse is the wire representation of a lead note
type LeadNoteResponse struct {
	ID        uuid.UUID `json:"id"`
	LeadID    uuid.UUID `json:"lead_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// LeadImageResponse is the wire representation of a lead image
type LeadImageResponse struct {
	ID          uuid.UUID `json:"id"`
	LeadID      uuid.UUID `json:"lead_id"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// LeadDetailResponse bundles a lead with its notes and images
type LeadDetailResponse struct {
	Lead   LeadResponse        `json:"lead"`
	Notes  []LeadNoteResponse  `json:"notes"`
	Images []LeadImageResponse `json:"images"`
}

func toLeadResponse(l *lead.Lead) LeadResponse {
	return LeadResponse{
		ID:                l.ID,
		FirstName:         l.FirstName,
		LastName:          l.LastName,
		Email:             l.Email,
		Phone:             l.Phone,
		Notes:             l.NotesText,
		Status:            l.Status,
		SpotterID:         l.SpotterID,
		AgencyID:          l.AgencyID,
		AgentID:           l.AgentID,
		RequestedAgentID:  l.RequestedAgentID,
		PropertyID:        l.PropertyID,
		AgreedCommission:  l.AgreedCommission,
		SpotterPercentage: l.SpotterPercentage,
		AssignedAt:        l.AssignedAt,
		ClosedAt:          l.ClosedAt,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

func toLeadResponses(leads []lead.Lead) []LeadResponse {
	out := make([]LeadResponse, len(leads))
	for i := range leads {
		out[i] = toLeadResponse(&leads[i])
	}
	return out
}

// Submit creates a new lead from a spotter
func (h *LeadHandler) Submit(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := leadapp.SubmitLeadInput{
		Actor:     actor,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		ImageURLs: req.ImageURLs,
	}
	if req.RequestedAgentID != nil {
		agentID, err := uuid.Parse(*req.RequestedAgentID)
		if err != nil {
			h.BadRequest(c, "Invalid requested agent ID")
			return
		}
		input.RequestedAgentID = &agentID
	}

	l, err := h.leadService.Submit(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toLeadResponse(l))
}

// Route routes a lead to an agency (Admin only)
func (h *LeadHandler) Route(c *gin.Context) {
	actor, leadID, ok := h.actorAndLeadID(c)
	if !ok {
		return
	}

	var req RouteLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	agencyID, _ := uuid.Parse(req.AgencyID)

	l, err := h.leadService.RouteToAgency(c.Request.Context(), leadapp.RouteLeadInput{
		Actor:    actor,
		LeadID:   leadID,
		AgencyID: agencyID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLeadResponse(l))
}

// Assign assigns a lead to an agent within the routed agency
func (h *LeadHandler) Assign(c *gin.Context) {
	actor, leadID, ok := h.actorAndLeadID(c)
	if !ok {
		return
	}

	var req AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	agentID, _ := uuid.Parse(req.AgentID)

	l, err := h.leadService.Assign(c.Request.Context(), leadapp.AssignLeadInput{
		Actor:   actor,
		LeadID:  leadID,
		AgentID: agentID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLeadResponse(l))
}

// Accept accepts an assigned lead, fixing the commission terms and creating
// the property record
func (h *LeadHandler) Accept(c *gin.Context) {
	actor, leadID, ok := h.actorAndLeadID(c)
	if !ok {
		return
	}

	var req AcceptLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	l, err := h.leadService.Accept(c.Request.Context(), leadapp.AcceptLeadInput{
		Actor:             actor,
		LeadID:            leadID,
		AgreedCommission:  req.AgreedCommission,
		SpotterPercentage: req.SpotterPercentage,
		PropertyAddress:   req.PropertyAddress,
		PropertyCity:      req.PropertyCity,
		PropertyType:      property.Type(req.PropertyType),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLeadResponse(l))
}

// Reject rejects an assigned lead
func (h *LeadHandler) Reject(c *gin.Context) {
	actor, leadID, ok := h.actorAndLeadID(c)
	if !ok {
		return
	}

	var req RejectLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	l, err := h.leadService.Reject(c.Request.Context(), leadapp.RejectLeadInput{
		Actor:  actor,
		LeadID: leadID,
		Reason: req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLeadResponse(l))
}

// StartWork moves an accepted lead into progress
func (h *LeadHandler) StartWork(c *gin.Context) {
	actor, leadID, ok := h.actorAndLeadID(c)
	if !ok {
		return
	}

	l, err := h.leadService.StartWork(c.Request.Context(), leadapp.StartWorkInput{
		Actor:  actor,
		LeadID: leadID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLeadResponse(l))
}

// Complete closes a lead with a sale, recording the price and creating the
// commission record
func (h *LeadHandler) Complete(c *gin.Context) {
	actor, leadID, ok := h.actorAndLeadID(c)
	if !ok {
		return
	}

	var req CompleteLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	l, err := h.leadService.Complete(c.Request.Context(), leadapp.CompleteLeadInput{
		Actor:     actor,
		LeadID:    leadID,
		SalePrice: req.SalePrice,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLeadResponse(l))
}

// AddNote attaches a note to a lead
func (h *LeadHandler) AddNote(c *gin.Context) {
	actor, leadID, ok := h.actorAndLeadID(c)
	if !ok {
		return
	}

	var req AddLeadNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	note, err := h.leadService.AddNote(c.Request.Context(), leadapp.AddNoteInput{
		Actor:   actor,
		LeadID:  leadID,
		Content: req.Content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, LeadNoteResponse{
		ID:        note.ID,
		LeadID:    note.LeadID,
		AuthorID:  note.AuthorID,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
	})
}

// AddImage attaches an image to a lead
func (h *LeadHandler) AddImage(c *gin.Context) {
	actor, leadID, ok := h.actorAndLeadID(c)
	if !ok {
		return
	}

	var req AddLeadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	img, err := h.leadService.AddImage(c.Request.Context(), leadapp.AddImageInput{
		Actor:       actor,
		LeadID:      leadID,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, LeadImageResponse{
		ID:          img.ID,
		LeadID:      img.LeadID,
		URL:         img.URL,
		Description: img.Description,
		CreatedAt:   img.CreatedAt,
	})
}

// GetByID returns a single lead with its notes and images
func (h *LeadHandler) GetByID(c *gin.Context) {
	actor, leadID, ok := h.actorAndLeadID(c)
	if !ok {
		return
	}

	detail, err := h.leadService.Get(c.Request.Context(), leadapp.GetLeadInput{
		Actor:  actor,
		LeadID: leadID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	notes := make([]LeadNoteResponse, len(detail.Notes))
	for i, n := range detail.Notes {
		notes[i] = LeadNoteResponse{
			ID:        n.ID,
			LeadID:    n.LeadID,
			AuthorID:  n.AuthorID,
			Content:   n.Content,
			CreatedAt: n.CreatedAt,
		}
	}
	images := make([]LeadImageResponse, len(detail.Images))
	for i, img := range detail.Images {
		images[i] = LeadImageResponse{
			ID:          img.ID,
			LeadID:      img.LeadID,
			URL:         img.URL,
			Description: img.Description,
			CreatedAt:   img.CreatedAt,
		}
	}

	h.Success(c, LeadDetailResponse{
		Lead:   toLeadResponse(detail.Lead),
		Notes:  notes,
		Images: images,
	})
}

// ListMine returns the authenticated spotter's own leads
func (h *LeadHandler) ListMine(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	leads, total, err := h.leadService.ListBySpotter(c.Request.Context(), leadapp.ListLeadsInput{
		Actor:    actor,
		Status:   req.Status,
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
	h.SuccessWithMeta(c, toLeadResponses(leads), total, req.Page, req.PageSize)
}

// ListForAgency returns an agency's leads
func (h *LeadHandler) ListForAgency(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	input := leadapp.ListLeadsInput{
		Actor:    actor,
		Status:   req.Status,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}
	if req.AgencyID != "" {
		agencyID, err := uuid.Parse(req.AgencyID)
		if err != nil {
			h.BadRequest(c, "Invalid agency ID")
			return
		}
		input.AgencyID = &agencyID
	}

	leads, err := h.leadService.ListByAgency(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLeadResponses(leads))
}

// ListUnrouted returns the pool of new leads awaiting routing (Admin only)
func (h *LeadHandler) ListUnrouted(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	leads, err := h.leadService.ListUnrouted(c.Request.Context(), leadapp.ListLeadsInput{
		Actor:    actor,
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
	h.Success(c, toLeadResponses(leads))
}

// List returns every lead (Admin only)
func (h *LeadHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	leads, total, err := h.leadService.ListAll(c.Request.Context(), leadapp.ListLeadsInput{
		Actor:    actor,
		Status:   req.Status,
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
	h.SuccessWithMeta(c, toLeadResponses(leads), total, req.Page, req.PageSize)
}

// actorAndLeadID extracts the caller and the :id path parameter
func (h *LeadHandler) actorAndLeadID(c *gin.Context) (actor identity.Actor, leadID uuid.UUID, ok bool) {
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
