package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	commissionapp "github.com/propertyspotter/backend/internal/application/commission"
	"github.com/propertyspotter/backend/internal/domain/commission"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/interfaces/http/dto"
)

// CommissionHandler handles commission HTTP requests
type CommissionHandler struct {
	BaseHandler
	commissionService *commissionapp.Service
}

// NewCommissionHandler creates a new commission handler
func NewCommissionHandler(commissionService *commissionapp.Service) *CommissionHandler {
	return &CommissionHandler{commissionService: commissionService}
}

// MarkPaidRequest is the payload for recording a commission payout
type MarkPaidRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required,max=100"`
}

// CancelCommissionRequest is the payload for cancelling a commission
type CancelCommissionRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

// ListCommissionsRequest holds the query parameters for commission listings
type ListCommissionsRequest struct {
	dto.ListRequest
	Status    string `form:"status" binding:"omitempty,oneof=pending approved paid cancelled"`
	SpotterID string `form:"spotter_id" binding:"omitempty,uuid"`
	AgencyID  string `form:"agency_id" binding:"omitempty,uuid"`
	AgentID   string `form:"agent_id" binding:"omitempty,uuid"`
}

// CommissionResponse is the wire representation of a commission
type CommissionResponse struct {
	ID                uuid.UUID         `json:"id"`
	LeadID            uuid.UUID         `json:"lead_id"`
	SpotterID         uuid.UUID         `json:"spotter_id"`
	AgencyID          *uuid.UUID        `json:"agency_id,omitempty"`
	AgentID           *uuid.UUID        `json:"agent_id,omitempty"`
	TotalAmount       decimal.Decimal   `json:"total_amount"`
	SpotterPercentage decimal.Decimal   `json:"spotter_percentage"`
	SpotterAmount     decimal.Decimal   `json:"spotter_amount"`
	PlatformAmount    decimal.Decimal   `json:"platform_amount"`
	Status            commission.Status `json:"status"`
	ApprovedAt        *time.Time        `json:"approved_at,omitempty"`
	ApprovedBy        *uuid.UUID        `json:"approved_by,omitempty"`
	PaidAt            *time.Time        `json:"paid_at,omitempty"`
	PaymentReference  string            `json:"payment_reference,omitempty"`
	CancelReason      string            `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func toCommissionResponse(cm *commission.Commission) CommissionResponse {
	return CommissionResponse{
		ID:                cm.ID,
		LeadID:            cm.LeadID,
		SpotterID:         cm.SpotterID,
		AgencyID:          cm.AgencyID,
		AgentID:           cm.AgentID,
		TotalAmount:       cm.TotalAmount,
		SpotterPercentage: cm.SpotterPercentage,
		SpotterAmount:     cm.SpotterAmount,
		PlatformAmount:    cm.PlatformAmount,
		Status:            cm.Status,
		ApprovedAt:        cm.ApprovedAt,
		ApprovedBy:        cm.ApprovedBy,
		PaidAt:            cm.PaidAt,
		PaymentReference:  cm.PaymentReference,
		CancelReason:      cm.CancelReason,
		CreatedAt:         cm.CreatedAt,
		UpdatedAt:         cm.UpdatedAt,
	}
}

func toCommissionResponses(commissions []commission.Commission) []CommissionResponse {
	out := make([]CommissionResponse, len(commissions))
	for i := range commissions {
		out[i] = toCommissionResponse(&commissions[i])
	}
	return out
}

// GetByID returns a single commission
func (h *CommissionHandler) GetByID(c *gin.Context) {
	actor, commissionID, ok := h.actorAndCommissionID(c)
	if !ok {
		return
	}

	cm, err := h.commissionService.Get(c.Request.Context(), commissionapp.GetCommissionInput{
		Actor:        actor,
		CommissionID: commissionID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCommissionResponse(cm))
}

// Approve approves a pending commission for payout (Admin only)
func (h *CommissionHandler) Approve(c *gin.Context) {
	actor, commissionID, ok := h.actorAndCommissionID(c)
	if !ok {
		return
	}

	cm, err := h.commissionService.Approve(c.Request.Context(), commissionapp.ApproveCommissionInput{
		Actor:        actor,
		CommissionID: commissionID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCommissionResponse(cm))
}

// MarkPaid records the payout reference for an approved commission (Admin only)
func (h *CommissionHandler) MarkPaid(c *gin.Context) {
	actor, commissionID, ok := h.actorAndCommissionID(c)
	if !ok {
		return
	}

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	cm, err := h.commissionService.MarkPaid(c.Request.Context(), commissionapp.MarkPaidInput{
		Actor:            actor,
		CommissionID:     commissionID,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCommissionResponse(cm))
}

// Cancel cancels a commission with a reason (Admin only)
func (h *CommissionHandler) Cancel(c *gin.Context) {
	actor, commissionID, ok := h.actorAndCommissionID(c)
	if !ok {
		return
	}

	var req CancelCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	cm, err := h.commissionService.Cancel(c.Request.Context(), commissionapp.CancelCommissionInput{
		Actor:        actor,
		CommissionID: commissionID,
		Reason:       req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toCommissionResponse(cm))
}

// ListMine returns the authenticated spotter's commissions
func (h *CommissionHandler) ListMine(c *gin.Context) {
	h.list(c, h.commissionService.ListBySpotter)
}

// ListForAgency returns an agency's commissions
func (h *CommissionHandler) ListForAgency(c *gin.Context) {
	h.list(c, h.commissionService.ListByAgency)
}

// ListForAgent returns the commissions on an agent's closed leads
func (h *CommissionHandler) ListForAgent(c *gin.Context) {
	h.list(c, h.commissionService.ListByAgent)
}

// List returns every commission, optionally filtered by status (Admin only)
func (h *CommissionHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListCommissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	input, ok := h.listInput(c, actor, req)
	if !ok {
		return
	}

	var (
		page *shared.Paginated[commission.Commission]
		err  error
	)
	if req.Status != "" {
		page, err = h.commissionService.ListByStatus(c.Request.Context(), input)
	} else {
		page, err = h.commissionService.ListAll(c.Request.Context(), input)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toCommissionResponses(page.Items), page.Total, req.Page, req.PageSize)
}

// Earnings returns the authenticated spotter's earnings summary
func (h *CommissionHandler) Earnings(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	input := commissionapp.EarningsInput{Actor: actor}
	if spotterID := c.Query("spotter_id"); spotterID != "" {
		id, err := uuid.Parse(spotterID)
		if err != nil {
			h.BadRequest(c, "Invalid spotter ID")
			return
		}
		input.SpotterID = &id
	}

	result, err := h.commissionService.Earnings(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *CommissionHandler) list(c *gin.Context, query func(ctx context.Context, input commissionapp.ListCommissionsInput) (*shared.Paginated[commission.Commission], error)) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListCommissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	input, ok := h.listInput(c, actor, req)
	if !ok {
		return
	}

	page, err := query(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toCommissionResponses(page.Items), page.Total, req.Page, req.PageSize)
}

func (h *CommissionHandler) listInput(c *gin.Context, actor identity.Actor, req ListCommissionsRequest) (commissionapp.ListCommissionsInput, bool) {
	input := commissionapp.ListCommissionsInput{
		Actor:    actor,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}
	if req.SpotterID != "" {
		id, err := uuid.Parse(req.SpotterID)
		if err != nil {
			h.BadRequest(c, "Invalid spotter ID")
			return input, false
		}
		input.SpotterID = &id
	}
	if req.AgencyID != "" {
		id, err := uuid.Parse(req.AgencyID)
		if err != nil {
			h.BadRequest(c, "Invalid agency ID")
			return input, false
		}
		input.AgencyID = &id
	}
	if req.AgentID != "" {
		id, err := uuid.Parse(req.AgentID)
		if err != nil {
			h.BadRequest(c, "Invalid agent ID")
			return input, false
		}
		input.AgentID = &id
	}
	return input, true
}

func (h *CommissionHandler) actorAndCommissionID(c *gin.Context) (actor identity.Actor, commissionID uuid.UUID, ok bool) {
	actor, found := getActor(c)
	if !found {
		h.Unauthorized(c, "Authentication required")
		return actor, uuid.Nil, false
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid commission ID")
		return actor, uuid.Nil, false
	}
	commissionID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid commission ID")
		return actor, uuid.Nil, false
	}
	return actor, commissionID, true
}
