package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/propertyspotter/backend/internal/application/identity"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/shared"
	"github.com/propertyspotter/backend/internal/interfaces/http/dto"
)

// AgencyHandler handles agency HTTP requests
type AgencyHandler struct {
	BaseHandler
	agencyService *identityapp.AgencyService
}

// NewAgencyHandler creates a new agency handler
func NewAgencyHandler(agencyService *identityapp.AgencyService) *AgencyHandler {
	return &AgencyHandler{agencyService: agencyService}
}

// CreateAgencyRequest is the payload for agency creation
type CreateAgencyRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=20"`
	Address string `json:"address" binding:"omitempty,max=500"`
}

// UpdateAgencyRequest is the payload for agency updates
type UpdateAgencyRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Phone   string `json:"phone" binding:"omitempty,max=20"`
	Address string `json:"address" binding:"omitempty,max=500"`
}

// InviteAgentRequest is the payload for inviting an agent into an agency
type InviteAgentRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
}

// AcceptInvitationRequest is the payload for accepting an agency invitation
type AcceptInvitationRequest struct {
	Token    string `json:"token" binding:"required"`
	Username string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// AgencyResponse is the wire representation of an agency
type AgencyResponse struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone,omitempty"`
	Address           string     `json:"address,omitempty"`
	Active            bool       `json:"active"`
	LicenseValidUntil *time.Time `json:"license_valid_until,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toAgencyResponse(a *identity.Agency) AgencyResponse {
	return AgencyResponse{
		ID:                a.ID,
		Name:              a.Name,
		Email:             a.Email,
		Phone:             a.Phone,
		Address:           a.Address,
		Active:            a.Active,
		LicenseValidUntil: a.LicenseValidUntil,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// Create registers a new agency (Admin only)
func (h *AgencyHandler) Create(c *gin.Context) {
	var req CreateAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	info, err := h.agencyService.CreateAgency(c.Request.Context(), identityapp.CreateAgencyInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, AgencyInfoResponse{
		ID:     info.ID,
		Name:   info.Name,
		Email:  info.Email,
		Active: info.Active,
	})
}

// Update modifies an agency's details
func (h *AgencyHandler) Update(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	var req UpdateAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	info, err := h.agencyService.UpdateAgency(c.Request.Context(), identityapp.UpdateAgencyInput{
		AgencyID: agencyID,
		Name:     req.Name,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AgencyInfoResponse{
		ID:     info.ID,
		Name:   info.Name,
		Email:  info.Email,
		Active: info.Active,
	})
}

// GetByID returns a single agency
func (h *AgencyHandler) GetByID(c *gin.Context) {
	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}

	agency, err := h.agencyService.GetAgency(c.Request.Context(), agencyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAgencyResponse(agency))
}

// List returns a page of agencies
func (h *AgencyHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	agencies, total, err := h.agencyService.ListAgencies(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]AgencyResponse, len(agencies))
	for i := range agencies {
		out[i] = toAgencyResponse(&agencies[i])
	}
	h.SuccessWithMeta(c, out, total, req.Page, req.PageSize)
}

// InviteAgent issues an invitation token and emails it to the agent
func (h *AgencyHandler) InviteAgent(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	agencyID, ok := h.agencyID(c)
	if !ok {
		return
	}
	if !actor.IsAdmin() && !actor.ManagesAgency(agencyID) {
		h.Forbidden(c, "Only agency management can invite agents")
		return
	}

	var req InviteAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.agencyService.InviteAgent(c.Request.Context(), identityapp.InviteAgentInput{
		AgencyID:  agencyID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		InvitedBy: actor.ID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, gin.H{
		"email":      result.Email,
		"expires_at": result.ExpiresAt,
	})
}

// AcceptInvitation creates an agent account from an invitation token
func (h *AgencyHandler) AcceptInvitation(c *gin.Context) {
	var req AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.agencyService.AcceptInvitation(c.Request.Context(), identityapp.AcceptInvitationInput{
		Token:    req.Token,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, gin.H{
		"user_id":   result.UserID,
		"agency_id": result.AgencyID,
		"email":     result.Email,
		"message":   "Account created. You can now log in.",
	})
}

func (h *AgencyHandler) agencyID(c *gin.Context) (uuid.UUID, bool) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid agency ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid agency ID")
		return uuid.Nil, false
	}
	return id, true
}
