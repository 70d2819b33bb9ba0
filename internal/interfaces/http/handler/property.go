package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	propertyapp "github.com/propertyspotter/backend/internal/application/property"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/property"
	"github.com/propertyspotter/backend/internal/interfaces/http/dto"
)

// PropertyHandler handles property HTTP requests
type PropertyHandler struct {
	BaseHandler
	propertyService *propertyapp.Service
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *propertyapp.Service) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// UpdatePropertyRequest is the payload for editing property details
type UpdatePropertyRequest struct {
	Suburb      string `json:"suburb" binding:"omitempty,max=100"`
	Province    string `json:"province" binding:"omitempty,max=100"`
	PostalCode  string `json:"postal_code" binding:"omitempty,max=10"`
	Description string `json:"description" binding:"omitempty,max=5000"`
	Bedrooms    int    `json:"bedrooms" binding:"omitempty,gte=0,lte=50"`
	Bathrooms   int    `json:"bathrooms" binding:"omitempty,gte=0,lte=50"`
	ErfSize     int    `json:"erf_size" binding:"omitempty,gte=0"`
}

// SetPriceRequest is the payload for setting the asking price
type SetPriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"required"`
}

// ListPropertiesRequest holds the query parameters for property listings
type ListPropertiesRequest struct {
	dto.ListRequest
	Status  string `form:"status" binding:"omitempty,oneof=available pending sold off_market"`
	AgentID string `form:"agent_id" binding:"omitempty,uuid"`
}

// PropertyResponse is the wire representation of a property
type PropertyResponse struct {
	ID           uuid.UUID        `json:"id"`
	Address      string           `json:"address"`
	Suburb       string           `json:"suburb,omitempty"`
	City         string           `json:"city"`
	Province     string           `json:"province,omitempty"`
	PostalCode   string           `json:"postal_code,omitempty"`
	PropertyType property.Type    `json:"property_type"`
	Status       property.Status  `json:"status"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Bedrooms     int              `json:"bedrooms"`
	Bathrooms    int              `json:"bathrooms"`
	ErfSize      int              `json:"erf_size"`
	Description  string           `json:"description,omitempty"`
	AgentID      uuid.UUID        `json:"agent_id"`
	LeadID       *uuid.UUID       `json:"lead_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func toPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:           p.ID,
		Address:      p.Address,
		Suburb:       p.Suburb,
		City:         p.City,
		Province:     p.Province,
		PostalCode:   p.PostalCode,
		PropertyType: p.PropertyType,
		Status:       p.Status,
		Price:        p.Price,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		ErfSize:      p.ErfSize,
		Description:  p.Description,
		AgentID:      p.AgentID,
		LeadID:       p.LeadID,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toPropertyResponses(props []property.Property) []PropertyResponse {
	out := make([]PropertyResponse, len(props))
	for i := range props {
		out[i] = toPropertyResponse(&props[i])
	}
	return out
}

// GetByID returns a single property
func (h *PropertyHandler) GetByID(c *gin.Context) {
	actor, propertyID, ok := h.actorAndPropertyID(c)
	if !ok {
		return
	}

	p, err := h.propertyService.Get(c.Request.Context(), propertyapp.GetPropertyInput{
		Actor:      actor,
		PropertyID: propertyID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPropertyResponse(p))
}

// ListMine returns the authenticated agent's properties
func (h *PropertyHandler) ListMine(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	input := propertyapp.ListPropertiesInput{
		Actor:    actor,
		Status:   req.Status,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
	}
	if req.AgentID != "" {
		agentID, err := uuid.Parse(req.AgentID)
		if err != nil {
			h.BadRequest(c, "Invalid agent ID")
			return
		}
		input.AgentID = &agentID
	}

	page, err := h.propertyService.ListByAgent(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toPropertyResponses(page.Items), page.Total, req.Page, req.PageSize)
}

// List returns every property (Admin only)
func (h *PropertyHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListPropertiesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	page, err := h.propertyService.ListAll(c.Request.Context(), propertyapp.ListPropertiesInput{
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
	h.SuccessWithMeta(c, toPropertyResponses(page.Items), page.Total, req.Page, req.PageSize)
}

// Update edits a property's details
func (h *PropertyHandler) Update(c *gin.Context) {
	actor, propertyID, ok := h.actorAndPropertyID(c)
	if !ok {
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	p, err := h.propertyService.UpdateDetails(c.Request.Context(), propertyapp.UpdateDetailsInput{
		Actor:       actor,
		PropertyID:  propertyID,
		Suburb:      req.Suburb,
		Province:    req.Province,
		PostalCode:  req.PostalCode,
		Description: req.Description,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		ErfSize:     req.ErfSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPropertyResponse(p))
}

// SetPrice sets the asking price
func (h *PropertyHandler) SetPrice(c *gin.Context) {
	actor, propertyID, ok := h.actorAndPropertyID(c)
	if !ok {
		return
	}

	var req SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	p, err := h.propertyService.SetPrice(c.Request.Context(), propertyapp.SetPriceInput{
		Actor:      actor,
		PropertyID: propertyID,
		Price:      req.Price,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPropertyResponse(p))
}

// MarkPending marks an available property as under offer
func (h *PropertyHandler) MarkPending(c *gin.Context) {
	h.changeStatus(c, h.propertyService.MarkPending)
}

// TakeOffMarket withdraws a property from the market
func (h *PropertyHandler) TakeOffMarket(c *gin.Context) {
	h.changeStatus(c, h.propertyService.TakeOffMarket)
}

// Relist returns a pending or off-market property to available
func (h *PropertyHandler) Relist(c *gin.Context) {
	h.changeStatus(c, h.propertyService.Relist)
}

func (h *PropertyHandler) changeStatus(c *gin.Context, transition func(ctx context.Context, input propertyapp.ChangeStatusInput) (*property.Property, error)) {
	actor, propertyID, ok := h.actorAndPropertyID(c)
	if !ok {
		return
	}

	p, err := transition(c.Request.Context(), propertyapp.ChangeStatusInput{
		Actor:      actor,
		PropertyID: propertyID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPropertyResponse(p))
}

func (h *PropertyHandler) actorAndPropertyID(c *gin.Context) (actor identity.Actor, propertyID uuid.UUID, ok bool) {
	actor, found := getActor(c)
	if !found {
		h.Unauthorized(c, "Authentication required")
		return actor, uuid.Nil, false
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid property ID")
		return actor, uuid.Nil, false
	}
	propertyID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID")
		return actor, uuid.Nil, false
	}
	return actor, propertyID, true
}
