package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	listingapp "github.com/propertyspotter/backend/internal/application/listing"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/domain/listing"
	"github.com/propertyspotter/backend/internal/interfaces/http/dto"
)

// ListingHandler handles listing HTTP requests, both the authenticated
// management surface and the public catalogue
type ListingHandler struct {
	BaseHandler
	listingService *listingapp.Service
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listingService *listingapp.Service) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateListingRequest is the payload for creating a draft listing
type CreateListingRequest struct {
	Title        string           `json:"title" binding:"required,max=255"`
	Description  string           `json:"description" binding:"omitempty,max=10000"`
	Suburb       string           `json:"suburb" binding:"omitempty,max=100"`
	City         string           `json:"city" binding:"required,max=100"`
	Province     string           `json:"province" binding:"required"`
	Bedrooms     int              `json:"bedrooms" binding:"omitempty,gte=0,lte=50"`
	Bathrooms    int              `json:"bathrooms" binding:"omitempty,gte=0,lte=50"`
	Price        *decimal.Decimal `json:"price"`
	ExternalLink string           `json:"external_link" binding:"omitempty,url"`
	PropertyID   *string          `json:"property_id" binding:"omitempty,uuid"`
}

// UpdateListingRequest is the payload for editing a listing
type UpdateListingRequest struct {
	Title        string           `json:"title" binding:"required,max=255"`
	Description  string           `json:"description" binding:"omitempty,max=10000"`
	Suburb       string           `json:"suburb" binding:"omitempty,max=100"`
	City         string           `json:"city" binding:"required,max=100"`
	Province     string           `json:"province" binding:"required"`
	Bedrooms     int              `json:"bedrooms" binding:"omitempty,gte=0,lte=50"`
	Bathrooms    int              `json:"bathrooms" binding:"omitempty,gte=0,lte=50"`
	Price        *decimal.Decimal `json:"price"`
	ExternalLink string           `json:"external_link" binding:"omitempty,url"`
}

// AddListingImageRequest is the payload for attaching an image to a listing
type AddListingImageRequest struct {
	URL       string `json:"url" binding:"required,url"`
	Caption   string `json:"caption" binding:"omitempty,max=255"`
	SortOrder int    `json:"sort_order" binding:"omitempty,gte=0"`
	Primary   bool   `json:"primary"`
}

// ListListingsRequest holds the query parameters for authenticated listings
type ListListingsRequest struct {
	dto.ListRequest
	Status  string `form:"status" binding:"omitempty,oneof=draft published archived"`
	AgentID string `form:"agent_id" binding:"omitempty,uuid"`
}

// PublicListingsRequest holds the query parameters for the public catalogue
type PublicListingsRequest struct {
	dto.ListRequest
	City     string `form:"city" binding:"omitempty,max=100"`
	Province string `form:"province" binding:"omitempty,max=100"`
}

// ListingImageResponse is the wire representation of a listing image
type ListingImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
}

// ListingResponse is the wire representation of a listing
type ListingResponse struct {
	ID           uuid.UUID              `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Suburb       string                 `json:"suburb,omitempty"`
	City         string                 `json:"city"`
	Province     listing.Province       `json:"province"`
	Price        *decimal.Decimal       `json:"price,omitempty"`
	Bedrooms     int                    `json:"bedrooms"`
	Bathrooms    int                    `json:"bathrooms"`
	Status       listing.Status         `json:"status"`
	ViewCount    int64                  `json:"view_count"`
	AgentID      uuid.UUID              `json:"agent_id"`
	AgencyID     *uuid.UUID             `json:"agency_id,omitempty"`
	PropertyID   *uuid.UUID             `json:"property_id,omitempty"`
	ExternalLink string                 `json:"external_link,omitempty"`
	Images       []ListingImageResponse `json:"images,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func toListingResponse(l *listing.Listing) ListingResponse {
	images := make([]ListingImageResponse, len(l.Images))
	for i, img := range l.Images {
		images[i] = ListingImageResponse{
			ID:        img.ID,
			URL:       img.URL,
			Caption:   img.Caption,
			IsPrimary: img.IsPrimary,
			SortOrder: img.SortOrder,
		}
	}
	return ListingResponse{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		Suburb:       l.Suburb,
		City:         l.City,
		Province:     l.Province,
		Price:        l.Price,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		Status:       l.Status,
		ViewCount:    l.ViewCount,
		AgentID:      l.AgentID,
		AgencyID:     l.AgencyID,
		PropertyID:   l.PropertyID,
		ExternalLink: l.ExternalLink,
		Images:       images,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func toListingResponses(listings []listing.Listing) []ListingResponse {
	out := make([]ListingResponse, len(listings))
	for i := range listings {
		out[i] = toListingResponse(&listings[i])
	}
	return out
}

// Create creates a draft listing owned by the caller
func (h *ListingHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	input := listingapp.CreateListingInput{
		Actor:        actor,
		Title:        req.Title,
		Description:  req.Description,
		Suburb:       req.Suburb,
		City:         req.City,
		Province:     listing.Province(req.Province),
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Price:        req.Price,
		ExternalLink: req.ExternalLink,
	}
	if req.PropertyID != nil {
		propertyID, err := uuid.Parse(*req.PropertyID)
		if err != nil {
			h.BadRequest(c, "Invalid property ID")
			return
		}
		input.PropertyID = &propertyID
	}

	l, err := h.listingService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toListingResponse(l))
}

// Update edits a listing
func (h *ListingHandler) Update(c *gin.Context) {
	actor, listingID, ok := h.actorAndListingID(c)
	if !ok {
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	l, err := h.listingService.Update(c.Request.Context(), listingapp.UpdateListingInput{
		Actor:        actor,
		ListingID:    listingID,
		Title:        req.Title,
		Description:  req.Description,
		Suburb:       req.Suburb,
		City:         req.City,
		Province:     listing.Province(req.Province),
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		Price:        req.Price,
		ExternalLink: req.ExternalLink,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toListingResponse(l))
}

// Publish makes a draft listing publicly visible
func (h *ListingHandler) Publish(c *gin.Context) {
	h.changeListing(c, h.listingService.Publish)
}

// Archive removes a listing from public view
func (h *ListingHandler) Archive(c *gin.Context) {
	h.changeListing(c, h.listingService.Archive)
}

// Delete removes a listing and its images
func (h *ListingHandler) Delete(c *gin.Context) {
	actor, listingID, ok := h.actorAndListingID(c)
	if !ok {
		return
	}

	if err := h.listingService.Delete(c.Request.Context(), listingapp.ChangeListingInput{
		Actor:     actor,
		ListingID: listingID,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddImage attaches an image to a listing
func (h *ListingHandler) AddImage(c *gin.Context) {
	actor, listingID, ok := h.actorAndListingID(c)
	if !ok {
		return
	}

	var req AddListingImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	img, err := h.listingService.AddImage(c.Request.Context(), listingapp.AddImageInput{
		Actor:     actor,
		ListingID: listingID,
		URL:       req.URL,
		Caption:   req.Caption,
		SortOrder: req.SortOrder,
		Primary:   req.Primary,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ListingImageResponse{
		ID:        img.ID,
		URL:       img.URL,
		Caption:   img.Caption,
		IsPrimary: img.IsPrimary,
		SortOrder: img.SortOrder,
	})
}

// SetPrimaryImage marks one image as the listing's primary image
func (h *ListingHandler) SetPrimaryImage(c *gin.Context) {
	actor, listingID, imageID, ok := h.imageParams(c)
	if !ok {
		return
	}

	if err := h.listingService.SetPrimaryImage(c.Request.Context(), listingapp.ImageInput{
		Actor:     actor,
		ListingID: listingID,
		ImageID:   imageID,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Primary image updated"})
}

// RemoveImage detaches an image from a listing
func (h *ListingHandler) RemoveImage(c *gin.Context) {
	actor, listingID, imageID, ok := h.imageParams(c)
	if !ok {
		return
	}

	if err := h.listingService.RemoveImage(c.Request.Context(), listingapp.ImageInput{
		Actor:     actor,
		ListingID: listingID,
		ImageID:   imageID,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetByID returns a single listing for its owner or an admin
func (h *ListingHandler) GetByID(c *gin.Context) {
	actor, listingID, ok := h.actorAndListingID(c)
	if !ok {
		return
	}

	l, err := h.listingService.Get(c.Request.Context(), listingapp.ChangeListingInput{
		Actor:     actor,
		ListingID: listingID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toListingResponse(l))
}

// ListMine returns the authenticated agent's listings
func (h *ListingHandler) ListMine(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	input := listingapp.ListListingsInput{
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

	page, err := h.listingService.ListByAgent(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toListingResponses(page.Items), page.Total, req.Page, req.PageSize)
}

// List returns every listing (Admin only)
func (h *ListingHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	page, err := h.listingService.ListAll(c.Request.Context(), listingapp.ListListingsInput{
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
	h.SuccessWithMeta(c, toListingResponses(page.Items), page.Total, req.Page, req.PageSize)
}

// PublicList returns the public catalogue of published listings
func (h *ListingHandler) PublicList(c *gin.Context) {
	var req PublicListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	page, err := h.listingService.PublicList(c.Request.Context(), listingapp.PublicListInput{
		City:     req.City,
		Province: req.Province,
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
	h.SuccessWithMeta(c, toListingResponses(page.Items), page.Total, req.Page, req.PageSize)
}

// PublicGet returns a single published listing and counts the view
func (h *ListingHandler) PublicGet(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}
	listingID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return
	}

	l, err := h.listingService.PublicGet(c.Request.Context(), listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toListingResponse(l))
}

func (h *ListingHandler) changeListing(c *gin.Context, transition func(ctx context.Context, input listingapp.ChangeListingInput) (*listing.Listing, error)) {
	actor, listingID, ok := h.actorAndListingID(c)
	if !ok {
		return
	}

	l, err := transition(c.Request.Context(), listingapp.ChangeListingInput{
		Actor:     actor,
		ListingID: listingID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toListingResponse(l))
}

func (h *ListingHandler) actorAndListingID(c *gin.Context) (actor identity.Actor, listingID uuid.UUID, ok bool) {
	actor, found := getActor(c)
	if !found {
		h.Unauthorized(c, "Authentication required")
		return actor, uuid.Nil, false
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return actor, uuid.Nil, false
	}
	listingID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid listing ID")
		return actor, uuid.Nil, false
	}
	return actor, listingID, true
}

func (h *ListingHandler) imageParams(c *gin.Context) (actor identity.Actor, listingID, imageID uuid.UUID, ok bool) {
	actor, listingID, ok = h.actorAndListingID(c)
	if !ok {
		return actor, uuid.Nil, uuid.Nil, false
	}

	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		h.BadRequest(c, "Invalid image ID")
		return actor, uuid.Nil, uuid.Nil, false
	}
	return actor, listingID, imageID, true
}
