package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/propertyspotter/backend/internal/application/identity"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/interfaces/http/dto"
)

// UserHandler handles user account HTTP requests
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest is the payload for profile updates
type UpdateProfileRequest struct {
	FirstName       string `json:"first_name" binding:"required,max=100"`
	LastName        string `json:"last_name" binding:"required,max=100"`
	Phone           string `json:"phone" binding:"required,max=20"`
	ProfileImageURL string `json:"profile_image_url" binding:"omitempty,url"`
}

// BankingDetailsRequest is the payload for payout account updates
type BankingDetailsRequest struct {
	BankName      string `json:"bank_name" binding:"required,max=100"`
	BranchCode    string `json:"branch_code" binding:"required,max=20"`
	AccountNumber string `json:"account_number" binding:"required,max=30,numeric"`
	AccountName   string `json:"account_name" binding:"required,max=100"`
	AccountType   string `json:"account_type" binding:"required,oneof=cheque savings"`
}

// ListUsersRequest holds the query parameters for user listing
type ListUsersRequest struct {
	dto.ListRequest
	Role     string `form:"role" binding:"omitempty,oneof=Spotter Agent 'Master Agent' Agency_Admin Admin"`
	AgencyID string `form:"agency_id" binding:"omitempty,uuid"`
}

// GetProfile returns the authenticated user's profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserInfoResponse(*user))
}

// UpdateProfile updates the authenticated user's profile details
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), identityapp.UpdateProfileInput{
		UserID:          actor.ID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserInfoResponse(*user))
}

// SetBankingDetails stores the authenticated user's payout account
func (h *UserHandler) SetBankingDetails(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req BankingDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	user, err := h.userService.SetBankingDetails(c.Request.Context(), identityapp.BankingDetailsInput{
		UserID:        actor.ID,
		BankName:      req.BankName,
		BranchCode:    req.BranchCode,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		AccountType:   req.AccountType,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserInfoResponse(*user))
}

// List returns a page of user accounts (Admin only)
func (h *UserHandler) List(c *gin.Context) {
	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	req.Normalize()

	input := identityapp.ListUsersInput{
		Role:     identity.Role(req.Role),
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
	}
	if req.AgencyID != "" {
		agencyID, err := uuid.Parse(req.AgencyID)
		if err != nil {
			h.BadRequest(c, "Invalid agency ID")
			return
		}
		input.AgencyID = &agencyID
	}

	result, err := h.userService.ListUsers(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	users := make([]UserInfoResponse, len(result.Users))
	for i, u := range result.Users {
		users[i] = toUserInfoResponse(u)
	}
	h.SuccessWithMeta(c, users, result.Total, req.Page, req.PageSize)
}

// GetByID returns a user's profile by id (Admin only)
func (h *UserHandler) GetByID(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	userID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserInfoResponse(*user))
}

// Approve activates a pending user account (Admin only)
func (h *UserHandler) Approve(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	userID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.ApproveUser(c.Request.Context(), identityapp.ApproveUserInput{
		UserID:     userID,
		ApprovedBy: actor.ID,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "User approved"})
}

// Deactivate disables a user account (Admin only)
func (h *UserHandler) Deactivate(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	userID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.DeactivateUser(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "User deactivated"})
}
