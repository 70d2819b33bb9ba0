package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/propertyspotter/backend/internal/application/identity"
	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	userService *identityapp.UserService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *identityapp.AuthService, userService *identityapp.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// RegisterRequest is the payload for account registration
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Username        string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Password        string `json:"password" binding:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	FirstName       string `json:"first_name" binding:"required,max=100"`
	LastName        string `json:"last_name" binding:"required,max=100"`
	Phone           string `json:"phone" binding:"required,max=20"`
	Role            string `json:"role" binding:"required,oneof=Spotter Agent"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	Message string    `json:"message"`
}

// VerifyEmailRequest is the query payload for email verification
type VerifyEmailRequest struct {
	Token string `form:"token" binding:"required"`
}

// LoginRequest is the payload for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginRequest is the payload for the captcha-gated admin login
type AdminLoginRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	CaptchaToken string `json:"captcha_token" binding:"required"`
}

// RefreshTokenRequest is the payload for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest is the payload for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128,nefield=OldPassword"`
}

// UserInfoResponse is the wire representation of a user account
type UserInfoResponse struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Username        string     `json:"username"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Phone           string     `json:"phone"`
	Role            string     `json:"role"`
	AgencyID        *uuid.UUID `json:"agency_id,omitempty"`
	Active          bool       `json:"active"`
	ProfileComplete bool       `json:"profile_complete"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
}

// AgencyInfoResponse is the compact agency summary returned with agency users
type AgencyInfoResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Active bool      `json:"active"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	AccessToken           string              `json:"access_token"`
	RefreshToken          string              `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time           `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time           `json:"refresh_token_expires_at"`
	TokenType             string              `json:"token_type"`
	User                  UserInfoResponse    `json:"user"`
	Agency                *AgencyInfoResponse `json:"agency,omitempty"`
}

// RefreshTokenResponse is returned after a successful token refresh
type RefreshTokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

func toUserInfoResponse(u identityapp.UserInfo) UserInfoResponse {
	return UserInfoResponse{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Phone:           u.Phone,
		Role:            string(u.Role),
		AgencyID:        u.AgencyID,
		Active:          u.Active,
		ProfileComplete: u.ProfileComplete,
		ProfileImageURL: u.ProfileImageURL,
	}
}

func toLoginResponse(result *identityapp.LoginResult) LoginResponse {
	resp := LoginResponse{
		AccessToken:           result.AccessToken,
		RefreshToken:          result.RefreshToken,
		AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
		TokenType:             result.TokenType,
		User:                  toUserInfoResponse(result.User),
	}
	if result.Agency != nil {
		resp.Agency = &AgencyInfoResponse{
			ID:     result.Agency.ID,
			Name:   result.Agency.Name,
			Email:  result.Agency.Email,
			Active: result.Agency.Active,
		}
	}
	return resp
}

// Register creates a new spotter or agent account pending email verification
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identityapp.RegisterInput{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Role:            identity.Role(req.Role),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, RegisterResponse{
		UserID:  result.UserID,
		Email:   result.Email,
		Message: "Registration successful. Check your email to verify your account.",
	})
}

// VerifyEmail consumes a verification token sent by email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), identityapp.VerifyEmailInput{Token: req.Token}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Email verified. You can now log in."})
}

// Login authenticates a user and returns a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toLoginResponse(result))
}

// AdminLogin authenticates an administrator behind a Turnstile challenge
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.authService.AdminLogin(c.Request.Context(), identityapp.AdminLoginInput{
		Email:        req.Email,
		Password:     req.Password,
		CaptchaToken: req.CaptchaToken,
		IP:           c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toLoginResponse(result))
}

// RefreshToken exchanges a refresh token for a new token pair
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), identityapp.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RefreshTokenResponse{
		AccessToken:           result.AccessToken,
		RefreshToken:          result.RefreshToken,
		AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
		TokenType:             result.TokenType,
	})
}

// Logout blacklists the caller's current access token
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err = h.authService.Logout(c.Request.Context(), identityapp.LogoutInput{
		UserID:   userID,
		TokenJTI: claims.ID,
		TokenTTL: claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Logged out"})
}

// GetCurrentUser returns the authenticated user's account
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
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

// ChangePassword updates the authenticated user's password and revokes the
// user's outstanding tokens
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), identityapp.ChangePasswordInput{
		UserID:      actor.ID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password changed"})
}

// PurgeLoginAttemptsRequest holds the retention window for attempt cleanup
type PurgeLoginAttemptsRequest struct {
	OlderThanDays int `form:"older_than_days" binding:"omitempty,min=1,max=365"`
}

// PurgeLoginAttempts deletes stale admin login attempt records (Admin only)
func (h *AuthHandler) PurgeLoginAttempts(c *gin.Context) {
	var req PurgeLoginAttemptsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	if req.OlderThanDays == 0 {
		req.OlderThanDays = 30
	}

	cutoff := time.Now().AddDate(0, 0, -req.OlderThanDays)
	deleted, err := h.authService.PurgeStaleLoginAttempts(c.Request.Context(), cutoff)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"deleted": deleted})
}
