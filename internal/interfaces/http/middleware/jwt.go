package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/infrastructure/auth"
	"github.com/propertyspotter/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	ActorKey      = "actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional for checking revoked tokens
	TokenBlacklist auth.TokenBlacklist
	// Logger for middleware logging
	Logger *zap.Logger
}

// JWTAuth creates JWT authentication middleware. Requests without a valid
// access token are rejected; valid requests carry the caller's identity in
// the context as an identity.Actor.
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.TokenBlacklist != nil {
			ctx := c.Request.Context()

			// Individual logout: the token's JTI is revoked
			if claims.ID != "" {
				blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
				if err != nil {
					// Fail open for availability: a Redis outage should not
					// lock every user out
					if cfg.Logger != nil {
						cfg.Logger.Error("Failed to check token blacklist",
							zap.String("jti", claims.ID),
							zap.Error(err))
					}
				} else if blacklisted {
					handleAuthError(c, cfg, auth.ErrTokenBlacklisted, "Token has been revoked")
					return
				}
			}

			// Global invalidation: password change or account deactivation
			if claims.UserID != "" && claims.IssuedAt != nil {
				invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
				if err != nil {
					if cfg.Logger != nil {
						cfg.Logger.Error("Failed to check user token invalidation",
							zap.String("user_id", claims.UserID),
							zap.Error(err))
					}
				} else if invalidated {
					handleAuthError(c, cfg, auth.ErrTokenBlacklisted, "User session has been invalidated")
					return
				}
			}
		}

		actor, err := actorFromClaims(claims)
		if err != nil {
			handleAuthError(c, cfg, auth.ErrInvalidClaims, "Malformed identity claims")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(ActorKey, actor)

		c.Next()
	}
}

// actorFromClaims builds the application-layer caller identity from
// validated claims
func actorFromClaims(claims *auth.Claims) (identity.Actor, error) {
	userID, err := claims.GetUserUUID()
	if err != nil {
		return identity.Actor{}, err
	}

	actor := identity.Actor{
		ID:   userID,
		Role: claims.GetRole(),
	}
	if claims.AgencyID != "" {
		agencyID, err := claims.GetAgencyUUID()
		if err != nil {
			return identity.Actor{}, err
		}
		actor.AgencyID = &agencyID
	}
	return actor, nil
}

// handleAuthError handles authentication errors
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := dto.ErrCodeUnauthorized
	errorMessage := "Authentication required"

	switch err {
	case auth.ErrExpiredToken:
		errorCode = dto.ErrCodeTokenExpired
		errorMessage = "Token has expired"
	case auth.ErrInvalidToken, auth.ErrInvalidClaims:
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Invalid token"
	case auth.ErrInvalidTokenType:
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Invalid token type"
	case auth.ErrTokenNotYetValid:
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Token is not yet valid"
	case auth.ErrTokenBlacklisted:
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Token has been revoked"
	}

	requestID := getRequestIDFromContext(c)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(errorCode, errorMessage, requestID))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetActor retrieves the authenticated caller from gin.Context. The second
// return value is false on unauthenticated routes.
func GetActor(c *gin.Context) (identity.Actor, bool) {
	if v, exists := c.Get(ActorKey); exists {
		if actor, ok := v.(identity.Actor); ok {
			return actor, true
		}
	}
	return identity.Actor{}, false
}

// RequireRoles rejects authenticated requests whose role is not in the
// allowed set. Must run after JWTAuth.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			requestID := getRequestIDFromContext(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", requestID))
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		requestID := getRequestIDFromContext(c)
		c.AbortWithStatusJSON(http.StatusForbidden,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Insufficient role for this operation", requestID))
	}
}

// RequireAdmin is shorthand for the platform admin gate
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(identity.RoleAdmin)
}
