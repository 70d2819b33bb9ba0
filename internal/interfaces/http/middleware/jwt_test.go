package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/infrastructure/auth"
	"github.com/propertyspotter/backend/internal/infrastructure/config"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-middleware",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "test",
	})
}

func authEngine(jwtService *auth.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	handlers := []gin.HandlerFunc{JWTAuth(JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: auth.NewInMemoryTokenBlacklist(),
		Logger:         zap.NewNop(),
	})}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": actor.ID, "role": string(actor.Role)})
	})

	engine.GET("/protected", handlers...)
	return engine
}

func TestJWTAuthValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	userID := uuid.New()

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   userID,
		Username: "spotter1",
		Role:     identity.RoleSpotter,
	})
	require.NoError(t, err)

	engine := authEngine(jwtService)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestJWTAuthMissingHeader(t *testing.T) {
	engine := authEngine(newTestJWTService())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMalformedHeader(t *testing.T) {
	engine := authEngine(newTestJWTService())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "spotter1",
		Role:     identity.RoleSpotter,
	})
	require.NoError(t, err)

	engine := authEngine(jwtService)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRolesForbidsWrongRole(t *testing.T) {
	jwtService := newTestJWTService()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "spotter1",
		Role:     identity.RoleSpotter,
	})
	require.NoError(t, err)

	engine := authEngine(jwtService, RequireAdmin())
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	jwtService := newTestJWTService()
	agencyID := uuid.New()
	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "agent1",
		Role:     identity.RoleAgent,
		AgencyID: &agencyID,
	})
	require.NoError(t, err)

	engine := authEngine(jwtService, RequireRoles(identity.RoleAgent, identity.RoleMasterAgent))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Agent")
}

func TestJWTAuthBlacklistedToken(t *testing.T) {
	jwtService := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()

	pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "spotter1",
		Role:     identity.RoleSpotter,
	})
	require.NoError(t, err)

	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", JWTAuth(JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         zap.NewNop(),
	}), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
