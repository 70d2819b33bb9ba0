package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyspotter/backend/internal/domain/identity"
	"github.com/propertyspotter/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 168 * time.Hour,
		Issuer:                 "propertyspotter-test",
	})
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	agencyID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "agent1",
		Role:     identity.RoleAgent,
		AgencyID: &agencyID,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestValidateAccessToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()
	agencyID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:   userID,
		Username: "agent1",
		Role:     identity.RoleAgent,
		AgencyID: &agencyID,
	})
	require.NoError(t, err)

	t.Run("valid token round-trips claims", func(t *testing.T) {
		claims, err := svc.ValidateAccessToken(pair.AccessToken)

		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, identity.RoleAgent, claims.GetRole())

		gotAgency, err := claims.GetAgencyUUID()
		require.NoError(t, err)
		assert.Equal(t, agencyID, gotAgency)
	})

	t.Run("refresh token is rejected as access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                 "a-completely-different-secret-key!!",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "propertyspotter-test",
		})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidateRefreshToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:   userID,
		Username: "spotter1",
		Role:     identity.RoleSpotter,
	})
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewInMemoryTokenBlacklist()

	t.Run("jti blacklisting", func(t *testing.T) {
		jti := uuid.New().String()

		blacklisted, err := bl.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.False(t, blacklisted)

		require.NoError(t, bl.AddToBlacklist(ctx, jti, time.Minute))
		blacklisted, err = bl.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.True(t, blacklisted)
	})

	t.Run("expired entries are pruned", func(t *testing.T) {
		jti := uuid.New().String()
		require.NoError(t, bl.AddToBlacklist(ctx, jti, -time.Second))

		blacklisted, err := bl.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.False(t, blacklisted)
	})

	t.Run("user-wide invalidation", func(t *testing.T) {
		userID := uuid.New().String()
		issuedBefore := time.Now().Add(-time.Minute)

		require.NoError(t, bl.AddUserTokensToBlacklist(ctx, userID, time.Hour))

		invalid, err := bl.IsUserTokenInvalidated(ctx, userID, issuedBefore)
		require.NoError(t, err)
		assert.True(t, invalid)

		invalid, err = bl.IsUserTokenInvalidated(ctx, userID, time.Now().Add(time.Minute))
		require.NoError(t, err)
		assert.False(t, invalid)
	})
}
