package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyspotter/backend/internal/domain/shared"
)

func TestVerificationToken(t *testing.T) {
	userID := uuid.New()

	t.Run("consume is single shot", func(t *testing.T) {
		tok, err := NewVerificationToken(userID)
		require.NoError(t, err)
		assert.NotEmpty(t, tok.Token)

		require.NoError(t, tok.Consume())
		assert.True(t, tok.Used)

		assert.ErrorIs(t, tok.Consume(), shared.ErrTokenUsed)
	})

	t.Run("expired token cannot be consumed", func(t *testing.T) {
		tok, err := NewVerificationToken(userID)
		require.NoError(t, err)
		tok.ExpiresAt = time.Now().Add(-time.Minute)

		assert.ErrorIs(t, tok.Consume(), shared.ErrTokenExpired)
		assert.False(t, tok.Used)
	})

	t.Run("requires a user", func(t *testing.T) {
		_, err := NewVerificationToken(uuid.Nil)
		assert.Error(t, err)
	})
}

func TestInvitationToken(t *testing.T) {
	agencyID := uuid.New()

	t.Run("token is 64 hex characters", func(t *testing.T) {
		tok, err := NewInvitationToken("New.Agent@Example.com", "Lerato", "Dube", "+27831234567", agencyID, 72*time.Hour)

		require.NoError(t, err)
		assert.Len(t, tok.Token, 64)
		assert.Equal(t, "new.agent@example.com", tok.Email)
		assert.Equal(t, agencyID, tok.AgencyID)
	})

	t.Run("requires an agency", func(t *testing.T) {
		_, err := NewInvitationToken("x@example.com", "", "", "", uuid.Nil, 72*time.Hour)
		assert.Error(t, err)
	})

	t.Run("consume is single shot", func(t *testing.T) {
		tok, err := NewInvitationToken("x@example.com", "", "", "", agencyID, 72*time.Hour)
		require.NoError(t, err)

		require.NoError(t, tok.Consume())
		assert.ErrorIs(t, tok.Consume(), shared.ErrTokenUsed)
	})

	t.Run("expired invitation", func(t *testing.T) {
		tok, err := NewInvitationToken("x@example.com", "", "", "", agencyID, -time.Minute)
		require.NoError(t, err)

		assert.ErrorIs(t, tok.Consume(), shared.ErrTokenExpired)
	})
}

func TestAdminLoginAttempt(t *testing.T) {
	a := NewAdminLoginAttempt("Admin@Example.com", "10.0.0.1", false)

	assert.Equal(t, "admin@example.com", a.Email)
	assert.Equal(t, "10.0.0.1", a.IPAddress)
	assert.False(t, a.Success)
	assert.NotEqual(t, uuid.Nil, a.ID)
}
