package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates inactive spotter", func(t *testing.T) {
		u, err := NewUser("thabo@example.com", "thabo", "password123", RoleSpotter)

		require.NoError(t, err)
		assert.Equal(t, "thabo@example.com", u.Email)
		assert.Equal(t, RoleSpotter, u.Role)
		assert.False(t, u.Active)
		assert.False(t, u.ProfileComplete)
		assert.True(t, u.VerifyPassword("password123"))
		assert.False(t, u.VerifyPassword("wrong"))
		assert.Len(t, u.GetDomainEvents(), 1)
	})

	t.Run("normalises email", func(t *testing.T) {
		u, err := NewUser(" Thabo@Example.COM ", "thabo", "password123", RoleSpotter)

		require.NoError(t, err)
		assert.Equal(t, "thabo@example.com", u.Email)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "thabo", "password123", RoleSpotter)
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("thabo@example.com", "thabo", "short", RoleSpotter)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser("thabo@example.com", "thabo", "password123", Role("Visitor"))
		assert.Error(t, err)
	})
}

func TestUserActivation(t *testing.T) {
	u, err := NewUser("thabo@example.com", "thabo", "password123", RoleSpotter)
	require.NoError(t, err)
	u.ClearDomainEvents()

	require.NoError(t, u.Activate())
	assert.True(t, u.Active)
	assert.Len(t, u.GetDomainEvents(), 1)
	assert.Error(t, u.Activate())

	require.NoError(t, u.Deactivate())
	assert.False(t, u.Active)
	assert.Error(t, u.Deactivate())
}

func TestUserProfileCompletion(t *testing.T) {
	t.Run("needs name, phone and banking details", func(t *testing.T) {
		u, err := NewUser("thabo@example.com", "thabo", "password123", RoleSpotter)
		require.NoError(t, err)
		assert.False(t, u.ProfileComplete)

		require.NoError(t, u.SetName("Thabo", "Nkosi"))
		require.NoError(t, u.SetPhone("+27831234567"))
		assert.False(t, u.ProfileComplete)

		u.SetBankingDetails(BankingDetails{
			BankName:      "FNB",
			BranchCode:    "250655",
			AccountNumber: "62011112222",
			AccountName:   "T Nkosi",
			AccountType:   "cheque",
		})
		assert.True(t, u.ProfileComplete)
	})

	t.Run("partial banking details do not complete the profile", func(t *testing.T) {
		u, err := NewUser("agent@example.com", "agent", "password123", RoleAgent)
		require.NoError(t, err)

		require.NoError(t, u.SetName("Lerato", "Dube"))
		require.NoError(t, u.SetPhone("+27831234567"))
		u.SetBankingDetails(BankingDetails{BankName: "FNB"})
		assert.False(t, u.ProfileComplete)
	})
}

func TestUserAgencyAttachment(t *testing.T) {
	t.Run("agency roles attach", func(t *testing.T) {
		u, err := NewUser("agent@example.com", "agent", "password123", RoleAgent)
		require.NoError(t, err)

		agencyID := uuid.New()
		require.NoError(t, u.AttachToAgency(agencyID))
		assert.Equal(t, agencyID, *u.AgencyID)
	})

	t.Run("spotters cannot attach", func(t *testing.T) {
		u, err := NewUser("thabo@example.com", "thabo", "password123", RoleSpotter)
		require.NoError(t, err)

		assert.Error(t, u.AttachToAgency(uuid.New()))
	})
}

func TestUserChangePassword(t *testing.T) {
	u, err := NewUser("thabo@example.com", "thabo", "password123", RoleSpotter)
	require.NoError(t, err)

	t.Run("requires the current password", func(t *testing.T) {
		err := u.ChangePassword("wrong", "newpassword456")
		assert.Error(t, err)
		assert.True(t, u.VerifyPassword("password123"))
	})

	t.Run("rotates on success", func(t *testing.T) {
		require.NoError(t, u.ChangePassword("password123", "newpassword456"))
		assert.True(t, u.VerifyPassword("newpassword456"))
		assert.False(t, u.VerifyPassword("password123"))
	})
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleAgent.CanWorkLeads())
	assert.True(t, RoleMasterAgent.CanWorkLeads())
	assert.False(t, RoleSpotter.CanWorkLeads())

	assert.True(t, RoleAgencyAdmin.IsAgencyRole())
	assert.False(t, RoleAdmin.IsAgencyRole())
	assert.False(t, Role("Visitor").IsValid())
}
