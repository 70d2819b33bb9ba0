package listing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftListing(t *testing.T) *Listing {
	t.Helper()
	l, err := NewListing(uuid.New(), "3 Bed Family Home", "Durban", ProvinceKwaZuluNatal)
	require.NoError(t, err)
	return l
}

func TestNewListing(t *testing.T) {
	t.Run("creates a draft", func(t *testing.T) {
		l := newDraftListing(t)

		assert.Equal(t, StatusDraft, l.Status)
		assert.False(t, l.IsPublic())
		assert.Zero(t, l.ViewCount)
	})

	t.Run("rejects unknown province", func(t *testing.T) {
		_, err := NewListing(uuid.New(), "Home", "Somewhere", Province("Atlantis"))
		assert.Error(t, err)
	})
}

func TestListingPublication(t *testing.T) {
	l := newDraftListing(t)

	require.NoError(t, l.Publish())
	assert.True(t, l.IsPublic())
	assert.Len(t, l.GetDomainEvents(), 1)

	assert.Error(t, l.Publish())

	require.NoError(t, l.Archive())
	assert.False(t, l.IsPublic())
	assert.Error(t, l.Archive())
}

func TestListingPricing(t *testing.T) {
	l := newDraftListing(t)

	require.NoError(t, l.SetPrice(decimal.NewFromInt(1250000)))
	assert.True(t, l.Price.Equal(decimal.NewFromInt(1250000)))

	assert.Error(t, l.SetPrice(decimal.NewFromInt(-1)))
}

func TestPromoteToPrimary(t *testing.T) {
	l := newDraftListing(t)

	first, err := NewImage(l.ID, "https://img.example.com/1.jpg", "front", 0)
	require.NoError(t, err)
	first.IsPrimary = true
	second, err := NewImage(l.ID, "https://img.example.com/2.jpg", "kitchen", 1)
	require.NoError(t, err)
	l.Images = []Image{*first, *second}

	t.Run("promoting demotes the previous primary", func(t *testing.T) {
		demoted, err := l.PromoteToPrimary(second.ID)

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{first.ID}, demoted)
		assert.Equal(t, second.ID, l.PrimaryImage().ID)
	})

	t.Run("unknown image id", func(t *testing.T) {
		_, err := l.PromoteToPrimary(uuid.New())
		assert.Error(t, err)
	})
}

func TestProvinces(t *testing.T) {
	assert.Len(t, Provinces(), 9)
	for _, p := range Provinces() {
		assert.True(t, p.IsValid())
	}
}
