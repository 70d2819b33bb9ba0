package commission

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingCommission(t *testing.T) *Commission {
	t.Helper()
	c, err := NewCommission(uuid.New(), uuid.New(), decimal.NewFromInt(50000), decimal.NewFromInt(20))
	require.NoError(t, err)
	return c
}

func TestNewCommission(t *testing.T) {
	t.Run("splits the total between spotter and platform", func(t *testing.T) {
		c, err := NewCommission(uuid.New(), uuid.New(), decimal.NewFromInt(50000), decimal.NewFromInt(20))

		require.NoError(t, err)
		assert.Equal(t, StatusPending, c.Status)
		assert.True(t, c.SpotterAmount.Equal(decimal.NewFromInt(10000)))
		assert.True(t, c.PlatformAmount.Equal(decimal.NewFromInt(40000)))
		assert.True(t, c.SpotterAmount.Add(c.PlatformAmount).Equal(c.TotalAmount))
		assert.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("fractional percentage keeps the split exact", func(t *testing.T) {
		c, err := NewCommission(uuid.New(), uuid.New(), decimal.NewFromInt(33333), decimal.NewFromFloat(12.5))

		require.NoError(t, err)
		assert.True(t, c.SpotterAmount.Add(c.PlatformAmount).Equal(c.TotalAmount))
	})

	t.Run("rejects non-positive total", func(t *testing.T) {
		_, err := NewCommission(uuid.New(), uuid.New(), decimal.Zero, decimal.NewFromInt(20))
		assert.Error(t, err)

		_, err = NewCommission(uuid.New(), uuid.New(), decimal.NewFromInt(-100), decimal.NewFromInt(20))
		assert.Error(t, err)
	})

	t.Run("rejects out-of-range percentage", func(t *testing.T) {
		_, err := NewCommission(uuid.New(), uuid.New(), decimal.NewFromInt(50000), decimal.NewFromInt(101))
		assert.Error(t, err)
	})
}

func TestCommissionLifecycle(t *testing.T) {
	t.Run("pending to approved to paid", func(t *testing.T) {
		c := newPendingCommission(t)
		approver := uuid.New()

		require.NoError(t, c.Approve(approver))
		assert.Equal(t, StatusApproved, c.Status)
		assert.Equal(t, approver, *c.ApprovedBy)
		assert.NotNil(t, c.ApprovedAt)

		require.NoError(t, c.MarkPaid("EFT-2024-0042"))
		assert.Equal(t, StatusPaid, c.Status)
		assert.Equal(t, "EFT-2024-0042", c.PaymentReference)
		assert.NotNil(t, c.PaidAt)
	})

	t.Run("cannot pay an unapproved commission", func(t *testing.T) {
		c := newPendingCommission(t)
		assert.Error(t, c.MarkPaid("EFT-1"))
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.Approve(uuid.New()))
		assert.Error(t, c.Approve(uuid.New()))
	})

	t.Run("cancel before payout", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.Cancel("lead fell through"))
		assert.Equal(t, StatusCancelled, c.Status)
		assert.Equal(t, "lead fell through", c.CancelReason)
	})

	t.Run("cannot cancel a paid commission", func(t *testing.T) {
		c := newPendingCommission(t)
		require.NoError(t, c.Approve(uuid.New()))
		require.NoError(t, c.MarkPaid("EFT-1"))

		assert.Error(t, c.Cancel("too late"))
	})
}
