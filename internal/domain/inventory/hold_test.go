//go:build unit

package inventory_test

import (
	"testing"
	"time"

	"cruise-booking/internal/domain/inventory"
	"cruise-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldSet(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewHoldBuilder()
		hold, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, hold)

		assert.NotEqual(t, uuid.Nil, hold.ID())
		assert.Equal(t, b.OrderID, hold.OrderID())
		assert.Equal(t, inventory.HoldStatusActive, hold.Status())
		assert.True(t, hold.IsActive())
		assert.Equal(t, b.Now.Add(b.TTL), hold.ExpiresAt())
	})

	t.Run("empty lines rejected", func(t *testing.T) {
		_, err := builder.NewHoldBuilder().With(func(b *builder.HoldBuilder) {
			b.Lines = nil
		}).BuildDomain()
		assert.ErrorIs(t, err, inventory.ErrEmptyHold)
	})

	t.Run("non-positive line quantity rejected", func(t *testing.T) {
		_, err := builder.NewHoldBuilder().With(func(b *builder.HoldBuilder) {
			b.Lines[0].Quantity = 0
		}).BuildDomain()
		assert.ErrorIs(t, err, inventory.ErrInvalidQuantity)
	})

	t.Run("lines are stored sorted", func(t *testing.T) {
		v := uuid.New()
		hold, err := builder.NewHoldBuilder().With(func(b *builder.HoldBuilder) {
			b.Lines = []inventory.HoldLine{
				{CabinTypeID: uuid.MustParse("ffffffff-0000-0000-0000-000000000000"), VoyageID: v, Quantity: 1},
				{CabinTypeID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), VoyageID: v, Quantity: 2},
			}
		}).BuildDomain()
		require.NoError(t, err)

		lines := hold.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Equal(t, 1, lines[1].Quantity)
	})

	t.Run("consume", func(t *testing.T) {
		b := builder.NewHoldBuilder()
		hold, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, hold.Consume(b.Now))
		assert.Equal(t, inventory.HoldStatusConsumed, hold.Status())

		// settlement retry is a no-op
		assert.NoError(t, hold.Consume(b.Now))
		assert.Equal(t, inventory.HoldStatusConsumed, hold.Status())
	})

	t.Run("consume after expiry fails", func(t *testing.T) {
		b := builder.NewHoldBuilder()
		hold, err := b.BuildDomain()
		require.NoError(t, err)

		err = hold.Consume(b.Now.Add(b.TTL + time.Second))
		assert.ErrorIs(t, err, inventory.ErrHoldExpired)
		assert.True(t, hold.IsActive())
	})

	t.Run("settle ignores the ttl", func(t *testing.T) {
		b := builder.NewHoldBuilder()
		hold, err := b.BuildDomain()
		require.NoError(t, err)

		late := b.Now.Add(b.TTL + time.Minute)
		// A direct consumer is refused past expiry...
		require.ErrorIs(t, hold.Consume(late), inventory.ErrHoldExpired)
		// ...but a settlement follows the order that already won its race.
		require.NoError(t, hold.Settle())
		assert.Equal(t, inventory.HoldStatusConsumed, hold.Status())

		// settle retry is a no-op
		assert.NoError(t, hold.Settle())
	})

	t.Run("abandoned hold cannot settle", func(t *testing.T) {
		hold, err := builder.NewHoldBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, hold.Abandon())

		assert.ErrorIs(t, hold.Settle(), inventory.ErrHoldNotActive)
		assert.Equal(t, inventory.HoldStatusAbandoned, hold.Status())
	})

	t.Run("abandon", func(t *testing.T) {
		b := builder.NewHoldBuilder()
		hold, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, hold.Abandon())
		assert.Equal(t, inventory.HoldStatusAbandoned, hold.Status())

		// releasing twice is a no-op
		assert.NoError(t, hold.Abandon())
	})

	t.Run("consume and abandon are mutually exclusive", func(t *testing.T) {
		b := builder.NewHoldBuilder()

		consumed, err := b.BuildDomain()
		require.NoError(t, err)
		require.NoError(t, consumed.Consume(b.Now))
		assert.ErrorIs(t, consumed.Abandon(), inventory.ErrHoldNotActive)

		abandoned, err := b.BuildDomain()
		require.NoError(t, err)
		require.NoError(t, abandoned.Abandon())
		assert.ErrorIs(t, abandoned.Consume(b.Now), inventory.ErrHoldNotActive)
	})

	t.Run("extend refreshes ttl of a live hold only", func(t *testing.T) {
		b := builder.NewHoldBuilder()
		hold, err := b.BuildDomain()
		require.NoError(t, err)

		later := b.Now.Add(5 * time.Minute)
		require.NoError(t, hold.Extend(later, b.TTL))
		assert.Equal(t, later.Add(b.TTL), hold.ExpiresAt())

		require.NoError(t, hold.Abandon())
		assert.ErrorIs(t, hold.Extend(later, b.TTL), inventory.ErrHoldNotActive)
	})

	t.Run("extend after expiry fails", func(t *testing.T) {
		b := builder.NewHoldBuilder()
		hold, err := b.BuildDomain()
		require.NoError(t, err)

		err = hold.Extend(b.Now.Add(b.TTL+time.Minute), b.TTL)
		assert.ErrorIs(t, err, inventory.ErrHoldExpired)
	})
}
