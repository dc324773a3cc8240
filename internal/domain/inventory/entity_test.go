//go:build unit

package inventory_test

import (
	"testing"

	"cruise-booking/internal/domain/inventory"
	"cruise-booking/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCabinInventory(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		inv, err := builder.NewInventoryBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, inv)

		assert.Equal(t, 10, inv.Total())
		assert.Equal(t, 10, inv.Available())
		assert.Equal(t, 0, inv.Sold())
		assert.Equal(t, 0, inv.Locked())
		assert.NoError(t, inv.CheckInvariant())
	})

	t.Run("reconstruct rejects broken counters", func(t *testing.T) {
		b := builder.NewInventoryBuilder().With(func(b *builder.InventoryBuilder) {
			b.Sold = 11
		})
		_, err := inventory.ReconstructCabinInventory(
			b.CabinTypeID, b.VoyageID, b.Total, b.Sold, b.Locked, 3, b.AlertThreshold,
		)
		assert.ErrorIs(t, err, inventory.ErrBrokenInvariant)
	})

	t.Run("hold moves available to locked", func(t *testing.T) {
		inv, err := builder.NewInventoryBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, inv.Hold(3))
		assert.Equal(t, 7, inv.Available())
		assert.Equal(t, 3, inv.Locked())
		assert.NoError(t, inv.CheckInvariant())
	})

	t.Run("hold beyond availability fails and mutates nothing", func(t *testing.T) {
		inv, err := builder.NewInventoryBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, inv.Hold(8))

		err = inv.Hold(3)
		assert.ErrorIs(t, err, inventory.ErrInsufficientCapacity)
		assert.Equal(t, 2, inv.Available())
		assert.Equal(t, 8, inv.Locked())
		assert.NoError(t, inv.CheckInvariant())
	})

	t.Run("commit moves locked to sold", func(t *testing.T) {
		inv, err := builder.NewInventoryBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, inv.Hold(4))

		require.NoError(t, inv.CommitHold(4))
		assert.Equal(t, 4, inv.Sold())
		assert.Equal(t, 0, inv.Locked())
		assert.Equal(t, 6, inv.Available())
		assert.NoError(t, inv.CheckInvariant())
	})

	t.Run("release returns locked to available", func(t *testing.T) {
		inv, err := builder.NewInventoryBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, inv.Hold(4))

		require.NoError(t, inv.ReleaseHold(4))
		assert.Equal(t, 0, inv.Sold())
		assert.Equal(t, 0, inv.Locked())
		assert.Equal(t, 10, inv.Available())
		assert.NoError(t, inv.CheckInvariant())
	})

	t.Run("commit more than locked underflows", func(t *testing.T) {
		inv, err := builder.NewInventoryBuilder().BuildDomain()
		require.NoError(t, err)
		require.NoError(t, inv.Hold(2))

		assert.ErrorIs(t, inv.CommitHold(3), inventory.ErrCounterUnderflow)
		assert.ErrorIs(t, inv.ReleaseHold(3), inventory.ErrCounterUnderflow)
	})

	t.Run("non-positive quantities rejected", func(t *testing.T) {
		inv, err := builder.NewInventoryBuilder().BuildDomain()
		require.NoError(t, err)

		assert.ErrorIs(t, inv.Hold(0), inventory.ErrInvalidQuantity)
		assert.ErrorIs(t, inv.CommitHold(-1), inventory.ErrInvalidQuantity)
		assert.ErrorIs(t, inv.ReleaseHold(0), inventory.ErrInvalidQuantity)
	})

	t.Run("alert threshold", func(t *testing.T) {
		inv, err := builder.NewInventoryBuilder().BuildDomain()
		require.NoError(t, err)
		assert.False(t, inv.BelowAlertThreshold())

		require.NoError(t, inv.Hold(8))
		require.NoError(t, inv.CommitHold(8))
		assert.True(t, inv.BelowAlertThreshold())
	})
}
