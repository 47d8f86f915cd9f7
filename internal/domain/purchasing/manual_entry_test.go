package purchasing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManualEntry(t *testing.T) {
	t.Run("creates a shopping-list line", func(t *testing.T) {
		itemID := uuid.New()

		entry, err := NewManualEntry(itemID, decimal.NewFromInt(5), nil, "weekend special")

		require.NoError(t, err)
		assert.Equal(t, itemID, entry.StockItemID)
		assert.True(t, entry.SuggestedQuantity.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, "weekend special", entry.Note)
	})

	t.Run("rejects nil item", func(t *testing.T) {
		_, err := NewManualEntry(uuid.Nil, decimal.NewFromInt(5), nil, "")
		require.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewManualEntry(uuid.New(), decimal.Zero, nil, "")
		require.Error(t, err)
	})
}

func TestManualEntry_UpdateQuantity(t *testing.T) {
	entry, err := NewManualEntry(uuid.New(), decimal.NewFromInt(5), nil, "")
	require.NoError(t, err)

	require.NoError(t, entry.UpdateQuantity(decimal.NewFromInt(8)))
	assert.True(t, entry.SuggestedQuantity.Equal(decimal.NewFromInt(8)))

	assert.Error(t, entry.UpdateQuantity(decimal.Zero))
}
