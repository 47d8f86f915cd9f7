package stock

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mise/backend/internal/domain/shared"
)

func createTestStockItem(t *testing.T) *StockItem {
	t.Helper()
	item, err := NewStockItem("Tomato", CategoryProduce, UnitKilogram)
	require.NoError(t, err)
	return item
}

func addTestBatch(t *testing.T, item *StockItem, quantity float64, daysUntilExpiry int) uuid.UUID {
	t.Helper()
	err := item.RecordEntry(decimal.NewFromFloat(quantity), &BatchInfo{
		ExpiryDate: time.Now().AddDate(0, 0, daysUntilExpiry),
		Lot:        "",
	})
	require.NoError(t, err)
	return item.Batches[len(item.Batches)-1].ID
}

func TestNewStockItem(t *testing.T) {
	t.Run("creates stock item successfully", func(t *testing.T) {
		item, err := NewStockItem("Tomato", CategoryProduce, UnitKilogram)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, item.ID)
		assert.Equal(t, "Tomato", item.Name)
		assert.Equal(t, CategoryProduce, item.Category)
		assert.Equal(t, UnitKilogram, item.Unit)
		assert.True(t, item.CurrentQuantity.IsZero())
		assert.True(t, item.MinimumQuantity.IsZero())
		assert.Empty(t, item.Batches)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		item, err := NewStockItem("", CategoryProduce, UnitKilogram)

		require.Error(t, err)
		assert.Nil(t, item)
	})

	t.Run("fails with unknown category", func(t *testing.T) {
		item, err := NewStockItem("Tomato", ItemCategory("FURNITURE"), UnitKilogram)

		require.Error(t, err)
		assert.Nil(t, item)
	})

	t.Run("fails with unknown unit", func(t *testing.T) {
		item, err := NewStockItem("Tomato", CategoryProduce, UnitOfMeasure("GALLON"))

		require.Error(t, err)
		assert.Nil(t, item)
	})
}

func TestStockItem_RecordEntry(t *testing.T) {
	t.Run("increases quantity without batch", func(t *testing.T) {
		item := createTestStockItem(t)

		err := item.RecordEntry(decimal.NewFromInt(10), nil)

		require.NoError(t, err)
		assert.True(t, item.CurrentQuantity.Equal(decimal.NewFromInt(10)))
		assert.Empty(t, item.Batches)

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockEntryRecorded, events[0].EventType())
	})

	t.Run("creates a batch when batch info is given", func(t *testing.T) {
		item := createTestStockItem(t)
		expiry := time.Now().AddDate(0, 0, 5)

		err := item.RecordEntry(decimal.NewFromInt(10), &BatchInfo{ExpiryDate: expiry, Lot: "L-1"})

		require.NoError(t, err)
		require.Len(t, item.Batches, 1)
		assert.True(t, item.Batches[0].Quantity.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, "L-1", item.Batches[0].Lot)
		assert.Equal(t, item.ID, item.Batches[0].StockItemID)
	})

	t.Run("merges entries into the matching batch", func(t *testing.T) {
		item := createTestStockItem(t)
		expiry := time.Now().AddDate(0, 0, 5)

		require.NoError(t, item.RecordEntry(decimal.NewFromInt(10), &BatchInfo{ExpiryDate: expiry, Lot: "L-1"}))
		require.NoError(t, item.RecordEntry(decimal.NewFromInt(4), &BatchInfo{ExpiryDate: expiry, Lot: "L-1"}))

		require.Len(t, item.Batches, 1)
		assert.True(t, item.Batches[0].Quantity.Equal(decimal.NewFromInt(14)))
		assert.True(t, item.CurrentQuantity.Equal(decimal.NewFromInt(14)))
	})

	t.Run("different lot opens a new batch", func(t *testing.T) {
		item := createTestStockItem(t)
		expiry := time.Now().AddDate(0, 0, 5)

		require.NoError(t, item.RecordEntry(decimal.NewFromInt(10), &BatchInfo{ExpiryDate: expiry, Lot: "L-1"}))
		require.NoError(t, item.RecordEntry(decimal.NewFromInt(4), &BatchInfo{ExpiryDate: expiry, Lot: "L-2"}))

		assert.Len(t, item.Batches, 2)
	})

	t.Run("fails with zero quantity", func(t *testing.T) {
		item := createTestStockItem(t)

		err := item.RecordEntry(decimal.Zero, nil)

		require.Error(t, err)
		assert.True(t, item.CurrentQuantity.IsZero())
	})
}

func TestStockItem_RecordExit(t *testing.T) {
	t.Run("deducts from named batches", func(t *testing.T) {
		item := createTestStockItem(t)
		first := addTestBatch(t, item, 10, 2)
		second := addTestBatch(t, item, 8, 7)
		item.ClearDomainEvents()

		err := item.RecordExit(decimal.NewFromInt(12), []BatchDeduction{
			{BatchID: first, Quantity: decimal.NewFromInt(10)},
			{BatchID: second, Quantity: decimal.NewFromInt(2)},
		})

		require.NoError(t, err)
		assert.True(t, item.CurrentQuantity.Equal(decimal.NewFromInt(6)))
		assert.True(t, item.findBatch(first).Quantity.IsZero())
		assert.True(t, item.findBatch(second).Quantity.Equal(decimal.NewFromInt(6)))

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockExitRecorded, events[0].EventType())
	})

	t.Run("rejects deduction sum mismatch", func(t *testing.T) {
		item := createTestStockItem(t)
		first := addTestBatch(t, item, 10, 2)

		err := item.RecordExit(decimal.NewFromInt(5), []BatchDeduction{
			{BatchID: first, Quantity: decimal.NewFromInt(4)},
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "DEDUCTION_MISMATCH", domainErr.Code)
		// nothing applied
		assert.True(t, item.CurrentQuantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, item.findBatch(first).Quantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("rejects deduction exceeding batch quantity", func(t *testing.T) {
		item := createTestStockItem(t)
		first := addTestBatch(t, item, 10, 2)
		second := addTestBatch(t, item, 20, 7)

		err := item.RecordExit(decimal.NewFromInt(15), []BatchDeduction{
			{BatchID: first, Quantity: decimal.NewFromInt(15)},
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INSUFFICIENT_BATCH_QUANTITY", domainErr.Code)
		assert.True(t, item.findBatch(first).Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, item.findBatch(second).Quantity.Equal(decimal.NewFromInt(20)))
		assert.True(t, item.CurrentQuantity.Equal(decimal.NewFromInt(30)))
	})

	t.Run("rejects duplicate deductions that oversubscribe a batch", func(t *testing.T) {
		item := createTestStockItem(t)
		first := addTestBatch(t, item, 10, 2)

		err := item.RecordExit(decimal.NewFromInt(12), []BatchDeduction{
			{BatchID: first, Quantity: decimal.NewFromInt(6)},
			{BatchID: first, Quantity: decimal.NewFromInt(6)},
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INSUFFICIENT_BATCH_QUANTITY", domainErr.Code)
	})

	t.Run("rejects deduction naming a foreign batch", func(t *testing.T) {
		item := createTestStockItem(t)
		addTestBatch(t, item, 10, 2)

		err := item.RecordExit(decimal.NewFromInt(5), []BatchDeduction{
			{BatchID: uuid.New(), Quantity: decimal.NewFromInt(5)},
		})

		require.Error(t, err)
	})

	t.Run("requires deductions on a batch-tracked item", func(t *testing.T) {
		item := createTestStockItem(t)
		addTestBatch(t, item, 10, 2)

		err := item.RecordExit(decimal.NewFromInt(5), nil)

		require.Error(t, err)
	})

	t.Run("plain exit on an untracked item", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.RecordEntry(decimal.NewFromInt(10), nil))

		err := item.RecordExit(decimal.NewFromInt(4), nil)

		require.NoError(t, err)
		assert.True(t, item.CurrentQuantity.Equal(decimal.NewFromInt(6)))
	})

	t.Run("plain exit fails when stock is insufficient", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.RecordEntry(decimal.NewFromInt(3), nil))

		err := item.RecordExit(decimal.NewFromInt(4), nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.True(t, item.CurrentQuantity.Equal(decimal.NewFromInt(3)))
	})

	t.Run("emits below-minimum event when threshold is crossed", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.RecordEntry(decimal.NewFromInt(10), nil))
		require.NoError(t, item.SetMinimumQuantity(decimal.NewFromInt(5)))
		item.ClearDomainEvents()

		require.NoError(t, item.RecordExit(decimal.NewFromInt(6), nil))

		events := item.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeStockExitRecorded, events[0].EventType())
		assert.Equal(t, EventTypeStockBelowMinimum, events[1].EventType())
	})
}

func TestStockItem_Adjust(t *testing.T) {
	t.Run("overwrites the current quantity", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.RecordEntry(decimal.NewFromInt(10), nil))
		item.ClearDomainEvents()

		err := item.Adjust(decimal.NewFromFloat(7.5))

		require.NoError(t, err)
		assert.True(t, item.CurrentQuantity.Equal(decimal.NewFromFloat(7.5)))

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		adjusted, ok := events[0].(*StockAdjustedEvent)
		require.True(t, ok)
		assert.True(t, adjusted.OldQuantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, adjusted.NewQuantity.Equal(decimal.NewFromFloat(7.5)))
	})

	t.Run("leaves batches untouched", func(t *testing.T) {
		item := createTestStockItem(t)
		addTestBatch(t, item, 10, 5)

		require.NoError(t, item.Adjust(decimal.NewFromInt(7)))

		assert.True(t, item.Batches[0].Quantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		item := createTestStockItem(t)

		err := item.Adjust(decimal.NewFromInt(-1))

		require.Error(t, err)
	})
}

func TestStockItem_CheckIntegrity(t *testing.T) {
	t.Run("passes when batches sum to the ledger quantity", func(t *testing.T) {
		item := createTestStockItem(t)
		addTestBatch(t, item, 6, 2)
		addTestBatch(t, item, 4, 7)

		assert.NoError(t, item.CheckIntegrity())
	})

	t.Run("passes for items without batches", func(t *testing.T) {
		item := createTestStockItem(t)
		require.NoError(t, item.RecordEntry(decimal.NewFromInt(10), nil))

		assert.NoError(t, item.CheckIntegrity())
	})

	t.Run("tolerates divergence inside rounding tolerance", func(t *testing.T) {
		item := createTestStockItem(t)
		addTestBatch(t, item, 10, 5)
		item.CurrentQuantity = decimal.NewFromFloat(10.0001)

		assert.NoError(t, item.CheckIntegrity())
	})

	t.Run("reports divergence after a batch-agnostic adjustment", func(t *testing.T) {
		item := createTestStockItem(t)
		addTestBatch(t, item, 10, 5)
		require.NoError(t, item.Adjust(decimal.NewFromInt(7)))
		item.ClearDomainEvents()

		err := item.CheckIntegrity()

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "LEDGER_INTEGRITY_FAULT", domainErr.Code)

		events := item.GetDomainEvents()
		require.Len(t, events, 1)
		fault, ok := events[0].(*LedgerIntegrityFaultEvent)
		require.True(t, ok)
		assert.True(t, fault.Divergence.Equal(decimal.NewFromInt(3)))
	})
}

func TestStockItem_PruneEmptyBatches(t *testing.T) {
	item := createTestStockItem(t)
	first := addTestBatch(t, item, 10, 2)
	second := addTestBatch(t, item, 8, 7)

	require.NoError(t, item.RecordExit(decimal.NewFromInt(10), []BatchDeduction{
		{BatchID: first, Quantity: decimal.NewFromInt(10)},
	}))

	removed := item.PruneEmptyBatches()

	require.Len(t, removed, 1)
	assert.Equal(t, first, removed[0])
	require.Len(t, item.Batches, 1)
	assert.Equal(t, second, item.Batches[0].ID)
}

func TestStockItem_Thresholds(t *testing.T) {
	item := createTestStockItem(t)
	require.NoError(t, item.SetMinimumQuantity(decimal.NewFromInt(5)))
	require.NoError(t, item.RecordEntry(decimal.NewFromInt(5), nil))

	assert.True(t, item.IsBelowMinimum())

	require.NoError(t, item.RecordEntry(decimal.NewFromInt(1), nil))
	assert.False(t, item.IsBelowMinimum())

	err := item.SetMinimumQuantity(decimal.NewFromInt(-1))
	require.Error(t, err)
}
