package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemCategory classifies a raw-material stock item
type ItemCategory string

const (
	CategoryProduce   ItemCategory = "PRODUCE"
	CategoryProtein   ItemCategory = "PROTEIN"
	CategoryDairy     ItemCategory = "DAIRY"
	CategoryDryGoods  ItemCategory = "DRY_GOODS"
	CategoryBeverage  ItemCategory = "BEVERAGE"
	CategoryPackaging ItemCategory = "PACKAGING"
	CategoryCleaning  ItemCategory = "CLEANING"
	CategoryOther     ItemCategory = "OTHER"
)

// IsValid returns true if the category is a known value
func (c ItemCategory) IsValid() bool {
	switch c {
	case CategoryProduce, CategoryProtein, CategoryDairy, CategoryDryGoods,
		CategoryBeverage, CategoryPackaging, CategoryCleaning, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation
func (c ItemCategory) String() string {
	return string(c)
}

// UnitOfMeasure is the unit a stock item is tracked in
type UnitOfMeasure string

const (
	UnitGram       UnitOfMeasure = "G"
	UnitKilogram   UnitOfMeasure = "KG"
	UnitMilliliter UnitOfMeasure = "ML"
	UnitLiter      UnitOfMeasure = "L"
	UnitCount      UnitOfMeasure = "UN"
)

// IsValid returns true if the unit is a known value
func (u UnitOfMeasure) IsValid() bool {
	switch u {
	case UnitGram, UnitKilogram, UnitMilliliter, UnitLiter, UnitCount:
		return true
	}
	return false
}

// String returns the string representation
func (u UnitOfMeasure) String() string {
	return string(u)
}

// quantityEpsilon is the tolerance used when comparing quantities that
// travel through decimal(18,4) storage.
var quantityEpsilon = decimal.New(1, -4)

// StockItem is the aggregate root for the stock ledger. It owns the current
// quantity, the minimum-quantity threshold and the dated batches the quantity
// is partitioned into. All quantity changes go through the movement methods;
// catalog attributes (name, category, unit, price) are maintained externally.
type StockItem struct {
	shared.AuditedAggregateRoot
	Name            string          `gorm:"type:varchar(200);not null"`
	Category        ItemCategory    `gorm:"type:varchar(30);not null;index"`
	Unit            UnitOfMeasure   `gorm:"type:varchar(10);not null"`
	CurrentQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SupplierID      *uuid.UUID      `gorm:"type:uuid;index"`
	WastePercent    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`

	// Associations - loaded with the aggregate
	Batches []Batch `gorm:"foreignKey:StockItemID;references:ID"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock item with zero quantity
func NewStockItem(name string, category ItemCategory, unit UnitOfMeasure) (*StockItem, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown item category")
	}
	if !unit.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unknown unit of measure")
	}

	return &StockItem{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Name:                 name,
		Category:             category,
		Unit:                 unit,
		CurrentQuantity:      decimal.Zero,
		MinimumQuantity:      decimal.Zero,
		UnitPrice:            decimal.Zero,
		WastePercent:         decimal.Zero,
		Batches:              make([]Batch, 0),
	}, nil
}

// BatchInfo carries the attributes of the batch an entry should land in
type BatchInfo struct {
	ExpiryDate time.Time
	Lot        string
}

// RecordEntry increases the current quantity. When batch info is supplied the
// matching batch (same expiry date and lot) is incremented, or a new batch is
// created for the same amount.
func (i *StockItem) RecordEntry(quantity decimal.Decimal, batch *BatchInfo) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Entry quantity must be positive")
	}

	i.CurrentQuantity = i.CurrentQuantity.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	var batchID *uuid.UUID
	if batch != nil {
		b := i.upsertBatch(batch.ExpiryDate, batch.Lot, quantity)
		batchID = &b.ID
	}

	i.AddDomainEvent(NewStockEntryRecordedEvent(i, quantity, batchID))
	return nil
}

// upsertBatch increments the batch matching expiry+lot or appends a new one.
// Returns the affected batch.
func (i *StockItem) upsertBatch(expiry time.Time, lot string, quantity decimal.Decimal) *Batch {
	for idx := range i.Batches {
		if i.Batches[idx].Matches(expiry, lot) {
			i.Batches[idx].Add(quantity)
			return &i.Batches[idx]
		}
	}
	b := NewBatch(i.ID, expiry, lot, quantity)
	i.Batches = append(i.Batches, *b)
	return &i.Batches[len(i.Batches)-1]
}

// RecordExit decreases the current quantity. For batch-tracked items the
// caller must name the batches the exit is taken from; the deductions must
// sum to the exit quantity and each batch must cover its share. Validation
// happens before any mutation so a failed exit leaves the item untouched.
func (i *StockItem) RecordExit(quantity decimal.Decimal, deductions []BatchDeduction) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Exit quantity must be positive")
	}

	if i.HasLiveBatches() {
		if len(deductions) == 0 {
			return shared.NewDomainError("DEDUCTION_REQUIRED", "Exit from a batch-tracked item requires batch deductions")
		}
		if err := i.validateDeductions(quantity, deductions); err != nil {
			return err
		}
		for _, d := range deductions {
			batch := i.findBatch(d.BatchID)
			batch.Deduct(d.Quantity)
		}
	} else {
		if len(deductions) > 0 {
			return shared.NewDomainError("INVALID_DEDUCTIONS", "Item has no batches to deduct from")
		}
		if i.CurrentQuantity.LessThan(quantity) {
			return shared.ErrInsufficientStock
		}
	}

	i.CurrentQuantity = i.CurrentQuantity.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockExitRecordedEvent(i, quantity, deductions))
	i.checkMinimum()
	return nil
}

// validateDeductions checks the deduction list against the exit quantity and
// the live batches without mutating anything.
func (i *StockItem) validateDeductions(quantity decimal.Decimal, deductions []BatchDeduction) error {
	total := decimal.Zero
	seen := make(map[uuid.UUID]decimal.Decimal, len(deductions))
	for _, d := range deductions {
		if d.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
		}
		batch := i.findBatch(d.BatchID)
		if batch == nil {
			return shared.NewDomainError("UNKNOWN_BATCH", "Deduction names a batch that does not belong to this item")
		}
		seen[d.BatchID] = seen[d.BatchID].Add(d.Quantity)
		if seen[d.BatchID].GreaterThan(batch.Quantity) {
			return shared.NewDomainError("INSUFFICIENT_BATCH_QUANTITY", "Deduction exceeds remaining batch quantity")
		}
		total = total.Add(d.Quantity)
	}
	if total.Sub(quantity).Abs().GreaterThan(quantityEpsilon) {
		return shared.NewDomainError("DEDUCTION_MISMATCH", "Sum of batch deductions does not match exit quantity")
	}
	return nil
}

// findBatch returns the batch with the given ID, or nil
func (i *StockItem) findBatch(batchID uuid.UUID) *Batch {
	for idx := range i.Batches {
		if i.Batches[idx].ID == batchID {
			return &i.Batches[idx]
		}
	}
	return nil
}

// Adjust sets the current quantity to an absolute value (stock count).
// Batches are deliberately left untouched: a count fixes the ledger total,
// and any divergence from the batch sum is surfaced by CheckIntegrity rather
// than silently redistributed.
func (i *StockItem) Adjust(newQuantity decimal.Decimal) error {
	if newQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjusted quantity cannot be negative")
	}

	oldQuantity := i.CurrentQuantity
	i.CurrentQuantity = newQuantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockAdjustedEvent(i, oldQuantity, newQuantity))
	i.checkMinimum()
	return nil
}

// SetMinimumQuantity sets the minimum-stock threshold
func (i *StockItem) SetMinimumQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
	}
	i.MinimumQuantity = quantity
	i.UpdatedAt = time.Now()
	return nil
}

// SetUnitPrice sets the reference purchase price per unit
func (i *StockItem) SetUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	i.UnitPrice = price
	i.UpdatedAt = time.Now()
	return nil
}

// checkMinimum emits a StockBelowMinimum event when the threshold is crossed
func (i *StockItem) checkMinimum() {
	if i.MinimumQuantity.GreaterThan(decimal.Zero) && i.CurrentQuantity.LessThanOrEqual(i.MinimumQuantity) {
		i.AddDomainEvent(NewStockBelowMinimumEvent(i))
	}
}

// BatchTotal returns the sum of all batch quantities
func (i *StockItem) BatchTotal() decimal.Decimal {
	total := decimal.Zero
	for idx := range i.Batches {
		total = total.Add(i.Batches[idx].Quantity)
	}
	return total
}

// HasLiveBatches returns true if any batch still carries quantity
func (i *StockItem) HasLiveBatches() bool {
	for idx := range i.Batches {
		if i.Batches[idx].Quantity.GreaterThan(decimal.Zero) {
			return true
		}
	}
	return false
}

// IsBatchTracked returns true if the item has ever been given batches
func (i *StockItem) IsBatchTracked() bool {
	return len(i.Batches) > 0
}

// IsBelowMinimum returns true if the current quantity is at or under the threshold
func (i *StockItem) IsBelowMinimum() bool {
	return i.CurrentQuantity.LessThanOrEqual(i.MinimumQuantity)
}

// CheckIntegrity verifies that the batch quantities sum to the ledger
// quantity for batch-tracked items. Divergence is reported, never corrected:
// an automatic fix could mask real data loss. The returned error carries the
// LEDGER_INTEGRITY_FAULT code and an event is queued for the alert pipeline.
func (i *StockItem) CheckIntegrity() error {
	if !i.IsBatchTracked() {
		return nil
	}
	diff := i.BatchTotal().Sub(i.CurrentQuantity)
	if diff.Abs().LessThanOrEqual(quantityEpsilon) {
		return nil
	}
	i.AddDomainEvent(NewLedgerIntegrityFaultEvent(i, diff))
	return shared.NewDomainError("LEDGER_INTEGRITY_FAULT", "Batch quantities diverge from ledger quantity")
}

// PruneEmptyBatches removes batches whose quantity reached zero.
// Returns the IDs of the removed batches so persistence can delete them.
func (i *StockItem) PruneEmptyBatches() []uuid.UUID {
	removed := make([]uuid.UUID, 0)
	kept := i.Batches[:0]
	for idx := range i.Batches {
		if i.Batches[idx].Quantity.GreaterThan(decimal.Zero) {
			kept = append(kept, i.Batches[idx])
		} else {
			removed = append(removed, i.Batches[idx].ID)
		}
	}
	i.Batches = kept
	return removed
}
