package stock

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Batch is a dated slice of a stock item's quantity. Batches are owned by
// their StockItem aggregate and never mutated outside it.
type Batch struct {
	shared.BaseEntity
	StockItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ExpiryDate  time.Time       `gorm:"type:date;not null;index"`
	Lot         string          `gorm:"type:varchar(100)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "stock_batches"
}

// NewBatch creates a batch for a stock item
func NewBatch(stockItemID uuid.UUID, expiry time.Time, lot string, quantity decimal.Decimal) *Batch {
	return &Batch{
		BaseEntity:  shared.NewBaseEntity(),
		StockItemID: stockItemID,
		ExpiryDate:  startOfDay(expiry),
		Lot:         lot,
		Quantity:    quantity,
	}
}

// Matches reports whether the batch carries the given expiry date and lot
func (b *Batch) Matches(expiry time.Time, lot string) bool {
	return b.ExpiryDate.Equal(startOfDay(expiry)) && b.Lot == lot
}

// Add increases the batch quantity
func (b *Batch) Add(quantity decimal.Decimal) {
	b.Quantity = b.Quantity.Add(quantity)
	b.UpdatedAt = time.Now()
}

// Deduct decreases the batch quantity. Callers validate coverage first.
func (b *Batch) Deduct(quantity decimal.Decimal) {
	b.Quantity = b.Quantity.Sub(quantity)
	b.UpdatedAt = time.Now()
}

// startOfDay is midnight of t's calendar day in t's own location.
// Truncate is not usable here: it snaps to UTC day boundaries.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsExpired reports whether the batch expiry date lies before the given day
func (b *Batch) IsExpired(now time.Time) bool {
	return b.ExpiryDate.Before(startOfDay(now))
}

// BatchDeduction names a batch and the quantity an exit takes from it
type BatchDeduction struct {
	BatchID  uuid.UUID       `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// SortBatchesByExpiry orders batches oldest expiry first; ties fall back to
// creation time so deduction order stays deterministic.
func SortBatchesByExpiry(batches []Batch) {
	sort.SliceStable(batches, func(a, b int) bool {
		if !batches[a].ExpiryDate.Equal(batches[b].ExpiryDate) {
			return batches[a].ExpiryDate.Before(batches[b].ExpiryDate)
		}
		return batches[a].CreatedAt.Before(batches[b].CreatedAt)
	})
}
