package stock

import (
	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DeductionPlanner proposes how an exit quantity should be split across an
// item's batches. Plans are suggestions; the caller may edit them before the
// exit is recorded.
type DeductionPlanner interface {
	Plan(item *StockItem, quantity decimal.Decimal) ([]BatchDeduction, error)
}

// FIFOPlanner drains batches oldest expiry first. With day-granular expiry
// dates this doubles as first-expired-first-out for kitchen stock.
type FIFOPlanner struct{}

// NewFIFOPlanner creates a FIFO deduction planner
func NewFIFOPlanner() *FIFOPlanner {
	return &FIFOPlanner{}
}

// Plan walks the batches in expiry order and takes from each until the exit
// quantity is covered. Returns INSUFFICIENT_STOCK when the live batches
// cannot cover the quantity.
func (p *FIFOPlanner) Plan(item *StockItem, quantity decimal.Decimal) ([]BatchDeduction, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Exit quantity must be positive")
	}

	ordered := make([]Batch, len(item.Batches))
	copy(ordered, item.Batches)
	SortBatchesByExpiry(ordered)

	remaining := quantity
	plan := make([]BatchDeduction, 0, len(ordered))
	for idx := range ordered {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		available := ordered[idx].Quantity
		if available.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := decimal.Min(available, remaining)
		plan = append(plan, BatchDeduction{BatchID: ordered[idx].ID, Quantity: take})
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(quantityEpsilon) {
		return nil, shared.ErrInsufficientStock
	}
	return plan, nil
}
