package purchasing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// MergePolicy combines a computed suggested quantity with a manual
// shopping-list quantity for the same item.
type MergePolicy func(computed, manual decimal.Decimal) decimal.Decimal

// MergeMax keeps the larger of the two suggestions. This is the default: a
// manual entry is a floor on the purchase, not an addition to it.
func MergeMax(computed, manual decimal.Decimal) decimal.Decimal {
	return decimal.Max(computed, manual)
}

// MergeSum buys both the computed need and the manual quantity
func MergeSum(computed, manual decimal.Decimal) decimal.Decimal {
	return computed.Add(manual)
}

// MergeOverride lets the manual quantity win outright
func MergeOverride(_, manual decimal.Decimal) decimal.Decimal {
	return manual
}

// NeedCalculator reconciles ledger state, projected production demand, open
// orders and the manual shopping list into one purchase list. Calculate is a
// pure function of its inputs.
type NeedCalculator struct {
	merge MergePolicy
}

// NewNeedCalculator creates a calculator with the MergeMax policy
func NewNeedCalculator() *NeedCalculator {
	return &NeedCalculator{merge: MergeMax}
}

// NewNeedCalculatorWithPolicy creates a calculator with a custom merge policy
func NewNeedCalculatorWithPolicy(policy MergePolicy) *NeedCalculator {
	if policy == nil {
		policy = MergeMax
	}
	return &NeedCalculator{merge: policy}
}

// Calculate builds the purchase list. Per item:
//
//	base_need = max(0, minimum + production_need - current)
//	suggested = max(0, base_need - already_ordered), merged with any manual entry
//
// Items known only through the manual list still appear, with zero
// placeholders for the ledger fields. The result is de-duplicated by item
// and ranked urgent-first.
func (c *NeedCalculator) Calculate(
	items []stock.StockItem,
	productionNeed map[uuid.UUID]decimal.Decimal,
	pending []PendingDelivery,
	manual []ManualEntry,
) []PurchaseLineItem {
	ordered := sumOrderedByItem(pending)
	manualByItem := indexManualByItem(manual)

	lines := make([]PurchaseLineItem, 0, len(items)+len(manualByItem))
	seen := make(map[uuid.UUID]bool, len(items))

	for i := range items {
		item := &items[i]
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true

		need := productionNeed[item.ID]
		baseNeed := decimal.Max(decimal.Zero, item.MinimumQuantity.Add(need).Sub(item.CurrentQuantity))
		alreadyOrdered := ordered[item.ID]
		suggested := decimal.Max(decimal.Zero, baseNeed.Sub(alreadyOrdered))

		isManual := false
		if entry, ok := manualByItem[item.ID]; ok {
			suggested = c.merge(suggested, entry.SuggestedQuantity)
			isManual = true
		}

		if suggested.IsZero() && alreadyOrdered.IsZero() && !isManual {
			continue
		}

		lines = append(lines, PurchaseLineItem{
			StockItemID:       item.ID,
			ItemName:          item.Name,
			Unit:              item.Unit.String(),
			SupplierID:        item.SupplierID,
			CurrentQuantity:   item.CurrentQuantity,
			MinimumQuantity:   item.MinimumQuantity,
			ProductionNeed:    need,
			OrderedQuantity:   alreadyOrdered,
			SuggestedQuantity: suggested,
			EstimatedCost:     suggested.Mul(item.UnitPrice),
			IsUrgent:          item.CurrentQuantity.LessThanOrEqual(item.MinimumQuantity),
			IsPurchased:       isCovered(suggested, alreadyOrdered),
			IsManual:          isManual,
		})
	}

	// manual-only items: not in the ledger snapshot, still bought
	for itemID, entry := range manualByItem {
		if seen[itemID] {
			continue
		}
		alreadyOrdered := ordered[itemID]
		lines = append(lines, PurchaseLineItem{
			StockItemID:       itemID,
			SupplierID:        entry.SupplierID,
			CurrentQuantity:   decimal.Zero,
			MinimumQuantity:   decimal.Zero,
			ProductionNeed:    decimal.Zero,
			OrderedQuantity:   alreadyOrdered,
			SuggestedQuantity: entry.SuggestedQuantity,
			EstimatedCost:     decimal.Zero,
			IsUrgent:          false,
			IsPurchased:       isCovered(entry.SuggestedQuantity, alreadyOrdered),
			IsManual:          true,
		})
	}

	rankLines(lines)
	return lines
}

// isCovered reports whether open orders satisfy the remaining suggestion: a
// positive suggestion fully matched by orders, or a suggestion already driven
// to zero by them.
func isCovered(suggested, alreadyOrdered decimal.Decimal) bool {
	if suggested.GreaterThan(decimal.Zero) {
		return alreadyOrdered.GreaterThanOrEqual(suggested)
	}
	return alreadyOrdered.GreaterThan(decimal.Zero)
}

// sumOrderedByItem totals the outstanding quantities of open orders per item
func sumOrderedByItem(pending []PendingDelivery) map[uuid.UUID]decimal.Decimal {
	ordered := make(map[uuid.UUID]decimal.Decimal, len(pending))
	for i := range pending {
		if pending[i].Resolved {
			continue
		}
		ordered[pending[i].StockItemID] = ordered[pending[i].StockItemID].Add(pending[i].Outstanding())
	}
	return ordered
}

// indexManualByItem keeps one manual entry per item (last write wins)
func indexManualByItem(manual []ManualEntry) map[uuid.UUID]*ManualEntry {
	byItem := make(map[uuid.UUID]*ManualEntry, len(manual))
	for i := range manual {
		byItem[manual[i].StockItemID] = &manual[i]
	}
	return byItem
}

// rankLines orders urgent lines first, then by suggested quantity descending,
// then by name for a stable display order.
func rankLines(lines []PurchaseLineItem) {
	sort.SliceStable(lines, func(a, b int) bool {
		if lines[a].IsUrgent != lines[b].IsUrgent {
			return lines[a].IsUrgent
		}
		if !lines[a].SuggestedQuantity.Equal(lines[b].SuggestedQuantity) {
			return lines[a].SuggestedQuantity.GreaterThan(lines[b].SuggestedQuantity)
		}
		return lines[a].ItemName < lines[b].ItemName
	})
}
