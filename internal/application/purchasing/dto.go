package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mise/backend/internal/domain/purchasing"
)

// ComputeRequest bounds the production window a purchase list considers.
// A zero window is filled in with the configured default by the HTTP layer.
type ComputeRequest struct {
	From        time.Time `json:"from,omitempty"`
	To          time.Time `json:"to,omitempty"`
	MergePolicy string    `json:"merge_policy,omitempty" binding:"omitempty,oneof=max sum override"`
}

// MarkOrderedRequest marks a quantity as ordered for an item
type MarkOrderedRequest struct {
	StockItemID       uuid.UUID  `json:"stock_item_id" binding:"required"`
	OrderedQuantity   string     `json:"ordered_quantity" binding:"required"`
	SuggestedQuantity string     `json:"suggested_quantity,omitempty"`
	SupplierID        *uuid.UUID `json:"supplier_id,omitempty"`
}

// ManualEntryRequest adds an item to the shopping list
type ManualEntryRequest struct {
	StockItemID       uuid.UUID  `json:"stock_item_id" binding:"required"`
	SuggestedQuantity string     `json:"suggested_quantity" binding:"required"`
	SupplierID        *uuid.UUID `json:"supplier_id,omitempty"`
	Note              string     `json:"note,omitempty"`
}

// UpdateScheduleRequest replaces the purchasing weekdays (0=Sunday .. 6=Saturday)
type UpdateScheduleRequest struct {
	Weekdays []int `json:"weekdays" binding:"required,dive,min=0,max=6"`
}

// PurchaseListResponse is the computed purchase list plus its counters
type PurchaseListResponse struct {
	Lines       []purchasing.PurchaseLineItem `json:"lines"`
	UrgentCount int                           `json:"urgent_count"`
	TotalCost   decimal.Decimal               `json:"total_cost"`
	ComputedAt  time.Time                     `json:"computed_at"`
}

// PendingDeliveryResponse is the API view of a pending delivery
type PendingDeliveryResponse struct {
	ID                uuid.UUID       `json:"id"`
	StockItemID       uuid.UUID       `json:"stock_item_id"`
	SupplierID        *uuid.UUID      `json:"supplier_id,omitempty"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	OutstandingQty    decimal.Decimal `json:"outstanding_quantity"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
	Resolved          bool            `json:"resolved"`
	ResolvedAt        *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ManualEntryResponse is the API view of a shopping-list line
type ManualEntryResponse struct {
	ID                uuid.UUID       `json:"id"`
	StockItemID       uuid.UUID       `json:"stock_item_id"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
	SupplierID        *uuid.UUID      `json:"supplier_id,omitempty"`
	Note              string          `json:"note,omitempty"`
}

// ScheduleResponse is the configured cadence plus derived calendar facts
type ScheduleResponse struct {
	Weekdays           []int      `json:"weekdays"`
	NextPurchaseDay    *time.Time `json:"next_purchase_day,omitempty"`
	TodayIsPurchaseDay bool       `json:"today_is_purchase_day"`
}

// ToPendingDeliveryResponse converts a pending delivery to its API view
func ToPendingDeliveryResponse(pd *purchasing.PendingDelivery) *PendingDeliveryResponse {
	return &PendingDeliveryResponse{
		ID:                pd.ID,
		StockItemID:       pd.StockItemID,
		SupplierID:        pd.SupplierID,
		OrderedQuantity:   pd.OrderedQuantity,
		ReceivedQuantity:  pd.ReceivedQuantity,
		OutstandingQty:    pd.Outstanding(),
		SuggestedQuantity: pd.SuggestedQuantity,
		Resolved:          pd.Resolved,
		ResolvedAt:        pd.ResolvedAt,
		CreatedAt:         pd.CreatedAt,
	}
}

// ToManualEntryResponse converts a manual entry to its API view
func ToManualEntryResponse(e *purchasing.ManualEntry) *ManualEntryResponse {
	return &ManualEntryResponse{
		ID:                e.ID,
		StockItemID:       e.StockItemID,
		SuggestedQuantity: e.SuggestedQuantity,
		SupplierID:        e.SupplierID,
		Note:              e.Note,
	}
}
