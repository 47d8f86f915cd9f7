package purchasing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseLineItem is one row of the computed purchase list. It is derived
// on demand and never persisted.
type PurchaseLineItem struct {
	StockItemID       uuid.UUID       `json:"stock_item_id"`
	ItemName          string          `json:"item_name"`
	Unit              string          `json:"unit"`
	SupplierID        *uuid.UUID      `json:"supplier_id,omitempty"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	MinimumQuantity   decimal.Decimal `json:"minimum_quantity"`
	ProductionNeed    decimal.Decimal `json:"production_need"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`
	IsUrgent          bool            `json:"is_urgent"`
	IsPurchased       bool            `json:"is_purchased"`
	IsManual          bool            `json:"is_manual"`
}
