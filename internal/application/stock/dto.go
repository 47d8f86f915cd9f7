package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mise/backend/internal/domain/stock"
)

// CreateItemRequest creates a stock item
type CreateItemRequest struct {
	Name         string     `json:"name" binding:"required"`
	Category     string     `json:"category" binding:"required"`
	Unit         string     `json:"unit" binding:"required"`
	MinimumQty   *string    `json:"minimum_quantity,omitempty"`
	UnitPrice    *string    `json:"unit_price,omitempty"`
	SupplierID   *uuid.UUID `json:"supplier_id,omitempty"`
	WastePercent *string    `json:"waste_percent,omitempty"`
}

// UpdateThresholdsRequest updates the reorder threshold and price of an item
type UpdateThresholdsRequest struct {
	MinimumQuantity *string `json:"minimum_quantity,omitempty"`
	UnitPrice       *string `json:"unit_price,omitempty"`
}

// BatchRequest names the batch an entry lands in
type BatchRequest struct {
	ExpiryDate time.Time `json:"expiry_date" binding:"required"`
	Lot        string    `json:"lot,omitempty"`
}

// DeductionRequest is one batch deduction of an exit
type DeductionRequest struct {
	BatchID  uuid.UUID `json:"batch_id" binding:"required"`
	Quantity string    `json:"quantity" binding:"required"`
}

// RecordMovementRequest records an entry, exit or adjustment
type RecordMovementRequest struct {
	StockItemID uuid.UUID          `json:"stock_item_id" binding:"required"`
	Type        string             `json:"type" binding:"required,oneof=ENTRY EXIT ADJUSTMENT"`
	Quantity    string             `json:"quantity" binding:"required"`
	Batch       *BatchRequest      `json:"batch,omitempty"`
	Deductions  []DeductionRequest `json:"deductions,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	Reference   string             `json:"reference,omitempty"`

	// RecordedBy is set by the HTTP layer from the caller's identity header
	RecordedBy *uuid.UUID `json:"-"`
}

// BatchResponse is one batch of a stock item
type BatchResponse struct {
	ID         uuid.UUID       `json:"id"`
	ExpiryDate time.Time       `json:"expiry_date"`
	Lot        string          `json:"lot,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// StockItemResponse is the API view of a stock item
type StockItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Unit            string          `json:"unit"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MinimumQuantity decimal.Decimal `json:"minimum_quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	SupplierID      *uuid.UUID      `json:"supplier_id,omitempty"`
	WastePercent    decimal.Decimal `json:"waste_percent"`
	BelowMinimum    bool            `json:"below_minimum"`
	Batches         []BatchResponse `json:"batches,omitempty"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// MovementResponse is one ledger line
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	StockItemID   uuid.UUID       `json:"stock_item_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Reason        string          `json:"reason,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	// IntegrityWarning flags a batch-sum vs ledger divergence detected
	// while applying this movement. The divergence is never auto-corrected.
	IntegrityWarning bool `json:"integrity_warning,omitempty"`
}

// DeductionPlanResponse is a suggested exit split across batches
type DeductionPlanResponse struct {
	StockItemID uuid.UUID          `json:"stock_item_id"`
	Quantity    decimal.Decimal    `json:"quantity"`
	Deductions  []DeductionDetail  `json:"deductions"`
}

// DeductionDetail is one line of a deduction plan
type DeductionDetail struct {
	BatchID    uuid.UUID       `json:"batch_id"`
	ExpiryDate time.Time       `json:"expiry_date"`
	Lot        string          `json:"lot,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ToStockItemResponse converts a stock item to its API view
func ToStockItemResponse(item *stock.StockItem, withBatches bool) *StockItemResponse {
	resp := &StockItemResponse{
		ID:              item.ID,
		Name:            item.Name,
		Category:        item.Category.String(),
		Unit:            item.Unit.String(),
		CurrentQuantity: item.CurrentQuantity,
		MinimumQuantity: item.MinimumQuantity,
		UnitPrice:       item.UnitPrice,
		SupplierID:      item.SupplierID,
		WastePercent:    item.WastePercent,
		BelowMinimum:    item.IsBelowMinimum(),
		UpdatedAt:       item.UpdatedAt,
	}
	if withBatches {
		ordered := make([]stock.Batch, len(item.Batches))
		copy(ordered, item.Batches)
		stock.SortBatchesByExpiry(ordered)
		resp.Batches = make([]BatchResponse, 0, len(ordered))
		for _, b := range ordered {
			resp.Batches = append(resp.Batches, BatchResponse{
				ID:         b.ID,
				ExpiryDate: b.ExpiryDate,
				Lot:        b.Lot,
				Quantity:   b.Quantity,
			})
		}
	}
	return resp
}

// ToMovementResponse converts a movement to its API view
func ToMovementResponse(m *stock.Movement) *MovementResponse {
	return &MovementResponse{
		ID:            m.ID,
		StockItemID:   m.StockItemID,
		Type:          m.Type.String(),
		Quantity:      m.Quantity,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Reason:        m.Reason,
		Reference:     m.Reference,
		OccurredAt:    m.OccurredAt,
	}
}
