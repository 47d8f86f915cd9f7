package purchasing

import (
	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ManualEntry is an ad hoc shopping-list line maintained by the caller. It
// surfaces in every purchase calculation until removed, independent of any
// computed need.
type ManualEntry struct {
	shared.AuditedAggregateRoot
	StockItemID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	SuggestedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SupplierID        *uuid.UUID      `gorm:"type:uuid"`
	Note              string          `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ManualEntry) TableName() string {
	return "manual_purchase_entries"
}

// NewManualEntry creates a shopping-list line for an item
func NewManualEntry(stockItemID uuid.UUID, suggestedQuantity decimal.Decimal, supplierID *uuid.UUID, note string) (*ManualEntry, error) {
	if stockItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Stock item ID is required")
	}
	if suggestedQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Suggested quantity must be positive")
	}

	return &ManualEntry{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		StockItemID:          stockItemID,
		SuggestedQuantity:    suggestedQuantity,
		SupplierID:           supplierID,
		Note:                 note,
	}, nil
}

// UpdateQuantity replaces the suggested quantity
func (e *ManualEntry) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Suggested quantity must be positive")
	}
	e.SuggestedQuantity = quantity
	e.IncrementVersion()
	return nil
}
