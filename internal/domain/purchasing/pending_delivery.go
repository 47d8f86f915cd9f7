package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PendingDelivery records quantity already ordered for a stock item and
// awaiting physical receipt. It is resolved logically, never deleted, so the
// order history survives reconciliation.
type PendingDelivery struct {
	shared.AuditedAggregateRoot
	StockItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID        *uuid.UUID      `gorm:"type:uuid;index"`
	OrderedQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SuggestedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Resolved          bool            `gorm:"not null;default:false;index"`
	ResolvedAt        *time.Time
}

// TableName returns the table name for GORM
func (PendingDelivery) TableName() string {
	return "pending_deliveries"
}

// NewPendingDelivery marks a quantity as ordered for an item. The suggested
// quantity the order was based on is kept for later comparison.
func NewPendingDelivery(stockItemID uuid.UUID, orderedQuantity, suggestedQuantity decimal.Decimal, supplierID *uuid.UUID) (*PendingDelivery, error) {
	if stockItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Stock item ID is required")
	}
	if orderedQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity must be positive")
	}
	if suggestedQuantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Suggested quantity cannot be negative")
	}

	pd := &PendingDelivery{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		StockItemID:          stockItemID,
		SupplierID:           supplierID,
		OrderedQuantity:      orderedQuantity,
		SuggestedQuantity:    suggestedQuantity,
	}
	pd.AddDomainEvent(NewDeliveryOrderedEvent(pd))
	return pd, nil
}

// Outstanding is the ordered quantity not yet received.
func (pd *PendingDelivery) Outstanding() decimal.Decimal {
	return decimal.Max(decimal.Zero, pd.OrderedQuantity.Sub(pd.ReceivedQuantity))
}

// ApplyReceipt reconciles a received quantity against the open order. A
// receipt covering the outstanding quantity resolves the record; a partial
// receipt accumulates into the received total. The ordered quantity is never
// rewritten. Returns the quantity still outstanding after the receipt.
func (pd *PendingDelivery) ApplyReceipt(received decimal.Decimal) (decimal.Decimal, error) {
	if pd.Resolved {
		return decimal.Zero, shared.NewDomainError("ALREADY_RESOLVED", "Pending delivery is already resolved")
	}
	if received.LessThanOrEqual(decimal.Zero) {
		return pd.Outstanding(), shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}

	pd.ReceivedQuantity = pd.ReceivedQuantity.Add(received)
	if pd.ReceivedQuantity.GreaterThanOrEqual(pd.OrderedQuantity) {
		pd.markResolved()
	} else {
		pd.UpdatedAt = time.Now()
		pd.IncrementVersion()
	}
	return pd.Outstanding(), nil
}

// Cancel resolves the record without a receipt
func (pd *PendingDelivery) Cancel() error {
	if pd.Resolved {
		return shared.NewDomainError("ALREADY_RESOLVED", "Pending delivery is already resolved")
	}
	pd.markResolved()
	return nil
}

func (pd *PendingDelivery) markResolved() {
	now := time.Now()
	pd.Resolved = true
	pd.ResolvedAt = &now
	pd.UpdatedAt = now
	pd.IncrementVersion()
	pd.AddDomainEvent(NewDeliveryResolvedEvent(pd))
}
