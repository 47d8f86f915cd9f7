package stock

import (
	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeStockItem = "StockItem"

// Event type constants
const (
	EventTypeStockEntryRecorded   = "StockEntryRecorded"
	EventTypeStockExitRecorded    = "StockExitRecorded"
	EventTypeStockAdjusted        = "StockAdjusted"
	EventTypeStockBelowMinimum    = "StockBelowMinimum"
	EventTypeLedgerIntegrityFault = "LedgerIntegrityFault"
)

// StockEntryRecordedEvent is raised when stock enters the ledger (e.g., a delivery)
type StockEntryRecordedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID       `json:"stock_item_id"`
	ItemName    string          `json:"item_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	BatchID     *uuid.UUID      `json:"batch_id,omitempty"`
}

// NewStockEntryRecordedEvent creates a new StockEntryRecordedEvent
func NewStockEntryRecordedEvent(item *StockItem, quantity decimal.Decimal, batchID *uuid.UUID) *StockEntryRecordedEvent {
	return &StockEntryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockEntryRecorded, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		ItemName:        item.Name,
		Quantity:        quantity,
		NewQuantity:     item.CurrentQuantity,
		BatchID:         batchID,
	}
}

// EventType returns the event type name
func (e *StockEntryRecordedEvent) EventType() string {
	return EventTypeStockEntryRecorded
}

// StockExitRecordedEvent is raised when stock leaves the ledger (consumption, waste)
type StockExitRecordedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID        `json:"stock_item_id"`
	ItemName    string           `json:"item_name"`
	Quantity    decimal.Decimal  `json:"quantity"`
	NewQuantity decimal.Decimal  `json:"new_quantity"`
	Deductions  []BatchDeduction `json:"deductions,omitempty"`
}

// NewStockExitRecordedEvent creates a new StockExitRecordedEvent
func NewStockExitRecordedEvent(item *StockItem, quantity decimal.Decimal, deductions []BatchDeduction) *StockExitRecordedEvent {
	return &StockExitRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockExitRecorded, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		ItemName:        item.Name,
		Quantity:        quantity,
		NewQuantity:     item.CurrentQuantity,
		Deductions:      deductions,
	}
}

// EventType returns the event type name
func (e *StockExitRecordedEvent) EventType() string {
	return EventTypeStockExitRecorded
}

// StockAdjustedEvent is raised when a stock count overwrites the ledger quantity
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	StockItemID uuid.UUID       `json:"stock_item_id"`
	ItemName    string          `json:"item_name"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *StockItem, oldQuantity, newQuantity decimal.Decimal) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		ItemName:        item.Name,
		OldQuantity:     oldQuantity,
		NewQuantity:     newQuantity,
	}
}

// EventType returns the event type name
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

// StockBelowMinimumEvent is raised when the quantity falls to or under the threshold
type StockBelowMinimumEvent struct {
	shared.BaseDomainEvent
	StockItemID     uuid.UUID       `json:"stock_item_id"`
	ItemName        string          `json:"item_name"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MinimumQuantity decimal.Decimal `json:"minimum_quantity"`
}

// NewStockBelowMinimumEvent creates a new StockBelowMinimumEvent
func NewStockBelowMinimumEvent(item *StockItem) *StockBelowMinimumEvent {
	return &StockBelowMinimumEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowMinimum, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		ItemName:        item.Name,
		CurrentQuantity: item.CurrentQuantity,
		MinimumQuantity: item.MinimumQuantity,
	}
}

// EventType returns the event type name
func (e *StockBelowMinimumEvent) EventType() string {
	return EventTypeStockBelowMinimum
}

// LedgerIntegrityFaultEvent is raised when batch totals diverge from the
// ledger quantity beyond tolerance
type LedgerIntegrityFaultEvent struct {
	shared.BaseDomainEvent
	StockItemID     uuid.UUID       `json:"stock_item_id"`
	ItemName        string          `json:"item_name"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	BatchTotal      decimal.Decimal `json:"batch_total"`
	Divergence      decimal.Decimal `json:"divergence"`
}

// NewLedgerIntegrityFaultEvent creates a new LedgerIntegrityFaultEvent
func NewLedgerIntegrityFaultEvent(item *StockItem, divergence decimal.Decimal) *LedgerIntegrityFaultEvent {
	return &LedgerIntegrityFaultEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerIntegrityFault, AggregateTypeStockItem, item.ID),
		StockItemID:     item.ID,
		ItemName:        item.Name,
		CurrentQuantity: item.CurrentQuantity,
		BatchTotal:      item.BatchTotal(),
		Divergence:      divergence,
	}
}

// EventType returns the event type name
func (e *LedgerIntegrityFaultEvent) EventType() string {
	return EventTypeLedgerIntegrityFault
}
