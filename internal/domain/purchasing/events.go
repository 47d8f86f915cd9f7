package purchasing

import (
	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypePendingDelivery = "PendingDelivery"

// Event type constants
const (
	EventTypeDeliveryOrdered  = "DeliveryOrdered"
	EventTypeDeliveryResolved = "DeliveryResolved"
)

// DeliveryOrderedEvent is raised when a quantity is marked as ordered
type DeliveryOrderedEvent struct {
	shared.BaseDomainEvent
	PendingDeliveryID uuid.UUID       `json:"pending_delivery_id"`
	StockItemID       uuid.UUID       `json:"stock_item_id"`
	SupplierID        *uuid.UUID      `json:"supplier_id,omitempty"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
}

// NewDeliveryOrderedEvent creates a new DeliveryOrderedEvent
func NewDeliveryOrderedEvent(pd *PendingDelivery) *DeliveryOrderedEvent {
	return &DeliveryOrderedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeDeliveryOrdered, AggregateTypePendingDelivery, pd.ID),
		PendingDeliveryID: pd.ID,
		StockItemID:       pd.StockItemID,
		SupplierID:        pd.SupplierID,
		OrderedQuantity:   pd.OrderedQuantity,
	}
}

// EventType returns the event type name
func (e *DeliveryOrderedEvent) EventType() string {
	return EventTypeDeliveryOrdered
}

// DeliveryResolvedEvent is raised when an open order is fully received or cancelled
type DeliveryResolvedEvent struct {
	shared.BaseDomainEvent
	PendingDeliveryID uuid.UUID `json:"pending_delivery_id"`
	StockItemID       uuid.UUID `json:"stock_item_id"`
}

// NewDeliveryResolvedEvent creates a new DeliveryResolvedEvent
func NewDeliveryResolvedEvent(pd *PendingDelivery) *DeliveryResolvedEvent {
	return &DeliveryResolvedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeDeliveryResolved, AggregateTypePendingDelivery, pd.ID),
		PendingDeliveryID: pd.ID,
		StockItemID:       pd.StockItemID,
	}
}

// EventType returns the event type name
func (e *DeliveryResolvedEvent) EventType() string {
	return EventTypeDeliveryResolved
}
