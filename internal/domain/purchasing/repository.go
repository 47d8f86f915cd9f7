package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
)

// PendingDeliveryRepository defines the interface for pending delivery persistence
type PendingDeliveryRepository interface {
	// FindByID finds a pending delivery by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PendingDelivery, error)

	// FindOpen finds all unresolved deliveries
	FindOpen(ctx context.Context) ([]PendingDelivery, error)

	// FindOpenByItem finds unresolved deliveries for an item, oldest first
	FindOpenByItem(ctx context.Context, itemID uuid.UUID) ([]PendingDelivery, error)

	// FindAll finds deliveries matching the filter, resolved included
	FindAll(ctx context.Context, filter shared.Filter) ([]PendingDelivery, error)

	// Save creates or updates a pending delivery
	Save(ctx context.Context, delivery *PendingDelivery) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, delivery *PendingDelivery) error
}

// ManualEntryRepository defines the interface for shopping-list persistence
type ManualEntryRepository interface {
	// FindByID finds a manual entry by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ManualEntry, error)

	// FindByItem finds the manual entry for an item, if any
	FindByItem(ctx context.Context, itemID uuid.UUID) (*ManualEntry, error)

	// FindAll lists the whole shopping list
	FindAll(ctx context.Context) ([]ManualEntry, error)

	// Save creates or updates a manual entry
	Save(ctx context.Context, entry *ManualEntry) error

	// Delete removes a manual entry
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByItem removes the manual entry for an item
	DeleteByItem(ctx context.Context, itemID uuid.UUID) error
}

// ScheduleRepository defines the interface for purchase cadence persistence
type ScheduleRepository interface {
	// FindEnabledWeekdays lists the weekdays purchasing is enabled on
	FindEnabledWeekdays(ctx context.Context) ([]time.Weekday, error)

	// ReplaceWeekdays overwrites the enabled weekday set
	ReplaceWeekdays(ctx context.Context, weekdays []time.Weekday) error
}
