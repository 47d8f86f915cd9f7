package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
)

// StockItemRepository defines the interface for stock item persistence
type StockItemRepository interface {
	// FindByID finds a stock item by its ID, batches preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*StockItem, error)

	// FindByName finds a stock item by its exact name
	FindByName(ctx context.Context, name string) (*StockItem, error)

	// FindByIDs finds multiple stock items by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]StockItem, error)

	// FindAll finds stock items matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockItem, error)

	// FindByCategory finds stock items in a category
	FindByCategory(ctx context.Context, category ItemCategory, filter shared.Filter) ([]StockItem, error)

	// FindBelowMinimum finds items at or under their minimum threshold
	FindBelowMinimum(ctx context.Context) ([]StockItem, error)

	// Save creates or updates a stock item together with its batches
	Save(ctx context.Context, item *StockItem) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, item *StockItem) error

	// DeleteBatches removes emptied batch rows
	DeleteBatches(ctx context.Context, batchIDs []uuid.UUID) error

	// Delete deletes a stock item
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts stock items matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// MovementRepository defines the interface for the append-only movement log.
// Movements are written once and never updated.
type MovementRepository interface {
	// Save appends a movement to the log
	Save(ctx context.Context, movement *Movement) error

	// FindByItem finds movements for an item, newest first
	FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]Movement, error)

	// FindByItemAndPeriod finds movements for an item within a time window
	FindByItemAndPeriod(ctx context.Context, itemID uuid.UUID, from, to time.Time) ([]Movement, error)

	// FindByReference finds movements carrying a reference string
	FindByReference(ctx context.Context, reference string) ([]Movement, error)

	// CountByItem counts movements for an item
	CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error)
}
