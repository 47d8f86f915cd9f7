package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
)

// ProductionRepository defines the interface for production run persistence
type ProductionRepository interface {
	// FindByID finds a production run by its ID, ingredients preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Production, error)

	// FindScheduledBetween finds runs scheduled inside [from, to] regardless of status
	FindScheduledBetween(ctx context.Context, from, to time.Time) ([]Production, error)

	// FindPlannedBetween finds demand-generating runs scheduled inside [from, to]
	FindPlannedBetween(ctx context.Context, from, to time.Time) ([]Production, error)

	// FindAll finds runs matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Production, error)

	// Save creates or updates a run together with its ingredient snapshot
	Save(ctx context.Context, run *Production) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, run *Production) error

	// Delete deletes a run
	Delete(ctx context.Context, id uuid.UUID) error
}
