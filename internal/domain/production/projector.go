package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DemandWindow bounds the schedule dates a projection considers.
// A zero From or To leaves that side open.
type DemandWindow struct {
	From time.Time
	To   time.Time
}

// Contains reports whether a schedule date falls inside the window
func (w DemandWindow) Contains(day time.Time) bool {
	day = startOfDay(day)
	if !w.From.IsZero() && day.Before(startOfDay(w.From)) {
		return false
	}
	if !w.To.IsZero() && day.After(startOfDay(w.To)) {
		return false
	}
	return true
}

// startOfDay is midnight of t's calendar day in t's own location.
// Truncate is not usable here: it snaps to UTC day boundaries.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DemandProjector aggregates upcoming raw-material demand from production
// runs. The projection is read-only: it never touches stock.
type DemandProjector struct{}

// NewDemandProjector creates a demand projector
func NewDemandProjector() *DemandProjector {
	return &DemandProjector{}
}

// Project sums ingredient demand per stock item across the planned runs that
// fall in the window. Each run's ingredient quantities are scaled by the
// run's multiplier (planned / yield). Runs with a non-positive snapshotted
// yield abort the projection: silently skipping them would understate demand.
func (pr *DemandProjector) Project(runs []Production, window DemandWindow) (map[uuid.UUID]decimal.Decimal, error) {
	demand := make(map[uuid.UUID]decimal.Decimal)
	for i := range runs {
		run := &runs[i]
		if !run.Status.GeneratesDemand() {
			continue
		}
		if !window.Contains(run.ScheduledFor) {
			continue
		}
		multiplier, err := run.Multiplier()
		if err != nil {
			return nil, err
		}
		for _, ing := range run.Ingredients {
			demand[ing.StockItemID] = demand[ing.StockItemID].Add(ing.Quantity.Mul(multiplier))
		}
	}
	return demand, nil
}
