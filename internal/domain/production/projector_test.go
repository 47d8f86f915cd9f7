package production

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledRun(t *testing.T, day time.Time, planned, yield float64, ingredients map[uuid.UUID]float64) Production {
	t.Helper()
	run, err := NewProduction("Soup", day, decimal.NewFromFloat(planned), decimal.NewFromFloat(yield))
	require.NoError(t, err)
	for itemID, qty := range ingredients {
		require.NoError(t, run.AddIngredient(itemID, decimal.NewFromFloat(qty)))
	}
	return *run
}

func TestDemandProjector_Project(t *testing.T) {
	projector := NewDemandProjector()
	today := startOfDay(time.Now())
	flour := uuid.New()
	butter := uuid.New()

	t.Run("scales ingredients by the run multiplier", func(t *testing.T) {
		// 10 planned / yield 2 = 5x the recipe
		runs := []Production{
			scheduledRun(t, today, 10, 2, map[uuid.UUID]float64{flour: 0.4, butter: 0.1}),
		}

		demand, err := projector.Project(runs, DemandWindow{})

		require.NoError(t, err)
		assert.True(t, demand[flour].Equal(decimal.NewFromInt(2)))
		assert.True(t, demand[butter].Equal(decimal.NewFromFloat(0.5)))
	})

	t.Run("sums demand across runs per item", func(t *testing.T) {
		runs := []Production{
			scheduledRun(t, today, 4, 2, map[uuid.UUID]float64{flour: 1}),
			scheduledRun(t, today.AddDate(0, 0, 1), 6, 2, map[uuid.UUID]float64{flour: 1}),
		}

		demand, err := projector.Project(runs, DemandWindow{})

		require.NoError(t, err)
		assert.True(t, demand[flour].Equal(decimal.NewFromInt(5)))
	})

	t.Run("filters by schedule window", func(t *testing.T) {
		runs := []Production{
			scheduledRun(t, today, 2, 2, map[uuid.UUID]float64{flour: 1}),
			scheduledRun(t, today.AddDate(0, 0, 10), 2, 2, map[uuid.UUID]float64{flour: 1}),
		}

		demand, err := projector.Project(runs, DemandWindow{From: today, To: today.AddDate(0, 0, 7)})

		require.NoError(t, err)
		assert.True(t, demand[flour].Equal(decimal.NewFromInt(1)))
	})

	t.Run("window bounds follow the local calendar day", func(t *testing.T) {
		zone := time.FixedZone("UTC+13", 13*60*60)
		// evening of the last window day; the window bound at local
		// midnight sits on the previous UTC calendar day
		evening := time.Date(2026, 9, 7, 20, 0, 0, 0, zone)
		window := DemandWindow{
			From: time.Date(2026, 9, 1, 0, 0, 0, 0, zone),
			To:   time.Date(2026, 9, 7, 0, 0, 0, 0, zone),
		}

		assert.True(t, window.Contains(evening))
		assert.False(t, window.Contains(evening.AddDate(0, 0, 1)))
	})

	t.Run("counts only planned runs", func(t *testing.T) {
		inProgress := scheduledRun(t, today, 2, 2, map[uuid.UUID]float64{flour: 1})
		require.NoError(t, inProgress.Start())
		cancelled := scheduledRun(t, today, 2, 2, map[uuid.UUID]float64{flour: 1})
		require.NoError(t, cancelled.Cancel())
		planned := scheduledRun(t, today, 2, 2, map[uuid.UUID]float64{flour: 1})

		demand, err := projector.Project([]Production{inProgress, cancelled, planned}, DemandWindow{})

		require.NoError(t, err)
		// started runs have already drawn their ingredients
		assert.True(t, demand[flour].Equal(decimal.NewFromInt(1)))
	})

	t.Run("aborts on corrupted yield snapshot", func(t *testing.T) {
		run := scheduledRun(t, today, 2, 2, map[uuid.UUID]float64{flour: 1})
		run.RecipeYield = decimal.Zero

		_, err := projector.Project([]Production{run}, DemandWindow{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "yield")
	})

	t.Run("empty input yields empty demand", func(t *testing.T) {
		demand, err := projector.Project(nil, DemandWindow{})

		require.NoError(t, err)
		assert.Empty(t, demand)
	})
}
