package purchasing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// aDate returns a date known to fall on the given weekday
func aDate(t *testing.T, weekday time.Weekday) time.Time {
	t.Helper()
	// 2026-01-05 is a Monday
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for base.Weekday() != weekday {
		base = base.AddDate(0, 0, 1)
	}
	return base
}

func TestScheduleAdvisor_NextPurchaseDay(t *testing.T) {
	advisor := NewScheduleAdvisor()

	t.Run("wednesday resolves to thursday of the same week", func(t *testing.T) {
		wednesday := aDate(t, time.Wednesday)

		next, err := advisor.NextPurchaseDay([]time.Weekday{time.Monday, time.Thursday}, wednesday)

		require.NoError(t, err)
		assert.Equal(t, time.Thursday, next.Weekday())
		assert.Equal(t, wednesday.AddDate(0, 0, 1), next)
	})

	t.Run("a configured day resolves to itself", func(t *testing.T) {
		monday := aDate(t, time.Monday)

		next, err := advisor.NextPurchaseDay([]time.Weekday{time.Monday}, monday)

		require.NoError(t, err)
		assert.Equal(t, monday, next)
	})

	t.Run("wraps into the next week", func(t *testing.T) {
		friday := aDate(t, time.Friday)

		next, err := advisor.NextPurchaseDay([]time.Weekday{time.Monday}, friday)

		require.NoError(t, err)
		assert.Equal(t, time.Monday, next.Weekday())
		assert.Equal(t, friday.AddDate(0, 0, 3), next)
	})

	t.Run("keeps the local calendar day east of UTC", func(t *testing.T) {
		zone := time.FixedZone("UTC+13", 13*60*60)
		// Monday 00:30 local, still Sunday in UTC
		monday := time.Date(2026, 9, 7, 0, 30, 0, 0, zone)

		next, err := advisor.NextPurchaseDay([]time.Weekday{time.Monday}, monday)

		require.NoError(t, err)
		assert.True(t, next.Equal(time.Date(2026, 9, 7, 0, 0, 0, 0, zone)))

		next, err = advisor.NextPurchaseDay([]time.Weekday{time.Sunday}, monday)

		require.NoError(t, err)
		assert.Equal(t, time.Sunday, next.Weekday())
		assert.True(t, next.Equal(time.Date(2026, 9, 13, 0, 0, 0, 0, zone)))
	})

	t.Run("fails without configured weekdays", func(t *testing.T) {
		_, err := advisor.NextPurchaseDay(nil, aDate(t, time.Monday))
		require.Error(t, err)
	})
}

func TestScheduleAdvisor_IsTodayPurchaseDay(t *testing.T) {
	advisor := NewScheduleAdvisor()
	schedules := []time.Weekday{time.Monday, time.Thursday}

	assert.True(t, advisor.IsTodayPurchaseDay(schedules, aDate(t, time.Monday)))
	assert.True(t, advisor.IsTodayPurchaseDay(schedules, aDate(t, time.Thursday)))
	assert.False(t, advisor.IsTodayPurchaseDay(schedules, aDate(t, time.Sunday)))
	assert.False(t, advisor.IsTodayPurchaseDay(nil, aDate(t, time.Monday)))
}

func TestNewPurchaseSchedule(t *testing.T) {
	sched, err := NewPurchaseSchedule(time.Thursday)
	require.NoError(t, err)
	assert.Equal(t, time.Thursday, sched.Weekday)
	assert.True(t, sched.Enabled)

	_, err = NewPurchaseSchedule(time.Weekday(9))
	require.Error(t, err)
}
