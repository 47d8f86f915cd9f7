package purchasing

import (
	"time"

	"github.com/mise/backend/internal/domain/shared"
)

// PurchaseSchedule is the configured purchasing cadence: one weekday flag
// per row. A single row aggregate keeps the config trivially editable.
type PurchaseSchedule struct {
	shared.BaseEntity
	Weekday time.Weekday `gorm:"not null;uniqueIndex"`
	Enabled bool         `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PurchaseSchedule) TableName() string {
	return "purchase_schedules"
}

// NewPurchaseSchedule enables purchasing on a weekday
func NewPurchaseSchedule(weekday time.Weekday) (*PurchaseSchedule, error) {
	if weekday < time.Sunday || weekday > time.Saturday {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown weekday")
	}
	return &PurchaseSchedule{
		BaseEntity: shared.NewBaseEntity(),
		Weekday:    weekday,
		Enabled:    true,
	}, nil
}

// ScheduleAdvisor answers calendar questions about the purchasing cadence.
// Pure date arithmetic; no side effects.
type ScheduleAdvisor struct{}

// NewScheduleAdvisor creates a schedule advisor
func NewScheduleAdvisor() *ScheduleAdvisor {
	return &ScheduleAdvisor{}
}

// NextPurchaseDay returns the soonest configured weekday on or after from.
// With no configured weekdays there is no next day.
func (a *ScheduleAdvisor) NextPurchaseDay(weekdays []time.Weekday, from time.Time) (time.Time, error) {
	if len(weekdays) == 0 {
		return time.Time{}, shared.NewDomainError("NO_SCHEDULE", "No purchase weekdays configured")
	}

	enabled := make(map[time.Weekday]bool, len(weekdays))
	for _, wd := range weekdays {
		enabled[wd] = true
	}

	day := startOfDay(from)
	for offset := 0; offset < 7; offset++ {
		candidate := day.AddDate(0, 0, offset)
		if enabled[candidate.Weekday()] {
			return candidate, nil
		}
	}
	return time.Time{}, shared.NewDomainError("NO_SCHEDULE", "No purchase weekdays configured")
}

// startOfDay is midnight of t's calendar day in t's own location.
// Truncate is not usable here: it snaps to UTC day boundaries.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsTodayPurchaseDay reports whether today falls on a configured weekday
func (a *ScheduleAdvisor) IsTodayPurchaseDay(weekdays []time.Weekday, today time.Time) bool {
	for _, wd := range weekdays {
		if wd == today.Weekday() {
			return true
		}
	}
	return false
}
