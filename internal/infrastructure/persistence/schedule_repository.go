package persistence

import (
	"context"
	"time"

	"github.com/mise/backend/internal/domain/purchasing"
	"gorm.io/gorm"
)

// GormScheduleRepository implements ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// FindEnabledWeekdays lists the weekdays purchasing is enabled on
func (r *GormScheduleRepository) FindEnabledWeekdays(ctx context.Context) ([]time.Weekday, error) {
	var schedules []purchasing.PurchaseSchedule
	if err := r.db.WithContext(ctx).
		Where("enabled = true").
		Order("weekday ASC").
		Find(&schedules).Error; err != nil {
		return nil, err
	}

	weekdays := make([]time.Weekday, 0, len(schedules))
	for _, s := range schedules {
		weekdays = append(weekdays, s.Weekday)
	}
	return weekdays, nil
}

// ReplaceWeekdays overwrites the enabled weekday set atomically
func (r *GormScheduleRepository) ReplaceWeekdays(ctx context.Context, weekdays []time.Weekday) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&purchasing.PurchaseSchedule{}).Error; err != nil {
			return err
		}

		for _, weekday := range weekdays {
			schedule, err := purchasing.NewPurchaseSchedule(weekday)
			if err != nil {
				return err
			}
			if err := tx.Create(schedule).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormScheduleRepository implements ScheduleRepository
var _ purchasing.ScheduleRepository = (*GormScheduleRepository)(nil)
