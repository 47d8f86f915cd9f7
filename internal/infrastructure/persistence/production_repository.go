package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/production"
	"github.com/mise/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductionRepository implements ProductionRepository using GORM
type GormProductionRepository struct {
	db *gorm.DB
}

// NewGormProductionRepository creates a new GormProductionRepository
func NewGormProductionRepository(db *gorm.DB) *GormProductionRepository {
	return &GormProductionRepository{db: db}
}

// FindByID finds a production run by its ID, ingredients preloaded
func (r *GormProductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Production, error) {
	var run production.Production
	if err := r.db.WithContext(ctx).
		Preload("Ingredients").
		First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

// FindScheduledBetween finds runs scheduled inside [from, to] regardless of status
func (r *GormProductionRepository) FindScheduledBetween(ctx context.Context, from, to time.Time) ([]production.Production, error) {
	var runs []production.Production
	if err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Where("scheduled_for >= ? AND scheduled_for <= ?", from, to).
		Order("scheduled_for ASC").
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// FindPlannedBetween finds demand-generating runs scheduled inside [from, to]
func (r *GormProductionRepository) FindPlannedBetween(ctx context.Context, from, to time.Time) ([]production.Production, error) {
	var runs []production.Production
	if err := r.db.WithContext(ctx).
		Preload("Ingredients").
		Where("status = ? AND scheduled_for >= ? AND scheduled_for <= ?", production.StatusPlanned, from, to).
		Order("scheduled_for ASC").
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// FindAll finds runs matching the filter
func (r *GormProductionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.Production, error) {
	var runs []production.Production
	query := r.db.WithContext(ctx).
		Model(&production.Production{}).
		Preload("Ingredients")

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductionSortFields, "scheduled_for")
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// Save creates or updates a run together with its ingredient snapshot
func (r *GormProductionRepository) Save(ctx context.Context, run *production.Production) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(run).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormProductionRepository) SaveWithLock(ctx context.Context, run *production.Production) error {
	result := r.db.WithContext(ctx).
		Model(run).
		Where("id = ? AND version = ?", run.ID, run.Version-1).
		Updates(map[string]interface{}{
			"status":           run.Status,
			"scheduled_for":    run.ScheduledFor,
			"planned_quantity": run.PlannedQuantity,
			"recipe_yield":     run.RecipeYield,
			"version":          run.Version,
			"updated_at":       run.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Production run was modified by another transaction")
	}
	return nil
}

// Delete deletes a run and its ingredient snapshot
func (r *GormProductionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&production.Ingredient{}, "production_id = ?", id).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&production.Production{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProductionRepository implements ProductionRepository
var _ production.ProductionRepository = (*GormProductionRepository)(nil)
