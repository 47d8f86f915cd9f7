package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/purchasing"
	"github.com/mise/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormManualEntryRepository implements ManualEntryRepository using GORM
type GormManualEntryRepository struct {
	db *gorm.DB
}

// NewGormManualEntryRepository creates a new GormManualEntryRepository
func NewGormManualEntryRepository(db *gorm.DB) *GormManualEntryRepository {
	return &GormManualEntryRepository{db: db}
}

// FindByID finds a manual entry by its ID
func (r *GormManualEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.ManualEntry, error) {
	var entry purchasing.ManualEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByItem finds the manual entry for an item, if any
func (r *GormManualEntryRepository) FindByItem(ctx context.Context, itemID uuid.UUID) (*purchasing.ManualEntry, error) {
	var entry purchasing.ManualEntry
	if err := r.db.WithContext(ctx).
		Where("stock_item_id = ?", itemID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindAll lists the whole shopping list
func (r *GormManualEntryRepository) FindAll(ctx context.Context) ([]purchasing.ManualEntry, error) {
	var entries []purchasing.ManualEntry
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Save creates or updates a manual entry
func (r *GormManualEntryRepository) Save(ctx context.Context, entry *purchasing.ManualEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete removes a manual entry
func (r *GormManualEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&purchasing.ManualEntry{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByItem removes the manual entry for an item
func (r *GormManualEntryRepository) DeleteByItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&purchasing.ManualEntry{}, "stock_item_id = ?", itemID).Error
}

// Ensure GormManualEntryRepository implements ManualEntryRepository
var _ purchasing.ManualEntryRepository = (*GormManualEntryRepository)(nil)
