package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/mise/backend/internal/domain/stock"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockItemRepository implements StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new GormStockItemRepository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

// FindByID finds a stock item by its ID, batches preloaded
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockItem, error) {
	var item stock.StockItem
	if err := r.db.WithContext(ctx).
		Preload("Batches").
		First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByName finds a stock item by its exact name
func (r *GormStockItemRepository) FindByName(ctx context.Context, name string) (*stock.StockItem, error) {
	var item stock.StockItem
	if err := r.db.WithContext(ctx).
		Preload("Batches").
		Where("name = ?", name).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDs finds multiple stock items by their IDs
func (r *GormStockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]stock.StockItem, error) {
	if len(ids) == 0 {
		return []stock.StockItem{}, nil
	}

	var items []stock.StockItem
	if err := r.db.WithContext(ctx).
		Preload("Batches").
		Where("id IN ?", ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll finds stock items matching the filter
func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.StockItem, error) {
	var items []stock.StockItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.StockItem{}).Preload("Batches"),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByCategory finds stock items in a category
func (r *GormStockItemRepository) FindByCategory(ctx context.Context, category stock.ItemCategory, filter shared.Filter) ([]stock.StockItem, error) {
	var items []stock.StockItem
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.StockItem{}).
			Preload("Batches").
			Where("category = ?", category),
		filter,
	)

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindBelowMinimum finds items at or under their minimum threshold
func (r *GormStockItemRepository) FindBelowMinimum(ctx context.Context) ([]stock.StockItem, error) {
	var items []stock.StockItem
	if err := r.db.WithContext(ctx).
		Where("minimum_quantity > 0 AND current_quantity <= minimum_quantity").
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a stock item together with its batches
func (r *GormStockItemRepository) Save(ctx context.Context, item *stock.StockItem) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(item).Error
}

// SaveWithLock saves with optimistic locking (checks version). Batch rows
// ride along inside the same statement batch; the version guard sits on the
// aggregate root only.
func (r *GormStockItemRepository) SaveWithLock(ctx context.Context, item *stock.StockItem) error {
	result := r.db.WithContext(ctx).
		Model(item).
		Where("id = ? AND version = ?", item.ID, item.Version-1).
		Updates(map[string]interface{}{
			"current_quantity": item.CurrentQuantity,
			"minimum_quantity": item.MinimumQuantity,
			"unit_price":       item.UnitPrice,
			"waste_percent":    item.WastePercent,
			"version":          item.Version,
			"updated_at":       item.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Stock item was modified by another transaction")
	}

	return r.saveBatches(ctx, item)
}

// saveBatches upserts the batch rows of an aggregate keyed on primary key
func (r *GormStockItemRepository) saveBatches(ctx context.Context, item *stock.StockItem) error {
	if len(item.Batches) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(&item.Batches).Error
}

// DeleteBatches removes emptied batch rows
func (r *GormStockItemRepository) DeleteBatches(ctx context.Context, batchIDs []uuid.UUID) error {
	if len(batchIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&stock.Batch{}, "id IN ?", batchIDs).Error
}

// Delete deletes a stock item and its batches
func (r *GormStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&stock.Batch{}, "stock_item_id = ?", id).Error; err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&stock.StockItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts stock items matching the filter
func (r *GormStockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&stock.StockItem{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStockItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, StockItemSortFields, "name")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "below_minimum":
			if value == true {
				query = query.Where("minimum_quantity > 0 AND current_quantity <= minimum_quantity")
			}
		case "name":
			if s, ok := value.(string); ok && s != "" {
				query = query.Where("name ILIKE ?", "%"+strings.TrimSpace(s)+"%")
			}
		}
	}

	return query
}

// Ensure GormStockItemRepository implements StockItemRepository
var _ stock.StockItemRepository = (*GormStockItemRepository)(nil)
