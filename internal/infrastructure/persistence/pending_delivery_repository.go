package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/purchasing"
	"github.com/mise/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPendingDeliveryRepository implements PendingDeliveryRepository using GORM
type GormPendingDeliveryRepository struct {
	db *gorm.DB
}

// NewGormPendingDeliveryRepository creates a new GormPendingDeliveryRepository
func NewGormPendingDeliveryRepository(db *gorm.DB) *GormPendingDeliveryRepository {
	return &GormPendingDeliveryRepository{db: db}
}

// FindByID finds a pending delivery by its ID
func (r *GormPendingDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PendingDelivery, error) {
	var delivery purchasing.PendingDelivery
	if err := r.db.WithContext(ctx).First(&delivery, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &delivery, nil
}

// FindOpen finds all unresolved deliveries
func (r *GormPendingDeliveryRepository) FindOpen(ctx context.Context) ([]purchasing.PendingDelivery, error) {
	var deliveries []purchasing.PendingDelivery
	if err := r.db.WithContext(ctx).
		Where("resolved = false").
		Order("created_at ASC").
		Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// FindOpenByItem finds unresolved deliveries for an item, oldest first
func (r *GormPendingDeliveryRepository) FindOpenByItem(ctx context.Context, itemID uuid.UUID) ([]purchasing.PendingDelivery, error) {
	var deliveries []purchasing.PendingDelivery
	if err := r.db.WithContext(ctx).
		Where("stock_item_id = ? AND resolved = false", itemID).
		Order("created_at ASC").
		Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// FindAll finds deliveries matching the filter, resolved included
func (r *GormPendingDeliveryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchasing.PendingDelivery, error) {
	var deliveries []purchasing.PendingDelivery
	query := r.db.WithContext(ctx).Model(&purchasing.PendingDelivery{})

	for key, value := range filter.Filters {
		switch key {
		case "stock_item_id":
			query = query.Where("stock_item_id = ?", value)
		case "resolved":
			query = query.Where("resolved = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PendingDeliverySortFields, "created_at")
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Save creates or updates a pending delivery
func (r *GormPendingDeliveryRepository) Save(ctx context.Context, delivery *purchasing.PendingDelivery) error {
	return r.db.WithContext(ctx).Save(delivery).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormPendingDeliveryRepository) SaveWithLock(ctx context.Context, delivery *purchasing.PendingDelivery) error {
	result := r.db.WithContext(ctx).
		Model(delivery).
		Where("id = ? AND version = ?", delivery.ID, delivery.Version-1).
		Updates(map[string]interface{}{
			"received_quantity": delivery.ReceivedQuantity,
			"resolved":          delivery.Resolved,
			"resolved_at":       delivery.ResolvedAt,
			"version":           delivery.Version,
			"updated_at":        delivery.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Pending delivery was modified by another transaction")
	}
	return nil
}

// Ensure GormPendingDeliveryRepository implements PendingDeliveryRepository
var _ purchasing.PendingDeliveryRepository = (*GormPendingDeliveryRepository)(nil)
