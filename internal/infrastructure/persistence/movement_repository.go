package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/mise/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormMovementRepository implements MovementRepository using GORM.
// Movements are append-only; the repository exposes no update or delete.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Save appends a movement to the log
func (r *GormMovementRepository) Save(ctx context.Context, movement *stock.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByItem finds movements for an item, newest first
func (r *GormMovementRepository) FindByItem(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]stock.Movement, error) {
	var movements []stock.Movement
	query := r.db.WithContext(ctx).
		Where("stock_item_id = ?", itemID)

	if t, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", t)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, MovementSortFields, "occurred_at")
	if err := query.
		Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByItemAndPeriod finds movements for an item within a time window
func (r *GormMovementRepository) FindByItemAndPeriod(ctx context.Context, itemID uuid.UUID, from, to time.Time) ([]stock.Movement, error) {
	var movements []stock.Movement
	if err := r.db.WithContext(ctx).
		Where("stock_item_id = ? AND occurred_at >= ? AND occurred_at <= ?", itemID, from, to).
		Order("occurred_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByReference finds movements carrying a reference string
func (r *GormMovementRepository) FindByReference(ctx context.Context, reference string) ([]stock.Movement, error) {
	var movements []stock.Movement
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("occurred_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// CountByItem counts movements for an item
func (r *GormMovementRepository) CountByItem(ctx context.Context, itemID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.Movement{}).
		Where("stock_item_id = ?", itemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormMovementRepository implements MovementRepository
var _ stock.MovementRepository = (*GormMovementRepository)(nil)
