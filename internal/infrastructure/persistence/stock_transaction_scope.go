package persistence

import (
	"context"

	appstock "github.com/mise/backend/internal/application/stock"
	"github.com/mise/backend/internal/domain/purchasing"
	"github.com/mise/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to the repositories that
// participate in a stock movement, all scoped to the same transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// StockRepo returns the stock item repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockRepo() stock.StockItemRepository {
	return NewGormStockItemRepository(r.tx)
}

// MovementRepo returns the movement log repository scoped to the current transaction
func (r *gormTransactionalRepositories) MovementRepo() stock.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

// PendingRepo returns the pending delivery repository scoped to the current transaction
func (r *gormTransactionalRepositories) PendingRepo() purchasing.PendingDeliveryRepository {
	return NewGormPendingDeliveryRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appstock.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appstock.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
