package stock

import (
	"context"

	"github.com/mise/backend/internal/domain/purchasing"
	"github.com/mise/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the repositories a stock
// movement touches. Everything executed inside one scope commits or rolls
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories within
// a transaction. All repositories share the same underlying transaction.
//
// Batch is a child entity of the StockItem aggregate and is persisted through
// the item repository; it has no independent repository. PendingRepo is here
// because an entry receipt resolves open orders in the same transaction as
// the ledger mutation.
type TransactionalRepositories interface {
	// StockRepo returns the stock item repository scoped to the current transaction
	StockRepo() stock.StockItemRepository
	// MovementRepo returns the movement log repository scoped to the current transaction
	MovementRepo() stock.MovementRepository
	// PendingRepo returns the pending delivery repository scoped to the current transaction
	PendingRepo() purchasing.PendingDeliveryRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests and for callers that bring their own atomicity.
type NoOpTransactionScope struct {
	stockRepo    stock.StockItemRepository
	movementRepo stock.MovementRepository
	pendingRepo  purchasing.PendingDeliveryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	stockRepo stock.StockItemRepository,
	movementRepo stock.MovementRepository,
	pendingRepo purchasing.PendingDeliveryRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		pendingRepo:  pendingRepo,
	}
}

// Execute runs the function directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRepo returns the stock item repository
func (s *NoOpTransactionScope) StockRepo() stock.StockItemRepository {
	return s.stockRepo
}

// MovementRepo returns the movement log repository
func (s *NoOpTransactionScope) MovementRepo() stock.MovementRepository {
	return s.movementRepo
}

// PendingRepo returns the pending delivery repository
func (s *NoOpTransactionScope) PendingRepo() purchasing.PendingDeliveryRepository {
	return s.pendingRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
