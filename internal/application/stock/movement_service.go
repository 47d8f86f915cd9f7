package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mise/backend/internal/domain/shared"
	"github.com/mise/backend/internal/domain/stock"
)

// MovementService records stock movements and keeps the ledger, the batch
// partition and the open purchase orders consistent. Every successful
// movement appends exactly one line to the movement log.
type MovementService struct {
	txScope        TransactionScope
	planner        stock.DeductionPlanner
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewMovementService creates a new MovementService
func NewMovementService(txScope TransactionScope, logger *zap.Logger) *MovementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MovementService{
		txScope: txScope,
		planner: stock.NewFIFOPlanner(),
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *MovementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateItem registers a new stock item
func (s *MovementService) CreateItem(ctx context.Context, req *CreateItemRequest) (*StockItemResponse, error) {
	item, err := stock.NewStockItem(req.Name, stock.ItemCategory(req.Category), stock.UnitOfMeasure(req.Unit))
	if err != nil {
		return nil, err
	}
	if req.MinimumQty != nil {
		qty, err := parseQuantity(*req.MinimumQty)
		if err != nil {
			return nil, err
		}
		if err := item.SetMinimumQuantity(qty); err != nil {
			return nil, err
		}
	}
	if req.UnitPrice != nil {
		price, err := parseQuantity(*req.UnitPrice)
		if err != nil {
			return nil, err
		}
		if err := item.SetUnitPrice(price); err != nil {
			return nil, err
		}
	}
	if req.WastePercent != nil {
		waste, err := parseQuantity(*req.WastePercent)
		if err != nil {
			return nil, err
		}
		item.WastePercent = waste
	}
	item.SupplierID = req.SupplierID

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.StockRepo().FindByName(ctx, item.Name)
		if err == nil && existing != nil {
			return shared.ErrAlreadyExists
		}
		return repos.StockRepo().Save(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return ToStockItemResponse(item, false), nil
}

// GetItem returns one stock item with its batches
func (s *MovementService) GetItem(ctx context.Context, itemID uuid.UUID) (*StockItemResponse, error) {
	var item *stock.StockItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.StockRepo().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToStockItemResponse(item, true), nil
}

// ListItems returns stock items matching the filter
func (s *MovementService) ListItems(ctx context.Context, filter shared.Filter) ([]StockItemResponse, error) {
	var items []stock.StockItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.StockRepo().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		items = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	responses := make([]StockItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *ToStockItemResponse(&items[i], false))
	}
	return responses, nil
}

// ListBelowMinimum returns items at or under their reorder threshold
func (s *MovementService) ListBelowMinimum(ctx context.Context) ([]StockItemResponse, error) {
	var items []stock.StockItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.StockRepo().FindBelowMinimum(ctx)
		if err != nil {
			return err
		}
		items = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	responses := make([]StockItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *ToStockItemResponse(&items[i], false))
	}
	return responses, nil
}

// UpdateThresholds updates the minimum quantity and unit price of an item
func (s *MovementService) UpdateThresholds(ctx context.Context, itemID uuid.UUID, req *UpdateThresholdsRequest) (*StockItemResponse, error) {
	var item *stock.StockItem
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.StockRepo().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if req.MinimumQuantity != nil {
			qty, err := parseQuantity(*req.MinimumQuantity)
			if err != nil {
				return err
			}
			if err := found.SetMinimumQuantity(qty); err != nil {
				return err
			}
		}
		if req.UnitPrice != nil {
			price, err := parseQuantity(*req.UnitPrice)
			if err != nil {
				return err
			}
			if err := found.SetUnitPrice(price); err != nil {
				return err
			}
		}
		// One version step per save, no matter how many fields changed.
		found.IncrementVersion()
		if err := repos.StockRepo().SaveWithLock(ctx, found); err != nil {
			return err
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToStockItemResponse(item, false), nil
}

// RecordMovement applies an entry, exit or adjustment to the ledger. The
// ledger mutation, the movement line and any pending-delivery resolution
// commit in one transaction; domain events go out after the commit.
func (s *MovementService) RecordMovement(ctx context.Context, req *RecordMovementRequest) (*MovementResponse, error) {
	movementType := stock.MovementType(req.Type)
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}
	quantity, err := parseQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	var item *stock.StockItem
	var movement *stock.Movement
	var integrityFault bool

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.StockRepo().FindByID(ctx, req.StockItemID)
		if err != nil {
			return err
		}
		item = found
		before := item.CurrentQuantity

		switch movementType {
		case stock.MovementEntry:
			var batch *stock.BatchInfo
			if req.Batch != nil {
				batch = &stock.BatchInfo{ExpiryDate: req.Batch.ExpiryDate, Lot: req.Batch.Lot}
			}
			if err := item.RecordEntry(quantity, batch); err != nil {
				return err
			}
			if err := s.resolvePending(ctx, repos, item.ID, quantity); err != nil {
				return err
			}

		case stock.MovementExit:
			deductions, err := parseDeductions(req.Deductions)
			if err != nil {
				return err
			}
			if err := item.RecordExit(quantity, deductions); err != nil {
				return err
			}

		case stock.MovementAdjustment:
			if err := item.Adjust(quantity); err != nil {
				return err
			}
		}

		// divergence is logged and alerted, never auto-corrected
		if err := item.CheckIntegrity(); err != nil {
			integrityFault = true
			s.logger.Error("stock ledger integrity fault",
				zap.String("item_id", item.ID.String()),
				zap.String("item_name", item.Name),
				zap.String("current_quantity", item.CurrentQuantity.String()),
				zap.String("batch_total", item.BatchTotal().String()))
		}

		if err := repos.StockRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}
		if removed := item.PruneEmptyBatches(); len(removed) > 0 {
			if err := repos.StockRepo().DeleteBatches(ctx, removed); err != nil {
				return err
			}
		}

		movement, err = stock.NewMovement(item.ID, movementType, quantity, before, item.CurrentQuantity, req.Reason, req.Reference)
		if err != nil {
			return err
		}
		movement.RecordedBy = req.RecordedBy
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, item)
	resp := ToMovementResponse(movement)
	resp.IntegrityWarning = integrityFault
	return resp, nil
}

// resolvePending reconciles an entry receipt against the item's open orders,
// oldest first. A receipt larger than one order rolls into the next.
func (s *MovementService) resolvePending(ctx context.Context, repos TransactionalRepositories, itemID uuid.UUID, received decimal.Decimal) error {
	open, err := repos.PendingRepo().FindOpenByItem(ctx, itemID)
	if err != nil {
		return err
	}
	remaining := received
	for i := range open {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		pd := &open[i]
		portion := decimal.Min(remaining, pd.Outstanding())
		if _, err := pd.ApplyReceipt(portion); err != nil {
			return err
		}
		if err := repos.PendingRepo().SaveWithLock(ctx, pd); err != nil {
			return err
		}
		s.publishEvents(ctx, pd.GetDomainEvents())
		pd.ClearDomainEvents()
		remaining = remaining.Sub(portion)
	}
	return nil
}

// SuggestDeductions plans a FIFO exit for the requested quantity
func (s *MovementService) SuggestDeductions(ctx context.Context, itemID uuid.UUID, rawQuantity string) (*DeductionPlanResponse, error) {
	quantity, err := parseQuantity(rawQuantity)
	if err != nil {
		return nil, err
	}

	var item *stock.StockItem
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.StockRepo().FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	plan, err := s.planner.Plan(item, quantity)
	if err != nil {
		return nil, err
	}

	resp := &DeductionPlanResponse{
		StockItemID: itemID,
		Quantity:    quantity,
		Deductions:  make([]DeductionDetail, 0, len(plan)),
	}
	for _, d := range plan {
		detail := DeductionDetail{BatchID: d.BatchID, Quantity: d.Quantity}
		for i := range item.Batches {
			if item.Batches[i].ID == d.BatchID {
				detail.ExpiryDate = item.Batches[i].ExpiryDate
				detail.Lot = item.Batches[i].Lot
				break
			}
		}
		resp.Deductions = append(resp.Deductions, detail)
	}
	return resp, nil
}

// ListBatches returns an item's batches, expiry ascending
func (s *MovementService) ListBatches(ctx context.Context, itemID uuid.UUID) ([]BatchResponse, error) {
	resp, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return resp.Batches, nil
}

// ListMovements returns the movement log for an item, newest first
func (s *MovementService) ListMovements(ctx context.Context, itemID uuid.UUID, filter shared.Filter) ([]MovementResponse, error) {
	var movements []stock.Movement
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.MovementRepo().FindByItem(ctx, itemID, filter)
		if err != nil {
			return err
		}
		movements = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, *ToMovementResponse(&movements[i]))
	}
	return responses, nil
}

// publishDomainEvents publishes and clears the aggregate's queued events
func (s *MovementService) publishDomainEvents(ctx context.Context, item *stock.StockItem) {
	if item == nil {
		return
	}
	s.publishEvents(ctx, item.GetDomainEvents())
	item.ClearDomainEvents()
}

func (s *MovementService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
}

// parseQuantity parses a decimal quantity from its string form
func parseQuantity(raw string) (decimal.Decimal, error) {
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity is not a valid decimal")
	}
	return qty, nil
}

// parseDeductions converts deduction requests to domain deductions
func parseDeductions(reqs []DeductionRequest) ([]stock.BatchDeduction, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	deductions := make([]stock.BatchDeduction, 0, len(reqs))
	for _, r := range reqs {
		qty, err := parseQuantity(r.Quantity)
		if err != nil {
			return nil, err
		}
		deductions = append(deductions, stock.BatchDeduction{BatchID: r.BatchID, Quantity: qty})
	}
	return deductions, nil
}
