package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mise/backend/internal/domain/production"
	"github.com/mise/backend/internal/domain/purchasing"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/mise/backend/internal/domain/stock"
)

// PlanningService computes purchase lists and manages the state they draw
// on: open orders, the manual shopping list and the purchasing cadence.
type PlanningService struct {
	stockRepo      stock.StockItemRepository
	productionRepo production.ProductionRepository
	pendingRepo    purchasing.PendingDeliveryRepository
	manualRepo     purchasing.ManualEntryRepository
	scheduleRepo   purchasing.ScheduleRepository
	projector      *production.DemandProjector
	advisor        *purchasing.ScheduleAdvisor
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewPlanningService creates a new PlanningService
func NewPlanningService(
	stockRepo stock.StockItemRepository,
	productionRepo production.ProductionRepository,
	pendingRepo purchasing.PendingDeliveryRepository,
	manualRepo purchasing.ManualEntryRepository,
	scheduleRepo purchasing.ScheduleRepository,
	logger *zap.Logger,
) *PlanningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningService{
		stockRepo:      stockRepo,
		productionRepo: productionRepo,
		pendingRepo:    pendingRepo,
		manualRepo:     manualRepo,
		scheduleRepo:   scheduleRepo,
		projector:      production.NewDemandProjector(),
		advisor:        purchasing.NewScheduleAdvisor(),
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PlanningService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source, for tests
func (s *PlanningService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ComputePurchaseList reconciles current stock, projected production demand
// for the window, open orders and the manual shopping list into one ranked
// purchase list. The computation reads state but changes nothing.
func (s *PlanningService) ComputePurchaseList(ctx context.Context, req *ComputeRequest) (*PurchaseListResponse, error) {
	if req.To.Before(req.From) {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Window end precedes its start")
	}

	items, err := s.stockRepo.FindAll(ctx, shared.Filter{})
	if err != nil {
		return nil, err
	}
	runs, err := s.productionRepo.FindPlannedBetween(ctx, req.From, req.To)
	if err != nil {
		return nil, err
	}
	need, err := s.projector.Project(runs, production.DemandWindow{From: req.From, To: req.To})
	if err != nil {
		return nil, err
	}
	pending, err := s.pendingRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	manual, err := s.manualRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	calc := purchasing.NewNeedCalculatorWithPolicy(mergePolicyFor(req.MergePolicy))
	lines := calc.Calculate(items, need, pending, manual)

	resp := &PurchaseListResponse{
		Lines:      lines,
		TotalCost:  decimal.Zero,
		ComputedAt: s.now(),
	}
	for _, line := range lines {
		if line.IsUrgent {
			resp.UrgentCount++
		}
		resp.TotalCost = resp.TotalCost.Add(line.EstimatedCost)
	}

	s.logger.Debug("purchase list computed",
		zap.Int("lines", len(lines)),
		zap.Int("urgent", resp.UrgentCount),
		zap.Time("window_from", req.From),
		zap.Time("window_to", req.To))
	return resp, nil
}

// MarkOrdered records that a quantity was ordered for an item so later
// calculations stop suggesting it
func (s *PlanningService) MarkOrdered(ctx context.Context, req *MarkOrderedRequest) (*PendingDeliveryResponse, error) {
	ordered, err := decimal.NewFromString(req.OrderedQuantity)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Ordered quantity is not a valid decimal")
	}
	suggested := ordered
	if req.SuggestedQuantity != "" {
		suggested, err = decimal.NewFromString(req.SuggestedQuantity)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Suggested quantity is not a valid decimal")
		}
	}

	if _, err := s.stockRepo.FindByID(ctx, req.StockItemID); err != nil {
		return nil, err
	}

	pd, err := purchasing.NewPendingDelivery(req.StockItemID, ordered, suggested, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if err := s.pendingRepo.Save(ctx, pd); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, pd.GetDomainEvents())
	pd.ClearDomainEvents()

	return ToPendingDeliveryResponse(pd), nil
}

// ListPending returns all unresolved deliveries
func (s *PlanningService) ListPending(ctx context.Context) ([]PendingDeliveryResponse, error) {
	open, err := s.pendingRepo.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]PendingDeliveryResponse, 0, len(open))
	for i := range open {
		responses = append(responses, *ToPendingDeliveryResponse(&open[i]))
	}
	return responses, nil
}

// CancelPending resolves an open order without a receipt
func (s *PlanningService) CancelPending(ctx context.Context, id uuid.UUID) error {
	pd, err := s.pendingRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := pd.Cancel(); err != nil {
		return err
	}
	if err := s.pendingRepo.SaveWithLock(ctx, pd); err != nil {
		return err
	}
	s.publishEvents(ctx, pd.GetDomainEvents())
	pd.ClearDomainEvents()
	return nil
}

// AddManualEntry puts an item on the shopping list. An existing entry for
// the same item is updated instead of duplicated.
func (s *PlanningService) AddManualEntry(ctx context.Context, req *ManualEntryRequest) (*ManualEntryResponse, error) {
	quantity, err := decimal.NewFromString(req.SuggestedQuantity)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Suggested quantity is not a valid decimal")
	}

	existing, err := s.manualRepo.FindByItem(ctx, req.StockItemID)
	if err == nil && existing != nil {
		if err := existing.UpdateQuantity(quantity); err != nil {
			return nil, err
		}
		if err := s.manualRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
		return ToManualEntryResponse(existing), nil
	}

	entry, err := purchasing.NewManualEntry(req.StockItemID, quantity, req.SupplierID, req.Note)
	if err != nil {
		return nil, err
	}
	if err := s.manualRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	return ToManualEntryResponse(entry), nil
}

// ListManual returns the whole shopping list
func (s *PlanningService) ListManual(ctx context.Context) ([]ManualEntryResponse, error) {
	entries, err := s.manualRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ManualEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *ToManualEntryResponse(&entries[i]))
	}
	return responses, nil
}

// RemoveManualEntry takes an item off the shopping list
func (s *PlanningService) RemoveManualEntry(ctx context.Context, itemID uuid.UUID) error {
	return s.manualRepo.DeleteByItem(ctx, itemID)
}

// GetSchedule returns the configured cadence with today's calendar facts
func (s *PlanningService) GetSchedule(ctx context.Context) (*ScheduleResponse, error) {
	weekdays, err := s.scheduleRepo.FindEnabledWeekdays(ctx)
	if err != nil {
		return nil, err
	}
	return s.scheduleView(weekdays), nil
}

// UpdateSchedule replaces the purchasing weekdays
func (s *PlanningService) UpdateSchedule(ctx context.Context, req *UpdateScheduleRequest) (*ScheduleResponse, error) {
	weekdays := make([]time.Weekday, 0, len(req.Weekdays))
	for _, wd := range req.Weekdays {
		if wd < 0 || wd > 6 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Weekday must be between 0 and 6")
		}
		weekdays = append(weekdays, time.Weekday(wd))
	}
	if err := s.scheduleRepo.ReplaceWeekdays(ctx, weekdays); err != nil {
		return nil, err
	}
	return s.scheduleView(weekdays), nil
}

// NextPurchaseDay returns the soonest configured purchase day on or after from
func (s *PlanningService) NextPurchaseDay(ctx context.Context, from time.Time) (time.Time, error) {
	weekdays, err := s.scheduleRepo.FindEnabledWeekdays(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return s.advisor.NextPurchaseDay(weekdays, from)
}

func (s *PlanningService) scheduleView(weekdays []time.Weekday) *ScheduleResponse {
	resp := &ScheduleResponse{
		Weekdays:           make([]int, 0, len(weekdays)),
		TodayIsPurchaseDay: s.advisor.IsTodayPurchaseDay(weekdays, s.now()),
	}
	for _, wd := range weekdays {
		resp.Weekdays = append(resp.Weekdays, int(wd))
	}
	if next, err := s.advisor.NextPurchaseDay(weekdays, s.now()); err == nil {
		resp.NextPurchaseDay = &next
	}
	return resp
}

func (s *PlanningService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// mergePolicyFor maps the request policy name to a merge function
func mergePolicyFor(name string) purchasing.MergePolicy {
	switch name {
	case "sum":
		return purchasing.MergeSum
	case "override":
		return purchasing.MergeOverride
	default:
		return purchasing.MergeMax
	}
}
