package handler

import (
	"context"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mise/backend/internal/domain/production"
	"github.com/mise/backend/internal/domain/purchasing"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/mise/backend/internal/domain/stock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeStockRepo is an in-memory StockItemRepository for handler tests. Its
// SaveWithLock enforces the one-step version guard of the gorm repository.
type fakeStockRepo struct {
	items    map[uuid.UUID]*stock.StockItem
	versions map[uuid.UUID]int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		items:    make(map[uuid.UUID]*stock.StockItem),
		versions: make(map[uuid.UUID]int),
	}
}

func (r *fakeStockRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.StockItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return item, nil
}

func (r *fakeStockRepo) FindByName(_ context.Context, name string) (*stock.StockItem, error) {
	for _, item := range r.items {
		if item.Name == name {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStockRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]stock.StockItem, error) {
	result := make([]stock.StockItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeStockRepo) FindAll(_ context.Context, _ shared.Filter) ([]stock.StockItem, error) {
	result := make([]stock.StockItem, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *fakeStockRepo) FindByCategory(_ context.Context, category stock.ItemCategory, _ shared.Filter) ([]stock.StockItem, error) {
	result := make([]stock.StockItem, 0)
	for _, item := range r.items {
		if item.Category == category {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeStockRepo) FindBelowMinimum(_ context.Context) ([]stock.StockItem, error) {
	result := make([]stock.StockItem, 0)
	for _, item := range r.items {
		if item.IsBelowMinimum() {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeStockRepo) Save(_ context.Context, item *stock.StockItem) error {
	r.items[item.ID] = item
	r.versions[item.ID] = item.Version
	return nil
}

func (r *fakeStockRepo) SaveWithLock(_ context.Context, item *stock.StockItem) error {
	stored, ok := r.versions[item.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if item.Version != stored+1 {
		return shared.ErrConcurrencyConflict
	}
	r.items[item.ID] = item
	r.versions[item.ID] = item.Version
	return nil
}

func (r *fakeStockRepo) DeleteBatches(_ context.Context, _ []uuid.UUID) error { return nil }

func (r *fakeStockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *fakeStockRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

// fakeMovementRepo is an in-memory append-only MovementRepository
type fakeMovementRepo struct {
	movements []stock.Movement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{movements: make([]stock.Movement, 0)}
}

func (r *fakeMovementRepo) Save(_ context.Context, movement *stock.Movement) error {
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *fakeMovementRepo) FindByItem(_ context.Context, itemID uuid.UUID, _ shared.Filter) ([]stock.Movement, error) {
	result := make([]stock.Movement, 0)
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].StockItemID == itemID {
			result = append(result, r.movements[i])
		}
	}
	return result, nil
}

func (r *fakeMovementRepo) FindByItemAndPeriod(_ context.Context, itemID uuid.UUID, from, to time.Time) ([]stock.Movement, error) {
	result := make([]stock.Movement, 0)
	for _, m := range r.movements {
		if m.StockItemID == itemID && !m.OccurredAt.Before(from) && !m.OccurredAt.After(to) {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeMovementRepo) FindByReference(_ context.Context, reference string) ([]stock.Movement, error) {
	result := make([]stock.Movement, 0)
	for _, m := range r.movements {
		if m.Reference == reference {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeMovementRepo) CountByItem(_ context.Context, itemID uuid.UUID) (int64, error) {
	var n int64
	for _, m := range r.movements {
		if m.StockItemID == itemID {
			n++
		}
	}
	return n, nil
}

// fakePendingRepo is an in-memory PendingDeliveryRepository
type fakePendingRepo struct {
	deliveries map[uuid.UUID]*purchasing.PendingDelivery
	versions   map[uuid.UUID]int
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{
		deliveries: make(map[uuid.UUID]*purchasing.PendingDelivery),
		versions:   make(map[uuid.UUID]int),
	}
}

func (r *fakePendingRepo) FindByID(_ context.Context, id uuid.UUID) (*purchasing.PendingDelivery, error) {
	pd, ok := r.deliveries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return pd, nil
}

func (r *fakePendingRepo) FindOpen(_ context.Context) ([]purchasing.PendingDelivery, error) {
	result := make([]purchasing.PendingDelivery, 0)
	for _, pd := range r.deliveries {
		if !pd.Resolved {
			result = append(result, *pd)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *fakePendingRepo) FindOpenByItem(ctx context.Context, itemID uuid.UUID) ([]purchasing.PendingDelivery, error) {
	open, _ := r.FindOpen(ctx)
	result := make([]purchasing.PendingDelivery, 0)
	for _, pd := range open {
		if pd.StockItemID == itemID {
			result = append(result, pd)
		}
	}
	return result, nil
}

func (r *fakePendingRepo) FindAll(_ context.Context, _ shared.Filter) ([]purchasing.PendingDelivery, error) {
	result := make([]purchasing.PendingDelivery, 0, len(r.deliveries))
	for _, pd := range r.deliveries {
		result = append(result, *pd)
	}
	return result, nil
}

func (r *fakePendingRepo) Save(_ context.Context, pd *purchasing.PendingDelivery) error {
	r.deliveries[pd.ID] = pd
	r.versions[pd.ID] = pd.Version
	return nil
}

func (r *fakePendingRepo) SaveWithLock(_ context.Context, pd *purchasing.PendingDelivery) error {
	stored, ok := r.versions[pd.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if pd.Version != stored+1 {
		return shared.ErrConcurrencyConflict
	}
	r.deliveries[pd.ID] = pd
	r.versions[pd.ID] = pd.Version
	return nil
}

// fakeManualRepo is an in-memory ManualEntryRepository
type fakeManualRepo struct {
	entries map[uuid.UUID]*purchasing.ManualEntry
}

func newFakeManualRepo() *fakeManualRepo {
	return &fakeManualRepo{entries: make(map[uuid.UUID]*purchasing.ManualEntry)}
}

func (r *fakeManualRepo) FindByID(_ context.Context, id uuid.UUID) (*purchasing.ManualEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return e, nil
}

func (r *fakeManualRepo) FindByItem(_ context.Context, itemID uuid.UUID) (*purchasing.ManualEntry, error) {
	for _, e := range r.entries {
		if e.StockItemID == itemID {
			return e, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeManualRepo) FindAll(_ context.Context) ([]purchasing.ManualEntry, error) {
	result := make([]purchasing.ManualEntry, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, *e)
	}
	return result, nil
}

func (r *fakeManualRepo) Save(_ context.Context, e *purchasing.ManualEntry) error {
	r.entries[e.ID] = e
	return nil
}

func (r *fakeManualRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.entries[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *fakeManualRepo) DeleteByItem(_ context.Context, itemID uuid.UUID) error {
	for id, e := range r.entries {
		if e.StockItemID == itemID {
			delete(r.entries, id)
		}
	}
	return nil
}

// fakeRunRepo is an in-memory ProductionRepository
type fakeRunRepo struct {
	runs     map[uuid.UUID]*production.Production
	versions map[uuid.UUID]int
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{
		runs:     make(map[uuid.UUID]*production.Production),
		versions: make(map[uuid.UUID]int),
	}
}

func (r *fakeRunRepo) FindByID(_ context.Context, id uuid.UUID) (*production.Production, error) {
	run, ok := r.runs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return run, nil
}

func (r *fakeRunRepo) FindScheduledBetween(_ context.Context, from, to time.Time) ([]production.Production, error) {
	result := make([]production.Production, 0)
	for _, run := range r.runs {
		if !run.ScheduledFor.Before(from) && !run.ScheduledFor.After(to) {
			result = append(result, *run)
		}
	}
	return result, nil
}

func (r *fakeRunRepo) FindPlannedBetween(ctx context.Context, from, to time.Time) ([]production.Production, error) {
	all, _ := r.FindScheduledBetween(ctx, from, to)
	result := make([]production.Production, 0)
	for _, run := range all {
		if run.Status == production.StatusPlanned {
			result = append(result, run)
		}
	}
	return result, nil
}

func (r *fakeRunRepo) FindAll(_ context.Context, _ shared.Filter) ([]production.Production, error) {
	result := make([]production.Production, 0, len(r.runs))
	for _, run := range r.runs {
		result = append(result, *run)
	}
	return result, nil
}

func (r *fakeRunRepo) Save(_ context.Context, run *production.Production) error {
	r.runs[run.ID] = run
	r.versions[run.ID] = run.Version
	return nil
}

func (r *fakeRunRepo) SaveWithLock(_ context.Context, run *production.Production) error {
	stored, ok := r.versions[run.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if run.Version != stored+1 {
		return shared.ErrConcurrencyConflict
	}
	r.runs[run.ID] = run
	r.versions[run.ID] = run.Version
	return nil
}

func (r *fakeRunRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.runs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.runs, id)
	return nil
}

// fakeScheduleRepo is an in-memory ScheduleRepository
type fakeScheduleRepo struct {
	weekdays []time.Weekday
}

func (r *fakeScheduleRepo) FindEnabledWeekdays(_ context.Context) ([]time.Weekday, error) {
	return r.weekdays, nil
}

func (r *fakeScheduleRepo) ReplaceWeekdays(_ context.Context, weekdays []time.Weekday) error {
	r.weekdays = weekdays
	return nil
}
