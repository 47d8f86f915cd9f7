package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mise/backend/internal/domain/production"
	"github.com/mise/backend/internal/domain/shared"
)

// RunService schedules production runs and projects the raw-material demand
// they generate. Runs snapshot their recipe so the demand math stays stable
// under later recipe edits.
type RunService struct {
	repo      production.ProductionRepository
	projector *production.DemandProjector
	logger    *zap.Logger
}

// NewRunService creates a new RunService
func NewRunService(repo production.ProductionRepository, logger *zap.Logger) *RunService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunService{
		repo:      repo,
		projector: production.NewDemandProjector(),
		logger:    logger,
	}
}

// CreateRun schedules a planned production run
func (s *RunService) CreateRun(ctx context.Context, req *CreateRunRequest) (*RunResponse, error) {
	planned, err := parseQuantity(req.PlannedQuantity)
	if err != nil {
		return nil, err
	}
	yield, err := parseQuantity(req.RecipeYield)
	if err != nil {
		return nil, err
	}

	run, err := production.NewProduction(req.RecipeName, req.ScheduledFor, planned, yield)
	if err != nil {
		return nil, err
	}
	for _, ing := range req.Ingredients {
		qty, err := parseQuantity(ing.Quantity)
		if err != nil {
			return nil, err
		}
		if err := run.AddIngredient(ing.StockItemID, qty); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, run); err != nil {
		return nil, err
	}
	s.logger.Info("production run scheduled",
		zap.String("run_id", run.ID.String()),
		zap.String("recipe", run.RecipeName),
		zap.Time("scheduled_for", run.ScheduledFor))
	return ToRunResponse(run, true), nil
}

// GetRun returns one run with its recipe snapshot
func (s *RunService) GetRun(ctx context.Context, id uuid.UUID) (*RunResponse, error) {
	run, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToRunResponse(run, true), nil
}

// ListRuns returns runs matching the filter
func (s *RunService) ListRuns(ctx context.Context, filter shared.Filter) ([]RunResponse, error) {
	runs, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]RunResponse, 0, len(runs))
	for i := range runs {
		responses = append(responses, *ToRunResponse(&runs[i], false))
	}
	return responses, nil
}

// StartRun moves a run into progress
func (s *RunService) StartRun(ctx context.Context, id uuid.UUID) (*RunResponse, error) {
	return s.applyTransition(ctx, id, (*production.Production).Start)
}

// CompleteRun finishes a run; it stops generating demand
func (s *RunService) CompleteRun(ctx context.Context, id uuid.UUID) (*RunResponse, error) {
	return s.applyTransition(ctx, id, (*production.Production).Complete)
}

// CancelRun abandons a run
func (s *RunService) CancelRun(ctx context.Context, id uuid.UUID) (*RunResponse, error) {
	return s.applyTransition(ctx, id, (*production.Production).Cancel)
}

// DeleteRun removes a run and its ingredient snapshot
func (s *RunService) DeleteRun(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ProjectDemand aggregates ingredient demand across the planned runs in the window
func (s *RunService) ProjectDemand(ctx context.Context, from, to time.Time) (*DemandResponse, error) {
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_WINDOW", "Window end precedes its start")
	}
	runs, err := s.repo.FindPlannedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	need, err := s.projector.Project(runs, production.DemandWindow{From: from, To: to})
	if err != nil {
		return nil, err
	}

	resp := &DemandResponse{
		From: from,
		To:   to,
		Need: make(map[uuid.UUID]NeedResponse, len(need)),
	}
	for itemID, qty := range need {
		resp.Need[itemID] = NeedResponse{Quantity: qty}
	}
	return resp, nil
}

func (s *RunService) applyTransition(ctx context.Context, id uuid.UUID, transition func(*production.Production) error) (*RunResponse, error) {
	run, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := transition(run); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, run); err != nil {
		return nil, err
	}
	return ToRunResponse(run, false), nil
}

// parseQuantity parses a decimal quantity from its string form
func parseQuantity(raw string) (decimal.Decimal, error) {
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity is not a valid decimal")
	}
	return qty, nil
}
