package production

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mise/backend/internal/domain/production"
	"github.com/mise/backend/internal/domain/shared"
)

// memRunRepo is an in-memory ProductionRepository
type memRunRepo struct {
	runs map[uuid.UUID]*production.Production
}

func newMemRunRepo() *memRunRepo {
	return &memRunRepo{runs: make(map[uuid.UUID]*production.Production)}
}

func (r *memRunRepo) FindByID(_ context.Context, id uuid.UUID) (*production.Production, error) {
	run, ok := r.runs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return run, nil
}

func (r *memRunRepo) FindScheduledBetween(_ context.Context, from, to time.Time) ([]production.Production, error) {
	result := make([]production.Production, 0)
	for _, run := range r.runs {
		if !run.ScheduledFor.Before(from) && !run.ScheduledFor.After(to) {
			result = append(result, *run)
		}
	}
	return result, nil
}

func (r *memRunRepo) FindPlannedBetween(ctx context.Context, from, to time.Time) ([]production.Production, error) {
	all, _ := r.FindScheduledBetween(ctx, from, to)
	result := make([]production.Production, 0)
	for _, run := range all {
		if run.Status == production.StatusPlanned {
			result = append(result, run)
		}
	}
	return result, nil
}

func (r *memRunRepo) FindAll(_ context.Context, _ shared.Filter) ([]production.Production, error) {
	result := make([]production.Production, 0, len(r.runs))
	for _, run := range r.runs {
		result = append(result, *run)
	}
	return result, nil
}

func (r *memRunRepo) Save(_ context.Context, run *production.Production) error {
	r.runs[run.ID] = run
	return nil
}

func (r *memRunRepo) SaveWithLock(_ context.Context, run *production.Production) error {
	if _, ok := r.runs[run.ID]; !ok {
		return shared.ErrNotFound
	}
	r.runs[run.ID] = run
	return nil
}

func (r *memRunRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.runs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.runs, id)
	return nil
}

func newTestRunService() (*RunService, *memRunRepo) {
	repo := newMemRunRepo()
	return NewRunService(repo, nil), repo
}

func validCreateRequest() *CreateRunRequest {
	return &CreateRunRequest{
		RecipeName:      "Sourdough",
		ScheduledFor:    time.Now().AddDate(0, 0, 2),
		PlannedQuantity: "40",
		RecipeYield:     "20",
		Ingredients: []IngredientRequest{
			{StockItemID: uuid.New(), Quantity: "10"},
			{StockItemID: uuid.New(), Quantity: "0.5"},
		},
	}
}

func TestRunService_CreateRun(t *testing.T) {
	t.Run("schedules a planned run with its recipe snapshot", func(t *testing.T) {
		svc, repo := newTestRunService()

		resp, err := svc.CreateRun(context.Background(), validCreateRequest())
		require.NoError(t, err)

		assert.Equal(t, "Sourdough", resp.RecipeName)
		assert.Equal(t, production.StatusPlanned.String(), resp.Status)
		assert.Len(t, resp.Ingredients, 2)
		assert.Len(t, repo.runs, 1)
	})

	t.Run("rejects non-decimal planned quantity", func(t *testing.T) {
		svc, _ := newTestRunService()
		req := validCreateRequest()
		req.PlannedQuantity = "a lot"

		_, err := svc.CreateRun(context.Background(), req)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("rejects zero recipe yield", func(t *testing.T) {
		svc, _ := newTestRunService()
		req := validCreateRequest()
		req.RecipeYield = "0"

		_, err := svc.CreateRun(context.Background(), req)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_RECIPE_YIELD", domainErr.Code)
	})
}

func TestRunService_Transitions(t *testing.T) {
	svc, _ := newTestRunService()
	created, err := svc.CreateRun(context.Background(), validCreateRequest())
	require.NoError(t, err)

	t.Run("start moves a planned run into progress", func(t *testing.T) {
		resp, err := svc.StartRun(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, production.StatusInProgress.String(), resp.Status)
	})

	t.Run("complete finishes an in-progress run", func(t *testing.T) {
		resp, err := svc.CompleteRun(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, production.StatusCompleted.String(), resp.Status)
	})

	t.Run("cancel is rejected on a completed run", func(t *testing.T) {
		_, err := svc.CancelRun(context.Background(), created.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("unknown run yields not found", func(t *testing.T) {
		_, err := svc.StartRun(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestRunService_ProjectDemand(t *testing.T) {
	svc, _ := newTestRunService()

	flour := uuid.New()
	scheduled := time.Now().AddDate(0, 0, 3)

	_, err := svc.CreateRun(context.Background(), &CreateRunRequest{
		RecipeName:      "Baguette",
		ScheduledFor:    scheduled,
		PlannedQuantity: "30",
		RecipeYield:     "10",
		Ingredients:     []IngredientRequest{{StockItemID: flour, Quantity: "2"}},
	})
	require.NoError(t, err)

	t.Run("scales ingredient demand by the run multiplier", func(t *testing.T) {
		resp, err := svc.ProjectDemand(context.Background(), time.Now(), time.Now().AddDate(0, 0, 7))
		require.NoError(t, err)

		need, ok := resp.Need[flour]
		require.True(t, ok)
		assert.True(t, need.Quantity.Equal(decimal.NewFromInt(6)), "got %s", need.Quantity)
	})

	t.Run("runs outside the window are ignored", func(t *testing.T) {
		resp, err := svc.ProjectDemand(context.Background(), time.Now().AddDate(0, 1, 0), time.Now().AddDate(0, 2, 0))
		require.NoError(t, err)
		assert.Empty(t, resp.Need)
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		_, err := svc.ProjectDemand(context.Background(), time.Now().AddDate(0, 0, 7), time.Now())
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_WINDOW", domainErr.Code)
	})
}

func TestRunService_DeleteRun(t *testing.T) {
	svc, repo := newTestRunService()
	created, err := svc.CreateRun(context.Background(), validCreateRequest())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRun(context.Background(), created.ID))
	assert.Empty(t, repo.runs)

	assert.ErrorIs(t, svc.DeleteRun(context.Background(), created.ID), shared.ErrNotFound)
}
