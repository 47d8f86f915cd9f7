package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mise/backend/internal/domain/production"
)

// IngredientRequest is one recipe line of a run
type IngredientRequest struct {
	StockItemID uuid.UUID `json:"stock_item_id" binding:"required"`
	Quantity    string    `json:"quantity" binding:"required"`
}

// CreateRunRequest schedules a production run with its recipe snapshot
type CreateRunRequest struct {
	RecipeName      string              `json:"recipe_name" binding:"required"`
	ScheduledFor    time.Time           `json:"scheduled_for" binding:"required"`
	PlannedQuantity string              `json:"planned_quantity" binding:"required"`
	RecipeYield     string              `json:"recipe_yield" binding:"required"`
	Ingredients     []IngredientRequest `json:"ingredients" binding:"required,min=1,dive"`
}

// IngredientResponse is one recipe line in API responses
type IngredientResponse struct {
	StockItemID uuid.UUID       `json:"stock_item_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// RunResponse is the API view of a production run
type RunResponse struct {
	ID              uuid.UUID            `json:"id"`
	RecipeName      string               `json:"recipe_name"`
	Status          string               `json:"status"`
	ScheduledFor    time.Time            `json:"scheduled_for"`
	PlannedQuantity decimal.Decimal      `json:"planned_quantity"`
	RecipeYield     decimal.Decimal      `json:"recipe_yield"`
	Ingredients     []IngredientResponse `json:"ingredients,omitempty"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// DemandResponse maps stock items to required quantities over a window
type DemandResponse struct {
	From time.Time                  `json:"from"`
	To   time.Time                  `json:"to"`
	Need map[uuid.UUID]NeedResponse `json:"need"`
}

// NeedResponse is the projected requirement of one item
type NeedResponse struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// ToRunResponse converts a production run to its API view
func ToRunResponse(run *production.Production, withIngredients bool) *RunResponse {
	resp := &RunResponse{
		ID:              run.ID,
		RecipeName:      run.RecipeName,
		Status:          run.Status.String(),
		ScheduledFor:    run.ScheduledFor,
		PlannedQuantity: run.PlannedQuantity,
		RecipeYield:     run.RecipeYield,
		UpdatedAt:       run.UpdatedAt,
	}
	if withIngredients {
		resp.Ingredients = make([]IngredientResponse, 0, len(run.Ingredients))
		for _, ing := range run.Ingredients {
			resp.Ingredients = append(resp.Ingredients, IngredientResponse{
				StockItemID: ing.StockItemID,
				Quantity:    ing.Quantity,
			})
		}
	}
	return resp
}
