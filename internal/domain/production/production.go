package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductionStatus is the lifecycle state of a production run
type ProductionStatus string

const (
	StatusPlanned    ProductionStatus = "PLANNED"
	StatusInProgress ProductionStatus = "IN_PROGRESS"
	StatusPaused     ProductionStatus = "PAUSED"
	StatusCompleted  ProductionStatus = "COMPLETED"
	StatusCancelled  ProductionStatus = "CANCELLED"
)

// IsValid returns true if the status is a known value
func (s ProductionStatus) IsValid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusPaused, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s ProductionStatus) String() string {
	return string(s)
}

// GeneratesDemand reports whether runs in this status still count toward
// upcoming raw-material demand. Only planned runs do: a run that started has
// already drawn its ingredients from stock.
func (s ProductionStatus) GeneratesDemand() bool {
	return s == StatusPlanned
}

// Ingredient is one recipe line: a stock item and the quantity one recipe
// yield consumes of it.
type Ingredient struct {
	shared.BaseEntity
	ProductionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockItemID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (Ingredient) TableName() string {
	return "production_ingredients"
}

// Production is a scheduled production run. The recipe (yield plus
// ingredient lines) is snapshotted onto the run so later recipe edits do not
// rewrite history.
type Production struct {
	shared.AuditedAggregateRoot
	RecipeName      string           `gorm:"type:varchar(200);not null"`
	Status          ProductionStatus `gorm:"type:varchar(20);not null;index"`
	ScheduledFor    time.Time        `gorm:"type:date;not null;index"`
	PlannedQuantity decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	RecipeYield     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`

	// Associations - loaded with the aggregate
	Ingredients []Ingredient `gorm:"foreignKey:ProductionID;references:ID"`
}

// TableName returns the table name for GORM
func (Production) TableName() string {
	return "productions"
}

// NewProduction creates a planned production run with a recipe snapshot
func NewProduction(recipeName string, scheduledFor time.Time, plannedQuantity, recipeYield decimal.Decimal) (*Production, error) {
	if recipeName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Recipe name cannot be empty")
	}
	if plannedQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Planned quantity must be positive")
	}
	if recipeYield.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_RECIPE_YIELD", "Recipe yield must be positive")
	}

	return &Production{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		RecipeName:           recipeName,
		Status:               StatusPlanned,
		ScheduledFor:         startOfDay(scheduledFor),
		PlannedQuantity:      plannedQuantity,
		RecipeYield:          recipeYield,
		Ingredients:          make([]Ingredient, 0),
	}, nil
}

// AddIngredient appends a recipe line to the snapshot
func (p *Production) AddIngredient(stockItemID uuid.UUID, quantity decimal.Decimal) error {
	if stockItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Ingredient stock item ID is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Ingredient quantity must be positive")
	}
	p.Ingredients = append(p.Ingredients, Ingredient{
		BaseEntity:   shared.NewBaseEntity(),
		ProductionID: p.ID,
		StockItemID:  stockItemID,
		Quantity:     quantity,
	})
	return nil
}

// Multiplier is how many recipe yields the run produces
// (planned quantity / recipe yield).
func (p *Production) Multiplier() (decimal.Decimal, error) {
	if p.RecipeYield.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_RECIPE_YIELD", "Recipe yield must be positive")
	}
	return p.PlannedQuantity.Div(p.RecipeYield), nil
}

// transition applies a status change after checking the allowed moves
func (p *Production) transition(target ProductionStatus, allowed ...ProductionStatus) error {
	for _, from := range allowed {
		if p.Status == from {
			p.Status = target
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrInvalidState
}

// Start moves the run into progress
func (p *Production) Start() error {
	return p.transition(StatusInProgress, StatusPlanned, StatusPaused)
}

// Pause suspends a running production
func (p *Production) Pause() error {
	return p.transition(StatusPaused, StatusInProgress)
}

// Complete finishes the run; it stops generating demand
func (p *Production) Complete() error {
	return p.transition(StatusCompleted, StatusInProgress)
}

// Cancel abandons the run from any non-terminal state
func (p *Production) Cancel() error {
	return p.transition(StatusCancelled, StatusPlanned, StatusInProgress, StatusPaused)
}
