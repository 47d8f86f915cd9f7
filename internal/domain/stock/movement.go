package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType is the kind of stock movement
type MovementType string

const (
	MovementEntry      MovementType = "ENTRY"
	MovementExit       MovementType = "EXIT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// IsValid returns true if the movement type is a known value
func (t MovementType) IsValid() bool {
	switch t {
	case MovementEntry, MovementExit, MovementAdjustment:
		return true
	}
	return false
}

// String returns the string representation
func (t MovementType) String() string {
	return string(t)
}

// Movement is one line of the append-only stock ledger. Movements are never
// updated or deleted; corrections happen through compensating movements.
type Movement struct {
	shared.BaseEntity
	StockItemID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_movements_item_time"`
	Type          MovementType    `gorm:"type:varchar(20);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason        string          `gorm:"type:varchar(200)"`
	Reference     string          `gorm:"type:varchar(100);index"`
	OccurredAt    time.Time       `gorm:"not null;index:idx_movements_item_time"`
	RecordedBy    *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "stock_movements"
}

// NewMovement records one ledger line. The balance pair is captured from the
// aggregate around the mutation so the log replays to the current quantity.
func NewMovement(itemID uuid.UUID, movementType MovementType, quantity, before, after decimal.Decimal, reason, reference string) (*Movement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be negative")
	}

	return &Movement{
		BaseEntity:    shared.NewBaseEntity(),
		StockItemID:   itemID,
		Type:          movementType,
		Quantity:      quantity,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reason:        reason,
		Reference:     reference,
		OccurredAt:    time.Now(),
	}, nil
}

// SetRecordedBy attaches the acting user for audit
func (m *Movement) SetRecordedBy(userID uuid.UUID) {
	m.RecordedBy = &userID
}
