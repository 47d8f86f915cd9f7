package stock

import (
	"context"

	"go.uber.org/zap"

	"github.com/mise/backend/internal/domain/shared"
	"github.com/mise/backend/internal/domain/stock"
)

// StockAlertHandler reacts to below-minimum and integrity-fault events. By
// default it logs; a notifier can fan alerts out to other channels.
type StockAlertHandler struct {
	logger   *zap.Logger
	notifier AlertNotifier
}

// AlertNotifier is the interface for sending stock alerts.
// Implementations can support different channels (in-app, email, webhook).
type AlertNotifier interface {
	// SendAlert sends a stock alert notification
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert represents one stock-level alert
type StockAlert struct {
	StockItemID     string `json:"stock_item_id"`
	ItemName        string `json:"item_name"`
	AlertType       string `json:"alert_type"` // "below_minimum", "integrity_fault"
	CurrentQuantity string `json:"current_quantity"`
	MinimumQuantity string `json:"minimum_quantity,omitempty"`
	BatchTotal      string `json:"batch_total,omitempty"`
}

// NewStockAlertHandler creates a new alert handler
func NewStockAlertHandler(logger *zap.Logger) *StockAlertHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockAlertHandler{logger: logger}
}

// WithNotifier sets the notifier for sending alerts
func (h *StockAlertHandler) WithNotifier(notifier AlertNotifier) *StockAlertHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockAlertHandler) EventTypes() []string {
	return []string{stock.EventTypeStockBelowMinimum, stock.EventTypeLedgerIntegrityFault}
}

// Handle processes a domain event
func (h *StockAlertHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *stock.StockBelowMinimumEvent:
		return h.handleBelowMinimum(ctx, e)
	case *stock.LedgerIntegrityFaultEvent:
		return h.handleIntegrityFault(ctx, e)
	}
	return nil
}

func (h *StockAlertHandler) handleBelowMinimum(ctx context.Context, e *stock.StockBelowMinimumEvent) error {
	h.logger.Warn("stock below minimum",
		zap.String("item_id", e.StockItemID.String()),
		zap.String("item_name", e.ItemName),
		zap.String("current_quantity", e.CurrentQuantity.String()),
		zap.String("minimum_quantity", e.MinimumQuantity.String()))

	return h.notify(ctx, StockAlert{
		StockItemID:     e.StockItemID.String(),
		ItemName:        e.ItemName,
		AlertType:       "below_minimum",
		CurrentQuantity: e.CurrentQuantity.String(),
		MinimumQuantity: e.MinimumQuantity.String(),
	})
}

func (h *StockAlertHandler) handleIntegrityFault(ctx context.Context, e *stock.LedgerIntegrityFaultEvent) error {
	h.logger.Error("stock ledger integrity fault",
		zap.String("item_id", e.StockItemID.String()),
		zap.String("item_name", e.ItemName),
		zap.String("current_quantity", e.CurrentQuantity.String()),
		zap.String("batch_total", e.BatchTotal.String()),
		zap.String("divergence", e.Divergence.String()))

	return h.notify(ctx, StockAlert{
		StockItemID:     e.StockItemID.String(),
		ItemName:        e.ItemName,
		AlertType:       "integrity_fault",
		CurrentQuantity: e.CurrentQuantity.String(),
		BatchTotal:      e.BatchTotal.String(),
	})
}

func (h *StockAlertHandler) notify(ctx context.Context, alert StockAlert) error {
	if h.notifier == nil {
		return nil
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		h.logger.Error("failed to send stock alert",
			zap.String("item_id", alert.StockItemID),
			zap.String("alert_type", alert.AlertType),
			zap.Error(err))
	}
	return nil
}

var _ shared.EventHandler = (*StockAlertHandler)(nil)
