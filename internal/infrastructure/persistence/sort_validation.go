package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"name":             true,
	"category":         true,
	"unit":             true,
	"current_quantity": true,
	"minimum_quantity": true,
	"unit_price":       true,
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"occurred_at": true,
	"type":        true,
	"quantity":    true,
}

// ProductionSortFields contains allowed sort fields for production runs
var ProductionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"recipe_name":      true,
	"status":           true,
	"scheduled_for":    true,
	"planned_quantity": true,
}

// PendingDeliverySortFields contains allowed sort fields for pending deliveries
var PendingDeliverySortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"stock_item_id":    true,
	"ordered_quantity": true,
	"resolved":         true,
	"resolved_at":      true,
}
