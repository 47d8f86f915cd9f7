package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockapp "github.com/mise/backend/internal/application/stock"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/mise/backend/internal/interfaces/http/dto"
)

// parseDateTime parses a datetime string in the formats clients actually send
func parseDateTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	movementService *stockapp.MovementService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(movementService *stockapp.MovementService) *StockHandler {
	return &StockHandler{
		movementService: movementService,
	}
}

// StockListFilter is the query surface of the item listing
type StockListFilter struct {
	dto.ListRequest
	Category     string `form:"category"`
	SupplierID   string `form:"supplier_id" binding:"omitempty,uuid"`
	BelowMinimum bool   `form:"below_minimum"`
}

// CreateItem registers a new stock item
func (h *StockHandler) CreateItem(c *gin.Context) {
	var req stockapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.movementService.CreateItem(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, item)
}

// GetItem retrieves one stock item with its batch partition
func (h *StockHandler) GetItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	item, err := h.movementService.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// ListItems lists stock items with optional filtering
func (h *StockHandler) ListItems(c *gin.Context) {
	var q StockListFilter
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}

	filter := shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
		Filters:  map[string]interface{}{},
	}
	if q.Category != "" {
		filter.Filters["category"] = q.Category
	}
	if q.SupplierID != "" {
		filter.Filters["supplier_id"] = q.SupplierID
	}
	if q.BelowMinimum {
		filter.Filters["below_minimum"] = true
	}

	items, err := h.movementService.ListItems(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// ListBelowMinimum lists items at or under their reorder threshold
func (h *StockHandler) ListBelowMinimum(c *gin.Context) {
	items, err := h.movementService.ListBelowMinimum(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// UpdateThresholds updates the minimum quantity and unit price of an item
func (h *StockHandler) UpdateThresholds(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	var req stockapp.UpdateThresholdsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.movementService.UpdateThresholds(c.Request.Context(), itemID, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// RecordMovement applies an entry, exit or adjustment to the ledger
func (h *StockHandler) RecordMovement(c *gin.Context) {
	var req stockapp.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.RecordedBy = getOperatorID(c)

	movement, err := h.movementService.RecordMovement(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, movement)
}

// AddBatch records an entry that lands in a dated batch of the item
func (h *StockHandler) AddBatch(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	var body struct {
		Quantity   string    `json:"quantity" binding:"required"`
		ExpiryDate time.Time `json:"expiry_date" binding:"required"`
		Lot        string    `json:"lot,omitempty"`
		Reason     string    `json:"reason,omitempty"`
		Reference  string    `json:"reference,omitempty"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	req := stockapp.RecordMovementRequest{
		StockItemID: itemID,
		Type:        "ENTRY",
		Quantity:    body.Quantity,
		Batch:       &stockapp.BatchRequest{ExpiryDate: body.ExpiryDate, Lot: body.Lot},
		Reason:      body.Reason,
		Reference:   body.Reference,
		RecordedBy:  getOperatorID(c),
	}

	movement, err := h.movementService.RecordMovement(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, movement)
}

// ListBatches lists an item's batches, expiry ascending
func (h *StockHandler) ListBatches(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	batches, err := h.movementService.ListBatches(c.Request.Context(), itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, batches)
}

// ListMovements lists the movement log for an item, newest first
func (h *StockHandler) ListMovements(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	var q struct {
		dto.ListRequest
		Type string `form:"type" binding:"omitempty,oneof=ENTRY EXIT ADJUSTMENT"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}

	filter := shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Filters:  map[string]interface{}{},
	}
	if q.Type != "" {
		filter.Filters["type"] = q.Type
	}

	movements, err := h.movementService.ListMovements(c.Request.Context(), itemID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, movements)
}

// SuggestDeductions plans a FIFO exit for the requested quantity
func (h *StockHandler) SuggestDeductions(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	quantity := c.Query("quantity")
	if quantity == "" {
		h.BadRequest(c, "quantity is required")
		return
	}

	plan, err := h.movementService.SuggestDeductions(c.Request.Context(), itemID, quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, plan)
}
