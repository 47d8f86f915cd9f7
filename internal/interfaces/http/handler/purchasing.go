package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	purchasingapp "github.com/mise/backend/internal/application/purchasing"
	"github.com/mise/backend/internal/infrastructure/config"
)

// PurchasingHandler handles purchase planning API endpoints
type PurchasingHandler struct {
	BaseHandler
	planningService *purchasingapp.PlanningService
	defaults        config.PurchasingConfig
}

// NewPurchasingHandler creates a new PurchasingHandler
func NewPurchasingHandler(planningService *purchasingapp.PlanningService, defaults config.PurchasingConfig) *PurchasingHandler {
	return &PurchasingHandler{
		planningService: planningService,
		defaults:        defaults,
	}
}

// ComputePurchaseList computes the ranked purchase list for a window
func (h *PurchasingHandler) ComputePurchaseList(c *gin.Context) {
	var req purchasingapp.ComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// An empty window means "the usual horizon": today through the
	// configured number of days ahead.
	if req.From.IsZero() && req.To.IsZero() {
		now := time.Now()
		req.From = now
		req.To = now.AddDate(0, 0, h.defaults.DefaultWindowDays)
	}
	if req.MergePolicy == "" {
		req.MergePolicy = h.defaults.DefaultMergePolicy
	}

	list, err := h.planningService.ComputePurchaseList(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, list)
}

// MarkOrdered records that a quantity was ordered for an item
func (h *PurchasingHandler) MarkOrdered(c *gin.Context) {
	var req purchasingapp.MarkOrderedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pending, err := h.planningService.MarkOrdered(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, pending)
}

// ListPending lists all unresolved deliveries
func (h *PurchasingHandler) ListPending(c *gin.Context) {
	pending, err := h.planningService.ListPending(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, pending)
}

// CancelPending resolves an open order without a receipt
func (h *PurchasingHandler) CancelPending(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid pending delivery ID format")
		return
	}

	if err := h.planningService.CancelPending(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AddManualEntry puts an item on the shopping list
func (h *PurchasingHandler) AddManualEntry(c *gin.Context) {
	var req purchasingapp.ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.planningService.AddManualEntry(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, entry)
}

// ListManual lists the whole shopping list
func (h *PurchasingHandler) ListManual(c *gin.Context) {
	entries, err := h.planningService.ListManual(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entries)
}

// RemoveManualEntry takes an item off the shopping list
func (h *PurchasingHandler) RemoveManualEntry(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid stock item ID format")
		return
	}

	if err := h.planningService.RemoveManualEntry(c.Request.Context(), itemID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// GetSchedule returns the configured purchasing cadence
func (h *PurchasingHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.planningService.GetSchedule(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, schedule)
}

// UpdateSchedule replaces the purchasing weekdays
func (h *PurchasingHandler) UpdateSchedule(c *gin.Context) {
	var req purchasingapp.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	schedule, err := h.planningService.UpdateSchedule(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, schedule)
}

// NextPurchaseDay returns the soonest configured purchase day on or after from
func (h *PurchasingHandler) NextPurchaseDay(c *gin.Context) {
	from := time.Now()
	if raw := c.Query("from"); raw != "" {
		parsed, err := parseDateTime(raw)
		if err != nil {
			h.BadRequest(c, "Invalid from date format")
			return
		}
		from = parsed
	}

	next, err := h.planningService.NextPurchaseDay(c.Request.Context(), from)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"next_purchase_day": next.Format("2006-01-02")})
}
