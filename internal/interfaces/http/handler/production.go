package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	productionapp "github.com/mise/backend/internal/application/production"
	"github.com/mise/backend/internal/domain/shared"
	"github.com/mise/backend/internal/interfaces/http/dto"
)

// ProductionHandler handles production run API endpoints
type ProductionHandler struct {
	BaseHandler
	runService *productionapp.RunService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(runService *productionapp.RunService) *ProductionHandler {
	return &ProductionHandler{
		runService: runService,
	}
}

// CreateRun schedules a planned production run
func (h *ProductionHandler) CreateRun(c *gin.Context) {
	var req productionapp.CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	run, err := h.runService.CreateRun(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, run)
}

// GetRun retrieves one run with its recipe snapshot
func (h *ProductionHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production run ID format")
		return
	}

	run, err := h.runService.GetRun(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, run)
}

// ListRuns lists runs with optional status filtering
func (h *ProductionHandler) ListRuns(c *gin.Context) {
	var q struct {
		dto.ListRequest
		Status string `form:"status" binding:"omitempty,oneof=PLANNED IN_PROGRESS PAUSED COMPLETED CANCELLED"`
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
	if q.Status != "" {
		filter.Filters["status"] = q.Status
	}

	runs, err := h.runService.ListRuns(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, runs)
}

// StartRun moves a run into progress
func (h *ProductionHandler) StartRun(c *gin.Context) {
	h.transition(c, h.runService.StartRun)
}

// CompleteRun finishes a run
func (h *ProductionHandler) CompleteRun(c *gin.Context) {
	h.transition(c, h.runService.CompleteRun)
}

// CancelRun abandons a run
func (h *ProductionHandler) CancelRun(c *gin.Context) {
	h.transition(c, h.runService.CancelRun)
}

// DeleteRun removes a run
func (h *ProductionHandler) DeleteRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production run ID format")
		return
	}

	if err := h.runService.DeleteRun(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ProjectDemand aggregates ingredient demand over a window
func (h *ProductionHandler) ProjectDemand(c *gin.Context) {
	from := time.Now()
	if raw := c.Query("from"); raw != "" {
		parsed, err := parseDateTime(raw)
		if err != nil {
			h.BadRequest(c, "Invalid from date format")
			return
		}
		from = parsed
	}
	to := from.AddDate(0, 0, 7)
	if raw := c.Query("to"); raw != "" {
		parsed, err := parseDateTime(raw)
		if err != nil {
			h.BadRequest(c, "Invalid to date format")
			return
		}
		to = parsed
	}

	demand, err := h.runService.ProjectDemand(c.Request.Context(), from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, demand)
}

func (h *ProductionHandler) transition(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) (*productionapp.RunResponse, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid production run ID format")
		return
	}

	run, err := apply(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, run)
}
