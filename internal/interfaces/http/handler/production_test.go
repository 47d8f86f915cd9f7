package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productionapp "github.com/mise/backend/internal/application/production"
	"github.com/mise/backend/internal/interfaces/http/dto"
)

type productionTestEnv struct {
	engine  *gin.Engine
	runRepo *fakeRunRepo
}

func newProductionTestEnv(t *testing.T) *productionTestEnv {
	t.Helper()

	runRepo := newFakeRunRepo()
	h := NewProductionHandler(productionapp.NewRunService(runRepo, nil))

	engine := gin.New()
	api := engine.Group("/api/v1")
	group := api.Group("/production")
	group.POST("/runs", h.CreateRun)
	group.GET("/runs", h.ListRuns)
	group.GET("/runs/:id", h.GetRun)
	group.POST("/runs/:id/start", h.StartRun)
	group.POST("/runs/:id/complete", h.CompleteRun)
	group.POST("/runs/:id/cancel", h.CancelRun)
	group.DELETE("/runs/:id", h.DeleteRun)
	group.GET("/demand", h.ProjectDemand)

	return &productionTestEnv{engine: engine, runRepo: runRepo}
}

func (e *productionTestEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var resp dto.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (e *productionTestEnv) createRun(t *testing.T, recipe string, scheduledFor time.Time, itemID uuid.UUID) map[string]interface{} {
	t.Helper()

	w, resp := e.do(t, http.MethodPost, "/api/v1/production/runs", gin.H{
		"recipe_name":      recipe,
		"scheduled_for":    scheduledFor.Format(time.RFC3339),
		"planned_quantity": "30",
		"recipe_yield":     "10",
		"ingredients": []gin.H{
			{"stock_item_id": itemID.String(), "quantity": "2"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return resp.Data.(map[string]interface{})
}

func TestProductionHandler_CreateRun(t *testing.T) {
	env := newProductionTestEnv(t)
	itemID := uuid.New()

	t.Run("schedules a run with its recipe snapshot", func(t *testing.T) {
		data := env.createRun(t, "Tomato Sauce", time.Now().AddDate(0, 0, 2), itemID)
		assert.Equal(t, "Tomato Sauce", data["recipe_name"])
		assert.Equal(t, "PLANNED", data["status"])
		assert.Len(t, data["ingredients"], 1)
	})

	t.Run("zero recipe yield is rejected", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/api/v1/production/runs", gin.H{
			"recipe_name":      "Broth",
			"scheduled_for":    time.Now().Format(time.RFC3339),
			"planned_quantity": "5",
			"recipe_yield":     "0",
			"ingredients":      []gin.H{{"stock_item_id": itemID.String(), "quantity": "1"}},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidRecipeYield, resp.Error.Code)
	})

	t.Run("missing ingredients fail binding", func(t *testing.T) {
		w, _ := env.do(t, http.MethodPost, "/api/v1/production/runs", gin.H{
			"recipe_name":      "Broth",
			"scheduled_for":    time.Now().Format(time.RFC3339),
			"planned_quantity": "5",
			"recipe_yield":     "5",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProductionHandler_Transitions(t *testing.T) {
	env := newProductionTestEnv(t)
	itemID := uuid.New()
	run := env.createRun(t, "Stock Reduction", time.Now().AddDate(0, 0, 1), itemID)
	id := run["id"].(string)

	t.Run("start then complete", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/api/v1/production/runs/"+id+"/start", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "IN_PROGRESS", resp.Data.(map[string]interface{})["status"])

		w, resp = env.do(t, http.MethodPost, "/api/v1/production/runs/"+id+"/complete", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "COMPLETED", resp.Data.(map[string]interface{})["status"])
	})

	t.Run("cancel after completion is rejected", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/api/v1/production/runs/"+id+"/cancel", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
	})

	t.Run("unknown run is 404", func(t *testing.T) {
		w, _ := env.do(t, http.MethodPost, "/api/v1/production/runs/"+uuid.NewString()+"/start", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete removes the run", func(t *testing.T) {
		other := env.createRun(t, "PrepBatch", time.Now().AddDate(0, 0, 3), itemID)
		w, _ := env.do(t, http.MethodDelete, "/api/v1/production/runs/"+other["id"].(string), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w, _ = env.do(t, http.MethodGet, "/api/v1/production/runs/"+other["id"].(string), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductionHandler_ProjectDemand(t *testing.T) {
	env := newProductionTestEnv(t)
	itemID := uuid.New()
	env.createRun(t, "Tomato Sauce", time.Now().AddDate(0, 0, 2), itemID)

	t.Run("planned run inside the window contributes demand", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/api/v1/production/demand", nil)
		require.Equal(t, http.StatusOK, w.Code)

		need := resp.Data.(map[string]interface{})["need"].(map[string]interface{})
		require.Contains(t, need, itemID.String())
		// 2 per yield of 10, planned 30 -> multiplier 3
		entry := need[itemID.String()].(map[string]interface{})
		assert.Equal(t, "6", entry["quantity"])
	})

	t.Run("window outside the run is empty", func(t *testing.T) {
		from := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
		to := time.Now().AddDate(0, 1, 7).Format("2006-01-02")
		w, resp := env.do(t, http.MethodGet, "/api/v1/production/demand?from="+from+"&to="+to, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, resp.Data.(map[string]interface{})["need"])
	})

	t.Run("bad date is rejected", func(t *testing.T) {
		w, _ := env.do(t, http.MethodGet, "/api/v1/production/demand?from=yesterday", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
