package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	t.Run("registers routes under versioned prefix", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine, WithAPIVersion("v1"))

		group := NewDomainGroup("stock", "/stock")
		group.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })
		r.Register(group).Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stock/items", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("default version is v1", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		group := NewDomainGroup("system", "/system")
		group.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
		r.Register(group).Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("all methods are routed", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		group := NewDomainGroup("purchasing", "/purchasing")
		group.GET("/pending", ok).POST("/orders", ok).PUT("/schedule", ok).DELETE("/manual/:id", ok)
		r.Register(group).Setup()

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/purchasing/pending"},
			{http.MethodPost, "/api/v1/purchasing/orders"},
			{http.MethodPut, "/api/v1/purchasing/schedule"},
			{http.MethodDelete, "/api/v1/purchasing/manual/x"},
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, tc.method+" "+tc.path)
		}
	})

	t.Run("group middleware runs before handlers", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		var order []string
		group := NewDomainGroup("stock", "/stock")
		group.Use(func(c *gin.Context) {
			order = append(order, "middleware")
			c.Next()
		})
		group.GET("/items", func(c *gin.Context) {
			order = append(order, "handler")
			c.Status(http.StatusOK)
		})
		r.Register(group).Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stock/items", nil))
		assert.Equal(t, []string{"middleware", "handler"}, order)
	})

	t.Run("name and prefix accessors", func(t *testing.T) {
		group := NewDomainGroup("stock", "/stock")
		assert.Equal(t, "stock", group.Name())
		assert.Equal(t, "/stock", group.Prefix())
	})
}
