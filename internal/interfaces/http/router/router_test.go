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

type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

func perform(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.api)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	r.Register(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	}))
	r.Setup()

	w := perform(engine, http.MethodGet, "/api/v2/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterSystemRoutes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIMiddleware(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}))

	r.RegisterSystem(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	}))
	r.Register(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/secure", func(c *gin.Context) { c.String(http.StatusOK, "secure") })
	}))
	r.Setup()

	// System routes bypass the API middleware chain
	assert.Equal(t, http.StatusOK, perform(engine, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(engine, http.MethodGet, "/api/v1/secure").Code)
}

func TestRouterAPIMiddlewareOrder(t *testing.T) {
	engine := gin.New()
	var order []string
	r := NewRouter(engine,
		WithAPIMiddleware(
			func(c *gin.Context) { order = append(order, "auth"); c.Next() },
			func(c *gin.Context) { order = append(order, "ratelimit"); c.Next() },
		),
	)

	r.Register(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/ping", func(c *gin.Context) {
			order = append(order, "handler")
			c.String(http.StatusOK, "pong")
		})
	}))
	r.Setup()

	w := perform(engine, http.MethodGet, "/api/v1/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"auth", "ratelimit", "handler"}, order)
}

func TestRouterProjectGroup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine,
		WithProjectMiddleware(func(c *gin.Context) {
			if c.Param("projectId") == "denied" {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
		}),
	)

	r.RegisterProject(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/stock/positions", func(c *gin.Context) {
			c.String(http.StatusOK, c.Param("projectId"))
		})
	}))
	r.Setup()

	w := perform(engine, http.MethodGet, "/api/v1/projects/proj-1/stock/positions")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "proj-1", w.Body.String())

	assert.Equal(t, http.StatusForbidden,
		perform(engine, http.MethodGet, "/api/v1/projects/denied/stock/positions").Code)
}

func TestRouterMultipleRegistrars(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Register(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/a", func(c *gin.Context) { c.String(http.StatusOK, "a") })
	})).Register(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/b", func(c *gin.Context) { c.String(http.StatusOK, "b") })
	})).RegisterProject(registrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/c", func(c *gin.Context) { c.String(http.StatusOK, "c") })
	}))
	r.Setup()

	assert.Equal(t, "a", perform(engine, http.MethodGet, "/api/v1/a").Body.String())
	assert.Equal(t, "b", perform(engine, http.MethodGet, "/api/v1/b").Body.String())
	assert.Equal(t, "c", perform(engine, http.MethodGet, "/api/v1/projects/p1/c").Body.String())
}
