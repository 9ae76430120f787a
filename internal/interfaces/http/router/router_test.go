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

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("orders", "/orders")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("dealer", "/dealer/orders")
		assert.Equal(t, "dealer", g.Name())
		assert.Equal(t, "/dealer/orders", g.Prefix())
	})

	methods := []struct {
		method   string
		register func(g *DomainGroup, path string, h gin.HandlerFunc)
	}{
		{http.MethodGet, func(g *DomainGroup, p string, h gin.HandlerFunc) { g.GET(p, h) }},
		{http.MethodOptions, func(g *DomainGroup, p string, h gin.HandlerFunc) { g.Handle(http.MethodOptions, p, h) }},
		{http.MethodPost, func(g *DomainGroup, p string, h gin.HandlerFunc) { g.POST(p, h) }},
		{http.MethodPatch, func(g *DomainGroup, p string, h gin.HandlerFunc) { g.PATCH(p, h) }},
	}
	for _, m := range methods {
		t.Run("registers "+m.method+" route", func(t *testing.T) {
			engine := gin.New()
			g := NewDomainGroup("test", "/test")
			m.register(g, "/items/:id", func(c *gin.Context) {
				c.String(http.StatusOK, c.Request.Method+" "+c.Param("id"))
			})
			g.RegisterRoutes(engine.Group("/api/v1"))

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(m.method, "/api/v1/test/items/42", nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, m.method+" 42", w.Body.String())
		})
	}

	t.Run("applies middleware in order", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.Use(func(c *gin.Context) {
			c.Header("X-Step", "first")
			c.Next()
		}).Use(func(c *gin.Context) {
			c.Header("X-Step", c.Writer.Header().Get("X-Step")+",second")
			c.Next()
		})
		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/items", nil))

		assert.Equal(t, "first,second", w.Header().Get("X-Step"))
	})

	t.Run("creates subgroups that inherit middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("dealer", "/dealer").Use(func(c *gin.Context) {
			c.Header("X-Portal", "dealer")
			c.Next()
		})
		g.Group("orders", "/orders").GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "orders")
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dealer/orders", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "orders", w.Body.String())
		assert.Equal(t, "dealer", w.Header().Get("X-Portal"))
	})
}

func TestGroupsWithSamePrefix(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	public := NewDomainGroup("auth", "/auth")
	public.POST("/login", func(c *gin.Context) { c.String(http.StatusOK, "login") })

	private := NewDomainGroup("session", "/auth").Use(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	})
	private.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, "me") })

	r.Register(public).Register(private).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil))
	assert.Equal(t, http.StatusOK, w.Code, "middleware of a sibling group does not leak")

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDomainGroupRoutes(t *testing.T) {
	noop := func(c *gin.Context) {}
	g := NewDomainGroup("dealer", "/dealer")
	g.GET("", noop)
	orders := g.Group("dealer-orders", "/orders")
	orders.GET("/:id", noop).PATCH("/:id/status", noop)

	assert.Equal(t, []RouteInfo{
		{Group: "dealer", Method: http.MethodGet, Path: "/api/v1/dealer"},
		{Group: "dealer-orders", Method: http.MethodGet, Path: "/api/v1/dealer/orders/:id"},
		{Group: "dealer-orders", Method: http.MethodPatch, Path: "/api/v1/dealer/orders/:id/status"},
	}, g.Routes("/api/v1"))
}
