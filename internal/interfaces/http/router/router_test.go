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

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "/api", r.basePath)
	assert.Empty(t, r.registrars)
}

func TestRouterWithBasePath(t *testing.T) {
	r := NewRouter(gin.New(), WithBasePath("/internal"))
	assert.Equal(t, "/internal", r.basePath)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUse_AppliesToEveryGroup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.Header("X-Api", "1")
		c.Next()
	})

	for _, name := range []string{"a", "b"} {
		g := NewDomainGroup(name, "/"+name)
		g.GET("", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		r.Register(g)
	}
	r.Setup()

	for _, path := range []string{"/api/a", "/api/b"} {
		w := serve(engine, http.MethodGet, path)
		assert.Equal(t, http.StatusNoContent, w.Code, path)
		assert.Equal(t, "1", w.Header().Get("X-Api"), path)
	}

	// middleware on the base group must not leak outside it
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-Api"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("applications", "/applications")
		assert.Equal(t, "applications", g.Name())
		assert.Equal(t, "/applications", g.Prefix())
	})

	methods := []struct {
		method   string
		register func(g *DomainGroup, path string, h gin.HandlerFunc)
	}{
		{http.MethodGet, func(g *DomainGroup, p string, h gin.HandlerFunc) { g.GET(p, h) }},
		{http.MethodPost, func(g *DomainGroup, p string, h gin.HandlerFunc) { g.POST(p, h) }},
		{http.MethodPut, func(g *DomainGroup, p string, h gin.HandlerFunc) { g.PUT(p, h) }},
		{http.MethodDelete, func(g *DomainGroup, p string, h gin.HandlerFunc) { g.DELETE(p, h) }},
	}
	for _, m := range methods {
		t.Run("registers "+m.method+" route", func(t *testing.T) {
			engine := gin.New()
			g := NewDomainGroup("test", "/test")
			m.register(g, "/items/:id", func(c *gin.Context) {
				c.String(http.StatusOK, c.Param("id"))
			})
			g.RegisterRoutes(engine.Group("/api"))

			w := serve(engine, m.method, "/api/test/items/42")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "42", w.Body.String())
		})
	}

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").Use(func(c *gin.Context) {
			c.AbortWithStatus(http.StatusUnauthorized)
		})
		g.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api"))

		assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/test").Code)
	})

	t.Run("registers nested subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("user", "/user")
		g.Group("experiences", "/experiences").GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "mine")
		})
		g.RegisterRoutes(engine.Group("/api"))

		w := serve(engine, http.MethodGet, "/api/user/experiences")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "mine", w.Body.String())
	})

	t.Run("empty prefix mounts on the parent", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("session", "")
		g.POST("/logout", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api"))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/logout").Code)
	})
}
