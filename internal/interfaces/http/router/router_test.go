package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	partnerapp "github.com/partshop/backend/internal/application/partner"
	"github.com/partshop/backend/internal/infrastructure/auth"
	"github.com/partshop/backend/internal/infrastructure/config"
	"github.com/partshop/backend/internal/infrastructure/persistence"
	"github.com/partshop/backend/internal/interfaces/http/handler"
	"github.com/partshop/backend/internal/interfaces/http/middleware"
	"github.com/partshop/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	g := NewDomainGroup("test", "/test")
	g.GET("/a", func(c *gin.Context) { c.String(http.StatusOK, "a") }).
		POST("/b", func(c *gin.Context) { c.String(http.StatusCreated, "b") }).
		PUT("/c/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) }).
		DELETE("/d/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.Use(func(c *gin.Context) {
		c.Header("X-Api", "yes")
		c.Next()
	})
	r.Register(g).Setup()
	assert.Equal(t, "/api/v2", r.BasePath())

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/v2/test/a", http.StatusOK},
		{http.MethodPost, "/api/v2/test/b", http.StatusCreated},
		{http.MethodPut, "/api/v2/test/c/7", http.StatusOK},
		{http.MethodDelete, "/api/v2/test/d/7", http.StatusNoContent},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, tt.status, w.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, "yes", w.Header().Get("X-Api"))
	}
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("catalog", "/parts").Use(func(c *gin.Context) {
		c.Header("X-Group", "catalog")
		c.Next()
	})
	g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "parts") })
	g.RegisterRoutes(engine.Group("/api/v1"))

	assert.Equal(t, "catalog", g.Name())
	assert.Equal(t, "/parts", g.Prefix())
	assert.Equal(t, []Route{{Method: http.MethodGet, Path: "/parts"}}, g.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/parts", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "catalog", w.Header().Get("X-Group"))
}

func TestDomainGroups_RouteTable(t *testing.T) {
	groups := domainGroups(Handlers{
		Invoices: &handler.InvoiceHandler{},
		Stock:    &handler.StockHandler{},
	})
	require.Len(t, groups, 2)

	assert.Contains(t, groups[0].Routes(), Route{Method: http.MethodGet, Path: "/invoices/next-number"})
	assert.Contains(t, groups[0].Routes(), Route{Method: http.MethodPost, Path: "/invoices/bulk/delete"})
	assert.Contains(t, groups[0].Routes(), Route{Method: http.MethodPost, Path: "/invoices"})
	assert.Contains(t, groups[1].Routes(), Route{Method: http.MethodPost, Path: "/stock/:part_id/adjust"})
}

func newEngine(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return New(opts, Handlers{
		Parties: handler.NewPartyHandler(partnerapp.NewPartyService(persistence.NewGormPartyRepository(db))),
		System:  handler.NewSystemHandler("partshop", "test", nil, nil),
	})
}

func send(engine *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNew_HealthAndUnknownRoutes(t *testing.T) {
	engine := newEngine(t, Options{})

	w := send(engine, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	w = send(engine, http.MethodGet, "/api/v1/nothing-here", "")
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "ROUTE_NOT_FOUND")

	w = send(engine, http.MethodGet, "/api/v1/parties", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_RequiresTokenOnAPI(t *testing.T) {
	jwt := auth.NewJWTService(config.JWTConfig{Secret: "router-test-secret", Issuer: "partshop"})
	engine := newEngine(t, Options{Auth: jwt})

	w := send(engine, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(engine, http.MethodGet, "/api/v1/parties", "")
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "UNAUTHORIZED")

	w = send(engine, http.MethodGet, "/api/v1/parties", "not-a-jwt")
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "UNAUTHORIZED")

	token, err := jwt.SignToken(testutil.TestUserID(), "clerk", "staff", time.Hour)
	require.NoError(t, err)
	w = send(engine, http.MethodGet, "/api/v1/parties", token)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = send(engine, http.MethodGet, "/api/v1/system/info", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNew_RateLimit(t *testing.T) {
	engine := newEngine(t, Options{RateLimiter: middleware.NewRateLimiter(2, time.Minute)})

	for i := 0; i < 2; i++ {
		w := send(engine, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := send(engine, http.MethodGet, "/health", "")
	testutil.AssertErrorResponse(t, w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestNew_BodyLimit(t *testing.T) {
	engine := newEngine(t, Options{HTTP: config.HTTPConfig{MaxBodySize: 16}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parties",
		testutil.ToJSONReader(t, map[string]string{"kind": "CUSTOMER", "name": "A name long enough to overflow"}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	testutil.AssertErrorResponse(t, w, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE")
}
