package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGinMiddleware(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_id", "req-9")
		c.Next()
	})
	r.Use(GinMiddleware(zap.New(core)))

	var fromCtx *zap.Logger
	r.GET("/ok", func(c *gin.Context) {
		fromCtx = FromContext(c.Request.Context())
		assert.Equal(t, "req-9", GetRequestID(c.Request.Context()))
		c.Status(http.StatusOK)
	})
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok?x=1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.NotNil(t, fromCtx)
	require.Equal(t, 2, recorded.Len())
	first := recorded.All()[0]
	assert.Equal(t, zapcore.InfoLevel, first.Level)
	assert.Equal(t, "req-9", first.ContextMap()["request_id"])
	assert.Equal(t, "x=1", first.ContextMap()["query"])
	assert.Equal(t, zapcore.WarnLevel, recorded.All()[1].Level)
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger_Default(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}
