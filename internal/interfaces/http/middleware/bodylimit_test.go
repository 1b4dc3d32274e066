package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/partshop/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/upload", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("small body passes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/upload", strings.NewReader("tiny"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("declared length over limit is rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/upload", strings.NewReader(strings.Repeat("a", 64)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrCodeRequestTooLarge, decodeError(t, w).Error.Code)
	})

	t.Run("streamed body is capped", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/upload", strings.NewReader(strings.Repeat("a", 64)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}
