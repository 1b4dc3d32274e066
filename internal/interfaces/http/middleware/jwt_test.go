package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/infrastructure/auth"
	"github.com/partshop/backend/internal/infrastructure/config"
	"github.com/partshop/backend/internal/infrastructure/logger"
	"github.com/partshop/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	svc := auth.NewJWTService(config.JWTConfig{Secret: "test-secret-with-enough-length", Issuer: "partshop"})

	r := gin.New()
	r.Use(RequestID(), JWTAuth(DefaultJWTConfig(svc)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/parts", func(c *gin.Context) {
		actor := shared.ActorFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"actor":     actor.ID.String(),
			"role":      actor.Role,
			"log_user":  logger.GetUserID(c.Request.Context()),
			"gin_user":  GetJWTUserID(c),
			"has_claim": GetJWTClaims(c) != nil,
		})
	})
	return r, svc
}

func TestJWTAuth(t *testing.T) {
	r, svc := newJWTRouter(t)
	userID := uuid.New()

	t.Run("skip path needs no token", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serve(r, "GET", "/health", nil).Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := serve(r, "GET", "/api/v1/parts", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, decodeError(t, w).Error.Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		w := serve(r, "GET", "/api/v1/parts", map[string]string{AuthHeaderKey: "Basic abc"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := serve(r, "GET", "/api/v1/parts", map[string]string{AuthHeaderKey: BearerPrefix + "not.a.jwt"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, decodeError(t, w).Error.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.SignToken(userID, "clerk", "staff", -time.Minute)
		require.NoError(t, err)
		w := serve(r, "GET", "/api/v1/parts", map[string]string{AuthHeaderKey: BearerPrefix + token})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenExpired, decodeError(t, w).Error.Code)
	})

	t.Run("valid token sets actor", func(t *testing.T) {
		token, err := svc.SignToken(userID, "clerk", "staff", time.Hour)
		require.NoError(t, err)
		w := serve(r, "GET", "/api/v1/parts", map[string]string{AuthHeaderKey: BearerPrefix + token})
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"actor": "`+userID.String()+`",
			"role": "staff",
			"log_user": "`+userID.String()+`",
			"gin_user": "`+userID.String()+`",
			"has_claim": true
		}`, w.Body.String())
	})
}
