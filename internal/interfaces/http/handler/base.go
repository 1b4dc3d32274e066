// Package handler holds the gin handlers of the shop API. Handlers bind and
// validate input, call one application service and write the envelope.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/partshop/backend/internal/infrastructure/logger"
	"github.com/partshop/backend/internal/interfaces/http/dto"
	"github.com/partshop/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error maps err to its status and envelope. Unexpected errors are logged
// with the request scoped logger.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	status, resp := dto.FromError(err, middleware.GetRequestID(c))
	if status >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("Request failed",
			zap.Int("status", status),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(status, resp)
}

// BadRequest sends a 400 with a transport level code
func (h *BaseHandler) BadRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// BindJSON binds the body into req and writes the validation envelope on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// BindQuery binds the query string into req and writes the validation envelope on failure
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// ParamUUID parses the named path parameter
func (h *BaseHandler) ParamUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "INVALID_ID", "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// QueryBool parses an optional boolean query parameter; absent is false
func (h *BaseHandler) QueryBool(c *gin.Context, name string) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return false, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		h.BadRequest(c, "INVALID_QUERY", name+" must be true or false")
		return false, false
	}
	return v, true
}

// normalizePage applies the default and maximum page size
func normalizePage(page, pageSize *int) {
	if *page <= 0 {
		*page = 1
	}
	if *pageSize <= 0 {
		*pageSize = defaultPageSize
	}
	if *pageSize > maxPageSize {
		*pageSize = maxPageSize
	}
}
