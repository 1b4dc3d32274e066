package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/partshop/backend/internal/application/catalog"
	"github.com/partshop/backend/internal/interfaces/http/dto"
	"github.com/partshop/backend/internal/interfaces/http/middleware"
)

// MaxImportFileSize caps part import uploads
const MaxImportFileSize = 10 << 20

// PartHandler serves /parts
type PartHandler struct {
	BaseHandler
	partService *catalogapp.PartService
}

// NewPartHandler creates a new PartHandler
func NewPartHandler(partService *catalogapp.PartService) *PartHandler {
	return &PartHandler{partService: partService}
}

// Upsert creates the part or replaces the attributes of the part with the
// same number. Answers 201 on create and 200 on update.
func (h *PartHandler) Upsert(c *gin.Context) {
	var req catalogapp.UpsertPartRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.partService.Upsert(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	if result.Created {
		h.Created(c, result)
		return
	}
	h.Success(c, result)
}

// GetByID returns a part; include_deleted=true also returns deleted parts
func (h *PartHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	includeDeleted, ok := h.QueryBool(c, "include_deleted")
	if !ok {
		return
	}
	part, err := h.partService.GetByID(c.Request.Context(), id, includeDeleted)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, part)
}

// List returns a page of parts
func (h *PartHandler) List(c *gin.Context) {
	var filter catalogapp.PartListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	parts, total, err := h.partService.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, parts, total, filter.Page, filter.PageSize)
}

// Delete tombstones a part
func (h *PartHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.partService.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Restore clears a part's tombstone
func (h *PartHandler) Restore(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	part, err := h.partService.Restore(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, part)
}

// Import godoc
// @Summary  Upsert parts from a .xlsx or .csv upload in the "file" field
// @Tags     parts
// @Accept   multipart/form-data
// @Router   /parts/import [post]
func (h *PartHandler) Import(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "MISSING_FILE", "Upload a .xlsx or .csv file in the file field")
		return
	}
	if header.Size > MaxImportFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.ErrCodeRequestTooLarge,
			"Import files are limited to 10 MiB", middleware.GetRequestID(c)))
		return
	}
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".csv":
	default:
		h.BadRequest(c, "UNSUPPORTED_FILE_TYPE", "Only .xlsx and .csv files can be imported")
		return
	}

	f, err := header.Open()
	if err != nil {
		h.Error(c, err)
		return
	}
	defer f.Close()

	result, err := h.partService.Import(c.Request.Context(), header.Filename, f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, result)
}
