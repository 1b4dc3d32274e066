package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/partshop/backend/internal/application/inventory"
)

// StockHandler serves /stock
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
	exporter     *inventoryapp.StockExporter
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService, exporter *inventoryapp.StockExporter) *StockHandler {
	return &StockHandler{stockService: stockService, exporter: exporter}
}

// List godoc
// @Summary  Parts with incoming, outgoing and net stock
// @Tags     stock
// @Router   /stock [get]
func (h *StockHandler) List(c *gin.Context) {
	var filter inventoryapp.StockListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	page, err := h.stockService.ListStock(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, filter.Page, filter.PageSize)
}

// Get returns one part's stock
func (h *StockHandler) Get(c *gin.Context) {
	partID, ok := h.ParamUUID(c, "part_id")
	if !ok {
		return
	}
	stock, err := h.stockService.GetStock(c.Request.Context(), partID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, stock)
}

// Adjust godoc
// @Summary  Set a part's stock to a counted quantity with one corrective entry
// @Tags     stock
// @Router   /stock/{part_id}/adjust [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	partID, ok := h.ParamUUID(c, "part_id")
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.stockService.AdjustStock(c.Request.Context(), partID, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, result)
}

// Ledger pages through a part's movements
func (h *StockHandler) Ledger(c *gin.Context) {
	partID, ok := h.ParamUUID(c, "part_id")
	if !ok {
		return
	}
	var filter inventoryapp.LedgerListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	entries, total, err := h.stockService.Ledger(c.Request.Context(), partID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// Export downloads the filtered stock list as a workbook. The workbook is
// rendered before any byte is sent so failures still get the JSON envelope.
func (h *StockHandler) Export(c *gin.Context) {
	var filter inventoryapp.StockListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	var buf bytes.Buffer
	if _, err := h.exporter.Write(c.Request.Context(), &buf, filter); err != nil {
		h.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+h.exporter.Filename()+`"`)
	c.Data(http.StatusOK, inventoryapp.XLSXContentType, buf.Bytes())
}

// Archive writes the export to object storage and returns its key
func (h *StockHandler) Archive(c *gin.Context) {
	var filter inventoryapp.StockListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	archive, err := h.exporter.Archive(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, archive)
}
