package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/partshop/backend/internal/application/report"
)

// ReportHandler serves the read-only /reports endpoints. Dates are YYYY-MM-DD.
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard godoc
// @Summary  Sales and purchase totals, counts, receivables and stock alerts
// @Tags     reports
// @Router   /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	var q reportapp.RangeQuery
	if !h.BindQuery(c, &q) {
		return
	}
	data, err := h.reportService.Dashboard(c.Request.Context(), q)
	h.respond(c, data, err)
}

// Rollup buckets invoice totals by week or month
func (h *ReportHandler) Rollup(c *gin.Context) {
	var q reportapp.RollupQuery
	if !h.BindQuery(c, &q) {
		return
	}
	data, err := h.reportService.Rollup(c.Request.Context(), q)
	h.respond(c, data, err)
}

// TopParts ranks parts by quantity on invoices of one type
func (h *ReportHandler) TopParts(c *gin.Context) {
	var q reportapp.TopPartsQuery
	if !h.BindQuery(c, &q) {
		return
	}
	data, err := h.reportService.TopParts(c.Request.Context(), q)
	h.respond(c, data, err)
}

func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	var q reportapp.RangeQuery
	if !h.BindQuery(c, &q) {
		return
	}
	data, err := h.reportService.ProfitLoss(c.Request.Context(), q)
	h.respond(c, data, err)
}

// BalanceSheet reports cash, inventory value, receivables and payables as of a date
func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	var q reportapp.AsOfQuery
	if !h.BindQuery(c, &q) {
		return
	}
	data, err := h.reportService.BalanceSheet(c.Request.Context(), q)
	h.respond(c, data, err)
}

func (h *ReportHandler) CashFlow(c *gin.Context) {
	var q reportapp.RangeQuery
	if !h.BindQuery(c, &q) {
		return
	}
	data, err := h.reportService.CashFlow(c.Request.Context(), q)
	h.respond(c, data, err)
}

// respond writes a service result as success or error
func (h *ReportHandler) respond(c *gin.Context, data any, err error) {
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, data)
}
