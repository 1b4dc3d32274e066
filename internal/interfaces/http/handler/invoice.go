package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	invoicingapp "github.com/partshop/backend/internal/application/invoicing"
	"github.com/partshop/backend/internal/domain/invoicing"
)

// InvoiceHandler serves /invoices
type InvoiceHandler struct {
	BaseHandler
	invoiceService *invoicingapp.InvoiceService
	now            func() time.Time
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *invoicingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, now: time.Now}
}

// Create godoc
// @Summary  Create an invoice, allocating its number when none is given
// @Tags     invoices
// @Router   /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req invoicingapp.InvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	inv, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, inv)
}

// Update godoc
// @Summary  Replace an invoice; non-drafts need allow_edit_submitted=true
// @Tags     invoices
// @Router   /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	allow, ok := h.QueryBool(c, "allow_edit_submitted")
	if !ok {
		return
	}
	var req invoicingapp.InvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	inv, err := h.invoiceService.Update(c.Request.Context(), id, req, invoicingapp.UpdateOptions{AllowEditSubmitted: allow})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, inv)
}

// Delete godoc
// @Summary  Delete an invoice; non-drafts need force=true
// @Tags     invoices
// @Router   /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	force, ok := h.QueryBool(c, "force")
	if !ok {
		return
	}
	if err := h.invoiceService.Delete(c.Request.Context(), id, force); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// BulkDelete removes every listed draft or none of them
func (h *InvoiceHandler) BulkDelete(c *gin.Context) {
	var req invoicingapp.BulkDeleteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.invoiceService.BulkDelete(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, result)
}

// BulkUpdateStatus sets one status on many invoices
func (h *InvoiceHandler) BulkUpdateStatus(c *gin.Context) {
	var req invoicingapp.BulkStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.invoiceService.BulkUpdateStatus(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, result)
}

// NextNumber previews the number the next invoice of a type would get.
// The date defaults to today.
func (h *InvoiceHandler) NextNumber(c *gin.Context) {
	typ := invoicing.InvoiceType(c.Query("type"))
	if !typ.IsValid() {
		h.BadRequest(c, "INVALID_INVOICE_TYPE", "type must be SALE or PURCHASE")
		return
	}
	date := h.now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			h.BadRequest(c, "INVALID_DATE", "date must be YYYY-MM-DD")
			return
		}
		date = parsed
	}
	resp, err := h.invoiceService.NextInvoiceNumber(c.Request.Context(), typ, date)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByID returns an invoice with its items
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, inv)
}

// List godoc
// @Summary  List invoices by type, status, party, date range and search term
// @Tags     invoices
// @Router   /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter invoicingapp.InvoiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	normalizePage(&filter.Page, &filter.PageSize)

	items, total, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetByNumber looks an invoice up by type and number
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	typ := invoicing.InvoiceType(c.Query("type"))
	number := c.Query("number")
	if !typ.IsValid() || number == "" {
		h.BadRequest(c, "INVALID_QUERY", "type and number are required")
		return
	}
	inv, err := h.invoiceService.GetByNumber(c.Request.Context(), typ, number)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, inv)
}
