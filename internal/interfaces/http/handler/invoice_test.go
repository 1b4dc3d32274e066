package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	invoicingapp "github.com/partshop/backend/internal/application/invoicing"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleBody(s *testServer, date string, qty int64) map[string]any {
	return map[string]any{
		"type":            "SALE",
		"date":            date + "T00:00:00Z",
		"counterparty_id": s.customer.ID,
		"cgst_percent":    "9",
		"sgst_percent":    "9",
		"items": []map[string]any{
			{"part_id": s.parts[0].ID, "quantity": qty, "rate": "100"},
		},
	}
}

func createInvoice(t *testing.T, s *testServer, body map[string]any) invoicingapp.InvoiceResponse {
	t.Helper()
	w := testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/invoices", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var inv invoicingapp.InvoiceResponse
	testutil.DecodeResponse(t, w, &inv)
	return inv
}

func TestInvoiceHandler_Create(t *testing.T) {
	s := newTestServer(t)

	inv := createInvoice(t, s, saleBody(s, "2025-11-03", 2))

	assert.Equal(t, "JCB/01/NOV/25-26", inv.InvoiceNumber)
	assert.Equal(t, invoicing.InvoiceStatusDraft, inv.Status)
	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(200)), inv.Subtotal.String())
	assert.True(t, inv.CGSTAmount.Equal(decimal.NewFromInt(18)), inv.CGSTAmount.String())
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(236)), inv.Total.String())
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "101/A", inv.Items[0].PartNumber)

	second := createInvoice(t, s, saleBody(s, "2025-11-20", 1))
	assert.Equal(t, "JCB/02/NOV/25-26", second.InvoiceNumber)
}

func TestInvoiceHandler_CreateValidation(t *testing.T) {
	s := newTestServer(t)

	t.Run("no items", func(t *testing.T) {
		body := saleBody(s, "2025-11-03", 1)
		body["items"] = []map[string]any{}
		w := testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/invoices", body)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_FAILED")
	})

	t.Run("unknown type", func(t *testing.T) {
		body := saleBody(s, "2025-11-03", 1)
		body["type"] = "REFUND"
		w := testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/invoices", body)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_FAILED")
	})

	t.Run("supplier on a sale", func(t *testing.T) {
		body := saleBody(s, "2025-11-03", 1)
		body["counterparty_id"] = s.supplier.ID
		w := testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/invoices", body)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, "CUSTOMER_NOT_FOUND")
	})

	t.Run("unknown part", func(t *testing.T) {
		body := saleBody(s, "2025-11-03", 1)
		body["items"] = []map[string]any{{"part_id": uuid.New(), "quantity": 1, "rate": "10"}}
		w := testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/invoices", body)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, "PART_NOT_FOUND")
	})

	t.Run("duplicate number", func(t *testing.T) {
		first := createInvoice(t, s, saleBody(s, "2025-12-01", 1))
		body := saleBody(s, "2025-12-02", 1)
		body["invoice_number"] = first.InvoiceNumber
		w := testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/invoices", body)
		testutil.AssertErrorResponse(t, w, http.StatusConflict, "DUPLICATE_INVOICE_NUMBER")
	})
}

func TestInvoiceHandler_UpdateGate(t *testing.T) {
	s := newTestServer(t)
	inv := createInvoice(t, s, saleBody(s, "2025-11-03", 2))
	path := "/api/v1/invoices/" + inv.ID.String()

	w := testutil.PerformJSON(t, s, http.MethodPut, path, saleBody(s, "2025-11-03", 3))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated invoicingapp.InvoiceResponse
	testutil.DecodeResponse(t, w, &updated)
	assert.Equal(t, inv.InvoiceNumber, updated.InvoiceNumber)
	assert.True(t, updated.Subtotal.Equal(decimal.NewFromInt(300)))

	w = testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/invoices/bulk/status",
		map[string]any{"ids": []uuid.UUID{inv.ID}, "status": "SUBMITTED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.PerformJSON(t, s, http.MethodPut, path, saleBody(s, "2025-11-03", 4))
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "INVOICE_NOT_EDITABLE")

	w = testutil.PerformJSON(t, s, http.MethodPut, path+"?allow_edit_submitted=true", saleBody(s, "2025-11-03", 4))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	testutil.DecodeResponse(t, w, &updated)
	assert.Equal(t, invoicing.InvoiceStatusSubmitted, updated.Status)
	assert.Equal(t, int64(4), updated.Items[0].Quantity)

	w = testutil.PerformJSON(t, s, http.MethodPut, path+"?allow_edit_submitted=yes", saleBody(s, "2025-11-03", 4))
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "INVALID_QUERY")
}

func TestInvoiceHandler_Delete(t *testing.T) {
	s := newTestServer(t)
	draft := createInvoice(t, s, saleBody(s, "2025-11-03", 1))
	submittedBody := saleBody(s, "2025-11-04", 1)
	submittedBody["status"] = "SUBMITTED"
	submitted := createInvoice(t, s, submittedBody)

	w := testutil.PerformJSON(t, s, http.MethodDelete, "/api/v1/invoices/"+submitted.ID.String(), nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "INVOICE_NOT_DELETABLE")

	w = testutil.PerformJSON(t, s, http.MethodDelete, "/api/v1/invoices/"+submitted.ID.String()+"?force=true", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.PerformJSON(t, s, http.MethodDelete, "/api/v1/invoices/"+draft.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.PerformJSON(t, s, http.MethodGet, "/api/v1/invoices/"+draft.ID.String(), nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "INVOICE_NOT_FOUND")

	w = testutil.PerformJSON(t, s, http.MethodDelete, "/api/v1/invoices/nope", nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "INVALID_ID")
}

func TestInvoiceHandler_BulkDeleteIsAllOrNothing(t *testing.T) {
	s := newTestServer(t)
	a := createInvoice(t, s, saleBody(s, "2025-11-03", 1))
	b := createInvoice(t, s, saleBody(s, "2025-11-04", 1))
	lockedBody := saleBody(s, "2025-11-05", 1)
	lockedBody["status"] = "PAID"
	locked := createInvoice(t, s, lockedBody)

	w := testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/invoices/bulk/delete",
		map[string]any{"ids": []uuid.UUID{a.ID, b.ID, locked.ID}})
	resp := testutil.AssertErrorResponse(t, w, http.StatusConflict, "BULK_DELETE_BLOCKED")
	assert.Contains(t, resp.Error.Details, "blocked_ids")

	for _, id := range []uuid.UUID{a.ID, b.ID} {
		w = testutil.PerformJSON(t, s, http.MethodGet, "/api/v1/invoices/"+id.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w = testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/invoices/bulk/delete",
		map[string]any{"ids": []uuid.UUID{a.ID, b.ID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result invoicingapp.BulkDeleteResult
	testutil.DecodeResponse(t, w, &result)
	assert.Equal(t, 2, result.DeletedCount)

	w = testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/invoices/bulk/delete",
		map[string]any{"ids": []uuid.UUID{}})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_FAILED")
}

func TestInvoiceHandler_BulkUpdateStatus(t *testing.T) {
	s := newTestServer(t)
	a := createInvoice(t, s, saleBody(s, "2025-11-03", 1))
	b := createInvoice(t, s, saleBody(s, "2025-11-04", 1))

	w := testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/invoices/bulk/status",
		map[string]any{"ids": []uuid.UUID{a.ID, b.ID}, "status": "CANCELLED"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result invoicingapp.BulkStatusResult
	testutil.DecodeResponse(t, w, &result)
	assert.Equal(t, int64(2), result.UpdatedCount)

	w = testutil.PerformJSON(t, s, http.MethodPost, "/api/v1/invoices/bulk/status",
		map[string]any{"ids": []uuid.UUID{a.ID}, "status": "ARCHIVED"})
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "INVALID_STATUS")
}

func TestInvoiceHandler_NextNumber(t *testing.T) {
	s := newTestServer(t)
	createInvoice(t, s, saleBody(s, "2026-02-10", 1))

	w := testutil.PerformJSON(t, s, http.MethodGet, "/api/v1/invoices/next-number?type=SALE&date=2026-02-11", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var next invoicingapp.NextNumberResponse
	testutil.DecodeResponse(t, w, &next)
	assert.Equal(t, "JCB/02/FEB/25-26", next.InvoiceNumber)

	w = testutil.PerformJSON(t, s, http.MethodGet, "/api/v1/invoices/next-number?type=PURCHASE&date=2026-04-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.DecodeResponse(t, w, &next)
	assert.Equal(t, "PUR/01/APR/26-27", next.InvoiceNumber)

	w = testutil.PerformJSON(t, s, http.MethodGet, "/api/v1/invoices/next-number?type=QUOTE", nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "INVALID_INVOICE_TYPE")

	w = testutil.PerformJSON(t, s, http.MethodGet, "/api/v1/invoices/next-number?type=SALE&date=11/02/2026", nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "INVALID_DATE")
}

func TestInvoiceHandler_ListAndLookup(t *testing.T) {
	s := newTestServer(t)
	for day := 1; day <= 3; day++ {
		createInvoice(t, s, saleBody(s, fmt.Sprintf("2025-11-%02d", day), 1))
	}

	w := testutil.PerformJSON(t, s, http.MethodGet, "/api/v1/invoices?type=SALE&page_size=2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list []invoicingapp.InvoiceResponse
	resp := testutil.DecodeResponse(t, w, &list)
	assert.Len(t, list, 2)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)

	w = testutil.PerformJSON(t, s, http.MethodGet, "/api/v1/invoices/lookup?type=SALE&number=JCB/02/NOV/25-26", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var found invoicingapp.InvoiceResponse
	testutil.DecodeResponse(t, w, &found)
	assert.Equal(t, "JCB/02/NOV/25-26", found.InvoiceNumber)

	w = testutil.PerformJSON(t, s, http.MethodGet, "/api/v1/invoices/lookup?type=SALE", nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "INVALID_QUERY")

	w = testutil.PerformJSON(t, s, http.MethodGet, "/api/v1/invoices/lookup?type=SALE&number=JCB/09/NOV/25-26", nil)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, "INVOICE_NOT_FOUND")
}
