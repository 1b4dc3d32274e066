package invoicing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/inventory"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchaseHeader() Header {
	return Header{
		Type:           InvoiceTypePurchase,
		InvoiceNumber:  "PUR/01/NOV/25-26",
		Date:           time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC),
		CounterpartyID: uuid.New(),
	}
}

func snapshot(hsn, unit string) PartSnapshot {
	return PartSnapshot{PartID: uuid.New(), PartNumber: "1/A", ItemName: "Filter", HSNCode: hsn, Unit: unit}
}

func TestNewInvoice(t *testing.T) {
	t.Run("defaults to draft and sets supplier", func(t *testing.T) {
		h := purchaseHeader()
		inv, err := NewInvoice(h)
		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		require.NotNil(t, inv.SupplierID)
		assert.Nil(t, inv.CustomerID)
		assert.Equal(t, h.CounterpartyID, inv.CounterpartyID())
	})

	t.Run("sale sets customer", func(t *testing.T) {
		h := purchaseHeader()
		h.Type = InvoiceTypeSale
		inv, err := NewInvoice(h)
		require.NoError(t, err)
		assert.Nil(t, inv.SupplierID)
		require.NotNil(t, inv.CustomerID)
	})

	t.Run("requires counterparty", func(t *testing.T) {
		h := purchaseHeader()
		h.CounterpartyID = uuid.Nil
		_, err := NewInvoice(h)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "supplier")
	})

	t.Run("rejects unknown type and status", func(t *testing.T) {
		h := purchaseHeader()
		h.Type = "RETURN"
		_, err := NewInvoice(h)
		require.Error(t, err)

		h = purchaseHeader()
		h.Status = "ARCHIVED"
		_, err = NewInvoice(h)
		require.Error(t, err)
	})
}

func TestInvoice_SetItems(t *testing.T) {
	inv, err := NewInvoice(purchaseHeader())
	require.NoError(t, err)

	t.Run("requires at least one item", func(t *testing.T) {
		err := inv.SetItems(nil, Discount{}, TaxRates{})
		require.Error(t, err)
		assert.True(t, shared.IsKind(err, shared.KindValidation))
	})

	t.Run("snapshots part data and computes totals", func(t *testing.T) {
		a, err := NewInvoiceItem(inv.ID, snapshot("8421", "NOS"), 10, d("50"))
		require.NoError(t, err)
		b, err := NewInvoiceItem(inv.ID, snapshot("4016", "SET"), 5, d("100"))
		require.NoError(t, err)

		require.NoError(t, inv.SetItems([]InvoiceItem{*a, *b}, Discount{}, TaxRates{}))
		assertDecimal(t, "1000", inv.Subtotal, "subtotal")
		assertDecimal(t, "500", inv.Items[0].Amount, "line amount")
		assert.Equal(t, "8421", inv.Items[0].HSNCode)
		assert.Equal(t, "SET", inv.Items[1].Unit)
		assert.Equal(t, PaymentStatusUnpaid, inv.Payment.Status)
		assertDecimal(t, "1000", inv.Payment.Due, "due")

		entries, err := inv.LedgerEntries(uuid.Nil)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, inventory.DirectionIn, entries[0].Direction)
		assert.Equal(t, int64(10), entries[0].Quantity)
		assert.Equal(t, int64(5), entries[1].Quantity)
		assert.Equal(t, inv.ID, *entries[0].InvoiceID)
		assert.Equal(t, inv.Items[1].ID, *entries[1].InvoiceItemID)
	})
}

func TestInvoiceItem_Validation(t *testing.T) {
	_, err := NewInvoiceItem(uuid.New(), snapshot("", ""), 0, d("1"))
	require.Error(t, err)
	_, err = NewInvoiceItem(uuid.New(), snapshot("", ""), 1, d("-1"))
	require.Error(t, err)
	_, err = NewInvoiceItem(uuid.New(), PartSnapshot{}, 1, d("1"))
	require.Error(t, err)
	item, err := NewInvoiceItem(uuid.New(), snapshot("", ""), 1, d("0"))
	require.NoError(t, err)
	assert.True(t, item.Amount.IsZero())
}

func TestInvoice_Gating(t *testing.T) {
	inv, err := NewInvoice(purchaseHeader())
	require.NoError(t, err)

	assert.NoError(t, inv.EnsureEditable(false))
	assert.NoError(t, inv.EnsureDeletable(false))

	inv.Status = InvoiceStatusSubmitted
	err = inv.EnsureEditable(false)
	require.Error(t, err)
	assert.True(t, shared.IsKind(err, shared.KindInvalidState))
	assert.NoError(t, inv.EnsureEditable(true))
	assert.Error(t, inv.EnsureDeletable(false))
	assert.NoError(t, inv.EnsureDeletable(true))

	inv.Status = InvoiceStatusPaid
	assert.Error(t, inv.EnsureEditable(true))
}

func TestInvoice_Revise(t *testing.T) {
	inv, err := NewInvoice(purchaseHeader())
	require.NoError(t, err)
	inv.Status = InvoiceStatusSubmitted

	h := purchaseHeader()
	h.Type = InvoiceTypeSale
	h.Status = InvoiceStatusDraft
	require.NoError(t, inv.Revise(h))
	assert.Equal(t, InvoiceStatusSubmitted, inv.Status)
	assert.Equal(t, InvoiceTypeSale, inv.Type)
	assert.Nil(t, inv.SupplierID)
	assert.Equal(t, 2, inv.GetVersion())
}
