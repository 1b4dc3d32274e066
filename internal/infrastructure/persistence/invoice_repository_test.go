package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/partner"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormInvoiceRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	customer := seedParty(t, db, partner.PartyKindCustomer, "Ravi Motors")
	a := seedPart(t, db, "10/A", "Spark plug", "90")
	b := seedPart(t, db, "10/B", "Fuel pump", "1500")

	inv := buildInvoice(t, invoicing.InvoiceTypeSale, "JCB/01/NOV/25-26", testutil.Date(2025, 11, 3), customer,
		lineSpec{b, 1, "1500"}, lineSpec{a, 4, "90"})
	require.NoError(t, repo.Create(ctx, inv))

	got, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "JCB/01/NOV/25-26", got.InvoiceNumber)
	assert.Equal(t, invoicing.InvoiceStatusDraft, got.Status)
	require.NotNil(t, got.CustomerID)
	assert.Equal(t, customer.ID, *got.CustomerID)
	assert.Nil(t, got.SupplierID)
	assert.Equal(t, "1860.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "1860.00", got.Total.StringFixed(2))
	assert.Equal(t, invoicing.PaymentStatusUnpaid, got.Payment.Status)

	require.Len(t, got.Items, 2)
	assert.Equal(t, b.ID, got.Items[0].PartID, "lines keep their order")
	assert.Equal(t, a.ID, got.Items[1].PartID)
	assert.Equal(t, "8708", got.Items[1].HSNCode)
	assert.Equal(t, "NOS", got.Items[1].Unit)
	assert.Equal(t, "360.00", got.Items[1].Amount.StringFixed(2))

	byNumber, err := repo.FindByNumber(ctx, invoicing.InvoiceTypeSale, "JCB/01/NOV/25-26")
	require.NoError(t, err)
	assert.Equal(t, inv.ID, byNumber.ID)

	locked, err := repo.FindByIDForUpdate(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, locked.Items, 2)

	_, err = repo.FindByID(ctx, uuid.New())
	testutil.RequireKind(t, err, shared.KindNotFound, "INVOICE_NOT_FOUND")
}

func TestGormInvoiceRepository_NumberUniquePerType(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	customer := seedParty(t, db, partner.PartyKindCustomer, "Ravi Motors")
	supplier := seedParty(t, db, partner.PartyKindSupplier, "Acme Spares")
	part := seedPart(t, db, "11/A", "Wiper", "200")
	date := testutil.Date(2025, 11, 3)

	sale := buildInvoice(t, invoicing.InvoiceTypeSale, "X/01/NOV/25-26", date, customer, lineSpec{part, 1, "200"})
	require.NoError(t, repo.Create(ctx, sale))

	t.Run("same number other type is allowed", func(t *testing.T) {
		purchase := buildInvoice(t, invoicing.InvoiceTypePurchase, "X/01/NOV/25-26", date, supplier, lineSpec{part, 1, "200"})
		require.NoError(t, repo.Create(ctx, purchase))
	})

	t.Run("same number same type is a duplicate key", func(t *testing.T) {
		dup := buildInvoice(t, invoicing.InvoiceTypeSale, "X/01/NOV/25-26", date, customer, lineSpec{part, 1, "200"})
		err := repo.Create(ctx, dup)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrDuplicateKey)
	})

	t.Run("exists ignores the excluded invoice", func(t *testing.T) {
		exists, err := repo.ExistsByNumber(ctx, invoicing.InvoiceTypeSale, "X/01/NOV/25-26", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByNumber(ctx, invoicing.InvoiceTypeSale, "X/01/NOV/25-26", &sale.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("numbers like a bucket", func(t *testing.T) {
		numbers, err := repo.NumbersLike(ctx, invoicing.InvoiceTypeSale, "X/%/NOV/25-26")
		require.NoError(t, err)
		assert.Equal(t, []string{"X/01/NOV/25-26"}, numbers)
	})
}

func TestGormInvoiceRepository_RewriteLines(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	customer := seedParty(t, db, partner.PartyKindCustomer, "Ravi Motors")
	a := seedPart(t, db, "12/A", "Gasket", "40")
	b := seedPart(t, db, "12/B", "Bearing", "260")

	inv := buildInvoice(t, invoicing.InvoiceTypeSale, "JCB/01/DEC/25-26", testutil.Date(2025, 12, 1), customer,
		lineSpec{a, 2, "40"})
	require.NoError(t, repo.Create(ctx, inv))

	revised := buildInvoice(t, invoicing.InvoiceTypeSale, "JCB/01/DEC/25-26", testutil.Date(2025, 12, 2), customer,
		lineSpec{b, 3, "260"})
	inv.Date = revised.Date
	require.NoError(t, inv.SetItems(revised.Items, invoicing.Discount{}, invoicing.TaxRates{}))
	inv.IncrementVersion()

	require.NoError(t, repo.DeleteItems(ctx, inv.ID))
	require.NoError(t, repo.UpdateHeader(ctx, inv))
	require.NoError(t, repo.InsertItems(ctx, inv.Items))

	got, err := repo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, b.ID, got.Items[0].PartID)
	assert.Equal(t, "780.00", got.Total.StringFixed(2))
	assert.Equal(t, 2, got.Version)
	assert.True(t, got.Date.Equal(testutil.Date(2025, 12, 2)))
}

func TestGormInvoiceRepository_UpdateStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	customer := seedParty(t, db, partner.PartyKindCustomer, "Ravi Motors")
	part := seedPart(t, db, "13/A", "Chain set", "1200")

	var ids []uuid.UUID
	for i, number := range []string{"JCB/01/JAN/25-26", "JCB/02/JAN/25-26", "JCB/03/JAN/25-26"} {
		inv := buildInvoice(t, invoicing.InvoiceTypeSale, number, testutil.Date(2026, 1, i+1), customer, lineSpec{part, 1, "1200"})
		require.NoError(t, repo.Create(ctx, inv))
		ids = append(ids, inv.ID)
	}

	actor := testutil.TestUserID()
	n, err := repo.UpdateStatus(ctx, []uuid.UUID{ids[0], ids[1], uuid.New()}, invoicing.InvoiceStatusSubmitted, &actor)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "only existing rows count")

	headers, err := repo.FindHeadersByIDs(ctx, ids)
	require.NoError(t, err)
	require.Len(t, headers, 3)
	statuses := map[uuid.UUID]invoicing.InvoiceStatus{}
	for _, h := range headers {
		statuses[h.ID] = h.Status
		assert.Empty(t, h.Items)
	}
	assert.Equal(t, invoicing.InvoiceStatusSubmitted, statuses[ids[0]])
	assert.Equal(t, invoicing.InvoiceStatusDraft, statuses[ids[2]])

	got, err := repo.FindByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, actor, *got.UpdatedBy)

	require.NoError(t, repo.DeleteItems(ctx, ids[2]))
	require.NoError(t, repo.DeleteHeaders(ctx, ids[2]))
	_, err = repo.FindByID(ctx, ids[2])
	testutil.RequireKind(t, err, shared.KindNotFound, "")
}

func TestGormInvoiceRepository_FindAll(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewGormInvoiceRepository(db)
	customer := seedParty(t, db, partner.PartyKindCustomer, "Ravi Motors")
	supplier := seedParty(t, db, partner.PartyKindSupplier, "Acme Spares")
	part := seedPart(t, db, "14/A", "Seat cover", "700")

	require.NoError(t, repo.Create(ctx, buildInvoice(t, invoicing.InvoiceTypeSale, "JCB/01/NOV/25-26", testutil.Date(2025, 11, 3), customer, lineSpec{part, 1, "700"})))
	require.NoError(t, repo.Create(ctx, buildInvoice(t, invoicing.InvoiceTypeSale, "JCB/02/NOV/25-26", testutil.Date(2025, 11, 20), customer, lineSpec{part, 2, "700"})))
	require.NoError(t, repo.Create(ctx, buildInvoice(t, invoicing.InvoiceTypePurchase, "PUR/01/NOV/25-26", testutil.Date(2025, 11, 5), supplier, lineSpec{part, 5, "500"})))

	tests := []struct {
		name   string
		filter invoicing.InvoiceFilter
		want   int64
	}{
		{"all", invoicing.InvoiceFilter{}, 3},
		{"by type", invoicing.InvoiceFilter{Type: invoicing.InvoiceTypeSale}, 2},
		{"by counterparty", invoicing.InvoiceFilter{CounterpartyID: &supplier.ID}, 1},
		{"by search", invoicing.InvoiceFilter{Filter: shared.Filter{Search: "jcb/02"}}, 1},
		{"by date range", invoicing.InvoiceFilter{From: ptrTime(testutil.Date(2025, 11, 4)), To: ptrTime(testutil.Date(2025, 11, 30))}, 2},
		{"by status", invoicing.InvoiceFilter{Status: invoicing.InvoiceStatusPaid}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, total, err := repo.FindAll(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, total)
			assert.Len(t, rows, int(tt.want))
		})
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
