package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/catalog"
	"github.com/partshop/backend/internal/domain/inventory"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/partner"
	"github.com/partshop/backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPart(t *testing.T, db *gorm.DB, number, name string, mrp string) *catalog.Part {
	t.Helper()
	part, err := catalog.NewPart(number, catalog.PartDetails{
		ItemName: name,
		HSNCode:  "8708",
		Unit:     "NOS",
		MRP:      decimal.RequireFromString(mrp),
		MinStock: 5,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormPartRepository(db).Save(context.Background(), part))
	return part
}

func seedParty(t *testing.T, db *gorm.DB, kind partner.PartyKind, name string) *partner.Party {
	t.Helper()
	party, err := partner.NewParty(kind, partner.PartyDetails{Name: name, State: "Maharashtra"})
	require.NoError(t, err)
	require.NoError(t, NewGormPartyRepository(db).Save(context.Background(), party))
	return party
}

type lineSpec struct {
	part *catalog.Part
	qty  int64
	rate string
}

// buildInvoice assembles a domain invoice with computed totals without persisting it
func buildInvoice(t *testing.T, typ invoicing.InvoiceType, number string, date time.Time, party *partner.Party, lines ...lineSpec) *invoicing.Invoice {
	t.Helper()
	inv, err := invoicing.NewInvoice(invoicing.Header{
		Type:           typ,
		InvoiceNumber:  number,
		Date:           date,
		CounterpartyID: party.ID,
	})
	require.NoError(t, err)

	items := make([]invoicing.InvoiceItem, len(lines))
	for i, l := range lines {
		item, err := invoicing.NewInvoiceItem(inv.ID, invoicing.PartSnapshot{
			PartID:     l.part.ID,
			PartNumber: l.part.PartNumber,
			ItemName:   l.part.ItemName,
			HSNCode:    l.part.HSNCode,
			Unit:       l.part.Unit,
		}, l.qty, decimal.RequireFromString(l.rate))
		require.NoError(t, err)
		items[i] = *item
	}
	require.NoError(t, inv.SetItems(items, invoicing.Discount{}, invoicing.TaxRates{}))
	inv.RecordPayment(decimal.Zero, nil, "", "")
	return inv
}

// storeInvoice persists inv with its ledger entries
func storeInvoice(t *testing.T, db *gorm.DB, inv *invoicing.Invoice) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, NewGormInvoiceRepository(db).Create(ctx, inv))
	entries, err := inv.LedgerEntries(testutil.TestUserID())
	require.NoError(t, err)
	require.NoError(t, NewGormLedgerRepository(db).Append(ctx, entries...))
}

func adjustmentEntry(t *testing.T, partID uuid.UUID, dir inventory.Direction, qty int64) *inventory.LedgerEntry {
	t.Helper()
	e, err := inventory.NewLedgerEntry(partID, dir, qty, inventory.ReasonAdjustment)
	require.NoError(t, err)
	return e
}
