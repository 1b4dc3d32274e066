package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/shared"
)

// LedgerRepository is the append-only store of stock movements
type LedgerRepository interface {
	// Append inserts entries; there is no update path
	Append(ctx context.Context, entries ...*LedgerEntry) error

	// CurrentStock aggregates the ledger of one part
	CurrentStock(ctx context.Context, partID uuid.UUID) (StockLevel, error)

	// BulkStock aggregates the ledger of many parts in a single query.
	// A nil slice means every part with at least one entry.
	BulkStock(ctx context.Context, partIDs []uuid.UUID) (map[uuid.UUID]StockLevel, error)

	// DeleteByInvoice removes the entries generated by an invoice's lines
	DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error

	// DeleteByInvoices removes the entries generated by several invoices
	DeleteByInvoices(ctx context.Context, invoiceIDs []uuid.UUID) error

	// ListByPart returns the movement history of a part, newest first
	ListByPart(ctx context.Context, partID uuid.UUID, filter shared.Filter) ([]LedgerEntry, int64, error)

	// ListByInvoice returns the entries owned by an invoice
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]LedgerEntry, error)
}
