package report

import (
	"context"
	"time"

	"github.com/partshop/backend/internal/domain/invoicing"
)

// Repository reads committed invoices and ledger rows. Every method is a
// single query; CANCELLED invoices are never counted.
type Repository interface {
	// TotalsByTypeAndStatus groups invoice headers dated in the range
	TotalsByTypeAndStatus(ctx context.Context, r DateRange) ([]TypeStatusTotals, error)

	// InvoiceFacts returns the headers of one type dated in the range. An
	// empty type returns both.
	InvoiceFacts(ctx context.Context, typ invoicing.InvoiceType, r DateRange) ([]InvoiceFact, error)

	// TopParts ranks parts by quantity on invoice lines of the given type
	TopParts(ctx context.Context, typ invoicing.InvoiceType, r DateRange, limit int) ([]PartRanking, error)

	// StockPositions joins every part with its net ledger quantity. A
	// non-zero asOf counts only movements recorded up to the end of that day.
	StockPositions(ctx context.Context, asOf time.Time) ([]StockPosition, error)
}
