package invoicing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/shared"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	Type           InvoiceType
	Status         InvoiceStatus
	PaymentStatus  PaymentStatus
	CounterpartyID *uuid.UUID
	From           *time.Time
	To             *time.Time
}

// InvoiceRepository persists invoices and their lines
type InvoiceRepository interface {
	// FindByID loads an invoice with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByIDForUpdate loads an invoice with its items and row-locks the header
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindHeadersByIDs loads invoice headers without items
	FindHeadersByIDs(ctx context.Context, ids []uuid.UUID) ([]Invoice, error)

	// FindByNumber loads an invoice by its per-type number
	FindByNumber(ctx context.Context, typ InvoiceType, number string) (*Invoice, error)

	// ExistsByNumber checks the (number, type) pair, optionally ignoring one invoice
	ExistsByNumber(ctx context.Context, typ InvoiceType, number string, excludeID *uuid.UUID) (bool, error)

	// NumbersLike returns the invoice numbers of a type matching a LIKE pattern
	NumbersLike(ctx context.Context, typ InvoiceType, pattern string) ([]string, error)

	// Create inserts the header and its items
	Create(ctx context.Context, inv *Invoice) error

	// UpdateHeader writes the header columns
	UpdateHeader(ctx context.Context, inv *Invoice) error

	// InsertItems inserts lines
	InsertItems(ctx context.Context, items []InvoiceItem) error

	// DeleteItems removes every line of the given invoices
	DeleteItems(ctx context.Context, invoiceIDs ...uuid.UUID) error

	// DeleteHeaders removes invoice headers
	DeleteHeaders(ctx context.Context, ids ...uuid.UUID) error

	// UpdateStatus writes status on every listed invoice and returns the affected count
	UpdateStatus(ctx context.Context, ids []uuid.UUID, status InvoiceStatus, actor *uuid.UUID) (int64, error)

	// FindAll lists invoice headers
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, int64, error)
}

// SequenceRepository owns the per-bucket allocator rows
type SequenceRepository interface {
	// Claim ensures the bucket row exists and locks it for the rest of the transaction.
	// It returns the last issued sequence recorded on the row.
	Claim(ctx context.Context, bucket Bucket) (int, error)

	// Record stores the sequence just issued on the bucket row
	Record(ctx context.Context, bucket Bucket, seq int) error
}
