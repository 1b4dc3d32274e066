package invoicing

import (
	"context"

	"github.com/partshop/backend/internal/domain/catalog"
	"github.com/partshop/backend/internal/domain/inventory"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/partner"
)

// TransactionScope runs invoice writes atomically. If fn returns an error
// nothing it wrote is kept.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories hands out repositories that share one transaction
type TransactionalRepositories interface {
	// PartRepo returns the part repository scoped to the current transaction
	PartRepo() catalog.PartRepository
	// PartyRepo returns the party repository scoped to the current transaction
	PartyRepo() partner.PartyRepository
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() invoicing.InvoiceRepository
	// SequenceRepo returns the sequence allocator repository scoped to the current transaction
	SequenceRepo() invoicing.SequenceRepository
	// LedgerRepo returns the stock ledger repository scoped to the current transaction
	LedgerRepo() inventory.LedgerRepository
}
