package inventory

import (
	"context"

	"github.com/partshop/backend/internal/domain/catalog"
	"github.com/partshop/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the stock repositories.
// All repository operations inside fn are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a stock
// adjustment needs. All of them share the same underlying transaction.
//
//   - PartRepo: locks the part row so concurrent adjustments of one part serialise.
//   - LedgerRepo: append-only movement log; the stock figure is derived from it.
type TransactionalRepositories interface {
	// PartRepo returns the part repository scoped to the current transaction
	PartRepo() catalog.PartRepository
	// LedgerRepo returns the ledger repository scoped to the current transaction
	LedgerRepo() inventory.LedgerRepository
}
