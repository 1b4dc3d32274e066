package persistence

import (
	"context"

	appinventory "github.com/partshop/backend/internal/application/inventory"
	appinvoicing "github.com/partshop/backend/internal/application/invoicing"
	"github.com/partshop/backend/internal/domain/catalog"
	"github.com/partshop/backend/internal/domain/inventory"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/partner"
	"gorm.io/gorm"
)

// gormTransactionalRepositories hands out repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// PartRepo returns the part repository scoped to the current transaction
func (r *gormTransactionalRepositories) PartRepo() catalog.PartRepository {
	return NewGormPartRepository(r.tx)
}

// PartyRepo returns the party repository scoped to the current transaction
func (r *gormTransactionalRepositories) PartyRepo() partner.PartyRepository {
	return NewGormPartyRepository(r.tx)
}

// InvoiceRepo returns the invoice repository scoped to the current transaction
func (r *gormTransactionalRepositories) InvoiceRepo() invoicing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// SequenceRepo returns the invoice sequence repository scoped to the current transaction
func (r *gormTransactionalRepositories) SequenceRepo() invoicing.SequenceRepository {
	return NewGormSequenceRepository(r.tx)
}

// LedgerRepo returns the stock ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) LedgerRepo() inventory.LedgerRepository {
	return NewGormLedgerRepository(r.tx)
}

// GormInvoiceTransactionScope runs invoice lifecycle writes in one GORM transaction
type GormInvoiceTransactionScope struct {
	db *gorm.DB
}

// NewGormInvoiceTransactionScope creates a new GormInvoiceTransactionScope
func NewGormInvoiceTransactionScope(db *gorm.DB) *GormInvoiceTransactionScope {
	return &GormInvoiceTransactionScope{db: db}
}

// Execute commits when fn returns nil and rolls back otherwise
func (s *GormInvoiceTransactionScope) Execute(ctx context.Context, fn func(repos appinvoicing.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	return translateError(err, nil)
}

// GormInventoryTransactionScope runs stock adjustments in one GORM transaction
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute commits when fn returns nil and rolls back otherwise
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	return translateError(err, nil)
}

var (
	_ appinvoicing.TransactionScope          = (*GormInvoiceTransactionScope)(nil)
	_ appinvoicing.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
	_ appinventory.TransactionScope          = (*GormInventoryTransactionScope)(nil)
	_ appinventory.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
