// Package models contains the GORM persistence models of the shop tables.
// Domain entities stay free of ORM tags; each model maps to and from its
// entity with ToDomain / FromDomain.
//
//   - catalog.go: parts
//   - partner.go: suppliers and customers (parties)
//   - inventory.go: the append-only stock ledger (inventory_transactions)
//   - invoicing.go: invoices, invoice_items and the invoice_sequences allocator
package models

// All returns every model in dependency order, for AutoMigrate in tests and
// local development. Production schemas come from the SQL migrations.
func All() []any {
	return []any{
		&PartModel{},
		&PartyModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&LedgerEntryModel{},
		&InvoiceSequenceModel{},
	}
}
