package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/inventory"
)

// LedgerEntryModel is one row of the append-only stock ledger
type LedgerEntryModel struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	PartID        uuid.UUID           `gorm:"type:uuid;not null;index:idx_inv_tx_part"`
	Direction     inventory.Direction `gorm:"type:varchar(3);not null"`
	Quantity      int64               `gorm:"not null"`
	Reason        inventory.Reason    `gorm:"type:varchar(20);not null;default:'INVOICE'"`
	InvoiceID     *uuid.UUID          `gorm:"type:uuid;index:idx_inv_tx_invoice"`
	InvoiceItemID *uuid.UUID          `gorm:"type:uuid"`
	Note          string              `gorm:"type:text"`
	CreatedBy     *uuid.UUID          `gorm:"type:uuid"`
	CreatedAt     time.Time           `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "inventory_transactions"
}

// ToDomain converts the row to a domain LedgerEntry
func (m *LedgerEntryModel) ToDomain() *inventory.LedgerEntry {
	return &inventory.LedgerEntry{
		ID:            m.ID,
		PartID:        m.PartID,
		Direction:     m.Direction,
		Quantity:      m.Quantity,
		Reason:        m.Reason,
		InvoiceID:     m.InvoiceID,
		InvoiceItemID: m.InvoiceItemID,
		Note:          m.Note,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// LedgerEntryModelFromDomain creates a row from a domain LedgerEntry
func LedgerEntryModelFromDomain(e *inventory.LedgerEntry) *LedgerEntryModel {
	return &LedgerEntryModel{
		ID:            e.ID,
		PartID:        e.PartID,
		Direction:     e.Direction,
		Quantity:      e.Quantity,
		Reason:        e.Reason,
		InvoiceID:     e.InvoiceID,
		InvoiceItemID: e.InvoiceItemID,
		Note:          e.Note,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
	}
}
