package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/shared"
)

// Direction is the sign of a stock movement
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// IsValid returns true if the direction is IN or OUT
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// Reason records why a ledger entry exists
type Reason string

const (
	// ReasonInvoice is a movement caused by an invoice line
	ReasonInvoice Reason = "INVOICE"
	// ReasonAdjustment is a corrective movement from a stock count
	ReasonAdjustment Reason = "ADJUSTMENT"
)

// LedgerEntry is an immutable IN/OUT stock movement.
// Entries are never updated; corrections are new entries, and invoice-owned
// entries are only removed together with their invoice lines.
type LedgerEntry struct {
	ID            uuid.UUID
	PartID        uuid.UUID
	Direction     Direction
	Quantity      int64
	Reason        Reason
	InvoiceID     *uuid.UUID
	InvoiceItemID *uuid.UUID
	Note          string
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
}

// NewLedgerEntry creates a new ledger entry. Direction correctness is the caller's concern.
func NewLedgerEntry(partID uuid.UUID, direction Direction, quantity int64, reason Reason) (*LedgerEntry, error) {
	if partID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PART", "Part ID cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewValidationError("INVALID_DIRECTION", "Direction must be IN or OUT")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return &LedgerEntry{
		ID:        uuid.New(),
		PartID:    partID,
		Direction: direction,
		Quantity:  quantity,
		Reason:    reason,
		CreatedAt: time.Now(),
	}, nil
}

// ForInvoiceLine links the entry to the invoice line that caused it
func (e *LedgerEntry) ForInvoiceLine(invoiceID, itemID uuid.UUID) *LedgerEntry {
	e.InvoiceID = &invoiceID
	e.InvoiceItemID = &itemID
	return e
}

// WithNote sets a free-text note
func (e *LedgerEntry) WithNote(note string) *LedgerEntry {
	e.Note = note
	return e
}

// WithCreatedBy records the caller
func (e *LedgerEntry) WithCreatedBy(actor uuid.UUID) *LedgerEntry {
	if actor != uuid.Nil {
		e.CreatedBy = &actor
	}
	return e
}

// SignedQuantity returns +quantity for IN and -quantity for OUT
func (e *LedgerEntry) SignedQuantity() int64 {
	if e.Direction == DirectionOut {
		return -e.Quantity
	}
	return e.Quantity
}
