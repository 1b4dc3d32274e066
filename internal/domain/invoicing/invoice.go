package invoicing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/inventory"
	"github.com/partshop/backend/internal/domain/partner"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceType is PURCHASE or SALE
type InvoiceType string

const (
	InvoiceTypePurchase InvoiceType = "PURCHASE"
	InvoiceTypeSale     InvoiceType = "SALE"
)

// IsValid checks if the type is known
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypePurchase || t == InvoiceTypeSale
}

// LedgerDirection is IN for purchases and OUT for sales
func (t InvoiceType) LedgerDirection() inventory.Direction {
	if t == InvoiceTypePurchase {
		return inventory.DirectionIn
	}
	return inventory.DirectionOut
}

// CounterpartyKind is the party kind an invoice of this type must reference
func (t InvoiceType) CounterpartyKind() partner.PartyKind {
	if t == InvoiceTypePurchase {
		return partner.PartyKindSupplier
	}
	return partner.PartyKindCustomer
}

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSubmitted InvoiceStatus = "SUBMITTED"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid checks if the status is known
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSubmitted, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// PartSnapshot is the part data copied onto a line when it is written
type PartSnapshot struct {
	PartID     uuid.UUID
	PartNumber string
	ItemName   string
	HSNCode    string
	Unit       string
}

// InvoiceItem is one line of an invoice
type InvoiceItem struct {
	ID         uuid.UUID
	InvoiceID  uuid.UUID
	PartID     uuid.UUID
	PartNumber string
	ItemName   string
	HSNCode    string
	Unit       string
	Quantity   int64
	Rate       decimal.Decimal
	Amount     decimal.Decimal
	CreatedAt  time.Time
}

// NewInvoiceItem creates a line and snapshots HSN and unit from the part
func NewInvoiceItem(invoiceID uuid.UUID, part PartSnapshot, quantity int64, rate decimal.Decimal) (*InvoiceItem, error) {
	if part.PartID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PART", "Part ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if rate.IsNegative() {
		return nil, shared.NewValidationError("INVALID_RATE", "Rate cannot be negative")
	}
	line := LineAmount{Quantity: quantity, Rate: rate}
	return &InvoiceItem{
		ID:         uuid.New(),
		InvoiceID:  invoiceID,
		PartID:     part.PartID,
		PartNumber: part.PartNumber,
		ItemName:   part.ItemName,
		HSNCode:    part.HSNCode,
		Unit:       part.Unit,
		Quantity:   quantity,
		Rate:       rate,
		Amount:     line.Amount(),
		CreatedAt:  time.Now(),
	}, nil
}

// LedgerEntry builds the stock movement this line implies for an invoice of type typ
func (i *InvoiceItem) LedgerEntry(typ InvoiceType) (*inventory.LedgerEntry, error) {
	entry, err := inventory.NewLedgerEntry(i.PartID, typ.LedgerDirection(), i.Quantity, inventory.ReasonInvoice)
	if err != nil {
		return nil, err
	}
	return entry.ForInvoiceLine(i.InvoiceID, i.ID), nil
}

// Payment holds the settlement fields of an invoice
type Payment struct {
	Status PaymentStatus
	Paid   decimal.Decimal
	Due    decimal.Decimal
	Date   *time.Time
	Method string
	Note   string
}

// Shipping holds delivery metadata
type Shipping struct {
	VehicleNumber   string
	Transport       string
	DeliveryNote    string
	ShippingAddress string
}

// Invoice is the aggregate root of a purchase or sale
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string
	Type          InvoiceType
	Date          time.Time
	Status        InvoiceStatus
	SupplierID    *uuid.UUID
	CustomerID    *uuid.UUID
	Totals
	Payment  Payment
	Shipping Shipping
	Notes    string
	Items    []InvoiceItem
}

// Header carries the caller-controlled header fields of an invoice
type Header struct {
	Type           InvoiceType
	InvoiceNumber  string
	Date           time.Time
	CounterpartyID uuid.UUID
	Status         InvoiceStatus
	Shipping       Shipping
	Notes          string
}

// NewInvoice creates a new invoice header. Lines and totals are applied separately.
func NewInvoice(h Header) (*Invoice, error) {
	inv := &Invoice{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if h.Status == "" {
		h.Status = InvoiceStatusDraft
	}
	if err := inv.applyHeader(h); err != nil {
		return nil, err
	}
	return inv, nil
}

// Revise replaces the header fields during an update. Status is kept.
func (inv *Invoice) Revise(h Header) error {
	h.Status = inv.Status
	if err := inv.applyHeader(h); err != nil {
		return err
	}
	inv.Touch()
	inv.IncrementVersion()
	return nil
}

func (inv *Invoice) applyHeader(h Header) error {
	if !h.Type.IsValid() {
		return shared.NewValidationError("INVALID_INVOICE_TYPE", "Invoice type must be PURCHASE or SALE")
	}
	if !h.Status.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", "Unknown invoice status")
	}
	number := strings.TrimSpace(h.InvoiceNumber)
	if number == "" {
		return shared.NewValidationError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(number) > 50 {
		return shared.NewValidationError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if h.Date.IsZero() {
		return shared.NewValidationError("INVALID_DATE", "Invoice date is required")
	}
	if h.CounterpartyID == uuid.Nil {
		if h.Type == InvoiceTypePurchase {
			return shared.NewValidationError("SUPPLIER_REQUIRED", "Purchase invoices require a supplier")
		}
		return shared.NewValidationError("CUSTOMER_REQUIRED", "Sale invoices require a customer")
	}

	inv.Type = h.Type
	inv.InvoiceNumber = number
	inv.Date = h.Date
	inv.Status = h.Status
	inv.Shipping = h.Shipping
	inv.Notes = strings.TrimSpace(h.Notes)
	counterparty := h.CounterpartyID
	if h.Type == InvoiceTypePurchase {
		inv.SupplierID, inv.CustomerID = &counterparty, nil
	} else {
		inv.CustomerID, inv.SupplierID = &counterparty, nil
	}
	return nil
}

// CounterpartyID returns the supplier for purchases and the customer for sales
func (inv *Invoice) CounterpartyID() uuid.UUID {
	if inv.Type == InvoiceTypePurchase && inv.SupplierID != nil {
		return *inv.SupplierID
	}
	if inv.Type == InvoiceTypeSale && inv.CustomerID != nil {
		return *inv.CustomerID
	}
	return uuid.Nil
}

// SetItems replaces the lines and recomputes every total
func (inv *Invoice) SetItems(items []InvoiceItem, discount Discount, tax TaxRates) error {
	if len(items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Invoice requires at least one item")
	}
	lines := make([]LineAmount, len(items))
	for i := range items {
		items[i].InvoiceID = inv.ID
		lines[i] = LineAmount{Quantity: items[i].Quantity, Rate: items[i].Rate}
	}
	totals, err := ComputeTotals(lines, discount, tax)
	if err != nil {
		return err
	}
	inv.Items = items
	inv.Totals = totals
	inv.settle()
	return nil
}

// RecordPayment sets the payment fields and derives due amount and payment status
func (inv *Invoice) RecordPayment(paid decimal.Decimal, date *time.Time, method, note string) {
	inv.Payment.Paid = paid
	inv.Payment.Date = date
	inv.Payment.Method = strings.TrimSpace(method)
	inv.Payment.Note = strings.TrimSpace(note)
	inv.settle()
}

func (inv *Invoice) settle() {
	inv.Payment.Paid, inv.Payment.Due, inv.Payment.Status = SettlePayment(inv.Total, inv.Payment.Paid)
}

// LedgerEntries builds one movement per line
func (inv *Invoice) LedgerEntries(actor uuid.UUID) ([]*inventory.LedgerEntry, error) {
	entries := make([]*inventory.LedgerEntry, 0, len(inv.Items))
	for i := range inv.Items {
		e, err := inv.Items[i].LedgerEntry(inv.Type)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e.WithCreatedBy(actor))
	}
	return entries, nil
}

// PartIDs returns the distinct parts referenced by the lines
func (inv *Invoice) PartIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(inv.Items))
	ids := make([]uuid.UUID, 0, len(inv.Items))
	for _, item := range inv.Items {
		if _, ok := seen[item.PartID]; ok {
			continue
		}
		seen[item.PartID] = struct{}{}
		ids = append(ids, item.PartID)
	}
	return ids
}

// EnsureEditable allows edits on DRAFT, and on SUBMITTED only with the override flag
func (inv *Invoice) EnsureEditable(allowSubmitted bool) error {
	if inv.Status == InvoiceStatusDraft {
		return nil
	}
	if inv.Status == InvoiceStatusSubmitted && allowSubmitted {
		return nil
	}
	return shared.NewInvalidStateError("INVOICE_NOT_EDITABLE",
		"Invoice "+inv.InvoiceNumber+" is "+string(inv.Status)+" and cannot be edited").
		WithDetail("status", inv.Status)
}

// EnsureDeletable allows deleting DRAFT invoices, or any invoice when forced
func (inv *Invoice) EnsureDeletable(force bool) error {
	if inv.Status == InvoiceStatusDraft || force {
		return nil
	}
	return shared.NewInvalidStateError("INVOICE_NOT_DELETABLE",
		"Invoice "+inv.InvoiceNumber+" is "+string(inv.Status)+" and cannot be deleted").
		WithDetail("status", inv.Status)
}
