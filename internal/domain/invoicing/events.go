package invoicing

import (
	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/shared"
)

// AggregateTypeInvoice is the aggregate type for invoice events
const AggregateTypeInvoice = "Invoice"

// Event type constants
const (
	EventTypeInvoiceCreated       = "invoice.created"
	EventTypeInvoiceUpdated       = "invoice.updated"
	EventTypeInvoiceDeleted       = "invoice.deleted"
	EventTypeInvoiceStatusChanged = "invoice.status_changed"
)

// InvoiceEvent is raised after an invoice write commits
type InvoiceEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID     `json:"invoice_id"`
	InvoiceNumber string        `json:"invoice_number"`
	InvoiceType   InvoiceType   `json:"invoice_type"`
	Status        InvoiceStatus `json:"status"`
	PartIDs       []uuid.UUID   `json:"part_ids,omitempty"`
}

// NewInvoiceEvent creates an event of eventType describing inv
func NewInvoiceEvent(eventType string, inv *Invoice, actor uuid.UUID) *InvoiceEvent {
	return &InvoiceEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeInvoice, inv.ID, actor),
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceType:     inv.Type,
		Status:          inv.Status,
		PartIDs:         inv.PartIDs(),
	}
}

// BulkStatusChangedEvent is raised once for a bulk status write
type BulkStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceIDs []uuid.UUID   `json:"invoice_ids"`
	Status     InvoiceStatus `json:"status"`
	Updated    int64         `json:"updated"`
}

// NewBulkStatusChangedEvent creates a new BulkStatusChangedEvent
func NewBulkStatusChangedEvent(ids []uuid.UUID, status InvoiceStatus, updated int64, actor uuid.UUID) *BulkStatusChangedEvent {
	return &BulkStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, uuid.Nil, actor),
		InvoiceIDs:      ids,
		Status:          status,
		Updated:         updated,
	}
}
