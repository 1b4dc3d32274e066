package event

import (
	"context"

	"github.com/partshop/backend/internal/domain/inventory"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditLogHandler writes one structured log line per committed write
type AuditLogHandler struct {
	logger *zap.Logger
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logger *zap.Logger) *AuditLogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLogHandler{logger: logger.Named("audit")}
}

// EventTypes subscribes to every event
func (h *AuditLogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event with its actor and the fields that identify it
func (h *AuditLogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("actor_id", event.ActorID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}
	switch e := event.(type) {
	case *invoicing.InvoiceEvent:
		fields = append(fields,
			zap.String("invoice_id", e.InvoiceID.String()),
			zap.String("invoice_number", e.InvoiceNumber),
			zap.String("invoice_type", string(e.InvoiceType)),
			zap.String("status", string(e.Status)))
	case *invoicing.BulkStatusChangedEvent:
		fields = append(fields,
			zap.Int("invoices", len(e.InvoiceIDs)),
			zap.Int64("updated", e.Updated),
			zap.String("status", string(e.Status)))
	case *inventory.StockAdjustedEvent:
		fields = append(fields,
			zap.String("part_id", e.PartID.String()),
			zap.Int64("previous_stock", e.PreviousStock),
			zap.Int64("new_stock", e.NewStock),
			zap.Int64("delta", e.Delta))
	}
	h.logger.Info("Write committed", fields...)
	return nil
}
