package report

import (
	"context"

	"github.com/partshop/backend/internal/domain/inventory"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CacheInvalidationHandler drops derived read views after invoice and stock
// writes commit
type CacheInvalidationHandler struct {
	cache  shared.ReadCache
	logger *zap.Logger
}

// NewCacheInvalidationHandler creates a new CacheInvalidationHandler
func NewCacheInvalidationHandler(cache shared.ReadCache, logger *zap.Logger) *CacheInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheInvalidationHandler{cache: cache, logger: logger}
}

// EventTypes returns the write events that make cached views stale
func (h *CacheInvalidationHandler) EventTypes() []string {
	return []string{
		invoicing.EventTypeInvoiceCreated,
		invoicing.EventTypeInvoiceUpdated,
		invoicing.EventTypeInvoiceDeleted,
		invoicing.EventTypeInvoiceStatusChanged,
		inventory.EventTypeStockAdjusted,
	}
}

// Handle clears every report and stock view. Invoice writes also clear the
// invoice views.
func (h *CacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.cache == nil {
		return nil
	}
	prefixes := []string{shared.CachePrefixReport, shared.CachePrefixStock}
	if event.AggregateType() == invoicing.AggregateTypeInvoice {
		prefixes = append(prefixes, shared.CachePrefixInvoice)
	}
	if err := h.cache.DeletePrefix(ctx, prefixes...); err != nil {
		h.logger.Warn("Failed to invalidate read cache",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return err
	}
	h.logger.Debug("Read cache invalidated",
		zap.String("event_type", event.EventType()),
		zap.Strings("prefixes", prefixes))
	return nil
}
