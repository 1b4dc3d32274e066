package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/catalog"
	"github.com/partshop/backend/internal/domain/inventory"
	"github.com/partshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AdjustmentRecorder counts stock adjustments
type AdjustmentRecorder interface {
	RecordStockAdjustment(ctx context.Context, delta int64)
}

// StockService answers stock queries from the ledger and records count corrections
type StockService struct {
	txScope        TransactionScope
	partRepo       catalog.PartRepository
	ledgerRepo     inventory.LedgerRepository
	eventPublisher shared.EventPublisher
	cache          shared.ReadCache
	cacheTTL       time.Duration
	metrics        AdjustmentRecorder
	logger         *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(txScope TransactionScope, partRepo catalog.PartRepository, ledgerRepo inventory.LedgerRepository) *StockService {
	return &StockService{
		txScope:    txScope,
		partRepo:   partRepo,
		ledgerRepo: ledgerRepo,
		cacheTTL:   time.Minute,
		logger:     zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for post-commit events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetCache enables read-through caching of stock reads
func (s *StockService) SetCache(cache shared.ReadCache, ttl time.Duration) {
	s.cache = cache
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// SetMetrics sets the adjustment recorder
func (s *StockService) SetMetrics(metrics AdjustmentRecorder) {
	s.metrics = metrics
}

// SetLogger sets the logger
func (s *StockService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// GetStock returns one part's stock. Deleted parts are still reported.
func (s *StockService) GetStock(ctx context.Context, partID uuid.UUID) (*StockResponse, error) {
	key := shared.CachePrefixStock + "part:" + partID.String()
	return shared.ReadThrough(ctx, s.cache, key, s.cacheTTL, func() (*StockResponse, error) {
		part, err := s.partRepo.FindByIDIncludingDeleted(ctx, partID)
		if err != nil {
			return nil, err
		}
		level, err := s.ledgerRepo.CurrentStock(ctx, partID)
		if err != nil {
			return nil, err
		}
		resp := ToStockResponse(part, level)
		return &resp, nil
	})
}

// ListStock pages through parts with their stock. It issues the part
// query(s) and exactly one ledger aggregate, whatever the page size.
func (s *StockService) ListStock(ctx context.Context, filter StockListFilter) (*StockPage, error) {
	return shared.ReadThrough(ctx, s.cache, filter.cacheKey(), s.cacheTTL, func() (*StockPage, error) {
		if filter.LowStockOnly {
			return s.listLowStock(ctx, filter)
		}
		parts, total, err := s.partRepo.FindAll(ctx, filter.toPartFilter())
		if err != nil {
			return nil, err
		}
		items, err := s.withLevels(ctx, parts, partIDs(parts))
		if err != nil {
			return nil, err
		}
		return &StockPage{Items: items, Total: total}, nil
	})
}

// listLowStock filters on derived stock, so paging happens after projection
func (s *StockService) listLowStock(ctx context.Context, filter StockListFilter) (*StockPage, error) {
	pf := filter.toPartFilter()
	parts, err := s.partRepo.ListAll(ctx, pf)
	if err != nil {
		return nil, err
	}
	all, err := s.withLevels(ctx, parts, nil)
	if err != nil {
		return nil, err
	}
	low := make([]StockResponse, 0)
	for _, item := range all {
		if item.LowStock {
			low = append(low, item)
		}
	}

	page := pf.Filter.Normalize()
	start := min(page.Offset(), len(low))
	end := min(start+page.PageSize, len(low))
	return &StockPage{Items: low[start:end], Total: int64(len(low))}, nil
}

// Snapshot returns every matching part with its stock, unpaged
func (s *StockService) Snapshot(ctx context.Context, filter StockListFilter) ([]StockResponse, error) {
	parts, err := s.partRepo.ListAll(ctx, filter.toPartFilter())
	if err != nil {
		return nil, err
	}
	items, err := s.withLevels(ctx, parts, nil)
	if err != nil {
		return nil, err
	}
	if !filter.LowStockOnly {
		return items, nil
	}
	low := make([]StockResponse, 0, len(items))
	for _, item := range items {
		if item.LowStock {
			low = append(low, item)
		}
	}
	return low, nil
}

// withLevels joins parts with one BulkStock call. A nil ids slice
// aggregates the whole ledger, which beats a huge IN list.
func (s *StockService) withLevels(ctx context.Context, parts []catalog.Part, ids []uuid.UUID) ([]StockResponse, error) {
	if ids == nil && len(parts) == 0 {
		return []StockResponse{}, nil
	}
	levels, err := s.ledgerRepo.BulkStock(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]StockResponse, len(parts))
	for i := range parts {
		items[i] = ToStockResponse(&parts[i], levels[parts[i].ID])
	}
	return items, nil
}

// AdjustStock records one corrective entry moving the part to target.
// Concurrent adjustments of the same part serialise on the part row lock.
func (s *StockService) AdjustStock(ctx context.Context, partID uuid.UUID, req AdjustStockRequest) (*AdjustStockResult, error) {
	if req.TargetQuantity < 0 {
		return nil, shared.NewValidationError("INVALID_TARGET_QUANTITY", "Target quantity cannot be negative")
	}
	actor := shared.ActorFromContext(ctx).ID
	note := strings.TrimSpace(req.Note)

	result := &AdjustStockResult{PartID: partID}
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		parts, err := repos.PartRepo().LockByIDs(ctx, []uuid.UUID{partID})
		if err != nil {
			return err
		}
		if len(parts) == 0 || parts[0].IsDeleted {
			return shared.NewNotFoundError("PART_NOT_FOUND", "Part not found").WithDetail("part_id", partID)
		}

		current, err := repos.LedgerRepo().CurrentStock(ctx, partID)
		if err != nil {
			return err
		}
		entry, delta, err := inventory.Adjustment(partID, current, req.TargetQuantity)
		if err != nil {
			return err
		}
		result.PreviousStock = current.Stock()
		result.NewStock = req.TargetQuantity
		result.AdjustmentDelta = delta
		if entry == nil {
			return nil
		}
		if note == "" {
			note = "Stock adjustment"
		}
		entry.WithNote(note).WithCreatedBy(actor)
		result.EntryID = &entry.ID
		return repos.LedgerRepo().Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	if result.AdjustmentDelta != 0 {
		if s.eventPublisher != nil {
			event := inventory.NewStockAdjustedEvent(partID, actor, result.PreviousStock, result.NewStock, result.AdjustmentDelta)
			if err := s.eventPublisher.Publish(ctx, event); err != nil {
				s.logger.Warn("Failed to publish stock adjustment", zap.Error(err))
			}
		}
		if s.metrics != nil {
			s.metrics.RecordStockAdjustment(ctx, result.AdjustmentDelta)
		}
		s.logger.Info("Stock adjusted",
			zap.String("part_id", partID.String()),
			zap.Int64("previous", result.PreviousStock),
			zap.Int64("new", result.NewStock),
			zap.Int64("delta", result.AdjustmentDelta))
	}
	return result, nil
}

// Ledger pages through a part's movement history, newest first
func (s *StockService) Ledger(ctx context.Context, partID uuid.UUID, filter LedgerListFilter) ([]LedgerEntryResponse, int64, error) {
	if _, err := s.partRepo.FindByIDIncludingDeleted(ctx, partID); err != nil {
		return nil, 0, err
	}
	entries, total, err := s.ledgerRepo.ListByPart(ctx, partID, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToLedgerEntryResponse(&entries[i])
	}
	return out, total, nil
}

func partIDs(parts []catalog.Part) []uuid.UUID {
	ids := make([]uuid.UUID, len(parts))
	for i := range parts {
		ids[i] = parts[i].ID
	}
	return ids
}
