package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/inventory"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const stockAggregateColumns = "part_id, " +
	"COALESCE(SUM(CASE WHEN direction = 'IN' THEN quantity ELSE 0 END), 0) AS incoming, " +
	"COALESCE(SUM(CASE WHEN direction = 'OUT' THEN quantity ELSE 0 END), 0) AS outgoing"

type stockRow struct {
	PartID   uuid.UUID
	Incoming int64
	Outgoing int64
}

// GormLedgerRepository implements inventory.LedgerRepository using GORM.
// It has no update path: entries are inserted, or deleted together with
// the invoice lines that produced them.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append inserts entries in one batch
func (r *GormLedgerRepository) Append(ctx context.Context, entries ...*inventory.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.LedgerEntryModel, len(entries))
	for i, e := range entries {
		rows[i] = models.LedgerEntryModelFromDomain(e)
	}
	return translateError(r.db.WithContext(ctx).Create(&rows).Error, nil)
}

// CurrentStock aggregates one part's ledger
func (r *GormLedgerRepository) CurrentStock(ctx context.Context, partID uuid.UUID) (inventory.StockLevel, error) {
	var rows []stockRow
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntryModel{}).
		Select(stockAggregateColumns).
		Where("part_id = ?", partID).
		Group("part_id").
		Scan(&rows).Error; err != nil {
		return inventory.StockLevel{}, translateError(err, nil)
	}
	if len(rows) == 0 {
		return inventory.StockLevel{}, nil
	}
	return inventory.StockLevel{Incoming: rows[0].Incoming, Outgoing: rows[0].Outgoing}, nil
}

// BulkStock aggregates the ledger of many parts with a single GROUP BY query.
// Parts without entries are absent from the map.
func (r *GormLedgerRepository) BulkStock(ctx context.Context, partIDs []uuid.UUID) (map[uuid.UUID]inventory.StockLevel, error) {
	levels := make(map[uuid.UUID]inventory.StockLevel, len(partIDs))
	if partIDs != nil && len(partIDs) == 0 {
		return levels, nil
	}

	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).Select(stockAggregateColumns)
	if partIDs != nil {
		query = query.Where("part_id IN ?", partIDs)
	}
	var rows []stockRow
	if err := query.Group("part_id").Scan(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}
	for _, row := range rows {
		levels[row.PartID] = inventory.StockLevel{Incoming: row.Incoming, Outgoing: row.Outgoing}
	}
	return levels, nil
}

// DeleteByInvoice removes the entries generated by an invoice's lines
func (r *GormLedgerRepository) DeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return translateError(r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&models.LedgerEntryModel{}).Error, nil)
}

// DeleteByInvoices removes the entries generated by several invoices
func (r *GormLedgerRepository) DeleteByInvoices(ctx context.Context, invoiceIDs []uuid.UUID) error {
	if len(invoiceIDs) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).
		Where("invoice_id IN ?", invoiceIDs).
		Delete(&models.LedgerEntryModel{}).Error, nil)
}

// ListByPart returns a part's movement history
func (r *GormLedgerRepository) ListByPart(ctx context.Context, partID uuid.UUID, filter shared.Filter) ([]inventory.LedgerEntry, int64, error) {
	f := filter.Normalize()

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Where("part_id = ?", partID).
		Count(&total).Error; err != nil {
		return nil, 0, translateError(err, nil)
	}

	var rows []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("part_id = ?", partID).
		Order(orderClause(f.OrderBy, f.OrderDir, LedgerSortFields, "created_at")).
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, nil)
	}
	return ledgerToDomain(rows), total, nil
}

// ListByInvoice returns the entries owned by an invoice
func (r *GormLedgerRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]inventory.LedgerEntry, error) {
	var rows []models.LedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return ledgerToDomain(rows), nil
}

func ledgerToDomain(rows []models.LedgerEntryModel) []inventory.LedgerEntry {
	entries := make([]inventory.LedgerEntry, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries
}

var _ inventory.LedgerRepository = (*GormLedgerRepository)(nil)
