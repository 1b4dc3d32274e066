package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/report"
	"github.com/partshop/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository using GORM. Queries are
// plain SQL aggregates that run unchanged on PostgreSQL and SQLite.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// TotalsByTypeAndStatus groups live invoices by type and status
func (r *GormReportRepository) TotalsByTypeAndStatus(ctx context.Context, dr report.DateRange) ([]report.TypeStatusTotals, error) {
	type totalsRow struct {
		Type         invoicing.InvoiceType
		Status       invoicing.InvoiceStatus
		InvoiceCount int64
		Total        decimal.Decimal
		TaxableValue decimal.Decimal
		TaxAmount    decimal.Decimal
		Paid         decimal.Decimal
		Due          decimal.Decimal
	}

	var rows []totalsRow
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Select(`
			type, status,
			COUNT(*) AS invoice_count,
			COALESCE(SUM(total), 0) AS total,
			COALESCE(SUM(taxable_value), 0) AS taxable_value,
			COALESCE(SUM(cgst_amount + sgst_amount), 0) AS tax_amount,
			COALESCE(SUM(paid_amount), 0) AS paid,
			COALESCE(SUM(due_amount), 0) AS due
		`).
		Where("status <> ?", invoicing.InvoiceStatusCancelled)
	if err := withinRange(query, "invoice_date", dr).
		Group("type, status").
		Order("type ASC, status ASC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}

	out := make([]report.TypeStatusTotals, len(rows))
	for i, row := range rows {
		out[i] = report.TypeStatusTotals{
			Type:         row.Type,
			Status:       row.Status,
			Count:        row.InvoiceCount,
			Total:        row.Total,
			TaxableValue: row.TaxableValue,
			TaxAmount:    row.TaxAmount,
			Paid:         row.Paid,
			Due:          row.Due,
		}
	}
	return out, nil
}

// InvoiceFacts loads the header columns the rollups bucket in memory
func (r *GormReportRepository) InvoiceFacts(ctx context.Context, typ invoicing.InvoiceType, dr report.DateRange) ([]report.InvoiceFact, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Select("invoice_date, type, status, total, taxable_value, paid_amount, payment_date").
		Where("status <> ?", invoicing.InvoiceStatusCancelled)
	if typ != "" {
		query = query.Where("type = ?", typ)
	}

	var rows []models.InvoiceModel
	if err := withinRange(query, "invoice_date", dr).
		Order("invoice_date ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}

	facts := make([]report.InvoiceFact, len(rows))
	for i, row := range rows {
		facts[i] = report.InvoiceFact{
			Date:         row.Date,
			Type:         row.Type,
			Status:       row.Status,
			Total:        row.Total,
			TaxableValue: row.TaxableValue,
			Paid:         row.PaidAmount,
			PaymentDate:  row.PaymentDate,
		}
	}
	return facts, nil
}

// TopParts ranks by quantity, then amount, using the snapshot on each line
func (r *GormReportRepository) TopParts(ctx context.Context, typ invoicing.InvoiceType, dr report.DateRange, limit int) ([]report.PartRanking, error) {
	type rankingRow struct {
		PartID       uuid.UUID
		PartNumber   string
		ItemName     string
		Quantity     int64
		Amount       decimal.Decimal
		InvoiceCount int64
	}

	query := r.db.WithContext(ctx).Table("invoice_items ii").
		Select(`
			ii.part_id,
			MAX(ii.part_number) AS part_number,
			MAX(ii.item_name) AS item_name,
			COALESCE(SUM(ii.quantity), 0) AS quantity,
			COALESCE(SUM(ii.amount), 0) AS amount,
			COUNT(DISTINCT ii.invoice_id) AS invoice_count
		`).
		Joins("JOIN invoices i ON i.id = ii.invoice_id").
		Where("i.type = ?", typ).
		Where("i.status <> ?", invoicing.InvoiceStatusCancelled)

	var rows []rankingRow
	if err := withinRange(query, "i.invoice_date", dr).
		Group("ii.part_id").
		Order("quantity DESC, amount DESC, ii.part_id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}

	out := make([]report.PartRanking, len(rows))
	for i, row := range rows {
		out[i] = report.PartRanking{
			PartID:       row.PartID,
			PartNumber:   row.PartNumber,
			ItemName:     row.ItemName,
			Quantity:     row.Quantity,
			Amount:       row.Amount,
			InvoiceCount: row.InvoiceCount,
		}
	}
	return report.Rank(out), nil
}

// StockPositions left-joins parts with the aggregated ledger in one query
func (r *GormReportRepository) StockPositions(ctx context.Context, asOf time.Time) ([]report.StockPosition, error) {
	type positionRow struct {
		PartID    uuid.UUID
		MRP       decimal.Decimal `gorm:"column:mrp"`
		MinStock  int64
		IsDeleted bool
		Incoming  int64
		Outgoing  int64
	}

	ledger := withinRange(r.db.Model(&models.LedgerEntryModel{}), "created_at", report.DateRange{To: asOf}).
		Select(stockAggregateColumns).
		Group("part_id")

	var rows []positionRow
	if err := r.db.WithContext(ctx).Table("parts p").
		Select(`
			p.id AS part_id, p.mrp, p.min_stock, p.is_deleted,
			COALESCE(l.incoming, 0) AS incoming,
			COALESCE(l.outgoing, 0) AS outgoing
		`).
		Joins("LEFT JOIN (?) l ON l.part_id = p.id", ledger).
		Order("p.part_number ASC").
		Scan(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}

	out := make([]report.StockPosition, len(rows))
	for i, row := range rows {
		out[i] = report.StockPosition{
			PartID:   row.PartID,
			MRP:      row.MRP,
			MinStock: row.MinStock,
			Incoming: row.Incoming,
			Outgoing: row.Outgoing,
			Deleted:  row.IsDeleted,
		}
	}
	return out, nil
}

func withinRange(query *gorm.DB, column string, dr report.DateRange) *gorm.DB {
	if !dr.From.IsZero() {
		query = query.Where(column+" >= ?", dr.From)
	}
	if !dr.To.IsZero() {
		query = query.Where(column+" <= ?", endOfDay(dr.To))
	}
	return query
}

// endOfDay widens a date-only upper bound to the last instant of that day
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

var _ report.Repository = (*GormReportRepository)(nil)
