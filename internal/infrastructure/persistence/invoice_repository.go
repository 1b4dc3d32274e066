package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errInvoiceNotFound = shared.NewNotFoundError("INVOICE_NOT_FOUND", "Invoice not found")

// GormInvoiceRepository implements invoicing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID loads an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var m models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Where("id = ?", id).
		First(&m).Error; err != nil {
		return nil, translateError(err, errInvoiceNotFound)
	}
	return m.ToDomain(), nil
}

// FindByIDForUpdate row-locks the header then loads its items
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var m models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&m).Error; err != nil {
		return nil, translateError(err, errInvoiceNotFound)
	}
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Order("line_no ASC").
		Find(&m.Items).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return m.ToDomain(), nil
}

// FindHeadersByIDs loads headers without items
func (r *GormInvoiceRepository) FindHeadersByIDs(ctx context.Context, ids []uuid.UUID) ([]invoicing.Invoice, error) {
	if len(ids) == 0 {
		return []invoicing.Invoice{}, nil
	}
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return invoicesToDomain(rows), nil
}

// FindByNumber loads an invoice by its per-type number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, typ invoicing.InvoiceType, number string) (*invoicing.Invoice, error) {
	var m models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("line_no ASC") }).
		Where("type = ? AND invoice_number = ?", typ, strings.TrimSpace(number)).
		First(&m).Error; err != nil {
		return nil, translateError(err, errInvoiceNotFound)
	}
	return m.ToDomain(), nil
}

// ExistsByNumber checks the (number, type) pair, optionally ignoring one invoice
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, typ invoicing.InvoiceType, number string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("type = ? AND invoice_number = ?", typ, strings.TrimSpace(number))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, translateError(err, nil)
	}
	return count > 0, nil
}

// NumbersLike returns the numbers of a type matching a LIKE pattern
func (r *GormInvoiceRepository) NumbersLike(ctx context.Context, typ invoicing.InvoiceType, pattern string) ([]string, error) {
	var numbers []string
	if err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Where("type = ? AND invoice_number LIKE ?", typ, pattern).
		Pluck("invoice_number", &numbers).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return numbers, nil
}

// Create inserts the header and its items
func (r *GormInvoiceRepository) Create(ctx context.Context, inv *invoicing.Invoice) error {
	header := models.InvoiceModelFromDomain(inv)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(header).Error; err != nil {
		return translateError(err, nil)
	}
	return r.InsertItems(ctx, inv.Items)
}

// UpdateHeader writes every header column
func (r *GormInvoiceRepository) UpdateHeader(ctx context.Context, inv *invoicing.Invoice) error {
	header := models.InvoiceModelFromDomain(inv)
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(header)
	if result.Error != nil {
		return translateError(result.Error, nil)
	}
	return nil
}

// InsertItems inserts lines in their slice order
func (r *GormInvoiceRepository) InsertItems(ctx context.Context, items []invoicing.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]*models.InvoiceItemModel, len(items))
	for i := range items {
		rows[i] = models.InvoiceItemModelFromDomain(&items[i])
		rows[i].LineNo = i + 1
	}
	return translateError(r.db.WithContext(ctx).Create(&rows).Error, nil)
}

// DeleteItems removes every line of the given invoices
func (r *GormInvoiceRepository) DeleteItems(ctx context.Context, invoiceIDs ...uuid.UUID) error {
	if len(invoiceIDs) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).
		Where("invoice_id IN ?", invoiceIDs).
		Delete(&models.InvoiceItemModel{}).Error, nil)
}

// DeleteHeaders removes invoice headers
func (r *GormInvoiceRepository) DeleteHeaders(ctx context.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.InvoiceModel{}).Error, nil)
}

// UpdateStatus writes status on every listed invoice in one statement
func (r *GormInvoiceRepository) UpdateStatus(ctx context.Context, ids []uuid.UUID, status invoicing.InvoiceStatus, actor *uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now(),
		"version":    gorm.Expr("version + 1"),
	}
	if actor != nil {
		updates["updated_by"] = *actor
	}
	result := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("id IN ?", ids).Updates(updates)
	if result.Error != nil {
		return 0, translateError(result.Error, nil)
	}
	return result.RowsAffected, nil
}

// FindAll lists invoice headers
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter invoicing.InvoiceFilter) ([]invoicing.Invoice, int64, error) {
	f := filter.Filter.Normalize()

	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, nil)
	}

	var rows []models.InvoiceModel
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter).
		Order(orderClause(f.OrderBy, f.OrderDir, InvoiceSortFields, "invoice_date")).
		Order("invoice_number DESC").
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, nil)
	}
	return invoicesToDomain(rows), total, nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter invoicing.InvoiceFilter) *gorm.DB {
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("supplier_id = ? OR customer_id = ?", *filter.CounterpartyID, *filter.CounterpartyID)
	}
	if filter.From != nil {
		query = query.Where("invoice_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("invoice_date <= ?", *filter.To)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		query = query.Where("LOWER(invoice_number) LIKE ?", "%"+search+"%")
	}
	return query
}

func invoicesToDomain(rows []models.InvoiceModel) []invoicing.Invoice {
	invoices := make([]invoicing.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices
}

var _ invoicing.InvoiceRepository = (*GormInvoiceRepository)(nil)
