package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/catalog"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errPartNotFound = shared.NewNotFoundError("PART_NOT_FOUND", "Part not found")

// GormPartRepository implements catalog.PartRepository using GORM
type GormPartRepository struct {
	db *gorm.DB
}

// NewGormPartRepository creates a new GormPartRepository
func NewGormPartRepository(db *gorm.DB) *GormPartRepository {
	return &GormPartRepository{db: db}
}

// FindByID finds a live part by its ID
func (r *GormPartRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Part, error) {
	var m models.PartModel
	if err := r.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&m).Error; err != nil {
		return nil, translateError(err, errPartNotFound)
	}
	return m.ToDomain(), nil
}

// FindByIDIncludingDeleted finds a part regardless of its tombstone
func (r *GormPartRepository) FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*catalog.Part, error) {
	var m models.PartModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError(err, errPartNotFound)
	}
	return m.ToDomain(), nil
}

// FindByPartNumber finds a part by part number, deleted or not
func (r *GormPartRepository) FindByPartNumber(ctx context.Context, partNumber string) (*catalog.Part, error) {
	var m models.PartModel
	if err := r.db.WithContext(ctx).Where("part_number = ?", catalog.NormalizePartNumber(partNumber)).First(&m).Error; err != nil {
		return nil, translateError(err, errPartNotFound)
	}
	return m.ToDomain(), nil
}

// FindByIDsIncludingDeleted loads several parts in one query
func (r *GormPartRepository) FindByIDsIncludingDeleted(ctx context.Context, ids []uuid.UUID) ([]catalog.Part, error) {
	if len(ids) == 0 {
		return []catalog.Part{}, nil
	}
	var rows []models.PartModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return partsToDomain(rows), nil
}

// LockByIDs row-locks parts in id order so concurrent writers acquire locks
// in the same sequence.
func (r *GormPartRepository) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Part, error) {
	if len(ids) == 0 {
		return []catalog.Part{}, nil
	}
	var rows []models.PartModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return partsToDomain(rows), nil
}

// FindAll lists parts matching the filter and returns the total count
func (r *GormPartRepository) FindAll(ctx context.Context, filter catalog.PartFilter) ([]catalog.Part, int64, error) {
	f := filter.Filter.Normalize()

	var total int64
	countQuery := r.applyFilter(r.db.WithContext(ctx).Model(&models.PartModel{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, translateError(err, nil)
	}

	var rows []models.PartModel
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PartModel{}), filter).
		Order(orderClause(f.OrderBy, f.OrderDir, PartSortFields, "part_number")).
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, nil)
	}
	return partsToDomain(rows), total, nil
}

// ListAll returns every matching part in sort order without paging
func (r *GormPartRepository) ListAll(ctx context.Context, filter catalog.PartFilter) ([]catalog.Part, error) {
	f := filter.Filter.Normalize()
	var rows []models.PartModel
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PartModel{}), filter).
		Order(orderClause(f.OrderBy, f.OrderDir, PartSortFields, "part_number")).
		Find(&rows).Error; err != nil {
		return nil, translateError(err, nil)
	}
	return partsToDomain(rows), nil
}

// Save creates or updates a part
func (r *GormPartRepository) Save(ctx context.Context, part *catalog.Part) error {
	m := models.PartModelFromDomain(part)
	return translateError(r.db.WithContext(ctx).Save(m).Error, nil)
}

// Count counts live parts
func (r *GormPartRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PartModel{}).Where("is_deleted = ?", false).Count(&count).Error; err != nil {
		return 0, translateError(err, nil)
	}
	return count, nil
}

func (r *GormPartRepository) applyFilter(query *gorm.DB, filter catalog.PartFilter) *gorm.DB {
	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(part_number) LIKE ? OR LOWER(item_name) LIKE ? OR barcode = ?", like, like, filter.Search)
	}
	if filter.HSNCode != "" {
		query = query.Where("hsn_code = ?", filter.HSNCode)
	}
	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	return query
}

func partsToDomain(rows []models.PartModel) []catalog.Part {
	parts := make([]catalog.Part, len(rows))
	for i := range rows {
		parts[i] = *rows[i].ToDomain()
	}
	return parts
}

var _ catalog.PartRepository = (*GormPartRepository)(nil)
