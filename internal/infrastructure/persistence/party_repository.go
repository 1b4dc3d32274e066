package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/partner"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var errPartyNotFound = shared.NewNotFoundError("PARTY_NOT_FOUND", "Party not found")

// GormPartyRepository implements partner.PartyRepository using GORM
type GormPartyRepository struct {
	db *gorm.DB
}

// NewGormPartyRepository creates a new GormPartyRepository
func NewGormPartyRepository(db *gorm.DB) *GormPartyRepository {
	return &GormPartyRepository{db: db}
}

// FindByID finds a live party
func (r *GormPartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Party, error) {
	var m models.PartyModel
	if err := r.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&m).Error; err != nil {
		return nil, translateError(err, errPartyNotFound)
	}
	return m.ToDomain(), nil
}

// FindByIDIncludingDeleted finds a party regardless of its tombstone
func (r *GormPartyRepository) FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*partner.Party, error) {
	var m models.PartyModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError(err, errPartyNotFound)
	}
	return m.ToDomain(), nil
}

// FindAll lists parties
func (r *GormPartyRepository) FindAll(ctx context.Context, filter partner.PartyFilter) ([]partner.Party, int64, error) {
	f := filter.Filter.Normalize()

	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PartyModel{}), filter).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, nil)
	}

	var rows []models.PartyModel
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.PartyModel{}), filter).
		Order(orderClause(f.OrderBy, f.OrderDir, PartySortFields, "name")).
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, nil)
	}

	parties := make([]partner.Party, len(rows))
	for i := range rows {
		parties[i] = *rows[i].ToDomain()
	}
	return parties, total, nil
}

// Save creates or updates a party
func (r *GormPartyRepository) Save(ctx context.Context, party *partner.Party) error {
	return translateError(r.db.WithContext(ctx).Save(models.PartyModelFromDomain(party)).Error, nil)
}

func (r *GormPartyRepository) applyFilter(query *gorm.DB, filter partner.PartyFilter) *gorm.DB {
	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		like := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(gstin) LIKE ? OR phone LIKE ?", like, like, like)
	}
	return query
}

var _ partner.PartyRepository = (*GormPartyRepository)(nil)
