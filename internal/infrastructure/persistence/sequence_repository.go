package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSequenceRepository implements invoicing.SequenceRepository. It must be
// used on a transaction handle: the row lock taken by Claim lives until commit.
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Claim upserts the bucket row and locks it
func (r *GormSequenceRepository) Claim(ctx context.Context, bucket invoicing.Bucket) (int, error) {
	seed := models.InvoiceSequenceModel{
		ID:        uuid.New(),
		Type:      bucket.Type,
		Bucket:    bucket.Key(),
		UpdatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type"}, {Name: "bucket"}},
			DoNothing: true,
		}).
		Create(&seed).Error; err != nil {
		return 0, translateError(err, nil)
	}

	var row models.InvoiceSequenceModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("type = ? AND bucket = ?", bucket.Type, bucket.Key()).
		First(&row).Error; err != nil {
		return 0, translateError(err, nil)
	}
	return row.LastIssued, nil
}

// Record stores the sequence just issued
func (r *GormSequenceRepository) Record(ctx context.Context, bucket invoicing.Bucket, seq int) error {
	return translateError(r.db.WithContext(ctx).
		Model(&models.InvoiceSequenceModel{}).
		Where("type = ? AND bucket = ?", bucket.Type, bucket.Key()).
		Updates(map[string]any{"last_issued": seq, "updated_at": time.Now()}).Error, nil)
}

var _ invoicing.SequenceRepository = (*GormSequenceRepository)(nil)
