package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/shared"
)

// BaseModel provides the id and timestamp columns shared by every table
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel extends BaseModel with version and attribution columns
type AggregateModel struct {
	BaseModel
	Version   int        `gorm:"not null;default:1"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainAggregateRoot populates AggregateModel from a domain aggregate
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
	m.CreatedBy = a.CreatedBy
	m.UpdatedBy = a.UpdatedBy
}

// ToDomainAggregateRoot builds the domain aggregate base
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Version:   m.Version,
		CreatedBy: m.CreatedBy,
		UpdatedBy: m.UpdatedBy,
	}
}

// SoftDeleteModel holds the tombstone columns of catalog tables.
// Rows are never removed so invoice history keeps resolving.
type SoftDeleteModel struct {
	IsDeleted bool `gorm:"not null;default:false;index"`
	DeletedAt *time.Time
}

// FromDomain populates the tombstone columns
func (m *SoftDeleteModel) FromDomain(s shared.SoftDeletable) {
	m.IsDeleted = s.IsDeleted
	m.DeletedAt = s.DeletedAt
}

// ToDomain builds the domain tombstone
func (m *SoftDeleteModel) ToDomain() shared.SoftDeletable {
	return shared.SoftDeletable{IsDeleted: m.IsDeleted, DeletedAt: m.DeletedAt}
}
