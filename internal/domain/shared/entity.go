package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps a fresh id and creation time
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch bumps UpdatedAt
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// SoftDeletable is embedded by master data that is tombstoned instead of removed.
// Ledger rows and invoices are never soft deleted.
type SoftDeletable struct {
	IsDeleted bool
	DeletedAt *time.Time
}

// MarkDeleted tombstones the record
func (s *SoftDeletable) MarkDeleted() {
	now := time.Now()
	s.IsDeleted = true
	s.DeletedAt = &now
}

// Restore clears the tombstone
func (s *SoftDeletable) Restore() {
	s.IsDeleted = false
	s.DeletedAt = nil
}
