package shared

import "github.com/google/uuid"

// BaseAggregateRoot adds an optimistic version and audit stamps to an entity.
// Parts, parties and invoice headers embed it.
type BaseAggregateRoot struct {
	BaseEntity
	Version   int
	CreatedBy *uuid.UUID
	UpdatedBy *uuid.UUID
}

// NewBaseAggregateRoot starts a new aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion records one more mutation
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// StampCreatedBy records the creating caller. uuid.Nil leaves the stamps unset.
func (a *BaseAggregateRoot) StampCreatedBy(actor uuid.UUID) {
	if actor == uuid.Nil {
		return
	}
	a.CreatedBy = &actor
	a.UpdatedBy = &actor
}

// StampUpdatedBy records the caller of the latest change
func (a *BaseAggregateRoot) StampUpdatedBy(actor uuid.UUID) {
	if actor == uuid.Nil {
		return
	}
	a.UpdatedBy = &actor
}
