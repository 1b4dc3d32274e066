package inventory

import (
	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/shared"
)

// AggregateTypePart is the aggregate type used by stock events
const AggregateTypePart = "Part"

// EventTypeStockAdjusted is raised after a corrective ledger entry commits
const EventTypeStockAdjusted = "stock.adjusted"

// StockAdjustedEvent is raised when a stock count correction is recorded
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	PartID        uuid.UUID `json:"part_id"`
	PreviousStock int64     `json:"previous_stock"`
	NewStock      int64     `json:"new_stock"`
	Delta         int64     `json:"delta"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(partID, actor uuid.UUID, previous, current, delta int64) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypePart, partID, actor),
		PartID:          partID,
		PreviousStock:   previous,
		NewStock:        current,
		Delta:           delta,
	}
}
