package inventory

import "github.com/google/uuid"

// StockLevel is the projection of a part's ledger
type StockLevel struct {
	Incoming int64 `json:"incoming"`
	Outgoing int64 `json:"outgoing"`
}

// Stock returns Incoming - Outgoing. A negative value means the part was oversold.
func (s StockLevel) Stock() int64 {
	return s.Incoming - s.Outgoing
}

// Apply folds one entry into the level
func (s StockLevel) Apply(e LedgerEntry) StockLevel {
	switch e.Direction {
	case DirectionIn:
		s.Incoming += e.Quantity
	case DirectionOut:
		s.Outgoing += e.Quantity
	}
	return s
}

// Project reduces a ledger into per-part stock levels in one pass
func Project(entries []LedgerEntry) map[uuid.UUID]StockLevel {
	levels := make(map[uuid.UUID]StockLevel)
	for _, e := range entries {
		levels[e.PartID] = levels[e.PartID].Apply(e)
	}
	return levels
}

// Adjustment computes the corrective entry that moves current stock to target.
// It returns nil when no movement is needed.
func Adjustment(partID uuid.UUID, current StockLevel, target int64) (*LedgerEntry, int64, error) {
	delta := target - current.Stock()
	switch {
	case delta > 0:
		e, err := NewLedgerEntry(partID, DirectionIn, delta, ReasonAdjustment)
		return e, delta, err
	case delta < 0:
		e, err := NewLedgerEntry(partID, DirectionOut, -delta, ReasonAdjustment)
		return e, delta, err
	}
	return nil, 0, nil
}
