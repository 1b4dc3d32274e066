package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/shared"
)

// PartRepository defines the interface for part persistence.
// Reads exclude soft-deleted parts unless the method name says otherwise.
type PartRepository interface {
	// FindByID finds a live part by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Part, error)

	// FindByIDIncludingDeleted finds a part regardless of its tombstone
	FindByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (*Part, error)

	// FindByPartNumber finds a part by part number, including deleted ones (upsert key)
	FindByPartNumber(ctx context.Context, partNumber string) (*Part, error)

	// FindByIDsIncludingDeleted loads several parts in one query
	FindByIDsIncludingDeleted(ctx context.Context, ids []uuid.UUID) ([]Part, error)

	// LockByIDs loads and row-locks parts in id order for the rest of the transaction
	LockByIDs(ctx context.Context, ids []uuid.UUID) ([]Part, error)

	// FindAll lists parts matching the filter
	FindAll(ctx context.Context, filter PartFilter) ([]Part, int64, error)

	// ListAll returns every part matching the filter, ignoring paging
	ListAll(ctx context.Context, filter PartFilter) ([]Part, error)

	// Save creates or updates a part
	Save(ctx context.Context, part *Part) error

	// Count counts live parts
	Count(ctx context.Context) (int64, error)
}

// PartFilter narrows part listings
type PartFilter struct {
	shared.Filter
	HSNCode        string
	IncludeDeleted bool
	IDs            []uuid.UUID
}
