package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/catalog"
	"github.com/partshop/backend/internal/domain/inventory"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockListFilter represents filter options for the stock list
type StockListFilter struct {
	Search         string `form:"search"`
	HSNCode        string `form:"hsn_code"`
	LowStockOnly   bool   `form:"low_stock"`
	IncludeDeleted bool   `form:"include_deleted"`
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f StockListFilter) toPartFilter() catalog.PartFilter {
	dir := f.OrderDir
	if dir == "" {
		dir = "asc"
	}
	return catalog.PartFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: dir,
			Search:   f.Search,
		},
		HSNCode:        f.HSNCode,
		IncludeDeleted: f.IncludeDeleted,
	}
}

func (f StockListFilter) cacheKey() string {
	return fmt.Sprintf("%slist:%q:%q:%t:%t:%d:%d:%s:%s", shared.CachePrefixStock,
		f.Search, f.HSNCode, f.LowStockOnly, f.IncludeDeleted, f.Page, f.PageSize, f.OrderBy, f.OrderDir)
}

// AdjustStockRequest sets a part's stock to a counted quantity
type AdjustStockRequest struct {
	TargetQuantity int64  `json:"target_quantity" binding:"min=0"`
	Note           string `json:"note" binding:"max=500"`
}

// LedgerListFilter pages through a part's movement history
type LedgerListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StockResponse is a part with its derived stock
type StockResponse struct {
	PartID     uuid.UUID       `json:"part_id"`
	PartNumber string          `json:"part_number"`
	ItemName   string          `json:"item_name"`
	HSNCode    string          `json:"hsn_code"`
	Unit       string          `json:"unit"`
	MRP        decimal.Decimal `json:"mrp"`
	MinStock   int64           `json:"min_stock"`
	Stock      int64           `json:"stock"`
	Incoming   int64           `json:"incoming"`
	Outgoing   int64           `json:"outgoing"`
	LowStock   bool            `json:"low_stock"`
	IsDeleted  bool            `json:"is_deleted"`
}

// ToStockResponse combines a part with its projected level
func ToStockResponse(p *catalog.Part, level inventory.StockLevel) StockResponse {
	return StockResponse{
		PartID:     p.ID,
		PartNumber: p.PartNumber,
		ItemName:   p.ItemName,
		HSNCode:    p.HSNCode,
		Unit:       p.Unit,
		MRP:        p.MRP,
		MinStock:   p.MinStock,
		Stock:      level.Stock(),
		Incoming:   level.Incoming,
		Outgoing:   level.Outgoing,
		LowStock:   p.IsLowStock(level.Stock()),
		IsDeleted:  p.IsDeleted,
	}
}

// StockPage is one page of the stock list
type StockPage struct {
	Items []StockResponse `json:"items"`
	Total int64           `json:"total"`
}

// AdjustStockResult reports the effect of an adjustment
type AdjustStockResult struct {
	PartID          uuid.UUID  `json:"part_id"`
	PreviousStock   int64      `json:"previous_stock"`
	NewStock        int64      `json:"new_stock"`
	AdjustmentDelta int64      `json:"adjustment_delta"`
	EntryID         *uuid.UUID `json:"entry_id,omitempty"`
}

// LedgerEntryResponse is one stock movement
type LedgerEntryResponse struct {
	ID            uuid.UUID           `json:"id"`
	PartID        uuid.UUID           `json:"part_id"`
	Direction     inventory.Direction `json:"direction"`
	Quantity      int64               `json:"quantity"`
	Reason        inventory.Reason    `json:"reason"`
	InvoiceID     *uuid.UUID          `json:"invoice_id,omitempty"`
	InvoiceItemID *uuid.UUID          `json:"invoice_item_id,omitempty"`
	Note          string              `json:"note,omitempty"`
	CreatedBy     *uuid.UUID          `json:"created_by,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ToLedgerEntryResponse converts a domain entry
func ToLedgerEntryResponse(e *inventory.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:            e.ID,
		PartID:        e.PartID,
		Direction:     e.Direction,
		Quantity:      e.Quantity,
		Reason:        e.Reason,
		InvoiceID:     e.InvoiceID,
		InvoiceItemID: e.InvoiceItemID,
		Note:          e.Note,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
	}
}
