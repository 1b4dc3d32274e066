package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/catalog"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/infrastructure/spreadsheet"
	"github.com/shopspring/decimal"
)

// UpsertPartRequest creates a part or replaces the attributes of the part
// with the same part number
type UpsertPartRequest struct {
	PartNumber  string          `json:"part_number" binding:"required,part_number"`
	ItemName    string          `json:"item_name" binding:"required,min=1,max=200"`
	HSNCode     string          `json:"hsn_code" binding:"max=20"`
	GSTPercent  decimal.Decimal `json:"gst_percent"`
	Unit        string          `json:"unit" binding:"max=20"`
	MRP         decimal.Decimal `json:"mrp"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	Barcode     string          `json:"barcode" binding:"max=100"`
	QRCode      string          `json:"qr_code" binding:"max=255"`
	MinStock    int64           `json:"min_stock" binding:"min=0"`
}

func (r UpsertPartRequest) details() catalog.PartDetails {
	return catalog.PartDetails{
		ItemName:    r.ItemName,
		HSNCode:     r.HSNCode,
		GSTPercent:  r.GSTPercent,
		Unit:        r.Unit,
		MRP:         r.MRP,
		RetailPrice: r.RetailPrice,
		Barcode:     r.Barcode,
		QRCode:      r.QRCode,
		MinStock:    r.MinStock,
	}
}

// PartListFilter represents filter options for part list
type PartListFilter struct {
	Search         string `form:"search"`
	HSNCode        string `form:"hsn_code"`
	IncludeDeleted bool   `form:"include_deleted"`
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f PartListFilter) toDomain() catalog.PartFilter {
	dir := f.OrderDir
	if dir == "" {
		dir = "asc"
	}
	orderBy := f.OrderBy
	if orderBy == "" {
		orderBy = "part_number"
	}
	return catalog.PartFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  orderBy,
			OrderDir: dir,
			Search:   f.Search,
		},
		HSNCode:        f.HSNCode,
		IncludeDeleted: f.IncludeDeleted,
	}
}

func (f PartListFilter) cacheKey() string {
	return fmt.Sprintf("%s%q:%q:%t:%d:%d:%s:%s", partListCachePrefix,
		f.Search, f.HSNCode, f.IncludeDeleted, f.Page, f.PageSize, f.OrderBy, f.OrderDir)
}

// PartResponse represents a part in API responses
type PartResponse struct {
	ID          uuid.UUID       `json:"id"`
	PartNumber  string          `json:"part_number"`
	ItemName    string          `json:"item_name"`
	HSNCode     string          `json:"hsn_code"`
	GSTPercent  decimal.Decimal `json:"gst_percent"`
	Unit        string          `json:"unit"`
	MRP         decimal.Decimal `json:"mrp"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	Barcode     string          `json:"barcode,omitempty"`
	QRCode      string          `json:"qr_code,omitempty"`
	MinStock    int64           `json:"min_stock"`
	IsDeleted   bool            `json:"is_deleted"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToPartResponse converts a domain Part to PartResponse
func ToPartResponse(p *catalog.Part) PartResponse {
	return PartResponse{
		ID:          p.ID,
		PartNumber:  p.PartNumber,
		ItemName:    p.ItemName,
		HSNCode:     p.HSNCode,
		GSTPercent:  p.GSTPercent,
		Unit:        p.Unit,
		MRP:         p.MRP,
		RetailPrice: p.RetailPrice,
		Barcode:     p.Barcode,
		QRCode:      p.QRCode,
		MinStock:    p.MinStock,
		IsDeleted:   p.IsDeleted,
		DeletedAt:   p.DeletedAt,
		Version:     p.GetVersion(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// UpsertResult reports whether the upsert created a new part
type UpsertResult struct {
	Part    PartResponse `json:"part"`
	Created bool         `json:"created"`
}

// ImportResult summarises a spreadsheet import
type ImportResult struct {
	TotalRows   int                    `json:"total_rows"`
	CreatedRows int                    `json:"created_rows"`
	UpdatedRows int                    `json:"updated_rows"`
	ErrorRows   int                    `json:"error_rows"`
	Errors      []spreadsheet.RowError `json:"errors,omitempty"`
	TotalErrors int                    `json:"total_errors,omitempty"`
	IsTruncated bool                   `json:"is_truncated,omitempty"`
}
