package inventory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/infrastructure/spreadsheet"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// XLSXContentType is the media type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ObjectStorage archives exported files
type ObjectStorage interface {
	// Upload stores data under key
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// GenerateDownloadURL returns a presigned download URL for key
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// ExportArchive points at an archived stock export
type ExportArchive struct {
	ObjectKey   string    `json:"object_key"`
	DownloadURL string    `json:"download_url,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
	Rows        int       `json:"rows"`
}

// StockExporter renders the stock list as a workbook
type StockExporter struct {
	stock     *StockService
	storage   ObjectStorage
	keyPrefix string
	now       func() time.Time
	logger    *zap.Logger
}

// NewStockExporter creates a new StockExporter. storage may be nil, in which
// case Archive is unavailable.
func NewStockExporter(stock *StockService, storage ObjectStorage) *StockExporter {
	return &StockExporter{
		stock:     stock,
		storage:   storage,
		keyPrefix: "exports/stock/",
		now:       time.Now,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger
func (e *StockExporter) SetLogger(logger *zap.Logger) {
	if logger != nil {
		e.logger = logger
	}
}

// SetKeyPrefix sets the object key prefix for archived exports
func (e *StockExporter) SetKeyPrefix(prefix string) {
	if prefix != "" {
		e.keyPrefix = strings.TrimSuffix(prefix, "/") + "/"
	}
}

// Filename returns the download name for an export taken now
func (e *StockExporter) Filename() string {
	return "stock-" + e.now().Format("20060102-150405") + ".xlsx"
}

// Write streams the workbook for every part matching filter
func (e *StockExporter) Write(ctx context.Context, w io.Writer, filter StockListFilter) (int, error) {
	items, err := e.stock.Snapshot(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(items), spreadsheet.WriteWorkbook(w, stockTable(items))
}

// Archive writes the workbook to object storage and returns its key
func (e *StockExporter) Archive(ctx context.Context, filter StockListFilter) (*ExportArchive, error) {
	if e.storage == nil {
		return nil, shared.NewInvalidStateError("STORAGE_DISABLED", "Object storage is not configured")
	}
	var buf bytes.Buffer
	rows, err := e.Write(ctx, &buf, filter)
	if err != nil {
		return nil, err
	}
	key := e.keyPrefix + e.Filename()
	if err := e.storage.Upload(ctx, key, buf.Bytes(), XLSXContentType); err != nil {
		return nil, shared.NewTransientStorageError("Failed to archive stock export", err)
	}
	archive := &ExportArchive{ObjectKey: key, Rows: rows}
	url, expires, err := e.storage.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		e.logger.Warn("Failed to presign stock export", zap.String("key", key), zap.Error(err))
	} else {
		archive.DownloadURL = url
		archive.ExpiresAt = expires
	}
	e.logger.Info("Stock export archived", zap.String("key", key), zap.Int("rows", rows))
	return archive, nil
}

var stockHeaders = []string{
	"Part Number", "Item Name", "HSN Code", "Unit", "MRP", "Min Stock",
	"Incoming", "Outgoing", "Stock", "Stock Value", "Low Stock",
}

func stockTable(items []StockResponse) spreadsheet.Table {
	rows := make([][]any, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		value := decimal.Zero
		if it.Stock > 0 {
			value = it.MRP.Mul(decimal.NewFromInt(it.Stock))
		}
		total = total.Add(value)
		low := ""
		if it.LowStock {
			low = "YES"
		}
		rows = append(rows, []any{
			it.PartNumber, it.ItemName, it.HSNCode, it.Unit, it.MRP, it.MinStock,
			it.Incoming, it.Outgoing, it.Stock, value, low,
		})
	}
	return spreadsheet.Table{
		Name:    "Stock",
		Headers: stockHeaders,
		Rows:    rows,
		Footer: [][]any{
			{"Parts", len(items)},
			{"Stock value", total, fmt.Sprintf("Rs. %s", spreadsheet.FormatAmount(total))},
		},
	}
}
