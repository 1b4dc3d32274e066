package catalog

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/catalog"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/infrastructure/spreadsheet"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// part listings live under the stock prefix so any stock invalidation clears them
const partListCachePrefix = shared.CachePrefixStock + "parts:"

const maxImportErrors = 100

// PartService handles part catalog operations
type PartService struct {
	partRepo catalog.PartRepository
	cache    shared.ReadCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewPartService creates a new PartService
func NewPartService(partRepo catalog.PartRepository) *PartService {
	return &PartService{
		partRepo: partRepo,
		cacheTTL: time.Minute,
		logger:   zap.NewNop(),
	}
}

// SetCache enables read-through caching of part listings
func (s *PartService) SetCache(cache shared.ReadCache, ttl time.Duration) {
	s.cache = cache
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// SetLogger sets the logger
func (s *PartService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Upsert creates the part or updates the one with the same part number.
// Upserting a deleted part number revives it.
func (s *PartService) Upsert(ctx context.Context, req UpsertPartRequest) (*UpsertResult, error) {
	part, created, err := s.upsert(ctx, req.PartNumber, req.details())
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("Part saved",
		zap.String("part_id", part.ID.String()),
		zap.String("part_number", part.PartNumber),
		zap.Bool("created", created))
	return &UpsertResult{Part: ToPartResponse(part), Created: created}, nil
}

func (s *PartService) upsert(ctx context.Context, partNumber string, details catalog.PartDetails) (*catalog.Part, bool, error) {
	partNumber = catalog.NormalizePartNumber(partNumber)
	if err := catalog.ValidatePartNumber(partNumber); err != nil {
		return nil, false, err
	}
	actor := shared.ActorFromContext(ctx).ID

	existing, err := s.partRepo.FindByPartNumber(ctx, partNumber)
	if err != nil && !shared.IsKind(err, shared.KindNotFound) {
		return nil, false, err
	}
	if existing != nil {
		if err := existing.Update(details); err != nil {
			return nil, false, err
		}
		existing.StampUpdatedBy(actor)
		if err := s.partRepo.Save(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	part, err := catalog.NewPart(partNumber, details)
	if err != nil {
		return nil, false, err
	}
	part.StampCreatedBy(actor)
	if err := s.partRepo.Save(ctx, part); err != nil {
		if errors.Is(err, shared.ErrDuplicateKey) {
			return nil, false, shared.NewConflictError("PART_NUMBER_EXISTS", "A part with this part number was created concurrently").
				WithDetail("part_number", partNumber)
		}
		return nil, false, err
	}
	return part, true, nil
}

// GetByID returns a live part; includeDeleted also returns tombstoned parts
func (s *PartService) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*PartResponse, error) {
	var (
		part *catalog.Part
		err  error
	)
	if includeDeleted {
		part, err = s.partRepo.FindByIDIncludingDeleted(ctx, id)
	} else {
		part, err = s.partRepo.FindByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	resp := ToPartResponse(part)
	return &resp, nil
}

// List returns a page of parts
func (s *PartService) List(ctx context.Context, filter PartListFilter) ([]PartResponse, int64, error) {
	type page struct {
		Items []PartResponse `json:"items"`
		Total int64          `json:"total"`
	}
	p, err := shared.ReadThrough(ctx, s.cache, filter.cacheKey(), s.cacheTTL, func() (page, error) {
		parts, total, err := s.partRepo.FindAll(ctx, filter.toDomain())
		if err != nil {
			return page{}, err
		}
		items := make([]PartResponse, len(parts))
		for i := range parts {
			items[i] = ToPartResponse(&parts[i])
		}
		return page{Items: items, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return p.Items, p.Total, nil
}

// Delete tombstones a part. Its ledger and invoice lines are untouched.
func (s *PartService) Delete(ctx context.Context, id uuid.UUID) error {
	part, err := s.partRepo.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return err
	}
	if part.IsDeleted {
		return nil
	}
	part.Delete()
	part.StampUpdatedBy(shared.ActorFromContext(ctx).ID)
	if err := s.partRepo.Save(ctx, part); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("Part deleted", zap.String("part_id", id.String()))
	return nil
}

// Restore clears a part's tombstone
func (s *PartService) Restore(ctx context.Context, id uuid.UUID) (*PartResponse, error) {
	part, err := s.partRepo.FindByIDIncludingDeleted(ctx, id)
	if err != nil {
		return nil, err
	}
	if part.IsDeleted {
		part.Undelete()
		part.StampUpdatedBy(shared.ActorFromContext(ctx).ID)
		if err := s.partRepo.Save(ctx, part); err != nil {
			return nil, err
		}
		s.invalidate(ctx)
	}
	resp := ToPartResponse(part)
	return &resp, nil
}

// Import upserts every row of a .csv or .xlsx upload. Rows are independent:
// a bad row is reported and the rest still import.
func (s *PartService) Import(ctx context.Context, filename string, r io.Reader) (*ImportResult, error) {
	sheet, err := spreadsheet.Parse(filename, r)
	if err != nil {
		return nil, shared.NewValidationError("INVALID_IMPORT_FILE", err.Error())
	}
	for _, col := range []string{"part_number", "item_name"} {
		if !sheet.HasHeader(col) {
			return nil, shared.NewValidationError("INVALID_IMPORT_FILE", "missing required column "+col)
		}
	}

	result := &ImportResult{TotalRows: len(sheet.Rows)}
	errs := spreadsheet.NewErrorCollection(maxImportErrors)
	seen := make(map[string]int, len(sheet.Rows))

	for _, row := range sheet.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		partNumber, details, ok := parseImportRow(row, errs)
		if !ok {
			result.ErrorRows++
			continue
		}
		if first, dup := seen[partNumber]; dup {
			errs.Add(spreadsheet.RowError{
				Row:     row.LineNumber,
				Column:  "part_number",
				Code:    spreadsheet.ErrCodeDuplicate,
				Message: "part number already appears on row " + strconv.Itoa(first),
				Value:   partNumber,
			})
			result.ErrorRows++
			continue
		}
		seen[partNumber] = row.LineNumber

		_, created, err := s.upsert(ctx, partNumber, details)
		if err != nil {
			var de *shared.DomainError
			if !errors.As(err, &de) || de.Kind == shared.KindTransient {
				return nil, err
			}
			errs.Add(spreadsheet.RowError{Row: row.LineNumber, Code: spreadsheet.ErrCodeInvalidValue, Message: de.Message, Value: partNumber})
			result.ErrorRows++
			continue
		}
		if created {
			result.CreatedRows++
		} else {
			result.UpdatedRows++
		}
	}

	result.Errors = errs.Errors()
	result.TotalErrors = errs.TotalCount()
	result.IsTruncated = errs.TotalCount() > len(errs.Errors())
	if result.CreatedRows+result.UpdatedRows > 0 {
		s.invalidate(ctx)
	}
	s.logger.Info("Parts imported",
		zap.String("file", filename),
		zap.Int("created", result.CreatedRows),
		zap.Int("updated", result.UpdatedRows),
		zap.Int("errors", result.ErrorRows))
	return result, nil
}

func parseImportRow(row *spreadsheet.Row, errs *spreadsheet.ErrorCollection) (string, catalog.PartDetails, bool) {
	ok := true
	partNumber := catalog.NormalizePartNumber(row.Get("part_number"))
	if partNumber == "" {
		errs.AddRequired(row.LineNumber, "part_number")
		ok = false
	} else if err := catalog.ValidatePartNumber(partNumber); err != nil {
		errs.Add(spreadsheet.RowError{Row: row.LineNumber, Column: "part_number", Code: spreadsheet.ErrCodeInvalidValue, Message: "part number must look like <digits>/<alphanumeric>", Value: partNumber})
		ok = false
	}
	name := row.Get("item_name")
	if name == "" {
		errs.AddRequired(row.LineNumber, "item_name")
		ok = false
	}

	amount := func(col string) decimal.Decimal {
		raw := row.Get(col)
		if raw == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			errs.AddType(row.LineNumber, col, "decimal", raw)
			ok = false
		}
		return d
	}
	details := catalog.PartDetails{
		ItemName:    name,
		HSNCode:     row.Get("hsn_code"),
		GSTPercent:  amount("gst_percent"),
		Unit:        row.Get("unit"),
		MRP:         amount("mrp"),
		RetailPrice: amount("retail_price"),
		Barcode:     row.Get("barcode"),
		QRCode:      row.Get("qr_code"),
	}
	if raw := row.Get("min_stock"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs.AddType(row.LineNumber, "min_stock", "integer", raw)
			ok = false
		}
		details.MinStock = n
	}
	return partNumber, details, ok
}

func (s *PartService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix(ctx, shared.CachePrefixStock, shared.CachePrefixReport); err != nil {
		s.logger.Warn("Failed to invalidate part caches", zap.Error(err))
	}
}
