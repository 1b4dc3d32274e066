package catalog

import (
	"regexp"
	"strings"

	"github.com/partshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// partNumberPattern is <digits>/<alphanumeric>, e.g. 123/AB45
var partNumberPattern = regexp.MustCompile(`^[0-9]+/[A-Za-z0-9]+$`)

// Part is a sellable and purchasable catalog item.
// Stock is never stored on the part; it is derived from the inventory ledger.
type Part struct {
	shared.BaseAggregateRoot
	shared.SoftDeletable
	PartNumber  string
	ItemName    string
	HSNCode     string
	GSTPercent  decimal.Decimal
	Unit        string
	MRP         decimal.Decimal
	RetailPrice decimal.Decimal
	Barcode     string
	QRCode      string
	MinStock    int64
}

// PartDetails carries the mutable attributes of a part
type PartDetails struct {
	ItemName    string
	HSNCode     string
	GSTPercent  decimal.Decimal
	Unit        string
	MRP         decimal.Decimal
	RetailPrice decimal.Decimal
	Barcode     string
	QRCode      string
	MinStock    int64
}

// NewPart creates a new part
func NewPart(partNumber string, details PartDetails) (*Part, error) {
	partNumber = NormalizePartNumber(partNumber)
	if err := ValidatePartNumber(partNumber); err != nil {
		return nil, err
	}
	part := &Part{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PartNumber:        partNumber,
	}
	if err := part.apply(details); err != nil {
		return nil, err
	}
	return part, nil
}

// Update replaces the mutable attributes. An upsert of a deleted part revives it.
func (p *Part) Update(details PartDetails) error {
	if err := p.apply(details); err != nil {
		return err
	}
	p.Restore()
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Delete tombstones the part. Referenced parts stay readable for history.
func (p *Part) Delete() {
	if p.IsDeleted {
		return
	}
	p.MarkDeleted()
	p.Touch()
	p.IncrementVersion()
}

// Undelete clears the tombstone
func (p *Part) Undelete() {
	if !p.IsDeleted {
		return
	}
	p.Restore()
	p.Touch()
	p.IncrementVersion()
}

// IsLowStock reports whether stock is at or below the configured minimum
func (p *Part) IsLowStock(stock int64) bool {
	return p.MinStock > 0 && stock <= p.MinStock
}

func (p *Part) apply(d PartDetails) error {
	name := strings.TrimSpace(d.ItemName)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Item name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("INVALID_NAME", "Item name cannot exceed 200 characters")
	}
	unit := strings.TrimSpace(d.Unit)
	if unit == "" {
		unit = "NOS"
	}
	if len(unit) > 20 {
		return shared.NewValidationError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	if len(d.HSNCode) > 20 {
		return shared.NewValidationError("INVALID_HSN", "HSN code cannot exceed 20 characters")
	}
	if d.GSTPercent.IsNegative() || d.GSTPercent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("INVALID_GST", "GST percentage must be between 0 and 100")
	}
	if d.MRP.IsNegative() || d.RetailPrice.IsNegative() {
		return shared.NewValidationError("INVALID_PRICE", "Prices cannot be negative")
	}
	if d.MinStock < 0 {
		return shared.NewValidationError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	p.ItemName = name
	p.HSNCode = strings.TrimSpace(d.HSNCode)
	p.GSTPercent = d.GSTPercent
	p.Unit = strings.ToUpper(unit)
	p.MRP = d.MRP
	p.RetailPrice = d.RetailPrice
	p.Barcode = strings.TrimSpace(d.Barcode)
	p.QRCode = strings.TrimSpace(d.QRCode)
	p.MinStock = d.MinStock
	return nil
}

// NormalizePartNumber trims and upper-cases the alphanumeric suffix
func NormalizePartNumber(partNumber string) string {
	return strings.ToUpper(strings.TrimSpace(partNumber))
}

// ValidatePartNumber checks the <digits>/<alphanumeric> format
func ValidatePartNumber(partNumber string) error {
	if partNumber == "" {
		return shared.NewValidationError("INVALID_PART_NUMBER", "Part number cannot be empty")
	}
	if len(partNumber) > 50 {
		return shared.NewValidationError("INVALID_PART_NUMBER", "Part number cannot exceed 50 characters")
	}
	if !partNumberPattern.MatchString(partNumber) {
		return shared.NewValidationError("INVALID_PART_NUMBER", "Part number must look like <digits>/<alphanumeric>")
	}
	return nil
}
