package models

import (
	"github.com/partshop/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// PartModel is the persistence model for the Part aggregate
type PartModel struct {
	AggregateModel
	SoftDeleteModel
	PartNumber  string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_parts_part_number"`
	ItemName    string          `gorm:"type:varchar(200);not null;index"`
	HSNCode     string          `gorm:"column:hsn_code;type:varchar(20);index"`
	GSTPercent  decimal.Decimal `gorm:"column:gst_percent;type:decimal(5,2);not null;default:0"`
	Unit        string          `gorm:"type:varchar(20);not null;default:'NOS'"`
	MRP         decimal.Decimal `gorm:"column:mrp;type:decimal(18,2);not null;default:0"`
	RetailPrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Barcode     string          `gorm:"type:varchar(64);index"`
	QRCode      string          `gorm:"column:qr_code;type:varchar(255)"`
	MinStock    int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PartModel) TableName() string {
	return "parts"
}

// ToDomain converts the persistence model to a domain Part
func (m *PartModel) ToDomain() *catalog.Part {
	return &catalog.Part{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SoftDeletable:     m.SoftDeleteModel.ToDomain(),
		PartNumber:        m.PartNumber,
		ItemName:          m.ItemName,
		HSNCode:           m.HSNCode,
		GSTPercent:        m.GSTPercent,
		Unit:              m.Unit,
		MRP:               m.MRP,
		RetailPrice:       m.RetailPrice,
		Barcode:           m.Barcode,
		QRCode:            m.QRCode,
		MinStock:          m.MinStock,
	}
}

// FromDomain populates the persistence model from a domain Part
func (m *PartModel) FromDomain(p *catalog.Part) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.SoftDeleteModel.FromDomain(p.SoftDeletable)
	m.PartNumber = p.PartNumber
	m.ItemName = p.ItemName
	m.HSNCode = p.HSNCode
	m.GSTPercent = p.GSTPercent
	m.Unit = p.Unit
	m.MRP = p.MRP.Round(2)
	m.RetailPrice = p.RetailPrice.Round(2)
	m.Barcode = p.Barcode
	m.QRCode = p.QRCode
	m.MinStock = p.MinStock
}

// PartModelFromDomain creates a new persistence model from a domain Part
func PartModelFromDomain(p *catalog.Part) *PartModel {
	m := &PartModel{}
	m.FromDomain(p)
	return m
}
