package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber   string                  `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoices_number_type,priority:1"`
	Type            invoicing.InvoiceType   `gorm:"type:varchar(10);not null;uniqueIndex:idx_invoices_number_type,priority:2;index:idx_invoices_type_date,priority:1"`
	Date            time.Time               `gorm:"column:invoice_date;not null;index:idx_invoices_type_date,priority:2"`
	Status          invoicing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	SupplierID      *uuid.UUID              `gorm:"type:uuid;index"`
	CustomerID      *uuid.UUID              `gorm:"type:uuid;index"`
	Subtotal        decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountPercent decimal.Decimal         `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount  decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	TaxableValue    decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	CGSTPercent     decimal.Decimal         `gorm:"column:cgst_percent;type:decimal(5,2);not null;default:0"`
	CGSTAmount      decimal.Decimal         `gorm:"column:cgst_amount;type:decimal(18,2);not null;default:0"`
	SGSTPercent     decimal.Decimal         `gorm:"column:sgst_percent;type:decimal(5,2);not null;default:0"`
	SGSTAmount      decimal.Decimal         `gorm:"column:sgst_amount;type:decimal(18,2);not null;default:0"`
	RoundOff        decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	Total           decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentStatus   invoicing.PaymentStatus `gorm:"type:varchar(10);not null;default:'UNPAID';index"`
	PaidAmount      decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	DueAmount       decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentDate     *time.Time
	PaymentMethod   string             `gorm:"type:varchar(30)"`
	PaymentNote     string             `gorm:"type:text"`
	VehicleNumber   string             `gorm:"type:varchar(30)"`
	Transport       string             `gorm:"type:varchar(100)"`
	DeliveryNote    string             `gorm:"type:varchar(100)"`
	ShippingAddress string             `gorm:"type:text"`
	Notes           string             `gorm:"type:text"`
	Items           []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice. Items are
// mapped only when they were preloaded.
func (m *InvoiceModel) ToDomain() *invoicing.Invoice {
	inv := &invoicing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		Type:              m.Type,
		Date:              m.Date,
		Status:            m.Status,
		SupplierID:        m.SupplierID,
		CustomerID:        m.CustomerID,
		Totals: invoicing.Totals{
			Subtotal:        m.Subtotal,
			DiscountPercent: m.DiscountPercent,
			DiscountAmount:  m.DiscountAmount,
			TaxableValue:    m.TaxableValue,
			CGSTPercent:     m.CGSTPercent,
			CGSTAmount:      m.CGSTAmount,
			SGSTPercent:     m.SGSTPercent,
			SGSTAmount:      m.SGSTAmount,
			Gross:           m.Total.Sub(m.RoundOff),
			RoundOff:        m.RoundOff,
			Total:           m.Total,
		},
		Payment: invoicing.Payment{
			Status: m.PaymentStatus,
			Paid:   m.PaidAmount,
			Due:    m.DueAmount,
			Date:   m.PaymentDate,
			Method: m.PaymentMethod,
			Note:   m.PaymentNote,
		},
		Shipping: invoicing.Shipping{
			VehicleNumber:   m.VehicleNumber,
			Transport:       m.Transport,
			DeliveryNote:    m.DeliveryNote,
			ShippingAddress: m.ShippingAddress,
		},
		Notes: m.Notes,
		Items: make([]invoicing.InvoiceItem, len(m.Items)),
	}
	for i := range m.Items {
		inv.Items[i] = *m.Items[i].ToDomain()
	}
	return inv
}

// FromDomain populates the header columns from a domain Invoice. Money is
// stored at two decimal places.
func (m *InvoiceModel) FromDomain(inv *invoicing.Invoice) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.Type = inv.Type
	m.Date = inv.Date
	m.Status = inv.Status
	m.SupplierID = inv.SupplierID
	m.CustomerID = inv.CustomerID
	m.Subtotal = inv.Subtotal.Round(2)
	m.DiscountPercent = inv.DiscountPercent.Round(2)
	m.DiscountAmount = inv.DiscountAmount.Round(2)
	m.TaxableValue = inv.TaxableValue.Round(2)
	m.CGSTPercent = inv.CGSTPercent.Round(2)
	m.CGSTAmount = inv.CGSTAmount.Round(2)
	m.SGSTPercent = inv.SGSTPercent.Round(2)
	m.SGSTAmount = inv.SGSTAmount.Round(2)
	m.RoundOff = inv.RoundOff.Round(2)
	m.Total = inv.Total.Round(2)
	m.PaymentStatus = inv.Payment.Status
	m.PaidAmount = inv.Payment.Paid.Round(2)
	m.DueAmount = inv.Payment.Due.Round(2)
	m.PaymentDate = inv.Payment.Date
	m.PaymentMethod = inv.Payment.Method
	m.PaymentNote = inv.Payment.Note
	m.VehicleNumber = inv.Shipping.VehicleNumber
	m.Transport = inv.Shipping.Transport
	m.DeliveryNote = inv.Shipping.DeliveryNote
	m.ShippingAddress = inv.Shipping.ShippingAddress
	m.Notes = inv.Notes
}

// InvoiceModelFromDomain creates a header model from a domain Invoice, without items
func InvoiceModelFromDomain(inv *invoicing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is one line of an invoice with its part snapshot
type InvoiceItemModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo     int             `gorm:"not null;default:0"`
	PartID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartNumber string          `gorm:"type:varchar(50);not null"`
	ItemName   string          `gorm:"type:varchar(200);not null"`
	HSNCode    string          `gorm:"column:hsn_code;type:varchar(20)"`
	Unit       string          `gorm:"type:varchar(20);not null"`
	Quantity   int64           `gorm:"not null"`
	Rate       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt  time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the row to a domain InvoiceItem
func (m *InvoiceItemModel) ToDomain() *invoicing.InvoiceItem {
	return &invoicing.InvoiceItem{
		ID:         m.ID,
		InvoiceID:  m.InvoiceID,
		PartID:     m.PartID,
		PartNumber: m.PartNumber,
		ItemName:   m.ItemName,
		HSNCode:    m.HSNCode,
		Unit:       m.Unit,
		Quantity:   m.Quantity,
		Rate:       m.Rate,
		Amount:     m.Amount,
		CreatedAt:  m.CreatedAt,
	}
}

// InvoiceItemModelFromDomain creates a row from a domain InvoiceItem
func InvoiceItemModelFromDomain(i *invoicing.InvoiceItem) *InvoiceItemModel {
	return &InvoiceItemModel{
		ID:         i.ID,
		InvoiceID:  i.InvoiceID,
		PartID:     i.PartID,
		PartNumber: i.PartNumber,
		ItemName:   i.ItemName,
		HSNCode:    i.HSNCode,
		Unit:       i.Unit,
		Quantity:   i.Quantity,
		Rate:       i.Rate.Round(2),
		Amount:     i.Amount.Round(2),
		CreatedAt:  i.CreatedAt,
	}
}

// InvoiceSequenceModel is the per-bucket allocator row. Locking it
// serialises number allocation within one (type, month, financial year).
type InvoiceSequenceModel struct {
	ID         uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Type       invoicing.InvoiceType `gorm:"type:varchar(10);not null;uniqueIndex:idx_invoice_sequences_bucket,priority:1"`
	Bucket     string                `gorm:"type:varchar(60);not null;uniqueIndex:idx_invoice_sequences_bucket,priority:2"`
	LastIssued int                   `gorm:"not null;default:0"`
	UpdatedAt  time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceSequenceModel) TableName() string {
	return "invoice_sequences"
}
