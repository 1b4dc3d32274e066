package invoicing

import (
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ==================== Requests ====================

// InvoiceItemInput is one requested line
type InvoiceItemInput struct {
	PartID   uuid.UUID       `json:"part_id" binding:"required"`
	Quantity int64           `json:"quantity" binding:"required,gt=0"`
	Rate     decimal.Decimal `json:"rate"`
}

// PaymentInput carries the optional settlement fields
type PaymentInput struct {
	PaidAmount decimal.Decimal `json:"paid_amount"`
	Date       *time.Time      `json:"date"`
	Method     string          `json:"method" binding:"max=30"`
	Note       string          `json:"note"`
}

// ShippingInput carries delivery metadata
type ShippingInput struct {
	VehicleNumber   string `json:"vehicle_number" binding:"max=30"`
	Transport       string `json:"transport" binding:"max=100"`
	DeliveryNote    string `json:"delivery_note" binding:"max=100"`
	ShippingAddress string `json:"shipping_address"`
}

// InvoiceRequest is the body of both create and update. An empty invoice
// number asks the sequencer for one; a fixed discount amount wins over the
// percent.
type InvoiceRequest struct {
	Type            invoicing.InvoiceType   `json:"type" binding:"required,oneof=PURCHASE SALE"`
	InvoiceNumber   string                  `json:"invoice_number" binding:"max=50"`
	Date            time.Time               `json:"date" binding:"required"`
	CounterpartyID  uuid.UUID               `json:"counterparty_id" binding:"required"`
	Status          invoicing.InvoiceStatus `json:"status" binding:"omitempty,oneof=DRAFT SUBMITTED PAID CANCELLED"`
	Items           []InvoiceItemInput      `json:"items" binding:"required,min=1,dive"`
	DiscountPercent decimal.Decimal         `json:"discount_percent"`
	DiscountAmount  *decimal.Decimal        `json:"discount_amount"`
	CGSTPercent     decimal.Decimal         `json:"cgst_percent"`
	SGSTPercent     decimal.Decimal         `json:"sgst_percent"`
	Payment         PaymentInput            `json:"payment"`
	Shipping        ShippingInput           `json:"shipping"`
	Notes           string                  `json:"notes"`
}

func (r InvoiceRequest) header(number string) invoicing.Header {
	return invoicing.Header{
		Type:           r.Type,
		InvoiceNumber:  number,
		Date:           r.Date,
		CounterpartyID: r.CounterpartyID,
		Status:         r.Status,
		Shipping: invoicing.Shipping{
			VehicleNumber:   r.Shipping.VehicleNumber,
			Transport:       r.Shipping.Transport,
			DeliveryNote:    r.Shipping.DeliveryNote,
			ShippingAddress: r.Shipping.ShippingAddress,
		},
		Notes: r.Notes,
	}
}

func (r InvoiceRequest) discount() invoicing.Discount {
	return invoicing.Discount{Percent: r.DiscountPercent, Amount: r.DiscountAmount}
}

func (r InvoiceRequest) taxRates() invoicing.TaxRates {
	return invoicing.TaxRates{CGSTPercent: r.CGSTPercent, SGSTPercent: r.SGSTPercent}
}

func (r InvoiceRequest) partIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(r.Items))
	ids := make([]uuid.UUID, 0, len(r.Items))
	for _, item := range r.Items {
		if _, ok := seen[item.PartID]; ok {
			continue
		}
		seen[item.PartID] = struct{}{}
		ids = append(ids, item.PartID)
	}
	return ids
}

func (r InvoiceRequest) validate() error {
	if !r.Type.IsValid() {
		return shared.NewValidationError("INVALID_INVOICE_TYPE", "Invoice type must be PURCHASE or SALE")
	}
	if len(r.Items) == 0 {
		return shared.NewValidationError("NO_ITEMS", "Invoice requires at least one item")
	}
	for i, item := range r.Items {
		if item.PartID == uuid.Nil {
			return shared.NewValidationError("INVALID_PART", "Part ID cannot be empty").WithDetail("line", i+1)
		}
		if item.Quantity <= 0 {
			return shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive").WithDetail("line", i+1)
		}
		if item.Rate.IsNegative() {
			return shared.NewValidationError("INVALID_RATE", "Rate cannot be negative").WithDetail("line", i+1)
		}
		if !twoPlaces(item.Rate) {
			return tooPrecise("rate").WithDetail("line", i+1)
		}
	}
	if r.Payment.PaidAmount.IsNegative() {
		return shared.NewValidationError("INVALID_PAID_AMOUNT", "Paid amount cannot be negative")
	}
	fields := map[string]decimal.Decimal{
		"discount_percent": r.DiscountPercent,
		"cgst_percent":     r.CGSTPercent,
		"sgst_percent":     r.SGSTPercent,
		"paid_amount":      r.Payment.PaidAmount,
	}
	if r.DiscountAmount != nil {
		fields["discount_amount"] = *r.DiscountAmount
	}
	for _, name := range []string{"discount_percent", "discount_amount", "cgst_percent", "sgst_percent", "paid_amount"} {
		if v, ok := fields[name]; ok && !twoPlaces(v) {
			return tooPrecise(name)
		}
	}
	return nil
}

// twoPlaces reports whether d fits the two-decimal money columns
func twoPlaces(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

func tooPrecise(field string) *shared.DomainError {
	return shared.NewValidationError("TOO_MANY_DECIMALS", "At most two decimal places are allowed").WithDetail("field", field)
}

// UpdateOptions controls the status gate of an update
type UpdateOptions struct {
	AllowEditSubmitted bool
}

// BulkStatusRequest sets one status on many invoices
type BulkStatusRequest struct {
	IDs    []uuid.UUID             `json:"ids" binding:"required,min=1"`
	Status invoicing.InvoiceStatus `json:"status" binding:"required"`
}

// BulkDeleteRequest deletes many invoices at once
type BulkDeleteRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required,min=1"`
}

// InvoiceListFilter represents filter options for invoice list
type InvoiceListFilter struct {
	Search         string                  `form:"search"`
	Type           invoicing.InvoiceType   `form:"type" binding:"omitempty,oneof=PURCHASE SALE"`
	Status         invoicing.InvoiceStatus `form:"status" binding:"omitempty,oneof=DRAFT SUBMITTED PAID CANCELLED"`
	PaymentStatus  invoicing.PaymentStatus `form:"payment_status" binding:"omitempty,oneof=UNPAID PARTIAL PAID"`
	CounterpartyID *uuid.UUID              `form:"counterparty_id"`
	From           *time.Time              `form:"from" time_format:"2006-01-02"`
	To             *time.Time              `form:"to" time_format:"2006-01-02"`
	Page           int                     `form:"page"`
	PageSize       int                     `form:"page_size"`
	OrderBy        string                  `form:"order_by"`
	OrderDir       string                  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f InvoiceListFilter) toDomain() invoicing.InvoiceFilter {
	return invoicing.InvoiceFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		},
		Type:           f.Type,
		Status:         f.Status,
		PaymentStatus:  f.PaymentStatus,
		CounterpartyID: f.CounterpartyID,
		From:           f.From,
		To:             f.To,
	}
}

// ==================== Responses ====================

// InvoiceItemResponse is one line in API responses
type InvoiceItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	PartID     uuid.UUID       `json:"part_id"`
	PartNumber string          `json:"part_number"`
	ItemName   string          `json:"item_name"`
	HSNCode    string          `json:"hsn_code"`
	Unit       string          `json:"unit"`
	Quantity   int64           `json:"quantity"`
	Rate       decimal.Decimal `json:"rate"`
	Amount     decimal.Decimal `json:"amount"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID               `json:"id"`
	InvoiceNumber   string                  `json:"invoice_number"`
	Type            invoicing.InvoiceType   `json:"type"`
	Date            time.Time               `json:"date"`
	Status          invoicing.InvoiceStatus `json:"status"`
	SupplierID      *uuid.UUID              `json:"supplier_id,omitempty"`
	CustomerID      *uuid.UUID              `json:"customer_id,omitempty"`
	Subtotal        decimal.Decimal         `json:"subtotal"`
	DiscountPercent decimal.Decimal         `json:"discount_percent"`
	DiscountAmount  decimal.Decimal         `json:"discount_amount"`
	TaxableValue    decimal.Decimal         `json:"taxable_value"`
	CGSTPercent     decimal.Decimal         `json:"cgst_percent"`
	CGSTAmount      decimal.Decimal         `json:"cgst_amount"`
	SGSTPercent     decimal.Decimal         `json:"sgst_percent"`
	SGSTAmount      decimal.Decimal         `json:"sgst_amount"`
	RoundOff        decimal.Decimal         `json:"round_off"`
	Total           decimal.Decimal         `json:"total"`
	PaymentStatus   invoicing.PaymentStatus `json:"payment_status"`
	PaidAmount      decimal.Decimal         `json:"paid_amount"`
	DueAmount       decimal.Decimal         `json:"due_amount"`
	PaymentDate     *time.Time              `json:"payment_date,omitempty"`
	PaymentMethod   string                  `json:"payment_method,omitempty"`
	PaymentNote     string                  `json:"payment_note,omitempty"`
	VehicleNumber   string                  `json:"vehicle_number,omitempty"`
	Transport       string                  `json:"transport,omitempty"`
	DeliveryNote    string                  `json:"delivery_note,omitempty"`
	ShippingAddress string                  `json:"shipping_address,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	Items           []InvoiceItemResponse   `json:"items,omitempty"`
	Version         int                     `json:"version"`
	CreatedBy       *uuid.UUID              `json:"created_by,omitempty"`
	UpdatedBy       *uuid.UUID              `json:"updated_by,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ToInvoiceResponse converts a domain Invoice to a response
func ToInvoiceResponse(inv *invoicing.Invoice) *InvoiceResponse {
	resp := &InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Type:            inv.Type,
		Date:            inv.Date,
		Status:          inv.Status,
		SupplierID:      inv.SupplierID,
		CustomerID:      inv.CustomerID,
		Subtotal:        inv.Subtotal,
		DiscountPercent: inv.DiscountPercent,
		DiscountAmount:  inv.DiscountAmount,
		TaxableValue:    inv.TaxableValue,
		CGSTPercent:     inv.CGSTPercent,
		CGSTAmount:      inv.CGSTAmount,
		SGSTPercent:     inv.SGSTPercent,
		SGSTAmount:      inv.SGSTAmount,
		RoundOff:        inv.RoundOff,
		Total:           inv.Total,
		PaymentStatus:   inv.Payment.Status,
		PaidAmount:      inv.Payment.Paid,
		DueAmount:       inv.Payment.Due,
		PaymentDate:     inv.Payment.Date,
		PaymentMethod:   inv.Payment.Method,
		PaymentNote:     inv.Payment.Note,
		VehicleNumber:   inv.Shipping.VehicleNumber,
		Transport:       inv.Shipping.Transport,
		DeliveryNote:    inv.Shipping.DeliveryNote,
		ShippingAddress: inv.Shipping.ShippingAddress,
		Notes:           inv.Notes,
		Version:         inv.Version,
		CreatedBy:       inv.CreatedBy,
		UpdatedBy:       inv.UpdatedBy,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
	if len(inv.Items) > 0 {
		resp.Items = make([]InvoiceItemResponse, len(inv.Items))
		for i, item := range inv.Items {
			resp.Items[i] = InvoiceItemResponse{
				ID:         item.ID,
				PartID:     item.PartID,
				PartNumber: item.PartNumber,
				ItemName:   item.ItemName,
				HSNCode:    item.HSNCode,
				Unit:       item.Unit,
				Quantity:   item.Quantity,
				Rate:       item.Rate,
				Amount:     item.Amount,
			}
		}
	}
	return resp
}

// ToInvoiceResponses converts headers for list responses
func ToInvoiceResponses(invoices []invoicing.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = *ToInvoiceResponse(&invoices[i])
	}
	return out
}

// BulkStatusResult reports how many rows a bulk status write touched
type BulkStatusResult struct {
	UpdatedCount int64 `json:"updated_count"`
}

// BulkDeleteResult reports how many invoices were removed
type BulkDeleteResult struct {
	DeletedCount int `json:"deleted_count"`
}

// NextNumberResponse is a preview of the next number in a bucket
type NextNumberResponse struct {
	Type          invoicing.InvoiceType `json:"type"`
	Date          time.Time             `json:"date"`
	InvoiceNumber string                `json:"invoice_number"`
}
