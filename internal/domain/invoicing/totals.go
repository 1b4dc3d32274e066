package invoicing

import (
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineAmount is the arithmetic view of an invoice line
type LineAmount struct {
	Quantity int64
	Rate     decimal.Decimal
}

// Amount returns quantity x rate at full precision
func (l LineAmount) Amount() decimal.Decimal {
	return l.Rate.Mul(decimal.NewFromInt(l.Quantity))
}

// Discount is either a percent of the subtotal or a fixed amount.
// A positive fixed amount takes precedence over the percent.
type Discount struct {
	Percent decimal.Decimal
	Amount  *decimal.Decimal
}

// TaxRates are the CGST and SGST percentages applied on the taxable value
type TaxRates struct {
	CGSTPercent decimal.Decimal
	SGSTPercent decimal.Decimal
}

// Totals is the computed money breakdown of an invoice
type Totals struct {
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxableValue    decimal.Decimal
	CGSTPercent     decimal.Decimal
	CGSTAmount      decimal.Decimal
	SGSTPercent     decimal.Decimal
	SGSTAmount      decimal.Decimal
	Gross           decimal.Decimal
	RoundOff        decimal.Decimal
	Total           decimal.Decimal
}

// ComputeTotals derives every money field of an invoice. The discount is
// always taken on the subtotal before tax.
func ComputeTotals(lines []LineAmount, discount Discount, tax TaxRates) (Totals, error) {
	if err := validatePercent("DISCOUNT", discount.Percent); err != nil {
		return Totals{}, err
	}
	if err := validatePercent("CGST", tax.CGSTPercent); err != nil {
		return Totals{}, err
	}
	if err := validatePercent("SGST", tax.SGSTPercent); err != nil {
		return Totals{}, err
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return Totals{}, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if l.Rate.IsNegative() {
			return Totals{}, shared.NewValidationError("INVALID_RATE", "Rate cannot be negative")
		}
		subtotal = subtotal.Add(l.Amount())
	}

	t := Totals{
		Subtotal:    subtotal,
		CGSTPercent: tax.CGSTPercent,
		SGSTPercent: tax.SGSTPercent,
	}

	switch {
	case discount.Amount != nil && discount.Amount.IsNegative():
		return Totals{}, shared.NewValidationError("INVALID_DISCOUNT", "Discount amount cannot be negative")
	case discount.Amount != nil && discount.Amount.IsPositive():
		if discount.Amount.GreaterThan(subtotal) {
			return Totals{}, shared.NewValidationError("DISCOUNT_EXCEEDS_SUBTOTAL", "Discount amount cannot exceed the subtotal")
		}
		t.DiscountAmount = *discount.Amount
		t.DiscountPercent = decimal.Zero
	case discount.Percent.IsPositive():
		t.DiscountPercent = discount.Percent
		t.DiscountAmount = subtotal.Mul(discount.Percent).Div(hundred)
	default:
		t.DiscountAmount = decimal.Zero
		t.DiscountPercent = decimal.Zero
	}

	t.TaxableValue = subtotal.Sub(t.DiscountAmount)
	if t.TaxableValue.IsNegative() {
		return Totals{}, shared.NewValidationError("NEGATIVE_TAXABLE_VALUE", "Taxable value cannot be negative")
	}

	t.CGSTAmount = t.TaxableValue.Mul(tax.CGSTPercent).Div(hundred)
	t.SGSTAmount = t.TaxableValue.Mul(tax.SGSTPercent).Div(hundred)
	t.Gross = t.TaxableValue.Add(t.CGSTAmount).Add(t.SGSTAmount)
	t.Total = t.Gross.Round(0)
	t.RoundOff = t.Total.Sub(t.Gross)
	return t, nil
}

func validatePercent(name string, p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return shared.NewValidationError("INVALID_"+name+"_PERCENT", name+" percent must be between 0 and 100")
	}
	return nil
}

// PaymentStatus summarises how much of the total has been settled
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// SettlePayment clamps paid to [0, total] and derives the due amount and status
func SettlePayment(total, paid decimal.Decimal) (decimal.Decimal, decimal.Decimal, PaymentStatus) {
	if paid.IsNegative() {
		paid = decimal.Zero
	}
	if paid.GreaterThan(total) {
		paid = total
	}
	due := total.Sub(paid)
	switch {
	case paid.IsZero() && total.IsPositive():
		return paid, due, PaymentStatusUnpaid
	case due.IsPositive():
		return paid, due, PaymentStatusPartial
	default:
		return paid, due, PaymentStatusPaid
	}
}
