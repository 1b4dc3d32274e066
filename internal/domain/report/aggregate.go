package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// StockPosition is a part with its ledger totals
type StockPosition struct {
	PartID   uuid.UUID
	MRP      decimal.Decimal
	MinStock int64
	Incoming int64
	Outgoing int64
	Deleted  bool
}

// Stock returns the net quantity
func (p StockPosition) Stock() int64 {
	return p.Incoming - p.Outgoing
}

// IsLow mirrors catalog.Part.IsLowStock
func (p StockPosition) IsLow() bool {
	return p.MinStock > 0 && p.Stock() <= p.MinStock
}

// PeriodStart truncates t to the start of its week (Monday) or month, in t's location
func PeriodStart(t time.Time, period Period) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if period == PeriodMonth {
		return day.AddDate(0, 0, 1-day.Day())
	}
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// PeriodLabel renders "2025-W45" for weeks and "2025-11" for months
func PeriodLabel(start time.Time, period Period) string {
	if period == PeriodMonth {
		return start.Format("2006-01")
	}
	year, week := start.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Rollup groups facts into ascending week or month buckets. Empty periods
// are omitted.
func Rollup(facts []InvoiceFact, period Period) []RollupBucket {
	index := make(map[time.Time]*RollupBucket)
	for _, f := range facts {
		start := PeriodStart(f.Date, period)
		b, ok := index[start]
		if !ok {
			b = &RollupBucket{
				PeriodStart:    start,
				Label:          PeriodLabel(start, period),
				Total:          decimal.Zero,
				TaxableValue:   decimal.Zero,
				PaidAmount:     decimal.Zero,
				OutstandingDue: decimal.Zero,
			}
			index[start] = b
		}
		b.InvoiceCount++
		b.Total = b.Total.Add(f.Total)
		b.TaxableValue = b.TaxableValue.Add(f.TaxableValue)
		b.PaidAmount = b.PaidAmount.Add(f.Paid)
		b.OutstandingDue = b.OutstandingDue.Add(f.Total.Sub(f.Paid))
	}
	return sortedBuckets(index)
}

func sortedBuckets(index map[time.Time]*RollupBucket) []RollupBucket {
	buckets := make([]RollupBucket, 0, len(index))
	for _, b := range index {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].PeriodStart.Before(buckets[j].PeriodStart)
	})
	return buckets
}

// CashFlow buckets paid amounts by the month they were paid in. Sales are
// inflow and purchases outflow; a missing payment date falls back to the
// invoice date.
func CashFlow(facts []InvoiceFact) []CashFlowBucket {
	index := make(map[time.Time]*CashFlowBucket)
	for _, f := range facts {
		if !f.Paid.IsPositive() {
			continue
		}
		when := f.Date
		if f.PaymentDate != nil {
			when = *f.PaymentDate
		}
		start := PeriodStart(when, PeriodMonth)
		b, ok := index[start]
		if !ok {
			b = &CashFlowBucket{
				PeriodStart: start,
				Label:       PeriodLabel(start, PeriodMonth),
				Inflow:      decimal.Zero,
				Outflow:     decimal.Zero,
			}
			index[start] = b
		}
		switch f.Type {
		case invoicing.InvoiceTypeSale:
			b.Inflow = b.Inflow.Add(f.Paid)
		case invoicing.InvoiceTypePurchase:
			b.Outflow = b.Outflow.Add(f.Paid)
		}
	}

	out := make([]CashFlowBucket, 0, len(index))
	for _, b := range index {
		b.Net = b.Inflow.Sub(b.Outflow)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PeriodStart.Before(out[j].PeriodStart) })
	return out
}

type typeSums struct {
	count   int64
	total   decimal.Decimal
	taxable decimal.Decimal
	tax     decimal.Decimal
	paid    decimal.Decimal
	due     decimal.Decimal
}

func sumByType(totals []TypeStatusTotals) map[invoicing.InvoiceType]typeSums {
	out := map[invoicing.InvoiceType]typeSums{
		invoicing.InvoiceTypeSale:     {},
		invoicing.InvoiceTypePurchase: {},
	}
	for _, t := range totals {
		s := out[t.Type]
		s.count += t.Count
		s.total = s.total.Add(t.Total)
		s.taxable = s.taxable.Add(t.TaxableValue)
		s.tax = s.tax.Add(t.TaxAmount)
		s.paid = s.paid.Add(t.Paid)
		s.due = s.due.Add(t.Due)
		out[t.Type] = s
	}
	return out
}

// BuildDashboard combines the status totals with the stock positions
func BuildDashboard(r DateRange, totals []TypeStatusTotals, positions []StockPosition) *Dashboard {
	sums := sumByType(totals)
	sale, purchase := sums[invoicing.InvoiceTypeSale], sums[invoicing.InvoiceTypePurchase]

	d := &Dashboard{
		From:          timePtr(r.From),
		To:            timePtr(r.To),
		SalesTotal:    sale.total,
		PurchaseTotal: purchase.total,
		SalesCount:    sale.count,
		PurchaseCount: purchase.count,
		Receivables:   sale.due,
		Payables:      purchase.due,
		ByStatus:      totals,
	}
	if d.ByStatus == nil {
		d.ByStatus = []TypeStatusTotals{}
	}
	for _, p := range positions {
		if p.Deleted {
			continue
		}
		d.PartCount++
		if p.IsLow() {
			d.LowStockCount++
		}
	}
	return d
}

// BuildProfitLoss compares taxable values; the margin is a percentage of
// sales rounded to two places.
func BuildProfitLoss(r DateRange, totals []TypeStatusTotals) *ProfitLoss {
	sums := sumByType(totals)
	sale, purchase := sums[invoicing.InvoiceTypeSale], sums[invoicing.InvoiceTypePurchase]

	pl := &ProfitLoss{
		From:            timePtr(r.From),
		To:              timePtr(r.To),
		SalesTaxable:    sale.taxable,
		PurchaseTaxable: purchase.taxable,
		GrossProfit:     sale.taxable.Sub(purchase.taxable),
		GrossMarginPct:  decimal.Zero,
		TaxCollected:    sale.tax,
		TaxPaid:         purchase.tax,
		NetTaxLiability: sale.tax.Sub(purchase.tax),
	}
	if !sale.taxable.IsZero() {
		pl.GrossMarginPct = pl.GrossProfit.Div(sale.taxable).Mul(hundred).Round(2)
	}
	return pl
}

// BuildBalanceSheet values inventory at MRP times net quantity. Parts with
// non-positive stock contribute nothing.
func BuildBalanceSheet(asOf time.Time, totals []TypeStatusTotals, positions []StockPosition) *BalanceSheet {
	sums := sumByType(totals)
	sale, purchase := sums[invoicing.InvoiceTypeSale], sums[invoicing.InvoiceTypePurchase]

	bs := &BalanceSheet{
		AsOf:           asOf,
		Cash:           sale.paid.Sub(purchase.paid),
		InventoryValue: InventoryValue(positions),
		Receivables:    sale.due,
		Payables:       purchase.due,
	}
	bs.NetWorth = bs.Cash.Add(bs.InventoryValue).Add(bs.Receivables).Sub(bs.Payables)
	return bs
}

// InventoryValue sums MRP x stock over positions in stock
func InventoryValue(positions []StockPosition) decimal.Decimal {
	value := decimal.Zero
	for _, p := range positions {
		if qty := p.Stock(); qty > 0 {
			value = value.Add(p.MRP.Mul(decimal.NewFromInt(qty)))
		}
	}
	return value
}

// Rank numbers rankings from 1 in their current order
func Rank(rows []PartRanking) []PartRanking {
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
