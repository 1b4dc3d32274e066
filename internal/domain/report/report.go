package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Period is the granularity of a rollup
type Period string

const (
	PeriodWeek  Period = "WEEK"
	PeriodMonth Period = "MONTH"
)

// IsValid checks if the period is known
func (p Period) IsValid() bool {
	return p == PeriodWeek || p == PeriodMonth
}

// DateRange is an inclusive [From, To] window. Zero values are open ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Validate rejects inverted ranges
func (r DateRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return shared.NewValidationError("INVALID_DATE_RANGE", "'to' must not be before 'from'")
	}
	return nil
}

// TypeStatusTotals is the aggregate of invoices sharing a type and status
type TypeStatusTotals struct {
	Type         invoicing.InvoiceType   `json:"type"`
	Status       invoicing.InvoiceStatus `json:"status"`
	Count        int64                   `json:"count"`
	Total        decimal.Decimal         `json:"total"`
	TaxableValue decimal.Decimal         `json:"taxable_value"`
	TaxAmount    decimal.Decimal         `json:"tax_amount"`
	Paid         decimal.Decimal         `json:"paid"`
	Due          decimal.Decimal         `json:"due"`
}

// InvoiceFact is the slice of an invoice header the rollups need
type InvoiceFact struct {
	Date         time.Time
	Type         invoicing.InvoiceType
	Status       invoicing.InvoiceStatus
	Total        decimal.Decimal
	TaxableValue decimal.Decimal
	Paid         decimal.Decimal
	PaymentDate  *time.Time
}

// PartRanking is one row of the top parts report
type PartRanking struct {
	Rank         int             `json:"rank"`
	PartID       uuid.UUID       `json:"part_id"`
	PartNumber   string          `json:"part_number"`
	ItemName     string          `json:"item_name"`
	Quantity     int64           `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
	InvoiceCount int64           `json:"invoice_count"`
}

// Dashboard summarises a date range
type Dashboard struct {
	From          *time.Time         `json:"from,omitempty"`
	To            *time.Time         `json:"to,omitempty"`
	SalesTotal    decimal.Decimal    `json:"sales_total"`
	PurchaseTotal decimal.Decimal    `json:"purchase_total"`
	SalesCount    int64              `json:"sales_count"`
	PurchaseCount int64              `json:"purchase_count"`
	Receivables   decimal.Decimal    `json:"receivables"`
	Payables      decimal.Decimal    `json:"payables"`
	PartCount     int64              `json:"part_count"`
	LowStockCount int64              `json:"low_stock_count"`
	ByStatus      []TypeStatusTotals `json:"by_status"`
}

// RollupBucket is the aggregate of one week or month
type RollupBucket struct {
	PeriodStart    time.Time       `json:"period_start"`
	Label          string          `json:"label"`
	InvoiceCount   int64           `json:"invoice_count"`
	Total          decimal.Decimal `json:"total"`
	TaxableValue   decimal.Decimal `json:"taxable_value"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	OutstandingDue decimal.Decimal `json:"outstanding_due"`
}

// ProfitLoss compares sales and purchases over a range on taxable value
type ProfitLoss struct {
	From            *time.Time      `json:"from,omitempty"`
	To              *time.Time      `json:"to,omitempty"`
	SalesTaxable    decimal.Decimal `json:"sales_taxable"`
	PurchaseTaxable decimal.Decimal `json:"purchase_taxable"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	GrossMarginPct  decimal.Decimal `json:"gross_margin_pct"`
	TaxCollected    decimal.Decimal `json:"tax_collected"`
	TaxPaid         decimal.Decimal `json:"tax_paid"`
	NetTaxLiability decimal.Decimal `json:"net_tax_liability"`
}

// BalanceSheet is an approximation derived from invoices and the ledger
type BalanceSheet struct {
	AsOf           time.Time       `json:"as_of"`
	Cash           decimal.Decimal `json:"cash"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	Receivables    decimal.Decimal `json:"receivables"`
	Payables       decimal.Decimal `json:"payables"`
	NetWorth       decimal.Decimal `json:"net_worth"`
}

// CashFlowBucket is money received and paid out in one month
type CashFlowBucket struct {
	PeriodStart time.Time       `json:"period_start"`
	Label       string          `json:"label"`
	Inflow      decimal.Decimal `json:"inflow"`
	Outflow     decimal.Decimal `json:"outflow"`
	Net         decimal.Decimal `json:"net"`
}
