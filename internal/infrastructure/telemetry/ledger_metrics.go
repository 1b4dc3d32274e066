package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// LedgerMetrics counts invoice writes, numbering retries and stock
// adjustments. It satisfies the recorder interfaces of the invoicing and
// inventory services.
type LedgerMetrics struct {
	invoiceWrites    *Counter
	numberingRetries *Counter
	adjustments      *Counter
	adjustedUnits    *Counter
}

// NewLedgerMetrics registers the ledger instruments on meter
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	invoiceWrites, err := NewCounter(meter, "invoice_writes_total", "Committed invoice writes", "{write}")
	if err != nil {
		return nil, err
	}
	retries, err := NewCounter(meter, "invoice_numbering_retries_total", "Invoice writes replayed after a number collision or transient failure", "{retry}")
	if err != nil {
		return nil, err
	}
	adjustments, err := NewCounter(meter, "stock_adjustments_total", "Stock count corrections that moved stock", "{adjustment}")
	if err != nil {
		return nil, err
	}
	units, err := NewCounter(meter, "stock_adjusted_units_total", "Units moved by stock count corrections", "{unit}")
	if err != nil {
		return nil, err
	}
	return &LedgerMetrics{
		invoiceWrites:    invoiceWrites,
		numberingRetries: retries,
		adjustments:      adjustments,
		adjustedUnits:    units,
	}, nil
}

// RecordInvoiceWrite counts one committed create, update or delete
func (m *LedgerMetrics) RecordInvoiceWrite(ctx context.Context, invoiceType, operation string) {
	m.invoiceWrites.Inc(ctx, AttrInvoiceType.String(invoiceType), AttrOperation.String(operation))
}

// RecordNumberingRetry counts one replayed write attempt
func (m *LedgerMetrics) RecordNumberingRetry(ctx context.Context, invoiceType string) {
	m.numberingRetries.Inc(ctx, AttrInvoiceType.String(invoiceType))
}

// RecordStockAdjustment counts one adjustment; delta is signed
func (m *LedgerMetrics) RecordStockAdjustment(ctx context.Context, delta int64) {
	direction, units := "IN", delta
	if delta < 0 {
		direction, units = "OUT", -delta
	}
	m.adjustments.Inc(ctx, AttrDirection.String(direction))
	m.adjustedUnits.Add(ctx, units, AttrDirection.String(direction))
}
