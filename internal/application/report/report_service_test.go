package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/partshop/backend/internal/domain/inventory"
	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/report"
	"github.com/partshop/backend/internal/domain/shared"
	"github.com/partshop/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReportRepository is a mock implementation of report.Repository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) TotalsByTypeAndStatus(ctx context.Context, r report.DateRange) ([]report.TypeStatusTotals, error) {
	args := m.Called(ctx, r)
	return args.Get(0).([]report.TypeStatusTotals), args.Error(1)
}

func (m *MockReportRepository) InvoiceFacts(ctx context.Context, typ invoicing.InvoiceType, r report.DateRange) ([]report.InvoiceFact, error) {
	args := m.Called(ctx, typ, r)
	return args.Get(0).([]report.InvoiceFact), args.Error(1)
}

func (m *MockReportRepository) TopParts(ctx context.Context, typ invoicing.InvoiceType, r report.DateRange, limit int) ([]report.PartRanking, error) {
	args := m.Called(ctx, typ, r, limit)
	return args.Get(0).([]report.PartRanking), args.Error(1)
}

func (m *MockReportRepository) StockPositions(ctx context.Context, asOf time.Time) ([]report.StockPosition, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]report.StockPosition), args.Error(1)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func utcDay(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func sampleTotals() []report.TypeStatusTotals {
	return []report.TypeStatusTotals{
		{Type: invoicing.InvoiceTypeSale, Status: invoicing.InvoiceStatusPaid, Count: 2, Total: dec("1180"), TaxableValue: dec("1000"), TaxAmount: dec("180"), Paid: dec("1180"), Due: decimal.Zero},
		{Type: invoicing.InvoiceTypeSale, Status: invoicing.InvoiceStatusSubmitted, Count: 1, Total: dec("590"), TaxableValue: dec("500"), TaxAmount: dec("90"), Paid: dec("90"), Due: dec("500")},
		{Type: invoicing.InvoiceTypePurchase, Status: invoicing.InvoiceStatusSubmitted, Count: 1, Total: dec("708"), TaxableValue: dec("600"), TaxAmount: dec("108"), Paid: dec("208"), Due: dec("500")},
	}
}

func TestReportService_Dashboard(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepository)
	want := report.DateRange{From: utcDay(2025, 4, 1), To: utcDay(2025, 4, 30)}
	repo.On("TotalsByTypeAndStatus", ctx, want).Return(sampleTotals(), nil).Once()
	repo.On("StockPositions", ctx, time.Time{}).Return([]report.StockPosition{
		{PartID: uuid.New(), MRP: dec("10"), MinStock: 5, Incoming: 10, Outgoing: 7},
		{PartID: uuid.New(), MRP: dec("20"), Incoming: 4},
		{PartID: uuid.New(), MRP: dec("30"), Incoming: 1, Deleted: true},
	}, nil).Once()

	svc := NewReportService(repo)
	svc.SetCache(cache.NewMemoryReadCache(), time.Minute)

	q := RangeQuery{From: "2025-04-01", To: "2025-04-30"}
	d, err := svc.Dashboard(ctx, q)
	require.NoError(t, err)
	assert.True(t, dec("1770").Equal(d.SalesTotal))
	assert.True(t, dec("708").Equal(d.PurchaseTotal))
	assert.Equal(t, int64(3), d.SalesCount)
	assert.True(t, dec("500").Equal(d.Receivables))
	assert.True(t, dec("500").Equal(d.Payables))
	assert.Equal(t, int64(2), d.PartCount)
	assert.Equal(t, int64(1), d.LowStockCount)

	// served from cache; Once() would fail a second repository call
	again, err := svc.Dashboard(ctx, q)
	require.NoError(t, err)
	assert.True(t, d.SalesTotal.Equal(again.SalesTotal))
	repo.AssertExpectations(t)
}

func TestReportService_InvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := NewReportService(new(MockReportRepository))

	_, err := svc.Dashboard(ctx, RangeQuery{From: "01/04/2025"})
	assert.True(t, shared.IsKind(err, shared.KindValidation))

	_, err = svc.ProfitLoss(ctx, RangeQuery{From: "2025-05-01", To: "2025-04-01"})
	assert.True(t, shared.IsKind(err, shared.KindValidation))

	_, err = svc.Rollup(ctx, RollupQuery{Period: "DAY"})
	assert.True(t, shared.IsKind(err, shared.KindValidation))

	_, err = svc.TopParts(ctx, TopPartsQuery{Type: "RETURN"})
	assert.True(t, shared.IsKind(err, shared.KindValidation))
}

func TestReportService_Rollup(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepository)
	repo.On("InvoiceFacts", ctx, invoicing.InvoiceTypeSale, report.DateRange{}).Return([]report.InvoiceFact{
		{Date: utcDay(2025, 4, 3), Type: invoicing.InvoiceTypeSale, Total: dec("100"), TaxableValue: dec("90"), Paid: dec("100")},
		{Date: utcDay(2025, 4, 20), Type: invoicing.InvoiceTypeSale, Total: dec("50"), TaxableValue: dec("45"), Paid: decimal.Zero},
		{Date: utcDay(2025, 6, 1), Type: invoicing.InvoiceTypeSale, Total: dec("10"), TaxableValue: dec("9"), Paid: decimal.Zero},
	}, nil)

	resp, err := NewReportService(repo).Rollup(ctx, RollupQuery{Type: invoicing.InvoiceTypeSale})
	require.NoError(t, err)
	assert.Equal(t, report.PeriodMonth, resp.Period)
	require.Len(t, resp.Buckets, 2)
	assert.Equal(t, "2025-04", resp.Buckets[0].Label)
	assert.Equal(t, int64(2), resp.Buckets[0].InvoiceCount)
	assert.True(t, dec("50").Equal(resp.Buckets[0].OutstandingDue))
	assert.Equal(t, "2025-06", resp.Buckets[1].Label)
}

func TestReportService_TopParts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepository)
	repo.On("TopParts", ctx, invoicing.InvoiceTypeSale, report.DateRange{}, defaultTopPartsLimit).
		Return([]report.PartRanking(nil), nil)

	resp, err := NewReportService(repo).TopParts(ctx, TopPartsQuery{})
	require.NoError(t, err)
	assert.Equal(t, invoicing.InvoiceTypeSale, resp.Type)
	assert.NotNil(t, resp.Parts)
	assert.Empty(t, resp.Parts)
}

func TestReportService_BalanceSheet(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepository)
	asOf := utcDay(2025, 9, 30)
	repo.On("TotalsByTypeAndStatus", ctx, report.DateRange{To: asOf}).Return(sampleTotals(), nil)
	repo.On("StockPositions", ctx, asOf).Return([]report.StockPosition{
		{PartID: uuid.New(), MRP: dec("10"), Incoming: 10, Outgoing: 3},
		{PartID: uuid.New(), MRP: dec("99"), Incoming: 1, Outgoing: 2},
	}, nil)

	bs, err := NewReportService(repo).BalanceSheet(ctx, AsOfQuery{AsOf: "2025-09-30"})
	require.NoError(t, err)
	assert.Equal(t, asOf, bs.AsOf)
	assert.True(t, dec("1062").Equal(bs.Cash), bs.Cash.String())
	assert.True(t, dec("70").Equal(bs.InventoryValue), bs.InventoryValue.String())
	assert.True(t, dec("1132").Equal(bs.NetWorth), bs.NetWorth.String())
}

func TestReportService_BalanceSheetDefaultsToToday(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepository)
	svc := NewReportService(repo)
	svc.now = func() time.Time { return time.Date(2025, 11, 14, 18, 30, 0, 0, time.UTC) }
	repo.On("TotalsByTypeAndStatus", ctx, report.DateRange{To: utcDay(2025, 11, 14)}).Return([]report.TypeStatusTotals{}, nil)
	repo.On("StockPositions", ctx, utcDay(2025, 11, 14)).Return([]report.StockPosition{}, nil)

	bs, err := svc.BalanceSheet(ctx, AsOfQuery{})
	require.NoError(t, err)
	assert.True(t, bs.NetWorth.IsZero())
}

func TestReportService_CashFlow(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepository)
	paid := utcDay(2025, 5, 2)
	repo.On("InvoiceFacts", ctx, invoicing.InvoiceType(""), report.DateRange{}).Return([]report.InvoiceFact{
		{Date: utcDay(2025, 4, 28), Type: invoicing.InvoiceTypeSale, Total: dec("100"), Paid: dec("100"), PaymentDate: &paid},
		{Date: utcDay(2025, 5, 10), Type: invoicing.InvoiceTypePurchase, Total: dec("40"), Paid: dec("40")},
	}, nil)

	buckets, err := NewReportService(repo).CashFlow(ctx, RangeQuery{})
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "2025-05", buckets[0].Label)
	assert.True(t, dec("60").Equal(buckets[0].Net))
}

func TestCacheInvalidationHandler(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryReadCache()
	for _, key := range []string{"report:a", "stock:b", "invoice:c"} {
		require.NoError(t, c.Set(ctx, key, 1, time.Minute))
	}
	h := NewCacheInvalidationHandler(c, nil)
	assert.Contains(t, h.EventTypes(), invoicing.EventTypeInvoiceCreated)

	stockEvent := newStockEvent()
	require.NoError(t, h.Handle(ctx, stockEvent))
	assert.Equal(t, 1, c.Len(), "stock events keep invoice views")

	require.NoError(t, h.Handle(ctx, invoicing.NewBulkStatusChangedEvent(nil, invoicing.InvoiceStatusPaid, 0, uuid.Nil)))
	assert.Equal(t, 0, c.Len())

	assert.NoError(t, NewCacheInvalidationHandler(nil, nil).Handle(ctx, stockEvent))
}

func newStockEvent() shared.DomainEvent {
	return inventory.NewStockAdjustedEvent(uuid.New(), uuid.Nil, 1, 2, 1)
}
