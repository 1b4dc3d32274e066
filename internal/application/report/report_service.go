package report

import (
	"context"
	"strconv"
	"time"

	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/report"
	"github.com/partshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultTopPartsLimit = 10

// ReportService answers read-only reports. Results are cached under the
// report prefix until the next invoice or stock write.
type ReportService struct {
	repo     report.Repository
	cache    shared.ReadCache
	cacheTTL time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(repo report.Repository) *ReportService {
	return &ReportService{
		repo:     repo,
		cacheTTL: 5 * time.Minute,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
}

// SetCache enables read-through caching of report results
func (s *ReportService) SetCache(cache shared.ReadCache, ttl time.Duration) {
	s.cache = cache
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// SetLogger sets the logger
func (s *ReportService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Dashboard summarises sales, purchases, dues and stock health
func (s *ReportService) Dashboard(ctx context.Context, q RangeQuery) (*report.Dashboard, error) {
	r, err := q.toDomain()
	if err != nil {
		return nil, err
	}
	key := shared.CachePrefixReport + "dashboard:" + q.key()
	return shared.ReadThrough(ctx, s.cache, key, s.cacheTTL, func() (*report.Dashboard, error) {
		totals, err := s.repo.TotalsByTypeAndStatus(ctx, r)
		if err != nil {
			return nil, err
		}
		positions, err := s.repo.StockPositions(ctx, time.Time{})
		if err != nil {
			return nil, err
		}
		return report.BuildDashboard(r, totals, positions), nil
	})
}

// Rollup buckets invoice totals by week or month
func (s *ReportService) Rollup(ctx context.Context, q RollupQuery) (*RollupResponse, error) {
	r, err := q.toDomain()
	if err != nil {
		return nil, err
	}
	if q.Period == "" {
		q.Period = report.PeriodMonth
	}
	if !q.Period.IsValid() {
		return nil, shared.NewValidationError("INVALID_PERIOD", "Period must be WEEK or MONTH")
	}
	if q.Type != "" && !q.Type.IsValid() {
		return nil, shared.NewValidationError("INVALID_TYPE", "Type must be SALE or PURCHASE")
	}
	key := shared.CachePrefixReport + "rollup:" + string(q.Type) + ":" + string(q.Period) + ":" + q.key()
	return shared.ReadThrough(ctx, s.cache, key, s.cacheTTL, func() (*RollupResponse, error) {
		facts, err := s.repo.InvoiceFacts(ctx, q.Type, r)
		if err != nil {
			return nil, err
		}
		return &RollupResponse{Type: q.Type, Period: q.Period, Buckets: report.Rollup(facts, q.Period)}, nil
	})
}

// TopParts ranks parts by quantity moved on invoices of one type
func (s *ReportService) TopParts(ctx context.Context, q TopPartsQuery) (*TopPartsResponse, error) {
	r, err := q.toDomain()
	if err != nil {
		return nil, err
	}
	if q.Type == "" {
		q.Type = invoicing.InvoiceTypeSale
	}
	if !q.Type.IsValid() {
		return nil, shared.NewValidationError("INVALID_TYPE", "Type must be SALE or PURCHASE")
	}
	if q.Limit <= 0 {
		q.Limit = defaultTopPartsLimit
	}
	key := shared.CachePrefixReport + "top:" + string(q.Type) + ":" + strconv.Itoa(q.Limit) + ":" + q.key()
	return shared.ReadThrough(ctx, s.cache, key, s.cacheTTL, func() (*TopPartsResponse, error) {
		parts, err := s.repo.TopParts(ctx, q.Type, r, q.Limit)
		if err != nil {
			return nil, err
		}
		if parts == nil {
			parts = []report.PartRanking{}
		}
		return &TopPartsResponse{Type: q.Type, Parts: parts}, nil
	})
}

// ProfitLoss compares sales and purchase taxable value over a range
func (s *ReportService) ProfitLoss(ctx context.Context, q RangeQuery) (*report.ProfitLoss, error) {
	r, err := q.toDomain()
	if err != nil {
		return nil, err
	}
	key := shared.CachePrefixReport + "pl:" + q.key()
	return shared.ReadThrough(ctx, s.cache, key, s.cacheTTL, func() (*report.ProfitLoss, error) {
		totals, err := s.repo.TotalsByTypeAndStatus(ctx, r)
		if err != nil {
			return nil, err
		}
		return report.BuildProfitLoss(r, totals), nil
	})
}

// BalanceSheet values cash, inventory and dues as of a date. Inventory is
// the ledger quantity recorded by the end of that day, priced at current MRP.
func (s *ReportService) BalanceSheet(ctx context.Context, q AsOfQuery) (*report.BalanceSheet, error) {
	asOf, err := parseDate("as_of", q.AsOf)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		now := s.now().UTC()
		asOf = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	key := shared.CachePrefixReport + "bs:" + asOf.Format(DateLayout)
	return shared.ReadThrough(ctx, s.cache, key, s.cacheTTL, func() (*report.BalanceSheet, error) {
		totals, err := s.repo.TotalsByTypeAndStatus(ctx, report.DateRange{To: asOf})
		if err != nil {
			return nil, err
		}
		positions, err := s.repo.StockPositions(ctx, asOf)
		if err != nil {
			return nil, err
		}
		return report.BuildBalanceSheet(asOf, totals, positions), nil
	})
}

// CashFlow buckets payments received and made by month
func (s *ReportService) CashFlow(ctx context.Context, q RangeQuery) ([]report.CashFlowBucket, error) {
	r, err := q.toDomain()
	if err != nil {
		return nil, err
	}
	key := shared.CachePrefixReport + "cashflow:" + q.key()
	return shared.ReadThrough(ctx, s.cache, key, s.cacheTTL, func() ([]report.CashFlowBucket, error) {
		facts, err := s.repo.InvoiceFacts(ctx, "", r)
		if err != nil {
			return nil, err
		}
		return report.CashFlow(facts), nil
	})
}
