package report

import (
	"time"

	"github.com/partshop/backend/internal/domain/invoicing"
	"github.com/partshop/backend/internal/domain/report"
	"github.com/partshop/backend/internal/domain/shared"
)

// DateLayout is the calendar date format accepted in report queries
const DateLayout = "2006-01-02"

// RangeQuery is an inclusive calendar date range; both ends are optional
type RangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

func (q RangeQuery) toDomain() (report.DateRange, error) {
	var r report.DateRange
	var err error
	if r.From, err = parseDate("from", q.From); err != nil {
		return r, err
	}
	if r.To, err = parseDate("to", q.To); err != nil {
		return r, err
	}
	return r, r.Validate()
}

func (q RangeQuery) key() string {
	return q.From + ":" + q.To
}

// RollupQuery selects invoices of one type (or both) bucketed by period
type RollupQuery struct {
	RangeQuery
	Type   invoicing.InvoiceType `form:"type" binding:"omitempty,oneof=SALE PURCHASE"`
	Period report.Period         `form:"period" binding:"omitempty,oneof=WEEK MONTH"`
}

// TopPartsQuery ranks parts on invoices of one type
type TopPartsQuery struct {
	RangeQuery
	Type  invoicing.InvoiceType `form:"type" binding:"omitempty,oneof=SALE PURCHASE"`
	Limit int                   `form:"limit" binding:"omitempty,min=1,max=100"`
}

// AsOfQuery selects a point in time; empty means today
type AsOfQuery struct {
	AsOf string `form:"as_of"`
}

// RollupResponse wraps rollup buckets with their query
type RollupResponse struct {
	Type    invoicing.InvoiceType `json:"type,omitempty"`
	Period  report.Period         `json:"period"`
	Buckets []report.RollupBucket `json:"buckets"`
}

// TopPartsResponse wraps the ranking with its query
type TopPartsResponse struct {
	Type  invoicing.InvoiceType `json:"type"`
	Parts []report.PartRanking  `json:"parts"`
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, shared.NewValidationError("INVALID_DATE", "Dates must be YYYY-MM-DD").WithDetail("field", field)
	}
	return t, nil
}
