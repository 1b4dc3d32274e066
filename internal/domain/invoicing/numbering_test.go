package invoicing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 10, 0, 0, 0, time.UTC)
}

func TestFinancialYearLabel(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{date(2025, time.November, 3), "25-26"},
		{date(2026, time.February, 10), "25-26"},
		{date(2026, time.March, 31), "25-26"},
		{date(2026, time.April, 1), "26-27"},
		{date(1999, time.May, 1), "99-00"},
		{date(2000, time.January, 1), "99-00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FinancialYearLabel(tt.date), tt.date.String())
	}
}

func TestBucket(t *testing.T) {
	b := NewBucket(InvoiceTypeSale, "jcb", date(2025, time.November, 14))

	assert.Equal(t, "JCB/02/NOV/25-26", b.Format(2))
	assert.Equal(t, "JCB/123/NOV/25-26", b.Format(123))
	assert.Equal(t, "JCB/%/NOV/25-26", b.LikePattern())
	assert.Equal(t, "JCB/NOV/25-26", b.Key())

	seq, ok := b.ParseSequence("JCB/07/NOV/25-26")
	assert.True(t, ok)
	assert.Equal(t, 7, seq)

	_, ok = b.ParseSequence("JCB/07/DEC/25-26")
	assert.False(t, ok)
	_, ok = b.ParseSequence("JCB/XX/NOV/25-26")
	assert.False(t, ok)
	_, ok = b.ParseSequence("JCB/00/NOV/25-26")
	assert.False(t, ok)
	_, ok = b.ParseSequence("SUPPLIER-BILL-9")
	assert.False(t, ok)

	assert.Equal(t, []int{1, 3}, b.Sequences([]string{"JCB/01/NOV/25-26", "junk", "JCB/03/NOV/25-26", "JCB/02/OCT/25-26"}))
}

func TestNextSequence(t *testing.T) {
	tests := []struct {
		name     string
		existing []int
		want     int
	}{
		{"empty bucket", nil, 1},
		{"contiguous", []int{1, 2, 3}, 4},
		{"gap reclaimed", []int{1, 3}, 2},
		{"first freed", []int{2, 3}, 1},
		{"unsorted with duplicates", []int{5, 1, 2, 2, 4}, 3},
		{"smallest gap first", []int{1, 4, 6}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSequence(tt.existing))
		})
	}
}
