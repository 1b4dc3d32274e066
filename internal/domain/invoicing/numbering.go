package invoicing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FinancialYearLabel returns the April-March year straddling date as "YY-YY",
// e.g. 2025-11-03 -> "25-26" and 2026-02-10 -> "25-26".
func FinancialYearLabel(date time.Time) string {
	start := date.Year()
	if date.Month() < time.April {
		start--
	}
	return fmt.Sprintf("%02d-%02d", start%100, (start+1)%100)
}

// MonthAbbrev returns the upper-case three letter month, e.g. NOV
func MonthAbbrev(date time.Time) string {
	return strings.ToUpper(date.Month().String()[:3])
}

// Bucket is the (type, financial-year-month) scope of an invoice sequence.
// Numbers look like PREFIX/SEQ/MON/YY-YY, e.g. JCB/02/NOV/25-26.
type Bucket struct {
	Type          InvoiceType
	Prefix        string
	Month         string
	FinancialYear string
}

// NewBucket derives the bucket an invoice dated date falls into
func NewBucket(typ InvoiceType, prefix string, date time.Time) Bucket {
	return Bucket{
		Type:          typ,
		Prefix:        strings.ToUpper(strings.TrimSpace(prefix)),
		Month:         MonthAbbrev(date),
		FinancialYear: FinancialYearLabel(date),
	}
}

// Key identifies the bucket in the sequences table
func (b Bucket) Key() string {
	return b.Prefix + "/" + b.Month + "/" + b.FinancialYear
}

// LikePattern matches every number of the bucket in a SQL LIKE clause
func (b Bucket) LikePattern() string {
	return b.Prefix + "/%/" + b.Month + "/" + b.FinancialYear
}

// Format renders seq as an invoice number. SEQ is zero padded to two digits.
func (b Bucket) Format(seq int) string {
	return fmt.Sprintf("%s/%02d/%s/%s", b.Prefix, seq, b.Month, b.FinancialYear)
}

// ParseSequence extracts SEQ from a number of this bucket
func (b Bucket) ParseSequence(number string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(number), "/")
	if len(parts) != 4 {
		return 0, false
	}
	if !strings.EqualFold(parts[0], b.Prefix) || parts[2] != b.Month || parts[3] != b.FinancialYear {
		return 0, false
	}
	seq, err := strconv.Atoi(parts[1])
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}

// Sequences parses every number belonging to the bucket, ignoring the rest
func (b Bucket) Sequences(numbers []string) []int {
	seqs := make([]int, 0, len(numbers))
	for _, n := range numbers {
		if seq, ok := b.ParseSequence(n); ok {
			seqs = append(seqs, seq)
		}
	}
	return seqs
}

// NextSequence returns the smallest positive integer not in existing.
// With no gaps this is max(existing)+1; with no numbers it is 1.
func NextSequence(existing []int) int {
	if len(existing) == 0 {
		return 1
	}
	sorted := append([]int(nil), existing...)
	sort.Ints(sorted)
	want := 1
	for _, seq := range sorted {
		if seq < want {
			continue
		}
		if seq > want {
			return want
		}
		want++
	}
	return want
}
