package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE parts;--", "DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty returns default", "", "created_at"},
		{"whitelisted field", "part_number", "part_number"},
		{"trimmed field", "  item_name ", "item_name"},
		{"unknown field returns default", "stock", "created_at"},
		{"injection returns default", "mrp; DROP TABLE parts;--", "created_at"},
		{"case sensitive", "MRP", "created_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, PartSortFields, "created_at"))
		})
	}
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "invoice_date ASC", orderClause("invoice_date", "asc", InvoiceSortFields, "created_at"))
	assert.Equal(t, "created_at DESC", orderClause("bogus", "", InvoiceSortFields, "created_at"))
}

func TestSortFieldsWhitelists(t *testing.T) {
	for name, fields := range map[string]map[string]bool{
		"PartSortFields":    PartSortFields,
		"PartySortFields":   PartySortFields,
		"InvoiceSortFields": InvoiceSortFields,
		"LedgerSortFields":  LedgerSortFields,
	} {
		assert.True(t, fields["created_at"], "%s should allow created_at", name)
	}
}
