package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds a whitelisted ORDER BY fragment
func orderClause(sortField, orderDir string, allowed map[string]bool, defaultField string) string {
	return ValidateSortField(sortField, allowed, defaultField) + " " + ValidateSortOrder(orderDir)
}

// PartSortFields contains allowed sort fields for parts
var PartSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"part_number":  true,
	"item_name":    true,
	"hsn_code":     true,
	"mrp":          true,
	"retail_price": true,
	"min_stock":    true,
}

// PartySortFields contains allowed sort fields for suppliers and customers
var PartySortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"kind":       true,
	"state":      true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"invoice_date":   true,
	"invoice_number": true,
	"status":         true,
	"total":          true,
	"due_amount":     true,
	"payment_status": true,
}

// LedgerSortFields contains allowed sort fields for stock ledger history
var LedgerSortFields = map[string]bool{
	"created_at": true,
	"quantity":   true,
	"direction":  true,
}
