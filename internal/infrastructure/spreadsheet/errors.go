package spreadsheet

import "fmt"

// Row error codes
const (
	ErrCodeRequiredField = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeInvalidType   = "ERR_IMPORT_INVALID_TYPE"
	ErrCodeInvalidValue  = "ERR_IMPORT_INVALID_VALUE"
	ErrCodeDuplicate     = "ERR_IMPORT_DUPLICATE_IN_FILE"
)

// RowError represents an error in a specific row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d, column '%s': %s", e.Row, e.Column, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ErrorCollection keeps the first maxErrors row errors and counts the rest
type ErrorCollection struct {
	errors     []RowError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a new ErrorCollection with a maximum error limit
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{errors: make([]RowError, 0), maxErrors: maxErrors}
}

// Add adds an error to the collection
func (ec *ErrorCollection) Add(err RowError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequired records a missing required value
func (ec *ErrorCollection) AddRequired(row int, column string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeRequiredField, Message: fmt.Sprintf("field '%s' is required", column)})
}

// AddType records a value that does not parse as expectedType
func (ec *ErrorCollection) AddType(row int, column, expectedType, value string) {
	ec.Add(RowError{Row: row, Column: column, Code: ErrCodeInvalidType, Message: "expected " + expectedType, Value: value})
}

// Errors returns the collected errors
func (ec *ErrorCollection) Errors() []RowError {
	return ec.errors
}

// TotalCount returns the number of errors including those not kept
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors reports whether anything was added
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}
