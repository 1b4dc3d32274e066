package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError so the boundary layer can map it to a
// status code without knowing every individual error code.
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindConflict     ErrorKind = "CONFLICT"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindInvalidState ErrorKind = "INVALID_STATE"
	KindTransient    ErrorKind = "TRANSIENT"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind      `json:"kind"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches another DomainError by kind and code so sentinel values work with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// WithDetail returns a copy of the error carrying an extra detail entry
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports malformed or out of range input
func NewValidationError(code, message string) *DomainError {
	return NewDomainError(KindValidation, code, message)
}

// NewConflictError reports a uniqueness or state conflict the caller can correct
func NewConflictError(code, message string) *DomainError {
	return NewDomainError(KindConflict, code, message)
}

// NewNotFoundError reports a missing or soft-deleted resource
func NewNotFoundError(code, message string) *DomainError {
	return NewDomainError(KindNotFound, code, message)
}

// NewInvalidStateError reports an operation that the current status forbids
func NewInvalidStateError(code, message string) *DomainError {
	return NewDomainError(KindInvalidState, code, message)
}

// NewTransientStorageError wraps a storage failure that is safe to retry
func NewTransientStorageError(message string, cause error) *DomainError {
	return &DomainError{
		Kind:    KindTransient,
		Code:    "TRANSIENT_STORAGE",
		Message: message,
		cause:   cause,
	}
}

// KindOf returns the kind of the first DomainError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries a DomainError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Common domain errors
var (
	ErrNotFound     = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrDuplicateKey = NewConflictError("DUPLICATE_KEY", "A record with the same unique key already exists")
)
