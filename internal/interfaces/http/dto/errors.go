package dto

import (
	"errors"
	"net/http"

	"github.com/partshop/backend/internal/domain/shared"
)

// Transport level error codes. Domain errors keep their own codes.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_FAILED"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeTimeout         = "REQUEST_TIMEOUT"
)

// KindHTTPStatus maps domain error kinds to HTTP status codes
var KindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:   http.StatusBadRequest,
	shared.KindConflict:     http.StatusConflict,
	shared.KindNotFound:     http.StatusNotFound,
	shared.KindInvalidState: http.StatusUnprocessableEntity,
	shared.KindTransient:    http.StatusServiceUnavailable,
}

// StatusForKind returns the HTTP status for kind, 500 when unknown
func StatusForKind(kind shared.ErrorKind) int {
	if status, ok := KindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError builds the status and envelope for err. Errors that are not
// DomainErrors are reported as a generic 500 without leaking their text.
func FromError(err error, requestID string) (int, Response) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError, NewErrorResponse(ErrCodeInternal, "An unexpected error occurred", requestID)
	}

	info := &ErrorInfo{
		Code:      de.Code,
		Message:   de.Message,
		Kind:      string(de.Kind),
		Details:   de.Details,
		RequestID: requestID,
	}
	if de.Kind == shared.KindTransient {
		// causes are driver text
		info.Details = nil
	}
	return StatusForKind(de.Kind), Response{Success: false, Error: info}
}
