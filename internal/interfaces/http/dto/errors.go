package dto

import "net/http"

// Error codes shared between the domain layer and the HTTP envelope. The
// domain raises them through shared.DomainError; handlers translate them to
// status codes with GetHTTPStatus.
const (
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeInternal            = "INTERNAL_ERROR"

	ErrCodeEditWindowExpired = "EDIT_WINDOW_EXPIRED"
	ErrCodeProfanityDetected = "PROFANITY_DETECTED"
	ErrCodeSignatureExpired  = "SIGNATURE_EXPIRED"
	ErrCodeInvalidSignature  = "INVALID_SIGNATURE"
	ErrCodeAlreadyVerified   = "ALREADY_VERIFIED"
	ErrCodeAccountLocked     = "ACCOUNT_LOCKED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInvalidInput:        http.StatusBadRequest,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
	ErrCodeInternal:            http.StatusInternalServerError,

	ErrCodeEditWindowExpired: http.StatusForbidden,
	ErrCodeProfanityDetected: http.StatusBadRequest,
	ErrCodeSignatureExpired:  http.StatusGone,
	ErrCodeInvalidSignature:  http.StatusBadRequest,
	ErrCodeAlreadyVerified:   http.StatusBadRequest,
	ErrCodeAccountLocked:     http.StatusForbidden,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes fall back to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
