package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrRateLimited         = NewDomainError("RATE_LIMITED", "Too many requests, try again later")
	ErrEditWindowExpired   = NewDomainError("EDIT_WINDOW_EXPIRED", "The edit window for this message has expired")
	ErrProfanityDetected   = NewDomainError("PROFANITY_DETECTED", "Text contains disallowed words")
	ErrSignatureExpired    = NewDomainError("SIGNATURE_EXPIRED", "The signed code has expired")
	ErrInvalidSignature    = NewDomainError("INVALID_SIGNATURE", "The signed code is invalid")
	ErrAlreadyVerified     = NewDomainError("ALREADY_VERIFIED", "The account is already verified")
	ErrAccountLocked       = NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked")
)
