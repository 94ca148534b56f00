package shared

// DomainError represents a domain-level error with a stable code
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
	ErrNotFound                = NewDomainError("NOT_FOUND", "Resource not found")
	ErrDuplicateEntry          = NewDomainError("DUPLICATE_ENTRY", "Resource already exists")
	ErrValidationFailed        = NewDomainError("VALIDATION_FAILED", "Invalid input provided")
	ErrInsufficientStock       = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrReservation             = NewDomainError("RESERVATION_ERROR", "Reservation quantity conflict")
	ErrAccessDenied            = NewDomainError("ACCESS_DENIED", "No access to project")
	ErrInsufficientPermissions = NewDomainError("INSUFFICIENT_PERMISSIONS", "Missing required permission")
	ErrAccessExpired           = NewDomainError("PROJECT_ACCESS_EXPIRED", "Project access has expired")
	ErrInvalidContext          = NewDomainError("INVALID_CONTEXT", "Missing caller identity fields")
	ErrInvalidState            = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrConcurrencyConflict     = NewDomainError("OPTIMISTIC_LOCK_FAILED", "Resource was modified by another process")
	ErrDatabase                = NewDomainError("DATABASE_ERROR", "Persistence operation failed")
)
