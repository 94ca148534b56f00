package dto

import "net/http"

// Error codes surfaced by the API. Domain errors already carry stable
// UPPER_SNAKE codes, so the HTTP layer maps them straight to statuses.

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
)

// Validation error codes
const (
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInvalidContext   = "INVALID_CONTEXT"
)

// Authentication and authorization error codes
const (
	ErrCodeUnauthorized            = "UNAUTHORIZED"
	ErrCodeTokenExpired            = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid            = "INVALID_TOKEN"
	ErrCodeTokenRevoked            = "TOKEN_REVOKED"
	ErrCodeAccessDenied            = "ACCESS_DENIED"
	ErrCodeAccessExpired           = "PROJECT_ACCESS_EXPIRED"
	ErrCodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
)

// Resource error codes
const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeDuplicateEntry  = "DUPLICATE_ENTRY"
	ErrCodeOptimisticLock  = "OPTIMISTIC_LOCK_FAILED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// Business rule error codes
const (
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeReservation       = "RESERVATION_ERROR"
	ErrCodeDatabase          = "DATABASE_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	// Validation errors -> 400 Bad Request
	ErrCodeValidationFailed: http.StatusBadRequest,
	ErrCodeInvalidContext:   http.StatusBadRequest,

	// Authentication errors -> 401 Unauthorized
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	// Authorization errors -> 403 Forbidden
	ErrCodeAccessDenied:            http.StatusForbidden,
	ErrCodeAccessExpired:           http.StatusForbidden,
	ErrCodeInsufficientPermissions: http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeDuplicateEntry:  http.StatusConflict,
	ErrCodeOptimisticLock:  http.StatusConflict,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeReservation:       http.StatusUnprocessableEntity,

	ErrCodeDatabase: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
