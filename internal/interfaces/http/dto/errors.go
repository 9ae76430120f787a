package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
	// ErrCodeValidationLength is used when a field length is invalid
	ErrCodeValidationLength = "ERR_VALIDATION_LENGTH"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInvalidTransition is used when the target status is unknown or unreachable
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
)

// Order error codes
const (
	// ErrCodeInvalidOrder is used when checkout data breaks an order rule
	ErrCodeInvalidOrder = "ERR_INVALID_ORDER"
	// ErrCodeIdempotencyInFlight is used while a checkout with the same key is running
	ErrCodeIdempotencyInFlight = "ERR_IDEMPOTENCY_IN_FLIGHT"
)

// Account error codes
const (
	// ErrCodeInvalidCredentials is used when email or password is wrong
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	// ErrCodeAccountLocked is used after too many failed logins
	ErrCodeAccountLocked = "ERR_ACCOUNT_LOCKED"
	// ErrCodeAccountInactive is used for deactivated accounts
	ErrCodeAccountInactive = "ERR_ACCOUNT_INACTIVE"
)

// Export error codes
const (
	// ErrCodeInvalidExport is used when the analysis payload cannot be exported
	ErrCodeInvalidExport = "ERR_INVALID_EXPORT"
	// ErrCodeRenderTimeout is used when the PDF renderer gives up
	ErrCodeRenderTimeout = "ERR_RENDER_TIMEOUT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeTooManyRequests is an alias for rate limiting
	ErrCodeTooManyRequests = "ERR_TOO_MANY_REQUESTS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition: http.StatusUnprocessableEntity,

	// Order errors
	ErrCodeInvalidOrder:        http.StatusBadRequest,
	ErrCodeIdempotencyInFlight: http.StatusConflict,

	// Account errors
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountLocked:      http.StatusUnauthorized,
	ErrCodeAccountInactive:    http.StatusForbidden,

	// Export errors
	ErrCodeInvalidExport: http.StatusBadRequest,
	ErrCodeRenderTimeout: http.StatusGatewayTimeout,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeTooManyRequests: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain and service error codes to API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INVALID_STATUS":       ErrCodeInvalidTransition,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":     ErrCodeValidation,
	"BAD_REQUEST":          ErrCodeBadRequest,
	"INTERNAL_ERROR":       ErrCodeInternal,

	// checkout
	"INVALID_DELIVERY":       ErrCodeInvalidOrder,
	"EMPTY_ORDER":            ErrCodeInvalidOrder,
	"INVALID_ITEM":           ErrCodeInvalidOrder,
	"INVALID_QUANTITY":       ErrCodeInvalidOrder,
	"INVALID_PRICE":          ErrCodeInvalidOrder,
	"INVALID_PAYMENT":        ErrCodeInvalidOrder,
	"INVALID_SHIPPING_FEE":   ErrCodeInvalidOrder,
	"INVALID_ORDER_NUMBER":   ErrCodeInternal,
	"INVALID_CUSTOMER":       ErrCodeInvalidOrder,
	"IDEMPOTENCY_IN_FLIGHT":  ErrCodeIdempotencyInFlight,
	"IDEMPOTENCY_CORRUPT":    ErrCodeInternal,
	"ORDER_NUMBER_EXHAUSTED": ErrCodeInternal,

	// accounts
	"INVALID_CREDENTIALS": ErrCodeInvalidCredentials,
	"ACCOUNT_LOCKED":      ErrCodeAccountLocked,
	"ACCOUNT_DEACTIVATED": ErrCodeAccountInactive,
	"ACCOUNT_INACTIVE":    ErrCodeAccountInactive,
	"EMAIL_EXISTS":        ErrCodeAlreadyExists,
	"INVALID_EMAIL":       ErrCodeValidationFormat,
	"INVALID_PASSWORD":    ErrCodeValidationLength,
	"INVALID_ROLE":        ErrCodeInvalidInput,
	"INVALID_NAME":        ErrCodeValidationRequired,
	"INVALID_STORE":       ErrCodeInvalidInput,
	"PASSWORD_HASH_ERROR": ErrCodeInternal,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,

	// exports
	"EMPTY_ANALYSIS": ErrCodeInvalidExport,
	"INVALID_SCORE":  ErrCodeInvalidExport,
	"INVALID_FORMAT": ErrCodeInvalidExport,
	"RENDER_TIMEOUT": ErrCodeRenderTimeout,
}

// NormalizeErrorCode converts a domain error code to the API format.
// Codes already in the API format or unknown are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
