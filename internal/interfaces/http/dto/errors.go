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
	// ErrCodeInsufficientStock is used when on-hand stock cannot cover an exit
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeInsufficientBatchQuantity is used when a named batch cannot cover its deduction
	ErrCodeInsufficientBatchQuantity = "ERR_INSUFFICIENT_BATCH_QUANTITY"
	// ErrCodeDeductionMismatch is used when exit deductions do not sum to the exit quantity
	ErrCodeDeductionMismatch = "ERR_DEDUCTION_MISMATCH"
	// ErrCodeLedgerIntegrityFault is used when batch totals diverge from the ledger quantity
	ErrCodeLedgerIntegrityFault = "ERR_LEDGER_INTEGRITY_FAULT"
	// ErrCodeInvalidRecipeYield is used when a recipe yield is zero or negative
	ErrCodeInvalidRecipeYield = "ERR_INVALID_RECIPE_YIELD"
	// ErrCodeNoSchedule is used when no purchasing weekday is configured
	ErrCodeNoSchedule = "ERR_NO_SCHEDULE"
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

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:              http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:              http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:         http.StatusUnprocessableEntity,
	ErrCodeInsufficientBatchQuantity: http.StatusUnprocessableEntity,
	ErrCodeDeductionMismatch:         http.StatusUnprocessableEntity,
	ErrCodeInvalidRecipeYield:        http.StatusUnprocessableEntity,
	ErrCodeNoSchedule:                http.StatusUnprocessableEntity,

	// A ledger that disagrees with its batches is a server-side fault
	ErrCodeLedgerIntegrityFault: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// transport-level codes. Domain packages raise short codes; the HTTP
// surface speaks the ERR_ vocabulary.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                   ErrCodeNotFound,
	"ALREADY_EXISTS":              ErrCodeAlreadyExists,
	"ALREADY_RESOLVED":            ErrCodeInvalidState,
	"INVALID_INPUT":               ErrCodeInvalidInput,
	"INVALID_STATE":               ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":        ErrCodeConcurrencyConflict,
	"INSUFFICIENT_STOCK":          ErrCodeInsufficientStock,
	"INSUFFICIENT_BATCH_QUANTITY": ErrCodeInsufficientBatchQuantity,
	"DEDUCTION_MISMATCH":          ErrCodeDeductionMismatch,
	"DEDUCTION_REQUIRED":          ErrCodeDeductionMismatch,
	"INVALID_DEDUCTIONS":          ErrCodeInvalidInput,
	"UNKNOWN_BATCH":               ErrCodeInvalidInput,
	"LEDGER_INTEGRITY_FAULT":      ErrCodeLedgerIntegrityFault,
	"INVALID_RECIPE_YIELD":        ErrCodeInvalidRecipeYield,
	"NO_SCHEDULE":                 ErrCodeNoSchedule,
	"INVALID_QUANTITY":            ErrCodeInvalidInput,
	"INVALID_MOVEMENT_TYPE":       ErrCodeInvalidInput,
	"INVALID_WINDOW":              ErrCodeInvalidInput,
	"INVALID_NAME":                ErrCodeInvalidInput,
	"INVALID_CATEGORY":            ErrCodeInvalidInput,
	"INVALID_UNIT":                ErrCodeInvalidInput,
	"INVALID_PRICE":               ErrCodeInvalidInput,
	"VALIDATION_ERROR":            ErrCodeValidation,
	"BAD_REQUEST":                 ErrCodeBadRequest,
	"INTERNAL_ERROR":              ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
