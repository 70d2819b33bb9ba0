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
	// ErrCodeInvalidCredentials is used when login credentials are wrong
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	// ErrCodeAccountInactive is used when the account exists but cannot log in
	ErrCodeAccountInactive = "ERR_ACCOUNT_INACTIVE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
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

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountInactive:    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,

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

// LegacyErrorCodeMapping maps domain error codes to the standardized wire codes.
// Domain aggregates raise short codes like NOT_FOUND or INVALID_PROVINCE;
// the HTTP layer translates them here so the API surface stays uniform.
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":      ErrCodeNotFound,
	"USER_NOT_FOUND": ErrCodeNotFound,
	"ALREADY_EXISTS": ErrCodeAlreadyExists,
	"INVALID_STATE":  ErrCodeInvalidState,
	"UNAUTHORIZED":   ErrCodeUnauthorized,
	"FORBIDDEN":      ErrCodeForbidden,
	"BAD_REQUEST":    ErrCodeBadRequest,
	"INTERNAL_ERROR": ErrCodeInternal,

	// Authentication
	"INVALID_CREDENTIALS":    ErrCodeInvalidCredentials,
	"ACCOUNT_INACTIVE":       ErrCodeAccountInactive,
	"PASSWORD_MISMATCH":      ErrCodeInvalidInput,
	"INVALID_PASSWORD":       ErrCodeInvalidInput,
	"PASSWORD_HASH_ERROR":    ErrCodeInternal,
	"TOKEN_GENERATION_ERROR": ErrCodeInternal,
	"TOKEN_INVALID":          ErrCodeTokenInvalid,
	"TOKEN_EXPIRED":          ErrCodeTokenExpired,
	"TOKEN_USED":             ErrCodeTokenInvalid,

	// Field-level domain validation
	"INVALID_INPUT":      ErrCodeInvalidInput,
	"VALIDATION_ERROR":   ErrCodeValidation,
	"INVALID_EMAIL":      ErrCodeInvalidInput,
	"INVALID_PHONE":      ErrCodeInvalidInput,
	"INVALID_NAME":       ErrCodeInvalidInput,
	"INVALID_USERNAME":   ErrCodeInvalidInput,
	"INVALID_ROLE":       ErrCodeInvalidInput,
	"INVALID_URL":        ErrCodeInvalidInput,
	"INVALID_IMAGE_URL":  ErrCodeInvalidInput,
	"INVALID_CONTENT":    ErrCodeInvalidInput,
	"INVALID_PRICE":      ErrCodeInvalidInput,
	"INVALID_PROVINCE":   ErrCodeInvalidInput,
	"INVALID_USER_ID":    ErrCodeInvalidInput,
	"INVALID_AGENCY_ID":  ErrCodeInvalidInput,
	"INVALID_AGENT_ID":   ErrCodeInvalidInput,
	"INVALID_LEAD_ID":    ErrCodeInvalidInput,
	"INVALID_SPOTTER_ID": ErrCodeInvalidInput,
	"INVALID_AUTHOR_ID":  ErrCodeInvalidInput,

	// Aggregate construction failures
	"INVALID_PROPERTY":    ErrCodeInvalidInput,
	"INVALID_PROPERTY_ID": ErrCodeInvalidInput,
	"INVALID_LISTING":     ErrCodeInvalidInput,
	"INVALID_IMAGE":       ErrCodeInvalidInput,
	"INVALID_COMMISSION":  ErrCodeInvalidInput,
	"INVALID_POST":        ErrCodeInvalidInput,
	"INVALID_COMMENT":     ErrCodeInvalidInput,
	"INVALID_CONTACT":     ErrCodeInvalidInput,
	"INVALID_UPDATE":      ErrCodeInvalidInput,

	// Illegal state transitions
	"INVALID_PROPERTY_STATUS":   ErrCodeInvalidState,
	"INVALID_LISTING_STATUS":    ErrCodeInvalidState,
	"INVALID_COMMISSION_STATUS": ErrCodeInvalidState,
	"INVALID_POST_STATUS":       ErrCodeInvalidState,
	"INVALID_COMMENT_STATUS":    ErrCodeInvalidState,
	"INVALID_CONTACT_STATUS":    ErrCodeInvalidState,
	"INVALID_UPDATE_STATUS":     ErrCodeInvalidState,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
