package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Provider errors
const (
	// ErrCodeUnsupportedProvider indicates the provider name is not in the configured set.
	ErrCodeUnsupportedProvider ErrorCode = "UNSUPPORTED_PROVIDER"
	// ErrCodeProviderUnavailable indicates the provider is supported but cannot be constructed.
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	// ErrCodeUpstreamStream indicates a vendor call failed during a streaming attempt.
	ErrCodeUpstreamStream ErrorCode = "UPSTREAM_STREAM_ERROR"
	// ErrCodeFallbackExhausted indicates both the default and fallback attempts failed.
	ErrCodeFallbackExhausted ErrorCode = "FALLBACK_EXHAUSTED"
)

// Connection/Availability errors
const (
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the client is rate limited.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Request errors
const (
	// ErrCodeValidation indicates the request body failed validation.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabaseError indicates a database error.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeUpstreamStream:     true,
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeRateLimited:        true,
	ErrCodeDatabaseError:      true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
