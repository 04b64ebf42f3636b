package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Sentinels for errors.Is checks. Matching compares codes only.
var (
	ErrUnsupportedProvider = &AppError{Code: ErrCodeUnsupportedProvider}
	ErrProviderUnavailable = &AppError{Code: ErrCodeProviderUnavailable}
	ErrUpstreamStream      = &AppError{Code: ErrCodeUpstreamStream}
	ErrFallbackExhausted   = &AppError{Code: ErrCodeFallbackExhausted}
	ErrValidation          = &AppError{Code: ErrCodeValidation}
)

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Provider Error Constructors ---

// UnsupportedProvider creates an error for a provider name outside the configured set.
func UnsupportedProvider(name string, supported []string) *AppError {
	return &AppError{
		Code:       ErrCodeUnsupportedProvider,
		Message:    fmt.Sprintf("Invalid provider. Supported providers are: %s", strings.Join(supported, ", ")),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"provider": name, "supported": supported},
	}
}

// ProviderUnavailable creates an error for a supported provider whose adapter cannot be built.
func ProviderUnavailable(name, reason string) *AppError {
	return &AppError{
		Code:       ErrCodeProviderUnavailable,
		Message:    fmt.Sprintf("Provider %s is unavailable: %s", name, reason),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: false,
		Details: map[string]any{"provider": name},
	}
}

// UpstreamStream creates an error for a failed vendor call during a streaming attempt.
func UpstreamStream(provider, model string, cause error) *AppError {
	return &AppError{
		Code:       ErrCodeUpstreamStream,
		Message:    fmt.Sprintf("Upstream stream failed for %s model %s", provider, model),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"provider": provider, "model": model},
		Cause:   cause,
	}
}

// FallbackExhausted creates an error for a provider whose default and fallback models both failed.
// The message carries both underlying causes.
func FallbackExhausted(provider, defaultModel string, defaultErr error, fallbackModel string, fallbackErr error) *AppError {
	return &AppError{
		Code: ErrCodeFallbackExhausted,
		Message: fmt.Sprintf("Both default and fallback models failed for provider %s: default (%s): %v; fallback (%s): %v",
			provider, defaultModel, causeText(defaultErr), fallbackModel, causeText(fallbackErr)),
		HTTPStatus: http.StatusBadGateway, Retryable: false,
		Details: map[string]any{
			"provider":       provider,
			"default_model":  defaultModel,
			"fallback_model": fallbackModel,
		},
		Cause: fallbackErr,
	}
}

func causeText(err error) string {
	if err == nil {
		return "unknown error"
	}
	if appErr, ok := AsAppError(err); ok && appErr.Cause != nil {
		return appErr.Cause.Error()
	}
	return err.Error()
}

// --- Common Error Constructors ---

// Validation creates a new AppError for a request that failed validation.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeValidation, Message: message,
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// ServiceUnavailable creates a new AppError for a service that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Timeout creates a new AppError for a request that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// RateLimited creates a new AppError for too many requests.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests. Please wait a moment and try again.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// DatabaseError creates a new AppError for a database error.
func DatabaseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A database error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: true, Cause: cause,
	}
}
