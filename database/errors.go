package database

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/llmgate/errors"
)

var retryablePatterns = []string{
	"database is locked",
	"database table is locked",
	"busy",
	"disk i/o error",
	"driver: bad connection",
	"sql: database is closed",
}

// IsRetryableError reports whether a database error may succeed on retry.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range retryablePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsNotFoundError checks if the error is a GORM record-not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// FromDatabase converts a database error to an AppError.
func FromDatabase(err error, resource, id string) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if IsNotFoundError(err) {
		return apperrors.NotFound(resource, id)
	}
	if IsRetryableError(err) {
		return (&apperrors.AppError{
			Code:       apperrors.ErrCodeDatabaseError,
			Message:    "Database is temporarily unavailable. Please try again.",
			HTTPStatus: http.StatusServiceUnavailable,
			Retryable:  true,
		}).WithCause(err)
	}
	return apperrors.DatabaseError(err)
}
