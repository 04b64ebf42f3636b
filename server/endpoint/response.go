package endpoint

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/llmgate/errors"
	"github.com/kbukum/llmgate/server/middleware"
)

// DataResponse is the standard success envelope.
type DataResponse struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries pagination metadata.
type Meta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// RespondWithError inspects err: if it is an *apperrors.AppError the status and
// structured body are derived automatically; deadlines become 504 and
// anything else a generic 500.
func RespondWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) {
			appErr = apperrors.Timeout("chat response").WithCause(err)
		} else {
			appErr = apperrors.Internal(err)
		}
	}
	c.JSON(appErr.HTTPStatus, appErr.ToResponse(middleware.GetRequestID(c)))
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// RespondOKWithMeta sends a 200 response with data and metadata.
func RespondOKWithMeta(c *gin.Context, data any, meta *Meta) {
	c.JSON(http.StatusOK, DataResponse{Data: data, Meta: meta})
}

// NotFound answers unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondWithError(c, apperrors.New(apperrors.ErrCodeNotFound, "Route not found", http.StatusNotFound).
			WithDetail("path", c.Request.URL.Path))
	}
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondWithError(c, apperrors.New(apperrors.ErrCodeInvalidInput, "Method not allowed", http.StatusMethodNotAllowed).
			WithDetail("method", c.Request.Method))
	}
}
