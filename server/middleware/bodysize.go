package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodySize is used when BodySizeLimit gets a non-positive limit.
const DefaultMaxBodySize int64 = 1 << 20

// BodySizeLimit caps the request body at maxBytes. Reads past the limit
// fail, which surfaces as a bind error in the handler.
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
