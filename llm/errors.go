package llm

import (
	"errors"
	"fmt"
)

// ErrNoDialect is returned when an adapter is built without a dialect.
var ErrNoDialect = errors.New("llm: dialect is required")

// VendorError is an error the vendor reported inside a stream or a reply body,
// as opposed to an HTTP status error.
type VendorError struct {
	Vendor  string
	Type    string
	Message string
}

func (e *VendorError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s %s: %s", e.Vendor, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Vendor, e.Message)
}

// IsVendorError reports whether err carries a VendorError.
func IsVendorError(err error) bool {
	var ve *VendorError
	return errors.As(err, &ve)
}
