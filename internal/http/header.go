package http

import (
	"errors"
	"fmt"

	"golang.org/x/net/http/httpguts"
)

// ErrInvalidHeader is returned for a header net/http would refuse to send.
var ErrInvalidHeader = errors.New("invalid header")

// ValidateHeader checks that name and value can be written on the wire.
func ValidateHeader(name, value string) error {
	if !httpguts.ValidHeaderFieldName(name) {
		return fmt.Errorf("%w: field name %q", ErrInvalidHeader, name)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("%w: value %q for %s", ErrInvalidHeader, value, name)
	}
	return nil
}
