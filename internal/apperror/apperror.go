// Package apperror holds error values shared by every domain package.
package apperror

import (
	"errors"
	"fmt"
)

// ErrValidation marks malformed or missing request input.
var ErrValidation = errors.New("validation failed")

// Validation wraps ErrValidation with a human readable message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Message strips the sentinel prefix so handlers can show only the detail.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := ErrValidation.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
