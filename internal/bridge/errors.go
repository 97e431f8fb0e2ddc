package bridge

import (
	"errors"
	"fmt"
)

// Category classifies a bridge failure for the structured diagnostics the
// orchestrator emits. Item-level problems are not errors at all; bridges
// drop those items silently.
type Category string

const (
	// CategoryTransport covers unreachable hosts, timeouts, and non-2xx
	// HTTP statuses.
	CategoryTransport Category = "transport"

	// CategoryDecode covers response bodies that are not valid in the
	// expected format.
	CategoryDecode Category = "decode"

	// CategoryExtract covers well-formed bodies whose expected structure is
	// absent (markup drift).
	CategoryExtract Category = "extract"
)

// Error is a classified bridge failure.
type Error struct {
	Category Category
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failure: %v", e.Category, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func transportErr(format string, args ...any) error {
	return &Error{Category: CategoryTransport, Err: fmt.Errorf(format, args...)}
}

func decodeErr(format string, args ...any) error {
	return &Error{Category: CategoryDecode, Err: fmt.Errorf(format, args...)}
}

func extractErr(format string, args ...any) error {
	return &Error{Category: CategoryExtract, Err: fmt.Errorf(format, args...)}
}

// CategoryOf reports the failure category of err. Unclassified errors count
// as transport failures, the broadest bucket.
func CategoryOf(err error) Category {
	var be *Error
	if errors.As(err, &be) {
		return be.Category
	}
	return CategoryTransport
}
