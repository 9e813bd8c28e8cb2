// Package failure declares the error kinds every game operation reports.
// Callers match them with errors.Is; the wrapped cause keeps the detail.
package failure

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means a title has no page, or a list file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmpty means a list file exists but has no usable lines.
	ErrEmpty = errors.New("empty")

	// ErrTransport means the content API could not be reached or its response decoded.
	ErrTransport = errors.New("transport failure")

	// ErrStorage means the lists directory or a list file could not be read.
	ErrStorage = errors.New("storage failure")
)

// Transport wraps cause as an ErrTransport. The message is the cause's own text.
func Transport(cause error) error {
	return &kindError{kind: ErrTransport, cause: cause}
}

// Storage wraps cause as an ErrStorage.
func Storage(cause error) error {
	return &kindError{kind: ErrStorage, cause: cause}
}

// NotFound reports that what is missing, e.g. NotFound("page %q", title).
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Empty reports that what has no usable entries.
func Empty(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrEmpty)
}

type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string {
	return e.cause.Error()
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.cause}
}
