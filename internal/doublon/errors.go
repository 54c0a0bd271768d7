package doublon

import (
	"errors"
	"fmt"
)

// AccessError reports a file that became unreadable or disappeared between
// discovery and probing. Callers skip the affected file and continue.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("accessing %q: %v", e.Path, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// IsAccessError reports whether err is (or wraps) an AccessError.
func IsAccessError(err error) bool {
	var e *AccessError
	return errors.As(err, &e)
}

// ActionError reports a failed delete or copy. Batches log it and continue
// with the remaining files; the final report enumerates failures.
type ActionError struct {
	Op   string // "delete" or "copy"
	Path string
	Err  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// IsActionError reports whether err is (or wraps) an ActionError.
func IsActionError(err error) bool {
	var e *ActionError
	return errors.As(err, &e)
}
