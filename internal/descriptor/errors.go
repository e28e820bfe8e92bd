package descriptor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrWatcherClosed is returned when an operation is attempted on a closed watcher.
var ErrWatcherClosed = errors.New("descriptor: watcher already closed")

// MalformedConfigError reports a descriptor whose shape or values are invalid.
// All problems found in one pass are collected in Problems. Err holds the
// underlying syntax error when the source could not be parsed at all.
type MalformedConfigError struct {
	Err      error
	Source   string
	Problems []string
}

// Error implements the error interface.
func (e *MalformedConfigError) Error() string {
	prefix := "malformed descriptor"
	if e.Source != "" {
		prefix += " " + e.Source
	}

	switch {
	case len(e.Problems) == 0 && e.Err != nil:
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	case len(e.Problems) == 0:
		return prefix
	case len(e.Problems) == 1:
		return fmt.Sprintf("%s: %s", prefix, e.Problems[0])
	default:
		return fmt.Sprintf("%s with %d errors:\n  - %s",
			prefix, len(e.Problems), strings.Join(e.Problems, "\n  - "))
	}
}

// Unwrap returns the underlying parse error, if any.
func (e *MalformedConfigError) Unwrap() error {
	return e.Err
}

// Add appends a problem message.
func (e *MalformedConfigError) Add(msg string) {
	e.Problems = append(e.Problems, msg)
}

// Addf appends a formatted problem message.
func (e *MalformedConfigError) Addf(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// HasErrors returns true if any problem was recorded.
func (e *MalformedConfigError) HasErrors() bool {
	return len(e.Problems) > 0 || e.Err != nil
}

// ToError returns e if it holds problems, otherwise nil.
func (e *MalformedConfigError) ToError() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// IsMalformed reports whether err is or wraps a *MalformedConfigError.
func IsMalformed(err error) bool {
	var malformed *MalformedConfigError
	return errors.As(err, &malformed)
}
