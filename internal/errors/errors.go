// Package errors defines the error taxonomy for the install pipeline: parse
// failures, verification failures, transform-validation failures, and I/O
// failures with a not-found distinction. Batch operations collect per-file
// errors in an ErrorCollector instead of aborting on the first one.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ParseError indicates a source file could not be parsed into a syntax tree.
// It is non-recoverable for that file but does not abort the whole batch.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// VerificationError is a failed provenance check: the manifest and the local
// files disagree. It is a hard stop before any rewriting.
type VerificationError struct {
	Mismatched []string
	Missing    []string
	Extra      []string
}

func (e *VerificationError) Error() string {
	var parts []string
	if len(e.Mismatched) > 0 {
		parts = append(parts, fmt.Sprintf("%d mismatched (%s)", len(e.Mismatched), strings.Join(e.Mismatched, ", ")))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("%d missing (%s)", len(e.Missing), strings.Join(e.Missing, ", ")))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("%d unexpected (%s)", len(e.Extra), strings.Join(e.Extra, ", ")))
	}
	return "source verification failed: " + strings.Join(parts, "; ")
}

// ValidationError is a post-transform sanity failure: the produced output
// would be broken (no exports left, empty content) and must never be written.
type ValidationError struct {
	File   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("transform validation failed for %s: %s", e.File, e.Reason)
}

// IOError wraps a filesystem failure with path context. NotFound separates
// "file does not exist" from every other I/O condition.
type IOError struct {
	Op       string
	Path     string
	NotFound bool
	Err      error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an IOError for a missing path.
func IsNotFound(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr) && ioErr.NotFound
}

// IsVerification reports whether err is (or wraps) a VerificationError.
func IsVerification(err error) bool {
	var ve *VerificationError
	return errors.As(err, &ve)
}

// ErrorCollector accumulates per-file errors during a batch run so one bad
// file does not hide the rest.
type ErrorCollector struct {
	mu     sync.Mutex
	errors []error
}

func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// Add records an error; nil is ignored.
func (c *ErrorCollector) Add(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, err)
}

// HasErrors reports whether anything was collected.
func (c *ErrorCollector) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.errors) > 0
}

// Errors returns a copy of the collected errors.
func (c *ErrorCollector) Errors() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]error, len(c.errors))
	copy(out, c.errors)
	return out
}

// Err joins the collected errors into one, or returns nil when empty.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.errors) == 0 {
		return nil
	}
	return errors.Join(c.errors...)
}
