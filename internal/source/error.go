// Package source defines the error taxonomy and retry discipline shared by
// the external data source adapters.
package source

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an adapter failure.
type ErrorKind string

const (
	KindTimeout      ErrorKind = "timeout"
	KindRateLimited  ErrorKind = "rate_limited"
	KindParseFailure ErrorKind = "parse_failure"
	KindNotFound     ErrorKind = "not_found"
)

// Error is the failure type returned by source adapters. Timeout and
// rate-limited errors are transient and subject to retry; parse failures and
// not-found are structural conditions surfaced immediately.
type Error struct {
	Source string
	Kind   ErrorKind
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient.
func (e *Error) Retryable() bool {
	return e.Kind == KindTimeout || e.Kind == KindRateLimited
}

// NewError wraps err as a source error of the given kind.
func NewError(sourceName string, kind ErrorKind, err error) *Error {
	return &Error{Source: sourceName, Kind: kind, Err: err}
}

// KindOf returns the error kind if err is or wraps a source error.
func KindOf(err error) (ErrorKind, bool) {
	var srcErr *Error
	if errors.As(err, &srcErr) {
		return srcErr.Kind, true
	}
	return "", false
}

// IsKind reports whether err is a source error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
