package models

import (
	"fmt"
	"time"
)

// ErrorKind classifies failures when talking to an external source.
type ErrorKind string

const (
	ErrUnauthorized   ErrorKind = "unauthorized"
	ErrRateLimited    ErrorKind = "rate_limited"
	ErrNotFound       ErrorKind = "not_found"
	ErrUnreachable    ErrorKind = "unreachable"
	ErrMalformed      ErrorKind = "malformed"
	ErrStorageFailure ErrorKind = "storage_failure"
)

// FetchError is the typed outcome of a failed external call.
// RetryAfter is only set for rate-limited outcomes.
type FetchError struct {
	Source     string
	Kind       ErrorKind
	RetryAfter time.Duration
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Kind)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a typed fetch error.
func NewFetchError(source string, kind ErrorKind, err error) *FetchError {
	return &FetchError{Source: source, Kind: kind, Err: err}
}

// SourceError is the serializable form recorded on an AggregateResult.
type SourceError struct {
	Source  string    `json:"source"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ToSourceError converts a FetchError for inclusion in a result.
func (e *FetchError) ToSourceError() SourceError {
	msg := string(e.Kind)
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return SourceError{Source: e.Source, Kind: e.Kind, Message: msg}
}
