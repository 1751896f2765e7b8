// Package sentinelerr defines the closed error taxonomy surfaced by the
// assessment pipeline, mirroring the error contract in the external
// interface: not_initialized, invalid_input, rate_limited,
// processing_failed and internal.
package sentinelerr

import (
	"errors"
	"fmt"
)

// Code identifies a taxonomy member so callers can branch with errors.Is
// without string-matching messages.
type Code string

const (
	CodeNotInitialized  Code = "not_initialized"
	CodeInvalidInput    Code = "invalid_input"
	CodeRateLimited     Code = "rate_limited"
	CodeProcessingFailed Code = "processing_failed"
	CodeInternal        Code = "internal"
)

// Error is the concrete type returned for every taxonomy member. It carries
// a stable Code plus a human-readable reason and an optional wrapped cause.
type Error struct {
	Code   Code
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return string(e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, sentinelerr.NotInitialized()) compare on Code alone,
// ignoring Reason/Cause so call sites don't need to reconstruct the exact
// message to match.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

func NotInitialized() *Error {
	return &Error{Code: CodeNotInitialized, Reason: "SDK used before successful initialize"}
}

func InvalidInput(reason string) *Error {
	return &Error{Code: CodeInvalidInput, Reason: reason}
}

func RateLimited() *Error {
	return &Error{Code: CodeRateLimited, Reason: "token bucket empty"}
}

func ProcessingFailed(reason string) *Error {
	return &Error{Code: CodeProcessingFailed, Reason: reason}
}

func Internal(cause error) *Error {
	return &Error{Code: CodeInternal, Reason: "internal failure", Cause: cause}
}

// CodeOf extracts the taxonomy Code from err, returning ("", false) if err is
// not (or does not wrap) a *Error.
func CodeOf(err error) (Code, bool) {
	var se *Error
	if !errors.As(err, &se) {
		return "", false
	}
	return se.Code, true
}
