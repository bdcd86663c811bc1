// Package domainerrors defines the error taxonomy shared by services and
// transports. Services return *Error values (optionally wrapping a cause);
// handlers translate the Code into an HTTP status without inspecting messages.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// Client-facing, recoverable by correcting the request or waiting.
	CodeNotFound      Code = "not_found"
	CodeNotEligible   Code = "not_eligible"
	CodeStateMismatch Code = "state_mismatch"
	CodeValidation    Code = "validation"
	CodeBadRequest    Code = "bad_request"
	CodeInvalidInput  Code = "invalid_input"

	// Server-side.
	CodeInternal           Code = "internal"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"
)

// Error is the concrete domain error. Message is safe to return to clients.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a domain error with the given code and client-safe message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// CodeOf returns the outermost code in err's chain, or CodeInternal when err
// carries no domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the client-safe message of the outermost domain error.
// Errors without a domain code get a generic message so driver text never leaks.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}

// IsRetryable reports whether the caller may safely retry the same request.
// Timeouts and internal failures are retryable because no partial state commits.
func IsRetryable(err error) bool {
	switch CodeOf(err) {
	case CodeTimeout, CodeInternal:
		return true
	default:
		return false
	}
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotEligible:
		return http.StatusUnprocessableEntity
	case CodeStateMismatch:
		return http.StatusConflict
	case CodeValidation, CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
