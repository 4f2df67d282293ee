package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a client-side failure.
type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindSessionExpired  Kind = "SESSION_EXPIRED"
	KindRequestFailed   Kind = "REQUEST_FAILED"
	KindNetwork         Kind = "NETWORK"
	KindValidation      Kind = "VALIDATION"
)

// Error represents a typed client error. Status carries the HTTP status of
// the response that produced it, when one exists.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches by kind so callers can compare against the sentinel values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e != nil && e.Kind == t.Kind
}

// New creates a new Error instance.
func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message, Err: err}
}

// Predefined errors for the terminal outcomes the gateway produces.
var (
	ErrUnauthenticated = New(KindUnauthenticated, http.StatusUnauthorized, "not authenticated")
	ErrSessionExpired  = New(KindSessionExpired, http.StatusUnauthorized, "session expired")
	ErrRequestFailed   = New(KindRequestFailed, 0, "request failed")
	ErrNetwork         = New(KindNetwork, 0, "network error")
	ErrValidation      = New(KindValidation, http.StatusBadRequest, "validation failed")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, KindNetwork, 0, err.Error())
}

// KindOf reports the kind of err, or empty when err is not a typed Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusOf reports the HTTP status attached to err, or zero.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsAuthFailure reports whether err is one of the two terminal auth
/// outcomes: unauthenticated or session expired.
func IsAuthFailure(err error) bool {
	k := KindOf(err)
	return k == KindUnauthenticated || k == KindSessionExpired
}

// Message returns the user-displayable message for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
