// Package apperror defines the errors the domain services hand to the HTTP layer. Each error
// carries a kind that maps to exactly one HTTP status.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindValidation   Kind = "ValidationError"
	KindUnauthorized Kind = "Unauthorized"
	KindConflict     Kind = "Conflict"
	KindNotFound     Kind = "NotFound"
	KindUnavailable  Kind = "ServiceUnavailable"
	KindInternal     Kind = "InternalError"
)

var titles = map[Kind]string{
	KindValidation:   "Validation Error",
	KindUnauthorized: "Unauthorized",
	KindConflict:     "Conflict",
	KindNotFound:     "Not Found",
	KindUnavailable:  "Service Unavailable",
	KindInternal:     "Server Error",
}

var statuses = map[Kind]int{
	KindValidation:   http.StatusBadRequest,
	KindUnauthorized: http.StatusUnauthorized,
	KindConflict:     http.StatusConflict,
	KindNotFound:     http.StatusNotFound,
	KindUnavailable:  http.StatusServiceUnavailable,
	KindInternal:     http.StatusInternalServerError,
}

// Error is an application error. Base holds the underlying cause and is never shown to
// clients.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Base    error
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validation reports malformed or missing input. fields may be nil.
func Validation(msg string, fields map[string]string) *Error {
	e := newError(KindValidation, msg)
	e.Fields = fields
	return e
}

// Unauthorized reports missing or invalid credentials.
func Unauthorized(msg string) *Error {
	return newError(KindUnauthorized, msg)
}

// Conflict reports a uniqueness violation.
func Conflict(msg string) *Error {
	return newError(KindConflict, msg)
}

// NotFound reports a missing resource, or one the caller does not own.
func NotFound(msg string) *Error {
	return newError(KindNotFound, msg)
}

// Unavailable reports that the backing store cannot be reached.
func Unavailable(err error) *Error {
	e := newError(KindUnavailable, "service temporarily unavailable")
	e.Base = err
	return e
}

// Internal wraps an unexpected error.
func Internal(err error) *Error {
	e := newError(KindInternal, "internal server error")
	e.Base = err
	return e
}

// FromError returns err as an *Error. Errors of any other type become Internal.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Wrap sets the underlying cause and returns the error.
func (e *Error) Wrap(base error) *Error {
	e.Base = base
	return e
}

// Status is the HTTP status code for the error.
func (e *Error) Status() int {
	if s, ok := statuses[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Title is the short human readable name of the error kind.
func (e *Error) Title() string {
	if t, ok := titles[e.Kind]; ok {
		return t
	}
	return titles[KindInternal]
}

// IsInternalError reports whether the error is a server side failure.
func (e *Error) IsInternalError() bool {
	return e.Status()/100 == 5
}

func (e *Error) Error() string {
	if e.Base != nil {
		return e.Message + ": " + e.Base.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Base
}
