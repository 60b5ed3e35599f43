// Package errors provides the structured error codes used across roomnav.
//
// Every failure surfaced by the engine carries a stable code (e.g. "E101")
// registered in this package, so callers and logs can distinguish the
// recovery tiers: routing misses redirect to the notfound page, transition
// failures redirect to the error page, critical failures propagate, and
// cleanup failures are logged and swallowed.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the recovery class of an error.
type Category string

const (
	CategoryRouting    Category = "routing"
	CategoryTransition Category = "transition"
	CategoryCritical   Category = "critical"
	CategoryCleanup    Category = "cleanup"
	CategoryConfig     Category = "config"
	CategoryStore      Category = "store"
	CategoryProtocol   Category = "protocol"
)

// Error is a structured error with a registered code.
type Error struct {
	// Code is a unique error identifier (e.g. "E001").
	Code string

	// Category is the recovery class of the error.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, from the registry.
	Detail string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// New creates an error from a registered code.
// Unregistered codes produce a generic critical error rather than panicking.
func New(code string) *Error {
	if tmpl, ok := registry[code]; ok {
		return &Error{
			Code:     code,
			Category: tmpl.Category,
			Message:  tmpl.Message,
			Detail:   tmpl.Detail,
		}
	}
	return &Error{
		Code:     code,
		Category: CategoryCritical,
		Message:  "unregistered error code",
	}
}

// Newf creates an error from a registered code with extra message context.
func Newf(code, format string, args ...any) *Error {
	e := New(code)
	e.Message = fmt.Sprintf("%s: %s", e.Message, fmt.Sprintf(format, args...))
	return e
}

// Wrap creates an error from a registered code wrapping an underlying error.
func Wrap(code string, err error) *Error {
	e := New(code)
	e.Wrapped = err
	return e
}

// HasCode reports whether err or any error it wraps carries the given code.
func HasCode(err error, code string) bool {
	var e *Error
	for ; err != nil; err = stderrors.Unwrap(err) {
		if stderrors.As(err, &e) && e.Code == code {
			return true
		}
	}
	return false
}

// CategoryOf returns the category of err, or "" if err carries no code.
func CategoryOf(err error) Category {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Category
	}
	return ""
}
