package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryPrecondition   Category = "precondition"
	CategoryClassification Category = "classification"
	CategoryInvariant      Category = "invariant"
	CategoryConfig         Category = "config"
)

// Error is a structured error with a registered code and optional offending value.
type Error struct {
	// Code is a unique error identifier (e.g., "H001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Value is the offending value, kept for diagnostics.
	Value any

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (%s)", describe(e.Value))
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithValue records the offending value.
func (e *Error) WithValue(v any) *Error {
	e.Value = v
	return e
}

// WithDetail replaces the detailed explanation.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// WithDetailf replaces the detailed explanation with a formatted one.
func (e *Error) WithDetailf(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// describe renders an offending value compactly. Values that know how to
// print themselves are trusted; everything else goes through %#v.
func describe(v any) string {
	switch x := v.(type) {
	case fmt.Stringer:
		return x.String()
	case string:
		return fmt.Sprintf("%q", x)
	default:
		s := fmt.Sprintf("%T %#v", v, v)
		if len(s) > 120 {
			s = s[:117] + "..."
		}
		return s
	}
}
