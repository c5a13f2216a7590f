package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRender Category = "render"
	CategoryEffect Category = "effect"
	CategoryState  Category = "state"
	CategoryConfig Category = "config"
	CategoryCLI    Category = "cli"
)

// Error is a structured diagnostic with an instance reference, detail and a
// suggested fix.
type Error struct {
	// Code is a unique error identifier (e.g., "H001").
	Code string

	// Category is the error type (render, effect, ...).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Instance names the component instance involved, if any.
	Instance string

	// Facts are extra key/value lines shown under the header, in order.
	Facts [][2]string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithInstance records the instance the error belongs to.
func (e *Error) WithInstance(name string) *Error {
	e.Instance = name
	return e
}

// WithFact appends a key/value line to the diagnostic.
func (e *Error) WithFact(key, value string) *Error {
	e.Facts = append(e.Facts, [2]string{key, value})
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered detail text.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := GetTemplate(code)
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Diagnoser is implemented by errors that can describe themselves as a
// coded diagnostic.
type Diagnoser interface {
	Diagnostic() *Error
}

// FromError converts err into an Error. Errors that implement Diagnoser
// describe themselves; anything else is wrapped under code.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	if d, ok := err.(Diagnoser); ok {
		return d.Diagnostic()
	}
	return New(code).Wrap(err)
}
