// Package apperr defines the error kinds shared by the publish pipeline and
// the text service client.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration  = errors.New("configuration error")
	ErrAuthentication = errors.New("authentication error")
	ErrValidation     = errors.New("validation error")
	ErrTransport      = errors.New("transport error")
	ErrParse          = errors.New("parse error")
	ErrNotFound       = errors.New("not found")
)

// Error carries an operator-facing message and one of the kinds above.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func New(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind error, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Authentication(format string, args ...any) *Error {
	return New(ErrAuthentication, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(ErrValidation, format, args...)
}

func Transport(format string, args ...any) *Error {
	return New(ErrTransport, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(ErrNotFound, format, args...)
}

// KindName returns a short name for the kind of err, or "" for errors that
// carry none.
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return "internal"
}
