// Package apperr defines the error taxonomy shared by all services and the
// mapping from error kinds to HTTP status codes at the API boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	NotFound
	Unavailable
	Conflict
	Unauthorized
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Unavailable:
		return "unavailable"
	case Conflict:
		return "conflict"
	case Unauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error carries a kind alongside a human-readable message. The message is safe
// to return to clients for every kind except Internal.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error  { return newf(Validation, format, args...) }
func NotFoundf(format string, args ...any) *Error    { return newf(NotFound, format, args...) }
func Unavailablef(format string, args ...any) *Error { return newf(Unavailable, format, args...) }
func Conflictf(format string, args ...any) *Error    { return newf(Conflict, format, args...) }
func Unauthorizedf(format string, args ...any) *Error {
	return newf(Unauthorized, format, args...)
}

// Internalf wraps an unexpected error. Its message is redacted at the boundary.
func Internalf(err error, format string, args ...any) *Error {
	e := newf(Internal, format, args...)
	e.Err = err
	return e
}

// KindOf reports the kind of err, or Internal when err carries no kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is lets callers test kinds without unwrapping manually.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }

// HTTPStatus maps an error to the response status used by the HTTP facade.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation, Unavailable:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
