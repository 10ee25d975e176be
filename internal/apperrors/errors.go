package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation      Kind = "VALIDATION_ERROR"
	KindNotFound        Kind = "NOT_FOUND"
	KindUnauthorized    Kind = "UNAUTHORIZED"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindConflict        Kind = "CONFLICT"
	KindInternal        Kind = "INTERNAL_ERROR"
)

// Error is the only error type services hand to the transport layer.
type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field validation messages, keyed by request field name.
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind so callers can write errors.Is(err, apperrors.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Kind sentinels for errors.Is.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrInternal        = &Error{Kind: KindInternal}
)

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ValidationFields builds a validation error from a field map. Empty maps yield nil.
func ValidationFields(fields map[string][]string) *Error {
	if len(fields) == 0 {
		return nil
	}
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Internal(err error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindUnauthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
