package util

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
)

// Context keys shared by middleware and handlers.
const (
	CurrentUserKey = "currentUser"
	SessionIDKey   = "sessionID"
	RequestIDKey   = "requestID"
)

// kindError attaches a user-facing message to one of the sentinels above.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func Invalid(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func Unauthenticated(msg string) error {
	return &kindError{kind: ErrUnauthenticated, msg: msg}
}

func NotFound(msg string) error {
	return &kindError{kind: ErrNotFound, msg: msg}
}

func Forbidden(msg string) error {
	return &kindError{kind: ErrForbidden, msg: msg}
}

// Message returns the user-facing text for err.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	switch {
	case errors.Is(err, ErrValidation):
		return "Invalid request"
	case errors.Is(err, ErrUnauthenticated):
		return "Unauthorized"
	case errors.Is(err, ErrForbidden):
		return "Forbidden: Access denied"
	case errors.Is(err, ErrNotFound):
		return "Not found"
	}
	return strings.TrimSpace(err.Error())
}
