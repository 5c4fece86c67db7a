package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a status-classified application error. Core components return
// these; the API boundary maps them to HTTP responses.
type Error struct {
	Status  int
	Message string
}

// New creates a new application error
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// NotFound signals a missing or soft-deleted resource
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict signals a uniqueness violation or an already-used token
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// Forbidden signals a non-owner mutation attempt
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// Unauthorized signals a bad, missing, or expired credential
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// BadRequest signals semantically invalid input, e.g. an expired token
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Validation signals malformed input rejected at the boundary
func Validation(message string) *Error {
	return New(http.StatusUnprocessableEntity, message)
}

// Gone signals a disabled feature
func Gone(message string) *Error {
	return New(http.StatusGone, message)
}

// StatusOf returns the HTTP status for err and whether its message is
// safe to expose. Unclassified errors are internal: their detail must
// not leak to clients.
func StatusOf(err error) (int, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Status < http.StatusInternalServerError
	}
	return http.StatusInternalServerError, false
}
