// Package httpx holds the error type every request-scoped failure is reported
// with, and the helpers that turn it into a JSON response.
package httpx

import (
	"errors"
	"net/http"
)

// Error is a domain failure that maps directly onto an HTTP status.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an Error. An empty message falls back to the status text.
func New(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error      { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error    { return New(http.StatusUnauthorized, message) }
func NotFound(message string) *Error        { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error        { return New(http.StatusConflict, message) }
func TooManyRequests(message string) *Error { return New(http.StatusTooManyRequests, message) }

// AsError unwraps err to an *Error if it carries one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
