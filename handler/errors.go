package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error that carries its own status code.
// Key is a machine-readable code, Message is shown to the caller.
type HTTPError struct {
	Code    int
	Key     string
	Message string
}

func (e HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Key
}

// NewHTTPError creates an HTTPError. The message defaults to the status text.
func NewHTTPError(code int, key string, message ...string) HTTPError {
	e := HTTPError{Code: code, Key: key, Message: http.StatusText(code)}
	if len(message) > 0 && message[0] != "" {
		e.Message = message[0]
	}
	return e
}

var (
	ErrNotFound   = NewHTTPError(http.StatusNotFound, "not_found")
	ErrBadRequest = NewHTTPError(http.StatusBadRequest, "bad_request")
)
