package handler

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response body shared by every endpoint: a success flag and
// a human-readable message, plus the payload or error details.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    any      `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// jsonResponse implements Response for JSON rendering
type jsonResponse struct {
	status int
	body   any
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSON renders v as the response body with the given status.
// Use it when v already carries its own success and message fields.
func JSON(status int, v any) Response {
	return jsonResponse{status: status, body: v}
}

// OK wraps data in a successful Envelope with status 200.
func OK(message string, data any) Response {
	return Success(http.StatusOK, message, data)
}

// Success wraps data in a successful Envelope.
func Success(status int, message string, data any) Response {
	return jsonResponse{
		status: status,
		body:   Envelope{Success: true, Message: message, Data: data},
	}
}

// Fail renders an unsuccessful Envelope.
func Fail(status int, code, message string, details ...string) Response {
	return jsonResponse{
		status: status,
		body:   Envelope{Message: message, Error: code, Errors: details},
	}
}

// Error returns a Response that defers to the error handler.
// Handlers return it to reuse the app-wide error classification.
func Error(err error) Response {
	return errorResponse{err: err}
}

type errorResponse struct {
	err error
}

func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}
