// Package handler adapts typed request handlers to net/http.
//
// A HandlerFunc receives a Context and a decoded request value and returns a
// Response. Wrap turns it into an http.HandlerFunc, running the configured
// binders (see pkg/binder) before the handler and routing every binding or
// rendering error through an ErrorHandler.
//
// Responses are JSON. Successful results use Envelope ({success, message,
// data}); JSON renders an arbitrary body when the payload already has its own
// shape. Handlers return Error(err) to delegate to the error handler.
//
// NewErrorHandler classifies errors: validator.ValidationErrors and binder
// errors become 400 with a list of details, HTTPError keeps its own status,
// ErrorMapper functions translate domain errors, and anything else becomes a
// generic 500 while the full error is logged.
//
//	errs := handler.NewErrorHandler(log, func(err error) (handler.ErrorInfo, bool) {
//		if errors.Is(err, feedback.ErrNotFound) {
//			return handler.ErrorInfo{StatusCode: http.StatusNotFound, Code: "not_found", Message: "Feedback not found"}, true
//		}
//		return handler.ErrorInfo{}, false
//	})
package handler
