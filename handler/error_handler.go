package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/feedbackmail/pkg/binder"
	"github.com/dmitrymomot/feedbackmail/pkg/logger"
	"github.com/dmitrymomot/feedbackmail/pkg/validator"
)

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Code       string
	Message    string
	Details    []string
}

// ErrorMapper classifies domain errors the handler package does not know
// about. It returns ok=false to let the next mapper or the defaults decide.
type ErrorMapper func(err error) (info ErrorInfo, ok bool)

const internalErrorMessage = "An internal error occurred. Please try again later."

// classifyError analyzes the error and returns structured error information
func classifyError(err error, mappers []ErrorMapper) ErrorInfo {
	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		return ErrorInfo{
			StatusCode: http.StatusBadRequest,
			Code:       "validation_error",
			Message:    "Validation failed",
			Details:    verrs.Messages(),
		}
	}

	if binder.IsBindError(err) {
		return ErrorInfo{
			StatusCode: http.StatusBadRequest,
			Code:       "invalid_request",
			Message:    "Invalid request",
			Details:    []string{err.Error()},
		}
	}

	for _, m := range mappers {
		if info, ok := m(err); ok {
			return info
		}
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return ErrorInfo{StatusCode: httpErr.Code, Code: httpErr.Key, Message: httpErr.Message}
	}

	return ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Code:       "internal_error",
		Message:    internalErrorMessage,
	}
}

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int) slog.Level {
	if statusCode < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// NewErrorHandler creates the JSON error handler. Server errors are logged
// with full detail while the caller only receives a generic message.
func NewErrorHandler(log *slog.Logger, mappers ...ErrorMapper) ErrorHandler[Context] {
	log = logger.OrDefault(log).With(logger.Component("error_handler"))

	return func(ctx Context, err error) {
		r := ctx.Request()
		info := classifyError(err, mappers)

		log.LogAttrs(r.Context(), determineLogLevel(info.StatusCode), "request error",
			logger.RequestID(middleware.GetReqID(r.Context())),
			logger.Error(err),
			slog.Int("status_code", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)

		resp := Fail(info.StatusCode, info.Code, info.Message, info.Details...)
		if renderErr := resp.Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.Error("failed to render error response",
				logger.Error(renderErr),
				logger.Event("render_error"),
			)
		}
	}
}
