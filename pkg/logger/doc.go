// Package logger builds log/slog loggers with environment-aware defaults and
// context attribute injection.
//
// New applies functional options and wraps the selected handler with
// LogHandlerDecorator, which calls registered ContextExtractor functions on
// every record. The HTTP bootstrap uses this to stamp each line with the chi
// request id.
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "feedbackmail"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id := middleware.GetReqID(ctx)
//			return logger.RequestID(id), id != ""
//		}),
//	)
//
// Attribute helpers (Vendor, FeedbackID, TrackingID, Template, ...) keep key
// names consistent across packages.
package logger
