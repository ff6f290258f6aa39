package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors records error strings under "errors". Empty input yields an empty Attr.
func Errors(msgs []string) slog.Attr {
	if len(msgs) == 0 {
		return slog.Attr{}
	}
	return slog.Any("errors", msgs)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Vendor records the email vendor identifier.
func Vendor(name string) slog.Attr {
	return slog.String("vendor", name)
}

// Recipient records the destination address of an outgoing message.
func Recipient(addr string) slog.Attr {
	return slog.String("recipient", addr)
}

// Template records the template reference being rendered.
func Template(path string) slog.Attr {
	return slog.String("template", path)
}

// FeedbackID records the stored feedback identifier.
func FeedbackID(id string) slog.Attr {
	return slog.String("feedback_id", id)
}

// TrackingID records the public tracking identifier of a feedback record.
func TrackingID(id string) slog.Attr {
	return slog.String("tracking_id", id)
}

// BatchSize records how many payloads a batch carries.
func BatchSize(n int) slog.Attr {
	return slog.Int("batch_size", n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
