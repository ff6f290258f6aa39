package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/feedbackmail/handler"
	"github.com/dmitrymomot/feedbackmail/pkg/binder"
	"github.com/dmitrymomot/feedbackmail/pkg/email"
	"github.com/dmitrymomot/feedbackmail/pkg/validator"
)

// MaxBatchSize bounds the number of payloads accepted by one batch request.
const MaxBatchSize = 1000

// batchBodyLimit leaves room for MaxBatchSize payloads with variables.
const batchBodyLimit = 10 << 20

// Dispatcher is the email service used by the API. *email.Service implements it.
type Dispatcher interface {
	SendOne(ctx context.Context, p email.Payload) error
	SendBatch(ctx context.Context, payloads []email.Payload, opts ...email.BatchOption) (email.BatchOutcome, error)
	TestConfiguration(ctx context.Context, vendor string) (bool, error)
}

// VendorDirectory lists vendors. *email.Registry implements it.
type VendorDirectory interface {
	Vendors() []string
	Configured(vendor string) bool
}

// Handler exposes email dispatch over HTTP.
type Handler struct {
	dispatcher   Dispatcher
	vendors      VendorDirectory
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewHandler(d Dispatcher, vendors VendorDirectory, errorHandler handler.ErrorHandler[handler.Context]) *Handler {
	if errorHandler == nil {
		errorHandler = handler.NewErrorHandler(nil, ErrorMapper)
	}
	return &Handler{dispatcher: d, vendors: vendors, errorHandler: errorHandler}
}

// ErrorMapper translates email errors: vendor setup problems are 422,
// rendering and transport failures are 502.
func ErrorMapper(err error) (handler.ErrorInfo, bool) {
	switch {
	case errors.Is(err, email.ErrUnsupportedVendor):
		return handler.ErrorInfo{StatusCode: http.StatusUnprocessableEntity, Code: "unsupported_vendor", Message: "Unsupported email vendor"}, true
	case email.IsConfigError(err):
		return handler.ErrorInfo{StatusCode: http.StatusUnprocessableEntity, Code: "vendor_not_configured", Message: "Email vendor is not configured"}, true
	case errors.Is(err, email.ErrTemplateNotFound), errors.Is(err, email.ErrRenderFailed):
		return handler.ErrorInfo{StatusCode: http.StatusBadGateway, Code: "template_error", Message: "Email template could not be rendered"}, true
	case errors.Is(err, email.ErrDeliveryFailed):
		return handler.ErrorInfo{StatusCode: http.StatusBadGateway, Code: "delivery_failed", Message: "Email delivery failed"}, true
	}
	return handler.ErrorInfo{}, false
}

type batchOptions struct {
	Parallel        *bool `json:"parallel,omitempty"`
	ContinueOnError *bool `json:"continueOnError,omitempty"`
	MaxConcurrency  *int  `json:"maxConcurrency,omitempty"`
}

type batchRequest struct {
	Payloads []email.Payload `json:"payloads"`
	Options  *batchOptions   `json:"options,omitempty"`
}

func (r batchRequest) validate() error {
	rules := []validator.Rule{
		validator.MinNum("payloads", len(r.Payloads), 1),
		validator.Between("payloads", len(r.Payloads), 0, MaxBatchSize),
	}
	if r.Options != nil && r.Options.MaxConcurrency != nil {
		rules = append(rules, validator.MinNum("options.maxConcurrency", *r.Options.MaxConcurrency, 1))
	}
	return validator.Apply(rules...)
}

func (r batchRequest) options() []email.BatchOption {
	if r.Options == nil {
		return nil
	}
	var opts []email.BatchOption
	if r.Options.Parallel != nil {
		opts = append(opts, email.WithParallel(*r.Options.Parallel))
	}
	if r.Options.ContinueOnError != nil {
		opts = append(opts, email.WithContinueOnError(*r.Options.ContinueOnError))
	}
	if r.Options.MaxConcurrency != nil {
		opts = append(opts, email.WithMaxConcurrency(*r.Options.MaxConcurrency))
	}
	return opts
}

type vendorRequest struct {
	Vendor string `path:"vendor"`
}

type sendResult struct {
	Vendor string `json:"vendor"`
	To     string `json:"to"`
}

type vendorStatus struct {
	Vendor     string `json:"vendor"`
	Configured bool   `json:"configured"`
}

type testResult struct {
	Vendor string `json:"vendor"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/send", handler.Wrap(h.send,
		handler.WithBinder[handler.Context, email.Payload](binder.JSON(0)),
		handler.WithErrorHandler[handler.Context, email.Payload](h.errorHandler),
	))
	r.Post("/batch", handler.Wrap(h.batch,
		handler.WithBinder[handler.Context, batchRequest](binder.JSON(batchBodyLimit)),
		handler.WithErrorHandler[handler.Context, batchRequest](h.errorHandler),
	))
	r.Get("/vendors", handler.Wrap(h.listVendors,
		handler.WithErrorHandler[handler.Context, struct{}](h.errorHandler),
	))
	r.Get("/test/{vendor}", handler.Wrap(h.testVendor,
		handler.WithBinder[handler.Context, vendorRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, vendorRequest](h.errorHandler),
	))

	return r
}

func (h *Handler) send(ctx handler.Context, p email.Payload) handler.Response {
	if err := h.dispatcher.SendOne(ctx, p); err != nil {
		return handler.Error(err)
	}
	return handler.OK("Email sent successfully", sendResult{Vendor: p.Vendor, To: p.To})
}

func (h *Handler) batch(ctx handler.Context, req batchRequest) handler.Response {
	if err := req.validate(); err != nil {
		return handler.Error(err)
	}

	outcome, err := h.dispatcher.SendBatch(ctx, req.Payloads, req.options()...)
	if err != nil && !errors.Is(err, email.ErrBatchAborted) {
		return handler.Error(err)
	}

	msg := fmt.Sprintf("Batch processed: %d sent, %d failed", outcome.Successful, outcome.Failed)
	if outcome.Skipped > 0 {
		msg += fmt.Sprintf(", %d skipped", outcome.Skipped)
	}
	return handler.JSON(http.StatusOK, handler.Envelope{
		Success: outcome.Failed == 0 && !outcome.Aborted,
		Message: msg,
		Data:    outcome,
	})
}

func (h *Handler) listVendors(_ handler.Context, _ struct{}) handler.Response {
	vendors := h.vendors.Vendors()
	out := make([]vendorStatus, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, vendorStatus{Vendor: v, Configured: h.vendors.Configured(v)})
	}
	return handler.OK("Registered email vendors", out)
}

func (h *Handler) testVendor(ctx handler.Context, req vendorRequest) handler.Response {
	valid, err := h.dispatcher.TestConfiguration(ctx, req.Vendor)
	res := testResult{Vendor: req.Vendor, Valid: valid}
	msg := "Vendor configuration is valid"
	if err != nil {
		msg = "Vendor configuration is invalid"
		res.Reason = reason(err)
	}
	return handler.JSON(http.StatusOK, handler.Envelope{Success: valid, Message: msg, Data: res})
}

// reason exposes only configuration problems; transport details stay in the logs.
func reason(err error) string {
	if info, ok := ErrorMapper(err); ok {
		return info.Message
	}
	return "Vendor verification failed"
}
