package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/feedbackmail/pkg/async"
	"github.com/dmitrymomot/feedbackmail/pkg/logger"
)

const (
	// DefaultMaxConcurrency bounds in-flight sends per batch wave.
	DefaultMaxConcurrency = 5

	tracerName = "github.com/dmitrymomot/feedbackmail/pkg/email"
)

// ProviderFactory creates providers by vendor id. *Registry implements it.
type ProviderFactory interface {
	Create(vendor string) (Provider, error)
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) ServiceOption {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(tracerName)
		}
	}
}

// Service validates payloads and dispatches them through vendor providers.
type Service struct {
	factory ProviderFactory
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewService creates a dispatch service over factory.
func NewService(factory ProviderFactory, opts ...ServiceOption) *Service {
	s := &Service{
		factory: factory,
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("email"))
	return s
}

// SendOne validates, renders and delivers a single payload.
func (s *Service) SendOne(ctx context.Context, p Payload) error {
	ctx, span := s.tracer.Start(ctx, "email.SendOne", trace.WithAttributes(
		attribute.String("email.vendor", p.Vendor),
		attribute.String("email.template", p.TemplatePath),
	))
	defer span.End()

	if err := s.send(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send failed")
		return err
	}
	return nil
}

func (s *Service) send(ctx context.Context, p Payload) error {
	if err := p.Validate(); err != nil {
		return err
	}

	provider, err := s.factory.Create(p.Vendor)
	if err != nil {
		s.logger.ErrorContext(ctx, "email provider unavailable",
			logger.Vendor(p.Vendor),
			logger.Error(err),
		)
		return err
	}

	if err := provider.Send(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "email delivery failed",
			logger.Vendor(p.Vendor),
			logger.Recipient(p.To),
			logger.Template(p.TemplatePath),
			logger.Error(err),
		)
		return err
	}

	s.logger.DebugContext(ctx, "email sent",
		logger.Vendor(p.Vendor),
		logger.Recipient(p.To),
		logger.Template(p.TemplatePath),
	)
	return nil
}

// BatchOption configures SendBatch.
type BatchOption func(*batchOptions)

type batchOptions struct {
	parallel        bool
	continueOnError bool
	maxConcurrency  int
}

// WithParallel toggles concurrent sends inside a wave. Sequential when false.
func WithParallel(enabled bool) BatchOption {
	return func(o *batchOptions) { o.parallel = enabled }
}

// WithContinueOnError keeps processing after failures when true (the default).
// When false the batch stops after the wave that saw the first failure.
func WithContinueOnError(enabled bool) BatchOption {
	return func(o *batchOptions) { o.continueOnError = enabled }
}

// WithMaxConcurrency sets the wave size. Non-positive values keep the default.
func WithMaxConcurrency(n int) BatchOption {
	return func(o *batchOptions) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}

// SendBatch sends payloads in fixed-size waves. Each wave runs concurrently
// and is fully awaited before the next starts; a slow message delays the
// following wave. Failures are collected in order. When continue-on-error is
// disabled, the remaining payloads are skipped after a failing wave and the
// returned error wraps ErrBatchAborted. A cancelled context skips the rest.
func (s *Service) SendBatch(ctx context.Context, payloads []Payload, opts ...BatchOption) (BatchOutcome, error) {
	o := batchOptions{parallel: true, continueOnError: true, maxConcurrency: DefaultMaxConcurrency}
	for _, opt := range opts {
		opt(&o)
	}
	size := o.maxConcurrency
	if !o.parallel {
		size = 1
	}

	ctx, span := s.tracer.Start(ctx, "email.SendBatch", trace.WithAttributes(
		attribute.Int("email.batch.size", len(payloads)),
		attribute.Int("email.batch.concurrency", size),
	))
	defer span.End()

	outcome := BatchOutcome{Errors: []string{}}
	processed := 0

	for wave := range slices.Chunk(payloads, size) {
		if err := ctx.Err(); err != nil {
			outcome.Skipped = len(payloads) - processed
			outcome.Aborted = true
			span.SetStatus(codes.Error, "batch cancelled")
			return outcome, errors.Join(ErrBatchAborted, err)
		}

		futures := make([]*async.Future[struct{}], len(wave))
		for i, p := range wave {
			futures[i] = async.Async(ctx, p, func(ctx context.Context, p Payload) (struct{}, error) {
				return struct{}{}, s.send(ctx, p)
			})
		}

		waveFailed := false
		for i, r := range async.SettleAll(futures...) {
			if r.OK() {
				outcome.Successful++
				continue
			}
			waveFailed = true
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, describeFailure(processed+i, wave[i], r.Err))
		}
		processed += len(wave)

		if waveFailed && !o.continueOnError {
			outcome.Skipped = len(payloads) - processed
			outcome.Aborted = true
			break
		}
	}

	s.logger.InfoContext(ctx, "email batch finished",
		logger.BatchSize(len(payloads)),
		slog.Int("successful", outcome.Successful),
		slog.Int("failed", outcome.Failed),
		slog.Int("skipped", outcome.Skipped),
	)

	span.SetAttributes(
		attribute.Int("email.batch.successful", outcome.Successful),
		attribute.Int("email.batch.failed", outcome.Failed),
	)
	if outcome.Aborted {
		span.SetStatus(codes.Error, "batch aborted")
		return outcome, ErrBatchAborted
	}
	return outcome, nil
}

func describeFailure(index int, p Payload, err error) string {
	to := p.To
	if to == "" {
		to = "<missing recipient>"
	}
	return fmt.Sprintf("payload %d to %s: %s", index, to, strings.ReplaceAll(err.Error(), "\n", ": "))
}

// TestConfiguration reports whether vendor can be used. Providers that
// implement Verifier are checked against the vendor; for the rest a
// successful construction counts as valid. The error explains a false result.
func (s *Service) TestConfiguration(ctx context.Context, vendor string) (bool, error) {
	provider, err := s.factory.Create(vendor)
	if err != nil {
		return false, err
	}

	v, ok := provider.(Verifier)
	if !ok {
		return true, nil
	}
	if err := v.Verify(ctx); err != nil {
		s.logger.WarnContext(ctx, "email vendor verification failed",
			logger.Vendor(vendor),
			logger.Error(err),
		)
		return false, err
	}
	return true, nil
}
