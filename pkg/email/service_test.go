package email_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/feedbackmail/pkg/email"
	"github.com/dmitrymomot/feedbackmail/pkg/logger"
	"github.com/dmitrymomot/feedbackmail/pkg/validator"
)

var errTransport = errors.New("transport down")

func newService(t *testing.T, send func(ctx context.Context, p email.Payload) error) *email.Service {
	t.Helper()
	reg := email.NewRegistry(testRenderer())
	reg.Register("stub", stubConstructor(send))
	reg.SetConfig("stub", email.ProviderConfig{})
	return email.NewService(reg, email.WithLogger(logger.Nop()))
}

func failFor(addr string) func(context.Context, email.Payload) error {
	return func(_ context.Context, p email.Payload) error {
		if p.To == addr {
			return &email.DeliveryError{Vendor: "stub", Err: errTransport}
		}
		return nil
	}
}

func TestService_SendOne(t *testing.T) {
	t.Parallel()

	t.Run("delivers rendered payload", func(t *testing.T) {
		t.Parallel()
		var got email.Payload
		svc := newService(t, func(_ context.Context, p email.Payload) error {
			got = p
			return nil
		})
		require.NoError(t, svc.SendOne(context.Background(), validPayload("ana@example.com")))
		assert.Equal(t, "ana@example.com", got.To)
	})

	t.Run("validation failure lists rules", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		svc := newService(t, func(context.Context, email.Payload) error {
			calls.Add(1)
			return nil
		})
		p := validPayload("not-an-email")
		p.Subject = ""
		p.CC = []string{"ok@example.com", "bad"}

		err := svc.SendOne(context.Background(), p)
		require.ErrorIs(t, err, email.ErrInvalidPayload)
		verrs := validator.ExtractValidationErrors(err)
		require.NotNil(t, verrs)
		assert.True(t, verrs.Has("to"))
		assert.True(t, verrs.Has("subject"))
		assert.True(t, verrs.Has("cc[1]"))
		assert.False(t, verrs.Has("cc[0]"))
		assert.Zero(t, calls.Load())
	})

	t.Run("unsupported vendor", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, nil)
		p := validPayload("ana@example.com")
		p.Vendor = "nope"
		err := svc.SendOne(context.Background(), p)
		assert.ErrorIs(t, err, email.ErrUnsupportedVendor)
	})

	t.Run("missing template", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, nil)
		p := validPayload("ana@example.com")
		p.TemplatePath = "missing.html"
		err := svc.SendOne(context.Background(), p)
		assert.ErrorIs(t, err, email.ErrTemplateNotFound)
	})

	t.Run("delivery error keeps vendor", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, failFor("ana@example.com"))
		err := svc.SendOne(context.Background(), validPayload("ana@example.com"))
		require.ErrorIs(t, err, email.ErrDeliveryFailed)
		require.ErrorIs(t, err, errTransport)

		var de *email.DeliveryError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "stub", de.Vendor)
	})
}

func TestService_SendBatch(t *testing.T) {
	t.Parallel()

	t.Run("continue on error counts every payload", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, failFor("b@example.com"))
		payloads := []email.Payload{
			validPayload("a@example.com"),
			validPayload("b@example.com"),
			validPayload("c@example.com"),
		}

		out, err := svc.SendBatch(context.Background(), payloads)
		require.NoError(t, err)
		assert.Equal(t, 2, out.Successful)
		assert.Equal(t, 1, out.Failed)
		assert.Zero(t, out.Skipped)
		assert.False(t, out.Aborted)
		require.Len(t, out.Errors, 1)
		assert.Contains(t, out.Errors[0], "b@example.com")
	})

	t.Run("valid and malformed in either order", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, nil)
		malformed := validPayload("m@example.com")
		malformed.Subject = ""

		for _, batch := range [][]email.Payload{
			{validPayload("v@example.com"), malformed},
			{malformed, validPayload("v@example.com")},
		} {
			out, err := svc.SendBatch(context.Background(), batch, email.WithMaxConcurrency(1))
			require.NoError(t, err)
			assert.Equal(t, 1, out.Successful)
			assert.Equal(t, 1, out.Failed)
			assert.Len(t, out.Errors, 1)
			assert.Contains(t, out.Errors[0], "m@example.com")
		}
	})

	t.Run("abort skips remaining waves", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, failFor("b@example.com"))
		payloads := []email.Payload{
			validPayload("a@example.com"),
			validPayload("b@example.com"),
			validPayload("c@example.com"),
			validPayload("d@example.com"),
			validPayload("e@example.com"),
		}

		out, err := svc.SendBatch(context.Background(), payloads,
			email.WithContinueOnError(false),
			email.WithMaxConcurrency(2),
		)
		require.ErrorIs(t, err, email.ErrBatchAborted)
		assert.Equal(t, 1, out.Successful)
		assert.Equal(t, 1, out.Failed)
		assert.Equal(t, 3, out.Skipped)
		assert.True(t, out.Aborted)
		assert.Equal(t, len(payloads), out.Successful+out.Failed+out.Skipped)
	})

	t.Run("bounded concurrency", func(t *testing.T) {
		t.Parallel()

		for _, tc := range []struct {
			name string
			opts []email.BatchOption
			max  int32
		}{
			{"cap of three", []email.BatchOption{email.WithMaxConcurrency(3)}, 3},
			{"default cap", nil, email.DefaultMaxConcurrency},
			{"sequential", []email.BatchOption{email.WithParallel(false), email.WithMaxConcurrency(8)}, 1},
		} {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				var inFlight, peak atomic.Int32
				svc := newService(t, func(context.Context, email.Payload) error {
					n := inFlight.Add(1)
					for {
						p := peak.Load()
						if n <= p || peak.CompareAndSwap(p, n) {
							break
						}
					}
					time.Sleep(5 * time.Millisecond)
					inFlight.Add(-1)
					return nil
				})

				payloads := make([]email.Payload, 12)
				for i := range payloads {
					payloads[i] = validPayload("a@example.com")
				}

				out, err := svc.SendBatch(context.Background(), payloads, tc.opts...)
				require.NoError(t, err)
				assert.Equal(t, 12, out.Successful)
				assert.LessOrEqual(t, peak.Load(), tc.max)
			})
		}
	})

	t.Run("cancelled context skips all", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		out, err := svc.SendBatch(ctx, []email.Payload{validPayload("a@example.com"), validPayload("b@example.com")})
		require.ErrorIs(t, err, email.ErrBatchAborted)
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 2, out.Skipped)
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, nil)
		out, err := svc.SendBatch(context.Background(), nil)
		require.NoError(t, err)
		assert.Zero(t, out.Successful+out.Failed+out.Skipped)
		assert.NotNil(t, out.Errors)
	})
}

func TestService_TestConfiguration(t *testing.T) {
	t.Parallel()

	reg := email.NewRegistry(testRenderer())
	reg.Register("plain", stubConstructor(nil))
	reg.Register("healthy", func(_ email.ProviderConfig, r email.Renderer) (email.Provider, error) {
		return &verifyingStub{stubProvider: stubProvider{renderer: r}}, nil
	})
	reg.Register("broken", func(_ email.ProviderConfig, r email.Renderer) (email.Provider, error) {
		return &verifyingStub{stubProvider: stubProvider{renderer: r}, verifyErr: errTransport}, nil
	})
	for _, v := range []string{"plain", "healthy", "broken"} {
		reg.SetConfig(v, email.ProviderConfig{})
	}
	svc := email.NewService(reg, email.WithLogger(logger.Nop()))

	tests := []struct {
		vendor  string
		valid   bool
		wantErr error
	}{
		{"plain", true, nil},
		{"HEALTHY", true, nil},
		{"broken", false, errTransport},
		{"smtp", false, email.ErrMissingConfiguration},
		{"unknown", false, email.ErrUnsupportedVendor},
	}

	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			t.Parallel()
			valid, err := svc.TestConfiguration(context.Background(), tt.vendor)
			assert.Equal(t, tt.valid, valid)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
