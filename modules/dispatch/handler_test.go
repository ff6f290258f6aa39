package dispatch_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/feedbackmail/handler"
	"github.com/dmitrymomot/feedbackmail/modules/dispatch"
	"github.com/dmitrymomot/feedbackmail/pkg/email"
	"github.com/dmitrymomot/feedbackmail/pkg/email/templates"
	"github.com/dmitrymomot/feedbackmail/pkg/logger"
)

// flaky rejects recipients whose local part starts with "fail".
type flaky struct {
	renderer email.Renderer
}

func (f flaky) Send(_ context.Context, p email.Payload) error {
	if _, err := f.renderer.Render(p.TemplatePath, p.Variables); err != nil {
		return err
	}
	if strings.HasPrefix(p.To, "fail") {
		return &email.DeliveryError{Vendor: "flaky", Err: errors.New("550 mailbox unavailable")}
	}
	return nil
}

func setup(t *testing.T) (http.Handler, string) {
	t.Helper()

	renderer := templates.New(fstest.MapFS{
		"welcome.html": {Data: []byte(`<p>Hi {{ upper .name }}</p>`)},
	})
	registry := email.NewRegistry(renderer)
	email.RegisterBuiltins(registry)
	registry.Register("flaky", func(_ email.ProviderConfig, r email.Renderer) (email.Provider, error) {
		return flaky{renderer: r}, nil
	})

	dir := t.TempDir()
	registry.SetConfig("flaky", email.ProviderConfig{})
	registry.SetConfig(email.VendorFile, email.ProviderConfig{email.KeyFileDir: dir})

	svc := email.NewService(registry, email.WithLogger(logger.Nop()))
	errs := handler.NewErrorHandler(logger.Nop(), dispatch.ErrorMapper)
	return dispatch.NewHandler(svc, registry, errs).Handle(), dir
}

func post(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) handler.Envelope {
	t.Helper()
	var env handler.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantKey  string
	}{
		{
			name:     "delivered",
			body:     `{"to":"ana@example.com","subject":"Hi","templatePath":"welcome.html","vendor":"file","variables":{"name":"ana"}}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "missing subject",
			body:     `{"to":"ana@example.com","templatePath":"welcome.html","vendor":"file"}`,
			wantCode: http.StatusBadRequest,
			wantKey:  "validation_error",
		},
		{
			name:     "unknown vendor",
			body:     `{"to":"ana@example.com","subject":"Hi","templatePath":"welcome.html","vendor":"pigeon"}`,
			wantCode: http.StatusUnprocessableEntity,
			wantKey:  "unsupported_vendor",
		},
		{
			name:     "vendor without config",
			body:     `{"to":"ana@example.com","subject":"Hi","templatePath":"welcome.html","vendor":"resend"}`,
			wantCode: http.StatusUnprocessableEntity,
			wantKey:  "vendor_not_configured",
		},
		{
			name:     "missing template",
			body:     `{"to":"ana@example.com","subject":"Hi","templatePath":"nope.html","vendor":"flaky"}`,
			wantCode: http.StatusBadGateway,
			wantKey:  "template_error",
		},
		{
			name:     "transport failure",
			body:     `{"to":"fail@example.com","subject":"Hi","templatePath":"welcome.html","vendor":"flaky"}`,
			wantCode: http.StatusBadGateway,
			wantKey:  "delivery_failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _ := setup(t)

			rec := post(t, h, "/send", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			env := envelope(t, rec)
			assert.Equal(t, tt.wantCode == http.StatusOK, env.Success)
			assert.Equal(t, tt.wantKey, env.Error)
			assert.NotContains(t, rec.Body.String(), "550")
		})
	}
}

func TestSendWritesFile(t *testing.T) {
	t.Parallel()

	h, dir := setup(t)
	rec := post(t, h, "/send", `{"to":"ana@example.com","subject":"Hi","templatePath":"welcome.html","vendor":"FILE","variables":{"name":"ana"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	matches, err := filepath.Glob(filepath.Join(dir, "*.html"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	body, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "Hi ANA")
}

func TestBatch(t *testing.T) {
	t.Parallel()

	type outcome struct {
		Data email.BatchOutcome `json:"data"`
	}
	decode := func(t *testing.T, rec *httptest.ResponseRecorder) email.BatchOutcome {
		t.Helper()
		var o outcome
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
		return o.Data
	}

	t.Run("valid and malformed payload", func(t *testing.T) {
		t.Parallel()
		h, _ := setup(t)

		rec := post(t, h, "/batch", `{
			"payloads": [
				{"to":"ana@example.com","subject":"Hi","templatePath":"welcome.html","vendor":"flaky"},
				{"to":"bob@example.com","templatePath":"welcome.html","vendor":"flaky"}
			],
			"options": {"maxConcurrency": 1}
		}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, envelope(t, rec).Success)

		got := decode(t, rec)
		assert.Equal(t, 1, got.Successful)
		assert.Equal(t, 1, got.Failed)
		require.Len(t, got.Errors, 1)
		assert.Contains(t, got.Errors[0], "payload 1 to bob@example.com")
	})

	t.Run("stop on first failure", func(t *testing.T) {
		t.Parallel()
		h, _ := setup(t)

		rec := post(t, h, "/batch", `{
			"payloads": [
				{"to":"fail@example.com","subject":"Hi","templatePath":"welcome.html","vendor":"flaky"},
				{"to":"ana@example.com","subject":"Hi","templatePath":"welcome.html","vendor":"flaky"},
				{"to":"bob@example.com","subject":"Hi","templatePath":"welcome.html","vendor":"flaky"}
			],
			"options": {"parallel": false, "continueOnError": false}
		}`)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decode(t, rec)
		assert.True(t, got.Aborted)
		assert.Equal(t, 0, got.Successful)
		assert.Equal(t, 1, got.Failed)
		assert.Equal(t, 2, got.Skipped)
	})

	t.Run("all delivered", func(t *testing.T) {
		t.Parallel()
		h, _ := setup(t)

		rec := post(t, h, "/batch", `{"payloads":[
			{"to":"ana@example.com","subject":"Hi","templatePath":"welcome.html","vendor":"flaky"},
			{"to":"bob@example.com","subject":"Hi","templatePath":"welcome.html","vendor":"flaky"}
		]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, envelope(t, rec).Success)
		assert.Equal(t, 2, decode(t, rec).Successful)
	})

	t.Run("empty batch", func(t *testing.T) {
		t.Parallel()
		h, _ := setup(t)

		rec := post(t, h, "/batch", `{"payloads":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid concurrency", func(t *testing.T) {
		t.Parallel()
		h, _ := setup(t)

		rec := post(t, h, "/batch", `{"payloads":[{"to":"ana@example.com","subject":"Hi","templatePath":"welcome.html","vendor":"flaky"}],"options":{"maxConcurrency":0}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestVendors(t *testing.T) {
	t.Parallel()

	h, _ := setup(t)
	rec := get(t, h, "/vendors")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []struct {
			Vendor     string `json:"vendor"`
			Configured bool   `json:"configured"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	configured := map[string]bool{}
	for _, v := range body.Data {
		configured[v.Vendor] = v.Configured
	}
	assert.Equal(t, map[string]bool{
		"file":     true,
		"flaky":    true,
		"postmark": false,
		"resend":   false,
		"sendgrid": false,
		"ses":      false,
		"smtp":     false,
	}, configured)
}

func TestTestConfiguration(t *testing.T) {
	t.Parallel()

	h, _ := setup(t)

	tests := []struct {
		vendor string
		valid  bool
		reason string
	}{
		{vendor: "file", valid: true},
		{vendor: "flaky", valid: true},
		{vendor: "resend", valid: false, reason: "Email vendor is not configured"},
		{vendor: "pigeon", valid: false, reason: "Unsupported email vendor"},
	}

	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			t.Parallel()
			rec := get(t, h, "/test/"+tt.vendor)
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				Success bool `json:"success"`
				Data    struct {
					Vendor string `json:"vendor"`
					Valid  bool   `json:"valid"`
					Reason string `json:"reason"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.vendor, body.Data.Vendor)
			assert.Equal(t, tt.valid, body.Data.Valid)
			assert.Equal(t, tt.valid, body.Success)
			assert.Equal(t, tt.reason, body.Data.Reason)
		})
	}
}
