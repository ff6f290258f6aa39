package email_test

import (
	"context"
	"testing/fstest"

	"github.com/dmitrymomot/feedbackmail/pkg/email"
	"github.com/dmitrymomot/feedbackmail/pkg/email/templates"
)

func testRenderer() *templates.Renderer {
	return templates.New(fstest.MapFS{
		"hello.html": {Data: []byte(`<p>Hello {{ upper .firstName }}</p>`)},
	})
}

// stubProvider delivers through a function so tests can script failures.
type stubProvider struct {
	renderer email.Renderer
	send     func(ctx context.Context, p email.Payload) error
}

func (s *stubProvider) Send(ctx context.Context, p email.Payload) error {
	if _, err := s.renderer.Render(p.TemplatePath, p.Variables); err != nil {
		return err
	}
	if s.send == nil {
		return nil
	}
	return s.send(ctx, p)
}

type verifyingStub struct {
	stubProvider
	verifyErr error
}

func (v *verifyingStub) Verify(context.Context) error { return v.verifyErr }

func stubConstructor(send func(ctx context.Context, p email.Payload) error) email.Constructor {
	return func(_ email.ProviderConfig, r email.Renderer) (email.Provider, error) {
		return &stubProvider{renderer: r, send: send}, nil
	}
}

func validPayload(to string) email.Payload {
	return email.Payload{
		To:           to,
		Subject:      "Hi",
		TemplatePath: "hello.html",
		Vendor:       "stub",
		Variables:    map[string]any{"firstName": "Ana"},
	}
}
