package email

import (
	"context"
	"fmt"
)

// Built-in vendor identifiers.
const (
	VendorResend   = "resend"
	VendorSMTP     = "smtp"
	VendorPostmark = "postmark"
	VendorSendGrid = "sendgrid"
	VendorSES      = "ses"
	VendorFile     = "file"
)

// Common ProviderConfig keys.
const (
	KeyAPIKey   = "api_key"
	KeyFrom     = "from"
	KeyFromName = "from_name"
)

// Provider delivers a single payload through one vendor.
type Provider interface {
	Send(ctx context.Context, p Payload) error
}

// Verifier is implemented by providers that can check connectivity or
// credentials without sending mail.
type Verifier interface {
	Verify(ctx context.Context) error
}

// Renderer turns a template reference and variables into HTML.
type Renderer interface {
	Render(ref string, data any) (string, error)
}

// Constructor builds a provider from its vendor settings.
type Constructor func(cfg ProviderConfig, renderer Renderer) (Provider, error)

// renderBody renders the payload template. Variables are handed over as-is so
// templates address them by key.
func renderBody(r Renderer, p Payload) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: no renderer configured", ErrRenderFailed)
	}
	vars := p.Variables
	if vars == nil {
		vars = map[string]any{}
	}
	return r.Render(p.TemplatePath, vars)
}
