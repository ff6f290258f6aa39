package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v3"
)

// KeyBaseURL overrides the vendor API endpoint.
const KeyBaseURL = "base_url"

type resendProvider struct {
	client   *resend.Client
	renderer Renderer
	from     string
}

// NewResendProvider builds a provider for the Resend HTTP API.
// Required keys: api_key, from.
func NewResendProvider(cfg ProviderConfig, renderer Renderer) (Provider, error) {
	if err := cfg.Require(VendorResend, KeyAPIKey, KeyFrom); err != nil {
		return nil, err
	}

	client := resend.NewClient(cfg.Get(KeyAPIKey))
	if raw := cfg.Get(KeyBaseURL); raw != "" {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: resend: invalid base_url: %v", ErrInvalidConfig, err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		client.BaseURL = u
	}

	return &resendProvider{client: client, renderer: renderer, from: cfg.sender()}, nil
}

func (p *resendProvider) Send(ctx context.Context, payload Payload) error {
	html, err := renderBody(p.renderer, payload)
	if err != nil {
		return err
	}

	req := &resend.SendEmailRequest{
		From:    p.from,
		To:      []string{payload.To},
		Subject: payload.Subject,
		Html:    html,
		Cc:      payload.CC,
		Bcc:     payload.BCC,
		ReplyTo: payload.ReplyTo,
	}
	for _, a := range payload.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		})
	}

	if _, err := p.client.Emails.SendWithContext(ctx, req); err != nil {
		return deliveryError(VendorResend, err)
	}
	return nil
}
