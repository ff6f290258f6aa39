package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/mail"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendgridSendPath = "/v3/mail/send"

type sendgridProvider struct {
	client   *sendgrid.Client
	renderer Renderer
	from     *sgmail.Email
}

// NewSendGridProvider builds a provider for the SendGrid v3 API.
// Required keys: api_key, from.
func NewSendGridProvider(cfg ProviderConfig, renderer Renderer) (Provider, error) {
	if err := cfg.Require(VendorSendGrid, KeyAPIKey, KeyFrom); err != nil {
		return nil, err
	}
	if _, err := mail.ParseAddress(cfg.Get(KeyFrom)); err != nil {
		return nil, fmt.Errorf("%w: sendgrid: invalid from address: %v", ErrInvalidConfig, err)
	}

	client := sendgrid.NewSendClient(cfg.Get(KeyAPIKey))
	if base := cfg.Get(KeyBaseURL); base != "" {
		client.BaseURL = strings.TrimSuffix(base, "/") + sendgridSendPath
	}

	return &sendgridProvider{
		client:   client,
		renderer: renderer,
		from:     sgmail.NewEmail(cfg.Get(KeyFromName), cfg.Get(KeyFrom)),
	}, nil
}

func (p *sendgridProvider) Send(ctx context.Context, payload Payload) error {
	html, err := renderBody(p.renderer, payload)
	if err != nil {
		return err
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(p.from)
	m.Subject = payload.Subject
	m.AddContent(sgmail.NewContent("text/html", html))
	if payload.ReplyTo != "" {
		m.SetReplyTo(sgmail.NewEmail("", payload.ReplyTo))
	}

	pers := sgmail.NewPersonalization()
	pers.AddTos(sgmail.NewEmail("", payload.To))
	for _, cc := range payload.CC {
		pers.AddCCs(sgmail.NewEmail("", cc))
	}
	for _, bcc := range payload.BCC {
		pers.AddBCCs(sgmail.NewEmail("", bcc))
	}
	m.AddPersonalizations(pers)

	for _, a := range payload.Attachments {
		att := sgmail.NewAttachment()
		att.SetFilename(a.Filename)
		att.SetType(contentTypeOrDefault(a.ContentType))
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		att.SetDisposition("attachment")
		m.AddAttachment(att)
	}

	resp, err := p.client.SendWithContext(ctx, m)
	if err != nil {
		return deliveryError(VendorSendGrid, err)
	}
	if resp.StatusCode >= 400 {
		return deliveryError(VendorSendGrid, fmt.Errorf("sendgrid api error: status %d: %s", resp.StatusCode, resp.Body))
	}
	return nil
}
