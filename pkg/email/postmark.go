package email

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"
)

// Postmark settings keys.
const (
	KeyPostmarkServerToken  = "server_token"
	KeyPostmarkAccountToken = "account_token"
	KeyPostmarkStream       = "message_stream"
)

var errPostmarkAPI = errors.New("postmark api error")

type postmarkProvider struct {
	client   *postmark.Client
	renderer Renderer
	from     string
	stream   string
}

// NewPostmarkProvider builds a provider for Postmark.
// Required keys: server_token, from. Opens and HTML links are tracked.
func NewPostmarkProvider(cfg ProviderConfig, renderer Renderer) (Provider, error) {
	if err := cfg.Require(VendorPostmark, KeyPostmarkServerToken, KeyFrom); err != nil {
		return nil, err
	}

	client := postmark.NewClient(cfg.Get(KeyPostmarkServerToken), cfg.Get(KeyPostmarkAccountToken))
	if base := cfg.Get(KeyBaseURL); base != "" {
		client.BaseURL = strings.TrimSuffix(base, "/")
	}

	return &postmarkProvider{
		client:   client,
		renderer: renderer,
		from:     cfg.sender(),
		stream:   cfg.Get(KeyPostmarkStream),
	}, nil
}

func (p *postmarkProvider) Send(ctx context.Context, payload Payload) error {
	html, err := renderBody(p.renderer, payload)
	if err != nil {
		return err
	}

	msg := postmark.Email{
		From:          p.from,
		To:            payload.To,
		Cc:            strings.Join(payload.CC, ","),
		Bcc:           strings.Join(payload.BCC, ","),
		ReplyTo:       payload.ReplyTo,
		Subject:       payload.Subject,
		HTMLBody:      html,
		TrackOpens:    true,
		TrackLinks:    "HtmlOnly",
		MessageStream: p.stream,
	}
	for _, a := range payload.Attachments {
		msg.Attachments = append(msg.Attachments, postmark.Attachment{
			Name:        a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: contentTypeOrDefault(a.ContentType),
		})
	}

	resp, err := p.client.SendEmail(ctx, msg)
	if err != nil {
		return deliveryError(VendorPostmark, err)
	}
	if resp.ErrorCode > 0 {
		return deliveryError(VendorPostmark, fmt.Errorf("%w: %d - %s", errPostmarkAPI, resp.ErrorCode, resp.Message))
	}
	return nil
}

// Verify fetches the server bound to the token.
func (p *postmarkProvider) Verify(ctx context.Context) error {
	if _, err := p.client.GetCurrentServer(ctx); err != nil {
		return deliveryError(VendorPostmark, err)
	}
	return nil
}

func contentTypeOrDefault(ct string) string {
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}
