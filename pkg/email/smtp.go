package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"time"
)

// SMTP settings keys.
const (
	KeySMTPHost               = "host"
	KeySMTPPort               = "port"
	KeySMTPUsername           = "username"
	KeySMTPPassword           = "password"
	KeySMTPTLS                = "tls"
	KeySMTPInsecureSkipVerify = "insecure_skip_verify"
	KeySMTPHelloName          = "hello_name"
)

const smtpDialTimeout = 15 * time.Second

type smtpProvider struct {
	renderer  Renderer
	host      string
	addr      string
	from      string
	envelope  string
	username  string
	password  string
	implicit  bool
	helloName string
	tlsConfig *tls.Config
	dialer    *net.Dialer
	now       func() time.Time
}

// NewSMTPProvider builds a provider talking to an SMTP relay.
// Required keys: host, port, from. With tls=true the connection is TLS from
// the first byte; otherwise STARTTLS is used whenever the server offers it.
func NewSMTPProvider(cfg ProviderConfig, renderer Renderer) (Provider, error) {
	if err := cfg.Require(VendorSMTP, KeySMTPHost, KeySMTPPort, KeyFrom); err != nil {
		return nil, err
	}

	port, err := strconv.Atoi(cfg.Get(KeySMTPPort))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("%w: smtp: invalid port %q", ErrInvalidConfig, cfg.Get(KeySMTPPort))
	}

	from := cfg.sender()
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("%w: smtp: invalid from address: %v", ErrInvalidConfig, err)
	}

	host := cfg.Get(KeySMTPHost)
	return &smtpProvider{
		renderer:  renderer,
		host:      host,
		addr:      net.JoinHostPort(host, strconv.Itoa(port)),
		from:      from,
		envelope:  addr.Address,
		username:  cfg.Get(KeySMTPUsername),
		password:  cfg.Get(KeySMTPPassword),
		implicit:  cfg.Bool(KeySMTPTLS),
		helloName: cfg.GetOr(KeySMTPHelloName, "localhost"),
		tlsConfig: &tls.Config{
			ServerName:         host,
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.Bool(KeySMTPInsecureSkipVerify),
		},
		dialer: &net.Dialer{Timeout: smtpDialTimeout},
		now:    time.Now,
	}, nil
}

func (p *smtpProvider) Send(ctx context.Context, payload Payload) error {
	html, err := renderBody(p.renderer, payload)
	if err != nil {
		return err
	}

	msg, err := buildMIME(p.from, payload, html, p.now())
	if err != nil {
		return deliveryError(VendorSMTP, err)
	}

	if err := p.session(ctx, func(c *smtp.Client) error {
		return p.transmit(c, recipients(payload), msg)
	}); err != nil {
		return deliveryError(VendorSMTP, err)
	}
	return nil
}

// Verify connects, negotiates TLS and authenticates without sending mail.
func (p *smtpProvider) Verify(ctx context.Context) error {
	if err := p.session(ctx, func(*smtp.Client) error { return nil }); err != nil {
		return deliveryError(VendorSMTP, err)
	}
	return nil
}

func (p *smtpProvider) transmit(c *smtp.Client, rcpts []string, msg []byte) error {
	if err := c.Mail(p.envelope); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range rcpts {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmt.Errorf("data write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("data close: %w", err)
	}
	return nil
}

// session opens a connection, runs the handshake and hands the client to fn.
func (p *smtpProvider) session(ctx context.Context, fn func(*smtp.Client) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := p.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial %s: %w", p.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	// Unblock the protocol exchange when ctx is cancelled mid-session.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	c, err := smtp.NewClient(conn, p.host)
	if err != nil {
		return fmt.Errorf("greeting: %w", err)
	}
	defer c.Close()

	if err := c.Hello(p.helloName); err != nil {
		return fmt.Errorf("hello: %w", err)
	}

	if !p.implicit {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(p.tlsConfig); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if p.username != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", p.username, p.password, p.host)); err != nil {
				return fmt.Errorf("auth: %w", err)
			}
		}
	}

	if err := fn(c); err != nil {
		return err
	}

	if err := c.Quit(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("quit: %w", err)
	}
	return ctx.Err()
}

func (p *smtpProvider) dial(ctx context.Context) (net.Conn, error) {
	if p.implicit {
		d := &tls.Dialer{NetDialer: p.dialer, Config: p.tlsConfig}
		return d.DialContext(ctx, "tcp", p.addr)
	}
	return p.dialer.DialContext(ctx, "tcp", p.addr)
}
