package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// KeyFileDir is the output directory of the file vendor.
const KeyFileDir = "dir"

// fileProvider writes each message to disk as an HTML body plus JSON metadata
// instead of delivering it. Used for local development.
type fileProvider struct {
	dir      string
	from     string
	renderer Renderer
	now      func() time.Time
}

// NewFileProvider builds the development vendor. Required key: dir.
func NewFileProvider(cfg ProviderConfig, renderer Renderer) (Provider, error) {
	if err := cfg.Require(VendorFile, KeyFileDir); err != nil {
		return nil, err
	}
	return &fileProvider{
		dir:      cfg.Get(KeyFileDir),
		from:     cfg.GetOr(KeyFrom, "dev@localhost"),
		renderer: renderer,
		now:      time.Now,
	}, nil
}

type fileMetadata struct {
	Timestamp   string   `json:"timestamp"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	CC          []string `json:"cc,omitempty"`
	BCC         []string `json:"bcc,omitempty"`
	ReplyTo     string   `json:"reply_to,omitempty"`
	Subject     string   `json:"subject"`
	Template    string   `json:"template"`
	Attachments []string `json:"attachments,omitempty"`
}

func (p *fileProvider) Send(ctx context.Context, payload Payload) error {
	html, err := renderBody(p.renderer, payload)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return deliveryError(VendorFile, err)
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return deliveryError(VendorFile, fmt.Errorf("create directory: %w", err))
	}

	now := p.now()
	base := fmt.Sprintf("%s_%d_%s", now.Format("2006_01_02_150405"), now.Nanosecond(), sanitizeFilename(payload.Subject))

	if err := os.WriteFile(filepath.Join(p.dir, base+".html"), []byte(html), 0o644); err != nil {
		return deliveryError(VendorFile, fmt.Errorf("write html: %w", err))
	}

	meta := fileMetadata{
		Timestamp: now.Format(time.RFC3339),
		From:      p.from,
		To:        payload.To,
		CC:        payload.CC,
		BCC:       payload.BCC,
		ReplyTo:   payload.ReplyTo,
		Subject:   payload.Subject,
		Template:  payload.TemplatePath,
	}
	for _, a := range payload.Attachments {
		meta.Attachments = append(meta.Attachments, a.Filename)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return deliveryError(VendorFile, fmt.Errorf("marshal metadata: %w", err))
	}
	if err := os.WriteFile(filepath.Join(p.dir, base+".json"), data, 0o644); err != nil {
		return deliveryError(VendorFile, fmt.Errorf("write metadata: %w", err))
	}
	return nil
}

// Verify checks that the output directory is writable.
func (p *fileProvider) Verify(context.Context) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return deliveryError(VendorFile, err)
	}
	f, err := os.CreateTemp(p.dir, ".verify-*")
	if err != nil {
		return deliveryError(VendorFile, err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename turns s into a lowercase filesystem-safe name of at most 100 characters.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
