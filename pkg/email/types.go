package email

import (
	"fmt"
	"sort"
	"strings"
)

// Attachment is a file sent along with a message. Content is base64 in JSON.
type Attachment struct {
	Filename    string `json:"filename"`
	Content     []byte `json:"content"`
	ContentType string `json:"contentType,omitempty"`
}

// Payload describes one outgoing message before rendering.
type Payload struct {
	To           string         `json:"to"`
	Subject      string         `json:"subject"`
	TemplatePath string         `json:"templatePath"`
	Vendor       string         `json:"vendor"`
	Variables    map[string]any `json:"variables,omitempty"`
	CC           []string       `json:"cc,omitempty"`
	BCC          []string       `json:"bcc,omitempty"`
	ReplyTo      string         `json:"replyTo,omitempty"`
	Attachments  []Attachment   `json:"attachments,omitempty"`
}

// ProviderConfig is the opaque per-vendor settings map.
type ProviderConfig map[string]string

// Get returns the trimmed value for key.
func (c ProviderConfig) Get(key string) string {
	return strings.TrimSpace(c[key])
}

// GetOr returns the value for key or def when it is empty.
func (c ProviderConfig) GetOr(key, def string) string {
	if v := c.Get(key); v != "" {
		return v
	}
	return def
}

// Bool reports whether key holds a truthy value.
func (c ProviderConfig) Bool(key string) bool {
	switch strings.ToLower(c.Get(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Require fails with ErrInvalidConfig listing every empty key.
func (c ProviderConfig) Require(vendor string, keys ...string) error {
	var missing []string
	for _, k := range keys {
		if c.Get(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s: missing %s", ErrInvalidConfig, vendor, strings.Join(missing, ", "))
}

// sender formats the configured from address with an optional display name.
func (c ProviderConfig) sender() string {
	from := c.Get(KeyFrom)
	if name := c.Get(KeyFromName); name != "" {
		return fmt.Sprintf("%s <%s>", name, from)
	}
	return from
}

// BatchOutcome aggregates a batch run.
// Successful+Failed+Skipped always equals the batch size and len(Errors) equals Failed.
type BatchOutcome struct {
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
	Aborted    bool     `json:"aborted"`
	Errors     []string `json:"errors"`
}
