package email

import (
	"maps"

	"github.com/dmitrymomot/feedbackmail/pkg/config"
)

// VendorsConfig collects vendor credentials from the environment.
// A vendor is configured only when its identifying credential is set.
// File may point at a JSON or YAML document mapping vendor ids to settings;
// its entries take precedence over environment values.
type VendorsConfig struct {
	File string `env:"EMAIL_VENDORS_FILE"`

	Resend struct {
		APIKey   string `env:"API_KEY"`
		From     string `env:"FROM_EMAIL"`
		FromName string `env:"FROM_NAME"`
	} `envPrefix:"RESEND_"`

	SMTP struct {
		Host               string `env:"HOST"`
		Port               string `env:"PORT" envDefault:"587"`
		Username           string `env:"USERNAME"`
		Password           string `env:"PASSWORD"`
		From               string `env:"FROM_EMAIL"`
		FromName           string `env:"FROM_NAME"`
		TLS                bool   `env:"TLS"`
		InsecureSkipVerify bool   `env:"INSECURE_SKIP_VERIFY"`
	} `envPrefix:"SMTP_"`

	Postmark struct {
		ServerToken   string `env:"SERVER_TOKEN"`
		AccountToken  string `env:"ACCOUNT_TOKEN"`
		From          string `env:"FROM_EMAIL"`
		FromName      string `env:"FROM_NAME"`
		MessageStream string `env:"MESSAGE_STREAM"`
	} `envPrefix:"POSTMARK_"`

	SendGrid struct {
		APIKey   string `env:"API_KEY"`
		From     string `env:"FROM_EMAIL"`
		FromName string `env:"FROM_NAME"`
	} `envPrefix:"SENDGRID_"`

	SES struct {
		Region           string `env:"REGION"`
		AccessKey        string `env:"ACCESS_KEY_ID"`
		SecretKey        string `env:"SECRET_ACCESS_KEY"`
		Endpoint         string `env:"ENDPOINT"`
		From             string `env:"FROM_EMAIL"`
		FromName         string `env:"FROM_NAME"`
		ConfigurationSet string `env:"CONFIGURATION_SET"`
	} `envPrefix:"SES_"`

	FileDir string `env:"EMAIL_FILE_DIR"`
}

// Configs returns settings for every configured vendor.
func (c VendorsConfig) Configs() (map[string]ProviderConfig, error) {
	out := make(map[string]ProviderConfig)

	if c.Resend.APIKey != "" {
		out[VendorResend] = ProviderConfig{
			KeyAPIKey:   c.Resend.APIKey,
			KeyFrom:     c.Resend.From,
			KeyFromName: c.Resend.FromName,
		}
	}
	if c.SMTP.Host != "" {
		out[VendorSMTP] = ProviderConfig{
			KeySMTPHost:               c.SMTP.Host,
			KeySMTPPort:               c.SMTP.Port,
			KeySMTPUsername:           c.SMTP.Username,
			KeySMTPPassword:           c.SMTP.Password,
			KeyFrom:                   c.SMTP.From,
			KeyFromName:               c.SMTP.FromName,
			KeySMTPTLS:                boolString(c.SMTP.TLS),
			KeySMTPInsecureSkipVerify: boolString(c.SMTP.InsecureSkipVerify),
		}
	}
	if c.Postmark.ServerToken != "" {
		out[VendorPostmark] = ProviderConfig{
			KeyPostmarkServerToken:  c.Postmark.ServerToken,
			KeyPostmarkAccountToken: c.Postmark.AccountToken,
			KeyFrom:                 c.Postmark.From,
			KeyFromName:             c.Postmark.FromName,
			KeyPostmarkStream:       c.Postmark.MessageStream,
		}
	}
	if c.SendGrid.APIKey != "" {
		out[VendorSendGrid] = ProviderConfig{
			KeyAPIKey:   c.SendGrid.APIKey,
			KeyFrom:     c.SendGrid.From,
			KeyFromName: c.SendGrid.FromName,
		}
	}
	if c.SES.Region != "" {
		out[VendorSES] = ProviderConfig{
			KeySESRegion:    c.SES.Region,
			KeySESAccessKey: c.SES.AccessKey,
			KeySESSecretKey: c.SES.SecretKey,
			KeySESEndpoint:  c.SES.Endpoint,
			KeySESConfigSet: c.SES.ConfigurationSet,
			KeyFrom:         c.SES.From,
			KeyFromName:     c.SES.FromName,
		}
	}
	if c.FileDir != "" {
		out[VendorFile] = ProviderConfig{KeyFileDir: c.FileDir}
	}

	if c.File != "" {
		var fromFile map[string]ProviderConfig
		if err := config.LoadFile(c.File, &fromFile); err != nil {
			return nil, err
		}
		for vendor, cfg := range fromFile {
			id := normalize(vendor)
			merged := maps.Clone(out[id])
			if merged == nil {
				merged = ProviderConfig{}
			}
			maps.Copy(merged, cfg)
			out[id] = merged
		}
	}

	return out, nil
}

// RegisterBuiltins adds the postmark, sendgrid, ses and file vendors.
func RegisterBuiltins(r *Registry) {
	r.Register(VendorPostmark, NewPostmarkProvider)
	r.Register(VendorSendGrid, NewSendGridProvider)
	r.Register(VendorSES, NewSESProvider)
	r.Register(VendorFile, NewFileProvider)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
