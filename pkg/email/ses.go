package email

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SES settings keys.
const (
	KeySESRegion       = "region"
	KeySESAccessKey    = "access_key"
	KeySESSecretKey    = "secret_key"
	KeySESSessionToken = "session_token"
	KeySESEndpoint     = "endpoint"
	KeySESConfigSet    = "configuration_set"
)

const charsetUTF8 = "UTF-8"

type sesProvider struct {
	client    *sesv2.Client
	renderer  Renderer
	from      string
	configSet string
	now       func() time.Time
}

// NewSESProvider builds a provider for Amazon SES (v2 API).
// Required keys: region, from. Static credentials are optional; without them
// the default AWS credential chain applies.
func NewSESProvider(cfg ProviderConfig, renderer Renderer) (Provider, error) {
	if err := cfg.Require(VendorSES, KeySESRegion, KeyFrom); err != nil {
		return nil, err
	}

	key := sesCredentials{
		region: cfg.Get(KeySESRegion),
		access: cfg.Get(KeySESAccessKey),
		secret: cfg.Get(KeySESSecretKey),
		token:  cfg.Get(KeySESSessionToken),
	}
	if key.access != "" && key.secret == "" {
		return nil, fmt.Errorf("%w: ses: secret_key is required with access_key", ErrInvalidConfig)
	}

	awsCfg, err := sesConfigs.load(key)
	if err != nil {
		return nil, fmt.Errorf("%w: ses: load aws config: %v", ErrInvalidConfig, err)
	}

	client := sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
		if ep := cfg.Get(KeySESEndpoint); ep != "" {
			o.BaseEndpoint = aws.String(ep)
		}
	})

	return &sesProvider{
		client:    client,
		renderer:  renderer,
		from:      cfg.sender(),
		configSet: cfg.Get(KeySESConfigSet),
		now:       time.Now,
	}, nil
}

func (p *sesProvider) Send(ctx context.Context, payload Payload) error {
	html, err := renderBody(p.renderer, payload)
	if err != nil {
		return err
	}

	input := &sesv2.SendEmailInput{FromEmailAddress: aws.String(p.from)}
	if p.configSet != "" {
		input.ConfigurationSetName = aws.String(p.configSet)
	}
	if payload.ReplyTo != "" {
		input.ReplyToAddresses = []string{payload.ReplyTo}
	}

	input.Destination = &types.Destination{
		ToAddresses:  []string{payload.To},
		CcAddresses:  payload.CC,
		BccAddresses: payload.BCC,
	}

	// Attachments need a raw MIME message; otherwise the simple form is enough.
	if len(payload.Attachments) > 0 {
		raw, err := buildMIME(p.from, payload, html, p.now())
		if err != nil {
			return deliveryError(VendorSES, err)
		}
		input.Content = &types.EmailContent{Raw: &types.RawMessage{Data: raw}}
	} else {
		input.Content = &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(payload.Subject), Charset: aws.String(charsetUTF8)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(html), Charset: aws.String(charsetUTF8)},
				},
			},
		}
	}

	if _, err := p.client.SendEmail(ctx, input); err != nil {
		return deliveryError(VendorSES, err)
	}
	return nil
}

// Verify reads the account sending status.
func (p *sesProvider) Verify(ctx context.Context) error {
	out, err := p.client.GetAccount(ctx, &sesv2.GetAccountInput{})
	if err != nil {
		return deliveryError(VendorSES, err)
	}
	if !out.SendingEnabled {
		return deliveryError(VendorSES, errors.New("sending is disabled for this account"))
	}
	return nil
}

type sesCredentials struct {
	region, access, secret, token string
}

// sesConfigCache keeps one resolved aws.Config per credential set.
type sesConfigCache struct {
	mu      sync.Mutex
	configs map[sesCredentials]aws.Config
}

var sesConfigs = &sesConfigCache{configs: make(map[sesCredentials]aws.Config)}

func (c *sesConfigCache) load(key sesCredentials) (aws.Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cfg, ok := c.configs[key]; ok {
		return cfg, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(key.region)}
	if key.access != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key.access, key.secret, key.token),
		))
	}

	// Credentials are retrieved lazily by the SDK on the first request.
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return aws.Config{}, err
	}
	c.configs[key] = cfg
	return cfg, nil
}
