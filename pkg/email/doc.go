// Package email dispatches templated messages through pluggable vendors.
//
// A Registry maps case-insensitive vendor ids to Constructor functions and
// per-vendor ProviderConfig settings. NewRegistry registers the resend and
// smtp vendors; RegisterBuiltins adds postmark, sendgrid, ses and file (a
// development vendor writing messages to disk). Any other vendor can be added
// with Register before the service starts handling traffic.
//
//	renderer := templates.New(os.DirFS("templates"))
//	reg := email.NewRegistry(renderer)
//	email.RegisterBuiltins(reg)
//	reg.SetConfig(email.VendorSMTP, email.ProviderConfig{
//		"host": "smtp.example.com", "port": "587", "from": "noreply@example.com",
//	})
//
//	svc := email.NewService(reg, email.WithLogger(log))
//	err := svc.SendOne(ctx, email.Payload{
//		To:           "ana@example.com",
//		Subject:      "Thanks",
//		TemplatePath: "feedback/submitter-confirmation.html",
//		Vendor:       "smtp",
//		Variables:    map[string]any{"firstName": "Ana"},
//	})
//
// Every provider renders the payload template itself and forwards cc, bcc,
// reply-to and attachments in its vendor's format.
//
// # Batches
//
// SendBatch partitions payloads into waves of at most WithMaxConcurrency
// messages (5 by default). A wave is sent concurrently and fully awaited
// before the next one starts. BatchOutcome always satisfies
// Successful+Failed+Skipped == len(payloads).
//
// # Errors
//
// Validation failures wrap ErrInvalidPayload and validator.ValidationErrors.
// Setup problems wrap ErrUnsupportedVendor, ErrMissingConfiguration or
// ErrInvalidConfig (see IsConfigError). Template problems wrap
// ErrTemplateNotFound or ErrRenderFailed. Transport failures are returned as
// *DeliveryError and match ErrDeliveryFailed.
package email
