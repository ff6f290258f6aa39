package email

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/feedbackmail/pkg/email/templates"
)

var (
	ErrInvalidPayload       = errors.New("email: invalid payload")
	ErrUnsupportedVendor    = errors.New("email: unsupported vendor")
	ErrMissingConfiguration = errors.New("email: missing vendor configuration")
	ErrInvalidConfig        = errors.New("email: invalid vendor configuration")
	ErrDeliveryFailed       = errors.New("email: delivery failed")
	ErrBatchAborted         = errors.New("email: batch aborted after failure")

	ErrTemplateNotFound = templates.ErrTemplateNotFound
	ErrRenderFailed     = templates.ErrRenderFailed
)

// DeliveryError wraps a transport failure with the vendor that produced it.
// It matches ErrDeliveryFailed with errors.Is.
type DeliveryError struct {
	Vendor string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email: %s delivery failed: %v", e.Vendor, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) Is(target error) bool { return target == ErrDeliveryFailed }

func deliveryError(vendor string, err error) error {
	return &DeliveryError{Vendor: vendor, Err: err}
}

// IsConfigError reports whether err is caused by vendor setup rather than the
// payload or the transport.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrUnsupportedVendor) ||
		errors.Is(err, ErrMissingConfiguration) ||
		errors.Is(err, ErrInvalidConfig)
}
