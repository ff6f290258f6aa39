package feedback

import "errors"

var (
	ErrInvalidSubmission = errors.New("invalid feedback submission")
	ErrInvalidStatus     = errors.New("invalid feedback status")
	ErrInvalidFilter     = errors.New("invalid feedback filter")
	ErrNotFound          = errors.New("feedback not found")
	ErrStorage           = errors.New("feedback storage failure")
)
