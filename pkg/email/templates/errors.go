package templates

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrRenderFailed     = errors.New("template render failed")
)
