package config

import "errors"

var (
	// ErrParsingConfig is returned when a source cannot be parsed into the config struct.
	ErrParsingConfig = errors.New("failed to parse configuration")

	// ErrNilPointer is returned when a nil pointer is provided to a loader.
	ErrNilPointer = errors.New("nil pointer provided to config loader")

	// ErrReadingFile is returned when a configuration file cannot be read.
	ErrReadingFile = errors.New("failed to read configuration file")

	// ErrUnsupportedFormat is returned for configuration files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported configuration file format")
)
