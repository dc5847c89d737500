package config

import "errors"

var (
	// ErrMissingValue is returned when an alias is given without a value.
	ErrMissingValue = errors.New("missing value")
	// ErrUnsupportedFormat is returned for configuration files whose format
	// cannot be determined from the extension.
	ErrUnsupportedFormat = errors.New("unsupported configuration format")
	// ErrMalformed is returned when a configuration document is not a table
	// of component tables.
	ErrMalformed = errors.New("malformed configuration document")
)
