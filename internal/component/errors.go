package component

import "errors"

var (
	// ErrUnknownTrait is returned when a trait name is not declared on a class.
	ErrUnknownTrait = errors.New("unknown trait")
	// ErrInvalidPath is returned by ParsePath for malformed Component.trait paths.
	ErrInvalidPath = errors.New("invalid trait path")
)
