package trait

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrSchema matches every *SchemaError via errors.Is.
	ErrSchema = errors.New("invalid schema")
)

// ValidationError describes a value rejected by a trait descriptor.
type ValidationError struct {
	// Component is the owning component name, empty when the descriptor was
	// validated outside of a component.
	Component string
	// Trait is the trait name.
	Trait string
	// Value is the offending raw value.
	Value any
	// Reason is a short human-readable explanation, e.g. "invalid boolean".
	Reason string
	// Source identifies where the value came from (file path, "cli", "env").
	Source string
	// Err is the error returned by a custom validator, if any.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid value %s for %s: %s", formatValue(e.Value), e.Path(), e.Reason)
	if e.Source != "" {
		msg += fmt.Sprintf(" (source: %s)", e.Source)
	}
	return msg
}

// Path returns the dotted Component.trait path, or the bare trait name.
func (e *ValidationError) Path() string {
	if e.Component == "" {
		return e.Trait
	}
	return e.Component + "." + e.Trait
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Unwrap returns the custom validator error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SchemaError reports a bad trait or component declaration.
type SchemaError struct {
	Component string
	Trait     string
	Reason    string
	Err       error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	switch {
	case e.Component != "" && e.Trait != "":
		return fmt.Sprintf("schema error for %s.%s: %s", e.Component, e.Trait, e.Reason)
	case e.Component != "":
		return fmt.Sprintf("schema error for %s: %s", e.Component, e.Reason)
	case e.Trait != "":
		return fmt.Sprintf("schema error for trait %s: %s", e.Trait, e.Reason)
	default:
		return "schema error: " + e.Reason
	}
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}
