package trait

import (
	"fmt"
	"math"
)

// Validator is an extra rule run after a value has been coerced to its
// declared type. It receives the canonical value.
type Validator func(value any) error

// Descriptor declares a single trait. It is immutable once built.
type Descriptor struct {
	name         string
	typ          Type
	def          any
	hasDefault   bool
	validator    Validator
	help         string
	configurable bool
	min, max     *float64
}

// Option configures a Descriptor during New.
type Option func(*Descriptor)

// WithDefault sets the default value. It is coerced and validated by New.
func WithDefault(value any) Option {
	return func(d *Descriptor) {
		d.def = value
		d.hasDefault = true
	}
}

// WithValidator attaches a custom validation rule.
func WithValidator(fn Validator) Option {
	return func(d *Descriptor) {
		d.validator = fn
	}
}

// WithHelp sets the help text shown by describe output.
func WithHelp(help string) Option {
	return func(d *Descriptor) {
		d.help = help
	}
}

// WithRange bounds numeric traits to [min, max] inclusive.
func WithRange(min, max float64) Option {
	return func(d *Descriptor) {
		d.min = &min
		d.max = &max
	}
}

// WithMinimum bounds numeric traits from below.
func WithMinimum(min float64) Option {
	return func(d *Descriptor) {
		d.min = &min
	}
}

// NotConfigurable hides the trait from external sources. It can still be set
// programmatically.
func NotConfigurable() Option {
	return func(d *Descriptor) {
		d.configurable = false
	}
}

// New declares a trait. Declarations are checked eagerly: an invalid name or
// type, or a default that fails its own validation, yields a *SchemaError.
func New(name string, typ Type, opts ...Option) (*Descriptor, error) {
	d := &Descriptor{
		name:         name,
		typ:          typ,
		configurable: true,
	}
	for _, opt := range opts {
		opt(d)
	}

	if !ValidName(name) {
		return nil, &SchemaError{Trait: name, Reason: "trait name must be a non-empty identifier"}
	}
	if !typ.valid() {
		return nil, &SchemaError{Trait: name, Reason: fmt.Sprintf("invalid type %s", typ)}
	}
	if (d.min != nil || d.max != nil) && typ.kind != KindInt && typ.kind != KindFloat {
		return nil, &SchemaError{Trait: name, Reason: "range constraints require a numeric type"}
	}
	if d.min != nil && d.max != nil && *d.min > *d.max {
		return nil, &SchemaError{Trait: name, Reason: "minimum exceeds maximum"}
	}

	if d.hasDefault {
		value, err := d.Validate(d.def)
		if err != nil {
			return nil, &SchemaError{Trait: name, Reason: "default value does not validate", Err: err}
		}
		d.def = value
	} else {
		value, ok := d.zero()
		if !ok {
			return nil, &SchemaError{Trait: name, Reason: "no default declared and no integer lies within the range"}
		}
		d.def = value
	}

	return d, nil
}

// zero is the type's zero value moved into the declared range, so a trait
// without a default still holds a value of its own type.
func (d *Descriptor) zero() (any, bool) {
	switch d.typ.kind {
	case KindInt:
		n := 0.0
		if d.min != nil && n < *d.min {
			n = math.Ceil(*d.min)
		}
		if d.max != nil && n > *d.max {
			n = math.Floor(*d.max)
		}
		if (d.min != nil && n < *d.min) || (d.max != nil && n > *d.max) {
			return nil, false
		}
		return int64(n), true
	case KindFloat:
		n := 0.0
		if d.min != nil && n < *d.min {
			n = *d.min
		}
		if d.max != nil && n > *d.max {
			n = *d.max
		}
		return n, true
	default:
		return d.typ.Zero(), true
	}
}

// MustNew is New that panics on error, for package-level declarations.
func MustNew(name string, typ Type, opts ...Option) *Descriptor {
	d, err := New(name, typ, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Name returns the trait name.
func (d *Descriptor) Name() string { return d.name }

// Type returns the declared type.
func (d *Descriptor) Type() Type { return d.typ }

// Default returns the canonical default value. Without a declared default it
// is the type's zero value, raised or lowered into the declared range.
func (d *Descriptor) Default() any { return Clone(d.def) }

// HasDefault reports whether a default was declared explicitly.
func (d *Descriptor) HasDefault() bool { return d.hasDefault }

// Help returns the help text.
func (d *Descriptor) Help() string { return d.help }

// Configurable reports whether external sources may set the trait.
func (d *Descriptor) Configurable() bool { return d.configurable }

// Validate coerces raw to the declared type, applies range constraints and
// then the custom validator. The returned error is a *ValidationError with
// Trait set; callers fill in Component and Source.
func (d *Descriptor) Validate(raw any) (any, error) {
	value, reason := d.typ.coerce(raw)
	if reason != "" {
		return nil, &ValidationError{Trait: d.name, Value: raw, Reason: reason}
	}

	if n, ok := numericValue(value); ok {
		if (d.min != nil && n < *d.min) || (d.max != nil && n > *d.max) {
			return nil, &ValidationError{Trait: d.name, Value: raw, Reason: d.rangeReason()}
		}
	}

	if d.validator != nil {
		if err := d.validator(value); err != nil {
			return nil, &ValidationError{Trait: d.name, Value: raw, Reason: err.Error(), Err: err}
		}
	}
	return value, nil
}

func (d *Descriptor) rangeReason() string {
	switch {
	case d.min != nil && d.max != nil:
		return fmt.Sprintf("%s (expected between %v and %v)", reasonOutOfRange, *d.min, *d.max)
	case d.min != nil:
		return fmt.Sprintf("%s (expected >= %v)", reasonOutOfRange, *d.min)
	default:
		return fmt.Sprintf("%s (expected <= %v)", reasonOutOfRange, *d.max)
	}
}

// ValidName reports whether name is usable as a trait or component name:
// an ASCII identifier that does not start with a digit.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
