package component

import (
	"errors"
	"fmt"

	"github.com/eugenenazirov/traitconf/internal/notify"
	"github.com/eugenenazirov/traitconf/internal/trait"
)

// Observer is called after a trait value changed.
type Observer func(c *Component, trait string, oldValue, newValue any) error

// Component is an instance of a Class holding current trait values.
type Component struct {
	class      *Class
	values     map[string]any
	dispatcher *notify.Dispatcher
}

// Instantiate creates a Component with every trait at its default.
func Instantiate(class *Class) *Component {
	values := make(map[string]any, len(class.traits))
	for _, d := range class.traits {
		values[d.Name()] = d.Default()
	}
	return &Component{
		class:      class,
		values:     values,
		dispatcher: notify.New(),
	}
}

// Name returns the class name.
func (c *Component) Name() string { return c.class.name }

// Class returns the component's class.
func (c *Component) Class() *Class { return c.class }

// Get returns the current value of a trait.
func (c *Component) Get(name string) (any, error) {
	value, ok := c.values[name]
	if !ok {
		return nil, c.unknown(name)
	}
	return trait.Clone(value), nil
}

// Values returns a copy of every current trait value.
func (c *Component) Values() map[string]any {
	out := make(map[string]any, len(c.values))
	for name, value := range c.values {
		out[name] = trait.Clone(value)
	}
	return out
}

// Set validates raw and stores it. See SetFrom.
func (c *Component) Set(name string, raw any) error {
	return c.SetFrom(name, raw, "")
}

// SetFrom validates raw against the trait descriptor and stores it, recording
// source as the change provenance. On a validation failure the previous value
// is kept and a *trait.ValidationError is returned. Observers run only when
// the value actually changes; an observer error is returned after the new
// value has been stored.
func (c *Component) SetFrom(name string, raw any, source string) error {
	d, ok := c.class.Trait(name)
	if !ok {
		return c.unknown(name)
	}

	value, err := d.Validate(raw)
	if err != nil {
		var verr *trait.ValidationError
		if errors.As(err, &verr) {
			verr.Component = c.Name()
			verr.Source = source
		}
		return err
	}

	old := c.values[name]
	if trait.Equal(old, value) {
		return nil
	}
	c.values[name] = value

	return c.dispatcher.Dispatch(notify.Change{
		Component: c.Name(),
		Trait:     name,
		OldValue:  trait.Clone(old),
		NewValue:  trait.Clone(value),
		Source:    source,
	})
}

// Observe registers fn for changes of one trait.
func (c *Component) Observe(name string, fn Observer) (*notify.Subscription, error) {
	if _, ok := c.class.Trait(name); !ok {
		return nil, c.unknown(name)
	}
	return c.dispatcher.Observe(name, c.callback(fn)), nil
}

// ObserveAll registers fn for changes of every trait.
func (c *Component) ObserveAll(fn Observer) *notify.Subscription {
	return c.dispatcher.ObserveAll(c.callback(fn))
}

func (c *Component) callback(fn Observer) notify.Callback {
	return func(change notify.Change) error {
		return fn(c, change.Trait, change.OldValue, change.NewValue)
	}
}

func (c *Component) unknown(name string) error {
	return fmt.Errorf("%w: %s.%s", ErrUnknownTrait, c.Name(), name)
}
