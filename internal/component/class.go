package component

import (
	"fmt"
	"slices"

	"github.com/eugenenazirov/traitconf/internal/trait"
)

// Class is an immutable set of trait declarations, optionally extending a
// parent class.
type Class struct {
	name   string
	parent *Class
	own    []*trait.Descriptor
	traits []*trait.Descriptor
	index  map[string]int
}

// NewClass declares a class. Duplicate trait names within traits, or a
// redeclaration that narrows an inherited type, yield a *trait.SchemaError.
func NewClass(name string, parent *Class, traits ...*trait.Descriptor) (*Class, error) {
	if !trait.ValidName(name) {
		return nil, &trait.SchemaError{Component: name, Reason: "component name must be a non-empty identifier"}
	}

	seen := make(map[string]struct{}, len(traits))
	for _, d := range traits {
		if d == nil {
			return nil, &trait.SchemaError{Component: name, Reason: "nil trait descriptor"}
		}
		if _, dup := seen[d.Name()]; dup {
			return nil, &trait.SchemaError{Component: name, Trait: d.Name(), Reason: "trait declared more than once"}
		}
		seen[d.Name()] = struct{}{}
	}

	c := &Class{
		name:   name,
		parent: parent,
		own:    slices.Clone(traits),
	}

	collected, err := CollectTraits(c)
	if err != nil {
		return nil, err
	}
	c.traits = collected
	c.index = make(map[string]int, len(collected))
	for i, d := range collected {
		c.index[d.Name()] = i
	}
	return c, nil
}

// MustClass is NewClass that panics on error. Declaration errors are
// programmer errors and are not recoverable.
func MustClass(name string, parent *Class, traits ...*trait.Descriptor) *Class {
	c, err := NewClass(name, parent, traits...)
	if err != nil {
		panic(err)
	}
	return c
}

// CollectTraits walks the inheritance chain from the root ancestor down to c,
// merging parent traits first and letting each class override inherited
// names in place. New names are appended in declaration order.
func CollectTraits(c *Class) ([]*trait.Descriptor, error) {
	var chain []*Class
	for cur := c; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	slices.Reverse(chain)

	var out []*trait.Descriptor
	index := make(map[string]int)
	for _, cls := range chain {
		for _, d := range cls.own {
			i, inherited := index[d.Name()]
			if !inherited {
				index[d.Name()] = len(out)
				out = append(out, d)
				continue
			}
			prev := out[i]
			if !d.Type().Accepts(prev.Type()) {
				return nil, &trait.SchemaError{
					Component: cls.name,
					Trait:     d.Name(),
					Reason:    fmt.Sprintf("redeclaration narrows inherited type %s to %s", prev.Type(), d.Type()),
				}
			}
			out[i] = d
		}
	}
	return out, nil
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Traits returns every trait, inherited ones included, in declaration order.
func (c *Class) Traits() []*trait.Descriptor { return slices.Clone(c.traits) }

// ConfigurableTraits returns the traits external sources may set.
func (c *Class) ConfigurableTraits() []*trait.Descriptor {
	out := make([]*trait.Descriptor, 0, len(c.traits))
	for _, d := range c.traits {
		if d.Configurable() {
			out = append(out, d)
		}
	}
	return out
}

// Trait looks up a trait by name.
func (c *Class) Trait(name string) (*trait.Descriptor, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.traits[i], true
}

// Extends reports whether other is c or one of its ancestors.
func (c *Class) Extends(other *Class) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}
