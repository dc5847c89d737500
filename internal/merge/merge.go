package merge

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/trait"
)

// Schema looks up the descriptor behind a trait path.
type Schema interface {
	Lookup(path component.Path) (*trait.Descriptor, bool)
}

// Setting is a resolved value and where it came from.
type Setting struct {
	Value    any
	Source   string
	Priority Priority
}

// Conflict records a value that was overridden by a different value from
// another fragment.
type Conflict struct {
	Path       component.Path
	Winner     Setting
	Overridden Setting
}

// Unrecognized is a fragment entry whose path matches no declared trait.
type Unrecognized struct {
	Path   component.Path
	Source string
}

// Resolved is the merged outcome of a set of fragments. It holds only traits
// that some fragment set; everything else keeps its default.
type Resolved struct {
	settings map[component.Path]Setting
	order    []component.Path

	// Conflicts lists every override of one value by a different one.
	Conflicts []Conflict
	// Unrecognized lists entries that were skipped.
	Unrecognized []Unrecognized
}

// Get returns the resolved setting for a trait.
func (r *Resolved) Get(componentName, traitName string) (Setting, bool) {
	s, ok := r.settings[component.Path{Component: componentName, Trait: traitName}]
	return s, ok
}

// Paths returns the resolved paths in first-seen order.
func (r *Resolved) Paths() []component.Path {
	return slices.Clone(r.order)
}

// Len returns the number of resolved traits.
func (r *Resolved) Len() int {
	return len(r.order)
}

// Values returns the resolved values as a component -> trait -> value map.
func (r *Resolved) Values() map[string]map[string]any {
	out := make(map[string]map[string]any)
	for p, s := range r.settings {
		if out[p.Component] == nil {
			out[p.Component] = make(map[string]any)
		}
		out[p.Component][p.Trait] = trait.Clone(s.Value)
	}
	return out
}

// Merge folds fragments by priority. Fragments are stably sorted, so equal
// priorities keep their given order and the later fragment wins. Every
// proposed value is validated, including ones later overridden; the first
// invalid value aborts the merge with a *trait.ValidationError that names the
// fragment source. Entries for undeclared traits are reported in
// Resolved.Unrecognized, and entries for traits that are not configurable
// are rejected.
func Merge(schema Schema, fragments []*Fragment) (*Resolved, error) {
	ordered := make([]*Fragment, 0, len(fragments))
	for _, f := range fragments {
		if f != nil {
			ordered = append(ordered, f)
		}
	}
	slices.SortStableFunc(ordered, func(a, b *Fragment) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	res := &Resolved{settings: make(map[component.Path]Setting)}
	for _, f := range ordered {
		for _, e := range f.entries {
			p := e.Path()
			source := provenance(f, e)

			d, ok := schema.Lookup(p)
			if !ok {
				res.Unrecognized = append(res.Unrecognized, Unrecognized{Path: p, Source: source})
				continue
			}
			if !d.Configurable() {
				return nil, &trait.ValidationError{
					Component: p.Component,
					Trait:     p.Trait,
					Value:     e.Value,
					Reason:    "trait is not configurable",
					Source:    source,
				}
			}

			value, err := d.Validate(e.Value)
			if err != nil {
				var verr *trait.ValidationError
				if errors.As(err, &verr) {
					verr.Component = p.Component
					verr.Source = source
				}
				return nil, err
			}

			next := Setting{Value: value, Source: source, Priority: f.Priority}
			if prev, seen := res.settings[p]; seen {
				if !trait.Equal(prev.Value, value) {
					res.Conflicts = append(res.Conflicts, Conflict{Path: p, Winner: next, Overridden: prev})
				}
			} else {
				res.order = append(res.order, p)
			}
			res.settings[p] = next
		}
	}
	return res, nil
}

// Apply writes resolved values into components through Component.SetFrom,
// which is what triggers change notifications. Components are visited in the
// given order and traits in declaration order. Every path is checked against
// the components before anything is written. Observer failures do not stop
// the remaining writes; they are joined into the returned error.
func Apply(resolved *Resolved, components []*component.Component) error {
	byName := make(map[string]*component.Component, len(components))
	for _, c := range components {
		byName[c.Name()] = c
	}
	for _, p := range resolved.order {
		c, ok := byName[p.Component]
		if !ok {
			return fmt.Errorf("%w: no component %q for %s", component.ErrUnknownTrait, p.Component, p)
		}
		if _, ok := c.Class().Trait(p.Trait); !ok {
			return fmt.Errorf("%w: %s", component.ErrUnknownTrait, p)
		}
	}

	var errs []error
	for _, c := range components {
		for _, d := range c.Class().Traits() {
			s, ok := resolved.settings[component.Path{Component: c.Name(), Trait: d.Name()}]
			if !ok {
				continue
			}
			if err := c.SetFrom(d.Name(), s.Value, s.Source); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func provenance(f *Fragment, e Entry) string {
	if e.Key == "" {
		return f.Source
	}
	return fmt.Sprintf("%s (%s)", f.Source, e.Key)
}
