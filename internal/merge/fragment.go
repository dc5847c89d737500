// Package merge folds prioritized configuration fragments into one resolved
// set of trait values and writes that set into components.
//
// Precedence, lowest to highest: trait defaults, environment, config files in
// load order, command line. Fragments of equal priority are applied in the
// order they are given, so the later one wins.
package merge

import (
	"sort"

	"github.com/eugenenazirov/traitconf/internal/component"
)

// Priority ranks a fragment. Higher priorities override lower ones.
type Priority int

// Standard priorities.
const (
	PriorityDefault Priority = 0
	PriorityEnv     Priority = 50
	PriorityFile    Priority = 100
	PriorityCLI     Priority = 200
)

// String returns the standard name of a priority.
func (p Priority) String() string {
	switch p {
	case PriorityDefault:
		return "default"
	case PriorityEnv:
		return "environment"
	case PriorityFile:
		return "file"
	case PriorityCLI:
		return "command-line"
	default:
		return "custom"
	}
}

// Entry is a single proposed value inside a fragment.
type Entry struct {
	Component string
	Trait     string
	Value     any
	// Key is the external key that produced the entry, if any.
	Key string
}

// Path returns the entry's trait path.
func (e Entry) Path() component.Path {
	return component.Path{Component: e.Component, Trait: e.Trait}
}

// Fragment is an ordered batch of proposed values from one source.
type Fragment struct {
	// Source labels where the values came from, e.g. a file path or "cli".
	Source   string
	Priority Priority

	entries []Entry
	index   map[component.Path]int
}

// NewFragment creates an empty fragment.
func NewFragment(source string, priority Priority) *Fragment {
	return &Fragment{
		Source:   source,
		Priority: priority,
		index:    make(map[component.Path]int),
	}
}

// FromMap builds a fragment from a nested component -> trait -> value map.
// Map iteration order is not stable, so entries are added in sorted order.
func FromMap(source string, priority Priority, values map[string]map[string]any) *Fragment {
	f := NewFragment(source, priority)
	components := make([]string, 0, len(values))
	for name := range values {
		components = append(components, name)
	}
	sort.Strings(components)

	for _, comp := range components {
		traits := make([]string, 0, len(values[comp]))
		for name := range values[comp] {
			traits = append(traits, name)
		}
		sort.Strings(traits)
		for _, name := range traits {
			f.Set(comp, name, values[comp][name])
		}
	}
	return f
}

// Set proposes a value. Setting the same trait twice keeps both entries and
// the later one wins, so Merge reports the override as a conflict.
func (f *Fragment) Set(componentName, traitName string, value any) {
	f.SetKey(componentName, traitName, value, "")
}

// SetKey is Set that also records the external key the value came from.
func (f *Fragment) SetKey(componentName, traitName string, value any, key string) {
	entry := Entry{Component: componentName, Trait: traitName, Value: value, Key: key}
	if f.index == nil {
		f.index = make(map[component.Path]int)
	}
	f.index[entry.Path()] = len(f.entries)
	f.entries = append(f.entries, entry)
}

// Get returns the last proposed value for a trait.
func (f *Fragment) Get(componentName, traitName string) (any, bool) {
	i, ok := f.index[component.Path{Component: componentName, Trait: traitName}]
	if !ok {
		return nil, false
	}
	return f.entries[i].Value, true
}

// Entries returns every proposed value in insertion order, repeats included.
func (f *Fragment) Entries() []Entry {
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Len returns the number of proposed values, repeats included.
func (f *Fragment) Len() int {
	return len(f.entries)
}
