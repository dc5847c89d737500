// Package alias maps external command-line keys onto Component.trait paths.
//
// An entry is keyed by a tuple of equivalent keys (for example "f" and
// "foo-enabled"), so help text and collision checks are singular per logical
// setting. Aliases take a value token; flags assign a fixed value.
package alias

import (
	"fmt"
	"slices"
	"strings"

	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/trait"
)

// Resolver looks up the descriptor behind a trait path.
type Resolver interface {
	Lookup(path component.Path) (*trait.Descriptor, bool)
}

// Entry is one logical setting in a table.
type Entry struct {
	// Keys are the equivalent external keys, without leading dashes.
	Keys []string
	// Path is the target trait.
	Path component.Path
	// Help overrides the trait help when non-empty.
	Help string
	// Value is the canonical value a flag assigns. Nil for aliases.
	Value any
}

type table struct {
	resolver Resolver
	entries  []*Entry
	byKey    map[string]*Entry
}

func newTable(resolver Resolver) table {
	return table{
		resolver: resolver,
		byKey:    make(map[string]*Entry),
	}
}

// Resolve returns the path mapped to key. Leading dashes are ignored.
func (t *table) Resolve(key string) (component.Path, error) {
	entry, err := t.Lookup(key)
	if err != nil {
		return component.Path{}, err
	}
	return entry.Path, nil
}

// Lookup returns a copy of the entry registered under key.
func (t *table) Lookup(key string) (Entry, error) {
	entry, ok := t.byKey[NormalizeKey(key)]
	if !ok {
		return Entry{}, &AliasNotFoundError{Key: key}
	}
	return copyEntry(entry), nil
}

// Has reports whether key is registered.
func (t *table) Has(key string) bool {
	_, ok := t.byKey[NormalizeKey(key)]
	return ok
}

// Entries returns copies of all entries in registration order.
func (t *table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = copyEntry(e)
	}
	return out
}

// Len returns the number of logical entries.
func (t *table) Len() int {
	return len(t.entries)
}

// prepare validates keys and path and returns the normalized keys and the
// target descriptor. Nothing is inserted until every check passes.
func (t *table) prepare(keys []string, path string) ([]string, component.Path, *trait.Descriptor, error) {
	if len(keys) == 0 {
		return nil, component.Path{}, nil, fmt.Errorf("%w: no keys given for %s", ErrInvalidKey, path)
	}

	normalized := make([]string, 0, len(keys))
	for _, key := range keys {
		k := NormalizeKey(key)
		if k == "" || strings.ContainsAny(k, "= \t") {
			return nil, component.Path{}, nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
		if existing, ok := t.byKey[k]; ok {
			return nil, component.Path{}, nil, &DuplicateAliasError{Key: k, Existing: existing.Path.String()}
		}
		if slices.Contains(normalized, k) {
			return nil, component.Path{}, nil, &DuplicateAliasError{Key: k, Existing: path}
		}
		normalized = append(normalized, k)
	}

	p, err := component.ParsePath(path)
	if err != nil {
		return nil, component.Path{}, nil, &UnknownPathError{Path: path, Reason: "expected Component.trait"}
	}
	d, ok := t.resolver.Lookup(p)
	if !ok {
		return nil, component.Path{}, nil, &UnknownPathError{Path: path}
	}
	if !d.Configurable() {
		return nil, component.Path{}, nil, &UnknownPathError{Path: path, Reason: "trait is not configurable"}
	}
	return normalized, p, d, nil
}

func (t *table) insert(entry *Entry) {
	t.entries = append(t.entries, entry)
	for _, k := range entry.Keys {
		t.byKey[k] = entry
	}
}

// Table holds aliases: keys that take a value token.
type Table struct {
	table
}

// NewTable creates an alias table whose paths are checked against resolver.
func NewTable(resolver Resolver) *Table {
	return &Table{table: newTable(resolver)}
}

// Register maps keys to path with optional help. It fails with
// *DuplicateAliasError if any key is taken and *UnknownPathError if path
// does not resolve to a configurable trait.
func (t *Table) Register(keys []string, path, help string) error {
	normalized, p, _, err := t.prepare(keys, path)
	if err != nil {
		return err
	}
	t.insert(&Entry{Keys: normalized, Path: p, Help: help})
	return nil
}

// FlagTable holds flags: keys that assign a fixed value without a value token.
type FlagTable struct {
	table
}

// NewFlagTable creates a flag table whose paths are checked against resolver.
func NewFlagTable(resolver Resolver) *FlagTable {
	return &FlagTable{table: newTable(resolver)}
}

// Register maps keys to path, assigning value when the flag is given. The
// value must validate against the target trait.
func (f *FlagTable) Register(keys []string, path string, value any, help string) error {
	normalized, p, d, err := f.prepare(keys, path)
	if err != nil {
		return err
	}
	canonical, err := d.Validate(value)
	if err != nil {
		return &trait.SchemaError{Component: p.Component, Trait: p.Trait, Reason: "flag value does not validate", Err: err}
	}
	f.insert(&Entry{Keys: normalized, Path: p, Help: help, Value: canonical})
	return nil
}

// NormalizeKey strips surrounding whitespace and leading dashes.
func NormalizeKey(key string) string {
	return strings.TrimLeft(strings.TrimSpace(key), "-")
}

func copyEntry(e *Entry) Entry {
	out := *e
	out.Keys = slices.Clone(e.Keys)
	out.Value = trait.Clone(e.Value)
	return out
}
