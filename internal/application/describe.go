package application

import (
	"github.com/eugenenazirov/traitconf/internal/alias"
	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/trait"
)

// EntryKind tells how a help entry is given on the command line.
type EntryKind int

const (
	// KindTrait is a configurable trait reachable only by its full path.
	KindTrait EntryKind = iota
	// KindAlias takes a value token.
	KindAlias
	// KindFlag assigns a fixed value.
	KindFlag
)

func (k EntryKind) String() string {
	switch k {
	case KindAlias:
		return "alias"
	case KindFlag:
		return "flag"
	default:
		return "trait"
	}
}

// HelpEntry describes one settable item.
type HelpEntry struct {
	Kind    EntryKind
	Keys    []string
	Path    component.Path
	Type    string
	Default any
	Help    string
	// Choices lists the allowed values of an enum trait or of the elements
	// of an enum list.
	Choices []string
	// Value is the value a flag assigns.
	Value any
}

// Describe lists aliases, then flags, then every configurable trait under
// its full path. Alias and flag help overrides the trait's own help when set.
func (a *Application) Describe() []HelpEntry {
	var out []HelpEntry
	for _, e := range a.aliases.Entries() {
		out = append(out, a.helpEntry(KindAlias, e))
	}
	for _, e := range a.flags.Entries() {
		out = append(out, a.helpEntry(KindFlag, e))
	}
	for _, ref := range a.AllConfigurableTraits() {
		d := ref.Descriptor
		out = append(out, HelpEntry{
			Kind:    KindTrait,
			Keys:    []string{ref.Path.String()},
			Path:    ref.Path,
			Type:    d.Type().String(),
			Default: d.Default(),
			Help:    d.Help(),
			Choices: choicesOf(d.Type()),
		})
	}
	return out
}

func (a *Application) helpEntry(kind EntryKind, e alias.Entry) HelpEntry {
	entry := HelpEntry{Kind: kind, Keys: e.Keys, Path: e.Path, Help: e.Help, Value: e.Value}
	if d, ok := a.Lookup(e.Path); ok {
		entry.Type = d.Type().String()
		entry.Default = d.Default()
		entry.Choices = choicesOf(d.Type())
		if entry.Help == "" {
			entry.Help = d.Help()
		}
	}
	return entry
}

func choicesOf(t trait.Type) []string {
	if elem, ok := t.Elem(); ok {
		t = elem
	}
	if t.Kind() != trait.KindEnum {
		return nil
	}
	return t.Choices()
}
