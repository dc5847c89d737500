package application

import (
	"errors"

	"go.uber.org/zap"

	"github.com/eugenenazirov/traitconf/internal/alias"
	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/merge"
)

// Resolution is what an external key refers to.
type Resolution struct {
	Path component.Path
	// Flag is true when the key assigns Value without consuming a value token.
	Flag  bool
	Value any
}

// ResolveKey maps an external key to its target. Aliases are consulted
// first, then flags, then a literal Component.trait path naming a
// configurable trait. Anything else yields *alias.AliasNotFoundError.
func (a *Application) ResolveKey(key string) (Resolution, error) {
	if entry, err := a.aliases.Lookup(key); err == nil {
		return Resolution{Path: entry.Path}, nil
	}
	if entry, err := a.flags.Lookup(key); err == nil {
		return Resolution{Path: entry.Path, Flag: true, Value: entry.Value}, nil
	}
	if p, err := component.ParsePath(alias.NormalizeKey(key)); err == nil {
		if d, ok := a.Lookup(p); ok && d.Configurable() {
			return Resolution{Path: p}, nil
		}
	}
	return Resolution{}, &alias.AliasNotFoundError{Key: key}
}

// Merge combines fragments against the application's traits without touching
// any component. Unrecognized entries are logged as warnings and conflicts
// at info level.
func (a *Application) Merge(fragments ...*merge.Fragment) (*merge.Resolved, error) {
	for _, f := range fragments {
		if f == nil {
			continue
		}
		a.logger.Debug("configuration fragment",
			zap.String("source", f.Source),
			zap.Stringer("priority", f.Priority),
			zap.Int("entries", f.Len()),
		)
	}

	resolved, err := merge.Merge(a, fragments)
	if err != nil {
		return nil, err
	}

	for _, u := range resolved.Unrecognized {
		a.logger.Warn("ignoring unrecognized setting",
			zap.String("path", u.Path.String()),
			zap.String("source", u.Source),
		)
	}
	for _, c := range resolved.Conflicts {
		a.logger.Info("setting overridden",
			zap.String("path", c.Path.String()),
			zap.String("winner", c.Winner.Source),
			zap.String("overridden", c.Overridden.Source),
		)
	}
	return resolved, nil
}

// ResolveAndApply merges fragments and writes the result into the managed
// components. A validation failure leaves every component untouched. Observer
// errors are joined and returned after all writes have been attempted.
func (a *Application) ResolveAndApply(fragments ...*merge.Fragment) error {
	resolved, err := a.Merge(fragments...)
	if err != nil {
		return err
	}
	if err := merge.Apply(resolved, a.components); err != nil {
		if !errors.Is(err, component.ErrUnknownTrait) {
			a.logger.Error("observer failed while applying configuration", zap.Error(err))
		}
		return err
	}
	a.logger.Debug("configuration applied", zap.Int("settings", resolved.Len()))
	return nil
}
