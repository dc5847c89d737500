package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eugenenazirov/traitconf/internal/alias"
	"github.com/eugenenazirov/traitconf/internal/application"
	"github.com/eugenenazirov/traitconf/internal/merge"
)

// CommandLineSource labels the command-line fragment.
const CommandLineSource = "command-line"

// Arg is one pre-split command-line pair. HasValue distinguishes "--x" from
// "--x=".
type Arg struct {
	Key      string
	Value    string
	HasValue bool
}

// ParseAssignment splits "Component.trait=value" as given to --set.
func ParseAssignment(s string) (Arg, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return Arg{}, fmt.Errorf("%w: expected key=value, got %q", ErrMissingValue, s)
	}
	return Arg{Key: key, Value: value, HasValue: true}, nil
}

// FromArgs resolves args through the application's alias and flag tables and
// returns a command-line fragment. Aliases require a value. Flags assign
// their fixed value unless one is given explicitly. Keys that do not resolve
// are reported in the joined error while the remaining keys are still
// collected; a later occurrence of the same trait wins.
func FromArgs(app *application.Application, args []Arg) (*merge.Fragment, error) {
	f := merge.NewFragment(CommandLineSource, merge.PriorityCLI)

	var errs []error
	for _, arg := range args {
		res, err := app.ResolveKey(arg.Key)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		key := alias.NormalizeKey(arg.Key)
		switch {
		case arg.HasValue:
			f.SetKey(res.Path.Component, res.Path.Trait, arg.Value, key)
		case res.Flag:
			f.SetKey(res.Path.Component, res.Path.Trait, res.Value, key)
		default:
			errs = append(errs, fmt.Errorf("%w for option %q", ErrMissingValue, key))
		}
	}
	return f, errors.Join(errs...)
}
