package config

import (
	"os"
	"strings"

	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/merge"
)

// DefaultEnvPrefix is the environment prefix used by the traitconf host.
const DefaultEnvPrefix = "TRAITCONF"

// EnvName returns the variable that sets path, e.g. TRAITCONF_FOO_ENABLED.
func EnvName(prefix string, p component.Path) string {
	name := p.Component + "_" + p.Trait
	if prefix != "" {
		name = prefix + "_" + name
	}
	return strings.ToUpper(name)
}

// FromEnv builds an environment-priority fragment from the variables that
// name one of paths. Empty values are ignored.
func FromEnv(prefix string, paths []component.Path) *merge.Fragment {
	f := merge.NewFragment("environment", merge.PriorityEnv)
	for _, p := range paths {
		name := EnvName(prefix, p)
		value, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		f.SetKey(p.Component, p.Trait, value, name)
	}
	return f
}
