package config

import (
	"context"

	"github.com/eugenenazirov/traitconf/internal/application"
	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/merge"
)

// Sources lists where configuration comes from for one run.
type Sources struct {
	// Files are read in order; later files win over earlier ones.
	Files []string
	// EnvPrefix enables the environment loader when non-empty.
	EnvPrefix string
	// Args are the pre-split command-line pairs.
	Args []Arg
}

// Load gathers fragments from every source in precedence order:
// environment < files < command line. A file that cannot be read or parsed
// aborts loading. Unresolvable command-line keys are returned as a joined
// error alongside the fragments, which still hold every recognized key.
func Load(ctx context.Context, app *application.Application, src Sources) ([]*merge.Fragment, error) {
	var fragments []*merge.Fragment

	if src.EnvPrefix != "" {
		refs := app.AllConfigurableTraits()
		paths := make([]component.Path, len(refs))
		for i, ref := range refs {
			paths[i] = ref.Path
		}
		fragments = append(fragments, FromEnv(src.EnvPrefix, paths))
	}

	for _, url := range src.Files {
		f, err := LoadFile(ctx, url)
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}

	cli, argErr := FromArgs(app, src.Args)
	fragments = append(fragments, cli)

	return fragments, argErr
}

// Configure loads every source and applies the result to app. Unresolvable
// command-line keys fail the run before anything is applied.
func Configure(ctx context.Context, app *application.Application, src Sources) error {
	fragments, err := Load(ctx, app, src)
	if err != nil {
		return err
	}
	return app.ResolveAndApply(fragments...)
}
