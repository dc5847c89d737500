package application

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/eugenenazirov/traitconf/internal/alias"
	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/notify"
	"github.com/eugenenazirov/traitconf/internal/trait"
)

// Application is the root component of a process run together with the
// component classes it manages. The class list and tables are fixed by New
// and read-only afterwards; only trait values change.
type Application struct {
	root       *component.Component
	components []*component.Component
	byName     map[string]*component.Component
	aliases    *alias.Table
	flags      *alias.FlagTable
	logger     *zap.Logger
}

// TraitRef pairs a trait path with its descriptor.
type TraitRef struct {
	Path       component.Path
	Descriptor *trait.Descriptor
}

// New declares an application. Class name clashes yield *trait.SchemaError;
// alias and flag declarations fail with *alias.DuplicateAliasError or
// *alias.UnknownPathError. These are authoring errors.
func New(root *component.Class, opts ...Option) (*Application, error) {
	decl := declaration{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&decl)
	}
	if root == nil {
		return nil, &trait.SchemaError{Reason: "application requires a root class"}
	}

	app := &Application{
		byName: make(map[string]*component.Component, len(decl.classes)+1),
		logger: decl.logger,
	}
	app.root = component.Instantiate(root)
	app.components = append(app.components, app.root)
	app.byName[root.Name()] = app.root

	for _, class := range decl.classes {
		if class == nil {
			return nil, &trait.SchemaError{Component: root.Name(), Reason: "nil component class"}
		}
		if _, dup := app.byName[class.Name()]; dup {
			return nil, &trait.SchemaError{Component: class.Name(), Reason: "component class declared more than once"}
		}
		c := component.Instantiate(class)
		app.components = append(app.components, c)
		app.byName[class.Name()] = c
	}

	app.aliases = alias.NewTable(app)
	for _, a := range decl.aliases {
		if err := app.aliases.Register(a.keys, a.path, a.help); err != nil {
			return nil, fmt.Errorf("declare alias %v: %w", a.keys, err)
		}
	}

	app.flags = alias.NewFlagTable(app)
	for _, f := range decl.flags {
		for _, key := range f.keys {
			if entry, err := app.aliases.Lookup(key); err == nil {
				return nil, fmt.Errorf("declare flag %v: %w", f.keys, &alias.DuplicateAliasError{
					Key:      alias.NormalizeKey(key),
					Existing: entry.Path.String(),
				})
			}
		}
		if err := app.flags.Register(f.keys, f.path, f.value, f.help); err != nil {
			return nil, fmt.Errorf("declare flag %v: %w", f.keys, err)
		}
	}

	return app, nil
}

// MustNew is New that panics on error.
func MustNew(root *component.Class, opts ...Option) *Application {
	app, err := New(root, opts...)
	if err != nil {
		panic(err)
	}
	return app
}

// Name returns the root component name.
func (a *Application) Name() string { return a.root.Name() }

// Components returns the root followed by the managed components in
// declaration order.
func (a *Application) Components() []*component.Component {
	out := make([]*component.Component, len(a.components))
	copy(out, a.components)
	return out
}

// Component returns a managed component by name.
func (a *Application) Component(name string) (*component.Component, error) {
	c, ok := a.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return c, nil
}

// Aliases returns the alias table.
func (a *Application) Aliases() *alias.Table { return a.aliases }

// Flags returns the flag table.
func (a *Application) Flags() *alias.FlagTable { return a.flags }

// SetLogger replaces the logger, for hosts that build their logger only after
// the command line has been parsed against the application's tables.
func (a *Application) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a.logger = logger
}

// Lookup returns the descriptor for a trait path.
func (a *Application) Lookup(path component.Path) (*trait.Descriptor, bool) {
	c, ok := a.byName[path.Component]
	if !ok {
		return nil, false
	}
	return c.Class().Trait(path.Trait)
}

// AllConfigurableTraits lists every configurable trait: the root's first,
// then each managed class in declaration order, traits in declaration order.
func (a *Application) AllConfigurableTraits() []TraitRef {
	var out []TraitRef
	for _, c := range a.components {
		for _, d := range c.Class().ConfigurableTraits() {
			out = append(out, TraitRef{
				Path:       component.Path{Component: c.Name(), Trait: d.Name()},
				Descriptor: d,
			})
		}
	}
	return out
}

// Get returns the current value of a trait.
func (a *Application) Get(componentName, traitName string) (any, error) {
	c, err := a.Component(componentName)
	if err != nil {
		return nil, err
	}
	return c.Get(traitName)
}

// Set validates and stores a trait value, notifying observers on change.
func (a *Application) Set(componentName, traitName string, raw any) error {
	c, err := a.Component(componentName)
	if err != nil {
		return err
	}
	return c.Set(traitName, raw)
}

// Observe registers fn for changes of one trait.
func (a *Application) Observe(componentName, traitName string, fn component.Observer) (*notify.Subscription, error) {
	c, err := a.Component(componentName)
	if err != nil {
		return nil, err
	}
	return c.Observe(traitName, fn)
}
