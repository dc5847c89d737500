package application

import (
	"go.uber.org/zap"

	"github.com/eugenenazirov/traitconf/internal/component"
)

// Option configures an Application declaration.
type Option func(*declaration)

type aliasDecl struct {
	keys []string
	path string
	help string
}

type flagDecl struct {
	keys  []string
	path  string
	value any
	help  string
}

type declaration struct {
	classes []*component.Class
	aliases []aliasDecl
	flags   []flagDecl
	logger  *zap.Logger
}

// WithClasses adds managed component classes, in order.
func WithClasses(classes ...*component.Class) Option {
	return func(d *declaration) {
		d.classes = append(d.classes, classes...)
	}
}

// WithAlias maps one or more equivalent keys to a Component.trait path. A
// non-empty help overrides the trait's own help text in Describe.
func WithAlias(path, help string, keys ...string) Option {
	return func(d *declaration) {
		d.aliases = append(d.aliases, aliasDecl{keys: keys, path: path, help: help})
	}
}

// WithFlag maps keys to a toggle that assigns value to path.
func WithFlag(path string, value any, help string, keys ...string) Option {
	return func(d *declaration) {
		d.flags = append(d.flags, flagDecl{keys: keys, path: path, value: value, help: help})
	}
}

// WithLogger sets the logger used while resolving configuration.
func WithLogger(logger *zap.Logger) Option {
	return func(d *declaration) {
		d.logger = logger
	}
}
