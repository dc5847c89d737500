package main

import (
	"github.com/eugenenazirov/traitconf/internal/application"
	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/trait"
)

var (
	serviceClass = component.MustClass("Service", nil,
		trait.MustNew("enabled", trait.Bool(), trait.WithDefault(false), trait.WithHelp("Enable the service")),
		trait.MustNew("name", trait.String(), trait.WithHelp("Display name")),
	)

	fooClass = component.MustClass("Foo", serviceClass,
		trait.MustNew("enabled", trait.Bool(), trait.WithDefault(false), trait.WithHelp("Enable Foo")),
		trait.MustNew("tags", trait.List(trait.String()), trait.WithHelp("Labels attached to Foo")),
		trait.MustNew("threshold", trait.Float(), trait.WithDefault(0.5), trait.WithRange(0, 1)),
	)

	serverClass = component.MustClass("Server", nil,
		trait.MustNew("port", trait.Int(), trait.WithDefault(8080), trait.WithRange(1, 65535),
			trait.WithHelp("HTTP port for the serve command")),
		trait.MustNew("rate_limit_rps", trait.Float(), trait.WithDefault(25), trait.WithMinimum(0),
			trait.WithHelp("Requests per second allowed (0 disables)")),
		trait.MustNew("rate_limit_burst", trait.Int(), trait.WithDefault(50), trait.WithMinimum(0),
			trait.WithHelp("Burst capacity of the rate limiter")),
		trait.MustNew("request_logging", trait.Bool(), trait.WithDefault(true),
			trait.WithHelp("Emit access logs")),
		trait.MustNew("shutdown_grace_seconds", trait.Float(), trait.WithDefault(10), trait.WithMinimum(0),
			trait.WithHelp("Time allowed for in-flight requests on shutdown")),
	)

	appClass = component.MustClass("App", nil,
		trait.MustNew("dry_run", trait.Bool(), trait.WithDefault(false), trait.WithHelp("Resolve configuration without side effects")),
		trait.MustNew("log_level", trait.Enum("debug", "info", "warn", "error"), trait.WithDefault("info"),
			trait.WithHelp("Minimum log level")),
	)
)

func newApplication() (*application.Application, error) {
	return application.New(appClass,
		application.WithClasses(fooClass, serverClass),
		application.WithAlias("App.dry_run", "", "dry-run"),
		application.WithAlias("App.log_level", "", "log-level"),
		application.WithAlias("Foo.enabled", "Turn Foo on or off", "f", "foo-enabled"),
		application.WithAlias("Foo.tags", "", "tags"),
		application.WithAlias("Server.port", "", "p", "port"),
		application.WithFlag("App.log_level", "debug", "Log everything", "debug"),
		application.WithFlag("App.log_level", "warn", "Log warnings and errors only", "q", "quiet"),
		application.WithFlag("Server.request_logging", false, "Disable access logs", "skip-access-log"),
	)
}
