package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/traitconf/internal/application"
	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/config"
	"github.com/eugenenazirov/traitconf/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "traitconf: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	app, err := newApplication()
	if err != nil {
		return fmt.Errorf("declare application: %w", err)
	}

	rec := &argRecorder{}
	cli := kingpin.New("traitconf", "Typed configuration engine demo: resolves traits from defaults, environment, files and flags")
	cli.UsageWriter(stdout)
	configFiles := cli.Flag("config", "Configuration file path or URL (YAML, JSON, TOML or HCL); repeatable, later files win").Strings()
	envPrefix := cli.Flag("env-prefix", "Prefix of environment variables; empty disables them").Default(config.DefaultEnvPrefix).String()
	logFormat := cli.Flag("log-format", "Log encoding").Default(logging.FormatAuto).Enum(logging.FormatAuto, logging.FormatJSON, logging.FormatConsole)
	cli.Flag("set", "Assign Component.trait=value directly; repeatable").PlaceHolder("COMPONENT.TRAIT=VALUE").SetValue(&assignment{rec: rec})
	registerTraitFlags(cli, app, rec)

	showCmd := cli.Command("show", "Print resolved trait values").Default()
	describeCmd := cli.Command("describe", "List every option and trait that can be set")
	serveCmd := cli.Command("serve", "Serve trait inspection over HTTP")

	command, err := cli.Parse(args)
	if err != nil {
		return err
	}

	logger, level, err := logging.New(logging.Options{Format: *logFormat})
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()
	app.SetLogger(logger)

	if _, err := app.Observe("App", "log_level", func(_ *component.Component, _ string, _, newValue any) error {
		name, _ := newValue.(string)
		return logging.SetLevel(level, name)
	}); err != nil {
		return err
	}

	err = config.Configure(ctx, app, config.Sources{
		Files:     *configFiles,
		EnvPrefix: *envPrefix,
		Args:      rec.args,
	})
	if err != nil {
		return fmt.Errorf("resolve configuration: %w", err)
	}

	switch command {
	case showCmd.FullCommand():
		_, err = fmt.Fprintln(stdout, renderValues(app))
	case describeCmd.FullCommand():
		_, err = fmt.Fprintln(stdout, renderDescribe(app.Describe()))
	case serveCmd.FullCommand():
		if dryRun(app) {
			logger.Info("dry run: not starting server")
			return nil
		}
		err = serve(app, logger)
	default:
		err = errors.New("unknown command " + command)
	}
	return err
}

func dryRun(app *application.Application) bool {
	v, err := app.Get("App", "dry_run")
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
