// Package logging builds the process logger.
package logging

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Output encodings.
const (
	FormatAuto    = "auto"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Options tune the logger. The zero value logs JSON at info level, or
// console lines when stderr is a terminal.
type Options struct {
	Level  string
	Format string
}

// New creates a structured logger and the level handle that controls it.
func New(opts Options) (*zap.Logger, zap.AtomicLevel, error) {
	level := zap.NewAtomicLevel()
	if opts.Level != "" {
		if err := SetLevel(level, opts.Level); err != nil {
			return nil, level, err
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = encoding(opts.Format)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	if cfg.Encoding == FormatConsole {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, level, fmt.Errorf("build logger: %w", err)
	}
	return logger, level, nil
}

// SetLevel changes level to the named one ("debug", "info", "warn", "error").
func SetLevel(level zap.AtomicLevel, name string) error {
	l, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	level.SetLevel(l)
	return nil
}

func encoding(format string) string {
	switch format {
	case FormatJSON, FormatConsole:
		return format
	}
	fd := os.Stderr.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatConsole
	}
	return FormatJSON
}
