package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	logger, level, err := New(Options{Format: FormatJSON})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger == nil {
		t.Fatalf("expected logger instance")
	}
	if level.Level() != zapcore.InfoLevel {
		t.Fatalf("expected info level, got %s", level.Level())
	}
	_ = logger.Sync()
}

func TestNewLevel(t *testing.T) {
	logger, level, err := New(Options{Level: "debug", Format: FormatConsole})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug to be enabled")
	}

	if err := SetLevel(level, "warn"); err != nil {
		t.Fatalf("SetLevel returned error: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info to be disabled after raising the level")
	}
	_ = logger.Sync()
}

func TestNewInvalidLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestEncoding(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{format: FormatJSON, want: FormatJSON},
		{format: FormatConsole, want: FormatConsole},
	}
	for _, tc := range tests {
		if got := encoding(tc.format); got != tc.want {
			t.Fatalf("encoding(%q) = %q, want %q", tc.format, got, tc.want)
		}
	}
	if got := encoding(FormatAuto); got != FormatJSON && got != FormatConsole {
		t.Fatalf("unexpected auto encoding %q", got)
	}
}
