package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/traitconf/internal/alias"
	"github.com/eugenenazirov/traitconf/internal/trait"
)

const testEnvPrefix = "--env-prefix=TRAITCONF_TEST"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), append([]string{"--log-format=json", testEnvPrefix}, args...), &out)
	return out.String(), err
}

func assertRow(t *testing.T, out, path, value string) {
	t.Helper()
	pattern := regexp.QuoteMeta(path) + `\s*│\s*\S+\s*│\s*` + regexp.QuoteMeta(value) + `\s*│`
	if !regexp.MustCompile(pattern).MatchString(out) {
		t.Fatalf("expected %s = %s in output:\n%s", path, value, out)
	}
}

func TestRunShowDefaults(t *testing.T) {
	out, err := runCLI(t)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	assertRow(t, out, "App.dry_run", "false")
	assertRow(t, out, "App.log_level", `"info"`)
	assertRow(t, out, "Server.port", "8080")
	assertRow(t, out, "Foo.threshold", "0.5")
	if !strings.Contains(out, "Foo.name") {
		t.Fatalf("expected inherited trait Foo.name in output:\n%s", out)
	}
}

func TestRunShowAppliesFlags(t *testing.T) {
	out, err := runCLI(t, "show", "--dry-run", "true", "-f", "true", "-q", "--port=9000")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	assertRow(t, out, "App.dry_run", "true")
	assertRow(t, out, "Foo.enabled", "true")
	assertRow(t, out, "App.log_level", `"warn"`)
	assertRow(t, out, "Server.port", "9000")
}

func TestRunLastOccurrenceWins(t *testing.T) {
	out, err := runCLI(t, "--debug", "--log-level", "error", "--set", "Foo.enabled=yes", "--foo-enabled=no")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	assertRow(t, out, "App.log_level", `"error"`)
	assertRow(t, out, "Foo.enabled", "false")
}

func TestRunPrecedence(t *testing.T) {
	t.Setenv("TRAITCONF_TEST_SERVER_PORT", "9001")
	t.Setenv("TRAITCONF_TEST_FOO_TAGS", "x, y")

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "base.yaml")
	if err := os.WriteFile(yamlPath, []byte("Foo:\n  tags: [a, b]\n  threshold: 0.75\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	tomlPath := filepath.Join(dir, "override.toml")
	if err := os.WriteFile(tomlPath, []byte("[Foo]\nthreshold = 0.25\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCLI(t, "--config", yamlPath, "--config", tomlPath)
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	assertRow(t, out, "Server.port", "9001")
	assertRow(t, out, "Foo.tags", `["a", "b"]`)
	assertRow(t, out, "Foo.threshold", "0.25")

	out, err = runCLI(t, "--config", yamlPath, "-p", "9002", "--set", "Foo.tags=c")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	assertRow(t, out, "Server.port", "9002")
	assertRow(t, out, "Foo.tags", `["c"]`)
}

func TestRunRejectsInvalidValue(t *testing.T) {
	_, err := runCLI(t, "--port", "70000")
	if !errors.Is(err, trait.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var verr *trait.ValidationError
	if !errors.As(err, &verr) || verr.Path() != "Server.port" || verr.Source != "command-line (port)" {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestRunRejectsUnknownSetKey(t *testing.T) {
	_, err := runCLI(t, "--set", "Foo.bogus=1")
	if !errors.Is(err, alias.ErrAliasNotFound) {
		t.Fatalf("expected alias not found, got %v", err)
	}

	if _, err := runCLI(t, "--set", "Foo.enabled"); err == nil {
		t.Fatalf("expected error for assignment without value")
	}
	if _, err := runCLI(t, "--unknown-flag"); err == nil {
		t.Fatalf("expected kingpin to reject unknown flag")
	}
}

func TestRunDescribe(t *testing.T) {
	out, err := runCLI(t, "describe")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	for _, want := range []string{
		"-f, --foo-enabled",
		"Turn Foo on or off",
		`sets "debug"`,
		"--skip-access-log",
		"--set Foo.threshold=...",
		"float",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in describe output:\n%s", want, out)
		}
	}
}

func TestRunServeDryRun(t *testing.T) {
	done := make(chan error, 1)
	go func() {
		_, err := runCLI(t, "serve", "--dry-run=true")
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("expected dry run to return without serving")
	}
}

func TestNewServerUsesServerTraits(t *testing.T) {
	app, err := newApplication()
	if err != nil {
		t.Fatalf("newApplication returned error: %v", err)
	}
	if err := app.Set("Server", "port", 9100); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	settings, err := readServerSettings(app)
	if err != nil {
		t.Fatalf("readServerSettings returned error: %v", err)
	}
	if settings.shutdownGrace != 10*time.Second || settings.rateLimitBurst != 50 || !settings.requestLogging {
		t.Fatalf("unexpected settings %+v", settings)
	}

	server := newServer(app, settings, zaptest.NewLogger(t))
	if server.Addr != ":9100" {
		t.Fatalf("expected addr :9100, got %s", server.Addr)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/traits/Server/port", nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "9100") {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}
