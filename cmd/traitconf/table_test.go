package main

import (
	"strings"
	"testing"

	"github.com/eugenenazirov/traitconf/internal/application"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: nil, want: ""},
		{in: "info", want: `"info"`},
		{in: int64(3), want: "3"},
		{in: 0.5, want: "0.5"},
		{in: true, want: "true"},
		{in: []any{"a", int64(1)}, want: `["a", 1]`},
		{in: []any{}, want: "[]"},
	}
	for _, tc := range tests {
		if got := formatValue(tc.in); got != tc.want {
			t.Fatalf("formatValue(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOptionName(t *testing.T) {
	if got := optionName(application.KindAlias, "f"); got != "-f" {
		t.Fatalf("unexpected short option %q", got)
	}
	if got := optionName(application.KindFlag, "quiet"); got != "--quiet" {
		t.Fatalf("unexpected long option %q", got)
	}
	if got := optionName(application.KindTrait, "Foo.tags"); got != "--set Foo.tags=..." {
		t.Fatalf("unexpected trait option %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	if renderTable(nil, nil) != "" {
		t.Fatalf("expected empty output without headers")
	}
	out := renderTable([]string{"A", "B"}, [][]string{{"1"}, {"2", "3"}})
	for _, want := range []string{"A", "B", "1", "2", "3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}
