package merge

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/trait"
)

var (
	fooClass = component.MustClass("Foo", nil,
		trait.MustNew("enabled", trait.Bool()),
		trait.MustNew("count", trait.Int(), trait.WithDefault(1)),
		trait.MustNew("token", trait.String(), trait.NotConfigurable()),
	)
	appClass = component.MustClass("App", nil,
		trait.MustNew("dry_run", trait.Bool()),
		trait.MustNew("name", trait.String(), trait.WithDefault("app")),
	)
)

type schema []*component.Class

func (s schema) Lookup(p component.Path) (*trait.Descriptor, bool) {
	for _, c := range s {
		if c.Name() == p.Component {
			return c.Trait(p.Trait)
		}
	}
	return nil, false
}

var testSchema = schema{appClass, fooClass}

func mustMerge(t *testing.T, fragments ...*Fragment) *Resolved {
	t.Helper()
	res, err := Merge(testSchema, fragments)
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	return res
}

func TestMergeHigherPriorityWinsRegardlessOfOrder(t *testing.T) {
	file := FromMap("config.yaml", PriorityFile, map[string]map[string]any{"Foo": {"count": 5}})
	cli := FromMap("cli", PriorityCLI, map[string]map[string]any{"Foo": {"count": "9"}})

	for _, order := range [][]*Fragment{{file, cli}, {cli, file}} {
		res := mustMerge(t, order...)
		got, ok := res.Get("Foo", "count")
		if !ok {
			t.Fatalf("expected Foo.count to be resolved")
		}
		if got.Value != int64(9) || got.Source != "cli" || got.Priority != PriorityCLI {
			t.Fatalf("expected cli value 9 to win, got %+v", got)
		}
	}
}

func TestMergeEqualPriorityLaterWins(t *testing.T) {
	first := FromMap("a.yaml", PriorityFile, map[string]map[string]any{"App": {"name": "first"}})
	second := FromMap("b.yaml", PriorityFile, map[string]map[string]any{"App": {"name": "second"}})

	res := mustMerge(t, first, second)
	got, _ := res.Get("App", "name")
	if got.Value != "second" {
		t.Fatalf("expected later fragment to win, got %v", got.Value)
	}

	want := []Conflict{{
		Path:       component.Path{Component: "App", Trait: "name"},
		Winner:     Setting{Value: "second", Source: "b.yaml", Priority: PriorityFile},
		Overridden: Setting{Value: "first", Source: "a.yaml", Priority: PriorityFile},
	}}
	if diff := cmp.Diff(want, res.Conflicts); diff != "" {
		t.Fatalf("unexpected conflicts (-want +got):\n%s", diff)
	}
}

func TestMergeDisjointFragmentsAreOrderIndependent(t *testing.T) {
	a := FromMap("a", PriorityFile, map[string]map[string]any{"Foo": {"enabled": "yes"}})
	b := FromMap("b", PriorityFile, map[string]map[string]any{"Foo": {"count": 3}, "App": {"dry_run": true}})
	c := FromMap("c", PriorityFile, map[string]map[string]any{"App": {"name": "x"}})

	want := map[string]map[string]any{
		"Foo": {"enabled": true, "count": int64(3)},
		"App": {"dry_run": true, "name": "x"},
	}
	for _, order := range [][]*Fragment{{a, b, c}, {c, b, a}, {b, a, c}} {
		res := mustMerge(t, order...)
		if diff := cmp.Diff(want, res.Values()); diff != "" {
			t.Fatalf("unexpected values (-want +got):\n%s", diff)
		}
		if len(res.Conflicts) != 0 {
			t.Fatalf("expected no conflicts, got %v", res.Conflicts)
		}
	}
}

func TestMergeLastCLIValueWins(t *testing.T) {
	cli := NewFragment("cli", PriorityCLI)
	cli.SetKey("Foo", "enabled", "true", "f")
	cli.SetKey("Foo", "enabled", "false", "foo-enabled")

	res := mustMerge(t, cli)
	got, _ := res.Get("Foo", "enabled")
	if got.Value != false || got.Source != "cli (foo-enabled)" {
		t.Fatalf("unexpected setting %+v", got)
	}
	if cli.Len() != 2 {
		t.Fatalf("expected both entries kept, got %d", cli.Len())
	}
	if v, _ := cli.Get("Foo", "enabled"); v != "false" {
		t.Fatalf("expected Get to return the last value, got %v", v)
	}

	want := []Conflict{{
		Path:       component.Path{Component: "Foo", Trait: "enabled"},
		Winner:     Setting{Value: false, Source: "cli (foo-enabled)", Priority: PriorityCLI},
		Overridden: Setting{Value: true, Source: "cli (f)", Priority: PriorityCLI},
	}}
	if diff := cmp.Diff(want, res.Conflicts); diff != "" {
		t.Fatalf("unexpected conflicts (-want +got):\n%s", diff)
	}
}

func TestMergeRepeatedEqualValueIsNotConflict(t *testing.T) {
	cli := NewFragment("cli", PriorityCLI)
	cli.SetKey("Foo", "enabled", "yes", "f")
	cli.SetKey("Foo", "enabled", true, "foo-enabled")

	res := mustMerge(t, cli)
	if len(res.Conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %v", res.Conflicts)
	}
	if res.Len() != 1 {
		t.Fatalf("expected one resolved trait, got %v", res.Paths())
	}
}

func TestMergeValidationErrorCarriesProvenance(t *testing.T) {
	good := FromMap("defaults", PriorityDefault, map[string]map[string]any{"Foo": {"count": 2}})
	bad := FromMap("site.yaml", PriorityFile, map[string]map[string]any{"Foo": {"enabled": "maybe"}})
	override := FromMap("cli", PriorityCLI, map[string]map[string]any{"Foo": {"enabled": true}})

	res, err := Merge(testSchema, []*Fragment{good, bad, override})
	if res != nil {
		t.Fatalf("expected no resolved config on failure")
	}

	var verr *trait.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Component != "Foo" || verr.Trait != "enabled" || verr.Reason != "invalid boolean" || verr.Source != "site.yaml" {
		t.Fatalf("unexpected validation error %+v", verr)
	}
}

func TestMergeRejectsNonConfigurable(t *testing.T) {
	frag := FromMap("cli", PriorityCLI, map[string]map[string]any{"Foo": {"token": "secret"}})
	_, err := Merge(testSchema, []*Fragment{frag})
	if !errors.Is(err, trait.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMergeReportsUnrecognized(t *testing.T) {
	frag := FromMap("x.toml", PriorityFile, map[string]map[string]any{
		"Foo":   {"missing": 1, "enabled": true},
		"Ghost": {"x": 1},
	})
	res := mustMerge(t, frag, nil)

	want := []Unrecognized{
		{Path: component.Path{Component: "Foo", Trait: "missing"}, Source: "x.toml"},
		{Path: component.Path{Component: "Ghost", Trait: "x"}, Source: "x.toml"},
	}
	if diff := cmp.Diff(want, res.Unrecognized); diff != "" {
		t.Fatalf("unexpected unrecognized (-want +got):\n%s", diff)
	}
	if res.Len() != 1 {
		t.Fatalf("expected only Foo.enabled to resolve, got %v", res.Paths())
	}
}

func TestApplyWritesValuesAndNotifies(t *testing.T) {
	app := component.Instantiate(appClass)
	foo := component.Instantiate(fooClass)

	var changes []string
	record := func(c *component.Component, name string, _, _ any) error {
		changes = append(changes, c.Name()+"."+name)
		return nil
	}
	app.ObserveAll(record)
	foo.ObserveAll(record)

	cli := NewFragment("cli", PriorityCLI)
	cli.Set("Foo", "enabled", "true")
	cli.Set("App", "dry_run", "true")
	cli.Set("Foo", "count", 1)

	if err := Apply(mustMerge(t, cli), []*component.Component{app, foo}); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if diff := cmp.Diff([]string{"App.dry_run", "Foo.enabled"}, changes); diff != "" {
		t.Fatalf("unexpected notifications (-want +got):\n%s", diff)
	}
	if v, _ := foo.Get("enabled"); v != true {
		t.Fatalf("expected Foo.enabled true, got %v", v)
	}
}

func TestApplyContinuesPastObserverErrors(t *testing.T) {
	app := component.Instantiate(appClass)
	foo := component.Instantiate(fooClass)
	boom := errors.New("boom")
	if _, err := app.Observe("dry_run", func(*component.Component, string, any, any) error { return boom }); err != nil {
		t.Fatalf("Observe returned error: %v", err)
	}

	cli := FromMap("cli", PriorityCLI, map[string]map[string]any{
		"App": {"dry_run": true},
		"Foo": {"enabled": true},
	})
	err := Apply(mustMerge(t, cli), []*component.Component{app, foo})
	if !errors.Is(err, boom) {
		t.Fatalf("expected observer error, got %v", err)
	}
	if v, _ := foo.Get("enabled"); v != true {
		t.Fatalf("expected remaining values to be applied")
	}
}

func TestApplyChecksPathsBeforeWriting(t *testing.T) {
	foo := component.Instantiate(fooClass)
	cli := FromMap("cli", PriorityCLI, map[string]map[string]any{
		"App": {"dry_run": true},
		"Foo": {"enabled": true},
	})

	err := Apply(mustMerge(t, cli), []*component.Component{foo})
	if !errors.Is(err, component.ErrUnknownTrait) {
		t.Fatalf("expected unknown trait error, got %v", err)
	}
	if v, _ := foo.Get("enabled"); v != false {
		t.Fatalf("expected no writes when a component is missing")
	}
}
