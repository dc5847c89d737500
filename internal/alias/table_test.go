package alias

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/traitconf/internal/component"
	"github.com/eugenenazirov/traitconf/internal/trait"
)

type mapResolver map[string]*trait.Descriptor

func (m mapResolver) Lookup(p component.Path) (*trait.Descriptor, bool) {
	d, ok := m[p.String()]
	return d, ok
}

func testResolver() mapResolver {
	return mapResolver{
		"App.dry_run":    trait.MustNew("dry_run", trait.Bool(), trait.WithHelp("dry run test")),
		"Foo.enabled":    trait.MustNew("enabled", trait.Bool(), trait.WithHelp("whether enabled")),
		"App.log_level":  trait.MustNew("log_level", trait.Enum("debug", "info"), trait.WithDefault("info")),
		"App.secret_key": trait.MustNew("secret_key", trait.String(), trait.NotConfigurable()),
	}
}

func TestRegisterAndResolve(t *testing.T) {
	t.Parallel()

	table := NewTable(testResolver())
	require.NoError(t, table.Register([]string{"dry-run"}, "App.dry_run", ""))
	require.NoError(t, table.Register([]string{"f", "foo-enabled"}, "Foo.enabled", "whether foo is enabled"))

	for _, key := range []string{"f", "-f", "foo-enabled", "--foo-enabled"} {
		p, err := table.Resolve(key)
		require.NoError(t, err, key)
		assert.Equal(t, component.Path{Component: "Foo", Trait: "enabled"}, p)
	}

	entries := table.Entries()
	require.Len(t, entries, 2, "a key tuple is one logical entry")
	assert.Equal(t, []string{"f", "foo-enabled"}, entries[1].Keys)
	assert.Equal(t, "whether foo is enabled", entries[1].Help)
	assert.True(t, table.Has("--dry-run"))
	assert.Equal(t, 2, table.Len())
}

func TestResolveUnknownKey(t *testing.T) {
	t.Parallel()

	table := NewTable(testResolver())
	require.NoError(t, table.Register([]string{"dry-run"}, "App.dry_run", ""))

	_, err := table.Resolve("unknown-flag")
	var nf *AliasNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "unknown-flag", nf.Key)
	assert.ErrorIs(t, err, ErrAliasNotFound)

	p, err := table.Resolve("dry-run")
	require.NoError(t, err)
	assert.Equal(t, "App.dry_run", p.String())
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()

	table := NewTable(testResolver())
	require.NoError(t, table.Register([]string{"f", "foo-enabled"}, "Foo.enabled", ""))

	err := table.Register([]string{"x", "--f"}, "App.dry_run", "")
	var dup *DuplicateAliasError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "f", dup.Key)
	assert.Equal(t, "Foo.enabled", dup.Existing)
	assert.False(t, table.Has("x"), "failed registration must not insert any key")

	err = table.Register([]string{"y", "y"}, "App.dry_run", "")
	assert.ErrorIs(t, err, ErrDuplicateAlias)
}

func TestRegisterRejectsUnknownPaths(t *testing.T) {
	t.Parallel()

	table := NewTable(testResolver())
	for _, path := range []string{"Foo.missing", "Nope.enabled", "nodot", "App.secret_key"} {
		err := table.Register([]string{"k"}, path, "")
		assert.ErrorIs(t, err, ErrUnknownPath, path)
	}
	assert.Equal(t, 0, table.Len())
}

func TestRegisterRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	table := NewTable(testResolver())
	assert.ErrorIs(t, table.Register(nil, "App.dry_run", ""), ErrInvalidKey)
	assert.ErrorIs(t, table.Register([]string{"--"}, "App.dry_run", ""), ErrInvalidKey)
	assert.ErrorIs(t, table.Register([]string{"a=b"}, "App.dry_run", ""), ErrInvalidKey)
}

func TestFlagTable(t *testing.T) {
	t.Parallel()

	flags := NewFlagTable(testResolver())
	require.NoError(t, flags.Register([]string{"debug"}, "App.log_level", "debug", "verbose logging"))
	require.NoError(t, flags.Register([]string{"n", "dry"}, "App.dry_run", "yes", ""))

	entry, err := flags.Lookup("--dry")
	require.NoError(t, err)
	assert.Equal(t, true, entry.Value, "flag values are stored in canonical form")
	assert.Equal(t, "App.dry_run", entry.Path.String())

	assert.ErrorIs(t, flags.Register([]string{"debug"}, "App.dry_run", true, ""), ErrDuplicateAlias)
	assert.ErrorIs(t, flags.Register([]string{"z"}, "App.gone", true, ""), ErrUnknownPath)
	assert.ErrorIs(t, flags.Register([]string{"trace"}, "App.log_level", "trace", ""), trait.ErrSchema)

	_, err = flags.Resolve("missing")
	assert.ErrorIs(t, err, ErrAliasNotFound)
}
