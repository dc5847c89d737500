package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/kingpin/v2"

	"github.com/eugenenazirov/traitconf/internal/alias"
	"github.com/eugenenazirov/traitconf/internal/application"
	"github.com/eugenenazirov/traitconf/internal/config"
	"github.com/eugenenazirov/traitconf/internal/trait"
)

// argRecorder keeps command-line pairs in the order kingpin parsed them so
// that the last occurrence of a trait wins across aliases, flags and --set.
type argRecorder struct {
	args []config.Arg
}

// keyValue feeds one alias or flag key into the recorder. For a flag, negated
// is the value --no-<key> assigns; it is nil when the target is not a bool.
type keyValue struct {
	rec     *argRecorder
	key     string
	flag    bool
	negated *bool
}

func (v *keyValue) Set(s string) error {
	switch {
	case !v.flag:
		v.rec.args = append(v.rec.args, config.Arg{Key: v.key, Value: s, HasValue: true})
	case s == "false":
		if v.negated == nil {
			return fmt.Errorf("--no-%s is not supported: the flag does not set a boolean", v.key)
		}
		v.rec.args = append(v.rec.args, config.Arg{Key: v.key, Value: strconv.FormatBool(*v.negated), HasValue: true})
	default:
		v.rec.args = append(v.rec.args, config.Arg{Key: v.key})
	}
	return nil
}

func (v *keyValue) String() string { return "" }

func (v *keyValue) IsBoolFlag() bool { return v.flag }

func (v *keyValue) IsCumulative() bool { return true }

// assignment feeds --set Component.trait=value into the recorder.
type assignment struct {
	rec *argRecorder
}

func (a *assignment) Set(s string) error {
	arg, err := config.ParseAssignment(s)
	if err != nil {
		return err
	}
	a.rec.args = append(a.rec.args, arg)
	return nil
}

func (a *assignment) String() string { return "" }

func (a *assignment) IsCumulative() bool { return true }

// registerTraitFlags adds one kingpin flag per alias and flag entry. The
// longest key becomes the visible long flag, a single-character key its short
// form, and any other keys hidden long flags.
func registerTraitFlags(cli *kingpin.Application, app *application.Application, rec *argRecorder) {
	for _, e := range app.Aliases().Entries() {
		registerEntry(cli, app, e, rec, false)
	}
	for _, e := range app.Flags().Entries() {
		registerEntry(cli, app, e, rec, true)
	}
}

func registerEntry(cli *kingpin.Application, app *application.Application, e alias.Entry, rec *argRecorder, flag bool) {
	keys := slices.Clone(e.Keys)
	slices.SortStableFunc(keys, func(a, b string) int {
		return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
	})

	help := e.Help
	if help == "" {
		if d, ok := app.Lookup(e.Path); ok {
			help = d.Help()
		}
	}
	if help == "" {
		help = "Set " + e.Path.String()
	}

	var negated *bool
	if b, ok := e.Value.(bool); ok && flag {
		negated = new(bool)
		*negated = !b
	}

	long := keys[0]
	clause := cli.Flag(long, help)
	if !flag {
		clause.PlaceHolder(strings.ToUpper(e.Path.Trait))
		if d, ok := app.Lookup(e.Path); ok && d.Type().Kind() == trait.KindEnum {
			clause.HintOptions(d.Type().Choices()...)
		}
	}
	clause.SetValue(&keyValue{rec: rec, key: long, flag: flag, negated: negated})

	shortUsed := false
	for _, key := range keys[1:] {
		if !shortUsed && utf8.RuneCountInString(key) == 1 {
			r, _ := utf8.DecodeRuneInString(key)
			clause.Short(r)
			shortUsed = true
			continue
		}
		cli.Flag(key, help).Hidden().SetValue(&keyValue{rec: rec, key: key, flag: flag, negated: negated})
	}
}
