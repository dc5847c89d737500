package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/eugenenazirov/traitconf/internal/application"
)

func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderValues lists every trait of every component with its current value.
func renderValues(app *application.Application) string {
	var rows [][]string
	for _, c := range app.Components() {
		values := c.Values()
		for _, d := range c.Class().Traits() {
			rows = append(rows, []string{c.Name() + "." + d.Name(), d.Type().String(), formatValue(values[d.Name()])})
		}
	}
	return renderTable([]string{"Trait", "Type", "Value"}, rows)
}

// renderDescribe lists the settable entries: aliases, flags, then traits.
func renderDescribe(entries []application.HelpEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		keys := make([]string, len(e.Keys))
		for i, k := range e.Keys {
			keys[i] = optionName(e.Kind, k)
		}
		def := formatValue(e.Default)
		if e.Kind == application.KindFlag {
			def = "sets " + formatValue(e.Value)
		}
		rows = append(rows, []string{strings.Join(keys, ", "), e.Path.String(), e.Type, def, e.Help})
	}
	return renderTable([]string{"Option", "Trait", "Type", "Default", "Help"}, rows)
}

func optionName(kind application.EntryKind, key string) string {
	switch {
	case kind == application.KindTrait:
		return "--set " + key + "=..."
	case len([]rune(key)) == 1:
		return "-" + key
	default:
		return "--" + key
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return fmt.Sprintf("%q", val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(val)
	}
}
