package config

import (
	"context"
	"fmt"
	"math/big"
	"path"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/pelletier/go-toml/v2"
	"github.com/viant/afs"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/traitconf/internal/merge"
)

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

// Document is a decoded configuration file: component name to trait name to
// raw value.
type Document map[string]map[string]any

var fs = afs.New()

// FormatOf picks the format from a file name or URL extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// LoadFile reads a configuration file by local path or URL and returns it as
// a file-priority fragment labelled with its location.
func LoadFile(ctx context.Context, url string) (*merge.Fragment, error) {
	format, err := FormatOf(url)
	if err != nil {
		return nil, err
	}

	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", url, err)
	}

	doc, err := Decode(format, url, data)
	if err != nil {
		return nil, fmt.Errorf("parse config %q: %w", url, err)
	}
	return doc.Fragment(url, merge.PriorityFile), nil
}

// Decode parses data in the given format. The top level must map component
// names to tables of trait values.
func Decode(format Format, filename string, data []byte) (Document, error) {
	switch format {
	case FormatYAML, FormatJSON:
		// JSON is a subset of YAML.
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return documentFrom(raw)
	case FormatTOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return documentFrom(raw)
	case FormatHCL:
		return decodeHCL(filename, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Fragment converts the document into a fragment with the given label and rank.
func (d Document) Fragment(source string, priority merge.Priority) *merge.Fragment {
	return merge.FromMap(source, priority, d)
}

func documentFrom(raw map[string]any) (Document, error) {
	doc := make(Document, len(raw))
	for name, value := range raw {
		traits, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: component %q must be a table, got %T", ErrMalformed, name, value)
		}
		doc[name] = traits
	}
	return doc, nil
}

// decodeHCL reads blocks of the form `Component { trait = value }`.
func decodeHCL(filename string, data []byte) (Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected HCL body %T", ErrMalformed, file.Body)
	}
	if len(body.Attributes) > 0 {
		names := make([]string, 0, len(body.Attributes))
		for name := range body.Attributes {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%w: top-level attribute %q outside a component block", ErrMalformed, names[0])
	}

	doc := make(Document, len(body.Blocks))
	for _, block := range body.Blocks {
		if len(block.Labels) > 0 {
			return nil, fmt.Errorf("%w: component block %q takes no labels", ErrMalformed, block.Type)
		}
		if len(block.Body.Blocks) > 0 {
			return nil, fmt.Errorf("%w: nested block in component %q", ErrMalformed, block.Type)
		}
		traits := doc[block.Type]
		if traits == nil {
			traits = make(map[string]any, len(block.Body.Attributes))
			doc[block.Type] = traits
		}
		for name, attr := range block.Body.Attributes {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, diags
			}
			v, err := ctyValueToInterface(val)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", block.Type, name, err)
			}
			traits[name] = v
		}
	}
	return doc, nil
}

func ctyValueToInterface(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if n, acc := bf.Int64(); acc == big.Exact {
				return n, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			item, err := ctyValueToInterface(v)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}
