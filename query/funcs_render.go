package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/dmyersturnbull/tyranno/encode"
	"github.com/dmyersturnbull/tyranno/format"
	"github.com/dmyersturnbull/tyranno/ir"
)

func init() {
	Register(&fn{name: "yaml", apply: renderYAMLFlow})
	Register(&fn{name: "json", apply: renderJSON})
	Register(&fn{name: "toml", apply: renderTOML})
	Register(&fn{name: "yaml_multiline", apply: renderMultiline(format.YAMLFormat)})
	Register(&fn{name: "json_multiline", apply: renderMultiline(format.JSONFormat)})
	Register(&fn{name: "lines", apply: renderLines})
}

func renderYAMLFlow(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
	d, err := yaml.MarshalWithOptions(ir.ToAny(v), yaml.Flow(true))
	if err != nil {
		return nil, err
	}
	return ir.FromString(strings.TrimSpace(string(d))), nil
}

func renderJSON(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
	d, err := json.Marshal(ir.ToAny(v))
	if err != nil {
		return nil, err
	}
	return ir.FromString(string(d)), nil
}

func renderTOML(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
	s, err := tomlValue(v)
	if err != nil {
		return nil, err
	}
	return ir.FromString(s), nil
}

// tomlValue renders a node as a TOML value literal; objects fall back
// to full table syntax.
func tomlValue(v *ir.Node) (string, error) {
	switch v.Type {
	case ir.StringType:
		return strconv.Quote(v.String), nil
	case ir.ArrayType:
		parts := make([]string, len(v.Values))
		for i, el := range v.Values {
			s, err := tomlValue(el)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case ir.ObjectType:
		var buf bytes.Buffer
		if err := encode.Encode(v, &buf, encode.EncodeFormat(format.TOMLFormat)); err != nil {
			return "", err
		}
		return strings.TrimSpace(buf.String()), nil
	default:
		return encode.ScalarString(v)
	}
}

func renderMultiline(f format.Format) func(*Evaluator, *ir.Node, []string) (*ir.Node, error) {
	return func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
		var buf bytes.Buffer
		if err := encode.Encode(v, &buf, encode.EncodeFormat(f)); err != nil {
			return nil, err
		}
		return ir.FromString(strings.TrimRight(buf.String(), "\n")), nil
	}
}

func renderLines(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
	if v.Type != ir.ArrayType {
		return nil, fmt.Errorf("%w: lines wants an array, got %s", ErrBadArgs, v.Type)
	}
	parts := make([]string, len(v.Values))
	for i, el := range v.Values {
		s, err := encode.ScalarString(el)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	return ir.FromString(strings.Join(parts, "\n")), nil
}
