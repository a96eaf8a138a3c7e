// Package encode renders ir node trees back to text.
//
// Two renderings exist: structured documents (TOML, YAML, JSON) for
// serializing sub-values, and bare scalar literals for substituting a
// single value into a directive template.
package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dmyersturnbull/tyranno/format"
	"github.com/dmyersturnbull/tyranno/ir"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

type EncState struct {
	indent int
	format format.Format
}

// Encode writes node to w in the configured format (YAML by default).
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
		format: format.YAMLFormat,
	}
	for _, opt := range opts {
		opt(es)
	}
	switch es.format {
	case format.YAMLFormat:
		d, err := yaml.MarshalWithOptions(toMarshalable(node), yaml.Indent(es.indent))
		if err != nil {
			return err
		}
		_, err = w.Write(d)
		return err
	case format.JSONFormat:
		d, err := json.MarshalIndent(ir.ToAny(node), "", spaces(es.indent))
		if err != nil {
			return err
		}
		if _, err := w.Write(d); err != nil {
			return err
		}
		_, err = w.Write([]byte{'\n'})
		return err
	case format.TOMLFormat:
		if node.Type != ir.ObjectType {
			return fmt.Errorf("toml documents must be objects, got %s", node.Type)
		}
		enc := toml.NewEncoder(w)
		enc.Indent = spaces(es.indent)
		return enc.Encode(ir.ToAny(node))
	default:
		return fmt.Errorf("%w: %v", format.ErrBadFormat, es.format)
	}
}

// toMarshalable preserves object field order for the YAML encoder.
func toMarshalable(node *ir.Node) any {
	switch node.Type {
	case ir.ObjectType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i, field := range node.Fields {
			res[i] = yaml.MapItem{Key: field, Value: toMarshalable(node.Values[i])}
		}
		return res
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			res[i] = toMarshalable(elt)
		}
		return res
	default:
		return ir.ToAny(node)
	}
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// ScalarString renders a leaf node as the bare literal that replaces a
// directive's output line: no quotes around strings, TOML-style
// timestamps, "true"/"false", decimal numbers.
func ScalarString(node *ir.Node) (string, error) {
	switch node.Type {
	case ir.StringType:
		return node.String, nil
	case ir.BoolType:
		return strconv.FormatBool(node.Bool), nil
	case ir.NumberType:
		if node.Int64 != nil {
			return strconv.FormatInt(*node.Int64, 10), nil
		}
		if node.Float64 != nil {
			return strconv.FormatFloat(*node.Float64, 'g', -1, 64), nil
		}
		return "0", nil
	case ir.TimeType:
		return node.Time.Format("2006-01-02T15:04:05Z07:00"), nil
	case ir.NullType:
		return "null", nil
	default:
		return "", fmt.Errorf("value at %s is %s, not a scalar", node.Path(), node.Type)
	}
}

// MustString renders a node as a trimmed YAML snippet, for error
// messages and debug output.
func MustString(node *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf); err != nil {
		panic(err)
	}
	return string(bytes.TrimSpace(buf.Bytes()))
}
