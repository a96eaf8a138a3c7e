// Package parse turns TOML, YAML, or JSON bytes into ir node trees.
package parse

import (
	"fmt"
	"os"

	"github.com/dmyersturnbull/tyranno/format"
	"github.com/dmyersturnbull/tyranno/ir"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

type parseOpts struct {
	format format.Format
}

type ParseOption func(*parseOpts)

func ParseFormat(f format.Format) ParseOption {
	return func(o *parseOpts) {
		o.format = f
	}
}

// Parse decodes d in the configured format (TOML by default, matching
// the config file) and builds the ir tree.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{format: format.TOMLFormat}
	for _, f := range opts {
		f(pOpts)
	}
	switch pOpts.format {
	case format.TOMLFormat:
		var v map[string]any
		if err := toml.Unmarshal(d, &v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		return ir.FromAny(v)
	case format.YAMLFormat, format.JSONFormat:
		// JSON is parsed by the YAML decoder; it is a YAML subset.
		var v any
		if err := yaml.Unmarshal(d, &v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		return ir.FromAny(v)
	default:
		return nil, fmt.Errorf("%w: %v", format.ErrBadFormat, pOpts.format)
	}
}

// ParseFile reads and parses path, detecting the format from the file
// extension. Files in non-structured formats return (nil, false, nil).
func ParseFile(path string) (*ir.Node, bool, error) {
	f, ok := format.ByPath(path)
	if !ok {
		return nil, false, nil
	}
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	node, err := Parse(d, ParseFormat(f))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return node, true, nil
}
