package ir

import (
	"fmt"
	"time"
)

// FromAny converts a decoded TOML/YAML/JSON value into a node tree.
// Maps become object nodes (sorted key order for map[string]any since
// Go maps are unordered); use FromKeyVals when order is available.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint64:
		return FromInt(int64(x)), nil
	case float64:
		return FromFloat(x), nil
	case time.Time:
		return FromTime(x), nil
	case []any:
		vals := make([]*Node, len(x))
		for i, elt := range x {
			node, err := FromAny(elt)
			if err != nil {
				return nil, err
			}
			vals[i] = node
		}
		return FromSlice(vals), nil
	case []string:
		return FromStrings(x), nil
	case map[string]any:
		yMap := make(map[string]*Node, len(x))
		for k, elt := range x {
			node, err := FromAny(elt)
			if err != nil {
				return nil, err
			}
			yMap[k] = node
		}
		return FromMap(yMap), nil
	case *Node:
		return x.Clone(), nil
	case []*Node:
		return FromSlice(x), nil
	default:
		return nil, fmt.Errorf("cannot represent %T as a metadata value", v)
	}
}

// ToAny converts a node tree to plain Go values, suitable for the
// yaml/json/toml encoders and for expr programs.
func ToAny(node *Node) any {
	switch node.Type {
	case ObjectType:
		res := make(map[string]any, len(node.Fields))
		for i, field := range node.Fields {
			res[field] = ToAny(node.Values[i])
		}
		return res
	case ArrayType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			res[i] = ToAny(elt)
		}
		return res
	case StringType:
		return node.String
	case NumberType:
		if node.Int64 != nil {
			return *node.Int64
		}
		if node.Float64 != nil {
			return *node.Float64
		}
		return 0
	case BoolType:
		return node.Bool
	case TimeType:
		return node.Time
	case NullType:
		return nil
	default:
		panic("type")
	}
}

// Strings returns the elements of an array-of-strings node.
func Strings(node *Node) ([]string, error) {
	if node.Type != ArrayType {
		return nil, fmt.Errorf("expected array, got %s", node.Type)
	}
	res := make([]string, len(node.Values))
	for i, elt := range node.Values {
		if elt.Type != StringType {
			return nil, fmt.Errorf("expected string at index %d, got %s", i, elt.Type)
		}
		res[i] = elt.String
	}
	return res, nil
}
