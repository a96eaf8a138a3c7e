package ir

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Path returns the location of this node in its document, in path
// expression syntax rooted at '$'.
func (y *Node) Path() string {
	if y.Parent == nil {
		return "$"
	}
	switch y.Parent.Type {
	case ObjectType:
		prefix := y.Parent.Path() + "."
		return prefix + quoteField(y.ParentField)
	case ArrayType:
		return y.Parent.Path() + "[" + strconv.Itoa(y.ParentIndex) + "]"
	default:
		panic("parent but not in container")
	}
}

// Access resolves a dotted key ("tool.tyranno.data") against an object
// tree. The error highlights the failing segment.
func (y *Node) Access(keys string) (*Node, error) {
	x := y
	split := strings.Split(keys, ".")
	for i, k := range split {
		if x.Type != ObjectType {
			return nil, fmt.Errorf("%w: value at %q is %s, not an object",
				ErrWrongType, markSegment(split, i), x.Type)
		}
		next := Get(x, k)
		if next == nil {
			return nil, fmt.Errorf("%w: %q", ErrUndefinedKey, markSegment(split, i))
		}
		x = next
	}
	return x, nil
}

// GetKey is Access with a nil result instead of an error for missing
// keys. Type errors still surface.
func (y *Node) GetKey(keys string) *Node {
	res, err := y.Access(keys)
	if err != nil {
		return nil
	}
	return res
}

func quoteField(f string) string {
	if f != "" && strings.IndexAny(f, "'.*$[] ") == -1 {
		return f
	}
	return "'" + strings.Replace(f, "'", "\\'", -1) + "'"
}

func markSegment(split []string, i int) string {
	parts := make([]string, len(split))
	copy(parts, split)
	parts[i] = "<<" + parts[i] + ">>"
	return strings.Join(parts, ".")
}

// A Path is a parsed path expression: a chain of field selections,
// index selections, '[*]' wildcards, and '..' subtree descents.
type Path struct {
	IndexAll bool
	Index    *int
	Field    *string
	Subtree  bool
	Next     *Path
}

func (p *Path) String() string {
	buf := bytes.NewBuffer([]byte{'$'})
	x := p
	for x != nil {
		if x.Subtree {
			if x.Next != nil && x.Next.Field != nil {
				buf.WriteString(".")
			} else {
				buf.WriteString("..")
			}
			x = x.Next
			continue
		}
		if x.IndexAll {
			buf.WriteString("[*]")
			x = x.Next
			continue
		}
		if x.Field != nil {
			buf.WriteString("." + quoteField(*x.Field))
			x = x.Next
			continue
		}
		if x.Index != nil {
			fmt.Fprintf(buf, "[%d]", *x.Index)
			x = x.Next
			continue
		}
		x = x.Next
	}
	return buf.String()
}

func ParsePath(p string) (*Path, error) {
	if len(p) == 0 || p[0] != '$' {
		return nil, fmt.Errorf("path %q should start with '$'", p)
	}
	root := &Path{}
	if len(p) == 1 {
		return root, nil
	}
	if err := parseFrag(p[1:], root); err != nil {
		return nil, err
	}
	return root, nil
}

func parseFrag(frag string, parent *Path) error {
	if len(frag) == 0 {
		return nil
	}
	switch frag[0] {
	case '.':
		if len(frag) > 1 && frag[1] == '.' {
			parent.Subtree = true
			rest := frag[2:]
			if len(rest) == 0 {
				return nil
			}
			next := &Path{}
			if rest[0] == '.' || rest[0] == '[' {
				if err := parseFrag(rest, next); err != nil {
					return err
				}
				parent.Next = next
				return nil
			}
			field, fieldRest, err := parseField(rest)
			if err != nil {
				return err
			}
			next.Field = &field
			parent.Next = next
			if len(fieldRest) == 0 {
				return nil
			}
			nn := &Path{}
			if err := parseFrag(fieldRest, nn); err != nil {
				return err
			}
			next.Next = nn
			return nil
		}
		field, rest, err := parseField(frag[1:])
		if err != nil {
			return err
		}
		parent.Field = &field
		if len(rest) == 0 {
			return nil
		}
		next := &Path{}
		if err := parseFrag(rest, next); err != nil {
			return err
		}
		parent.Next = next
		return nil
	case '[':
		i := strings.IndexByte(frag[1:], ']')
		if i == -1 {
			return fmt.Errorf("expected '[' <index> ']'")
		}
		index, all, err := parseIndex(frag[1 : i+1])
		if err != nil {
			return err
		}
		parent.IndexAll = all
		if !all {
			parent.Index = &index
		}
		if len(frag) == i+2 {
			return nil
		}
		next := &Path{}
		if err := parseFrag(frag[i+2:], next); err != nil {
			return err
		}
		parent.Next = next
		return nil
	default:
		return fmt.Errorf("expected '.' or '['")
	}
}

func parseIndex(is string) (index int, all bool, err error) {
	if len(is) == 1 && is[0] == '*' {
		return 0, true, nil
	}
	u64, err := strconv.ParseUint(is, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return int(u64), false, nil
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[")
		if i == -1 {
			return frag, "", nil
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch c {
		case '\\':
			escaped = true
		case '\'':
			if !escaped {
				return string(res), frag[i+1:], nil
			}
			fallthrough
		default:
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

// GetPath resolves a path expression to at most one node. Wildcards
// and subtree descents are rejected here; use ListPath for those.
func (y *Node) GetPath(path string) (*Node, error) {
	yp, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	res := y
	for yp != nil {
		if yp.IndexAll {
			return nil, fmt.Errorf("wildcard index in get")
		}
		if yp.Subtree {
			return nil, fmt.Errorf("subtree '..' in get")
		}
		if yp.Index != nil {
			if res.Type != ArrayType {
				return nil, fmt.Errorf("%w: expected array, got %s", ErrWrongType, res.Type)
			}
			index := *yp.Index
			if index < 0 || index >= len(res.Values) {
				return nil, fmt.Errorf("index out of bounds %d (len %d)", index, len(res.Values))
			}
			res = res.Values[index]
			yp = yp.Next
			continue
		}
		if yp.Field != nil {
			if res.Type != ObjectType {
				return nil, fmt.Errorf("%w: expected object, got %s", ErrWrongType, res.Type)
			}
			next := Get(res, *yp.Field)
			if next == nil {
				return nil, fmt.Errorf("%w: %q in %s", ErrUndefinedKey, *yp.Field, res.Path())
			}
			res = next
			yp = yp.Next
			continue
		}
		if yp.Next != nil {
			return nil, fmt.Errorf("unexpected next without index or field")
		}
		break
	}
	return res.Clone(), nil
}

// ListPath appends to dst every node matched by the path expression,
// which may contain wildcards and subtree descents.
func (y *Node) ListPath(dst []*Node, path string) ([]*Node, error) {
	yp, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	return y.listPath(dst, yp)
}

func (y *Node) listPath(dst []*Node, yp *Path) ([]*Node, error) {
	if yp == nil {
		return append(dst, y.Clone()), nil
	}
	var err error
	if yp.Subtree {
		if err := y.Visit(func(node *Node, isPost bool) (bool, error) {
			if isPost {
				return false, nil
			}
			dst, err = node.listPath(dst, yp.Next)
			if err != nil {
				return false, err
			}
			return !node.Type.IsLeaf(), nil
		}); err != nil {
			return nil, err
		}
		return dst, nil
	}
	switch y.Type {
	case ObjectType:
		if yp.IndexAll || yp.Index != nil {
			return dst, nil
		}
		if yp.Field == nil && yp.Next == nil {
			return append(dst, y.Clone()), nil
		}
		if v := Get(y, *yp.Field); v != nil {
			dst, err = v.listPath(dst, yp.Next)
			if err != nil {
				return nil, err
			}
		}
		return dst, nil
	case ArrayType:
		if yp.Field != nil {
			return dst, nil
		}
		if yp.Index == nil && !yp.IndexAll && yp.Next == nil {
			return append(dst, y.Clone()), nil
		}
		if yp.Index != nil {
			idx := *yp.Index
			if 0 <= idx && idx < len(y.Values) {
				dst, err = y.Values[idx].listPath(dst, yp.Next)
				if err != nil {
					return nil, err
				}
			}
			return dst, nil
		}
		for _, yv := range y.Values {
			dst, err = yv.listPath(dst, yp.Next)
			if err != nil {
				return nil, err
			}
		}
		return dst, nil
	case StringType, NumberType, NullType, BoolType, TimeType:
		if yp.Field != nil || yp.Index != nil || yp.IndexAll {
			return dst, nil
		}
		if yp.Next == nil {
			return append(dst, y.Clone()), nil
		}
		return dst, nil
	default:
		panic("type")
	}
}
