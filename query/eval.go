// Package query evaluates the $<<...>> expressions embedded in
// directive templates: a path into the metadata document, optionally
// piped through named transformation functions.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmyersturnbull/tyranno/debug"
	"github.com/dmyersturnbull/tyranno/encode"
	"github.com/dmyersturnbull/tyranno/ir"
)

// DataNS is the object holding user data, addressed by the '~.' and
// '.' path prefixes.
const DataNS = "tool.tyranno.data"

// A Releases client backs the network functions (pypi_versions,
// pypi_data, spdx_license).
type Releases interface {
	Versions(ctx context.Context, pkg string) ([]string, error)
	Data(ctx context.Context, pkg string) (*ir.Node, error)
	License(ctx context.Context, id string) (*ir.Node, error)
}

// An Evaluator resolves expressions against one metadata document.
// FileRoot is set per file during sync; everything else is fixed for
// the run.
type Evaluator struct {
	Ctx      context.Context
	Root     *ir.Node
	FileRoot *ir.Node
	Aliases  map[string]string
	Releases Releases
	Now      func() time.Time
}

func New(root *ir.Node) *Evaluator {
	return &Evaluator{Ctx: context.Background(), Root: root, Now: time.Now}
}

// WithFileRoot returns a shallow copy bound to the given file's parsed
// tree, for '^.' paths.
func (ev *Evaluator) WithFileRoot(fileRoot *ir.Node) *Evaluator {
	res := *ev
	res.FileRoot = fileRoot
	return &res
}

func (ev *Evaluator) ctx() context.Context {
	if ev.Ctx != nil {
		return ev.Ctx
	}
	return context.Background()
}

func (ev *Evaluator) now() time.Time {
	if ev.Now != nil {
		return ev.Now()
	}
	return time.Now()
}

// Resolve evaluates one expression body to a node.
func (ev *Evaluator) Resolve(src string) (*ir.Node, error) {
	src = strings.TrimSpace(src)
	src, err := ev.expandAlias(src)
	if err != nil {
		return nil, err
	}
	expr, err := ParseExpression(src)
	if err != nil {
		return nil, err
	}
	if debug.Query() {
		debug.Logf("resolve %q\n", src)
	}
	v, err := ev.head(expr)
	if err != nil {
		return nil, err
	}
	for i := range expr.Pipes {
		call := &expr.Pipes[i]
		f := Lookup(call.Name)
		if f == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFunc, call.Name)
		}
		v, err = f.Apply(ev, v, call.Args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", call.Name, err)
		}
	}
	return v, nil
}

// ResolveString evaluates an expression and renders the result as the
// bare literal substituted into a line.
func (ev *Evaluator) ResolveString(src string) (string, error) {
	v, err := ev.Resolve(src)
	if err != nil {
		return "", err
	}
	return encode.ScalarString(v)
}

const maxAliasDepth = 10

func (ev *Evaluator) expandAlias(src string) (string, error) {
	for depth := 0; ; depth++ {
		body, ok := ev.Aliases[src]
		if !ok {
			return src, nil
		}
		if depth >= maxAliasDepth {
			return "", fmt.Errorf("alias %q expands too deeply", src)
		}
		src = strings.TrimSpace(body)
	}
}

func (ev *Evaluator) head(expr *Expression) (*ir.Node, error) {
	if expr.Call != nil {
		f := Lookup(expr.Call.Name)
		if f == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFunc, expr.Call.Name)
		}
		v, err := f.Apply(ev, nil, expr.Call.Args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", expr.Call.Name, err)
		}
		if expr.Tail == "" {
			return v, nil
		}
		return v.Access(expr.Tail)
	}
	return ev.path(expr.Path)
}

// path resolves a dotted path head. The first element selects the
// root: '~.' and '.' (and '@.') address the data namespace, '$.' the
// document root, '^.' the current file's own tree, and a bare key the
// document root.
func (ev *Evaluator) path(p string) (*ir.Node, error) {
	switch {
	case p == "$":
		return ev.Root, nil
	case p == "~" || p == "@":
		return ev.Root.Access(DataNS)
	case strings.HasPrefix(p, "~.") || strings.HasPrefix(p, "@."):
		ns, err := ev.Root.Access(DataNS)
		if err != nil {
			return nil, err
		}
		return ns.Access(p[2:])
	case strings.HasPrefix(p, "$."):
		return ev.Root.Access(p[2:])
	case strings.HasPrefix(p, "^."):
		if ev.FileRoot == nil {
			return nil, fmt.Errorf("'^' path %q outside a structured file", p)
		}
		return ev.FileRoot.Access(p[2:])
	case strings.HasPrefix(p, "."):
		ns, err := ev.Root.Access(DataNS)
		if err != nil {
			return nil, err
		}
		return ns.Access(p[1:])
	default:
		return ev.Root.Access(p)
	}
}
