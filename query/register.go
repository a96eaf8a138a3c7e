package query

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dmyersturnbull/tyranno/ir"
)

// A Func is one named transformation usable in an expression pipeline.
type Func interface {
	String() string
	Apply(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error)
}

type name string

func (n name) String() string {
	return string(n)
}

var (
	mu sync.RWMutex
	d  = map[string]Func{}
)

func Register(f Func) error {
	mu.Lock()
	defer mu.Unlock()
	_, present := d[f.String()]
	if present {
		return fmt.Errorf("%s: %w", f, ErrFuncExists)
	}
	d[f.String()] = f
	return nil
}

func Lookup(s string) Func {
	mu.RLock()
	defer mu.RUnlock()
	return d[s]
}

func Symbols() []Func {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]Func, 0, len(d))
	for _, f := range d {
		res = append(res, f)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].String() < res[j].String()
	})
	return res
}

// fn adapts a closure to Func with an arity check. Functions that
// produce a value from scratch (dates, network lookups) set source and
// may appear in head position; everything else transforms the piped
// value and must come after one.
type fn struct {
	name
	minArgs int
	maxArgs int
	source  bool
	apply   func(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error)
}

func (f *fn) Apply(ev *Evaluator, v *ir.Node, args []string) (*ir.Node, error) {
	if len(args) < f.minArgs || len(args) > f.maxArgs {
		return nil, fmt.Errorf("%w: %s takes %d..%d args, got %d",
			ErrBadArgs, f.name, f.minArgs, f.maxArgs, len(args))
	}
	if v == nil && !f.source {
		return nil, fmt.Errorf("%w: %s transforms a piped value and cannot start an expression",
			ErrBadArgs, f.name)
	}
	return f.apply(ev, v, args)
}
