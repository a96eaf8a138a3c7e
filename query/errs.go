package query

import (
	"errors"
	"fmt"
)

var (
	ErrFuncExists  = errors.New("function exists")
	ErrUnknownFunc = errors.New("unknown function")
	ErrBadArgs     = errors.New("bad arguments")
)

// ResolveError reports a failed expression with its source location.
type ResolveError struct {
	File string
	Line int
	Expr string
	Err  error
}

func (e *ResolveError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("$<<%s>>: %s", e.Expr, e.Err)
	}
	return fmt.Sprintf("%s:%d: $<<%s>>: %s", e.File, e.Line, e.Expr, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
