package query

import (
	"regexp"
	"strings"
)

var exprRe = regexp.MustCompile(`\$<<(.*?)>>`)

// Expand substitutes every $<<...>> in text with its evaluated value.
// The first error aborts the expansion.
func (ev *Evaluator) Expand(text string) (string, error) {
	var firstErr error
	out := exprRe.ReplaceAllStringFunc(text, func(m string) string {
		if firstErr != nil {
			return m
		}
		body := strings.TrimSpace(m[len("$<<") : len(m)-len(">>")])
		s, err := ev.ResolveString(body)
		if err != nil {
			firstErr = &ResolveError{Expr: body, Err: err}
			return m
		}
		return s
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
