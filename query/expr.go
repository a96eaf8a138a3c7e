package query

import (
	"fmt"
	"strings"
)

// An Expression is one parsed $<<...>> body: a head (a dotted path or
// a function call, optionally followed by a field path) piped through
// zero or more named transformations.
type Expression struct {
	Source string
	Path   string // dotted path head; empty when Call is set
	Call   *Call  // call head, e.g. now_utc()
	Tail   string // field path after a call head, e.g. "year"
	Pipes  []Call
}

type Call struct {
	Name string
	Args []string
}

func ParseExpression(src string) (*Expression, error) {
	segs, err := splitTop(src, '|')
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 || strings.TrimSpace(segs[0]) == "" {
		return nil, fmt.Errorf("empty expression")
	}
	res := &Expression{Source: src}
	if err := res.parseHead(strings.TrimSpace(segs[0])); err != nil {
		return nil, err
	}
	for _, seg := range segs[1:] {
		call, err := parseCall(strings.TrimSpace(seg))
		if err != nil {
			return nil, err
		}
		res.Pipes = append(res.Pipes, *call)
	}
	return res, nil
}

func (e *Expression) parseHead(head string) error {
	open := strings.IndexByte(head, '(')
	if open < 0 {
		e.Path = head
		return nil
	}
	close := strings.IndexByte(head, ')')
	if close < open {
		return fmt.Errorf("unbalanced parens in %q", head)
	}
	call, err := parseCall(head[:close+1])
	if err != nil {
		return err
	}
	e.Call = call
	rest := head[close+1:]
	if rest == "" {
		return nil
	}
	if !strings.HasPrefix(rest, ".") {
		return fmt.Errorf("unexpected %q after call in %q", rest, head)
	}
	e.Tail = rest[1:]
	return nil
}

// parseCall parses "fname" or "fname(arg, ...)". Args may be single- or
// double-quoted; bare args are trimmed.
func parseCall(s string) (*Call, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		if !isIdent(s) {
			return nil, fmt.Errorf("invalid function name %q", s)
		}
		return &Call{Name: s}, nil
	}
	if !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("unbalanced parens in %q", s)
	}
	fname := strings.TrimSpace(s[:open])
	if !isIdent(fname) {
		return nil, fmt.Errorf("invalid function name %q", fname)
	}
	body := s[open+1 : len(s)-1]
	if strings.TrimSpace(body) == "" {
		return &Call{Name: fname}, nil
	}
	raw, err := splitTop(body, ',')
	if err != nil {
		return nil, err
	}
	args := make([]string, len(raw))
	for i, a := range raw {
		args[i] = unquoteArg(strings.TrimSpace(a))
	}
	return &Call{Name: fname, Args: args}, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func unquoteArg(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// splitTop splits s on sep outside quotes and parens.
func splitTop(s string, sep byte) ([]string, error) {
	var (
		res   []string
		start int
		depth int
		quote byte
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parens in %q", s)
			}
		case c == sep && depth == 0:
			res = append(res, s[start:i])
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", s)
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parens in %q", s)
	}
	return append(res, s[start:]), nil
}
