package scan

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/dmyersturnbull/tyranno/debug"
)

type Kind int

const (
	Inline Kind = iota
	BlockStart
	BlockEnd
	Alias
)

func (k Kind) String() string {
	switch k {
	case Inline:
		return "inline"
	case BlockStart:
		return "start"
	case BlockEnd:
		return "end"
	case Alias:
		return "alias"
	default:
		return "<kind>"
	}
}

// A Directive is one recognized marker line. Line numbers are 1-based.
// For Alias directives, Name and Expr hold the two sides of the
// declaration; for the others, Template holds the text after the
// marker.
type Directive struct {
	File     string
	Line     int
	Kind     Kind
	Template string
	Name     string
	Expr     string
	Tokens   TokenPair
}

// ParseError reports a malformed or unbalanced marker.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

var (
	regexMu sync.Mutex
	regexes = map[TokenPair]*regexp.Regexp{}
)

// markerRegex matches a whole directive line for one comment syntax:
// optional indent, the comment opener, the marker with an optional
// word (start/end/alias), the template text, and for multi-line
// comment styles the closer plus anything after it.
func markerRegex(pair TokenPair) *regexp.Regexp {
	regexMu.Lock()
	defer regexMu.Unlock()
	if re, ok := regexes[pair]; ok {
		return re
	}
	pattern := `^\s*` + regexp.QuoteMeta(pair.Start) +
		`\s*::tyranno(?: (start|end|alias))?::(.*?)`
	if pair.IsMultiline() {
		pattern += regexp.QuoteMeta(pair.End) + `.*`
	}
	pattern += `$`
	re := regexp.MustCompile(pattern)
	regexes[pair] = re
	return re
}

// Match classifies one line, returning nil when it is not a directive.
func Match(file string, lineNo int, line string, pair TokenPair) (*Directive, error) {
	m := markerRegex(pair).FindStringSubmatch(line)
	if m == nil {
		return nil, nil
	}
	d := &Directive{
		File:     file,
		Line:     lineNo,
		Template: strings.TrimRight(m[2], " \t"),
		Tokens:   pair,
	}
	switch m[1] {
	case "":
		d.Kind = Inline
	case "start":
		d.Kind = BlockStart
	case "end":
		d.Kind = BlockEnd
	case "alias":
		d.Kind = Alias
		name, expr, ok := strings.Cut(d.Template, "=")
		if !ok {
			return nil, &ParseError{File: file, Line: lineNo,
				Msg: fmt.Sprintf("alias %q needs the form 'name = expression'", d.Template)}
		}
		d.Name = strings.TrimSpace(name)
		d.Expr = strings.TrimSpace(expr)
		if d.Name == "" || d.Expr == "" {
			return nil, &ParseError{File: file, Line: lineNo,
				Msg: fmt.Sprintf("alias %q needs the form 'name = expression'", d.Template)}
		}
	}
	if d.Kind != Alias {
		d.Template = strings.TrimPrefix(d.Template, " ")
	}
	if debug.Scan() {
		debug.Logf("%s:%d: %s directive %q\n", file, lineNo, d.Kind, d.Template)
	}
	return d, nil
}

// File scans all lines of one file, checking that start/end markers
// balance. Lines are as split from the file, without terminators.
func File(file string, lines []string) ([]Directive, error) {
	pair, ok := Tokens(file)
	if !ok {
		return nil, nil
	}
	var (
		res       []Directive
		openStart int
	)
	for i, line := range lines {
		d, err := Match(file, i+1, line, pair)
		if err != nil {
			return nil, err
		}
		if d == nil {
			continue
		}
		switch d.Kind {
		case BlockStart:
			if openStart != 0 {
				return nil, &ParseError{File: file, Line: i + 1,
					Msg: fmt.Sprintf("nested block start (previous start at line %d)", openStart)}
			}
			openStart = i + 1
		case BlockEnd:
			if openStart == 0 {
				return nil, &ParseError{File: file, Line: i + 1, Msg: "block end without start"}
			}
			openStart = 0
		}
		res = append(res, *d)
	}
	if openStart != 0 {
		return nil, &ParseError{File: file, Line: openStart, Msg: "block start without end"}
	}
	return res, nil
}
