package syncer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmyersturnbull/tyranno/query"
	"github.com/dmyersturnbull/tyranno/scan"
)

// rewriteLines produces the new content of one file. Directive comment
// lines pass through verbatim; each run of consecutive inline
// directives replaces the same number of following lines, and a block
// start's rendered template replaces everything up to its end marker.
func rewriteLines(file string, lines []string, ds []scan.Directive, ev *query.Evaluator) ([]string, []*DeltaBlock, error) {
	byLine := make(map[int]*scan.Directive, len(ds))
	for i := range ds {
		byLine[ds[i].Line] = &ds[i]
	}
	var (
		out    []string
		blocks []*DeltaBlock
	)
	i := 0
	for i < len(lines) {
		d := byLine[i+1]
		if d == nil {
			out = append(out, lines[i])
			i++
			continue
		}
		switch d.Kind {
		case scan.Alias:
			out = append(out, lines[i])
			i++
		case scan.Inline:
			var err error
			i, out, blocks, err = rewriteInlineRun(file, lines, byLine, i, out, blocks, ev)
			if err != nil {
				return nil, nil, err
			}
		case scan.BlockStart:
			var err error
			i, out, blocks, err = rewriteBlock(file, lines, byLine, i, out, blocks, d, ev)
			if err != nil {
				return nil, nil, err
			}
		default:
			// A bare end marker; balance was checked during the scan.
			out = append(out, lines[i])
			i++
		}
	}
	return out, blocks, nil
}

// rewriteInlineRun handles i pointing at the first of one or more
// consecutive inline directive lines. The run's k directives own the k
// lines that follow it.
func rewriteInlineRun(file string, lines []string, byLine map[int]*scan.Directive, i int, out []string, blocks []*DeltaBlock, ev *query.Evaluator) (int, []string, []*DeltaBlock, error) {
	var run []*scan.Directive
	j := i
	for j < len(lines) {
		d := byLine[j+1]
		if d == nil || d.Kind != scan.Inline {
			break
		}
		run = append(run, d)
		out = append(out, lines[j])
		j++
	}
	// The owned lines are the non-directive lines following the run,
	// one per directive; at a directive or EOF the new lines are
	// inserted instead of replacing.
	consume := 0
	for consume < len(run) && j+consume < len(lines) && byLine[j+consume+1] == nil {
		consume++
	}
	block := &DeltaBlock{
		Kind:      "inline",
		Path:      file,
		FirstLine: j + 1,
		OldLines:  append([]string(nil), lines[j:j+consume]...),
	}
	for _, d := range run {
		rendered, err := expand(ev, d)
		if err != nil {
			return 0, nil, nil, err
		}
		// An inline directive owns exactly one line. Anything wider
		// would outgrow its owned region on the next run.
		if n := strings.Count(rendered, "\n"); n > 0 {
			return 0, nil, nil, fmt.Errorf(
				"%s:%d: result spans %d lines; use a start/end block for multi-line output",
				d.File, d.Line, n+1)
		}
		block.Templates = append(block.Templates, d.Template)
		block.NewLines = append(block.NewLines, rendered)
	}
	out = append(out, block.NewLines...)
	blocks = append(blocks, block)
	return j + len(block.OldLines), out, blocks, nil
}

// rewriteBlock handles i pointing at a block start line. An empty
// start template leaves the interior alone; otherwise the rendered
// template replaces it.
func rewriteBlock(file string, lines []string, byLine map[int]*scan.Directive, i int, out []string, blocks []*DeltaBlock, d *scan.Directive, ev *query.Evaluator) (int, []string, []*DeltaBlock, error) {
	end := -1
	for j := i + 1; j < len(lines); j++ {
		if d2 := byLine[j+1]; d2 != nil && d2.Kind == scan.BlockEnd {
			end = j
			break
		}
	}
	if end < 0 {
		// Unreachable after the scan's balance check.
		return 0, nil, nil, &scan.ParseError{File: file, Line: i + 1, Msg: "block start without end"}
	}
	out = append(out, lines[i])
	interior := lines[i+1 : end]
	if d.Template == "" {
		out = append(out, interior...)
	} else {
		rendered, err := expand(ev, d)
		if err != nil {
			return 0, nil, nil, err
		}
		var newLines []string
		if rendered != "" {
			newLines = strings.Split(rendered, "\n")
		}
		block := &DeltaBlock{
			Kind:      "block",
			Path:      file,
			FirstLine: i + 2,
			Templates: []string{d.Template},
			OldLines:  append([]string(nil), interior...),
			NewLines:  newLines,
		}
		out = append(out, newLines...)
		blocks = append(blocks, block)
	}
	out = append(out, lines[end])
	return end + 1, out, blocks, nil
}

func expand(ev *query.Evaluator, d *scan.Directive) (string, error) {
	rendered, err := ev.Expand(d.Template)
	if err != nil {
		var rerr *query.ResolveError
		if errors.As(err, &rerr) {
			rerr.File = d.File
			rerr.Line = d.Line
		}
		return "", err
	}
	return rendered, nil
}
