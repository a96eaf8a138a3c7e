// Package syncer rewrites the directive-owned regions of target files
// from the metadata document: an alias pass, an evaluate-everything
// phase, then atomic in-place writes.
package syncer

import "fmt"

// A Delta is one generated line alongside the original.
type Delta struct {
	Template string
	OldLine  string
	NewLine  string
}

func (d Delta) IsModified() bool {
	return d.OldLine != d.NewLine
}

// A DeltaBlock is the old and new lines of one rewritten region.
type DeltaBlock struct {
	Kind      string // "inline" or "block"
	Path      string
	FirstLine int // 1-based line of the first replaced line
	Templates []string
	OldLines  []string
	NewLines  []string
}

func (b *DeltaBlock) Len() int {
	return max(len(b.OldLines), len(b.NewLines))
}

func (b *DeltaBlock) LastLine() int {
	return b.FirstLine + len(b.OldLines) - 1
}

// Modified counts lines that differ between the old and new region.
func (b *DeltaBlock) Modified() int {
	n := 0
	for i := 0; i < b.Len(); i++ {
		if b.at(b.OldLines, i) != b.at(b.NewLines, i) {
			n++
		}
	}
	return n
}

func (b *DeltaBlock) at(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}

func (b *DeltaBlock) String() string {
	l0, ln := b.FirstLine, b.LastLine()
	switch {
	case b.Modified() == 0 && l0 == ln:
		return fmt.Sprintf("%s:%d: unchanged", b.Path, l0)
	case b.Modified() == 0:
		return fmt.Sprintf("%s:%d-%d: unchanged", b.Path, l0, ln)
	case len(b.OldLines) == 1 && len(b.NewLines) == 1:
		return fmt.Sprintf("%s:%d: edited from %q to %q", b.Path, l0, b.OldLines[0], b.NewLines[0])
	default:
		return fmt.Sprintf("%s:%d-%d: edited (%d lines differ)", b.Path, l0, ln, b.Modified())
	}
}
