package syncer

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	addColor = color.New(color.FgGreen)
	delColor = color.New(color.FgRed)
	hdrColor = color.New(color.Bold)
)

// WriteDiff prints a line diff of one result. Color is controlled by
// the fatih/color globals, which the CLI sets from the tty and flags.
func WriteDiff(w io.Writer, res *Result) error {
	if !res.Changed() {
		return nil
	}
	if _, err := hdrColor.Fprintf(w, "--- %s\n+++ %s\n", res.Path, res.Path); err != nil {
		return err
	}
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(res.OldText, res.NewText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)
	for _, d := range diffs {
		lines := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")
		for _, line := range lines {
			var err error
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				_, err = addColor.Fprintf(w, "+%s\n", line)
			case diffmatchpatch.DiffDelete:
				_, err = delColor.Fprintf(w, "-%s\n", line)
			default:
				_, err = fmt.Fprintf(w, " %s\n", line)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
