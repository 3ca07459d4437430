// Package diagfmt renders diagnostics for humans and machines.
package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"gaut/internal/diag"
	"gaut/internal/source"
)

// Pretty writes bag's diagnostics in a human-readable form. Callers are
// expected to Sort the bag first. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline over the span, then
// notes in the same shape when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	sev := map[diag.Severity]*color.Color{
		diag.SevError:   color.New(color.FgRed, color.Bold),
		diag.SevWarning: color.New(color.FgYellow, color.Bold),
		diag.SevInfo:    color.New(color.FgCyan),
	}
	caret := color.New(color.FgGreen)
	for _, c := range sev {
		if !opts.Color {
			c.DisableColor()
		}
	}
	if !opts.Color {
		caret.DisableColor()
	}

	items := bag.Items()
	shown := len(items)
	if opts.Max > 0 && shown > opts.Max {
		shown = opts.Max
	}
	for _, d := range items[:shown] {
		writeOne(w, fs, d.Primary, sev[d.Severity].Sprintf("%s %s", d.Severity, d.Code), d.Message, opts)
		printContext(w, fs, d.Primary, caret)
		if opts.ShowNotes {
			for _, note := range d.Notes {
				writeOne(w, fs, note.Span, "note", note.Msg, opts)
				printContext(w, fs, note.Span, caret)
			}
		}
	}
	if shown < len(items) {
		fmt.Fprintf(w, "... and %d more diagnostic(s)\n", len(items)-shown)
	}
}

func writeOne(w io.Writer, fs *source.FileSet, sp source.Span, label, msg string, opts PrettyOpts) {
	path, pos := fs.PositionFor(sp)
	if opts.PathMode == PathModeBasename {
		path = filepath.Base(path)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, pos.Line, pos.Col, label, msg)
}

func printContext(w io.Writer, fs *source.FileSet, sp source.Span, caret *color.Color) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	pos := f.Position(sp.Start)
	line := f.Line(pos.Line)
	if line == nil {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)

	width := int(sp.Len())
	if width < 1 {
		width = 1
	}
	// clamp the underline to the visible line
	col := int(pos.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	if col+width > len(line)+1 {
		width = len(line) + 1 - col
		if width < 1 {
			width = 1
		}
	}
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", col), caret.Sprint(underline))
}
