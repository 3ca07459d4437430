package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"gaut/internal/diag"
	"gaut/internal/source"
)

// LocationJSON is a span resolved to file coordinates.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	Line      uint32 `json:"line"`
	Col       uint32 `json:"col"`
}

// NoteJSON is a secondary message attached to a diagnostic.
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON is one diagnostic in machine-readable form.
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Name     string       `json:"name"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON report.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// JSON writes bag's diagnostics as one indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if bag != nil {
		items := bag.Items()
		out.Count = len(items)
		if opts.Max > 0 && len(items) > opts.Max {
			items = items[:opts.Max]
		}
		for _, d := range items {
			entry := DiagnosticJSON{
				Severity: d.Severity.String(),
				Code:     d.Code.ID(),
				Name:     d.Code.String(),
				Message:  d.Message,
				Location: makeLocation(d.Primary, fs, opts.PathMode),
			}
			if opts.IncludeNotes {
				for _, note := range d.Notes {
					entry.Notes = append(entry.Notes, NoteJSON{
						Message:  note.Msg,
						Location: makeLocation(note.Span, fs, opts.PathMode),
					})
				}
			}
			out.Diagnostics = append(out.Diagnostics, entry)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func makeLocation(sp source.Span, fs *source.FileSet, mode PathMode) LocationJSON {
	path, pos := fs.PositionFor(sp)
	if mode == PathModeBasename {
		path = filepath.Base(path)
	}
	return LocationJSON{
		File:      path,
		StartByte: sp.Start,
		EndByte:   sp.End,
		Line:      pos.Line,
		Col:       pos.Col,
	}
}
