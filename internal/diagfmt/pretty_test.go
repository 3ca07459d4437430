package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gaut/internal/diag"
	"gaut/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("main.gaut", []byte("main() = {\n  s: Str = other\n}\n"))
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.SemaUnknownName,
		source.Span{File: id, Start: 22, End: 27},
		"unknown name 'other'"))
	return bag, fs
}

func TestPrettyFormat(t *testing.T) {
	bag, fs := sampleBag(t)
	var out bytes.Buffer
	Pretty(&out, bag, fs, PrettyOpts{})

	got := out.String()
	if !strings.Contains(got, "main.gaut:2:12: ERROR UnknownName: unknown name 'other'") {
		t.Fatalf("header missing:\n%s", got)
	}
	if !strings.Contains(got, "s: Str = other") {
		t.Fatalf("context line missing:\n%s", got)
	}
	if !strings.Contains(got, "^~~~~") {
		t.Fatalf("underline missing:\n%s", got)
	}
}

func TestPrettyMaxTruncates(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("a.gaut", []byte("x\ny\nz\n"))
	bag := diag.NewBag(8)
	for i := 0; i < 3; i++ {
		bag.Add(diag.NewError(diag.SemaTypeMismatch,
			source.Span{File: id, Start: 0, End: 1}, "boom"))
	}
	var out bytes.Buffer
	Pretty(&out, bag, fs, PrettyOpts{Max: 1})
	if !strings.Contains(out.String(), "2 more diagnostic(s)") {
		t.Fatalf("truncation notice missing:\n%s", out.String())
	}
}

func TestPrettyNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("a.gaut", []byte("line one\n"))
	bag := diag.NewBag(8)
	d := diag.NewError(diag.SemaUseAfterMove,
		source.Span{File: id, Start: 0, End: 4}, "value moved")
	d = d.WithNote(source.Span{File: id, Start: 5, End: 8}, "moved here")
	bag.Add(d)

	var out bytes.Buffer
	Pretty(&out, bag, fs, PrettyOpts{ShowNotes: true})
	if !strings.Contains(out.String(), "note: moved here") {
		t.Fatalf("note missing:\n%s", out.String())
	}
}

func TestJSONShape(t *testing.T) {
	bag, fs := sampleBag(t)
	var out bytes.Buffer
	if err := JSON(&out, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}

	var decoded DiagnosticsOutput
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Count != 1 || len(decoded.Diagnostics) != 1 {
		t.Fatalf("decoded = %+v", decoded)
	}
	d := decoded.Diagnostics[0]
	if d.Code != "GAUT3007" || d.Name != "UnknownName" || d.Severity != "ERROR" {
		t.Fatalf("diagnostic = %+v", d)
	}
	if d.Location.File != "main.gaut" || d.Location.Line != 2 {
		t.Fatalf("location = %+v", d.Location)
	}
}
