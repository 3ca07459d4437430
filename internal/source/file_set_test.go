package source

import (
	"testing"
)

func TestFileSetAddAndGet(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("main.gaut", []byte("main() = {\n  1\n}\n"))
	if id == NoFileID {
		t.Fatal("expected non-zero file id")
	}
	f := fs.Get(id)
	if f == nil {
		t.Fatal("expected file back")
	}
	if f.Path != "main.gaut" {
		t.Errorf("path = %q, want main.gaut", f.Path)
	}
	if fs.Get(NoFileID) != nil {
		t.Error("NoFileID must resolve to nil")
	}
}

func TestPositionResolution(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.gaut", []byte("abc\ndef\nghi"))
	f := fs.Get(id)

	tests := []struct {
		offset uint32
		line   uint32
		col    uint32
	}{
		{0, 1, 1},
		{2, 1, 3},
		{4, 2, 1},
		{6, 2, 3},
		{8, 3, 1},
		{10, 3, 3},
	}
	for _, tt := range tests {
		pos := f.Position(tt.offset)
		if pos.Line != tt.line || pos.Col != tt.col {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, pos.Line, pos.Col, tt.line, tt.col)
		}
	}
}

func TestLineExtraction(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.gaut", []byte("first\nsecond\r\nthird"))
	f := fs.Get(id)

	if got := string(f.Line(1)); got != "first" {
		t.Errorf("Line(1) = %q", got)
	}
	if got := string(f.Line(2)); got != "second" {
		t.Errorf("Line(2) = %q", got)
	}
	if got := string(f.Line(3)); got != "third" {
		t.Errorf("Line(3) = %q", got)
	}
	if f.Line(4) != nil {
		t.Error("Line(4) must be nil")
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 15}
	got := a.Cover(b)
	if got.Start != 5 || got.End != 20 {
		t.Errorf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("cross-file Cover must be identity, got %v", got)
	}
}
