package diag

import (
	"testing"

	"gaut/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		b.Add(NewError(SemaTypeMismatch, source.Span{File: 1, Start: uint32(i)}, "x"))
	}
	if b.Len() != 2 {
		t.Errorf("Len = %d, want 2", b.Len())
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(SemaUseAfterMove, source.Span{File: 2, Start: 5, End: 6}, "later file"))
	b.Add(NewError(SemaTypeMismatch, source.Span{File: 1, Start: 9, End: 10}, "later offset"))
	b.Add(NewError(SemaLifetimeEscape, source.Span{File: 1, Start: 3, End: 4}, "first"))
	b.Sort()

	items := b.Items()
	if items[0].Code != SemaLifetimeEscape {
		t.Errorf("first diagnostic = %s", items[0].Code)
	}
	if items[1].Code != SemaTypeMismatch {
		t.Errorf("second diagnostic = %s", items[1].Code)
	}
	if items[2].Code != SemaUseAfterMove {
		t.Errorf("third diagnostic = %s", items[2].Code)
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(10)
	sp := source.Span{File: 1, Start: 1, End: 2}
	b.Add(NewError(SemaUseAfterMove, sp, "a"))
	b.Add(NewError(SemaUseAfterMove, sp, "b"))
	b.Add(NewError(SemaInvalidBorrow, sp, "c"))
	b.Dedup()
	if b.Len() != 2 {
		t.Errorf("Len after Dedup = %d, want 2", b.Len())
	}
}

func TestHasErrors(t *testing.T) {
	b := NewBag(4)
	b.Add(New(SevWarning, UnknownCode, source.Span{}, "warn"))
	if b.HasErrors() {
		t.Error("warning-only bag must not report errors")
	}
	b.Add(NewError(SemaMissingType, source.Span{}, "err"))
	if !b.HasErrors() {
		t.Error("expected HasErrors after adding an error")
	}
}
