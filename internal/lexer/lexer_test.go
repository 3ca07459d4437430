package lexer

import (
	"testing"

	"gaut/internal/diag"
	"gaut/internal/source"
	"gaut/internal/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("test.gaut", []byte(src))
	return New(fs.Get(id), diag.NopReporter{}).Tokenize()
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestScanBindingLine(t *testing.T) {
	toks := tokenize(t, "mut count: i32 = 41 + 1")
	want := []token.Kind{
		token.KwMut, token.Ident, token.Colon, token.Ident, token.Assign,
		token.IntLit, token.Plus, token.IntLit, token.EOF,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
	if toks[5].Int != 41 {
		t.Errorf("int value = %d, want 41", toks[5].Int)
	}
}

func TestScanOperators(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{"->", token.Arrow},
		{"-", token.Minus},
		{"==", token.EqEq},
		{"=", token.Assign},
		{"&&", token.AndAnd},
		{"&", token.Amp},
		{"||", token.OrOr},
		{"<", token.Lt},
		{"!", token.Bang},
	}
	for _, tt := range tests {
		toks := tokenize(t, tt.src)
		if toks[0].Kind != tt.kind {
			t.Errorf("%q scanned as %s, want %s", tt.src, toks[0].Kind, tt.kind)
		}
	}
}

func TestScanStringEscapes(t *testing.T) {
	toks := tokenize(t, `"hello\n\"world\""`)
	if toks[0].Kind != token.StringLit {
		t.Fatalf("kind = %s", toks[0].Kind)
	}
	if toks[0].Text != "hello\n\"world\"" {
		t.Errorf("text = %q", toks[0].Text)
	}
}

func TestKeywordsAndComments(t *testing.T) {
	toks := tokenize(t, "# a comment\nif true then copy else global")
	want := []token.Kind{
		token.KwIf, token.KwTrue, token.KwThen, token.KwCopy, token.KwElse, token.KwGlobal, token.EOF,
	}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestUnterminatedStringReported(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("test.gaut", []byte("\"oops"))
	bag := diag.NewBag(4)
	New(fs.Get(id), diag.BagReporter{Bag: bag}).Tokenize()
	if !bag.HasErrors() {
		t.Fatal("expected an error for unterminated string")
	}
	if bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Errorf("code = %s", bag.Items()[0].Code)
	}
}

func TestSpansCoverSource(t *testing.T) {
	toks := tokenize(t, "abc def")
	if toks[0].Span.Start != 0 || toks[0].Span.End != 3 {
		t.Errorf("first span = %v", toks[0].Span)
	}
	if toks[1].Span.Start != 4 || toks[1].Span.End != 7 {
		t.Errorf("second span = %v", toks[1].Span)
	}
}
