package token

import (
	"gaut/internal/source"
)

// Token is a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string // identifier or literal text, decoded for strings
	Int  int64  // value for IntLit
}

// IsLiteral reports whether the token is an integer, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwImport, KwGlobal, KwMut, KwType, KwIf, KwThen, KwElse, KwCopy, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

var keywords = map[string]Kind{
	"import": KwImport,
	"global": KwGlobal,
	"mut":    KwMut,
	"type":   KwType,
	"if":     KwIf,
	"then":   KwThen,
	"else":   KwElse,
	"copy":   KwCopy,
	"true":   KwTrue,
	"false":  KwFalse,
}

// LookupKeyword reports whether ident is a keyword. Keywords are
// case-sensitive; only lowercase spellings are recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
