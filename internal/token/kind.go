package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit represents an integer literal.
	IntLit
	// StringLit represents a string literal.
	StringLit

	// KwImport represents the 'import' keyword.
	KwImport // import
	// KwGlobal represents the 'global' keyword.
	KwGlobal // global
	// KwMut represents the 'mut' keyword.
	KwMut // mut
	// KwType represents the 'type' keyword.
	KwType // type
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwThen represents the 'then' keyword.
	KwThen // then
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwCopy represents the 'copy' keyword.
	KwCopy // copy
	// KwTrue represents the 'true' literal keyword.
	KwTrue // true
	// KwFalse represents the 'false' literal keyword.
	KwFalse // false

	// LBrace is '{'.
	LBrace // {
	// RBrace is '}'.
	RBrace // }
	// LParen is '('.
	LParen // (
	// RParen is ')'.
	RParen // )
	// Colon is ':'.
	Colon // :
	// Comma is ','.
	Comma // ,
	// Dot is '.'.
	Dot // .
	// Assign is '='.
	Assign // =
	// Arrow is '->'.
	Arrow // ->
	// Amp is '&'.
	Amp // &
	// Plus is '+'.
	Plus // +
	// Minus is '-'.
	Minus // -
	// Star is '*'.
	Star // *
	// Slash is '/'.
	Slash // /
	// Lt is '<'.
	Lt // <
	// EqEq is '=='.
	EqEq // ==
	// AndAnd is '&&'.
	AndAnd // &&
	// OrOr is '||'.
	OrOr // ||
	// Bang is '!'.
	Bang // !
)

var kindNames = [...]string{
	Invalid:   "invalid",
	EOF:       "eof",
	Ident:     "ident",
	IntLit:    "int",
	StringLit: "string",
	KwImport:  "import",
	KwGlobal:  "global",
	KwMut:     "mut",
	KwType:    "type",
	KwIf:      "if",
	KwThen:    "then",
	KwElse:    "else",
	KwCopy:    "copy",
	KwTrue:    "true",
	KwFalse:   "false",
	LBrace:    "{",
	RBrace:    "}",
	LParen:    "(",
	RParen:    ")",
	Colon:     ":",
	Comma:     ",",
	Dot:       ".",
	Assign:    "=",
	Arrow:     "->",
	Amp:       "&",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Lt:        "<",
	EqEq:      "==",
	AndAnd:    "&&",
	OrOr:      "||",
	Bang:      "!",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}
