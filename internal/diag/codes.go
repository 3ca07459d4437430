package diag

import (
	"fmt"
)

// Code identifies a diagnostic kind. Lexical codes live in the 1000 range,
// syntactic in 2000, semantic (ownership/lifetime/type) in 3000.
type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Syntactic
	SynUnexpectedToken Code = 2001
	SynUnexpectedEOF   Code = 2002
	SynExpectType      Code = 2003
	SynExpectIdent     Code = 2004

	// Semantic
	SemaMissingType         Code = 3001
	SemaTypeMismatch        Code = 3002
	SemaUseAfterMove        Code = 3003
	SemaInvalidBorrow       Code = 3004
	SemaLifetimeEscape      Code = 3005
	SemaImmutableAssignment Code = 3006
	SemaUnknownName         Code = 3007
	SemaUnknownType         Code = 3008
	SemaUnknownFunc         Code = 3009
	SemaArityMismatch       Code = 3010
	SemaMainHasParams       Code = 3011
	SemaDuplicateDecl       Code = 3012
	SemaUnresolvedReturn    Code = 3013
	SemaUnknownField        Code = 3014
)

var codeNames = map[Code]string{
	UnknownCode:             "Unknown",
	LexUnknownChar:          "UnknownChar",
	LexUnterminatedString:   "UnterminatedString",
	LexBadNumber:            "BadNumber",
	SynUnexpectedToken:      "UnexpectedToken",
	SynUnexpectedEOF:        "UnexpectedEOF",
	SynExpectType:           "ExpectType",
	SynExpectIdent:          "ExpectIdent",
	SemaMissingType:         "MissingType",
	SemaTypeMismatch:        "TypeMismatch",
	SemaUseAfterMove:        "UseAfterMove",
	SemaInvalidBorrow:       "InvalidBorrow",
	SemaLifetimeEscape:      "LifetimeEscape",
	SemaImmutableAssignment: "ImmutableAssignment",
	SemaUnknownName:         "UnknownName",
	SemaUnknownType:         "UnknownType",
	SemaUnknownFunc:         "UnknownFunc",
	SemaArityMismatch:       "ArityMismatch",
	SemaMainHasParams:       "MainHasParams",
	SemaDuplicateDecl:       "DuplicateDecl",
	SemaUnresolvedReturn:    "UnresolvedReturn",
	SemaUnknownField:        "UnknownField",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("GAUT%04d", uint16(c))
}

// ID returns the stable numeric form used in machine-readable output.
func (c Code) ID() string {
	return fmt.Sprintf("GAUT%04d", uint16(c))
}
