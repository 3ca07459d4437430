package ast

import (
	"gaut/internal/source"
)

// TypeExpr is a type as written in source, before resolution.
type TypeExpr interface {
	Span() source.Span
	typeExpr()
}

// NamedType references a primitive or a declared type by name.
type NamedType struct {
	Name Ident
}

// RefType is the borrow type &T.
type RefType struct {
	Elem TypeExpr
	Sp   source.Span
}

// RecordType is a structural record type: { x: i32, y: i32 }.
// Field-level mutability does not exist; only binding-level.
type RecordType struct {
	Fields []FieldType
	Sp     source.Span
}

// FieldType is one field of a record type.
type FieldType struct {
	Name Ident
	Ty   TypeExpr
}

func (t *NamedType) Span() source.Span  { return t.Name.Sp }
func (t *RefType) Span() source.Span    { return t.Sp }
func (t *RecordType) Span() source.Span { return t.Sp }

func (*NamedType) typeExpr()  {}
func (*RefType) typeExpr()    {}
func (*RecordType) typeExpr() {}

// Ops

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	// UnaryNeg is arithmetic negation.
	UnaryNeg UnaryOp = iota
	// UnaryNot is boolean negation.
	UnaryNot
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNeg:
		return "-"
	case UnaryNot:
		return "!"
	}
	return "?"
}

// BinaryOp is an infix operator.
type BinaryOp uint8

const (
	// BinAdd is '+': i32 addition or Str/Bytes concatenation.
	BinAdd BinaryOp = iota
	// BinSub is '-'.
	BinSub
	// BinMul is '*'.
	BinMul
	// BinDiv is '/'.
	BinDiv
	// BinLt is '<'.
	BinLt
	// BinEq is '=='.
	BinEq
	// BinAnd is '&&'.
	BinAnd
	// BinOr is '||'.
	BinOr
)

func (op BinaryOp) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinLt:
		return "<"
	case BinEq:
		return "=="
	case BinAnd:
		return "&&"
	case BinOr:
		return "||"
	}
	return "?"
}
