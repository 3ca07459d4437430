package ast

import (
	"gaut/internal/source"
)

// Expr is any expression node.
type Expr interface {
	Span() source.Span
	expr()
}

// IntLit is an integer literal; Gaut integers default to i32.
type IntLit struct {
	Value int64
	Sp    source.Span
}

// BoolLit is 'true' or 'false'.
type BoolLit struct {
	Value bool
	Sp    source.Span
}

// StrLit is a double-quoted string literal, already unescaped.
type StrLit struct {
	Value string
	Sp    source.Span
}

// UnitLit is the implicit unit value of an empty block tail.
type UnitLit struct {
	Sp source.Span
}

// PathExpr reads a binding or a field chain rooted at one.
type PathExpr struct {
	Path Path
}

// CopyExpr is the explicit copy operator; the source binding stays Owned.
type CopyExpr struct {
	X  Expr
	Sp source.Span
}

// RefExpr borrows its operand: &expr.
type RefExpr struct {
	X  Expr
	Sp source.Span
}

// CallExpr invokes a function by name.
type CallExpr struct {
	Callee Path
	Args   []Expr
	Sp     source.Span
}

// IfExpr is the expression form 'if c then a else b'; both branches must
// agree on type.
type IfExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Sp   source.Span
}

// BlockExpr is a brace-delimited block used in expression position.
type BlockExpr struct {
	Block *Block
}

// Block is an ordered statement list with an optional trailing expression.
type Block struct {
	Stmts []Stmt
	Tail  Expr // nil implies unit
	Sp    source.Span
}

// RecordLit constructs an anonymous record value: { x: 0, y: 0 }.
type RecordLit struct {
	Fields []FieldInit
	Sp     source.Span
}

// FieldInit is one field of a record literal.
type FieldInit struct {
	Name  Ident
	Value Expr
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Op UnaryOp
	X  Expr
	Sp source.Span
}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (e *IntLit) Span() source.Span     { return e.Sp }
func (e *BoolLit) Span() source.Span    { return e.Sp }
func (e *StrLit) Span() source.Span     { return e.Sp }
func (e *UnitLit) Span() source.Span    { return e.Sp }
func (e *PathExpr) Span() source.Span   { return e.Path.Span() }
func (e *CopyExpr) Span() source.Span   { return e.Sp }
func (e *RefExpr) Span() source.Span    { return e.Sp }
func (e *CallExpr) Span() source.Span   { return e.Sp }
func (e *IfExpr) Span() source.Span     { return e.Sp }
func (e *BlockExpr) Span() source.Span  { return e.Block.Sp }
func (e *RecordLit) Span() source.Span  { return e.Sp }
func (e *UnaryExpr) Span() source.Span  { return e.Sp }
func (e *BinaryExpr) Span() source.Span { return e.Left.Span().Cover(e.Right.Span()) }

func (*IntLit) expr()     {}
func (*BoolLit) expr()    {}
func (*StrLit) expr()     {}
func (*UnitLit) expr()    {}
func (*PathExpr) expr()   {}
func (*CopyExpr) expr()   {}
func (*RefExpr) expr()    {}
func (*CallExpr) expr()   {}
func (*IfExpr) expr()     {}
func (*BlockExpr) expr()  {}
func (*RecordLit) expr()  {}
func (*UnaryExpr) expr()  {}
func (*BinaryExpr) expr() {}
