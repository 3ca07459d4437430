package ast

import (
	"gaut/internal/source"
)

// Stmt is a statement inside a block.
type Stmt interface {
	Span() source.Span
	stmt()
}

// BindingStmt introduces a block-local binding.
type BindingStmt struct {
	Binding *Binding
}

// AssignStmt writes to a path; the root binding must be mut.
type AssignStmt struct {
	Target Path
	Value  Expr
	Sp     source.Span
}

// ExprStmt evaluates an expression for effect.
type ExprStmt struct {
	X Expr
}

func (s *BindingStmt) Span() source.Span { return s.Binding.Sp }
func (s *AssignStmt) Span() source.Span  { return s.Sp }
func (s *ExprStmt) Span() source.Span    { return s.X.Span() }

func (*BindingStmt) stmt() {}
func (*AssignStmt) stmt()  {}
func (*ExprStmt) stmt()    {}
