// Package ast defines the syntax tree produced by the parser and consumed
// by the checker and code generator.
package ast

import (
	"strings"

	"gaut/internal/source"
)

// Program is one fully-loaded compilation unit: the entry file plus all
// imports, flattened in dependency order.
type Program struct {
	Decls []Decl
}

// Decl is a top-level declaration.
type Decl interface {
	Span() source.Span
	decl()
}

// Ident is a source identifier.
type Ident struct {
	Name string
	Sp   source.Span
}

func (i Ident) Span() source.Span { return i.Sp }

// ImportDecl pulls another module's declarations into the program.
type ImportDecl struct {
	Module Ident
	Sp     source.Span
}

// GlobalDecl introduces a process-lifetime binding.
type GlobalDecl struct {
	Binding *Binding
}

// LetDecl introduces a top-level binding with ordinary block rules.
type LetDecl struct {
	Binding *Binding
}

// TypeDecl names a type.
type TypeDecl struct {
	Name Ident
	Ty   TypeExpr
	Sp   source.Span
}

// FuncDecl declares a function. Ret is nil when the return type is omitted;
// the checker resolves it from the body.
type FuncDecl struct {
	Name   Ident
	Params []Param
	Ret    TypeExpr
	Body   Expr
	Sp     source.Span
}

// Binding pairs a name with its declared type and initial value.
type Binding struct {
	Mutable bool
	Name    Ident
	Ty      TypeExpr
	Value   Expr
	Sp      source.Span
}

// Param is a function parameter; lifetime is the function body's outermost
// block.
type Param struct {
	Mutable bool
	Name    Ident
	Ty      TypeExpr
}

func (d *ImportDecl) Span() source.Span { return d.Sp }
func (d *GlobalDecl) Span() source.Span { return d.Binding.Sp }
func (d *LetDecl) Span() source.Span    { return d.Binding.Sp }
func (d *TypeDecl) Span() source.Span   { return d.Sp }
func (d *FuncDecl) Span() source.Span   { return d.Sp }

func (*ImportDecl) decl() {}
func (*GlobalDecl) decl() {}
func (*LetDecl) decl()    {}
func (*TypeDecl) decl()   {}
func (*FuncDecl) decl()   {}

// Path is a dotted access chain rooted at a binding name: a or a.b.c.
type Path struct {
	Idents []Ident
}

// Root returns the binding name the path starts from.
func (p Path) Root() Ident {
	if len(p.Idents) == 0 {
		return Ident{}
	}
	return p.Idents[0]
}

func (p Path) Span() source.Span {
	if len(p.Idents) == 0 {
		return source.Span{}
	}
	sp := p.Idents[0].Sp
	return sp.Cover(p.Idents[len(p.Idents)-1].Sp)
}

func (p Path) String() string {
	parts := make([]string, len(p.Idents))
	for i, id := range p.Idents {
		parts[i] = id.Name
	}
	return strings.Join(parts, ".")
}
