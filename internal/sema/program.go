// Package sema implements the ownership and lifetime checker: a single
// linear pass per function over the parsed AST, tracking binding ownership
// states and block-depth origins. No inference; every binding and parameter
// carries an explicit type, only omitted function return types are resolved
// from bodies via a deferral worklist.
package sema

import (
	"gaut/internal/ast"
	"gaut/internal/types"
)

// Program is the checker's output: the AST plus the resolved facts the
// code generator and interpreter consume without re-deriving anything.
type Program struct {
	AST *ast.Program

	// Funcs holds resolved signatures for every user function, keyed by
	// name; FuncOrder preserves declaration order for deterministic
	// emission.
	Funcs     map[string]*FuncInfo
	FuncOrder []string

	// Globals lists top-level bindings in declaration order.
	Globals []*GlobalInfo

	// Aliases maps declared type names to their resolved types;
	// AliasOrder preserves declaration order.
	Aliases    map[string]types.Type
	AliasOrder []string

	// ExprTypes records the resolved type of every checked expression,
	// keyed by node identity.
	ExprTypes map[ast.Expr]types.Type
}

// FuncInfo is a resolved function signature.
type FuncInfo struct {
	Decl   *ast.FuncDecl
	Params []ParamInfo
	Ret    types.Type
}

// ReturnsHeapValue reports whether the function's return value must be
// promoted out of the callee's arena. Str and Bytes results are built in
// arena scratch space and survive the return only through promotion.
func (f *FuncInfo) ReturnsHeapValue() bool {
	return f.Ret.IsStr() || f.Ret.IsBytes()
}

// ParamInfo is one resolved parameter.
type ParamInfo struct {
	Name    string
	Ty      types.Type
	Mutable bool
}

// GlobalInfo is one resolved top-level binding.
type GlobalInfo struct {
	Decl    *ast.Binding
	Name    string
	Ty      types.Type
	Mutable bool

	// Global distinguishes 'global' declarations from top-level lets;
	// both have process lifetime, globals are addressable from any
	// function.
	Global bool
}

// TypeOf returns the recorded type of e, or KindInvalid when the
// expression was never reached by the checker.
func (p *Program) TypeOf(e ast.Expr) types.Type {
	if p == nil || p.ExprTypes == nil {
		return types.Type{}
	}
	return p.ExprTypes[e]
}

// Func returns the resolved signature for name.
func (p *Program) Func(name string) (*FuncInfo, bool) {
	if p == nil {
		return nil, false
	}
	f, ok := p.Funcs[name]
	return f, ok
}
