package sema

import (
	"errors"
	"fmt"

	"gaut/internal/ast"
	"gaut/internal/diag"
	"gaut/internal/source"
	"gaut/internal/types"
)

// Checker runs the ownership and lifetime pass. One error is reported per
// function; checking then continues with the next top-level declaration.
type Checker struct {
	reporter diag.Reporter

	aliases    map[string]types.Type
	aliasOrder []string
	funcs      map[string]*funcSig
	scopes     []frame

	out    *Program
	failed bool
}

// funcSig is a signature during checking. ret stays nil while the return
// type is still unresolved.
type funcSig struct {
	decl *ast.FuncDecl
	ret  *types.Type
}

// semaError carries a diagnostic up to the per-function boundary.
type semaError struct {
	d diag.Diagnostic
}

func (e *semaError) Error() string { return e.d.Message }

// deferredError postpones a function whose callee's return type is not
// resolved yet.
type deferredError struct {
	callee string
	span   source.Span
}

func (e *deferredError) Error() string {
	return fmt.Sprintf("return type of %s not resolved yet", e.callee)
}

func errAt(code diag.Code, sp source.Span, format string, args ...any) error {
	return &semaError{d: diag.NewError(code, sp, fmt.Sprintf(format, args...))}
}

// Check runs the checker over program. On success the returned Program
// carries resolved signatures and per-expression types; on failure it is
// nil and every finding has been handed to reporter.
func Check(program *ast.Program, reporter diag.Reporter) (*Program, bool) {
	c := &Checker{
		reporter: reporter,
		aliases:  make(map[string]types.Type),
		funcs:    make(map[string]*funcSig),
		out: &Program{
			AST:       program,
			Funcs:     make(map[string]*FuncInfo),
			Aliases:   make(map[string]types.Type),
			ExprTypes: make(map[ast.Expr]types.Type),
		},
	}
	for name, ty := range builtinAliases {
		c.aliases[name] = ty
	}

	c.collect(program)
	c.checkDecls(program)

	if c.failed {
		return nil, false
	}
	c.out.Aliases = c.aliases
	c.out.AliasOrder = c.aliasOrder
	return c.out, true
}

// collect is pass 1: type aliases and function signatures, so forward
// references resolve. Duplicates among user declarations are reported and
// the first wins; redeclaring a builtin is an override, not a duplicate.
func (c *Checker) collect(program *ast.Program) {
	for _, decl := range program.Decls {
		switch d := decl.(type) {
		case *ast.TypeDecl:
			if _, seen := c.aliases[d.Name.Name]; seen && builtinAliases[d.Name.Name].Kind == types.KindInvalid {
				c.report(diag.NewError(diag.SemaDuplicateDecl, d.Name.Sp,
					fmt.Sprintf("type %s declared more than once", d.Name.Name)))
				continue
			}
			ty, err := c.resolveType(d.Ty)
			if err != nil {
				c.reportErr(err)
				continue
			}
			if ty.Kind == types.KindRecord {
				ty.Alias = d.Name.Name
			}
			c.aliases[d.Name.Name] = ty
			c.aliasOrder = append(c.aliasOrder, d.Name.Name)
		case *ast.FuncDecl:
			if prev, seen := c.funcs[d.Name.Name]; seen && prev.decl != nil {
				c.report(diag.NewError(diag.SemaDuplicateDecl, d.Name.Sp,
					fmt.Sprintf("function %s declared more than once", d.Name.Name)))
				continue
			}
			sig := &funcSig{decl: d}
			if d.Ret != nil {
				ty, err := c.resolveType(d.Ret)
				if err != nil {
					c.reportErr(err)
					continue
				}
				sig.ret = &ty
			}
			c.funcs[d.Name.Name] = sig
		}
	}
	for name, b := range builtinFuncs {
		if _, overridden := c.funcs[name]; overridden {
			continue
		}
		ret := b.ret
		c.funcs[name] = &funcSig{ret: &ret}
	}
}

// checkDecls is pass 2: globals in order, then the function worklist.
// Functions whose callees still lack a resolved return type are deferred
// and retried; a round without progress means a genuine cycle.
func (c *Checker) checkDecls(program *ast.Program) {
	c.pushScope() // global frame, depth 0
	defer c.popScope()

	var pending []*ast.FuncDecl
	for _, decl := range program.Decls {
		switch d := decl.(type) {
		case *ast.GlobalDecl:
			c.checkTopBinding(d.Binding, true)
		case *ast.LetDecl:
			c.checkTopBinding(d.Binding, false)
		case *ast.FuncDecl:
			pending = append(pending, d)
		}
	}

	for len(pending) > 0 {
		var deferred []*ast.FuncDecl
		progressed := false
		for _, fn := range pending {
			err := c.checkFunc(fn)
			var wait *deferredError
			switch {
			case err == nil:
				progressed = true
			case errors.As(err, &wait):
				deferred = append(deferred, fn)
			default:
				c.reportErr(err)
				progressed = true
			}
		}
		if !progressed {
			for _, fn := range deferred {
				c.report(diag.NewError(diag.SemaUnresolvedReturn, fn.Name.Sp,
					fmt.Sprintf("cannot resolve return type of %s", fn.Name.Name)))
			}
			return
		}
		pending = deferred
	}
}

func (c *Checker) checkTopBinding(b *ast.Binding, global bool) {
	if err := c.checkBinding(b, 0); err != nil {
		c.reportErr(err)
		return
	}
	info := c.lookup(b.Name.Name)
	c.out.Globals = append(c.out.Globals, &GlobalInfo{
		Decl:    b,
		Name:    b.Name.Name,
		Ty:      info.ty,
		Mutable: b.Mutable,
		Global:  global,
	})
}

// checkFunc checks one function body in a fresh frame over the global one.
// The body's result must not carry values out of scopes deeper than the
// parameter frame unless they are promotable.
func (c *Checker) checkFunc(fn *ast.FuncDecl) error {
	if fn.Name.Name == "main" && len(fn.Params) > 0 {
		return errAt(diag.SemaMainHasParams, fn.Name.Sp, "main must not take parameters")
	}
	sig := c.funcs[fn.Name.Name]
	if sig == nil {
		return errAt(diag.SemaUnknownFunc, fn.Name.Sp, "unknown function %s", fn.Name.Name)
	}

	c.pushScope()
	defer c.popScope()
	depth := c.depth()

	params := make([]ParamInfo, 0, len(fn.Params))
	for _, p := range fn.Params {
		ty, err := c.resolveType(p.Ty)
		if err != nil {
			return err
		}
		c.insert(p.Name.Name, ty, p.Mutable)
		params = append(params, ParamInfo{Name: p.Name.Name, Ty: ty, Mutable: p.Mutable})
	}

	var body tyInfo
	var err error
	if blk, ok := fn.Body.(*ast.BlockExpr); ok {
		body, err = c.checkBlock(blk.Block, true)
	} else {
		body, err = c.checkExpr(fn.Body, modeMove)
	}
	if err != nil {
		return err
	}
	if err := c.ensureNotEscape(body, depth, fn.Body.Span()); err != nil {
		return err
	}

	ret := body.ty
	if sig.ret != nil {
		if err := c.ensureType(*sig.ret, body.ty, fn.Body.Span()); err != nil {
			return err
		}
		ret = *sig.ret
	} else {
		sig.ret = &ret
	}

	c.out.Funcs[fn.Name.Name] = &FuncInfo{Decl: fn, Params: params, Ret: ret}
	c.out.FuncOrder = append(c.out.FuncOrder, fn.Name.Name)
	return nil
}

// checkBinding types the initializer, rejects escapes past the binding's
// frame, and introduces the name. Shadowing an outer name is allowed.
func (c *Checker) checkBinding(b *ast.Binding, depth int) error {
	if b.Ty == nil {
		return errAt(diag.SemaMissingType, b.Name.Sp,
			"binding %s needs an explicit type", b.Name.Name)
	}
	declared, err := c.resolveType(b.Ty)
	if err != nil {
		return err
	}
	value, err := c.checkExpr(b.Value, modeMove)
	if err != nil {
		return err
	}
	if err := c.ensureNotEscape(value, depth, b.Value.Span()); err != nil {
		return err
	}
	if err := c.ensureType(declared, value.ty, b.Value.Span()); err != nil {
		return err
	}
	c.insert(b.Name.Name, declared, b.Mutable)
	return nil
}

func (c *Checker) checkAssign(a *ast.AssignStmt) error {
	targetDepth, info, err := c.lookupPath(a.Target)
	if err != nil {
		return err
	}
	if !info.mutable {
		return errAt(diag.SemaImmutableAssignment, a.Target.Span(),
			"cannot assign to immutable binding %s", a.Target.String())
	}
	value, err := c.checkExpr(a.Value, modeMove)
	if err != nil {
		return err
	}
	if err := c.ensureNotEscape(value, targetDepth, a.Value.Span()); err != nil {
		return err
	}
	if err := c.ensureType(info.ty, value.ty, a.Value.Span()); err != nil {
		return err
	}
	// assignment refreshes ownership of the whole root binding
	if root := c.lookup(a.Target.Root().Name); root != nil {
		root.state = Owned
	}
	return nil
}

func (c *Checker) checkStmt(s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.BindingStmt:
		return c.checkBinding(st.Binding, c.depth())
	case *ast.AssignStmt:
		return c.checkAssign(st)
	case *ast.ExprStmt:
		_, err := c.checkExpr(st.X, modeMove)
		return err
	}
	return nil
}

// resolveType lowers a syntactic type to a resolved one. Aliases expand;
// primitives stay primitive.
func (c *Checker) resolveType(te ast.TypeExpr) (types.Type, error) {
	switch t := te.(type) {
	case *ast.NamedType:
		if ty, ok := types.PrimitiveByName(t.Name.Name); ok {
			return ty, nil
		}
		if ty, ok := c.aliases[t.Name.Name]; ok {
			return ty, nil
		}
		return types.Type{}, errAt(diag.SemaUnknownType, t.Name.Sp,
			"unknown type %s", t.Name.Name)
	case *ast.RefType:
		elem, err := c.resolveType(t.Elem)
		if err != nil {
			return types.Type{}, err
		}
		return types.Ref(elem), nil
	case *ast.RecordType:
		fields := make([]types.Field, 0, len(t.Fields))
		for _, f := range t.Fields {
			fty, err := c.resolveType(f.Ty)
			if err != nil {
				return types.Type{}, err
			}
			fields = append(fields, types.Field{Name: f.Name.Name, Ty: fty})
		}
		return types.Record(fields), nil
	case nil:
		return types.Type{}, errAt(diag.SemaMissingType, source.Span{}, "missing type annotation")
	}
	return types.Type{}, errAt(diag.SemaUnknownType, te.Span(), "unsupported type expression")
}

func (c *Checker) ensureType(expected, found types.Type, sp source.Span) error {
	if types.Equal(expected, found) {
		return nil
	}
	return errAt(diag.SemaTypeMismatch, sp, "type mismatch: expected %s, found %s", expected, found)
}

// ensureNotEscape rejects values that deeper blocks own, unless the value
// is promotable (escapable and free of references).
func (c *Checker) ensureNotEscape(info tyInfo, targetDepth int, sp source.Span) error {
	if info.depth > targetDepth {
		if !info.escapable || types.ContainsRef(info.ty) {
			return errAt(diag.SemaLifetimeEscape, sp, "value escapes its defining block")
		}
	}
	return nil
}

func (c *Checker) report(d diag.Diagnostic) {
	c.failed = true
	if c.reporter != nil {
		c.reporter.Report(d)
	}
}

func (c *Checker) reportErr(err error) {
	var se *semaError
	if errors.As(err, &se) {
		c.report(se.d)
		return
	}
	var wait *deferredError
	if errors.As(err, &wait) {
		c.report(diag.NewError(diag.SemaUnresolvedReturn, wait.span,
			fmt.Sprintf("return type of %s is not resolved here", wait.callee)))
		return
	}
	c.report(diag.NewError(diag.SemaTypeMismatch, source.Span{}, err.Error()))
}
