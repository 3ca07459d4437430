package sema

import (
	"gaut/internal/ast"
	"gaut/internal/diag"
	"gaut/internal/types"
)

// tyInfo is the checked result of an expression: its type, the frame depth
// the value originates at, and whether it may legally leave that frame
// when promoted.
type tyInfo struct {
	ty        types.Type
	depth     int
	escapable bool
}

func (c *Checker) checkExpr(e ast.Expr, mode valueMode) (tyInfo, error) {
	info, err := c.checkExprInner(e, mode)
	if err != nil {
		return tyInfo{}, err
	}
	c.out.ExprTypes[e] = info.ty
	return info, nil
}

func (c *Checker) checkExprInner(e ast.Expr, mode valueMode) (tyInfo, error) {
	switch x := e.(type) {
	case *ast.IntLit:
		return tyInfo{ty: types.I32, depth: c.depth(), escapable: true}, nil
	case *ast.BoolLit:
		return tyInfo{ty: types.Bool, depth: c.depth(), escapable: true}, nil
	case *ast.StrLit:
		return tyInfo{ty: types.Str, depth: c.depth(), escapable: true}, nil
	case *ast.UnitLit:
		return tyInfo{ty: types.Unit, depth: c.depth(), escapable: true}, nil

	case *ast.PathExpr:
		return c.evalPath(x.Path, mode)

	case *ast.CopyExpr:
		return c.checkExpr(x.X, modeCopy)

	case *ast.RefExpr:
		if _, ok := x.X.(*ast.PathExpr); !ok {
			return tyInfo{}, errAt(diag.SemaInvalidBorrow, x.Sp,
				"cannot borrow a temporary value")
		}
		info, err := c.checkExpr(x.X, modeBorrow)
		if err != nil {
			return tyInfo{}, err
		}
		return tyInfo{
			ty:        types.Ref(info.ty),
			depth:     info.depth,
			escapable: info.escapable,
		}, nil

	case *ast.CallExpr:
		return c.evalCall(x)

	case *ast.IfExpr:
		cond, err := c.checkExpr(x.Cond, modeMove)
		if err != nil {
			return tyInfo{}, err
		}
		if err := c.ensureType(types.Bool, cond.ty, x.Cond.Span()); err != nil {
			return tyInfo{}, err
		}
		thn, err := c.checkExpr(x.Then, modeMove)
		if err != nil {
			return tyInfo{}, err
		}
		els, err := c.checkExpr(x.Else, modeMove)
		if err != nil {
			return tyInfo{}, err
		}
		if err := c.ensureType(thn.ty, els.ty, x.Else.Span()); err != nil {
			return tyInfo{}, err
		}
		return tyInfo{
			ty:        thn.ty,
			depth:     maxDepth(thn.depth, els.depth),
			escapable: thn.escapable && els.escapable,
		}, nil

	case *ast.BlockExpr:
		return c.checkBlock(x.Block, false)

	case *ast.RecordLit:
		fields := make([]types.Field, 0, len(x.Fields))
		depth := c.depth()
		escapable := true
		for _, f := range x.Fields {
			val, err := c.checkExpr(f.Value, modeMove)
			if err != nil {
				return tyInfo{}, err
			}
			depth = maxDepth(depth, val.depth)
			escapable = escapable && val.escapable
			fields = append(fields, types.Field{Name: f.Name.Name, Ty: val.ty})
		}
		return tyInfo{ty: types.Record(fields), depth: depth, escapable: escapable}, nil

	case *ast.UnaryExpr:
		val, err := c.checkExpr(x.X, modeMove)
		if err != nil {
			return tyInfo{}, err
		}
		switch x.Op {
		case ast.UnaryNeg:
			if err := c.ensureType(types.I32, val.ty, x.X.Span()); err != nil {
				return tyInfo{}, err
			}
		case ast.UnaryNot:
			if err := c.ensureType(types.Bool, val.ty, x.X.Span()); err != nil {
				return tyInfo{}, err
			}
		}
		return val, nil

	case *ast.BinaryExpr:
		return c.evalBinary(x)
	}
	return tyInfo{}, errAt(diag.SemaTypeMismatch, e.Span(), "unsupported expression")
}

func (c *Checker) evalBinary(x *ast.BinaryExpr) (tyInfo, error) {
	l, err := c.checkExpr(x.Left, modeMove)
	if err != nil {
		return tyInfo{}, err
	}
	r, err := c.checkExpr(x.Right, modeMove)
	if err != nil {
		return tyInfo{}, err
	}
	depth := maxDepth(l.depth, r.depth)
	escapable := l.escapable && r.escapable

	switch x.Op {
	case ast.BinAdd, ast.BinSub, ast.BinMul, ast.BinDiv:
		if types.Equal(l.ty, types.I32) && types.Equal(r.ty, types.I32) {
			return tyInfo{ty: types.I32, depth: depth, escapable: escapable}, nil
		}
		// '+' doubles as concatenation on Str
		if x.Op == ast.BinAdd && l.ty.IsStr() && r.ty.IsStr() {
			return tyInfo{ty: types.Str, depth: depth, escapable: escapable}, nil
		}
		return tyInfo{}, errAt(diag.SemaTypeMismatch, x.Span(),
			"operator %s needs i32 operands, found %s and %s", x.Op, l.ty, r.ty)
	case ast.BinLt, ast.BinEq:
		if err := c.ensureType(l.ty, r.ty, x.Right.Span()); err != nil {
			return tyInfo{}, err
		}
		return tyInfo{ty: types.Bool, depth: depth, escapable: escapable}, nil
	case ast.BinAnd, ast.BinOr:
		if err := c.ensureType(types.Bool, l.ty, x.Left.Span()); err != nil {
			return tyInfo{}, err
		}
		if err := c.ensureType(types.Bool, r.ty, x.Right.Span()); err != nil {
			return tyInfo{}, err
		}
		return tyInfo{ty: types.Bool, depth: depth, escapable: escapable}, nil
	}
	return tyInfo{}, errAt(diag.SemaTypeMismatch, x.Span(), "unknown operator %s", x.Op)
}

// evalPath reads a binding or field chain. Move mode transitions the root
// binding to Moved; copy and borrow leave ownership with the binding.
// Values read through a path are never escapable: they belong to the frame
// that owns the binding.
func (c *Checker) evalPath(p ast.Path, mode valueMode) (tyInfo, error) {
	_, info, err := c.lookupPath(p)
	if err != nil {
		return tyInfo{}, err
	}
	root := c.lookup(p.Root().Name)
	if root.state == Moved {
		if mode == modeBorrow {
			return tyInfo{}, errAt(diag.SemaInvalidBorrow, p.Span(),
				"borrow of moved value %s", p.String())
		}
		return tyInfo{}, errAt(diag.SemaUseAfterMove, p.Span(),
			"use of moved value %s", p.String())
	}
	switch mode {
	case modeMove:
		// a move through a field moves the whole root binding
		root.state = Moved
	case modeBorrow:
		root.state = Borrowed
	}
	return tyInfo{ty: info.ty, depth: info.depth, escapable: false}, nil
}

// evalCall checks arity and argument types against the callee signature.
// A callee with an unresolved return type defers the current function.
func (c *Checker) evalCall(call *ast.CallExpr) (tyInfo, error) {
	if len(call.Callee.Idents) != 1 {
		return tyInfo{}, errAt(diag.SemaUnknownFunc, call.Callee.Span(),
			"unknown function %s", call.Callee.String())
	}
	name := call.Callee.Root().Name
	sig := c.funcs[name]
	var params []ParamInfo
	switch {
	case sig == nil:
		return tyInfo{}, errAt(diag.SemaUnknownFunc, call.Callee.Span(),
			"unknown function %s", name)
	case sig.decl != nil:
		for _, p := range sig.decl.Params {
			ty, err := c.resolveType(p.Ty)
			if err != nil {
				return tyInfo{}, err
			}
			params = append(params, ParamInfo{Name: p.Name.Name, Ty: ty})
		}
	default:
		params = builtinFuncs[name].params
	}

	if len(params) != len(call.Args) {
		return tyInfo{}, errAt(diag.SemaArityMismatch, call.Sp,
			"%s expects %d arguments, found %d", name, len(params), len(call.Args))
	}
	for i, arg := range call.Args {
		got, err := c.checkExpr(arg, modeMove)
		if err != nil {
			return tyInfo{}, err
		}
		if err := c.ensureType(params[i].Ty, got.ty, arg.Span()); err != nil {
			return tyInfo{}, err
		}
	}
	if sig.ret == nil {
		return tyInfo{}, &deferredError{callee: name, span: call.Sp}
	}
	ret := *sig.ret
	return tyInfo{
		ty:        ret,
		depth:     c.depth(),
		escapable: !types.ContainsRef(ret),
	}, nil
}

// checkBlock checks statements in a fresh frame and types the tail.
// asFunctionBody permits the tail value to leave the block via promotion;
// inner block expressions pin their result to its origin so it cannot
// travel further out.
func (c *Checker) checkBlock(b *ast.Block, asFunctionBody bool) (tyInfo, error) {
	c.pushScope()
	defer c.popScope()
	depth := c.depth()

	for _, stmt := range b.Stmts {
		if err := c.checkStmt(stmt); err != nil {
			return tyInfo{}, err
		}
	}
	if b.Tail == nil {
		return tyInfo{ty: types.Unit, depth: depth, escapable: true}, nil
	}

	info, err := c.checkExpr(b.Tail, modeMove)
	if err != nil {
		return tyInfo{}, err
	}
	if info.depth > depth {
		if !asFunctionBody || !info.escapable || types.ContainsRef(info.ty) {
			return tyInfo{}, errAt(diag.SemaLifetimeEscape, b.Tail.Span(),
				"value escapes its defining block")
		}
	} else if err := c.ensureNotEscape(info, depth, b.Tail.Span()); err != nil {
		return tyInfo{}, err
	}

	if asFunctionBody {
		return tyInfo{
			ty:        info.ty,
			depth:     depth,
			escapable: !types.ContainsRef(info.ty),
		}, nil
	}
	return tyInfo{ty: info.ty, depth: info.depth, escapable: false}, nil
}

// lookupPath resolves a path to the root binding's depth and the type at
// the end of the field chain. Field access looks through references.
func (c *Checker) lookupPath(p ast.Path) (int, *binding, error) {
	rootIdent := p.Root()
	root := c.lookup(rootIdent.Name)
	if root == nil {
		return 0, nil, errAt(diag.SemaUnknownName, rootIdent.Sp,
			"unknown name %s", rootIdent.Name)
	}
	ty := root.ty
	for _, field := range p.Idents[1:] {
		fty, ok := ty.Field(field.Name)
		if !ok {
			return 0, nil, errAt(diag.SemaUnknownField, field.Sp,
				"type %s has no field %s", ty, field.Name)
		}
		ty = fty
	}
	resolved := &binding{
		ty:      ty,
		mutable: root.mutable,
		state:   root.state,
		depth:   root.depth,
	}
	return root.depth, resolved, nil
}

func maxDepth(a, b int) int {
	if a > b {
		return a
	}
	return b
}
