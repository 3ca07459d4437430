package cgen

import (
	"fmt"
	"strings"

	"gaut/internal/ast"
	"gaut/internal/sema"
	"gaut/internal/types"
)

// emitFuncBlock lowers a function body block. The scope mark is taken on
// entry and left on every exit path before the return instruction.
func (g *Generator) emitFuncBlock(b *ast.Block, indent int, info *sema.FuncInfo, isMain bool) error {
	pad := strings.Repeat("  ", indent)
	g.pushScope()
	defer g.popScope()

	scope := g.nextScope()
	g.printf("%sgaut_scope %s = gaut_scope_enter(&__arena);\n", pad, scope)

	for _, stmt := range b.Stmts {
		if err := g.emitStmt(stmt, indent); err != nil {
			return err
		}
	}

	if b.Tail == nil {
		if !info.Ret.IsUnit() {
			return fmt.Errorf("%w: missing return expression in %s", ErrInternal, info.Decl.Name.Name)
		}
		g.printf("%sgaut_scope_leave(&__arena, %s);\n", pad, scope)
		if isMain {
			g.printf("%sreturn 0;\n", pad)
		}
		return nil
	}

	if info.Ret.IsUnit() {
		g.printf("%s", pad)
		if err := g.emitExpr(b.Tail, true); err != nil {
			return err
		}
		g.printf(";\n")
		g.printf("%sgaut_scope_leave(&__arena, %s);\n", pad, scope)
		if isMain {
			g.printf("%sreturn 0;\n", pad)
		}
		return nil
	}

	cty, err := g.cValueType(info.Ret)
	if err != nil {
		return err
	}
	tmp := g.nextTmp("__ret")
	g.printf("%s%s %s = ", pad, cty, tmp)
	// Str and Bytes results live in the arena that dies with this frame;
	// promote them to the heap before the scope mark is released.
	promote := !isMain && info.ReturnsHeapValue()
	switch {
	case promote && info.Ret.IsStr():
		g.printf("gaut_str_promote(")
	case promote:
		g.printf("gaut_bytes_promote(")
	}
	if err := g.emitExpr(b.Tail, true); err != nil {
		return err
	}
	if promote {
		g.printf(")")
	}
	g.printf(";\n")
	g.printf("%sgaut_scope_leave(&__arena, %s);\n", pad, scope)
	if isMain {
		g.printf("%s(void)%s;\n", pad, tmp)
		g.printf("%sreturn 0;\n", pad)
	} else {
		g.printf("%sreturn %s;\n", pad, tmp)
	}
	return nil
}

func (g *Generator) emitStmt(s ast.Stmt, indent int) error {
	pad := strings.Repeat("  ", indent)
	switch st := s.(type) {
	case *ast.BindingStmt:
		b := st.Binding
		ty, err := g.resolveType(b.Ty)
		if err != nil {
			return err
		}
		cty, err := g.cValueType(ty)
		if err != nil {
			return err
		}
		g.printf("%s%s %s = ", pad, cty, b.Name.Name)
		if err := g.emitExpr(b.Value, true); err != nil {
			return err
		}
		g.printf(";\n")
		g.declare(b.Name.Name, ty)
		return nil
	case *ast.AssignStmt:
		g.printf("%s", pad)
		if err := g.emitPath(st.Target); err != nil {
			return err
		}
		g.printf(" = ")
		if err := g.emitExpr(st.Value, true); err != nil {
			return err
		}
		g.printf(";\n")
		return nil
	case *ast.ExprStmt:
		g.printf("%s", pad)
		if err := g.emitExpr(st.X, true); err != nil {
			return err
		}
		g.printf(";\n")
		return nil
	}
	return fmt.Errorf("%w: unknown statement", ErrInternal)
}

func (g *Generator) emitExpr(e ast.Expr, arena bool) error {
	switch x := e.(type) {
	case *ast.IntLit:
		g.printf("%d", x.Value)
	case *ast.BoolLit:
		if x.Value {
			g.printf("true")
		} else {
			g.printf("false")
		}
	case *ast.StrLit:
		g.printf("%s", cQuote(x.Value))
	case *ast.UnitLit:
		g.printf("0")
	case *ast.PathExpr:
		return g.emitPath(x.Path)
	case *ast.CopyExpr:
		return g.emitExpr(x.X, arena)
	case *ast.RefExpr:
		g.printf("&")
		return g.emitExpr(x.X, arena)
	case *ast.CallExpr:
		if len(x.Callee.Idents) != 1 {
			return fmt.Errorf("%w: qualified call %s", ErrInternal, x.Callee.String())
		}
		g.printf("%s(", x.Callee.Root().Name)
		for i, arg := range x.Args {
			if i > 0 {
				g.printf(", ")
			}
			if err := g.emitExpr(arg, arena); err != nil {
				return err
			}
		}
		g.printf(")")
	case *ast.IfExpr:
		g.printf("(")
		if err := g.emitExpr(x.Cond, arena); err != nil {
			return err
		}
		g.printf(" ? ")
		if err := g.emitExpr(x.Then, arena); err != nil {
			return err
		}
		g.printf(" : ")
		if err := g.emitExpr(x.Else, arena); err != nil {
			return err
		}
		g.printf(")")
	case *ast.BlockExpr:
		return g.emitBlockExpr(x, arena)
	case *ast.RecordLit:
		return g.emitRecordLit(x, arena)
	case *ast.UnaryExpr:
		g.printf("%s", x.Op)
		return g.emitExpr(x.X, arena)
	case *ast.BinaryExpr:
		return g.emitBinary(x, arena)
	default:
		return fmt.Errorf("%w: unknown expression", ErrInternal)
	}
	return nil
}

// emitBinary lowers '+' on Str/Bytes to the runtime concat helpers; the
// arena variant when scratch space is available, the heap variant in
// global initializers.
func (g *Generator) emitBinary(x *ast.BinaryExpr, arena bool) error {
	ty := g.prog.TypeOf(x)
	if x.Op == ast.BinAdd && (ty.IsStr() || ty.IsBytes()) {
		base := "gaut_str_concat"
		if ty.IsBytes() {
			base = "gaut_bytes_concat"
		}
		if arena {
			g.printf("%s_arena(&__arena, ", base)
		} else {
			g.printf("%s_heap(", base)
		}
		if err := g.emitExpr(x.Left, arena); err != nil {
			return err
		}
		g.printf(", ")
		if err := g.emitExpr(x.Right, arena); err != nil {
			return err
		}
		g.printf(")")
		return nil
	}

	if err := g.emitExpr(x.Left, arena); err != nil {
		return err
	}
	g.printf(" %s ", x.Op)
	return g.emitExpr(x.Right, arena)
}

// emitBlockExpr lowers a block in expression position to a GNU statement
// expression so the scope mark wraps its temporaries.
func (g *Generator) emitBlockExpr(x *ast.BlockExpr, arena bool) error {
	ty := g.prog.TypeOf(x)
	cty, err := g.cValueType(ty)
	if err != nil {
		return err
	}
	tmp := g.nextTmp("__tmp")
	g.pushScope()
	defer g.popScope()

	g.printf("({ ")
	var scope string
	if arena {
		scope = g.nextScope()
		g.printf("gaut_scope %s = gaut_scope_enter(&__arena); ", scope)
	}
	for _, stmt := range x.Block.Stmts {
		if err := g.emitStmt(stmt, 0); err != nil {
			return err
		}
	}
	if x.Block.Tail != nil {
		g.printf("%s %s = ", cty, tmp)
		if err := g.emitExpr(x.Block.Tail, arena); err != nil {
			return err
		}
		g.printf("; ")
	} else {
		g.printf("%s %s = 0; ", cty, tmp)
	}
	if arena {
		g.printf("gaut_scope_leave(&__arena, %s); ", scope)
	}
	g.printf("%s; })", tmp)
	return nil
}

// emitRecordLit casts the compound literal to the declared record typedef
// when one structurally matches, in declaration order.
func (g *Generator) emitRecordLit(x *ast.RecordLit, arena bool) error {
	ty := g.prog.TypeOf(x)
	cty, err := g.cValueType(ty)
	if err != nil {
		return err
	}
	if name, ok := g.recordAlias(ty); ok {
		cty = name
	}
	g.printf("(%s){ ", cty)
	for i, f := range x.Fields {
		if i > 0 {
			g.printf(", ")
		}
		g.printf(".%s = ", f.Name.Name)
		if err := g.emitExpr(f.Value, arena); err != nil {
			return err
		}
	}
	g.printf(" }")
	return nil
}

// emitPath writes a field chain, switching to -> whenever the value in
// hand is a reference.
func (g *Generator) emitPath(p ast.Path) error {
	root := p.Root()
	g.printf("%s", root.Name)
	cur, known := g.varType(root.Name)
	for _, field := range p.Idents[1:] {
		if known && cur.Kind == types.KindRef {
			g.printf("->%s", field.Name)
		} else {
			g.printf(".%s", field.Name)
		}
		if known {
			next, ok := cur.Field(field.Name)
			if !ok {
				return fmt.Errorf("%w: no field %s on %s", ErrInternal, field.Name, cur)
			}
			cur = next
		}
	}
	return nil
}

func (g *Generator) nextTmp(prefix string) string {
	name := fmt.Sprintf("%s%d", prefix, g.tmpCount)
	g.tmpCount++
	return name
}

func (g *Generator) nextScope() string {
	name := fmt.Sprintf("__scope%d", g.scopeCount)
	g.scopeCount++
	return name
}
