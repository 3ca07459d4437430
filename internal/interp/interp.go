// Package interp is a tree-walking evaluator over the checked AST. It
// backs 'gaut run' so programs execute without a C toolchain. Bindings
// carry move state at runtime the same way the checker tracks it
// statically: a moved slot is emptied and any later read fails.
package interp

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gaut/internal/arena"
	"gaut/internal/ast"
)

// Runtime error sentinels.
var (
	ErrUnknownName   = errors.New("unknown identifier")
	ErrMoved         = errors.New("value moved")
	ErrNotMutable    = errors.New("not mutable")
	ErrFieldNotFound = errors.New("field not found")
	ErrType          = errors.New("type error")
)

// DefaultArenaCap is the per-run arena capacity in bytes.
const DefaultArenaCap = 1 << 20

// Options configures a run.
type Options struct {
	// ArenaCap overrides DefaultArenaCap when positive.
	ArenaCap int
	// Stdout receives print/println output; defaults to os.Stdout.
	Stdout io.Writer
	// Args is the full argv of the interpreted program, program name
	// included, exposed through the args() builtin.
	Args []string
}

// Interpreter evaluates one loaded program.
type Interpreter struct {
	funcs    map[string]*ast.FuncDecl
	globals  []globalSlot
	arenaCap int
	stdout   io.Writer
	args     []string
}

type globalSlot struct {
	name    string
	mutable bool
	value   Value
}

// evalMode is how a path read treats the binding it resolves.
type evalMode uint8

const (
	evalMove evalMode = iota
	evalCopy
	evalBorrow
)

// binding is one runtime slot; a nil value means the binding was moved.
type binding struct {
	mutable bool
	value   *Value
}

// env is the block-scoped environment of one run, sharing an arena whose
// marks follow the scope stack.
type env struct {
	scopes []map[string]*binding
	arena  *arena.Arena
	marks  []arena.Mark
}

// New loads the program: functions are indexed and top-level bindings
// evaluated in declaration order.
func New(program *ast.Program, opts Options) (*Interpreter, error) {
	cap := opts.ArenaCap
	if cap <= 0 {
		cap = DefaultArenaCap
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	in := &Interpreter{
		funcs:    make(map[string]*ast.FuncDecl),
		arenaCap: cap,
		stdout:   stdout,
		args:     opts.Args,
	}
	for _, decl := range program.Decls {
		if f, ok := decl.(*ast.FuncDecl); ok {
			in.funcs[f.Name.Name] = f
		}
	}
	for _, decl := range program.Decls {
		var b *ast.Binding
		switch d := decl.(type) {
		case *ast.GlobalDecl:
			b = d.Binding
		case *ast.LetDecl:
			b = d.Binding
		default:
			continue
		}
		e := in.newEnv()
		val, err := in.evalExpr(b.Value, e, evalMove)
		if err != nil {
			return nil, fmt.Errorf("global %s: %w", b.Name.Name, err)
		}
		in.globals = append(in.globals, globalSlot{
			name:    b.Name.Name,
			mutable: b.Mutable,
			value:   val,
		})
	}
	return in, nil
}

// RunMain evaluates main() and returns its result value.
func (in *Interpreter) RunMain() (Value, error) {
	mainFn, ok := in.funcs["main"]
	if !ok {
		return Value{}, fmt.Errorf("%w: main", ErrUnknownName)
	}
	e := in.newEnv()
	e.pushScope()
	for _, g := range in.globals {
		v := g.value
		e.insert(g.name, &binding{mutable: g.mutable, value: &v})
	}
	return in.callFunction(mainFn, nil, e)
}

func (in *Interpreter) newEnv() *env {
	return &env{arena: arena.New(in.arenaCap)}
}

func (in *Interpreter) callFunction(fn *ast.FuncDecl, args []Value, e *env) (Value, error) {
	if len(fn.Params) != len(args) {
		return Value{}, fmt.Errorf("%w: %s arity", ErrType, fn.Name.Name)
	}
	e.pushScope()
	defer e.popScope()
	for i, p := range fn.Params {
		v := args[i]
		e.insert(p.Name.Name, &binding{mutable: p.Mutable, value: &v})
	}
	if blk, ok := fn.Body.(*ast.BlockExpr); ok {
		return in.evalBlock(blk.Block, e)
	}
	return in.evalExpr(fn.Body, e, evalMove)
}

func (in *Interpreter) evalBlock(b *ast.Block, e *env) (Value, error) {
	e.pushScope()
	defer e.popScope()
	for _, stmt := range b.Stmts {
		if err := in.evalStmt(stmt, e); err != nil {
			return Value{}, err
		}
	}
	if b.Tail == nil {
		return Unit, nil
	}
	return in.evalExpr(b.Tail, e, evalMove)
}

func (in *Interpreter) evalStmt(s ast.Stmt, e *env) error {
	switch st := s.(type) {
	case *ast.BindingStmt:
		val, err := in.evalExpr(st.Binding.Value, e, evalMove)
		if err != nil {
			return err
		}
		e.insert(st.Binding.Name.Name, &binding{mutable: st.Binding.Mutable, value: &val})
		return nil
	case *ast.AssignStmt:
		val, err := in.evalExpr(st.Value, e, evalMove)
		if err != nil {
			return err
		}
		return e.assignPath(st.Target, val)
	case *ast.ExprStmt:
		_, err := in.evalExpr(st.X, e, evalMove)
		return err
	}
	return fmt.Errorf("%w: unknown statement", ErrType)
}

func (in *Interpreter) evalExpr(x ast.Expr, e *env, mode evalMode) (Value, error) {
	switch n := x.(type) {
	case *ast.IntLit:
		return IntVal(n.Value), nil
	case *ast.BoolLit:
		return BoolVal(n.Value), nil
	case *ast.StrLit:
		return StrVal(n.Value), nil
	case *ast.UnitLit:
		return Unit, nil
	case *ast.PathExpr:
		return e.resolvePath(n.Path, mode)
	case *ast.CopyExpr:
		return in.evalExpr(n.X, e, evalCopy)
	case *ast.RefExpr:
		// borrows evaluate to the value itself; mutation through a
		// reference does not exist in the surface language
		return in.evalExpr(n.X, e, evalBorrow)
	case *ast.CallExpr:
		return in.evalCall(n, e)
	case *ast.IfExpr:
		cond, err := in.evalExpr(n.Cond, e, evalMove)
		if err != nil {
			return Value{}, err
		}
		if cond.Kind != ValBool {
			return Value{}, fmt.Errorf("%w: if condition must be bool", ErrType)
		}
		if cond.Bool {
			return in.evalExpr(n.Then, e, evalMove)
		}
		return in.evalExpr(n.Else, e, evalMove)
	case *ast.BlockExpr:
		return in.evalBlock(n.Block, e)
	case *ast.RecordLit:
		fields := make([]FieldVal, 0, len(n.Fields))
		for _, f := range n.Fields {
			v, err := in.evalExpr(f.Value, e, evalMove)
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, FieldVal{Name: f.Name.Name, Val: v})
		}
		return Value{Kind: ValRecord, Fields: fields}, nil
	case *ast.UnaryExpr:
		v, err := in.evalExpr(n.X, e, evalMove)
		if err != nil {
			return Value{}, err
		}
		switch {
		case n.Op == ast.UnaryNeg && v.Kind == ValInt:
			return IntVal(-v.Int), nil
		case n.Op == ast.UnaryNot && v.Kind == ValBool:
			return BoolVal(!v.Bool), nil
		}
		return Value{}, fmt.Errorf("%w: invalid unary operand", ErrType)
	case *ast.BinaryExpr:
		l, err := in.evalExpr(n.Left, e, evalMove)
		if err != nil {
			return Value{}, err
		}
		r, err := in.evalExpr(n.Right, e, evalMove)
		if err != nil {
			return Value{}, err
		}
		return in.evalBinary(l, r, n.Op, e)
	}
	return Value{}, fmt.Errorf("%w: unknown expression", ErrType)
}

func (in *Interpreter) evalBinary(l, r Value, op ast.BinaryOp, e *env) (Value, error) {
	bothInt := l.Kind == ValInt && r.Kind == ValInt
	bothBool := l.Kind == ValBool && r.Kind == ValBool
	switch op {
	case ast.BinAdd:
		switch {
		case bothInt:
			return IntVal(l.Int + r.Int), nil
		case l.Kind == ValStr && r.Kind == ValStr:
			return StrVal(arena.ConcatString(l.Str, r.Str)), nil
		case l.Kind == ValBytes && r.Kind == ValBytes:
			return BytesVal(arena.Concat(e.arena, l.Bytes, r.Bytes)), nil
		}
		return Value{}, fmt.Errorf("%w: invalid operands for +", ErrType)
	case ast.BinSub:
		if bothInt {
			return IntVal(l.Int - r.Int), nil
		}
	case ast.BinMul:
		if bothInt {
			return IntVal(l.Int * r.Int), nil
		}
	case ast.BinDiv:
		if bothInt {
			if r.Int == 0 {
				return Value{}, fmt.Errorf("%w: division by zero", ErrType)
			}
			return IntVal(l.Int / r.Int), nil
		}
	case ast.BinLt:
		if bothInt {
			return BoolVal(l.Int < r.Int), nil
		}
	case ast.BinEq:
		return BoolVal(l.Equal(r)), nil
	case ast.BinAnd:
		if bothBool {
			return BoolVal(l.Bool && r.Bool), nil
		}
	case ast.BinOr:
		if bothBool {
			return BoolVal(l.Bool || r.Bool), nil
		}
	}
	return Value{}, fmt.Errorf("%w: invalid operands for %s", ErrType, op)
}

func (in *Interpreter) evalCall(call *ast.CallExpr, e *env) (Value, error) {
	if len(call.Callee.Idents) != 1 {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownName, call.Callee.String())
	}
	name := call.Callee.Root().Name

	// print and println always reach the runtime, matching the native
	// backend where the shims shadow user declarations
	if name == "print" || name == "println" {
		return in.builtinPrint(name, call.Args, e)
	}
	if fn, ok := in.funcs[name]; ok {
		args := make([]Value, 0, len(call.Args))
		for _, a := range call.Args {
			v, err := in.evalExpr(a, e, evalMove)
			if err != nil {
				return Value{}, err
			}
			args = append(args, v)
		}
		return in.callFunction(fn, args, e)
	}
	return in.evalBuiltin(name, call.Args, e)
}

// Environment.

func (e *env) pushScope() {
	e.scopes = append(e.scopes, make(map[string]*binding))
	e.marks = append(e.marks, e.arena.EnterScope())
}

func (e *env) popScope() {
	e.scopes = e.scopes[:len(e.scopes)-1]
	mark := e.marks[len(e.marks)-1]
	e.marks = e.marks[:len(e.marks)-1]
	e.arena.LeaveScope(mark)
}

func (e *env) insert(name string, b *binding) {
	if len(e.scopes) == 0 {
		e.pushScope()
	}
	e.scopes[len(e.scopes)-1][name] = b
}

func (e *env) lookup(name string) *binding {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if b, ok := e.scopes[i][name]; ok {
			return b
		}
	}
	return nil
}

// resolvePath reads a binding or field chain. Move empties the slot;
// copy and borrow leave it intact.
func (e *env) resolvePath(p ast.Path, mode evalMode) (Value, error) {
	root := p.Root()
	b := e.lookup(root.Name)
	if b == nil {
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownName, root.Name)
	}
	if b.value == nil {
		return Value{}, fmt.Errorf("%w: %s", ErrMoved, root.Name)
	}
	val := *b.value
	if mode == evalMove {
		b.value = nil
	}
	for _, field := range p.Idents[1:] {
		f, ok := val.Field(field.Name)
		if !ok {
			return Value{}, fmt.Errorf("%w: %s", ErrFieldNotFound, field.Name)
		}
		val = f
	}
	return val, nil
}

func (e *env) assignPath(p ast.Path, value Value) error {
	root := p.Root()
	b := e.lookup(root.Name)
	if b == nil {
		return fmt.Errorf("%w: %s", ErrUnknownName, root.Name)
	}
	if !b.mutable {
		return fmt.Errorf("%w: %s", ErrNotMutable, root.Name)
	}
	rest := p.Idents[1:]
	if len(rest) == 0 {
		// assignment refreshes a moved binding
		b.value = &value
		return nil
	}
	if b.value == nil {
		return fmt.Errorf("%w: %s", ErrMoved, root.Name)
	}
	return setFieldPath(b.value, rest, value)
}

func setFieldPath(target *Value, path []ast.Ident, value Value) error {
	if target.Kind != ValRecord {
		return fmt.Errorf("%w: assignment into non-record field", ErrType)
	}
	name := path[0].Name
	if len(path) == 1 {
		if !target.setField(name, value) {
			return fmt.Errorf("%w: %s", ErrFieldNotFound, name)
		}
		return nil
	}
	for i := range target.Fields {
		if target.Fields[i].Name == name {
			return setFieldPath(&target.Fields[i].Val, path[1:], value)
		}
	}
	return fmt.Errorf("%w: %s", ErrFieldNotFound, name)
}
