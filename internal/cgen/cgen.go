// Package cgen lowers a checked program to a single C translation unit.
// Emission is deterministic: declarations come out in source order and no
// map is ever iterated. The generator trusts the checker's annotations;
// a construct it cannot lower is an internal error, not a user diagnostic.
package cgen

import (
	"bytes"
	"errors"
	"fmt"

	"gaut/internal/ast"
	"gaut/internal/sema"
	"gaut/internal/types"
)

// ErrInternal marks generator failures on input the checker should have
// rejected. It is a process error; user-facing diagnostics end at sema.
var ErrInternal = errors.New("codegen internal error")

// Generator holds emission state for one translation unit.
type Generator struct {
	prog *sema.Program
	buf  bytes.Buffer

	// vars tracks resolved binding types per scope so paths through
	// references emit -> instead of '.'.
	vars []map[string]types.Type

	tmpCount   int
	scopeCount int
}

// builtinNames lists the runtime-backed functions in emission order.
// User declarations with these names keep their checked signatures but
// lower to the runtime shims.
var builtinNames = []string{
	"print", "println",
	"read_file", "write_file",
	"try_read_file", "try_write_file",
	"args", "bytes_to_str",
	"str_len", "str_byte_at", "str_slice",
}

// Generate emits C for the verified program.
func Generate(prog *sema.Program) ([]byte, error) {
	if prog == nil || prog.AST == nil {
		return nil, fmt.Errorf("%w: nil program", ErrInternal)
	}
	g := &Generator{prog: prog}
	if err := g.run(); err != nil {
		return nil, err
	}
	return g.buf.Bytes(), nil
}

func (g *Generator) run() error {
	g.printf("#include <stdint.h>\n")
	g.printf("#include <stdbool.h>\n")
	g.printf("#include <stddef.h>\n")
	g.printf("#include \"runtime.h\"\n\n")
	g.printf("typedef gaut_read_file_result ReadFileResult;\n\n")

	g.emitShims()

	for _, decl := range g.prog.AST.Decls {
		if t, ok := decl.(*ast.TypeDecl); ok {
			if err := g.emitTypeDecl(t); err != nil {
				return err
			}
		}
	}

	g.pushScope()
	for _, decl := range g.prog.AST.Decls {
		switch d := decl.(type) {
		case *ast.GlobalDecl:
			if err := g.emitGlobal(d.Binding); err != nil {
				return err
			}
		case *ast.LetDecl:
			if err := g.emitGlobal(d.Binding); err != nil {
				return err
			}
		}
	}

	for _, decl := range g.prog.AST.Decls {
		if f, ok := decl.(*ast.FuncDecl); ok {
			if isBuiltinName(f.Name.Name) {
				continue
			}
			if err := g.emitFunction(f); err != nil {
				return err
			}
		}
	}
	g.popScope()
	return nil
}

// emitShims maps every builtin name onto its gaut_ runtime function.
// Shims come out for overridden builtins too: print stays print.
func (g *Generator) emitShims() {
	g.printf("char* print(char* msg) { gaut_print(msg); return msg; }\n")
	g.printf("char* println(char* msg) { gaut_println(msg); return msg; }\n")
	g.printf("char* read_file(char* path) { return gaut_read_file(path); }\n")
	g.printf("void write_file(char* path, char* data) { gaut_write_file(path, data); }\n")
	g.printf("ReadFileResult try_read_file(char* path) { return gaut_try_read_file(path); }\n")
	g.printf("bool try_write_file(char* path, char* data) { return gaut_try_write_file(path, data); }\n")
	g.printf("gaut_bytes args(void) { return gaut_args(); }\n")
	g.printf("char* bytes_to_str(gaut_bytes buf) { return gaut_bytes_to_str(buf); }\n")
	g.printf("int32_t str_len(char* s) { return gaut_str_len(s); }\n")
	g.printf("int32_t str_byte_at(char* s, int32_t i) { return gaut_str_byte_at(s, i); }\n")
	g.printf("char* str_slice(char* s, int32_t start, int32_t len) { return gaut_str_slice(s, start, len); }\n")
	g.printf("\n")
}

func (g *Generator) emitTypeDecl(t *ast.TypeDecl) error {
	ty, ok := g.prog.Aliases[t.Name.Name]
	if !ok {
		return fmt.Errorf("%w: unresolved type alias %s", ErrInternal, t.Name.Name)
	}
	if ty.Kind == types.KindRecord {
		g.printf("typedef struct {\n")
		for _, f := range ty.Fields {
			cty, err := g.cValueType(f.Ty)
			if err != nil {
				return err
			}
			g.printf("  %s %s;\n", cty, f.Name)
		}
		g.printf("} %s;\n\n", t.Name.Name)
		return nil
	}
	cty, err := g.cValueType(ty)
	if err != nil {
		return err
	}
	g.printf("typedef %s %s;\n\n", cty, t.Name.Name)
	return nil
}

// emitGlobal lowers a top-level binding. Initializers run without an
// arena; any concatenation goes through the heap variants.
func (g *Generator) emitGlobal(b *ast.Binding) error {
	ty, err := g.resolveType(b.Ty)
	if err != nil {
		return err
	}
	cty, err := g.cValueType(ty)
	if err != nil {
		return err
	}
	g.printf("%s %s = ", cty, b.Name.Name)
	if err := g.emitExpr(b.Value, false); err != nil {
		return err
	}
	g.printf(";\n\n")
	g.declare(b.Name.Name, ty)
	return nil
}

// emitFunction brackets the body with one stack arena per activation.
// Nested blocks take marks on the same arena. A function returning Str
// or Bytes promotes its result to the heap before the final scope leave.
func (g *Generator) emitFunction(f *ast.FuncDecl) error {
	info, ok := g.prog.Func(f.Name.Name)
	if !ok {
		return fmt.Errorf("%w: unresolved function %s", ErrInternal, f.Name.Name)
	}
	isMain := f.Name.Name == "main"

	retCty, err := g.cReturnType(info.Ret)
	if err != nil {
		return err
	}
	if isMain {
		retCty = "int"
	}
	g.printf("%s %s(", retCty, f.Name.Name)
	switch {
	case isMain:
		g.printf("int argc, char** argv")
	case len(info.Params) == 0:
		g.printf("void")
	}
	for i, p := range info.Params {
		if i > 0 {
			g.printf(", ")
		}
		cty, err := g.cValueType(p.Ty)
		if err != nil {
			return err
		}
		g.printf("%s %s", cty, p.Name)
	}
	g.printf(") {\n")
	if isMain {
		g.printf("  gaut_args_init(argc, argv);\n")
	}
	g.printf("  uint8_t __arena_buf[GAUT_DEFAULT_ARENA_CAP];\n")
	g.printf("  gaut_arena __arena = gaut_arena_from_buffer(__arena_buf, GAUT_DEFAULT_ARENA_CAP);\n\n")

	g.pushScope()
	for _, p := range info.Params {
		g.declare(p.Name, p.Ty)
	}
	g.tmpCount = 0
	g.scopeCount = 0

	body := blockOf(f.Body)
	if err := g.emitFuncBlock(body, 1, info, isMain); err != nil {
		return err
	}
	g.popScope()
	g.printf("}\n\n")
	return nil
}

// blockOf normalizes an expression body to a block form.
func blockOf(e ast.Expr) *ast.Block {
	if blk, ok := e.(*ast.BlockExpr); ok {
		return blk.Block
	}
	return &ast.Block{Tail: e, Sp: e.Span()}
}

func (g *Generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

func (g *Generator) pushScope() {
	g.vars = append(g.vars, make(map[string]types.Type))
}

func (g *Generator) popScope() {
	g.vars = g.vars[:len(g.vars)-1]
}

func (g *Generator) declare(name string, ty types.Type) {
	g.vars[len(g.vars)-1][name] = ty
}

func (g *Generator) varType(name string) (types.Type, bool) {
	for i := len(g.vars) - 1; i >= 0; i-- {
		if ty, ok := g.vars[i][name]; ok {
			return ty, true
		}
	}
	return types.Type{}, false
}

func isBuiltinName(name string) bool {
	for _, b := range builtinNames {
		if b == name {
			return true
		}
	}
	return false
}
