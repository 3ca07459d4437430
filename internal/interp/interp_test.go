package interp

import (
	"bytes"
	"errors"
	"testing"

	"gaut/internal/ast"
	"gaut/internal/diag"
	"gaut/internal/parser"
	"gaut/internal/sema"
	"gaut/internal/source"
)

func parseSrc(t *testing.T, src string) *ast.Program {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("test.gaut", []byte(src))
	bag := diag.NewBag(16)
	prog, ok := parser.ParseFile(fs.Get(id), diag.BagReporter{Bag: bag})
	if !ok {
		t.Fatalf("parse failed: %+v", bag.Items())
	}
	return prog
}

func loadProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog := parseSrc(t, src)
	fsBag := diag.NewBag(16)
	if _, ok := sema.Check(prog, diag.BagReporter{Bag: fsBag}); !ok {
		t.Fatalf("check failed: %+v", fsBag.Items())
	}
	return prog
}

func mustRun(t *testing.T, src string, opts Options) Value {
	t.Helper()
	in, err := New(loadProgram(t, src), opts)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	v, err := in.RunMain()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return v
}

func TestRunArith(t *testing.T) {
	src := `
add(a: i32, b: i32) -> i32 = a + b

main() = add(10, 20)
`
	got := mustRun(t, src, Options{})
	if got.Kind != ValInt || got.Int != 30 {
		t.Fatalf("got %s, want 30", got)
	}
}

func TestRunRecordBorrow(t *testing.T) {
	src := `
type Point = { x: i32, y: i32 }

origin_x(p: &Point) -> i32 = copy p.x

main() = {
  p: Point = { x: 0, y: 7 }
  origin_x(&p)
}
`
	got := mustRun(t, src, Options{})
	if got.Int != 0 {
		t.Fatalf("got %d, want 0", got.Int)
	}
}

func TestRunIfAndMove(t *testing.T) {
	src := `
main() = {
  x: i32 = 1
  y: i32 = if x < 0 then 10 else 5
  y
}
`
	got := mustRun(t, src, Options{})
	if got.Int != 5 {
		t.Fatalf("got %d, want 5", got.Int)
	}
}

func TestRunPrintln(t *testing.T) {
	src := `
main() = {
  println("hello")
  print("wor")
  print("ld")
  0
}
`
	var out bytes.Buffer
	mustRun(t, src, Options{Stdout: &out})
	if got := out.String(); got != "hello\nworld" {
		t.Fatalf("got %q", got)
	}
}

func TestRunPrintOverrideStillPrints(t *testing.T) {
	// the runtime shim shadows user declarations of print
	src := `
print(msg: Str) -> Str = msg

main() = {
  print("shim")
  0
}
`
	var out bytes.Buffer
	mustRun(t, src, Options{Stdout: &out})
	if got := out.String(); got != "shim" {
		t.Fatalf("got %q", got)
	}
}

func TestRunStringConcat(t *testing.T) {
	src := `
greet(name: Str) -> Str = "hello, " + name

main() = greet("gaut")
`
	got := mustRun(t, src, Options{})
	if got.Kind != ValStr || got.Str != "hello, gaut" {
		t.Fatalf("got %s", got)
	}
}

func TestRunGlobals(t *testing.T) {
	src := `
global base: i32 = 40

main() = copy base + 2
`
	got := mustRun(t, src, Options{})
	if got.Int != 42 {
		t.Fatalf("got %d, want 42", got.Int)
	}
}

func TestRunFieldAssignment(t *testing.T) {
	src := `
type Point = { x: i32, y: i32 }

main() = {
  mut p: Point = { x: 1, y: 2 }
  p.x = 10
  copy p.x + copy p.y
}
`
	got := mustRun(t, src, Options{})
	if got.Int != 12 {
		t.Fatalf("got %d, want 12", got.Int)
	}
}

func TestRunAssignmentRefreshesMovedBinding(t *testing.T) {
	src := `
sink(s: Str) -> i32 = str_len(s)

main() = {
  mut s: Str = "ab"
  a: i32 = sink(s)
  s = "wxyz"
  a + sink(s)
}
`
	got := mustRun(t, src, Options{})
	if got.Int != 6 {
		t.Fatalf("got %d, want 6", got.Int)
	}
}

func TestRunArgsBuiltin(t *testing.T) {
	src := `
main() = bytes_to_str(args())
`
	got := mustRun(t, src, Options{Args: []string{"gaut", "in.gaut"}})
	if got.Str != "gaut\nin.gaut" {
		t.Fatalf("got %q", got.Str)
	}
}

func TestRunStrSliceSentinels(t *testing.T) {
	src := `
main() = {
  s: Str = "abc"
  str_byte_at(copy s, 1) + str_byte_at(s, 99) + str_len(str_slice("abc", 1, 50))
}
`
	// 'b' is 98, out of range reads 0, the slice clamps to "bc"
	got := mustRun(t, src, Options{})
	if got.Int != 100 {
		t.Fatalf("got %d, want 100", got.Int)
	}
}

func TestRunTryReadMissingFile(t *testing.T) {
	src := `
main() = {
  r: ReadFileResult = try_read_file("/no/such/file.gaut")
  copy r.ok
}
`
	got := mustRun(t, src, Options{})
	if got.Kind != ValBool || got.Bool {
		t.Fatalf("got %s, want false", got)
	}
}

func TestRunMoveAtRuntime(t *testing.T) {
	// the checker rejects this statically; the evaluator enforces the
	// same rule when driven over a raw tree
	prog := parseSrc(t, `
sink(s: Str) -> i32 = str_len(s)

main() = {
  s: Str = "x"
  a: i32 = sink(s)
  a + sink(s)
}
`)
	in, err := New(prog, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := in.RunMain(); !errors.Is(err, ErrMoved) {
		t.Fatalf("got %v, want ErrMoved", err)
	}
}
