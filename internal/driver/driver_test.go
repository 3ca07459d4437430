package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gaut/internal/ast"
)

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func funcNames(prog *ast.Program) []string {
	var names []string
	for _, d := range prog.Decls {
		if f, ok := d.(*ast.FuncDecl); ok {
			names = append(names, f.Name.Name)
		}
	}
	return names
}

func TestCompileFlattensImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "math.gaut", `
add(a: i32, b: i32) -> i32 = a + b
`)
	entry := writeFile(t, dir, "main.gaut", `
import math

main() = add(1, 2)
`)

	res, err := Compile(entry, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Ok() {
		t.Fatalf("compile failed: %+v", res.Bag.Items())
	}
	got := funcNames(res.Program)
	if len(got) != 2 || got[0] != "add" || got[1] != "main" {
		t.Fatalf("imports not flattened ahead: %v", got)
	}
}

func TestCompileDeduplicatesDiamond(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.gaut", `
one() -> i32 = 1
`)
	writeFile(t, dir, "left.gaut", `
import base

two() -> i32 = one() + one()
`)
	writeFile(t, dir, "right.gaut", `
import base

three() -> i32 = one() + 2
`)
	entry := writeFile(t, dir, "main.gaut", `
import left
import right

main() = two() + three()
`)

	res, err := Compile(entry, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Ok() {
		t.Fatalf("compile failed: %+v", res.Bag.Items())
	}
	seen := 0
	for _, name := range funcNames(res.Program) {
		if name == "one" {
			seen++
		}
	}
	if seen != 1 {
		t.Fatalf("base.gaut loaded %d times", seen)
	}
}

func TestCompileStdDirFallback(t *testing.T) {
	std := t.TempDir()
	writeFile(t, std, "strings.gaut", `
shout(s: Str) -> Str = s + "!"
`)
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.gaut", `
import strings

main() = shout("hi")
`)

	res, err := Compile(entry, Options{StdDir: std})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Ok() {
		t.Fatalf("compile failed: %+v", res.Bag.Items())
	}
}

func TestCompileStdDirEnv(t *testing.T) {
	std := t.TempDir()
	writeFile(t, std, "strings.gaut", `
shout(s: Str) -> Str = s + "!"
`)
	t.Setenv("GAUT_STD_DIR", std)

	dir := t.TempDir()
	entry := writeFile(t, dir, "main.gaut", `
import strings

main() = shout("hi")
`)

	res, err := Compile(entry, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Ok() {
		t.Fatalf("compile failed: %+v", res.Bag.Items())
	}
}

func TestCompileLocalShadowsStd(t *testing.T) {
	std := t.TempDir()
	writeFile(t, std, "util.gaut", `
pick() -> i32 = 1
`)
	dir := t.TempDir()
	writeFile(t, dir, "util.gaut", `
pick() -> i32 = 2
`)
	entry := writeFile(t, dir, "main.gaut", `
import util

main() = pick()
`)

	res, err := Compile(entry, Options{StdDir: std})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Ok() {
		t.Fatalf("compile failed: %+v", res.Bag.Items())
	}
	// the entry directory wins, so only one pick() exists; a duplicate
	// would have failed the check above
}

func TestCompileMissingModule(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.gaut", `
import nothere

main() = 0
`)

	_, err := Compile(entry, Options{StdDir: filepath.Join(dir, "std")})
	if err == nil || !strings.Contains(err.Error(), "nothere") {
		t.Fatalf("got %v, want missing module error", err)
	}
}

func TestCompileReportsCheckErrors(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.gaut", `
main() = {
  s: Str = "a"
  t: Str = s
  s
}
`)

	res, err := Compile(entry, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Ok() {
		t.Fatal("compile unexpectedly succeeded")
	}
	if res.Errorf() == nil {
		t.Fatal("Errorf should summarize diagnostics")
	}
}

func TestCompileSource(t *testing.T) {
	res, err := CompileSource("sample.gaut", []byte(`
main() = 42
`), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Ok() {
		t.Fatalf("compile failed: %+v", res.Bag.Items())
	}
	if res.Verified == nil {
		t.Fatal("verified program missing")
	}
}
