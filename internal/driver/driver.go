// Package driver loads Gaut programs from disk, resolves imports and runs
// the frontend. It is the shared entry for the CLI, the build pipeline and
// the bootstrap harness.
package driver

import (
	"fmt"
	"os"

	"gaut/internal/ast"
	"gaut/internal/diag"
	"gaut/internal/sema"
	"gaut/internal/source"
)

// DefaultStdDir is used when neither Options.StdDir nor GAUT_STD_DIR is set.
const DefaultStdDir = "std"

// Options configures a compilation.
type Options struct {
	// StdDir is where 'import name' falls back to after the entry file's
	// directory. Empty means GAUT_STD_DIR, then DefaultStdDir.
	StdDir string
	// MaxDiagnostics caps the diagnostic bag.
	MaxDiagnostics int
}

// DefaultMaxDiagnostics caps a compile's diagnostic bag unless overridden.
const DefaultMaxDiagnostics = 64

func (o Options) stdDir() string {
	if o.StdDir != "" {
		return o.StdDir
	}
	if dir := os.Getenv("GAUT_STD_DIR"); dir != "" {
		return dir
	}
	return DefaultStdDir
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return DefaultMaxDiagnostics
}

// Result is the outcome of one compile. Verified is nil when any stage
// reported errors; Bag holds whatever was reported.
type Result struct {
	FileSet  *source.FileSet
	Program  *ast.Program
	Verified *sema.Program
	Bag      *diag.Bag
}

// Ok reports whether the program parsed and checked cleanly.
func (r *Result) Ok() bool {
	return r != nil && r.Verified != nil && !r.Bag.HasErrors()
}

// Compile loads entry and its imports, parses every file into one flat
// program and runs the checker over it.
func Compile(entry string, opts Options) (*Result, error) {
	res := &Result{
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.maxDiagnostics()),
	}
	reporter := diag.BagReporter{Bag: res.Bag}

	ld := &loader{
		fs:      res.FileSet,
		stdDir:  opts.stdDir(),
		visited: make(map[string]bool),
	}
	prog, err := ld.load(entry, reporter)
	if err != nil {
		return res, err
	}
	res.Program = prog
	if res.Bag.HasErrors() {
		return res, nil
	}

	verified, ok := sema.Check(prog, reporter)
	if ok {
		res.Verified = verified
	}
	return res, nil
}

// CompileSource checks an in-memory file, bypassing import resolution.
// Used by the bootstrap harness for corpus samples.
func CompileSource(name string, src []byte, opts Options) (*Result, error) {
	res := &Result{
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.maxDiagnostics()),
	}
	reporter := diag.BagReporter{Bag: res.Bag}

	id := res.FileSet.Add(name, src)
	prog, ok := parseInto(res.FileSet.Get(id), reporter)
	if !ok {
		return res, nil
	}
	res.Program = prog

	verified, checked := sema.Check(prog, reporter)
	if checked {
		res.Verified = verified
	}
	return res, nil
}

// Errorf formats the first counted diagnostics into a single error, for
// callers that do not render diagnostics themselves.
func (r *Result) Errorf() error {
	if r.Ok() {
		return nil
	}
	items := r.Bag.Items()
	if len(items) == 0 {
		return fmt.Errorf("compilation failed")
	}
	first := items[0]
	return fmt.Errorf("%s: %s (%d diagnostic(s))", first.Code.ID(), first.Message, len(items))
}
