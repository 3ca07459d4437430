package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"gaut/internal/ast"
	"gaut/internal/diag"
	"gaut/internal/parser"
	"gaut/internal/source"
)

// loader flattens an import graph into one declaration list. Imports are
// loaded depth first ahead of the importing file, so every name is declared
// before its first use site in the flat program.
type loader struct {
	fs      *source.FileSet
	stdDir  string
	visited map[string]bool
}

func (l *loader) load(entry string, reporter diag.Reporter) (*ast.Program, error) {
	out := &ast.Program{}
	if err := l.loadRecursive(entry, reporter, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *loader) loadRecursive(path string, reporter diag.Reporter, out *ast.Program) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if l.visited[abs] {
		return nil
	}
	l.visited[abs] = true

	id, err := l.fs.Load(abs)
	if err != nil {
		return err
	}
	prog, ok := parseInto(l.fs.Get(id), reporter)
	if !ok {
		// parse diagnostics were reported; stop descending this file
		return nil
	}

	baseDir := filepath.Dir(abs)
	for _, decl := range prog.Decls {
		imp, isImport := decl.(*ast.ImportDecl)
		if !isImport {
			continue
		}
		target, err := l.resolveModule(imp.Module.Name, baseDir)
		if err != nil {
			return err
		}
		if err := l.loadRecursive(target, reporter, out); err != nil {
			return err
		}
	}
	out.Decls = append(out.Decls, prog.Decls...)
	return nil
}

// resolveModule maps an import name to a file: the importing file's
// directory wins over the std directory.
func (l *loader) resolveModule(name, baseDir string) (string, error) {
	local := filepath.Join(baseDir, name+".gaut")
	if fileExists(local) {
		return local, nil
	}
	std := filepath.Join(l.stdDir, name+".gaut")
	if fileExists(std) {
		return std, nil
	}
	return "", fmt.Errorf("module %q not found in %s or %s", name, baseDir, l.stdDir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func parseInto(file *source.File, reporter diag.Reporter) (*ast.Program, bool) {
	return parser.ParseFile(file, reporter)
}
