// Package runtimeembed carries the C runtime sources generated programs
// link against. The build pipeline materializes them next to the emitted
// translation unit before invoking the C compiler.
package runtimeembed

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed native/*.c native/*.h
var nativeRuntimeFS embed.FS

// NativeRuntimeFS exposes the embedded runtime sources.
func NativeRuntimeFS() fs.FS {
	return nativeRuntimeFS
}

// Materialize writes the runtime sources into dir and returns the paths
// of the written .c files.
func Materialize(dir string) ([]string, error) {
	var cFiles []string
	entries, err := fs.ReadDir(nativeRuntimeFS, "native")
	if err != nil {
		return nil, fmt.Errorf("read embedded runtime: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := fs.ReadFile(nativeRuntimeFS, "native/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read embedded runtime %s: %w", entry.Name(), err)
		}
		dst := filepath.Join(dir, entry.Name())
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return nil, fmt.Errorf("write runtime %s: %w", entry.Name(), err)
		}
		if filepath.Ext(entry.Name()) == ".c" {
			cFiles = append(cFiles, dst)
		}
	}
	return cFiles, nil
}
