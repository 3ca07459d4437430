package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gaut/internal/buildpipeline"
	runtimeembed "gaut/runtime"
)

// Toolchain abstracts the pieces of the protocol that touch the host
// pipeline, the C compiler and built stage binaries, so the protocol is
// testable without a native toolchain.
type Toolchain interface {
	// EmitC compiles sourcePath with the trusted host pipeline and
	// returns the generated translation unit.
	EmitC(ctx context.Context, sourcePath string) ([]byte, error)
	// BuildNative links cSource plus the runtime into an executable at
	// outPath.
	BuildNative(ctx context.Context, cSource []byte, outPath string) error
	// RunCompiler invokes a built stage binary on sourcePath and returns
	// the bytes that stage emitted.
	RunCompiler(ctx context.Context, compilerBin, sourcePath string) ([]byte, error)
}

// HostToolchain is the production Toolchain: the in-process frontend and
// generator for stage 0, clang for native builds, and the emit-c CLI
// convention for stage binaries.
type HostToolchain struct {
	// StdDir overrides import resolution for the compiled sources.
	StdDir string
	// PrintCommands echoes external commands before running them.
	PrintCommands bool
}

func (t *HostToolchain) EmitC(ctx context.Context, sourcePath string) ([]byte, error) {
	cSrc, _, err := buildpipeline.EmitC(ctx, &buildpipeline.CompileRequest{
		TargetPath: sourcePath,
		StdDir:     t.StdDir,
	})
	return cSrc, err
}

func (t *HostToolchain) BuildNative(ctx context.Context, cSource []byte, outPath string) error {
	tmpDir, err := os.MkdirTemp(filepath.Dir(outPath), ".build-*")
	if err != nil {
		return fmt.Errorf("build dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	cPath := filepath.Join(tmpDir, "stage.c")
	if err := os.WriteFile(cPath, cSource, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", cPath, err)
	}
	runtimeSources, err := runtimeembed.Materialize(tmpDir)
	if err != nil {
		return err
	}

	args := []string{"-std=gnu11", "-O2", "-I", tmpDir, cPath}
	args = append(args, runtimeSources...)
	args = append(args, "-o", outPath)
	return t.run(ctx, "clang", args...)
}

func (t *HostToolchain) RunCompiler(ctx context.Context, compilerBin, sourcePath string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "gaut-stage-out-*")
	if err != nil {
		return nil, fmt.Errorf("stage out dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outC := filepath.Join(tmpDir, "out.c")
	if err := t.run(ctx, compilerBin, "--emit-c", outC, sourcePath); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(outC)
	if err != nil {
		return nil, fmt.Errorf("read stage output: %w", err)
	}
	return data, nil
}

func (t *HostToolchain) run(ctx context.Context, name string, args ...string) error {
	if t.PrintCommands {
		fmt.Fprintf(os.Stdout, "%s %s\n", name, strings.Join(args, " "))
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("%s: %w", name, err)
		}
		return fmt.Errorf("%s: %s", name, msg)
	}
	return nil
}
