package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	runtimeembed "gaut/runtime"
)

// BuildRequest configures native output generation.
type BuildRequest struct {
	CompileRequest
	OutputName    string
	OutputRoot    string
	KeepTmp       bool
	PrintCommands bool
}

// BuildResult captures build artefacts and timings.
type BuildResult struct {
	OutputPath string
	CSourceOut string
	TmpDir     string
	Timings    Timings
}

// Build compiles the target to C, materializes the runtime sources and
// links an executable with the system C compiler.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	reqCopy := *req
	req = &reqCopy

	if req.OutputName == "" {
		req.OutputName = "a.out"
	}
	outputRoot := req.OutputRoot
	if outputRoot == "" {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			cwd = "."
		}
		outputRoot = cwd
	}
	outputDir := filepath.Join(outputRoot, "target")
	outputPath := filepath.Join(outputDir, req.OutputName)
	tmpDir := filepath.Join(outputDir, ".tmp", req.OutputName)
	result.OutputPath = outputPath
	result.TmpDir = tmpDir

	cSrc, compileRes, err := EmitC(ctx, &req.CompileRequest)
	result.Timings = compileRes.Timings
	if err != nil {
		return result, err
	}

	if err := os.MkdirAll(tmpDir, 0o750); err != nil {
		return result, fmt.Errorf("create tmp dir: %w", err)
	}
	cPath := filepath.Join(tmpDir, "out.c")
	result.CSourceOut = cPath
	if err := os.WriteFile(cPath, cSrc, 0o600); err != nil {
		err = fmt.Errorf("write %s: %w", cPath, err)
		emit(req.Progress, req.TargetPath, StageBuild, StatusError, err, 0)
		return result, err
	}

	buildStart := time.Now()
	emit(req.Progress, req.TargetPath, StageBuild, StatusWorking, nil, 0)

	if err := ensureClangAvailable(); err != nil {
		emit(req.Progress, req.TargetPath, StageBuild, StatusError, err, 0)
		return result, err
	}
	runtimeDir := filepath.Join(tmpDir, "native_runtime")
	if err := os.MkdirAll(runtimeDir, 0o750); err != nil {
		return result, fmt.Errorf("create runtime dir: %w", err)
	}
	runtimeSources, err := runtimeembed.Materialize(runtimeDir)
	if err != nil {
		emit(req.Progress, req.TargetPath, StageBuild, StatusError, err, 0)
		return result, err
	}

	args := []string{"-std=gnu11", "-O2", "-I", runtimeDir, cPath}
	args = append(args, runtimeSources...)
	args = append(args, "-o", outputPath)
	if err := runCommand(req.PrintCommands, "clang", args...); err != nil {
		emit(req.Progress, req.TargetPath, StageBuild, StatusError, err, 0)
		return result, err
	}
	result.Timings.Set(StageBuild, time.Since(buildStart))

	if !req.KeepTmp {
		if err := os.RemoveAll(tmpDir); err != nil {
			return result, fmt.Errorf("clean tmp dir: %w", err)
		}
		result.CSourceOut = ""
	}

	emit(req.Progress, req.TargetPath, StageBuild, StatusDone, nil, result.Timings.Duration(StageBuild))
	return result, nil
}

func ensureClangAvailable() error {
	if _, err := exec.LookPath("clang"); err != nil {
		return fmt.Errorf("clang not found in PATH: %w", err)
	}
	return nil
}

func runCommand(printCommands bool, name string, args ...string) error {
	if printCommands {
		fmt.Fprintf(os.Stdout, "%s %s\n", name, strings.Join(args, " "))
	}
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return err
		}
		return fmt.Errorf("%s: %s", name, msg)
	}
	return nil
}
