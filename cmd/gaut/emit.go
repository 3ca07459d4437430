package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gaut/internal/buildpipeline"
)

var emitCmd = &cobra.Command{
	Use:   "emit [flags] [file.gaut]",
	Short: "Emit the C translation unit for a gaut program",
	Long:  `Compile a gaut source file and write its arena-injected C translation unit without invoking the system C compiler`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEmit,
}

func init() {
	emitCmd.Flags().StringP("output", "o", filepath.Join("target", "gaut_out.c"), "path of the generated C file")
}

func runEmit(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	target, err := resolveRunTarget(args)
	if err != nil {
		return err
	}
	stdDir, err := stdDirFor(cmd, target)
	if err != nil {
		return err
	}

	req := buildpipeline.CompileRequest{
		TargetPath:     target.path,
		StdDir:         stdDir,
		MaxDiagnostics: maxDiagnostics,
	}
	cSource, compileRes, err := buildpipeline.EmitC(cmd.Context(), &req)
	if err != nil {
		if compileRes.Res != nil && !compileRes.Res.Ok() {
			return reportDiagnostics(cmd, compileRes.Res)
		}
		return err
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(output, cSource, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	if showTimings {
		printStageTimings(os.Stdout, compileRes.Timings, false)
	}
	fmt.Fprintf(os.Stdout, "emitted %s\n", filepath.ToSlash(output))
	return nil
}
