package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gaut/internal/buildpipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.gaut]",
	Short: "Build a native executable from a gaut program",
	Long:  "Build a gaut program to a native executable: emit C, materialize the arena runtime and link with the system C compiler.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "name of the produced executable (default: project or file name)")
	buildCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
	buildCmd.Flags().Bool("keep-tmp", false, "preserve target/.tmp contents")
	buildCmd.Flags().Bool("print-commands", false, "print C compiler invocations")
}

func runBuild(cmd *cobra.Command, args []string) error {
	outputName, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	keepTmp, err := cmd.Flags().GetBool("keep-tmp")
	if err != nil {
		return fmt.Errorf("failed to get keep-tmp flag: %w", err)
	}
	printCommands, err := cmd.Flags().GetBool("print-commands")
	if err != nil {
		return fmt.Errorf("failed to get print-commands flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	target, err := resolveRunTarget(args)
	if err != nil {
		return err
	}
	stdDir, err := stdDirFor(cmd, target)
	if err != nil {
		return err
	}

	if outputName == "" {
		if target.manifest != nil {
			outputName = target.manifest.Config.Package.Name
		} else {
			outputName = outputNameFromPath(target.path)
		}
	}
	outputRoot := "."
	if target.manifest != nil {
		outputRoot = target.manifest.Root
	} else if cwd, cwdErr := os.Getwd(); cwdErr == nil {
		outputRoot = cwd
	}

	req := buildpipeline.BuildRequest{
		CompileRequest: buildpipeline.CompileRequest{
			TargetPath:     target.path,
			StdDir:         stdDir,
			MaxDiagnostics: maxDiagnostics,
		},
		OutputName:    outputName,
		OutputRoot:    outputRoot,
		KeepTmp:       keepTmp,
		PrintCommands: printCommands,
	}

	var buildRes buildpipeline.BuildResult
	if shouldUseTUI(uiModeValue) {
		buildRes, err = runBuildWithUI(cmd.Context(), "gaut build", []string{target.path}, &req)
	} else {
		buildRes, err = buildpipeline.Build(cmd.Context(), &req)
	}
	if err != nil {
		return err
	}

	if keepTmp {
		fmt.Fprintf(os.Stdout, "tmp dir: %s\n", formatPathForOutput(outputRoot, buildRes.TmpDir))
	}
	if showTimings {
		printStageTimings(os.Stdout, buildRes.Timings, true)
	}
	fmt.Fprintf(os.Stdout, "built %s\n", formatPathForOutput(outputRoot, buildRes.OutputPath))
	return nil
}

func outputNameFromPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return "a.out"
	}
	return name
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	if strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
