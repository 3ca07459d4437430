package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gaut/internal/driver"
	"gaut/internal/interp"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [file.gaut] [-- program args]",
	Short: "Compile and execute a gaut program",
	Long:  `Compile a gaut source file and execute it with the arena interpreter. Without an argument the entry point comes from gaut.toml.`,
	Args:  cobra.ArbitraryArgs,
	RunE:  runExecution,
}

func init() {
	runCmd.Flags().Int("arena-cap", 0, "arena capacity in bytes (0=gaut.toml or default)")
	runCmd.Flags().Bool("print-result", false, "print main's result value after the run")
}

func runExecution(cmd *cobra.Command, args []string) error {
	arenaCap, err := cmd.Flags().GetInt("arena-cap")
	if err != nil {
		return fmt.Errorf("failed to get arena-cap flag: %w", err)
	}
	printResult, err := cmd.Flags().GetBool("print-result")
	if err != nil {
		return fmt.Errorf("failed to get print-result flag: %w", err)
	}

	before, programArgs := splitArgsAtDash(cmd, args)
	target, err := resolveRunTarget(before)
	if err != nil {
		return err
	}
	stdDir, err := stdDirFor(cmd, target)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	res, err := driver.Compile(target.path, driver.Options{
		StdDir:         stdDir,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return err
	}
	if !res.Ok() {
		return reportDiagnostics(cmd, res)
	}

	if arenaCap == 0 && target.manifest != nil {
		arenaCap = target.manifest.Config.Arena.Capacity
	}

	in, err := interp.New(res.Program, interp.Options{
		ArenaCap: arenaCap,
		Stdout:   os.Stdout,
		Args:     append([]string{target.path}, programArgs...),
	})
	if err != nil {
		return fmt.Errorf("interp load error: %w", err)
	}
	result, err := in.RunMain()
	if err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}
	if printResult {
		fmt.Fprintln(os.Stdout, result.String())
	}
	return nil
}

// splitArgsAtDash separates the command's own arguments from everything
// after "--", which belongs to the interpreted program.
func splitArgsAtDash(cmd *cobra.Command, args []string) ([]string, []string) {
	at := cmd.ArgsLenAtDash()
	if at < 0 || at > len(args) {
		return args, nil
	}
	return args[:at], args[at:]
}
