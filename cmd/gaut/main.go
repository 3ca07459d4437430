// Package main implements the gaut CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gaut/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "gaut",
	Short: "Gaut language compiler and toolchain",
	Long:  `Gaut is a block-lifetime systems language with an interpreter, a C emitter and a self-host bootstrap harness`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("std", "", "directory with standard modules (overrides gaut.toml and GAUT_STD_DIR)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 64, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
