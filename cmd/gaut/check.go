package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gaut/internal/diagfmt"
	"gaut/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.gaut]",
	Short: "Run the ownership and lifetime checker",
	Long:  `Parse a gaut source file, resolve its imports and run the ownership, lifetime and type checks without executing anything`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("basename", false, "trim file paths to their base name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	basename, err := cmd.Flags().GetBool("basename")
	if err != nil {
		return fmt.Errorf("failed to get basename flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	target, err := resolveRunTarget(args)
	if err != nil {
		return err
	}
	stdDir, err := stdDirFor(cmd, target)
	if err != nil {
		return err
	}

	res, err := driver.Compile(target.path, driver.Options{
		StdDir:         stdDir,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return err
	}

	pathMode := diagfmt.PathModeFull
	if basename {
		pathMode = diagfmt.PathModeBasename
	}

	switch format {
	case "pretty":
		color, err := useColor(cmd)
		if err != nil {
			return err
		}
		diagfmt.Pretty(os.Stdout, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     color,
			PathMode:  pathMode,
			ShowNotes: withNotes,
			Max:       maxDiagnostics,
		})
	case "json":
		err := diagfmt.JSON(os.Stdout, res.Bag, res.FileSet, diagfmt.JSONOpts{
			PathMode:     pathMode,
			IncludeNotes: withNotes,
			Max:          maxDiagnostics,
		})
		if err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !res.Ok() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // diagnostics already printed
	}
	return nil
}
