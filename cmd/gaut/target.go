package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gaut/internal/diagfmt"
	"gaut/internal/driver"
	"gaut/internal/project"
)

const noManifestMessage = "no gaut.toml found; pass a <file.gaut> argument or run `gaut init`"

// runTarget is the resolved input of a run/build/check invocation.
type runTarget struct {
	path     string
	manifest *project.Manifest
}

// resolveRunTarget picks the source file to compile. An explicit argument
// wins; otherwise the nearest gaut.toml provides [run].main. The manifest
// is looked up in both cases so its [arena] and [run].std sections apply
// to explicit files inside a project tree.
func resolveRunTarget(args []string) (runTarget, error) {
	if len(args) > 0 && filepath.Clean(args[0]) != "." {
		path := args[0]
		manifest, found, err := project.Find(filepath.Dir(path))
		if err != nil {
			return runTarget{}, err
		}
		if !found {
			manifest = nil
		}
		return runTarget{path: path, manifest: manifest}, nil
	}

	manifest, found, err := project.Find(".")
	if err != nil {
		return runTarget{}, err
	}
	if !found {
		return runTarget{}, fmt.Errorf("%s", noManifestMessage)
	}
	path, err := manifest.RunTarget()
	if err != nil {
		return runTarget{}, err
	}
	return runTarget{path: path, manifest: manifest}, nil
}

// stdDirFor resolves the std module directory: --std flag, then the
// manifest's [run].std, then the driver default (GAUT_STD_DIR or "std").
func stdDirFor(cmd *cobra.Command, target runTarget) (string, error) {
	flagValue, err := cmd.Root().PersistentFlags().GetString("std")
	if err != nil {
		return "", fmt.Errorf("failed to get std flag: %w", err)
	}
	if flagValue != "" {
		return flagValue, nil
	}
	if target.manifest != nil {
		return target.manifest.StdDir(), nil
	}
	return "", nil
}

func useColor(cmd *cobra.Command) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout)), nil
}

// reportDiagnostics pretty-prints collected diagnostics to stderr and
// returns a silent error so cobra does not add usage noise on top.
func reportDiagnostics(cmd *cobra.Command, res *driver.Result) error {
	if res != nil && res.Bag != nil && res.Bag.Len() > 0 {
		color, err := useColor(cmd)
		if err != nil {
			return err
		}
		maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
		if err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		diagfmt.Pretty(os.Stderr, res.Bag, res.FileSet, diagfmt.PrettyOpts{
			Color:     color,
			ShowNotes: true,
			Max:       maxDiagnostics,
		})
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("") // diagnostics already printed
}
